package handler

import (
	"github.com/deppfellow/memwarzz/internal/errs"
	"github.com/deppfellow/memwarzz/internal/lib/email"
	"github.com/deppfellow/memwarzz/internal/server"
	"github.com/deppfellow/memwarzz/internal/validation"
	"github.com/labstack/echo/v4"
)

// EmailPreviewHandler renders the transactional email templates with
// sample data. The router only mounts it in the local environment.
type EmailPreviewHandler struct {
	Handler
}

func NewEmailPreviewHandler(s *server.Server) *EmailPreviewHandler {
	return &EmailPreviewHandler{
		Handler: NewHandler(s),
	}
}

type EmailPreviewRequest struct {
	Template string `param:"template" validate:"required,oneof=welcome sponsor_outbid battle_result"`
}

func (r *EmailPreviewRequest) Validate() error {
	return validation.Struct(r)
}

func (h *EmailPreviewHandler) Preview(c echo.Context, req *EmailPreviewRequest) ([]byte, error) {
	name := email.Template(req.Template)

	data, ok := email.PreviewData[name]
	if !ok {
		return nil, errs.NewNotFoundError("Email template not found", true, nil)
	}

	html, err := email.Render(name, data)
	if err != nil {
		return nil, err
	}
	return []byte(html), nil
}
