package handler

import (
	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/deppfellow/memwarzz/internal/server"
	"github.com/deppfellow/memwarzz/internal/service"
	"github.com/labstack/echo/v4"
)

type UploadHandler struct {
	Handler
	uploadService *service.UploadService
}

func NewUploadHandler(s *server.Server, uploadService *service.UploadService) *UploadHandler {
	return &UploadHandler{
		Handler:       NewHandler(s),
		uploadService: uploadService,
	}
}

// UploadToIPFS pins the multipart "file" part.
func (h *UploadHandler) UploadToIPFS(c echo.Context, req *model.UploadRequest) (*model.UploadResponse, error) {
	file, closeFile, err := formFile(c, "file")
	if err != nil {
		return nil, err
	}
	defer closeFile()

	return h.uploadService.UploadToIPFS(c.Request().Context(), file)
}
