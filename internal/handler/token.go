package handler

import (
	"github.com/deppfellow/memwarzz/internal/middleware"
	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/deppfellow/memwarzz/internal/server"
	"github.com/deppfellow/memwarzz/internal/service"
	"github.com/labstack/echo/v4"
)

// TokenHandler serves the meme coin draft form. The form is multipart with
// the token image in the "image" part.
type TokenHandler struct {
	Handler
	tokenService *service.TokenService
}

func NewTokenHandler(s *server.Server, tokenService *service.TokenService) *TokenHandler {
	return &TokenHandler{
		Handler:      NewHandler(s),
		tokenService: tokenService,
	}
}

func (h *TokenHandler) EstimateFee(c echo.Context, req *model.FeeEstimateRequest) (*model.FeeEstimate, error) {
	fee := h.tokenService.EstimateFee(req.RevokeMint, req.RevokeFreeze)
	return &fee, nil
}

func (h *TokenHandler) ValidateDraft(c echo.Context, req *model.MemeCoinForm) (*model.DraftValidation, error) {
	image, closeImage, err := formFile(c, "image")
	if err != nil {
		return nil, err
	}
	defer closeImage()

	return h.tokenService.ValidateDraft(req, image)
}

func (h *TokenHandler) CreateDraft(c echo.Context, req *model.MemeCoinForm) (*model.MemeCoin, error) {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return nil, err
	}

	image, closeImage, err := formFile(c, "image")
	if err != nil {
		return nil, err
	}
	defer closeImage()

	return h.tokenService.CreateDraft(c.Request().Context(), userID, req, image)
}
