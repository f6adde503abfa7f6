package handler

import (
	"github.com/deppfellow/memwarzz/internal/middleware"
	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/deppfellow/memwarzz/internal/server"
	"github.com/deppfellow/memwarzz/internal/service"
	"github.com/labstack/echo/v4"
)

type MemeHandler struct {
	Handler
	memeService *service.MemeService
}

func NewMemeHandler(s *server.Server, memeService *service.MemeService) *MemeHandler {
	return &MemeHandler{
		Handler:     NewHandler(s),
		memeService: memeService,
	}
}

// CreateMeme takes a multipart form with an "image" part and an optional
// "caption" field.
func (h *MemeHandler) CreateMeme(c echo.Context, req *model.CreateMemeRequest) (*model.Meme, error) {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return nil, err
	}

	image, closeImage, err := formFile(c, "image")
	if err != nil {
		return nil, err
	}
	defer closeImage()

	return h.memeService.CreateMeme(c.Request().Context(), userID, image, req.Caption)
}

func (h *MemeHandler) GetMeme(c echo.Context, req *model.MemeIDRequest) (*model.Meme, error) {
	return h.memeService.GetMeme(c.Request().Context(), model.ParseID(req.ID), middleware.GetViewerID(c))
}

func (h *MemeHandler) DeleteMeme(c echo.Context, req *model.MemeIDRequest) error {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return err
	}
	return h.memeService.DeleteMeme(c.Request().Context(), userID, model.ParseID(req.ID))
}
