package handler

import (
	"github.com/deppfellow/memwarzz/internal/middleware"
	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/deppfellow/memwarzz/internal/server"
	"github.com/deppfellow/memwarzz/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// EngagementHandler serves likes and comments on /posts/:type/:id, where
// type is "meme" or "battle".
type EngagementHandler struct {
	Handler
	engagementService *service.EngagementService
}

func NewEngagementHandler(s *server.Server, engagementService *service.EngagementService) *EngagementHandler {
	return &EngagementHandler{
		Handler:           NewHandler(s),
		engagementService: engagementService,
	}
}

func (h *EngagementHandler) ToggleLike(c echo.Context, req *model.PostRequest) (*model.LikeState, error) {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return nil, err
	}
	return h.engagementService.ToggleLike(c.Request().Context(), userID, req.Type, model.ParseID(req.ID))
}

func (h *EngagementHandler) LikesCount(c echo.Context, req *model.PostRequest) (*model.LikesCountResponse, error) {
	return h.engagementService.LikesCount(c.Request().Context(), req.Type, model.ParseID(req.ID))
}

func (h *EngagementHandler) AddComment(c echo.Context, req *model.AddCommentRequest) (*model.Comment, error) {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return nil, err
	}

	var parentID *uuid.UUID
	if req.ParentCommentID != nil && *req.ParentCommentID != "" {
		id := model.ParseID(*req.ParentCommentID)
		parentID = &id
	}

	return h.engagementService.AddComment(c.Request().Context(), userID, req.Type, model.ParseID(req.ID), req.Content, parentID)
}

func (h *EngagementHandler) ListComments(c echo.Context, req *model.PostRequest) ([]model.Comment, error) {
	return h.engagementService.ListComments(c.Request().Context(), req.Type, model.ParseID(req.ID))
}
