package handler

import (
	"github.com/deppfellow/memwarzz/internal/middleware"
	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/deppfellow/memwarzz/internal/server"
	"github.com/deppfellow/memwarzz/internal/service"
	"github.com/labstack/echo/v4"
)

type FeedHandler struct {
	Handler
	feedService *service.FeedService
}

func NewFeedHandler(s *server.Server, feedService *service.FeedService) *FeedHandler {
	return &FeedHandler{
		Handler:     NewHandler(s),
		feedService: feedService,
	}
}

// GetFeed serves GET /feed?before=<next_cursor>&limit=<n>. Anonymous
// viewers get has_liked and has_voted as false.
func (h *FeedHandler) GetFeed(c echo.Context, req *model.FeedRequest) (*model.Feed, error) {
	return h.feedService.GetFeed(c.Request().Context(), middleware.GetViewerID(c), req.Cursor(), req.Limit)
}
