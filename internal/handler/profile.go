package handler

import (
	"github.com/deppfellow/memwarzz/internal/middleware"
	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/deppfellow/memwarzz/internal/server"
	"github.com/deppfellow/memwarzz/internal/service"
	"github.com/labstack/echo/v4"
)

// ProfileHandler serves profiles, the profile page tabs and follows.
type ProfileHandler struct {
	Handler
	profileService *service.ProfileService
	followService  *service.FollowService
}

func NewProfileHandler(s *server.Server, profileService *service.ProfileService, followService *service.FollowService) *ProfileHandler {
	return &ProfileHandler{
		Handler:        NewHandler(s),
		profileService: profileService,
		followService:  followService,
	}
}

func (h *ProfileHandler) CreateProfile(c echo.Context, req *model.CreateProfileRequest) (*model.Profile, error) {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return nil, err
	}
	return h.profileService.CreateProfile(c.Request().Context(), userID, req)
}

func (h *ProfileHandler) GetMe(c echo.Context, req *model.MeRequest) (*model.ProfileDetails, error) {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return nil, err
	}
	return h.profileService.GetMe(c.Request().Context(), userID)
}

func (h *ProfileHandler) UpdateMe(c echo.Context, req *model.UpdateProfileRequest) (*model.Profile, error) {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return nil, err
	}
	return h.profileService.UpdateMe(c.Request().Context(), userID, req)
}

func (h *ProfileHandler) GetByHandle(c echo.Context, req *model.GetProfileRequest) (*model.ProfileDetails, error) {
	return h.profileService.GetByHandle(c.Request().Context(), req.Handle, middleware.GetViewerID(c))
}

func (h *ProfileHandler) ListMemes(c echo.Context, req *model.ProfileTabRequest) ([]model.Meme, error) {
	return h.profileService.ListMemes(c.Request().Context(), req.Handle, middleware.GetViewerID(c), req.Limit)
}

func (h *ProfileHandler) ListBattles(c echo.Context, req *model.ProfileTabRequest) ([]model.Battle, error) {
	return h.profileService.ListBattles(c.Request().Context(), req.Handle, middleware.GetViewerID(c), req.Limit)
}

func (h *ProfileHandler) ListLikedMemes(c echo.Context, req *model.ProfileTabRequest) ([]model.Meme, error) {
	return h.profileService.ListLikedMemes(c.Request().Context(), req.Handle, middleware.GetViewerID(c), req.Limit)
}

func (h *ProfileHandler) ListMemeCoins(c echo.Context, req *model.ProfileTabRequest) ([]model.MemeCoin, error) {
	return h.profileService.ListMemeCoins(c.Request().Context(), req.Handle, req.Limit)
}

// Follow and Unfollow answer with the target's fresh counts.
func (h *ProfileHandler) Follow(c echo.Context, req *model.FollowRequest) (*model.FollowStats, error) {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return nil, err
	}
	return h.followService.Follow(c.Request().Context(), userID, req.Handle)
}

func (h *ProfileHandler) Unfollow(c echo.Context, req *model.FollowRequest) (*model.FollowStats, error) {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return nil, err
	}
	return h.followService.Unfollow(c.Request().Context(), userID, req.Handle)
}

func (h *ProfileHandler) MyFollowStats(c echo.Context, req *model.MeRequest) (*model.FollowStats, error) {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return nil, err
	}
	return h.followService.Stats(c.Request().Context(), userID)
}
