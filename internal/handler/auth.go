package handler

import (
	"github.com/deppfellow/memwarzz/internal/middleware"
	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/deppfellow/memwarzz/internal/server"
	"github.com/deppfellow/memwarzz/internal/service"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	Handler
	authService *service.AuthService
}

func NewAuthHandler(s *server.Server, authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		Handler:     NewHandler(s),
		authService: authService,
	}
}

func (h *AuthHandler) SignUp(c echo.Context, req *model.SignUpRequest) (*model.SignUpResponse, error) {
	return h.authService.SignUp(c.Request().Context(), req)
}

func (h *AuthHandler) SignIn(c echo.Context, req *model.SignInRequest) (*model.AuthSession, error) {
	return h.authService.SignIn(c.Request().Context(), req)
}

func (h *AuthHandler) SignOut(c echo.Context, req *model.SignOutRequest) error {
	return h.authService.SignOut(c.Request().Context(), middleware.GetAccessToken(c))
}

func (h *AuthHandler) Session(c echo.Context, req *model.SessionRequest) (*model.SessionInfo, error) {
	return h.authService.Session(c.Request().Context(), middleware.GetUserID(c))
}
