package handler

import (
	"github.com/deppfellow/memwarzz/internal/middleware"
	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/deppfellow/memwarzz/internal/server"
	"github.com/deppfellow/memwarzz/internal/service"
	"github.com/labstack/echo/v4"
)

type BattleHandler struct {
	Handler
	battleService *service.BattleService
}

func NewBattleHandler(s *server.Server, battleService *service.BattleService) *BattleHandler {
	return &BattleHandler{
		Handler:       NewHandler(s),
		battleService: battleService,
	}
}

func (h *BattleHandler) StartBattle(c echo.Context, req *model.StartBattleRequest) (*model.Battle, error) {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return nil, err
	}
	return h.battleService.StartBattle(c.Request().Context(), userID, req)
}

func (h *BattleHandler) GetBattle(c echo.Context, req *model.BattleIDRequest) (*model.Battle, error) {
	return h.battleService.GetBattle(c.Request().Context(), model.ParseID(req.ID), middleware.GetViewerID(c))
}

func (h *BattleHandler) Vote(c echo.Context, req *model.VoteRequest) (*model.VoteResult, error) {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return nil, err
	}
	return h.battleService.Vote(c.Request().Context(), userID, model.ParseID(req.ID), model.ParseID(req.VotedMemeID))
}

func (h *BattleHandler) Votes(c echo.Context, req *model.BattleIDRequest) (*model.BattleVotes, error) {
	return h.battleService.Votes(c.Request().Context(), model.ParseID(req.ID))
}

func (h *BattleHandler) CloseBattle(c echo.Context, req *model.BattleIDRequest) (*model.Battle, error) {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return nil, err
	}
	return h.battleService.CloseBattle(c.Request().Context(), userID, model.ParseID(req.ID))
}
