package handler

import (
	"github.com/deppfellow/memwarzz/internal/middleware"
	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/deppfellow/memwarzz/internal/server"
	"github.com/deppfellow/memwarzz/internal/service"
	"github.com/labstack/echo/v4"
)

type SponsorHandler struct {
	Handler
	sponsorService *service.SponsorService
}

func NewSponsorHandler(s *server.Server, sponsorService *service.SponsorService) *SponsorHandler {
	return &SponsorHandler{
		Handler:        NewHandler(s),
		sponsorService: sponsorService,
	}
}

func (h *SponsorHandler) CreateSponsor(c echo.Context, req *model.CreateSponsorRequest) (*model.Sponsor, error) {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return nil, err
	}
	return h.sponsorService.CreateSponsor(c.Request().Context(), userID, req)
}

func (h *SponsorHandler) ListSponsors(c echo.Context, req *model.ListSponsorsRequest) ([]model.Sponsor, error) {
	return h.sponsorService.ListSponsors(c.Request().Context())
}

func (h *SponsorHandler) GetMainSponsor(c echo.Context, req *model.ListSponsorsRequest) (*model.Sponsor, error) {
	return h.sponsorService.GetMainSponsor(c.Request().Context())
}

func (h *SponsorHandler) PlaceBid(c echo.Context, req *model.PlaceBidRequest) (*model.BidResult, error) {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return nil, err
	}
	return h.sponsorService.PlaceBid(c.Request().Context(), userID, model.ParseID(req.ID), req.AmountUSD)
}
