package handler

import (
	"github.com/deppfellow/memwarzz/internal/server"
	"github.com/deppfellow/memwarzz/internal/service"
)

// Handlers groups every HTTP handler for the router.
type Handlers struct {
	Health       *HealthHandler
	OpenAPI      *OpenAPIHandler
	EmailPreview *EmailPreviewHandler
	Auth         *AuthHandler
	Profile      *ProfileHandler
	Meme         *MemeHandler
	Battle       *BattleHandler
	Engagement   *EngagementHandler
	Feed         *FeedHandler
	Sponsor      *SponsorHandler
	Token        *TokenHandler
	Upload       *UploadHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(s),
		OpenAPI:      NewOpenAPIHandler(s),
		EmailPreview: NewEmailPreviewHandler(s),
		Auth:         NewAuthHandler(s, services.Auth),
		Profile:      NewProfileHandler(s, services.Profile, services.Follow),
		Meme:         NewMemeHandler(s, services.Meme),
		Battle:       NewBattleHandler(s, services.Battle),
		Engagement:   NewEngagementHandler(s, services.Engagement),
		Feed:         NewFeedHandler(s, services.Feed),
		Sponsor:      NewSponsorHandler(s, services.Sponsor),
		Token:        NewTokenHandler(s, services.Token),
		Upload:       NewUploadHandler(s, services.Upload),
	}
}
