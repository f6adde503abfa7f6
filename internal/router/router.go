// Package router builds the echo instance: global middleware in order, the
// system routes and the /api/v1 route table.
package router

import (
	"net/http"

	"github.com/deppfellow/memwarzz/internal/handler"
	"github.com/deppfellow/memwarzz/internal/metrics"
	"github.com/deppfellow/memwarzz/internal/middleware"
	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/deppfellow/memwarzz/internal/server"
	"github.com/labstack/echo/v4"
)

func NewRouter(s *server.Server, h *handler.Handlers, mw *middleware.Middlewares) *echo.Echo {
	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = mw.Global.GlobalErrorHandler

	// the context logger needs the request id and the New Relic transaction
	router.Use(
		middleware.RequestID(),
		mw.Tracing.NewRelicMiddleware(),
		mw.Tracing.EnhanceTracing(),
		mw.ContextEnhancer.EnhanceContext(),
		mw.Global.RequestLogger(),
		mw.Global.Recover(),
		mw.Global.Secure(),
		mw.Global.CORS(),
		mw.Global.BodyLimit(),
		metrics.Middleware(),
	)

	registerSystemRoutes(router, s, h)

	v1 := router.Group("/api/v1")
	registerAPIRoutes(v1, h, mw)

	return router
}

func registerAPIRoutes(api *echo.Group, h *handler.Handlers, mw *middleware.Middlewares) {
	auth := mw.Auth.RequireAuth
	optional := mw.Auth.OptionalAuth
	limit := mw.RateLimit.Limit()

	a := api.Group("/auth")
	a.POST("/signup", handler.Handle(h.Auth.Handler, h.Auth.SignUp, http.StatusCreated, &model.SignUpRequest{}), limit)
	a.POST("/signin", handler.Handle(h.Auth.Handler, h.Auth.SignIn, http.StatusOK, &model.SignInRequest{}), limit)
	a.POST("/signout", handler.HandleNoContent(h.Auth.Handler, h.Auth.SignOut, http.StatusNoContent, &model.SignOutRequest{}), auth)
	a.GET("/session", handler.Handle(h.Auth.Handler, h.Auth.Session, http.StatusOK, &model.SessionRequest{}), auth)

	p := api.Group("/profiles")
	p.POST("", handler.Handle(h.Profile.Handler, h.Profile.CreateProfile, http.StatusCreated, &model.CreateProfileRequest{}), auth)
	p.GET("/me", handler.Handle(h.Profile.Handler, h.Profile.GetMe, http.StatusOK, &model.MeRequest{}), auth)
	p.PATCH("/me", handler.Handle(h.Profile.Handler, h.Profile.UpdateMe, http.StatusOK, &model.UpdateProfileRequest{}), auth)
	p.GET("/me/follows", handler.Handle(h.Profile.Handler, h.Profile.MyFollowStats, http.StatusOK, &model.MeRequest{}), auth)
	p.GET("/:handle", handler.Handle(h.Profile.Handler, h.Profile.GetByHandle, http.StatusOK, &model.GetProfileRequest{}), optional)
	p.GET("/:handle/memes", handler.Handle(h.Profile.Handler, h.Profile.ListMemes, http.StatusOK, &model.ProfileTabRequest{}), optional)
	p.GET("/:handle/battles", handler.Handle(h.Profile.Handler, h.Profile.ListBattles, http.StatusOK, &model.ProfileTabRequest{}), optional)
	p.GET("/:handle/likes", handler.Handle(h.Profile.Handler, h.Profile.ListLikedMemes, http.StatusOK, &model.ProfileTabRequest{}), optional)
	p.GET("/:handle/coins", handler.Handle(h.Profile.Handler, h.Profile.ListMemeCoins, http.StatusOK, &model.ProfileTabRequest{}))
	p.POST("/:handle/follow", handler.Handle(h.Profile.Handler, h.Profile.Follow, http.StatusOK, &model.FollowRequest{}), auth, limit)
	p.DELETE("/:handle/follow", handler.Handle(h.Profile.Handler, h.Profile.Unfollow, http.StatusOK, &model.FollowRequest{}), auth)

	api.GET("/feed", handler.Handle(h.Feed.Handler, h.Feed.GetFeed, http.StatusOK, &model.FeedRequest{}), optional)

	m := api.Group("/memes")
	m.POST("", handler.Handle(h.Meme.Handler, h.Meme.CreateMeme, http.StatusCreated, &model.CreateMemeRequest{}), auth, limit)
	m.GET("/:id", handler.Handle(h.Meme.Handler, h.Meme.GetMeme, http.StatusOK, &model.MemeIDRequest{}), optional)
	m.DELETE("/:id", handler.HandleNoContent(h.Meme.Handler, h.Meme.DeleteMeme, http.StatusNoContent, &model.MemeIDRequest{}), auth)

	b := api.Group("/battles")
	b.POST("", handler.Handle(h.Battle.Handler, h.Battle.StartBattle, http.StatusCreated, &model.StartBattleRequest{}), auth, limit)
	b.GET("/:id", handler.Handle(h.Battle.Handler, h.Battle.GetBattle, http.StatusOK, &model.BattleIDRequest{}), optional)
	b.GET("/:id/votes", handler.Handle(h.Battle.Handler, h.Battle.Votes, http.StatusOK, &model.BattleIDRequest{}))
	b.POST("/:id/votes", handler.Handle(h.Battle.Handler, h.Battle.Vote, http.StatusCreated, &model.VoteRequest{}), auth, limit)
	b.POST("/:id/close", handler.Handle(h.Battle.Handler, h.Battle.CloseBattle, http.StatusOK, &model.BattleIDRequest{}), auth)

	post := api.Group("/posts/:type/:id")
	post.POST("/like", handler.Handle(h.Engagement.Handler, h.Engagement.ToggleLike, http.StatusOK, &model.PostRequest{}), auth, limit)
	post.GET("/likes", handler.Handle(h.Engagement.Handler, h.Engagement.LikesCount, http.StatusOK, &model.PostRequest{}))
	post.GET("/comments", handler.Handle(h.Engagement.Handler, h.Engagement.ListComments, http.StatusOK, &model.PostRequest{}))
	post.POST("/comments", handler.Handle(h.Engagement.Handler, h.Engagement.AddComment, http.StatusCreated, &model.AddCommentRequest{}), auth, limit)

	sp := api.Group("/sponsors")
	sp.GET("", handler.Handle(h.Sponsor.Handler, h.Sponsor.ListSponsors, http.StatusOK, &model.ListSponsorsRequest{}))
	sp.GET("/main", handler.Handle(h.Sponsor.Handler, h.Sponsor.GetMainSponsor, http.StatusOK, &model.ListSponsorsRequest{}))
	sp.POST("", handler.Handle(h.Sponsor.Handler, h.Sponsor.CreateSponsor, http.StatusCreated, &model.CreateSponsorRequest{}), auth, limit)
	sp.POST("/:id/bids", handler.Handle(h.Sponsor.Handler, h.Sponsor.PlaceBid, http.StatusCreated, &model.PlaceBidRequest{}), auth, limit)

	c := api.Group("/coins")
	c.GET("/fee-estimate", handler.Handle(h.Token.Handler, h.Token.EstimateFee, http.StatusOK, &model.FeeEstimateRequest{}))
	c.POST("/validate", handler.Handle(h.Token.Handler, h.Token.ValidateDraft, http.StatusOK, &model.MemeCoinForm{}), limit)
	c.POST("", handler.Handle(h.Token.Handler, h.Token.CreateDraft, http.StatusCreated, &model.MemeCoinForm{}), auth, limit)

	api.POST("/uploads/ipfs", handler.Handle(h.Upload.Handler, h.Upload.UploadToIPFS, http.StatusOK, &model.UploadRequest{}), auth, limit)
}
