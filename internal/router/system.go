package router

import (
	"net/http"

	"github.com/deppfellow/memwarzz/internal/handler"
	"github.com/deppfellow/memwarzz/internal/metrics"
	"github.com/deppfellow/memwarzz/internal/server"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes mounts the routes outside the versioned API.
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
	r.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	r.Static("/static", "static")
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)

	if s.Config.Primary.Env == "local" {
		r.GET("/emails/:template", handler.HandleFile(
			h.EmailPreview.Handler,
			h.EmailPreview.Preview,
			http.StatusOK,
			&handler.EmailPreviewRequest{},
			"preview.html",
			echo.MIMETextHTMLCharsetUTF8,
		))
	}
}
