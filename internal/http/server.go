// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"net/http"

	"github.com/easonlin404/limit"
	"github.com/gin-gonic/gin"

	"ridepool/internal/http/handlers"
	"ridepool/internal/http/middleware"
	"ridepool/internal/infra"
)

type ServerDeps struct {
	Runs handlers.RunService
	// Verifier may be nil, in which case the API is open.
	Verifier      infra.TokenVerifier
	MaxConcurrent int
	DefaultSort   bool
}

type Server struct {
	runs          *handlers.RunHandler
	verifier      infra.TokenVerifier
	maxConcurrent int
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		runs:          handlers.NewRunHandler(deps.Runs, deps.DefaultSort),
		verifier:      deps.Verifier,
		maxConcurrent: deps.MaxConcurrent,
	}
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logging())
	if s.maxConcurrent > 0 {
		r.Use(limit.Limit(s.maxConcurrent))
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api", middleware.Auth(s.verifier))
	api.POST("/runs", s.runs.Submit)
	api.GET("/runs", s.runs.List)
	api.GET("/runs/:id", s.runs.Get)
	api.GET("/runs/:id/output", s.runs.Output)
	api.POST("/runs/:id/insight", s.runs.Insight)
	return r
}
