// Package server exposes the verification and analysis operations over
// HTTP.
package server

import (
	"github.com/gin-gonic/gin"

	"github.com/aandrewsv/health-claims-verifier/internal/leaderboard"
	"github.com/aandrewsv/health-claims-verifier/internal/pipeline"
	"github.com/aandrewsv/health-claims-verifier/internal/store"
	"github.com/aandrewsv/health-claims-verifier/internal/verify"
)

// Server wires the HTTP API to the application services
type Server struct {
	verifier    *verify.Verifier
	pipeline    *pipeline.Pipeline
	leaderboard *leaderboard.Service
	subjects    *store.SubjectRepo
	claims      *store.ClaimRepo
}

// NewServer creates a server over the given services
func NewServer(verifier *verify.Verifier, p *pipeline.Pipeline, board *leaderboard.Service, subjects *store.SubjectRepo, claims *store.ClaimRepo) *Server {
	return &Server{
		verifier:    verifier,
		pipeline:    p,
		leaderboard: board,
		subjects:    subjects,
		claims:      claims,
	}
}

// Router builds the gin engine with all routes registered
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	r.GET("/health", s.HealthCheck)

	api := r.Group("/api")
	{
		api.POST("/verify", s.VerifyInfluencer)
		api.POST("/analyze", s.AnalyzeInfluencer)
		api.GET("/leaderboard", s.GetLeaderboard)
		api.GET("/influencers/:id", s.GetInfluencer)
	}

	return r
}

// Run starts the HTTP server on addr, blocking until it exits
func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}
