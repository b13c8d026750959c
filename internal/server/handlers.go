package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aandrewsv/health-claims-verifier/internal/pipeline"
	"github.com/aandrewsv/health-claims-verifier/internal/store"
	"github.com/aandrewsv/health-claims-verifier/internal/verify"
)

// apiError maps application errors onto HTTP status classes. Only the
// message crosses the boundary, never internal detail.
func apiError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrSubjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, verify.ErrNotAHealthInfluencer):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// HealthCheck handles GET /health
func (s *Server) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type verifyRequest struct {
	Name string `json:"name" binding:"required"`
}

// VerifyInfluencer handles POST /api/verify
func (s *Server) VerifyInfluencer(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	result, err := s.verifier.Verify(c.Request.Context(), req.Name)
	if err != nil {
		apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type analyzeRequest struct {
	Name          string   `json:"name" binding:"required"`
	RecencyFilter string   `json:"recency_filter"`
	ClaimsLimit   int      `json:"claims_limit"`
	Journals      []string `json:"journals"`
}

// AnalyzeInfluencer handles POST /api/analyze
func (s *Server) AnalyzeInfluencer(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	report, err := s.pipeline.Run(c.Request.Context(), req.Name, pipeline.RunOptions{
		ClaimsLimit:   req.ClaimsLimit,
		RecencyFilter: req.RecencyFilter,
		Journals:      req.Journals,
	})
	if err != nil {
		apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetLeaderboard handles GET /api/leaderboard
func (s *Server) GetLeaderboard(c *gin.Context) {
	board, err := s.leaderboard.Get()
	if err != nil {
		apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// GetInfluencer handles GET /api/influencers/:id, returning the subject
// with its claims newest first
func (s *Server) GetInfluencer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid influencer id"})
		return
	}

	subject, err := s.subjects.ByID(id)
	if err != nil {
		apiError(c, err)
		return
	}
	claims, err := s.claims.BySubjectNewestFirst(id)
	if err != nil {
		apiError(c, err)
		return
	}
	subject.Claims = claims

	c.JSON(http.StatusOK, subject)
}
