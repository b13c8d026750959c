// Package leaderboard ranks tracked subjects by trust score and reports
// each subject's score trend.
package leaderboard

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/aandrewsv/health-claims-verifier/internal/cache"
	"github.com/aandrewsv/health-claims-verifier/internal/model"
	"github.com/aandrewsv/health-claims-verifier/internal/score"
	"github.com/aandrewsv/health-claims-verifier/internal/store"
)

// Service builds the leaderboard from the store, with optional short-TTL
// caching in front of it
type Service struct {
	subjects *store.SubjectRepo
	claims   *store.ClaimRepo
	cache    cache.Cache
	ttl      time.Duration
}

// NewService creates a leaderboard service. A nil cache disables caching.
func NewService(subjects *store.SubjectRepo, claims *store.ClaimRepo, c cache.Cache, ttl time.Duration) *Service {
	return &Service{subjects: subjects, claims: claims, cache: c, ttl: ttl}
}

// Get returns aggregate stats plus every subject ranked by trust score
// descending, each with its trend.
func (s *Service) Get() (*model.Leaderboard, error) {
	key := cache.Key("leaderboard")
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			var board model.Leaderboard
			if err := json.Unmarshal(cached, &board); err == nil {
				return &board, nil
			}
		}
	}

	board, err := s.build()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(board); err == nil {
			_ = s.cache.Set(key, encoded, s.ttl)
		}
	}
	return board, nil
}

func (s *Service) build() (*model.Leaderboard, error) {
	ranked, err := s.subjects.RankedByTrustScore()
	if err != nil {
		return nil, fmt.Errorf("rank subjects: %w", err)
	}
	totalClaims, err := s.claims.CountAll()
	if err != nil {
		return nil, fmt.Errorf("count claims: %w", err)
	}

	board := &model.Leaderboard{
		Stats: model.LeaderboardStats{
			TotalSubjects: int64(len(ranked)),
			TotalClaims:   totalClaims,
		},
		Subjects: make([]model.LeaderboardEntry, 0, len(ranked)),
	}

	var scoreSum float64
	for _, subject := range ranked {
		scoreSum += subject.TrustScore

		chronological, err := s.claims.BySubjectChronological(subject.ID)
		if err != nil {
			return nil, fmt.Errorf("load claims for %s: %w", subject.CanonicalName, err)
		}

		board.Subjects = append(board.Subjects, model.LeaderboardEntry{
			ID:                  subject.ID,
			CanonicalName:       subject.CanonicalName,
			TrustScore:          subject.TrustScore,
			FollowerCount:       subject.FollowerCount,
			VerifiedClaimsCount: subject.VerifiedClaimsCount,
			Trend:               score.Trend(chronological),
		})
	}
	if len(ranked) > 0 {
		board.Stats.AverageTrustScore = math.Round(scoreSum/float64(len(ranked))*100) / 100
	}
	return board, nil
}
