// Package score computes the trust score and leaderboard trend from a
// subject's persisted claim set.
package score

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/aandrewsv/health-claims-verifier/internal/store"
)

// Aggregator recomputes a subject's trust score from the full persisted
// claim-status distribution. Every run recomputes from scratch rather
// than applying an incremental delta, so the stored score is always
// consistent with the claim table even after a partially failed run.
type Aggregator struct {
	subjects *store.SubjectRepo
	claims   *store.ClaimRepo
}

// NewAggregator creates a trust score aggregator
func NewAggregator(subjects *store.SubjectRepo, claims *store.ClaimRepo) *Aggregator {
	return &Aggregator{subjects: subjects, claims: claims}
}

// Result carries the recomputed score and the counts it was derived from
type Result struct {
	TrustScore  float64
	Counts      store.StatusCounts
	RecomputedAt time.Time
}

// Recompute reads all persisted claims for the subject, tallies them by
// status, computes the trust score, and writes score + counts +
// last-analyzed back to the subject row.
func (a *Aggregator) Recompute(subjectID uuid.UUID) (Result, error) {
	counts, err := a.claims.CountByStatus(subjectID)
	if err != nil {
		return Result{}, fmt.Errorf("count claims by status: %w", err)
	}

	now := time.Now().UTC()
	result := Result{
		TrustScore:   TrustScore(counts),
		Counts:       counts,
		RecomputedAt: now,
	}

	err = a.subjects.UpdateScore(subjectID, store.ScoreUpdate{
		TrustScore:              result.TrustScore,
		VerifiedClaimsCount:     counts.Verified,
		QuestionableClaimsCount: counts.Questionable,
		DebunkedClaimsCount:     counts.Debunked,
		LastAnalyzed:            now,
	})
	if err != nil {
		return Result{}, fmt.Errorf("update subject score: %w", err)
	}

	return result, nil
}

// TrustScore computes the 0-100 weighted accuracy score for a claim
// distribution: verified claims count fully, questionable at half weight,
// debunked not at all, divided by the total claim count. Two-decimal
// precision, half-up. Zero claims yields zero.
func TrustScore(counts store.StatusCounts) float64 {
	if counts.Total == 0 {
		return 0
	}
	weighted := float64(counts.Verified)*1.0 + float64(counts.Questionable)*0.5
	return round2(weighted / float64(counts.Total) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
