package score

import (
	"math"

	"github.com/aandrewsv/health-claims-verifier/internal/model"
)

// Leaderboard trend directions
const (
	TrendUp   = "up"
	TrendDown = "down"
)

// Trend compares the weighted average of a subject's most recent claims
// (the newest ~20% by creation order) against the remaining older ones.
// Claims must be ordered oldest first. Ties favor "up"; a subject with no
// claims trends "down".
func Trend(claims []model.Claim) string {
	if len(claims) == 0 {
		return TrendDown
	}

	recentCount := int(math.Ceil(float64(len(claims)) * 0.2))
	split := len(claims) - recentCount

	recentAvg := weightedAverage(claims[split:])
	olderAvg := weightedAverage(claims[:split])

	if recentAvg >= olderAvg {
		return TrendUp
	}
	return TrendDown
}

// weightedAverage sums signed status weight times confidence over the
// slice and divides by its length. Unclassified claims contribute zero
// but still count towards the denominator.
func weightedAverage(claims []model.Claim) float64 {
	if len(claims) == 0 {
		return 0
	}
	var sum float64
	for _, claim := range claims {
		if claim.Status == nil {
			continue
		}
		confidence := 0
		if claim.ConfidenceScore != nil {
			confidence = *claim.ConfidenceScore
		}
		sum += statusWeight(model.ClaimStatus(*claim.Status)) * float64(confidence)
	}
	return sum / float64(len(claims))
}

// statusWeight maps a claim status to its signed trend contribution
func statusWeight(status model.ClaimStatus) float64 {
	switch status {
	case model.StatusVerified:
		return 1.0
	case model.StatusQuestionable:
		return -0.5
	case model.StatusDebunked:
		return -1.0
	}
	return 0
}
