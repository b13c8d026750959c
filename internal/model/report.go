package model

import "github.com/google/uuid"

// PipelineReport is the final result of one analysis run for a subject
type PipelineReport struct {
	SubjectID uuid.UUID `json:"subject_id"`

	// Message is set on short-circuit outcomes ("no new claims found",
	// "all recent claims were duplicates")
	Message string `json:"message,omitempty"`

	NewClaimsFound  int `json:"new_claims_found"`
	NewUniqueClaims int `json:"new_unique_claims"`
	InsertedClaims  int `json:"inserted_claims"`

	NewVerified     int `json:"new_verified"`
	NewQuestionable int `json:"new_questionable"`
	NewDebunked     int `json:"new_debunked"`

	TrustScore    float64 `json:"trust_score"`
	TotalClaims   int64   `json:"total_claims"`

	// MissingClassification lists unique claim texts the provider returned
	// no valid record for. Diagnostic only - never aborts the run.
	MissingClassification []string `json:"missing_classification,omitempty"`

	Details []ClassificationRecord `json:"details"`
}

// LeaderboardStats summarizes the whole subject table
type LeaderboardStats struct {
	TotalSubjects     int64   `json:"total_subjects"`
	TotalClaims       int64   `json:"total_claims"`
	AverageTrustScore float64 `json:"average_trust_score"`
}

// LeaderboardEntry is one ranked subject with its score trend
type LeaderboardEntry struct {
	ID                  uuid.UUID `json:"id"`
	CanonicalName       string    `json:"canonical_name"`
	TrustScore          float64   `json:"trust_score"`
	FollowerCount       int64     `json:"follower_count"`
	VerifiedClaimsCount int       `json:"verified_claims_count"`
	Trend               string    `json:"trend"` // "up" or "down"
}

// Leaderboard is the ranked subject list plus aggregate stats
type Leaderboard struct {
	Stats    LeaderboardStats   `json:"stats"`
	Subjects []LeaderboardEntry `json:"subjects"`
}
