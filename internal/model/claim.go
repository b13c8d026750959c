package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ClaimStatus is the scientific-validity verdict for a claim
type ClaimStatus string

const (
	StatusVerified     ClaimStatus = "Verified"
	StatusQuestionable ClaimStatus = "Questionable"
	StatusDebunked     ClaimStatus = "Debunked"
)

// ValidStatus reports whether s is one of the three known statuses
func ValidStatus(s string) bool {
	switch ClaimStatus(s) {
	case StatusVerified, StatusQuestionable, StatusDebunked:
		return true
	}
	return false
}

// ClaimCategories is the closed set of claim categories
var ClaimCategories = []string{
	"Sleep", "Performance", "Hormones", "Stress", "Nutrition", "Exercise",
	"Cognition", "Motivation", "Recovery", "Mental Health", "Other",
}

// ValidCategory reports whether c is one of the known categories
func ValidCategory(c string) bool {
	for _, known := range ClaimCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Claim represents one discrete testable statement attributed to a subject.
// Claims are insert-only: once classified and persisted they are never
// mutated. claim_text is the dedup identity key within a subject's claim
// set (not globally unique).
type Claim struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	SubjectID uuid.UUID `json:"subject_id" gorm:"type:uuid;index;not null"`
	ClaimText string    `json:"claim_text" gorm:"not null"`

	SourceContent  *string `json:"source_content,omitempty"`
	SourcePlatform *string `json:"source_platform,omitempty"`

	Category        *string `json:"category"`
	Status          *string `json:"status"`
	ConfidenceScore *int    `json:"confidence_score"`

	ScientificEvidence ScientificEvidence `json:"scientific_evidence" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

// TableName sets the table name for the Claim model
func (Claim) TableName() string {
	return "claims"
}

// ScientificEvidence records which journals support, question, or
// contradict a claim
type ScientificEvidence struct {
	JournalsSupporting    []string `json:"journals_supporting"`
	JournalsQuestioning   []string `json:"journals_questioning"`
	JournalsContradicting []string `json:"journals_contradicting"`
}

// Value implements driver.Valuer so evidence is stored as a JSON column
func (e ScientificEvidence) Value() (driver.Value, error) {
	if e.JournalsSupporting == nil {
		e.JournalsSupporting = []string{}
	}
	if e.JournalsQuestioning == nil {
		e.JournalsQuestioning = []string{}
	}
	if e.JournalsContradicting == nil {
		e.JournalsContradicting = []string{}
	}
	return json.Marshal(e)
}

// Scan implements sql.Scanner
func (e *ScientificEvidence) Scan(src interface{}) error {
	return scanJSON(src, e)
}
