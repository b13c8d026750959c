package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Subject represents a tracked health influencer
type Subject struct {
	ID              uuid.UUID       `json:"id" gorm:"primaryKey;type:uuid"`
	CanonicalName   string          `json:"canonical_name" gorm:"uniqueIndex;not null"`
	KnownAliases    StringList      `json:"known_aliases" gorm:"type:text"`
	PlatformHandles PlatformHandles `json:"platform_handles" gorm:"type:text"`
	Credentials     StringList      `json:"credentials" gorm:"type:text"`
	Categories      StringList      `json:"categories" gorm:"type:text"`
	FollowerCount   int64           `json:"follower_count" gorm:"default:0"`

	// TrustScore is 0-100 with two-decimal precision, always derived from
	// the claim table by the aggregator - never set directly.
	TrustScore float64 `json:"trust_score" gorm:"default:0"`

	VerifiedClaimsCount     int `json:"verified_claims_count" gorm:"default:0"`
	QuestionableClaimsCount int `json:"questionable_claims_count" gorm:"default:0"`
	DebunkedClaimsCount     int `json:"debunked_claims_count" gorm:"default:0"`

	LastAnalyzed *time.Time `json:"last_analyzed,omitempty"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`

	Claims []Claim `json:"claims,omitempty" gorm:"foreignKey:SubjectID"`
}

// TableName sets the table name for the Subject model
func (Subject) TableName() string {
	return "subjects"
}

// PlatformHandles holds per-platform social handles, each optional
type PlatformHandles struct {
	Twitter   *string `json:"twitter"`
	Instagram *string `json:"instagram"`
	YouTube   *string `json:"youtube"`
}

// Value implements driver.Valuer so handles are stored as a JSON column
func (h PlatformHandles) Value() (driver.Value, error) {
	return json.Marshal(h)
}

// Scan implements sql.Scanner
func (h *PlatformHandles) Scan(src interface{}) error {
	return scanJSON(src, h)
}

// StringList is a string slice stored as a JSON column
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner
func (l *StringList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

// scanJSON decodes a JSON column that drivers surface as []byte or string
func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported column type %T", src)
	}
}
