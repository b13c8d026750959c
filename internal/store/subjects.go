package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aandrewsv/health-claims-verifier/internal/model"
)

// SubjectRepo provides row access to the subjects table
type SubjectRepo struct {
	db *gorm.DB
}

// NewSubjectRepo creates a subject repository
func NewSubjectRepo(db *gorm.DB) *SubjectRepo {
	return &SubjectRepo{db: db}
}

// ByID fetches a subject by primary key
func (r *SubjectRepo) ByID(id uuid.UUID) (*model.Subject, error) {
	var subject model.Subject
	if err := r.db.First(&subject, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}
	return &subject, nil
}

// ByCanonicalName fetches a subject by its exact canonical name
func (r *SubjectRepo) ByCanonicalName(name string) (*model.Subject, error) {
	var subject model.Subject
	if err := r.db.First(&subject, "canonical_name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}
	return &subject, nil
}

// All returns every subject row. The table is small (one row per tracked
// influencer); alias matching over the full set happens in the caller.
func (r *SubjectRepo) All() ([]model.Subject, error) {
	var subjects []model.Subject
	if err := r.db.Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

// RankedByTrustScore returns all subjects ordered by trust score descending
func (r *SubjectRepo) RankedByTrustScore() ([]model.Subject, error) {
	var subjects []model.Subject
	if err := r.db.Order("trust_score DESC").Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

// Create inserts a new subject row, assigning an ID when unset
func (r *SubjectRepo) Create(subject *model.Subject) error {
	if subject.ID == uuid.Nil {
		subject.ID = uuid.New()
	}
	return r.db.Create(subject).Error
}

// ScoreUpdate carries the aggregator's recomputed fields
type ScoreUpdate struct {
	TrustScore              float64
	VerifiedClaimsCount     int
	QuestionableClaimsCount int
	DebunkedClaimsCount     int
	LastAnalyzed            time.Time
}

// UpdateScore writes the recomputed score, per-status counts, and
// last-analyzed timestamp for a subject. Only the aggregator calls this.
func (r *SubjectRepo) UpdateScore(id uuid.UUID, update ScoreUpdate) error {
	return r.db.Model(&model.Subject{}).Where("id = ?", id).Updates(map[string]interface{}{
		"trust_score":               update.TrustScore,
		"verified_claims_count":     update.VerifiedClaimsCount,
		"questionable_claims_count": update.QuestionableClaimsCount,
		"debunked_claims_count":     update.DebunkedClaimsCount,
		"last_analyzed":             update.LastAnalyzed,
	}).Error
}

// Count returns the number of subject rows
func (r *SubjectRepo) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Subject{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
