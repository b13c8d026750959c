package store

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aandrewsv/health-claims-verifier/internal/model"
)

// ClaimRepo provides row access to the claims table. Claims are
// insert-only; there is no update path.
type ClaimRepo struct {
	db *gorm.DB
}

// NewClaimRepo creates a claim repository
func NewClaimRepo(db *gorm.DB) *ClaimRepo {
	return &ClaimRepo{db: db}
}

// TextsBySubject returns all persisted claim texts for a subject, the
// comparison set for deduplication.
func (r *ClaimRepo) TextsBySubject(subjectID uuid.UUID) ([]string, error) {
	var texts []string
	err := r.db.Model(&model.Claim{}).
		Where("subject_id = ?", subjectID).
		Pluck("claim_text", &texts).Error
	if err != nil {
		return nil, err
	}
	return texts, nil
}

// BySubjectChronological returns a subject's claims in creation order,
// oldest first. Trend calculation depends on this ordering.
func (r *ClaimRepo) BySubjectChronological(subjectID uuid.UUID) ([]model.Claim, error) {
	var claims []model.Claim
	err := r.db.Where("subject_id = ?", subjectID).
		Order("created_at ASC").
		Find(&claims).Error
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// BySubjectNewestFirst returns a subject's claims newest first, for the
// subject detail view.
func (r *ClaimRepo) BySubjectNewestFirst(subjectID uuid.UUID) ([]model.Claim, error) {
	var claims []model.Claim
	err := r.db.Where("subject_id = ?", subjectID).
		Order("created_at DESC").
		Find(&claims).Error
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// InsertBatch inserts classified claims in a single transactional call,
// assigning IDs where unset. All-or-nothing.
func (r *ClaimRepo) InsertBatch(claims []model.Claim) error {
	if len(claims) == 0 {
		return nil
	}
	for i := range claims {
		if claims[i].ID == uuid.Nil {
			claims[i].ID = uuid.New()
		}
	}
	return r.db.Create(&claims).Error
}

// StatusCounts tallies a subject's persisted claims by status
type StatusCounts struct {
	Verified     int
	Questionable int
	Debunked     int
	Total        int64
}

// CountByStatus reads every claim status for the subject and tallies the
// distribution. Reading the full set keeps the tally consistent with the
// claim table no matter how many runs preceded this one.
func (r *ClaimRepo) CountByStatus(subjectID uuid.UUID) (StatusCounts, error) {
	var statuses []*string
	err := r.db.Model(&model.Claim{}).
		Where("subject_id = ?", subjectID).
		Pluck("status", &statuses).Error
	if err != nil {
		return StatusCounts{}, err
	}

	counts := StatusCounts{Total: int64(len(statuses))}
	for _, s := range statuses {
		if s == nil {
			continue
		}
		switch model.ClaimStatus(*s) {
		case model.StatusVerified:
			counts.Verified++
		case model.StatusQuestionable:
			counts.Questionable++
		case model.StatusDebunked:
			counts.Debunked++
		}
	}
	return counts, nil
}

// CountAll returns the total number of claim rows across all subjects
func (r *ClaimRepo) CountAll() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Claim{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
