// Package pipeline runs the claims analysis for one subject: ingest
// recent claims from the research provider, deduplicate them against the
// persisted set, classify the survivors, persist, and recompute the
// subject's trust score.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/aandrewsv/health-claims-verifier/internal/model"
	"github.com/aandrewsv/health-claims-verifier/internal/research"
	"github.com/aandrewsv/health-claims-verifier/internal/score"
	"github.com/aandrewsv/health-claims-verifier/internal/store"
	"github.com/aandrewsv/health-claims-verifier/internal/verify"
)

// ErrClassificationFailed indicates no batch produced a single valid
// classification record, so nothing can be persisted. Distinct from some
// individual claims missing a record, which is diagnostic only.
var ErrClassificationFailed = errors.New("classification produced no valid records")

// Pipeline orchestrates the complete analysis run
type Pipeline struct {
	client     research.Client
	subjects   *store.SubjectRepo
	claims     *store.ClaimRepo
	aggregator *score.Aggregator
	cfg        model.PipelineConfig
}

// NewPipeline creates a pipeline with the given configuration
func NewPipeline(client research.Client, subjects *store.SubjectRepo, claims *store.ClaimRepo, cfg model.PipelineConfig) *Pipeline {
	return &Pipeline{
		client:     client,
		subjects:   subjects,
		claims:     claims,
		aggregator: score.NewAggregator(subjects, claims),
		cfg:        cfg,
	}
}

// RunOptions are the per-run overrides. Zero values fall back to the
// configured defaults.
type RunOptions struct {
	ClaimsLimit   int
	RecencyFilter string
	Journals      []string
}

func (p *Pipeline) withDefaults(opts RunOptions) RunOptions {
	if opts.ClaimsLimit <= 0 {
		opts.ClaimsLimit = p.cfg.ClaimsLimit
	}
	if opts.RecencyFilter == "" {
		opts.RecencyFilter = p.cfg.RecencyFilter
	}
	if len(opts.Journals) == 0 {
		opts.Journals = p.cfg.Journals
	}
	return opts
}

// Run executes the full analysis for a subject name. Short-circuit
// outcomes (no new claims, all duplicates) return a report with a
// message and no store writes. Stage failures abort the run; claims
// already persisted stay persisted since scoring is a full recomputation
// a later run can repair.
func (p *Pipeline) Run(ctx context.Context, subjectName string, opts RunOptions) (*model.PipelineReport, error) {
	opts = p.withDefaults(opts)

	// 1. Verify the subject is tracked
	subject, err := verify.Find(p.subjects, subjectName)
	if err != nil {
		return nil, err
	}

	// 2. Ingest recent claims
	rawClaims, err := p.ingest(ctx, subject.CanonicalName, opts.ClaimsLimit, opts.RecencyFilter)
	if err != nil {
		return nil, fmt.Errorf("ingest claims: %w", err)
	}
	existing, err := p.claims.TextsBySubject(subject.ID)
	if err != nil {
		return nil, fmt.Errorf("load existing claims: %w", err)
	}
	if len(rawClaims) == 0 {
		return &model.PipelineReport{
			SubjectID:   subject.ID,
			Message:     "no new claims found",
			TrustScore:  subject.TrustScore,
			TotalClaims: int64(len(existing)),
		}, nil
	}

	// 3. Deduplicate against the persisted set
	uniqueClaims := p.dedup(ctx, rawClaims, existing)
	if len(uniqueClaims) == 0 {
		return &model.PipelineReport{
			SubjectID:      subject.ID,
			Message:        "all recent claims were duplicates",
			NewClaimsFound: len(rawClaims),
			TrustScore:     subject.TrustScore,
			TotalClaims:    int64(len(existing)),
		}, nil
	}

	// 4. Classify the survivors
	records, missing, err := p.classify(ctx, uniqueClaims, opts.Journals)
	if err != nil {
		return nil, err
	}

	// 5. Persist; the insert lands whole or not at all
	inserted := buildClaims(subject.ID, uniqueClaims, records)
	if err := p.claims.InsertBatch(inserted); err != nil {
		return nil, fmt.Errorf("insert claims: %w", err)
	}

	// 6. Recompute the trust score from the full persisted set
	result, err := p.aggregator.Recompute(subject.ID)
	if err != nil {
		return nil, fmt.Errorf("recompute trust score: %w", err)
	}

	report := &model.PipelineReport{
		SubjectID:             subject.ID,
		NewClaimsFound:        len(rawClaims),
		NewUniqueClaims:       len(uniqueClaims),
		InsertedClaims:        len(inserted),
		TrustScore:            result.TrustScore,
		TotalClaims:           result.Counts.Total,
		MissingClassification: missing,
		Details:               records,
	}
	for _, record := range records {
		switch model.ClaimStatus(record.Status) {
		case model.StatusVerified:
			report.NewVerified++
		case model.StatusQuestionable:
			report.NewQuestionable++
		case model.StatusDebunked:
			report.NewDebunked++
		}
	}
	return report, nil
}

// buildClaims joins classification records back onto the raw claims that
// produced them, by exact text, to carry source excerpt and platform
// into the persisted rows.
func buildClaims(subjectID uuid.UUID, rawClaims []model.RawClaim, records []model.ClassificationRecord) []model.Claim {
	bySource := make(map[string]model.RawClaim, len(rawClaims))
	for _, raw := range rawClaims {
		bySource[raw.ClaimText] = raw
	}

	claims := make([]model.Claim, 0, len(records))
	for _, record := range records {
		record := record
		claim := model.Claim{
			SubjectID:       subjectID,
			ClaimText:       record.ClaimText,
			Status:          &record.Status,
			Category:        record.Category,
			ConfidenceScore: &record.ConfidenceScore,
			ScientificEvidence: model.ScientificEvidence{
				JournalsSupporting:    record.JournalsSupporting,
				JournalsQuestioning:   record.JournalsQuestioning,
				JournalsContradicting: record.JournalsContradicting,
			},
		}
		if raw, ok := bySource[record.ClaimText]; ok {
			claim.SourceContent = raw.SourceContent
			claim.SourcePlatform = raw.SourcePlatform
		}
		claims = append(claims, claim)
	}
	return claims
}
