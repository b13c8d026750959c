package pipeline

import (
	"context"
	"log"

	"github.com/aandrewsv/health-claims-verifier/internal/extract"
	"github.com/aandrewsv/health-claims-verifier/internal/model"
	"github.com/aandrewsv/health-claims-verifier/internal/research"
	"github.com/aandrewsv/health-claims-verifier/internal/worker"
)

// dedup filters rawClaims down to the subset the provider does not mark
// as duplicates of already-persisted claim texts. With no existing claims
// there is nothing to compare against, so the input passes through
// without an external call.
//
// Each batch compares against the entire existing list. A batch whose
// call or parse fails contributes no verdicts, so its claims are treated
// as unique; the run continues.
func (p *Pipeline) dedup(ctx context.Context, rawClaims []model.RawClaim, existing []string) []model.RawClaim {
	if len(existing) == 0 {
		return rawClaims
	}

	newTexts := make([]string, len(rawClaims))
	for i, claim := range rawClaims {
		newTexts[i] = claim.ClaimText
	}

	batches := worker.Chunk(newTexts, p.cfg.DedupBatchSize)
	results := worker.RunLimited(ctx, batches, p.cfg.MaxConcurrentQueries, func(ctx context.Context, batch []string) ([]model.DedupVerdict, error) {
		raw, err := p.client.Query(ctx, research.DedupPrompt(batch, existing), research.Options{})
		if err != nil {
			return nil, err
		}
		var verdicts []model.DedupVerdict
		if err := extract.Array(raw, &verdicts); err != nil {
			return nil, err
		}
		return verdicts, nil
	})

	// Verdict texts are the authoritative join keys back onto the claim
	// set. A paraphrased verdict text matches nothing and its claim stays
	// unique.
	duplicates := make(map[string]bool)
	for i, result := range results {
		if result.Err != nil {
			log.Printf("dedup batch %d/%d failed, treating its claims as unique: %v", i+1, len(results), result.Err)
			continue
		}
		for _, verdict := range result.Value {
			if verdict.IsDuplicate {
				duplicates[verdict.NewClaimText] = true
			}
		}
	}

	unique := make([]model.RawClaim, 0, len(rawClaims))
	for _, claim := range rawClaims {
		if !duplicates[claim.ClaimText] {
			unique = append(unique, claim)
		}
	}
	return unique
}
