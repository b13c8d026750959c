package pipeline

import (
	"context"
	"fmt"

	"github.com/aandrewsv/health-claims-verifier/internal/extract"
	"github.com/aandrewsv/health-claims-verifier/internal/model"
	"github.com/aandrewsv/health-claims-verifier/internal/research"
)

// ingest requests up to limit recent health-related claims for a subject.
// An empty result is a valid outcome: the subject simply has no new
// claims this run.
func (p *Pipeline) ingest(ctx context.Context, canonicalName string, limit int, recencyFilter string) ([]model.RawClaim, error) {
	raw, err := p.client.Query(ctx, research.RecentClaimsPrompt(canonicalName, limit), research.Options{
		RecencyFilter: recencyFilter,
	})
	if err != nil {
		return nil, err
	}

	var claims []model.RawClaim
	if err := extract.Array(raw, &claims); err != nil {
		return nil, fmt.Errorf("parse ingested claims: %w", err)
	}

	// source excerpts occasionally arrive as scraped markup
	for i := range claims {
		if claims[i].SourceContent != nil {
			cleaned := extract.StripHTML(*claims[i].SourceContent)
			claims[i].SourceContent = &cleaned
		}
	}
	return claims, nil
}
