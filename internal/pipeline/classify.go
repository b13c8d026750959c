package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aandrewsv/health-claims-verifier/internal/extract"
	"github.com/aandrewsv/health-claims-verifier/internal/model"
	"github.com/aandrewsv/health-claims-verifier/internal/research"
	"github.com/aandrewsv/health-claims-verifier/internal/worker"
)

// classify assigns status, category, confidence, and evidence to each
// unique claim. Every returned record's claim text is validated against
// the batch that produced it; records failing validation are discarded
// with a log line, never aborting the run. Claims left without any valid
// record are returned as missing, diagnostic only. Only a fully empty
// merged result aborts, with ErrClassificationFailed.
func (p *Pipeline) classify(ctx context.Context, uniqueClaims []model.RawClaim, journals []string) ([]model.ClassificationRecord, []string, error) {
	texts := make([]string, len(uniqueClaims))
	for i, claim := range uniqueClaims {
		texts[i] = claim.ClaimText
	}

	batches := worker.Chunk(texts, p.cfg.ClassifyBatchSize)
	results := worker.RunLimited(ctx, batches, p.cfg.MaxConcurrentQueries, func(ctx context.Context, batch []string) ([]model.ClassificationRecord, error) {
		raw, err := p.client.Query(ctx, research.ClassificationPrompt(batch, journals), research.Options{})
		if err != nil {
			return nil, err
		}

		var parsed []map[string]interface{}
		if err := extract.Array(raw, &parsed); err != nil {
			return nil, err
		}

		batchTexts := make(map[string]bool, len(batch))
		for _, text := range batch {
			batchTexts[text] = true
		}

		records := make([]model.ClassificationRecord, 0, len(parsed))
		for _, element := range parsed {
			record, violations := validateRecord(element, batchTexts)
			if len(violations) > 0 {
				log.Printf("discarding classification record (invalid fields: %s)", strings.Join(violations, ", "))
				continue
			}
			records = append(records, record)
		}
		return records, nil
	})

	var merged []model.ClassificationRecord
	for i, result := range results {
		if result.Err != nil {
			log.Printf("classification batch %d/%d failed, contributing no records: %v", i+1, len(results), result.Err)
			continue
		}
		merged = append(merged, result.Value...)
	}

	if len(merged) == 0 {
		return nil, nil, fmt.Errorf("%d claims across %d batches: %w", len(uniqueClaims), len(batches), ErrClassificationFailed)
	}

	classified := make(map[string]bool, len(merged))
	for _, record := range merged {
		classified[record.ClaimText] = true
	}
	var missing []string
	for _, text := range texts {
		if !classified[text] {
			missing = append(missing, text)
		}
	}
	if len(missing) > 0 {
		log.Printf("%d of %d claims received no classification record", len(missing), len(texts))
	}

	return merged, missing, nil
}

// validateRecord checks one parsed element against the record schema:
// all seven fields present with correct container types, claim_text an
// exact member of the originating batch, status one of the three known
// values, confidence within 0-100. Returns the violated field names, or
// the typed record when none.
func validateRecord(element map[string]interface{}, batchTexts map[string]bool) (model.ClassificationRecord, []string) {
	var violations []string
	var record model.ClassificationRecord

	if text, ok := element["claim_text"].(string); ok && batchTexts[text] {
		record.ClaimText = text
	} else {
		violations = append(violations, "claim_text")
	}

	if status, ok := element["status"].(string); ok && model.ValidStatus(status) {
		record.Status = status
	} else {
		violations = append(violations, "status")
	}

	// category is nullable; a present value must come from the known set
	switch category := element["category"].(type) {
	case nil:
	case string:
		if model.ValidCategory(category) {
			record.Category = &category
		} else {
			violations = append(violations, "category")
		}
	default:
		violations = append(violations, "category")
	}

	if score, ok := element["confidence_score"].(float64); ok && score == float64(int(score)) && score >= 0 && score <= 100 {
		record.ConfidenceScore = int(score)
	} else {
		violations = append(violations, "confidence_score")
	}

	for _, field := range []struct {
		name string
		dst  *[]string
	}{
		{"journals_supporting", &record.JournalsSupporting},
		{"journals_questioning", &record.JournalsQuestioning},
		{"journals_contradicting", &record.JournalsContradicting},
	} {
		journals, ok := stringSlice(element[field.name])
		if !ok {
			violations = append(violations, field.name)
			continue
		}
		*field.dst = journals
	}

	return record, violations
}

// stringSlice converts a decoded JSON array to []string, rejecting
// non-array values and non-string elements
func stringSlice(v interface{}) ([]string, bool) {
	elements, ok := v.([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(elements))
	for _, element := range elements {
		s, ok := element.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}
