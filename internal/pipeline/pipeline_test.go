package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aandrewsv/health-claims-verifier/internal/model"
	"github.com/aandrewsv/health-claims-verifier/internal/research"
	"github.com/aandrewsv/health-claims-verifier/internal/store"
)

// fakeClient routes prompts to scripted responses by stage
type fakeClient struct {
	ingestResp   string
	ingestErr    error
	dedupResp    string
	dedupErr     error
	classifyResp string
	classifyErr  error

	dedupCalls    int32
	classifyCalls int32
}

func (f *fakeClient) Query(_ context.Context, prompt string, _ research.Options) (string, error) {
	switch {
	case strings.Contains(prompt, "Gather a maximum"):
		return f.ingestResp, f.ingestErr
	case strings.Contains(prompt, "Duplicate Detection Task"):
		atomic.AddInt32(&f.dedupCalls, 1)
		return f.dedupResp, f.dedupErr
	case strings.Contains(prompt, "classify an array of scientific claims"):
		atomic.AddInt32(&f.classifyCalls, 1)
		return f.classifyResp, f.classifyErr
	}
	return "", fmt.Errorf("unexpected prompt: %.60s", prompt)
}

func testConfig() model.PipelineConfig {
	cfg := model.DefaultConfig().Pipeline
	return cfg
}

func newTestPipeline(t *testing.T, client research.Client) (*Pipeline, *store.SubjectRepo, *store.ClaimRepo, *model.Subject) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := store.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	subjects := store.NewSubjectRepo(db)
	claims := store.NewClaimRepo(db)

	subject := &model.Subject{CanonicalName: "Andrew Huberman", KnownAliases: model.StringList{"huberman"}}
	if err := subjects.Create(subject); err != nil {
		t.Fatalf("create subject: %v", err)
	}

	return NewPipeline(client, subjects, claims, testConfig()), subjects, claims, subject
}

func classificationJSON(entries ...string) string {
	return "[" + strings.Join(entries, ",") + "]"
}

func verifiedRecord(text string) string {
	return fmt.Sprintf(`{
		"claim_text": %q,
		"status": "Verified",
		"category": "Sleep",
		"confidence_score": 90,
		"journals_supporting": ["Nature"],
		"journals_questioning": [],
		"journals_contradicting": []
	}`, text)
}

func TestRun_EndToEnd(t *testing.T) {
	client := &fakeClient{
		ingestResp: `[
			{"claim_text": "Morning sunlight regulates circadian rhythm", "source_content": "podcast #42", "source_platform": "YouTube", "found_date": null},
			{"claim_text": "Magnesium threonate improves sleep quality", "source_content": null, "source_platform": "Twitter", "found_date": null}
		]`,
		classifyResp: classificationJSON(
			verifiedRecord("Morning sunlight regulates circadian rhythm"),
			verifiedRecord("Magnesium threonate improves sleep quality"),
		),
	}

	p, subjects, claims, subject := newTestPipeline(t, client)

	report, err := p.Run(context.Background(), "huberman", RunOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.NewClaimsFound != 2 || report.NewUniqueClaims != 2 || report.InsertedClaims != 2 {
		t.Errorf("counts = found %d unique %d inserted %d, want 2/2/2",
			report.NewClaimsFound, report.NewUniqueClaims, report.InsertedClaims)
	}
	if report.NewVerified != 2 || report.NewQuestionable != 0 || report.NewDebunked != 0 {
		t.Errorf("status tallies = %d/%d/%d, want 2/0/0",
			report.NewVerified, report.NewQuestionable, report.NewDebunked)
	}
	if report.TrustScore != 100 {
		t.Errorf("trust score = %v, want 100", report.TrustScore)
	}
	if report.TotalClaims != 2 {
		t.Errorf("total claims = %d, want 2", report.TotalClaims)
	}

	// no existing claims, so dedup must not have called the provider
	if client.dedupCalls != 0 {
		t.Errorf("dedup issued %d external calls with empty existing set", client.dedupCalls)
	}

	rows, err := claims.BySubjectNewestFirst(subject.ID)
	if err != nil {
		t.Fatalf("load claims: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("persisted %d claims, want 2", len(rows))
	}
	for _, row := range rows {
		if row.Status == nil || *row.Status != "Verified" {
			t.Errorf("claim %q status = %v", row.ClaimText, row.Status)
		}
	}

	updated, err := subjects.ByID(subject.ID)
	if err != nil {
		t.Fatalf("reload subject: %v", err)
	}
	if updated.TrustScore != 100 || updated.VerifiedClaimsCount != 2 {
		t.Errorf("subject score = %v verified = %d", updated.TrustScore, updated.VerifiedClaimsCount)
	}
	if updated.LastAnalyzed == nil {
		t.Error("last_analyzed not set")
	}
}

func TestRun_SourceFieldsCarriedIntoClaims(t *testing.T) {
	client := &fakeClient{
		ingestResp: `[
			{"claim_text": "Zone 2 cardio improves endurance", "source_content": "episode 12", "source_platform": "Podcast", "found_date": null}
		]`,
		classifyResp: classificationJSON(verifiedRecord("Zone 2 cardio improves endurance")),
	}
	p, _, claims, subject := newTestPipeline(t, client)

	if _, err := p.Run(context.Background(), "Andrew Huberman", RunOptions{}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	rows, err := claims.BySubjectNewestFirst(subject.ID)
	if err != nil {
		t.Fatalf("load claims: %v", err)
	}
	if rows[0].SourceContent == nil || *rows[0].SourceContent != "episode 12" {
		t.Errorf("source content = %v", rows[0].SourceContent)
	}
	if rows[0].SourcePlatform == nil || *rows[0].SourcePlatform != "Podcast" {
		t.Errorf("source platform = %v", rows[0].SourcePlatform)
	}
}

func TestRun_NoNewClaims(t *testing.T) {
	client := &fakeClient{ingestResp: `[]`}
	p, _, claims, _ := newTestPipeline(t, client)

	report, err := p.Run(context.Background(), "Andrew Huberman", RunOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Message != "no new claims found" {
		t.Errorf("message = %q", report.Message)
	}
	if report.NewClaimsFound != 0 || report.InsertedClaims != 0 {
		t.Errorf("short-circuit report has counts: %+v", report)
	}

	total, err := claims.CountAll()
	if err != nil {
		t.Fatalf("CountAll: %v", err)
	}
	if total != 0 {
		t.Errorf("short-circuit wrote %d claims", total)
	}
}

func TestRun_AllDuplicates(t *testing.T) {
	client := &fakeClient{
		ingestResp: `[{"claim_text": "Cold showers boost metabolism", "source_content": null, "source_platform": null, "found_date": null}]`,
		dedupResp: `[{
			"new_claim_text": "Cold showers boost metabolism",
			"is_duplicate": true,
			"matched_existing_claim_text": "Cold exposure raises metabolic rate",
			"similarity_score": 0.94
		}]`,
	}
	p, _, claims, subject := newTestPipeline(t, client)

	// seed one existing claim so dedup actually runs
	seed := []model.Claim{{SubjectID: subject.ID, ClaimText: "Cold exposure raises metabolic rate"}}
	if err := claims.InsertBatch(seed); err != nil {
		t.Fatalf("seed claim: %v", err)
	}

	report, err := p.Run(context.Background(), "Andrew Huberman", RunOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Message != "all recent claims were duplicates" {
		t.Errorf("message = %q", report.Message)
	}
	if report.NewClaimsFound != 1 || report.NewUniqueClaims != 0 {
		t.Errorf("report = %+v", report)
	}
	if client.classifyCalls != 0 {
		t.Errorf("classification ran on a fully duplicate set")
	}

	total, err := claims.CountAll()
	if err != nil {
		t.Fatalf("CountAll: %v", err)
	}
	if total != 1 {
		t.Errorf("claim count = %d, want the seeded 1", total)
	}
}

func TestRun_DedupBatchFailureTreatsClaimsAsUnique(t *testing.T) {
	client := &fakeClient{
		ingestResp:   `[{"claim_text": "Creatine improves cognition", "source_content": null, "source_platform": null, "found_date": null}]`,
		dedupErr:     errors.New("upstream exploded"),
		classifyResp: classificationJSON(verifiedRecord("Creatine improves cognition")),
	}
	p, _, claims, subject := newTestPipeline(t, client)

	seed := []model.Claim{{SubjectID: subject.ID, ClaimText: "Something unrelated"}}
	if err := claims.InsertBatch(seed); err != nil {
		t.Fatalf("seed claim: %v", err)
	}

	report, err := p.Run(context.Background(), "Andrew Huberman", RunOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.NewUniqueClaims != 1 || report.InsertedClaims != 1 {
		t.Errorf("report = %+v, want failed dedup batch to pass its claims through", report)
	}
}

func TestRun_ClassificationFailedAbortsWithoutWrites(t *testing.T) {
	client := &fakeClient{
		ingestResp:  `[{"claim_text": "Fasting cures everything", "source_content": null, "source_platform": null, "found_date": null}]`,
		classifyErr: errors.New("upstream exploded"),
	}
	p, subjects, claims, subject := newTestPipeline(t, client)

	_, err := p.Run(context.Background(), "Andrew Huberman", RunOptions{})
	if !errors.Is(err, ErrClassificationFailed) {
		t.Fatalf("Run error = %v, want ErrClassificationFailed", err)
	}

	total, err := claims.CountAll()
	if err != nil {
		t.Fatalf("CountAll: %v", err)
	}
	if total != 0 {
		t.Errorf("aborted run inserted %d claims", total)
	}

	reloaded, err := subjects.ByID(subject.ID)
	if err != nil {
		t.Fatalf("reload subject: %v", err)
	}
	if reloaded.TrustScore != 0 || reloaded.LastAnalyzed != nil {
		t.Errorf("aborted run touched the subject row: score=%v analyzed=%v",
			reloaded.TrustScore, reloaded.LastAnalyzed)
	}
}

func TestRun_UnknownSubject(t *testing.T) {
	p, _, _, _ := newTestPipeline(t, &fakeClient{})

	_, err := p.Run(context.Background(), "Nobody Particular", RunOptions{})
	if !errors.Is(err, store.ErrSubjectNotFound) {
		t.Errorf("Run error = %v, want ErrSubjectNotFound", err)
	}
}

func TestClassify_DiscardsForeignAndInvalidRecords(t *testing.T) {
	// one valid record, one with a claim_text absent from the batch, one
	// with a malformed journal field
	client := &fakeClient{
		classifyResp: classificationJSON(
			verifiedRecord("Sauna use improves cardiovascular health"),
			verifiedRecord("A claim nobody submitted"),
			`{
				"claim_text": "Sleep debt cannot be repaid",
				"status": "Debunked",
				"category": "Sleep",
				"confidence_score": 80,
				"journals_supporting": "Nature",
				"journals_questioning": [],
				"journals_contradicting": []
			}`,
		),
	}
	p, _, _, _ := newTestPipeline(t, client)

	unique := []model.RawClaim{
		{ClaimText: "Sauna use improves cardiovascular health"},
		{ClaimText: "Sleep debt cannot be repaid"},
	}
	records, missing, err := p.classify(context.Background(), unique, []string{"Nature"})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].ClaimText != "Sauna use improves cardiovascular health" {
		t.Errorf("surviving record = %q", records[0].ClaimText)
	}
	if len(missing) != 1 || missing[0] != "Sleep debt cannot be repaid" {
		t.Errorf("missing = %v", missing)
	}
}

func TestValidateRecord(t *testing.T) {
	batch := map[string]bool{"known claim": true}

	tests := []struct {
		name       string
		element    map[string]interface{}
		violations []string
	}{
		{
			name: "valid record",
			element: map[string]interface{}{
				"claim_text":             "known claim",
				"status":                 "Questionable",
				"category":               "Nutrition",
				"confidence_score":       float64(55),
				"journals_supporting":    []interface{}{"Nature"},
				"journals_questioning":   []interface{}{},
				"journals_contradicting": []interface{}{},
			},
		},
		{
			name: "null category is valid",
			element: map[string]interface{}{
				"claim_text":             "known claim",
				"status":                 "Verified",
				"category":               nil,
				"confidence_score":       float64(70),
				"journals_supporting":    []interface{}{},
				"journals_questioning":   []interface{}{},
				"journals_contradicting": []interface{}{},
			},
		},
		{
			name: "unknown status and out-of-range confidence",
			element: map[string]interface{}{
				"claim_text":             "known claim",
				"status":                 "Plausible",
				"category":               "Sleep",
				"confidence_score":       float64(140),
				"journals_supporting":    []interface{}{},
				"journals_questioning":   []interface{}{},
				"journals_contradicting": []interface{}{},
			},
			violations: []string{"status", "confidence_score"},
		},
		{
			name: "missing journal fields",
			element: map[string]interface{}{
				"claim_text":       "known claim",
				"status":           "Verified",
				"category":         "Sleep",
				"confidence_score": float64(90),
			},
			violations: []string{"journals_supporting", "journals_questioning", "journals_contradicting"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, violations := validateRecord(tt.element, batch)
			if len(violations) != len(tt.violations) {
				t.Fatalf("violations = %v, want %v", violations, tt.violations)
			}
			for i := range violations {
				if violations[i] != tt.violations[i] {
					t.Errorf("violation %d = %q, want %q", i, violations[i], tt.violations[i])
				}
			}
		})
	}
}

func TestDedup_EmptyExistingIsIdentity(t *testing.T) {
	client := &fakeClient{dedupErr: errors.New("must not be called")}
	p, _, _, _ := newTestPipeline(t, client)

	raw := []model.RawClaim{{ClaimText: "a"}, {ClaimText: "b"}}
	unique := p.dedup(context.Background(), raw, nil)
	if len(unique) != 2 {
		t.Fatalf("got %d claims, want identity", len(unique))
	}
	if client.dedupCalls != 0 {
		t.Errorf("dedup called the provider with nothing to compare against")
	}
}
