// Package verify resolves a person's name to a tracked subject, asking
// the research provider to vet unknown names before they are inserted.
package verify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/aandrewsv/health-claims-verifier/internal/extract"
	"github.com/aandrewsv/health-claims-verifier/internal/model"
	"github.com/aandrewsv/health-claims-verifier/internal/research"
	"github.com/aandrewsv/health-claims-verifier/internal/store"
)

// ErrNotAHealthInfluencer indicates the provider vetted the name and
// concluded the person is not a health influencer. Nothing is persisted.
var ErrNotAHealthInfluencer = errors.New("not a health influencer")

// Verifier vets names against the store first and the research provider
// second
type Verifier struct {
	client   research.Client
	subjects *store.SubjectRepo
}

// NewVerifier creates a verifier
func NewVerifier(client research.Client, subjects *store.SubjectRepo) *Verifier {
	return &Verifier{client: client, subjects: subjects}
}

// NormalizeName lowercases a name and strips everything that is not a
// letter or digit, so "Dr. Andrew Huberman" and "andrew huberman" compare
// equal.
func NormalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Find matches a name against every stored subject's canonical name and
// known aliases using normalized comparison. Returns
// store.ErrSubjectNotFound when nothing matches.
func Find(subjects *store.SubjectRepo, name string) (*model.Subject, error) {
	all, err := subjects.All()
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	norm := NormalizeName(name)
	for i := range all {
		if matches(&all[i], norm) {
			return &all[i], nil
		}
	}
	return nil, store.ErrSubjectNotFound
}

func matches(subject *model.Subject, norm string) bool {
	if NormalizeName(subject.CanonicalName) == norm {
		return true
	}
	for _, alias := range subject.KnownAliases {
		if NormalizeName(alias) == norm {
			return true
		}
	}
	return false
}

// Verify resolves a name to a verification result. Known subjects are
// answered from the store without an external call. Unknown names are
// vetted by the provider; a vetted health influencer is checked against
// the store once more under their canonical identity (the query term may
// be an alias of someone already tracked) and inserted only if still new.
func (v *Verifier) Verify(ctx context.Context, name string) (*model.VerificationResult, error) {
	if stored, err := Find(v.subjects, name); err == nil {
		return storedResult(stored), nil
	} else if !errors.Is(err, store.ErrSubjectNotFound) {
		return nil, err
	}

	raw, err := v.client.Query(ctx, research.VerifyPrompt(name), research.Options{})
	if err != nil {
		return nil, fmt.Errorf("verification query: %w", err)
	}

	var result model.VerificationResult
	if err := extract.Object(raw, &result); err != nil {
		return nil, fmt.Errorf("parse verification response: %w", err)
	}

	if !result.IsHealthInfluencer {
		return nil, fmt.Errorf("%q: %w", name, ErrNotAHealthInfluencer)
	}

	// The provider may have resolved an alias we have never seen to a
	// canonical name we already track.
	candidates := append([]string{result.CanonicalName}, result.KnownAliases...)
	for _, candidate := range candidates {
		if stored, err := Find(v.subjects, candidate); err == nil {
			return storedResult(stored), nil
		} else if !errors.Is(err, store.ErrSubjectNotFound) {
			return nil, err
		}
	}

	subject := &model.Subject{
		CanonicalName:   result.CanonicalName,
		KnownAliases:    mergeAliases(result.CanonicalName, result.KnownAliases, name),
		PlatformHandles: result.PlatformHandles,
		Credentials:     result.Credentials,
		Categories:      result.Categories,
	}
	if result.ApproximateFollowers != nil {
		subject.FollowerCount = *result.ApproximateFollowers
	}
	if err := v.subjects.Create(subject); err != nil {
		return nil, fmt.Errorf("insert subject: %w", err)
	}

	return &result, nil
}

// mergeAliases combines provider aliases with the original query term,
// dropping entries that normalize to the canonical name or to each other.
func mergeAliases(canonical string, aliases []string, queryTerm string) model.StringList {
	seen := map[string]bool{NormalizeName(canonical): true}
	merged := model.StringList{}
	for _, alias := range append(append([]string{}, aliases...), queryTerm) {
		norm := NormalizeName(alias)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		merged = append(merged, alias)
	}
	return merged
}

// storedResult re-expresses a subject row in the verification result shape
func storedResult(subject *model.Subject) *model.VerificationResult {
	followers := subject.FollowerCount
	return &model.VerificationResult{
		CanonicalName:        subject.CanonicalName,
		KnownAliases:         subject.KnownAliases,
		IsHealthInfluencer:   true,
		Confidence:           100,
		PlatformHandles:      subject.PlatformHandles,
		Credentials:          subject.Credentials,
		Categories:           subject.Categories,
		ApproximateFollowers: &followers,
	}
}
