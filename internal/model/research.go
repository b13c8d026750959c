package model

// RawClaim is a claim as returned by the research provider, before
// deduplication and classification. Exists only within one pipeline run.
type RawClaim struct {
	ClaimText      string  `json:"claim_text"`
	SourceContent  *string `json:"source_content"`
	SourcePlatform *string `json:"source_platform"`
	FoundDate      *string `json:"found_date"`
}

// DedupVerdict is the provider's per-claim duplicate determination.
// The provider is instructed to set IsDuplicate when SimilarityScore >= 0.8.
type DedupVerdict struct {
	NewClaimText             string  `json:"new_claim_text"`
	IsDuplicate              bool    `json:"is_duplicate"`
	MatchedExistingClaimText *string `json:"matched_existing_claim_text"`
	SimilarityScore          float64 `json:"similarity_score"`
}

// ClassificationRecord is the provider's per-claim classification result.
// Becomes part of a persisted Claim on success.
type ClassificationRecord struct {
	ClaimText             string   `json:"claim_text"`
	Status                string   `json:"status"`
	Category              *string  `json:"category"`
	ConfidenceScore       int      `json:"confidence_score"`
	JournalsSupporting    []string `json:"journals_supporting"`
	JournalsQuestioning   []string `json:"journals_questioning"`
	JournalsContradicting []string `json:"journals_contradicting"`
}

// VerificationResult is the provider's answer to "is this person a health
// influencer", or the stored subject re-expressed in the same shape.
type VerificationResult struct {
	CanonicalName        string          `json:"canonicalName"`
	KnownAliases         []string        `json:"knownAliases"`
	IsHealthInfluencer   bool            `json:"isHealthInfluencer"`
	Confidence           int             `json:"confidence"`
	PlatformHandles      PlatformHandles `json:"platformHandles"`
	Credentials          []string        `json:"credentials"`
	Categories           []string        `json:"categories"`
	ApproximateFollowers *int64          `json:"approximateFollowers"`
}
