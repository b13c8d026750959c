package research

import (
	"encoding/json"
	"fmt"
	"strings"
)

// jsonList renders a string slice as a JSON array literal for prompt
// interpolation. Marshal of a string slice cannot fail.
func jsonList(items []string) string {
	b, _ := json.Marshal(items)
	return string(b)
}

// VerifyPrompt asks the provider whether a named person is a health
// influencer and requests a strictly-typed identity profile.
func VerifyPrompt(name string) string {
	return fmt.Sprintf(`Analyze if the given person is a health influencer by performing a comprehensive verification:

1. Identity verification: identify their canonical (official) name, known name variations, and professional credentials.
2. Social media presence: locate their official accounts and total follower count across platforms.
3. Professional impact: evaluate their areas of expertise and main content categories.

For: %s

Return a JSON object with this exact structure. The response must be valid parseable JSON only, with no additional text, comments or markdown:

{
  "canonicalName": string,
  "knownAliases": string[],
  "isHealthInfluencer": boolean,
  "confidence": number,
  "platformHandles": {
    "twitter": string | null,
    "instagram": string | null,
    "youtube": string | null
  },
  "credentials": string[],
  "categories": string[],
  "approximateFollowers": number | null
}

Important rules:
- Must return only valid, parseable JSON without comments, explanations or markdown.
- Numbers must be plain integers without underscores or commas.
- All strings must use double quotes; no trailing commas; no code blocks.
- For unknown handles or numbers, use null. Empty arrays should be [] rather than null.
- confidence is an integer 0-100.
- canonicalName should be their most widely recognized official name; include all known variations in knownAliases.
- approximateFollowers is the most recent estimated total across all platforms.`, name)
}

// RecentClaimsPrompt requests up to limit recent distinct health-related
// statements for a subject, restricted to testable topical domains.
func RecentClaimsPrompt(name string, limit int) string {
	return fmt.Sprintf(`Gather a maximum of %d recent distinct health-related statements from %s.
Return only statements that focus on diet, nutrition, fitness, mental health, supplementation, or medical/scientific interventions.
Exclude statements about podcast rankings, personal achievements, or podcast guests, unless they contain a scientifically testable claim.
The response must be valid JSON only - no code blocks, no triple backticks, no commentary.
If no valid claims are found, return an empty JSON array [].
Don't return more than %[1]d claims and don't repeat semantically identical claims.

Return each statement with these fields in this exact JSON format only, no extra text:

[
  {
    "claim_text": string,
    "source_content": string | null,
    "source_platform": string | null,
    "found_date": string | null
  }
]

Rules:
- Must be pure valid JSON; avoid UTF-8 special characters for dashes and quotes.
- For unknown fields, use null.
- No URLs anywhere in the response.
- Double quotes for strings, no trailing commas, no code blocks.`, limit, name)
}

// DedupPrompt asks the provider to compare a batch of new claim texts
// against the full existing-claims list and return one verdict per input.
func DedupPrompt(newClaims, existingClaims []string) string {
	return fmt.Sprintf(`Duplicate Detection Task:
Compare each claim from newClaims against existingClaims to identify semantic duplicates.

Input:
newClaims = %s
existingClaims = %s

Return a JSON array containing one object per new claim. Each object must have exactly these fields:
{
  "new_claim_text": "exact text from newClaims",
  "is_duplicate": boolean,
  "matched_existing_claim_text": "matching text from existingClaims or null",
  "similarity_score": number between 0.0 and 1.0
}

Critical requirements:
- Response must be pure JSON - no markdown, no comments, no explanations, no code blocks.
- new_claim_text must be the exact string from newClaims.
- Use standard ASCII quotes, not curly quotes.
- If unable to generate valid JSON meeting these requirements, return only: []

Scoring rules:
- similarity_score = 1.0: exact match or semantically identical.
- similarity_score >= 0.8: strong semantic similarity (probable duplicate).
- is_duplicate must be true when similarity_score >= 0.8.`, jsonList(newClaims), jsonList(existingClaims))
}

// ClassificationPrompt asks the provider to classify a batch of claims
// against evidence from the selected journals.
func ClassificationPrompt(claims, journals []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `We need to classify an array of scientific claims using evidence from these journals: %s
Claims to classify: %s

Return a JSON array containing one object per claim. Each object must have exactly these fields:
{
  "claim_text": "exact claim text as provided",
  "status": one of ["Verified", "Questionable", "Debunked"],
  "category": one of %s,
  "confidence_score": integer between 0-100,
  "journals_supporting": array of journal names that validate the claim,
  "journals_questioning": array of journal names with mixed or partial support,
  "journals_contradicting": array of journal names that dispute the claim
}

Critical requirements:
- Response must be pure JSON - no markdown, no comments, no explanations, no code blocks.
- status must exactly match one of the three options.
- If the claim fits no listed category, use "Other".
- Use standard ASCII quotes and hyphens, not curly quotes or em dashes.
- Use null for missing fields and [] for empty arrays.
- If unable to generate valid JSON meeting these requirements, return only: []`,
		jsonList(journals), jsonList(claims),
		jsonList([]string{"Sleep", "Performance", "Hormones", "Stress", "Nutrition", "Exercise", "Cognition", "Motivation", "Recovery", "Mental Health", "Other"}))
	return b.String()
}
