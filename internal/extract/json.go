// Package extract parses strictly-typed JSON values out of raw completion
// text. The research provider is not contractually obligated to return
// clean JSON - it routinely wraps answers in prose, code fences, or
// typographic punctuation - so every response goes through a normalization
// pass before the JSON payload is sliced out and decoded.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedResponse indicates the completion text did not contain a
// parseable JSON value of the expected shape after cleanup.
var ErrMalformedResponse = errors.New("malformed response")

var (
	fenceRe   = regexp.MustCompile("```json|```")
	urlRe     = regexp.MustCompile(`https?://[^"\s]+`)
	commentRe = regexp.MustCompile(`(?m)\s*//.*$`)
	spacesRe  = regexp.MustCompile(`\s{2,}`)
)

// Object extracts the first top-level JSON object from raw completion text
// and unmarshals it into dst.
func Object(raw string, dst interface{}) error {
	clean := Normalize(raw)

	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start == -1 || end == -1 || end < start {
		return fmt.Errorf("%w: no JSON object found in content", ErrMalformedResponse)
	}

	if err := json.Unmarshal([]byte(clean[start:end+1]), dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// Array extracts the first top-level JSON array from raw completion text
// via a greedy bracket match and unmarshals it into dst.
func Array(raw string, dst interface{}) error {
	clean := Normalize(raw)

	start := strings.Index(clean, "[")
	end := strings.LastIndex(clean, "]")
	if start == -1 || end == -1 || end < start {
		return fmt.Errorf("%w: no JSON array found in content", ErrMalformedResponse)
	}

	if err := json.Unmarshal([]byte(clean[start:end+1]), dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// Normalize cleans completion text down to ASCII-printable JSON material:
// code fences and single-line comments are stripped, forward slashes inside
// URLs are escaped so they survive decoding, Unicode punctuation is mapped
// to its closest ASCII equivalent, remaining non-printable characters are
// dropped, and runs of whitespace collapse to a single space.
func Normalize(raw string) string {
	s := fenceRe.ReplaceAllString(raw, "")
	s = strings.TrimSpace(s)

	s = urlRe.ReplaceAllStringFunc(s, func(url string) string {
		return strings.ReplaceAll(url, "/", `\/`)
	})

	s = commentRe.ReplaceAllString(s, "")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		b.WriteString(mapRune(r))
	}
	s = b.String()

	return spacesRe.ReplaceAllString(s, " ")
}

// mapRune maps a single rune to its normalized replacement. Categories are
// applied in a defined order: quotes, dashes, spacing marks, then a final
// ASCII-printable filter that drops everything else.
func mapRune(r rune) string {
	switch {
	// Smart single quotes and low single quotation marks
	case r >= 0x2018 && r <= 0x201B:
		return "'"
	// Smart double quotes and low double quotation marks
	case r >= 0x201C && r <= 0x201F:
		return `"`
	// Hyphens, dashes, and the minus sign
	case r >= 0x2010 && r <= 0x2015, r == 0x2212:
		return "-"
	// Division slash
	case r == 0x2215:
		return "/"
	// Zero-width characters and the BOM vanish without leaving a gap
	case r >= 0x200B && r <= 0x200D, r == 0xFEFF:
		return ""
	// Non-breaking and typographic spaces, line/paragraph separators,
	// directional marks
	case r == 0x00A0, r == 0x202F, r == 0x200E, r == 0x200F,
		r >= 0x2000 && r <= 0x200A,
		r == 0x2028, r == 0x2029, r == 0x205F:
		return " "
	// Plain ASCII printable passes through
	case r >= 0x20 && r <= 0x7E:
		return string(r)
	// Everything else (currency signs, math operators, arrows, dingbats,
	// combining marks, CJK punctuation, control characters, line breaks)
	// is dropped
	default:
		return ""
	}
}
