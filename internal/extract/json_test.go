package extract

import (
	"errors"
	"testing"
)

func TestArray_CodeFence(t *testing.T) {
	raw := "```json\n[{\"a\": 1}]\n```"

	var out []map[string]int
	if err := Array(raw, &out); err != nil {
		t.Fatalf("Array failed: %v", err)
	}

	if len(out) != 1 || out[0]["a"] != 1 {
		t.Errorf("unexpected result: %v", out)
	}
}

func TestObject_SmartPunctuation(t *testing.T) {
	// Smart quotes around keys and an em-dash inside prose before the JSON
	raw := "Here is the result — as requested:\n{“name”: “Andrew Huberman”, “confidence”: 95}"

	var out struct {
		Name       string `json:"name"`
		Confidence int    `json:"confidence"`
	}
	if err := Object(raw, &out); err != nil {
		t.Fatalf("Object failed: %v", err)
	}

	if out.Name != "Andrew Huberman" {
		t.Errorf("expected name 'Andrew Huberman', got %q", out.Name)
	}
	if out.Confidence != 95 {
		t.Errorf("expected confidence 95, got %d", out.Confidence)
	}
}

func TestObject_ProseWrapped(t *testing.T) {
	raw := "Sure! The verification result is:\n\n{\"ok\": true}\n\nLet me know if you need anything else."

	var out struct {
		OK bool `json:"ok"`
	}
	if err := Object(raw, &out); err != nil {
		t.Fatalf("Object failed: %v", err)
	}
	if !out.OK {
		t.Error("expected ok=true")
	}
}

func TestArray_TrailingComment(t *testing.T) {
	raw := "[{\"claim_text\": \"test\"}] // two claims found"

	var out []map[string]string
	if err := Array(raw, &out); err != nil {
		t.Fatalf("Array failed: %v", err)
	}
	if out[0]["claim_text"] != "test" {
		t.Errorf("unexpected result: %v", out)
	}
}

func TestObject_NoDelimiters(t *testing.T) {
	var out map[string]interface{}
	err := Object("the model returned prose instead of JSON", &out)
	if err == nil {
		t.Fatal("expected error for content without JSON")
	}
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestArray_InvalidJSON(t *testing.T) {
	var out []interface{}
	err := Array("[{\"truncated\": ", &out)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestNormalize_ZeroWidthAndSpaces(t *testing.T) {
	raw := "a​b  c"
	got := Normalize(raw)
	if got != "ab c" {
		t.Errorf("expected %q, got %q", "ab c", got)
	}
}

func TestNormalize_DropsNonASCII(t *testing.T) {
	raw := "café → ☃ done"
	got := Normalize(raw)
	if got != "caf done" {
		t.Errorf("expected %q, got %q", "caf done", got)
	}
}

func TestNormalize_CollapsesLineBreaks(t *testing.T) {
	raw := "{\n  \"a\": 1,\n  \"b\": 2\n}"
	got := Normalize(raw)
	if got != `{ "a": 1, "b": 2}` {
		t.Errorf("unexpected normalization: %q", got)
	}
}

func TestArray_URLSurvivesCleanup(t *testing.T) {
	raw := `[{"source": "https://example.com/post/123"}]`

	var out []map[string]string
	if err := Array(raw, &out); err != nil {
		t.Fatalf("Array failed: %v", err)
	}
	if out[0]["source"] != "https://example.com/post/123" {
		t.Errorf("URL mangled by cleanup: %q", out[0]["source"])
	}
}

func TestStripHTML(t *testing.T) {
	raw := `<p>Creatine improves <b>memory</b></p><script>alert(1)</script>`
	got := StripHTML(raw)
	if got != "Creatine improves memory" {
		t.Errorf("expected stripped text, got %q", got)
	}
}

func TestStripHTML_PlainTextPassthrough(t *testing.T) {
	if got := StripHTML("  no markup here  "); got != "no markup here" {
		t.Errorf("unexpected: %q", got)
	}
}
