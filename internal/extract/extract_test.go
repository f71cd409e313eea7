package extract

import (
	"errors"
	"testing"
)

func TestFirstObjectEmbeddedInProse(t *testing.T) {
	text := "Here is the result:\n{\"primary\": \"joy\", \"confidence\": 0.9}\nHope that helps!"
	got, err := Slice(text)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	want := "{\"primary\": \"joy\", \"confidence\": 0.9}"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFirstObjectNestedClosesAtOuterBrace(t *testing.T) {
	got, err := Slice(`noise {"a": {"b": 1}} noise`)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != `{"a": {"b": 1}}` {
		t.Fatalf("expected outer object, got %q", got)
	}
}

func TestFirstObjectPicksFirstNotLongest(t *testing.T) {
	got, err := Slice(`{"a": 1} and then {"b": {"c": 2}}`)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != `{"a": 1}` {
		t.Fatalf("expected first object, got %q", got)
	}
}

func TestFirstObjectUnbalanced(t *testing.T) {
	_, err := FirstObject(`{"a": 1`)
	if !errors.Is(err, ErrUnbalancedBraces) {
		t.Fatalf("expected ErrUnbalancedBraces, got %v", err)
	}
}

func TestFirstObjectNoBrace(t *testing.T) {
	_, err := FirstObject("the model refused to answer")
	if !errors.Is(err, ErrNoOpeningBrace) {
		t.Fatalf("expected ErrNoOpeningBrace, got %v", err)
	}
}

func TestFirstObjectBracesInsideStrings(t *testing.T) {
	text := `{"quote": "ein {verschachteltes} Zitat", "n": 1} trailing`
	got, err := Slice(text)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != `{"quote": "ein {verschachteltes} Zitat", "n": 1}` {
		t.Fatalf("braces inside string corrupted the span: %q", got)
	}

	// A lone close brace inside a string must not end the scan early.
	text = `{"a": "}", "b": {"c": 2}}`
	got, err = Slice(text)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != text {
		t.Fatalf("expected full object, got %q", got)
	}
}

func TestFirstObjectEscapedQuotes(t *testing.T) {
	text := `{"a": "he said \"{\" once", "b": 2} rest`
	got, err := Slice(text)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != `{"a": "he said \"{\" once", "b": 2}` {
		t.Fatalf("escaped quote handling broke the span: %q", got)
	}
}

func TestFirstObjectSpanIndices(t *testing.T) {
	text := `xx{"a":1}yy`
	span, err := FirstObject(text)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if span.Start != 2 || span.End != 9 {
		t.Fatalf("expected span [2,9), got [%d,%d)", span.Start, span.End)
	}
}

func TestTruncateAtMarker(t *testing.T) {
	text := "{\"a\": 1}<|endoftext|>garbage {\"b\": 2}"
	got := TruncateAtMarker(text, "<|endoftext|>")
	if got != `{"a": 1}` {
		t.Fatalf("expected truncation at marker, got %q", got)
	}
	if TruncateAtMarker("no marker here", "<|endoftext|>") != "no marker here" {
		t.Fatalf("absent marker should leave text unchanged")
	}
	if TruncateAtMarker("unchanged", "") != "unchanged" {
		t.Fatalf("empty marker should leave text unchanged")
	}
}
