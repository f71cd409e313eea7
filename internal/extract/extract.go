// Package extract locates the first balanced JSON object literal embedded
// in raw model output. Generative models routinely wrap their payload in
// explanatory prose, echo the prompt, or keep rambling after the object;
// the scan ignores all of that and returns only the span of the first
// object whose braces balance.
package extract

import (
	"errors"
	"strings"
)

var (
	// ErrNoOpeningBrace means the text contains no '{' at all.
	ErrNoOpeningBrace = errors.New("no opening brace in model output")

	// ErrUnbalancedBraces means an object literal was opened but never
	// closed before the end of the text (typically a truncated response).
	ErrUnbalancedBraces = errors.New("unbalanced braces in model output")
)

// Span is a half-open [Start, End) index range into the scanned text.
// Start is the index of the first '{'; End is one past the '}' that
// returns the nesting depth to zero.
type Span struct {
	Start int
	End   int
}

// FirstObject scans text left to right and returns the span of the first
// balanced object literal. Braces inside string literals are inert:
// the scan tracks quote state and honors backslash escapes, so a value
// like "se{:-)}lfie" cannot corrupt the depth count.
func FirstObject(text string) (Span, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return Span{}, ErrNoOpeningBrace
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return Span{Start: start, End: i + 1}, nil
			}
		}
	}
	return Span{}, ErrUnbalancedBraces
}

// Slice returns the substring denoted by the first balanced object literal.
func Slice(text string) (string, error) {
	span, err := FirstObject(text)
	if err != nil {
		return "", err
	}
	return text[span.Start:span.End], nil
}

// TruncateAtMarker cuts text at the first occurrence of an
// end-of-generation marker, dropping the marker and everything after it.
// Callers apply this before extraction; with no marker present the text is
// returned unchanged.
func TruncateAtMarker(text, marker string) string {
	if marker == "" {
		return text
	}
	if idx := strings.Index(text, marker); idx >= 0 {
		return text[:idx]
	}
	return text
}
