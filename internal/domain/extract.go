package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

// PatternSpec names a measurement and the regular expression that recognizes
// it in a telemetry message. Declaration order is the dispatch order.
type PatternSpec struct {
	Name string
	Expr string
}

// Pattern is a compiled PatternSpec.
type Pattern struct {
	Name string
	re   *regexp.Regexp
}

// CompilePatterns compiles an ordered pattern list, preserving order.
func CompilePatterns(specs []PatternSpec) ([]Pattern, error) {
	patterns := make([]Pattern, 0, len(specs))
	for _, s := range specs {
		re, err := regexp.Compile(s.Expr)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", s.Name, err)
		}
		patterns = append(patterns, Pattern{Name: s.Name, re: re})
	}
	return patterns, nil
}

// Extraction is the result of matching one message: either the name and value
// of the first matching pattern, or the unmatched variant (Matched false).
type Extraction struct {
	Matched bool
	Name    string
	Value   float64
}

// ExtractMeasurement matches message against patterns in declaration order.
// The first pattern that matches wins; later patterns are not consulted. The
// value is the first capture group that participated in the match, parsed as
// a float.
//
// A match with no participating capture group, or whose captured text is not
// numeric, returns an ExtractionError: the pattern set promises a numeric
// group, and silently producing null would hide the defect.
func ExtractMeasurement(message string, patterns []Pattern) (Extraction, error) {
	for _, p := range patterns {
		idx := p.re.FindStringSubmatchIndex(message)
		if idx == nil {
			continue
		}

		capture, ok := firstParticipatingGroup(message, idx)
		if !ok {
			return Extraction{}, &ExtractionError{
				Message: message,
				Reason:  fmt.Sprintf("pattern %q matched with no participating capture group", p.Name),
			}
		}

		value, err := strconv.ParseFloat(capture, 64)
		if err != nil {
			return Extraction{}, &ExtractionError{
				Message: message,
				Reason:  fmt.Sprintf("pattern %q captured non-numeric %q", p.Name, capture),
				Err:     err,
			}
		}
		return Extraction{Matched: true, Name: p.Name, Value: value}, nil
	}
	return Extraction{}, nil
}

// firstParticipatingGroup returns the text of the first capture group with a
// valid index pair. Groups that did not participate in the match have -1
// offsets (e.g. the unused branch of an alternation).
func firstParticipatingGroup(message string, idx []int) (string, bool) {
	for g := 1; g*2+1 < len(idx); g++ {
		start, end := idx[g*2], idx[g*2+1]
		if start >= 0 && end >= 0 {
			return message[start:end], true
		}
	}
	return "", false
}
