// Package brackets parses and validates "rate:threshold" tax bracket lists.
package brackets

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	segmentSep = ","
	pairSep    = ":"
)

// ErrEmpty is returned when a bracket list has no segments.
var ErrEmpty = errors.New("brackets: no tax brackets given")

// Bracket is one (rate, threshold) pair. Rate is a fraction (0.1 = 10%).
// A field that could not be parsed holds NaN.
type Bracket struct {
	Rate      float64
	Threshold float64
}

// Valid reports whether both fields are finite numbers.
func (b Bracket) Valid() bool {
	return isFinite(b.Rate) && isFinite(b.Threshold)
}

// List is an ordered bracket list. Order is significant and is sent as-is.
type List []Bracket

// SegmentError describes a segment that failed validation.
type SegmentError struct {
	Index   int // 1-based
	Segment string
	Reason  string
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("brackets: segment %d %q: %s", e.Index, e.Segment, e.Reason)
}

// Parse splits s into segments on "," and each segment on ":".
// It never fails: a malformed segment yields a Bracket holding NaN where a
// number could not be read. Use Validate or ParseStrict before sending.
func Parse(s string) List {
	if strings.TrimSpace(s) == "" {
		return List{}
	}

	segments := strings.Split(s, segmentSep)
	list := make(List, 0, len(segments))
	for _, seg := range segments {
		list = append(list, parseSegment(seg))
	}
	return list
}

// ParseStrict parses s and validates the result.
func ParseStrict(s string) (List, error) {
	list := Parse(s)
	if err := list.validate(segmentsOf(s)); err != nil {
		return nil, err
	}
	return list, nil
}

// Validate checks that the list is non-empty and every bracket is usable:
// finite numbers, a rate within [0, 1] and a non-negative threshold.
func (l List) Validate() error {
	return l.validate(nil)
}

func (l List) validate(raw []string) error {
	if len(l) == 0 {
		return ErrEmpty
	}
	for i, b := range l {
		seg := b.String()
		if i < len(raw) {
			seg = strings.TrimSpace(raw[i])
		}
		var reason string
		switch {
		case !isFinite(b.Rate) && !isFinite(b.Threshold):
			reason = "expected rate:threshold"
		case !isFinite(b.Rate):
			reason = "rate is not a number"
		case !isFinite(b.Threshold):
			reason = "threshold is not a number"
		case b.Rate < 0 || b.Rate > 1:
			reason = "rate must be a fraction between 0 and 1"
		case b.Threshold < 0:
			reason = "threshold must not be negative"
		}
		if reason != "" {
			return &SegmentError{Index: i + 1, Segment: seg, Reason: reason}
		}
	}
	return nil
}

// String renders the list back into "rate:threshold,..." form.
func (l List) String() string {
	parts := make([]string, len(l))
	for i, b := range l {
		parts[i] = b.String()
	}
	return strings.Join(parts, segmentSep)
}

func (b Bracket) String() string {
	return formatFloat(b.Rate) + pairSep + formatFloat(b.Threshold)
}

// MarshalJSON encodes the list as [[rate, threshold], ...].
// Invalid lists are refused so NaN never reaches the wire.
func (l List) MarshalJSON() ([]byte, error) {
	if err := l.Validate(); err != nil && !errors.Is(err, ErrEmpty) {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, b := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('[')
		buf.WriteString(formatFloat(b.Rate))
		buf.WriteByte(',')
		buf.WriteString(formatFloat(b.Threshold))
		buf.WriteByte(']')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func parseSegment(seg string) Bracket {
	parts := strings.Split(seg, pairSep)
	if len(parts) != 2 {
		// Mirror the lenient split: a lone value still fills the rate slot.
		b := Bracket{Rate: math.NaN(), Threshold: math.NaN()}
		if len(parts) == 1 {
			b.Rate = parseNumber(parts[0])
		}
		return b
	}
	return Bracket{
		Rate:      parseNumber(parts[0]),
		Threshold: parseNumber(parts[1]),
	}
}

func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func segmentsOf(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, segmentSep)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
