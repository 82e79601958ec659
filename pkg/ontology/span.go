package ontology

import (
	"cmp"
	"fmt"
)

// Span is a half-open [Begin, End) interval over pack text. Spans are
// ordered by Begin, then by End. Range validity is left to the container.
type Span struct {
	Begin int `json:"begin"`
	End   int `json:"end"`
}

// NewSpan returns the span [begin, end).
func NewSpan(begin, end int) Span {
	return Span{Begin: begin, End: end}
}

// Compare returns -1, 0 or +1 depending on whether s sorts before, equal to
// or after other.
func (s Span) Compare(other Span) int {
	if c := cmp.Compare(s.Begin, other.Begin); c != 0 {
		return c
	}
	return cmp.Compare(s.End, other.End)
}

// Less reports whether s sorts before other.
func (s Span) Less(other Span) bool {
	return s.Compare(other) < 0
}

// Len returns End - Begin.
func (s Span) Len() int {
	return s.End - s.Begin
}

// Contains reports whether other lies entirely within s.
func (s Span) Contains(other Span) bool {
	return s.Begin <= other.Begin && other.End <= s.End
}

func (s Span) String() string {
	return fmt.Sprintf("[%d, %d)", s.Begin, s.End)
}
