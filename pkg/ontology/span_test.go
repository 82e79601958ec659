package ontology

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpanOrdering(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want int
	}{
		{name: "earlier begin sorts first", a: NewSpan(0, 10), b: NewSpan(1, 2), want: -1},
		{name: "later begin sorts last", a: NewSpan(5, 6), b: NewSpan(1, 20), want: 1},
		{name: "equal begin orders by end", a: NewSpan(3, 4), b: NewSpan(3, 9), want: -1},
		{name: "equal begin longer span last", a: NewSpan(3, 9), b: NewSpan(3, 4), want: 1},
		{name: "identical spans", a: NewSpan(2, 7), b: NewSpan(2, 7), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Compare(tt.b))
			assert.Equal(t, -tt.want, tt.b.Compare(tt.a))
			assert.Equal(t, tt.want < 0, tt.a.Less(tt.b))
			assert.Equal(t, tt.want == 0, tt.a == tt.b)
		})
	}
}

func TestSpanEquality(t *testing.T) {
	a, b, c := NewSpan(1, 4), Span{Begin: 1, End: 4}, NewSpan(1, 4)

	assert.True(t, a == a, "reflexive")
	assert.True(t, a == b && b == a, "symmetric")
	assert.True(t, a == b && b == c && a == c, "transitive")
	assert.False(t, a == NewSpan(1, 5))
	assert.False(t, a == NewSpan(0, 4))
}

func TestSpanSort(t *testing.T) {
	spans := []Span{{4, 5}, {0, 3}, {0, 1}, {2, 9}}
	slices.SortFunc(spans, Span.Compare)
	assert.Equal(t, []Span{{0, 1}, {0, 3}, {2, 9}, {4, 5}}, spans)
}

func TestSpanHelpers(t *testing.T) {
	s := NewSpan(2, 8)
	assert.Equal(t, 6, s.Len())
	assert.True(t, s.Contains(NewSpan(2, 8)))
	assert.True(t, s.Contains(NewSpan(3, 5)))
	assert.False(t, s.Contains(NewSpan(1, 5)))
	assert.Equal(t, "[2, 8)", s.String())
}
