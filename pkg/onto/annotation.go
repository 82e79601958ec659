package onto

import (
	"slices"

	"github.com/mesh-intelligence/annopack/pkg/ontology"
	"github.com/mesh-intelligence/annopack/pkg/pack"
)

// Annotation is the base of kinds that cover a span of the pack text.
type Annotation struct {
	ontology.BaseEntry
	span ontology.Span
}

// Span returns the covered [Begin, End) interval.
func (a *Annotation) Span() ontology.Span {
	return a.span
}

// Begin returns the span start offset.
func (a *Annotation) Begin() int {
	return a.span.Begin
}

// End returns the span end offset.
func (a *Annotation) End() int {
	return a.span.End
}

// Text returns the covered slice of the container text, or "" when the
// container holds no text or the entry is detached.
func (a *Annotation) Text() string {
	src, ok := a.Pack().(interface{ Text() string })
	if !ok {
		return ""
	}
	text := src.Text()
	if a.span.Begin < 0 || a.span.End > len(text) || a.span.Begin > a.span.End {
		return ""
	}
	return text[a.span.Begin:a.span.End]
}

// SortBySpan orders annotations by span.
func SortBySpan[T pack.Spanned](items []T) {
	slices.SortStableFunc(items, func(a, b T) int {
		return a.Span().Compare(b.Span())
	})
}

// Document covers a whole document.
type Document struct {
	Annotation
}

func (d *Document) Kind() string { return KindDocument }

// NewDocument constructs a Document over [begin, end) against c.
func NewDocument(c ontology.Container, begin, end int) (*Document, error) {
	d := &Document{}
	d.span = ontology.NewSpan(begin, end)
	if err := d.Init(d, c); err != nil {
		return nil, err
	}
	return d, nil
}

// Sentence covers one sentence.
type Sentence struct {
	Annotation
}

func (s *Sentence) Kind() string { return KindSentence }

// NewSentence constructs a Sentence over [begin, end) against c.
func NewSentence(c ontology.Container, begin, end int) (*Sentence, error) {
	s := &Sentence{}
	s.span = ontology.NewSpan(begin, end)
	if err := s.Init(s, c); err != nil {
		return nil, err
	}
	return s, nil
}

// Token is one word or punctuation mark.
type Token struct {
	Annotation
	POS   string
	Lemma string
	Chunk string
	NER   string
}

func (t *Token) Kind() string { return KindToken }

// Fields declares the attributes SetFields may change.
func (t *Token) Fields() []ontology.Field {
	return []ontology.Field{
		ontology.Var("pos", &t.POS),
		ontology.Var("lemma", &t.Lemma),
		ontology.Var("chunk", &t.Chunk),
		ontology.Var("ner", &t.NER),
	}
}

// NewToken constructs a Token over [begin, end) against c.
func NewToken(c ontology.Container, begin, end int) (*Token, error) {
	t := &Token{}
	t.span = ontology.NewSpan(begin, end)
	if err := t.Init(t, c); err != nil {
		return nil, err
	}
	return t, nil
}

// EntityMention is a span naming an entity.
type EntityMention struct {
	Annotation
	NERType string
}

func (m *EntityMention) Kind() string { return KindEntityMention }

func (m *EntityMention) Fields() []ontology.Field {
	return []ontology.Field{ontology.Var("ner_type", &m.NERType)}
}

// NewEntityMention constructs an EntityMention over [begin, end) against c.
func NewEntityMention(c ontology.Container, begin, end int) (*EntityMention, error) {
	m := &EntityMention{}
	m.span = ontology.NewSpan(begin, end)
	if err := m.Init(m, c); err != nil {
		return nil, err
	}
	return m, nil
}
