package pack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/annopack/pkg/ontology"
)

const (
	kindMark = "pack.mark"
	kindArc  = "pack.arc"
	kindBag  = "pack.bag"
)

type mark struct {
	ontology.BaseEntry
	span  ontology.Span
	Label string
}

func (m *mark) Kind() string        { return kindMark }
func (m *mark) Span() ontology.Span { return m.span }

func (m *mark) Fields() []ontology.Field {
	return []ontology.Field{ontology.Var("label", &m.Label)}
}

func newMark(c ontology.Container, begin, end int) (*mark, error) {
	m := &mark{span: ontology.NewSpan(begin, end)}
	if err := m.Init(m, c); err != nil {
		return nil, err
	}
	return m, nil
}

type arc struct {
	ontology.BaseLink[*mark, *mark]
}

func (a *arc) Kind() string { return kindArc }

func newArc(c ontology.Container, parent, child ontology.Entry) (*arc, error) {
	a := &arc{}
	if err := a.Init(a, c); err != nil {
		return nil, err
	}
	if err := a.Connect(parent, child); err != nil {
		return nil, err
	}
	return a, nil
}

type bag struct {
	ontology.BaseGroup[*mark]
}

func (b *bag) Kind() string { return kindBag }

func newBag(c ontology.Container) (*bag, error) {
	b := &bag{}
	if err := b.Init(b, c); err != nil {
		return nil, err
	}
	return b, nil
}

func init() {
	RegisterKind(kindMark, func(p *Pack, s ontology.Span) (ontology.Entry, error) {
		return newMark(p, s.Begin, s.End)
	})
	RegisterKind(kindArc, func(p *Pack, _ ontology.Span) (ontology.Entry, error) {
		return newArc(p, nil, nil)
	})
	RegisterKind(kindBag, func(p *Pack, _ ontology.Span) (ontology.Entry, error) {
		return newBag(p)
	})
}

func addMark(t *testing.T, p *Pack, begin, end int) *mark {
	t.Helper()
	m, err := newMark(p, begin, end)
	require.NoError(t, err)
	_, err = p.Add(m)
	require.NoError(t, err)
	return m
}
