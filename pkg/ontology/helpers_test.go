package ontology

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// testContainer is a minimal Container keyed by tid.
type testContainer struct {
	entries map[string]Entry
	next    int
	reject  error
}

func newTestContainer() *testContainer {
	return &testContainer{entries: make(map[string]Entry)}
}

func (c *testContainer) Validate(e Entry) error {
	return c.reject
}

func (c *testContainer) GetEntry(tid string) (Entry, error) {
	e, ok := c.entries[tid]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, tid)
	}
	return e, nil
}

func (c *testContainer) add(t *testing.T, e Entry) {
	t.Helper()
	c.next++
	require.NoError(t, e.AssignID(strconv.Itoa(c.next)))
	c.entries[e.TID()] = e
}

func (c *testContainer) remove(tid string) {
	if e, ok := c.entries[tid]; ok {
		delete(c.entries, tid)
		e.Detach()
	}
}

type word struct {
	BaseEntry
	text  string
	pos   string
	count int
}

func (w *word) Kind() string { return "ontology.word" }

func (w *word) Fields() []Field {
	return []Field{
		Var("text", &w.text),
		Var("pos", &w.pos),
		Var("count", &w.count),
	}
}

func newWord(t *testing.T, c *testContainer) *word {
	t.Helper()
	w := &word{}
	require.NoError(t, w.Init(w, c))
	c.add(t, w)
	return w
}

type note struct {
	BaseEntry
}

func (n *note) Kind() string { return "ontology.note" }

func newNote(t *testing.T, c *testContainer) *note {
	t.Helper()
	n := &note{}
	require.NoError(t, n.Init(n, c))
	c.add(t, n)
	return n
}

type wordLink struct {
	BaseLink[*word, *word]
}

func (l *wordLink) Kind() string { return "ontology.wordLink" }

func newWordLink(c Container, parent, child Entry) (*wordLink, error) {
	l := &wordLink{}
	if err := l.Init(l, c); err != nil {
		return nil, err
	}
	if err := l.Connect(parent, child); err != nil {
		return nil, err
	}
	return l, nil
}

type otherLink struct {
	BaseLink[*word, *word]
}

func (l *otherLink) Kind() string { return "ontology.otherLink" }

type wordGroup struct {
	BaseGroup[*word]
}

func (g *wordGroup) Kind() string { return "ontology.wordGroup" }

func newWordGroup(t *testing.T, c *testContainer) *wordGroup {
	t.Helper()
	g := &wordGroup{}
	require.NoError(t, g.Init(g, c))
	c.add(t, g)
	return g
}
