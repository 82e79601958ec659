package pack

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/annopack/pkg/ontology"
)

func TestNew(t *testing.T) {
	p1 := New(WithName("a"), WithText("some text"))
	p2 := New()

	_, err := uuid.Parse(p1.ID())
	require.NoError(t, err)
	assert.NotEqual(t, p1.ID(), p2.ID())
	assert.Equal(t, "a", p1.Name())
	assert.Equal(t, "some text", p1.Text())
	assert.Zero(t, p1.Len())
	assert.False(t, p1.IsPoison())
}

func TestPackAdd(t *testing.T) {
	p := New(WithText("abcdef"))
	m1 := addMark(t, p, 0, 2)
	m2 := addMark(t, p, 2, 4)

	assert.Equal(t, "pack.mark.1", m1.TID())
	assert.Equal(t, "pack.mark.2", m2.TID())
	assert.Equal(t, 2, p.Len())

	tid, err := p.Add(m1)
	require.NoError(t, err)
	assert.Equal(t, m1.TID(), tid, "adding a held entry is a no-op")
	assert.Equal(t, 2, p.Len())

	got, err := p.GetEntry(m2.TID())
	require.NoError(t, err)
	assert.Same(t, m2, got)
}

func TestPackAddRejects(t *testing.T) {
	t.Run("entry from another pack", func(t *testing.T) {
		p, other := New(WithText("abc")), New(WithText("abc"))
		m, err := newMark(other, 0, 1)
		require.NoError(t, err)
		_, err = p.Add(m)
		assert.ErrorIs(t, err, ErrForeignEntry)
		assert.ErrorIs(t, err, ontology.ErrValidation)
	})

	t.Run("nil entry", func(t *testing.T) {
		_, err := New().Add(nil)
		assert.ErrorIs(t, err, ontology.ErrValidation)
	})

	t.Run("entry with a tid the pack does not hold", func(t *testing.T) {
		p := New(WithText("abc"))
		m, err := newMark(p, 0, 1)
		require.NoError(t, err)
		require.NoError(t, m.AssignID("99"))
		_, err = p.Add(m)
		assert.ErrorIs(t, err, ontology.ErrAssigned)
	})
}

func TestPackValidate(t *testing.T) {
	tests := []struct {
		name    string
		pack    *Pack
		begin   int
		end     int
		wantErr error
	}{
		{name: "span inside text", pack: New(WithText("hello")), begin: 0, end: 5},
		{name: "empty span at end", pack: New(WithText("hello")), begin: 5, end: 5},
		{name: "span past end", pack: New(WithText("hello")), begin: 3, end: 6, wantErr: ErrSpanOutOfRange},
		{name: "negative begin", pack: New(WithText("hello")), begin: -1, end: 2, wantErr: ErrSpanOutOfRange},
		{name: "reversed span", pack: New(WithText("hello")), begin: 3, end: 1, wantErr: ErrSpanOutOfRange},
		{name: "accepted kind", pack: New(WithText("hello"), WithKinds(kindMark)), begin: 0, end: 1},
		{name: "kind not accepted", pack: New(WithText("hello"), WithKinds(kindArc)), begin: 0, end: 1, wantErr: ErrKindNotAccepted},
		{name: "poison pack", pack: Poison(), begin: 0, end: 0, wantErr: ErrPoisonPack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := newMark(tt.pack, tt.begin, tt.end)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ontology.ErrValidation)
				assert.Nil(t, m)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, m)
		})
	}
}

func TestPackGetEntryNotFound(t *testing.T) {
	_, err := New().GetEntry("pack.mark.1")
	assert.ErrorIs(t, err, ontology.ErrNotFound)
}

func TestPackRemove(t *testing.T) {
	p := New(WithText("abcdef"))
	m1 := addMark(t, p, 0, 1)
	m2 := addMark(t, p, 1, 2)
	m3 := addMark(t, p, 2, 3)

	a, err := newArc(p, m1, m2)
	require.NoError(t, err)

	require.NoError(t, p.Remove(m2.TID()))
	assert.Nil(t, m2.Pack())
	assert.Equal(t, []ontology.Entry{m1, m3}, p.Entries())

	_, err = a.GetChild()
	assert.ErrorIs(t, err, ontology.ErrUnresolved)

	assert.ErrorIs(t, p.Remove(m2.TID()), ontology.ErrNotFound)
}

func TestPackEntriesOrder(t *testing.T) {
	p := New(WithText("abcdef"))
	m3 := addMark(t, p, 4, 5)
	m1 := addMark(t, p, 0, 1)
	b, err := newBag(p)
	require.NoError(t, err)
	_, err = p.Add(b)
	require.NoError(t, err)

	assert.Equal(t, []ontology.Entry{m3, m1, b}, p.Entries())
}

func TestPackWorkingComponent(t *testing.T) {
	p := New(WithText("abc"))
	p.SetWorkingComponent("tagger")
	assert.Equal(t, "tagger", p.WorkingComponent())

	stamped := addMark(t, p, 0, 1)
	assert.Equal(t, "tagger", stamped.Component())

	own, err := newMark(p, 1, 2)
	require.NoError(t, err)
	own.SetComponent("reader")
	_, err = p.Add(own)
	require.NoError(t, err)
	assert.Equal(t, "reader", own.Component(), "existing component is kept")

	p.SetWorkingComponent("")
	assert.Empty(t, addMark(t, p, 2, 3).Component())
}

func TestPackLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := New(WithText("abc"), WithLogger(logger))

	m := addMark(t, p, 0, 1)
	require.NoError(t, p.Remove(m.TID()))

	assert.Contains(t, buf.String(), `"msg":"entry added"`)
	assert.Contains(t, buf.String(), `"msg":"entry removed"`)
	assert.Contains(t, buf.String(), m.TID())
}
