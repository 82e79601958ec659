package pack

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/annopack/pkg/ontology"
)

func buildPack(t *testing.T) (*Pack, *mark, *mark, *arc, *bag) {
	t.Helper()
	p := New(WithName("sample"), WithText("one two"))
	m1 := addMark(t, p, 0, 3)
	m2 := addMark(t, p, 4, 7)
	m1.Label = "first"

	a, err := newArc(p, m1, m2)
	require.NoError(t, err)
	_, err = p.Add(a)
	require.NoError(t, err)

	b, err := newBag(p)
	require.NoError(t, err)
	require.NoError(t, b.AddMembers(m1, m2))
	_, err = p.Add(b)
	require.NoError(t, err)
	return p, m1, m2, a, b
}

func TestRecords(t *testing.T) {
	p, m1, m2, a, b := buildPack(t)

	records, err := p.Records()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, Record{
		TID:    m1.TID(),
		Kind:   kindMark,
		Span:   &ontology.Span{Begin: 0, End: 3},
		Fields: map[string]json.RawMessage{"label": json.RawMessage(`"first"`)},
	}, records[0])
	assert.Equal(t, a.TID(), records[2].TID)
	assert.Equal(t, m1.TID(), records[2].Parent)
	assert.Equal(t, m2.TID(), records[2].Child)
	assert.Nil(t, records[2].Span)
	assert.Equal(t, []string{m1.TID(), m2.TID()}, records[3].Members)
	assert.Equal(t, b.TID(), records[3].TID)
}

func TestRestore(t *testing.T) {
	p, m1, _, a, b := buildPack(t)
	records, err := p.Records()
	require.NoError(t, err)

	restored, err := Restore(p.Meta(), records)
	require.NoError(t, err)
	assert.Equal(t, p.Meta(), restored.Meta())
	assert.Equal(t, 4, restored.Len())

	e, err := restored.GetEntry(m1.TID())
	require.NoError(t, err)
	assert.Equal(t, "first", e.(*mark).Label)
	assert.Same(t, restored, e.Pack())

	e, err = restored.GetEntry(a.TID())
	require.NoError(t, err)
	eq, err := ontology.LinksEqual(a, e.(*arc))
	require.NoError(t, err)
	assert.True(t, eq)

	e, err = restored.GetEntry(b.TID())
	require.NoError(t, err)
	assert.True(t, ontology.GroupsEqual(b, e.(*bag)))

	m, err := newMark(restored, 0, 1)
	require.NoError(t, err)
	tid, err := restored.Add(m)
	require.NoError(t, err)
	assert.Equal(t, "pack.mark.5", tid)
}

func TestRestoreErrors(t *testing.T) {
	meta := Meta{Text: "abc"}
	tests := []struct {
		name    string
		records []Record
		wantErr error
	}{
		{
			name:    "unknown kind",
			records: []Record{{TID: "x.y.1", Kind: "x.y"}},
			wantErr: ErrUnknownKind,
		},
		{
			name:    "tid not prefixed by kind",
			records: []Record{{TID: "other.1", Kind: kindMark, Span: &ontology.Span{End: 1}}},
			wantErr: ErrInvalidRecord,
		},
		{
			name: "duplicate tid",
			records: []Record{
				{TID: "pack.mark.1", Kind: kindMark, Span: &ontology.Span{End: 1}},
				{TID: "pack.mark.1", Kind: kindMark, Span: &ontology.Span{End: 1}},
			},
			wantErr: ErrInvalidRecord,
		},
		{
			name:    "span outside text",
			records: []Record{{TID: "pack.mark.1", Kind: kindMark, Span: &ontology.Span{Begin: 0, End: 9}}},
			wantErr: ErrSpanOutOfRange,
		},
		{
			name:    "unknown field",
			records: []Record{{TID: "pack.mark.1", Kind: kindMark, Fields: map[string]json.RawMessage{"nope": json.RawMessage(`1`)}}},
			wantErr: ontology.ErrUnknownField,
		},
		{
			name:    "dangling link endpoint",
			records: []Record{{TID: "pack.arc.1", Kind: kindArc, Parent: "pack.mark.7"}},
			wantErr: ontology.ErrNotFound,
		},
		{
			name:    "references on a plain entry",
			records: []Record{{TID: "pack.mark.1", Kind: kindMark, Members: []string{"pack.mark.1"}}},
			wantErr: ErrInvalidRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Restore(meta, tt.records)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, p)
		})
	}
}

func TestRegisteredKinds(t *testing.T) {
	kinds := RegisteredKinds()
	assert.Contains(t, kinds, kindMark)
	assert.Contains(t, kinds, kindArc)
	assert.Contains(t, kinds, kindBag)
}
