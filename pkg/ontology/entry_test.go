package ontology

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryInit(t *testing.T) {
	t.Run("validated entry is attached", func(t *testing.T) {
		c := newTestContainer()
		w := &word{}
		require.NoError(t, w.Init(w, c))
		assert.Same(t, c, w.Pack())
		assert.Empty(t, w.TID())
	})

	t.Run("rejection aborts construction", func(t *testing.T) {
		c := newTestContainer()
		c.reject = errors.New("kind not allowed")
		w := &word{}
		err := w.Init(w, c)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Nil(t, w.Pack())
	})

	t.Run("rejection already wrapping ErrValidation is kept", func(t *testing.T) {
		c := newTestContainer()
		c.reject = ErrValidation
		w := &word{}
		assert.Equal(t, ErrValidation, w.Init(w, c))
	})

	t.Run("nil container", func(t *testing.T) {
		w := &word{}
		assert.ErrorIs(t, w.Init(w, nil), ErrValidation)
	})

	t.Run("self must embed the base", func(t *testing.T) {
		c := newTestContainer()
		w, other := &word{}, &word{}
		assert.ErrorIs(t, w.Init(other, c), ErrValidation)
	})

	t.Run("second init fails", func(t *testing.T) {
		c := newTestContainer()
		w := &word{}
		require.NoError(t, w.Init(w, c))
		assert.ErrorIs(t, w.Init(w, c), ErrValidation)
	})
}

func TestEntryAssignID(t *testing.T) {
	c := newTestContainer()
	w := &word{}
	require.NoError(t, w.Init(w, c))

	require.NoError(t, w.AssignID("1"))
	assert.Equal(t, "ontology.word.1", w.TID())
	assert.Equal(t, w.TID(), w.IndexKey())

	err := w.AssignID("2")
	assert.ErrorIs(t, err, ErrAssigned)
	assert.Equal(t, "ontology.word.1", w.TID(), "tid must not change once assigned")
}

func TestEntryAssignIDKindsNeverCollide(t *testing.T) {
	c := newTestContainer()
	w := &word{}
	n := &note{}
	require.NoError(t, w.Init(w, c))
	require.NoError(t, n.Init(n, c))
	require.NoError(t, w.AssignID("7"))
	require.NoError(t, n.AssignID("7"))

	assert.NotEqual(t, w.TID(), n.TID())
	assert.Contains(t, w.TID(), w.Kind())
	assert.Contains(t, n.TID(), n.Kind())
}

func TestEntryComponent(t *testing.T) {
	c := newTestContainer()
	w := newWord(t, c)
	assert.Empty(t, w.Component())
	w.SetComponent("tokenizer")
	assert.Equal(t, "tokenizer", w.Component())
	w.SetComponent("tagger")
	assert.Equal(t, "tagger", w.Component())
}

func TestEntrySetFields(t *testing.T) {
	tests := []struct {
		name         string
		values       map[string]any
		wantErr      error
		wantModified []string
		wantText     string
		wantCount    int
	}{
		{
			name:         "known field is set and recorded",
			values:       map[string]any{"text": "cat"},
			wantModified: []string{"text"},
			wantText:     "cat",
		},
		{
			name:         "several fields",
			values:       map[string]any{"text": "dog", "count": 3},
			wantModified: []string{"count", "text"},
			wantText:     "dog",
			wantCount:    3,
		},
		{
			name:    "unknown field rejected",
			values:  map[string]any{"lemma": "x"},
			wantErr: ErrUnknownField,
		},
		{
			name:    "unknown field rejects the whole call",
			values:  map[string]any{"text": "cow", "zzz": 1},
			wantErr: ErrUnknownField,
		},
		{
			name:    "wrong value type rejected",
			values:  map[string]any{"count": "three"},
			wantErr: ErrFieldType,
		},
		{
			name:         "nil resets to zero value",
			values:       map[string]any{"count": nil},
			wantModified: []string{"count"},
		},
		{
			name:         "empty call changes nothing",
			values:       map[string]any{},
			wantModified: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContainer()
			w := newWord(t, c)
			err := w.SetFields(tt.values)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, w.ModifiedFields(), "no field may be recorded on failure")
				assert.Empty(t, w.text, "no field may change on failure")
				assert.Zero(t, w.count)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantModified, w.ModifiedFields())
			assert.Equal(t, tt.wantText, w.text)
			assert.Equal(t, tt.wantCount, w.count)
		})
	}
}

func TestEntrySetFieldsAccumulates(t *testing.T) {
	c := newTestContainer()
	w := newWord(t, c)
	require.NoError(t, w.SetFields(map[string]any{"pos": "NN"}))
	require.NoError(t, w.SetFields(map[string]any{"text": "a", "pos": "DT"}))
	assert.Equal(t, []string{"pos", "text"}, w.ModifiedFields())
	assert.Equal(t, "DT", w.pos)
}

func TestEntrySetFieldsWithoutDeclaredFields(t *testing.T) {
	c := newTestContainer()
	n := newNote(t, c)
	assert.ErrorIs(t, n.SetFields(map[string]any{"text": "x"}), ErrUnknownField)
}

func TestFieldValuesAndRestore(t *testing.T) {
	c := newTestContainer()
	w := newWord(t, c)
	require.NoError(t, w.SetFields(map[string]any{"text": "ran", "count": 2}))

	assert.Equal(t, []string{"count", "pos", "text"}, FieldNames(w))
	assert.Equal(t, map[string]any{"text": "ran", "pos": "", "count": 2}, FieldValues(w))

	fresh := newWord(t, c)
	err := RestoreFields(fresh, map[string]json.RawMessage{
		"text":  json.RawMessage(`"ran"`),
		"count": json.RawMessage(`2`),
	})
	require.NoError(t, err)
	assert.Equal(t, "ran", fresh.text)
	assert.Equal(t, 2, fresh.count)
	assert.Empty(t, fresh.ModifiedFields(), "restoring is not a modification")
}

func TestRestoreFieldsAllOrNothing(t *testing.T) {
	c := newTestContainer()
	w := newWord(t, c)

	err := RestoreFields(w, map[string]json.RawMessage{
		"text":  json.RawMessage(`"kept"`),
		"count": json.RawMessage(`"not a number"`),
	})
	assert.ErrorIs(t, err, ErrFieldType)
	assert.Empty(t, w.text)

	err = RestoreFields(w, map[string]json.RawMessage{"missing": json.RawMessage(`1`)})
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestSameEntry(t *testing.T) {
	c := newTestContainer()
	w1 := newWord(t, c)
	w2 := newWord(t, c)

	assert.True(t, SameEntry(w1, w1))
	assert.False(t, SameEntry(w1, w2))
	assert.False(t, SameEntry(w1, nil))
	assert.True(t, SameEntry(nil, nil))

	// Entries built against different containers can share a tid; same kind
	// and tid means the same entry regardless of field contents.
	other := newTestContainer()
	w3 := newWord(t, other)
	w3.text = "different"
	assert.Equal(t, w1.TID(), w3.TID())
	assert.True(t, SameEntry(w1, w3))
}

func TestSameEntryDifferentKinds(t *testing.T) {
	c1, c2 := newTestContainer(), newTestContainer()
	w := newWord(t, c1)
	n := newNote(t, c2)

	assert.Equal(t, "1", w.TID()[len(w.Kind())+1:])
	assert.Equal(t, "1", n.TID()[len(n.Kind())+1:])
	assert.False(t, SameEntry(w, n))
	assert.NotEqual(t, w.Key(), n.Key())
}

func TestEntryKeyAsMapKey(t *testing.T) {
	c := newTestContainer()
	w1 := newWord(t, c)
	w2 := newWord(t, c)

	seen := map[EntryKey]bool{w1.Key(): true}
	assert.True(t, seen[w1.Key()])
	assert.False(t, seen[w2.Key()])
}

func TestEntryDetach(t *testing.T) {
	c := newTestContainer()
	w := newWord(t, c)
	c.remove(w.TID())

	assert.Nil(t, w.Pack())
	assert.True(t, w.Detached())
	assert.ErrorIs(t, w.Init(w, c), ErrValidation, "detached entries cannot be reattached")
}

func TestIdentity(t *testing.T) {
	c := newTestContainer()
	w := newWord(t, c)
	id, err := Identity(w)
	require.NoError(t, err)
	assert.Equal(t, w.Key(), id)
}
