package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/annopack/pkg/onto"
	"github.com/mesh-intelligence/annopack/pkg/pack"
)

const sampleText = "Ada Lovelace wrote notes. She published them."

// samplePack builds a pack exercising every entry shape: plain spans,
// fielded tokens, a link and a group.
func samplePack(t *testing.T) *pack.Pack {
	t.Helper()
	p := pack.New(pack.WithName("sample"), pack.WithText(sampleText))

	doc, err := onto.NewDocument(p, 0, len(sampleText))
	require.NoError(t, err)
	_, err = p.Add(doc)
	require.NoError(t, err)

	ada, err := onto.NewToken(p, 0, 3)
	require.NoError(t, err)
	_, err = p.Add(ada)
	require.NoError(t, err)
	require.NoError(t, ada.SetFields(map[string]any{"pos": "NNP", "ner": "B-PER"}))

	wrote, err := onto.NewToken(p, 13, 18)
	require.NoError(t, err)
	_, err = p.Add(wrote)
	require.NoError(t, err)
	require.NoError(t, wrote.SetFields(map[string]any{"pos": "VBD", "lemma": "write"}))

	dep, err := onto.NewDependency(p, wrote, ada)
	require.NoError(t, err)
	_, err = p.Add(dep)
	require.NoError(t, err)
	require.NoError(t, dep.SetFields(map[string]any{"rel_type": "nsubj"}))

	person, err := onto.NewEntityMention(p, 0, 12)
	require.NoError(t, err)
	_, err = p.Add(person)
	require.NoError(t, err)
	require.NoError(t, person.SetFields(map[string]any{"ner_type": "PERSON"}))

	she, err := onto.NewEntityMention(p, 26, 29)
	require.NoError(t, err)
	_, err = p.Add(she)
	require.NoError(t, err)

	group, err := onto.NewCoreferenceGroup(p, person, she)
	require.NoError(t, err)
	_, err = p.Add(group)
	require.NoError(t, err)

	return p
}

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), DefaultFileName))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}
