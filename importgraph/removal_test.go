package importgraph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	edges   []Import
	details map[Import][]ImportDetail
}

func takeSnapshot(g *Graph) snapshot {
	s := snapshot{edges: g.Edges(), details: make(map[Import][]ImportDetail)}
	for _, e := range s.edges {
		s.details[e] = g.GetImportDetails(e.Importer, e.Imported)
	}
	return s
}

func TestRemoveImports_RemovesAndRestoresExactly(t *testing.T) {
	g := New()
	mustAddImport(t, g, "a", "b", 3)
	mustAddImport(t, g, "b", "c", 5, 9)
	mustAddImport(t, g, "c", "d", 1)
	before := takeSnapshot(g)

	removal, err := RemoveImports(g, []Import{
		{Importer: "b", Imported: "c"},
		{Importer: "a", Imported: "b"},
	})
	require.NoError(t, err)

	assert.False(t, g.DirectImportExists("a", "b"))
	assert.False(t, g.DirectImportExists("b", "c"))
	assert.Equal(t, []Import{{Importer: "b", Imported: "c"}, {Importer: "a", Imported: "b"}}, removal.RemovedImports())

	require.NoError(t, removal.Restore())
	assert.Equal(t, before, takeSnapshot(g))
}

func TestRemoveImports_MissingImportIsUnmatchedAndNotRestored(t *testing.T) {
	g := New()
	mustAddImport(t, g, "a", "b", 1)
	before := takeSnapshot(g)

	removal, err := RemoveImports(g, []Import{{Importer: "b", Imported: "a"}})
	require.NoError(t, err)

	assert.Equal(t, []Import{{Importer: "b", Imported: "a"}}, removal.Unmatched())
	assert.False(t, removal.Removed(Import{Importer: "b", Imported: "a"}))

	require.NoError(t, removal.Restore())
	assert.Equal(t, before, takeSnapshot(g))
	assert.False(t, g.DirectImportExists("b", "a"))
}

func TestRemoveImports_DuplicatesRemovedOnce(t *testing.T) {
	g := New()
	mustAddImport(t, g, "a", "b", 1)

	imp := Import{Importer: "a", Imported: "b"}
	removal, err := RemoveImports(g, []Import{imp, imp})
	require.NoError(t, err)

	assert.Empty(t, removal.Unmatched())
	assert.Equal(t, []Import{imp}, removal.RemovedImports())
}

func TestRestore_IsIdempotent(t *testing.T) {
	g := New()
	mustAddImport(t, g, "a", "b", 1, 2)

	removal, err := RemoveImports(g, []Import{{Importer: "a", Imported: "b"}})
	require.NoError(t, err)

	require.NoError(t, removal.Restore())
	require.NoError(t, removal.Restore())

	assert.Len(t, g.GetImportDetails("a", "b"), 2)
}

type failingEditor struct {
	*Graph
	failOn Import
}

func (f failingEditor) RemoveImport(importer, imported string) error {
	if (Import{Importer: importer, Imported: imported}) == f.failOn {
		return errors.New("boom")
	}
	return f.Graph.RemoveImport(importer, imported)
}

func TestRemoveImports_FailureRestoresPartialRemoval(t *testing.T) {
	g := New()
	mustAddImport(t, g, "a", "b", 1)
	mustAddImport(t, g, "c", "d", 2)
	before := takeSnapshot(g)

	editor := failingEditor{Graph: g, failOn: Import{Importer: "c", Imported: "d"}}
	_, err := RemoveImports(editor, []Import{
		{Importer: "a", Imported: "b"},
		{Importer: "c", Imported: "d"},
	})

	require.Error(t, err)
	assert.Equal(t, before, takeSnapshot(g))
}
