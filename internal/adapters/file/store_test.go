package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourforge/tourforge/pkg/domain"
	"github.com/tourforge/tourforge/pkg/ports"
)

func TestStore_TreeContract(t *testing.T) {
	ports.RunTreeStoreContract(t, NewStore(t.TempDir()))
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first := NewStore(dir)
	tree := &domain.Tree{ID: "onboarding", Name: "Onboarding", Version: 1}
	require.NoError(t, first.CreateTree(ctx, tree))
	require.NoError(t, first.PutNode(ctx, tree.ID, domain.Node{
		ID: "welcome", Kind: domain.KindStep, IsRoot: true,
		Data: map[string]any{"title": "Welcome"},
	}))

	// A fresh store over the same directory sees everything.
	second := NewStore(dir)
	got, err := second.GetTree(ctx, "onboarding")
	require.NoError(t, err)
	assert.Equal(t, "Onboarding", got.Name)

	g, err := second.Graph(ctx, "onboarding")
	require.NoError(t, err)
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, "Welcome", g.Nodes[0].Data["title"])
}

func TestLoadExport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.json")

	doc := `{
		"metadata": {"id": "t1", "name": "Demo"},
		"nodes": [{"id": "a", "type": "step", "isRoot": true, "data": {"title": "A"}}],
		"edges": []
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	export, err := LoadExport(path)
	require.NoError(t, err)
	assert.Equal(t, "Demo", export.Metadata.Name)
	require.Len(t, export.Nodes, 1)
	assert.Equal(t, domain.KindStep, export.Nodes[0].Kind)
}

func TestLoadExportBareGraph(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")

	doc := `{"nodes": [{"id": "a", "type": "step"}], "edges": []}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	export, err := LoadExport(path)
	require.NoError(t, err)
	require.Len(t, export.Nodes, 1)
	assert.Empty(t, export.Metadata.ID)
}

func TestLoadExportMissingFile(t *testing.T) {
	_, err := LoadExport(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
