package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourforge/tourforge/pkg/domain"
)

// RunSessionStoreContract verifies that a SessionStore implementation
// adheres to the interface contract. Adapters call it from their own tests.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	base := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		sess := domain.NewTourSession(base, "tree-1", "alice")
		sess.CurrentStepID = "welcome"
		sess.StepPath = []string{"welcome"}
		sess.Answers["customer-type"] = domain.ScalarAnswer("Enterprise")
		sess.Answers["features"] = domain.ListAnswer("sso", "audit")

		require.NoError(t, store.Save(ctx, sess))

		loaded, err := store.Load(ctx, base)
		require.NoError(t, err)
		assert.Equal(t, "welcome", loaded.CurrentStepID)
		assert.Equal(t, []string{"welcome"}, loaded.StepPath)
		assert.Equal(t, "Enterprise", loaded.Answers["customer-type"].Value())
		assert.Equal(t, []string{"sso", "audit"}, loaded.Answers["features"].Values())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+base)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		sess := domain.NewTourSession(base+"-del", "tree-1", "alice")
		require.NoError(t, store.Save(ctx, sess))

		require.NoError(t, store.Delete(ctx, sess.ID))

		_, err := store.Load(ctx, sess.ID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("ListByUser", func(t *testing.T) {
		a := domain.NewTourSession(base+"-a", "tree-1", "bob")
		b := domain.NewTourSession(base+"-b", "tree-2", "bob")
		b.DateStarted = a.DateStarted.Add(time.Second)
		other := domain.NewTourSession(base+"-c", "tree-1", "carol")
		require.NoError(t, store.Save(ctx, a))
		require.NoError(t, store.Save(ctx, b))
		require.NoError(t, store.Save(ctx, other))
		defer func() {
			_ = store.Delete(ctx, a.ID)
			_ = store.Delete(ctx, b.ID)
			_ = store.Delete(ctx, other.ID)
		}()

		sessions, err := store.ListByUser(ctx, "bob", 0)
		require.NoError(t, err)
		require.Len(t, sessions, 2)
		// Most recent first.
		assert.Equal(t, b.ID, sessions[0].ID)
		assert.Equal(t, a.ID, sessions[1].ID)

		limited, err := store.ListByUser(ctx, "bob", 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})
}

// RunTreeStoreContract verifies that a TreeStore implementation adheres to
// the interface contract.
func RunTreeStoreContract(t *testing.T, store TreeStore) {
	ctx := context.Background()
	id := "contract-tree-" + time.Now().Format("20060102150405")

	newTree := func(suffix string) *domain.Tree {
		return &domain.Tree{
			ID:           id + suffix,
			Name:         "Onboarding" + suffix,
			Description:  "contract fixture",
			Tags:         []string{"test"},
			CreatedBy:    "alice",
			LastEditedBy: "alice",
			Version:      1,
			CreatedAt:    time.Now().UTC(),
			UpdatedAt:    time.Now().UTC(),
		}
	}

	t.Run("Create and Get", func(t *testing.T) {
		tree := newTree("")
		require.NoError(t, store.CreateTree(ctx, tree))

		got, err := store.GetTree(ctx, tree.ID)
		require.NoError(t, err)
		assert.Equal(t, tree.Name, got.Name)
		assert.Equal(t, tree.Tags, got.Tags)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.GetTree(ctx, "missing-"+id)
		assert.ErrorIs(t, err, domain.ErrTreeNotFound)
	})

	t.Run("Nodes and Edges", func(t *testing.T) {
		tree := newTree("-graph")
		require.NoError(t, store.CreateTree(ctx, tree))

		stepA := domain.Node{ID: "a", Kind: domain.KindStep, IsRoot: true,
			Data: map[string]any{"title": "Welcome"}}
		stepB := domain.Node{ID: "b", Kind: domain.KindStep,
			Data: map[string]any{"title": "Next"}}
		require.NoError(t, store.PutNode(ctx, tree.ID, stepA))
		require.NoError(t, store.PutNode(ctx, tree.ID, stepB))
		require.NoError(t, store.PutEdge(ctx, tree.ID, domain.Edge{ID: "e1", Source: "a", Target: "b"}))

		g, err := store.Graph(ctx, tree.ID)
		require.NoError(t, err)
		assert.Len(t, g.Nodes, 2)
		assert.Len(t, g.Edges, 1)

		// Deleting a node cascades to its edges.
		require.NoError(t, store.DeleteNode(ctx, tree.ID, "b"))
		g, err = store.Graph(ctx, tree.ID)
		require.NoError(t, err)
		assert.Len(t, g.Nodes, 1)
		assert.Empty(t, g.Edges)
	})

	t.Run("Update and List", func(t *testing.T) {
		tree := newTree("-upd")
		require.NoError(t, store.CreateTree(ctx, tree))

		tree.Name = "Renamed"
		tree.Version = 2
		require.NoError(t, store.UpdateTree(ctx, tree))

		summaries, err := store.ListTrees(ctx)
		require.NoError(t, err)
		var found *domain.TreeSummary
		for i := range summaries {
			if summaries[i].ID == tree.ID {
				found = &summaries[i]
			}
		}
		require.NotNil(t, found, "updated tree missing from list")
		assert.Equal(t, "Renamed", found.Name)
		assert.Equal(t, 2, found.Version)
	})

	t.Run("Default For Tour Is Exclusive", func(t *testing.T) {
		first := newTree("-def1")
		second := newTree("-def2")
		require.NoError(t, store.CreateTree(ctx, first))
		require.NoError(t, store.CreateTree(ctx, second))

		require.NoError(t, store.SetDefaultForTour(ctx, first.ID))
		require.NoError(t, store.SetDefaultForTour(ctx, second.ID))

		def, err := store.DefaultForTour(ctx)
		require.NoError(t, err)
		assert.Equal(t, second.ID, def.ID)

		got, err := store.GetTree(ctx, first.ID)
		require.NoError(t, err)
		assert.False(t, got.DefaultForTour, "previous default should be cleared")
	})

	t.Run("Delete", func(t *testing.T) {
		tree := newTree("-del")
		require.NoError(t, store.CreateTree(ctx, tree))
		require.NoError(t, store.DeleteTree(ctx, tree.ID))

		_, err := store.GetTree(ctx, tree.ID)
		assert.ErrorIs(t, err, domain.ErrTreeNotFound)

		assert.ErrorIs(t, store.DeleteTree(ctx, tree.ID), domain.ErrTreeNotFound)
	})
}
