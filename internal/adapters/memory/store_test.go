package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourforge/tourforge/pkg/domain"
	"github.com/tourforge/tourforge/pkg/ports"
)

func TestStore_TreeContract(t *testing.T) {
	ports.RunTreeStoreContract(t, NewStore())
}

func TestStore_SessionContract(t *testing.T) {
	ports.RunSessionStoreContract(t, NewStore())
}

func TestStore_SessionIsolation(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	sess := domain.NewTourSession("s1", "t1", "u1")
	sess.StepPath = []string{"a"}
	require.NoError(t, store.Save(ctx, sess))

	// Mutating the saved or loaded copy must not leak into the store.
	sess.StepPath = append(sess.StepPath, "b")
	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, loaded.StepPath)

	loaded.Answers["q"] = domain.ScalarAnswer("x")
	again, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, again.Answers)
}

func TestFeedbackLog(t *testing.T) {
	log := NewFeedbackLog()
	ctx := context.Background()

	first := &domain.Feedback{ID: "f1", Username: "ada", Category: domain.FeedbackBug,
		Comment: "tooltip clipped", Status: domain.FeedbackOpen}
	second := &domain.Feedback{ID: "f2", Username: "bob", Category: domain.FeedbackOther,
		Comment: "love it", Status: domain.FeedbackOpen}
	require.NoError(t, log.Add(ctx, first))
	require.NoError(t, log.Add(ctx, second))

	entries, err := log.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "f2", entries[0].ID, "newest first")

	first.Status = domain.FeedbackResolved
	require.NoError(t, log.Update(ctx, first))
	got, err := log.Get(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, domain.FeedbackResolved, got.Status)

	stats, err := log.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.ByCategory["bug"])
	assert.Equal(t, 1, stats.ByStatus["resolved"])

	_, err = log.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrFeedbackNotFound)
}

func TestUserDirectory(t *testing.T) {
	dir := NewUserDirectory()
	ctx := context.Background()

	firstSeen := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	stored, err := dir.Upsert(ctx, domain.User{Username: "ada", Email: "ada@example.com",
		Role: domain.RoleUser, AddDate: firstSeen, LastAccessed: firstSeen})
	require.NoError(t, err)
	require.Equal(t, firstSeen, stored.AddDate)

	// A second upsert refreshes access time but keeps the first-seen date.
	later := firstSeen.Add(time.Hour)
	stored, err = dir.Upsert(ctx, domain.User{Username: "ada", Email: "ada@example.com",
		Role: domain.RoleUser, AddDate: later, LastAccessed: later})
	require.NoError(t, err)
	assert.Equal(t, firstSeen, stored.AddDate)
	assert.Equal(t, later, stored.LastAccessed)

	got, err := dir.Get(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got.Email)

	_, err = dir.Get(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = dir.Upsert(ctx, domain.User{Username: "bob", Role: domain.RoleUser})
	require.NoError(t, err)
	users, err := dir.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "ada", users[0].Username, "sorted by username")
}

func TestStore_GraphSnapshotIsolation(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.CreateTree(ctx, &domain.Tree{ID: "t1", Name: "T"}))
	require.NoError(t, store.PutNode(ctx, "t1", domain.Node{
		ID: "a", Kind: domain.KindStep, Data: map[string]any{"title": "Start"},
	}))

	// Writing into a snapshot's payload must not reach the store.
	g, err := store.Graph(ctx, "t1")
	require.NoError(t, err)
	g.Node("a").Data["title"] = "Hijacked"
	g.Node("a").Data["isRoot"] = true

	fresh, err := store.Graph(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Start", fresh.Node("a").Data["title"])
	assert.NotContains(t, fresh.Node("a").Data, "isRoot")
}

func TestFeedbackLogDelete(t *testing.T) {
	log := NewFeedbackLog()
	ctx := context.Background()

	require.NoError(t, log.Add(ctx, &domain.Feedback{ID: "f1", Username: "ada",
		Category: domain.FeedbackBug, Comment: "minimap drifts", Status: domain.FeedbackOpen}))

	require.NoError(t, log.Delete(ctx, "f1"))
	_, err := log.Get(ctx, "f1")
	assert.ErrorIs(t, err, domain.ErrFeedbackNotFound)
	assert.ErrorIs(t, log.Delete(ctx, "f1"), domain.ErrFeedbackNotFound)
}

func TestUserDirectoryUpdateAndDelete(t *testing.T) {
	dir := NewUserDirectory()
	ctx := context.Background()

	_, err := dir.Update(ctx, domain.User{Username: "ghost"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	seen := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
	_, err = dir.Upsert(ctx, domain.User{Username: "ada", Role: domain.RoleUser,
		AddDate: seen, LastAccessed: seen})
	require.NoError(t, err)

	updated, err := dir.Update(ctx, domain.User{Username: "ada", Role: domain.RoleAdmin,
		AddDate: seen, LastAccessed: seen, CompanyRole: "platform"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, updated.Role)

	// A later upsert from the identity middleware keeps the assigned role.
	_, err = dir.Upsert(ctx, domain.User{Username: "ada", Role: domain.RoleUser,
		AddDate: seen.Add(time.Hour), LastAccessed: seen.Add(time.Hour)})
	require.NoError(t, err)
	got, err := dir.Get(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, got.Role)

	require.NoError(t, dir.Delete(ctx, "ada"))
	_, err = dir.Get(ctx, "ada")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.ErrorIs(t, dir.Delete(ctx, "ada"), domain.ErrUserNotFound)
}
