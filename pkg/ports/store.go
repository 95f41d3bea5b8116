// Package ports defines the persistence interfaces the core is consumed
// through, plus reusable contract suites that every adapter must pass.
package ports

import (
	"context"

	"github.com/tourforge/tourforge/pkg/domain"
)

// TreeStore persists decision trees and their node/edge sets. The core
// algorithms only ever see Graph snapshots loaded from here; they never
// write back.
type TreeStore interface {
	CreateTree(ctx context.Context, tree *domain.Tree) error
	GetTree(ctx context.Context, id string) (*domain.Tree, error)
	ListTrees(ctx context.Context) ([]domain.TreeSummary, error)
	UpdateTree(ctx context.Context, tree *domain.Tree) error
	// DeleteTree removes the tree and all of its nodes and edges.
	DeleteTree(ctx context.Context, id string) error

	// Graph returns the current node/edge snapshot of a tree.
	Graph(ctx context.Context, treeID string) (*domain.Graph, error)
	// PutNode creates or replaces a node.
	PutNode(ctx context.Context, treeID string, node domain.Node) error
	// DeleteNode removes a node and cascades to its edges.
	DeleteNode(ctx context.Context, treeID, nodeID string) error
	PutEdge(ctx context.Context, treeID string, edge domain.Edge) error
	DeleteEdge(ctx context.Context, treeID, edgeID string) error

	// SetDefaultForTour marks one tree as the guided-tour default,
	// clearing the flag everywhere else.
	SetDefaultForTour(ctx context.Context, treeID string) error
	// DefaultForTour returns the current default tree, or
	// domain.ErrTreeNotFound when none is set.
	DefaultForTour(ctx context.Context) (*domain.Tree, error)
}

// SessionStore persists playback sessions between navigation calls. The
// navigator itself is stateless beyond what the caller threads through.
type SessionStore interface {
	// Save persists the session state under its ID.
	Save(ctx context.Context, sess *domain.TourSession) error
	// Load retrieves a session, domain.ErrSessionNotFound when absent.
	Load(ctx context.Context, id string) (*domain.TourSession, error)
	Delete(ctx context.Context, id string) error
	// ListByUser returns the user's sessions, most recent first, at most
	// limit entries (0 means no limit).
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.TourSession, error)
}

// FeedbackStore persists user feedback entries.
type FeedbackStore interface {
	Add(ctx context.Context, fb *domain.Feedback) error
	// Get retrieves one entry, domain.ErrFeedbackNotFound when absent.
	Get(ctx context.Context, id string) (*domain.Feedback, error)
	Update(ctx context.Context, fb *domain.Feedback) error
	// Delete removes one entry, domain.ErrFeedbackNotFound when absent.
	Delete(ctx context.Context, id string) error
	// List returns entries newest first.
	List(ctx context.Context) ([]*domain.Feedback, error)
	Stats(ctx context.Context) (*domain.FeedbackStats, error)
}

// UserStore records the identities seen by the API.
type UserStore interface {
	// Upsert creates the user on first sight and refreshes LastAccessed
	// afterwards, returning the stored record.
	Upsert(ctx context.Context, user domain.User) (*domain.User, error)
	Get(ctx context.Context, username string) (*domain.User, error)
	// Update replaces the stored record, domain.ErrUserNotFound when absent.
	Update(ctx context.Context, user domain.User) (*domain.User, error)
	Delete(ctx context.Context, username string) error
	List(ctx context.Context) ([]*domain.User, error)
}
