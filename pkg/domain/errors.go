package domain

import "errors"

// ErrNoRoot is returned when a graph has no Step node flagged as root.
var ErrNoRoot = errors.New("no root node found")

// ErrMultipleRoots is returned when more than one Step node is flagged as
// root. The data model allows at most one; this indicates external mutation.
var ErrMultipleRoots = errors.New("multiple root nodes found")

// ErrTreeNotFound is returned when a tree ID cannot be found in the store.
var ErrTreeNotFound = errors.New("decision tree not found")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("tour session not found")

// ErrNodeNotFound is returned when a node ID is absent from a graph or store.
var ErrNodeNotFound = errors.New("node not found")

// ErrEdgeNotFound is returned when an edge ID is absent from a store.
var ErrEdgeNotFound = errors.New("edge not found")

// ErrFeedbackNotFound is returned when a feedback ID cannot be found.
var ErrFeedbackNotFound = errors.New("feedback not found")

// ErrUserNotFound is returned when a username is absent from the store.
var ErrUserNotFound = errors.New("user not found")
