// Package middleware wraps a ports.SessionStore with at-rest protections
// for the answers users give during a tour: masking for known-sensitive
// questions and envelope encryption for the whole session.
package middleware

import "github.com/tourforge/tourforge/pkg/ports"

// Middleware decorates a session store.
type Middleware func(ports.SessionStore) ports.SessionStore

// Chain applies middlewares so the first listed is the outermost.
func Chain(store ports.SessionStore, mws ...Middleware) ports.SessionStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
