// Package http exposes the tour builder as a JSON API: tree and graph
// CRUD for the editor, validation reports, and session navigation for
// playback.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tourforge/tourforge/internal/logging"
	"github.com/tourforge/tourforge/internal/metrics"
	"github.com/tourforge/tourforge/pkg/domain"
	"github.com/tourforge/tourforge/pkg/ports"
	"github.com/tourforge/tourforge/pkg/session"
)

// Server carries the stores the handlers operate on.
type Server struct {
	trees    ports.TreeStore
	sessions *session.Manager
	feedback ports.FeedbackStore
	users    ports.UserStore
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler wires the routes and returns the root HTTP handler.
func NewHandler(trees ports.TreeStore, sessions *session.Manager, feedback ports.FeedbackStore, users ports.UserStore, opts ...Option) http.Handler {
	s := &Server{
		trees:    trees,
		sessions: sessions,
		feedback: feedback,
		users:    users,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(s.identity)

		r.Get("/user", s.currentUser)

		r.Route("/decision-trees", func(r chi.Router) {
			r.Get("/", s.listTrees)
			r.Post("/", s.createTree)
			r.Get("/default-for-tour", s.defaultForTour)

			r.Route("/{treeID}", func(r chi.Router) {
				r.Get("/", s.getTree)
				r.Put("/", s.updateTree)
				r.Delete("/", s.deleteTree)
				r.Post("/duplicate", s.duplicateTree)
				r.Get("/export", s.exportTree)
				r.Post("/set-default-for-tour", s.setDefaultForTour)
				r.Get("/validate", s.validateTree)

				r.Post("/nodes", s.createNode)
				r.Put("/nodes/{nodeID}", s.updateNode)
				r.Delete("/nodes/{nodeID}", s.deleteNode)
				r.Post("/edges", s.createEdge)
				r.Delete("/edges/{edgeID}", s.deleteEdge)
			})
		})

		r.Route("/tour-sessions", func(r chi.Router) {
			r.Post("/", s.createSession)
			r.Get("/my-sessions", s.mySessions)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", s.getSession)
				r.Put("/", s.updateSession)
				r.Delete("/", s.deleteSession)
				r.Post("/next", s.nextStep)
				r.Post("/previous", s.previousStep)
			})
		})

		r.Route("/feedback", func(r chi.Router) {
			r.Post("/", s.submitFeedback)
			r.Get("/", s.listFeedback)
			r.Get("/stats", s.feedbackStats)
			r.Get("/{feedbackID}", s.getFeedback)
			r.Put("/{feedbackID}", s.updateFeedback)
			r.Delete("/{feedbackID}", s.deleteFeedback)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.listUsers)
			r.Put("/{username}", s.updateUser)
			r.Delete("/{username}", s.deleteUser)
		})
	})

	return r
}

// observe records request latency per route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestDuration.WithLabelValues(route, r.Method).
			Observe(time.Since(start).Seconds())
	})
}

type ctxKey int

const userKey ctxKey = 0

// identity resolves the caller from the forwarded auth headers and
// registers the user on first sight. Anonymous callers pass through with
// the fallback identity, matching the original demo behavior.
func (s *Server) identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email := r.Header.Get("X-Forwarded-Email")
		if email == "" {
			email = "test@example.com"
		}
		username := "anonymous"
		if at := strings.Index(email, "@"); at > 0 {
			username = email[:at]
		}

		user := domain.User{
			Username:     username,
			Email:        email,
			FullName:     r.Header.Get("X-Forwarded-User"),
			Role:         domain.RoleUser,
			AddDate:      time.Now().UTC(),
			LastAccessed: time.Now().UTC(),
		}
		stored, err := s.users.Upsert(r.Context(), user)
		if err != nil {
			s.logger.Warn("failed to upsert user", "user", username, "err", err)
			stored = &user
		}

		ctx := context.WithValue(r.Context(), userKey, stored)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUserFrom returns the identity the middleware attached.
func currentUserFrom(r *http.Request) *domain.User {
	if u, ok := r.Context().Value(userKey).(*domain.User); ok {
		return u
	}
	return &domain.User{Username: "anonymous", Role: domain.RoleUser}
}

func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUserFrom(r))
}
