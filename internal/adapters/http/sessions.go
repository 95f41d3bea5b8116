package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tourforge/tourforge/internal/metrics"
	"github.com/tourforge/tourforge/pkg/domain"
	"github.com/tourforge/tourforge/pkg/flow"
)

type createSessionRequest struct {
	TreeID string `json:"tree_id"`
}

type updateSessionRequest struct {
	Status  *domain.SessionStatus `json:"status"`
	Answers domain.AnswerSet      `json:"answers"`
}

type navigateRequest struct {
	Answers domain.AnswerSet `json:"answers"`
}

// navigateResponse reports a forward move. Status is "advanced",
// "blocked" or "complete"; the session reflects the post-move state.
type navigateResponse struct {
	Status    string              `json:"status"`
	StepID    string              `json:"step_id,omitempty"`
	BlockedBy []string            `json:"blocked_by,omitempty"`
	Session   *domain.TourSession `json:"session"`
}

type previousResponse struct {
	StepID  string              `json:"step_id,omitempty"`
	AtRoot  bool                `json:"at_root"`
	Session *domain.TourSession `json:"session"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	treeID := req.TreeID
	if treeID == "" {
		tree, err := s.trees.DefaultForTour(r.Context())
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "No tree_id given and no default tour is set")
			return
		}
		treeID = tree.ID
	}

	graph, err := s.trees.Graph(r.Context(), treeID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	sess := domain.NewTourSession(uuid.NewString(), treeID, currentUserFrom(r).Username)
	nav := flow.NewNavigator(flow.Build(graph))
	if err := nav.Start(sess); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.sessions.Save(r.Context(), sess); err != nil {
		writeStoreError(w, err)
		return
	}
	metrics.SessionsStarted.Inc()
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) mySessions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	sessions, err := s.sessions.ListByUser(r.Context(), currentUserFrom(r).Username, limit)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Load(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) updateSession(w http.ResponseWriter, r *http.Request) {
	var req updateSessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := s.sessions.Update(r.Context(), chi.URLParam(r, "sessionID"), func(sess *domain.TourSession) error {
		if req.Status != nil {
			sess.Status = *req.Status
		}
		for id, ans := range req.Answers {
			sess.Answers[id] = ans
		}
		return nil
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// nextStep merges the submitted answers into the session and advances it.
// The whole load-navigate-save runs under the session's lock so concurrent
// taps on the same session serialize instead of double-advancing.
func (s *Server) nextStep(w http.ResponseWriter, r *http.Request) {
	// An empty body is fine: the step may have no questions to answer.
	var req navigateRequest
	if err := decodeBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var result flow.NextResult
	sess, err := s.sessions.Update(r.Context(), chi.URLParam(r, "sessionID"), func(sess *domain.TourSession) error {
		if sess.Status != domain.SessionInProgress {
			return errSessionFinished
		}

		graph, err := s.trees.Graph(r.Context(), sess.TreeID)
		if err != nil {
			return err
		}
		for id, ans := range req.Answers {
			sess.Answers[id] = ans
		}

		nav := flow.NewNavigator(flow.Build(graph))
		result = nav.Next(sess)
		if result.Status == flow.Complete {
			sess.Complete()
		}
		return nil
	})
	if errors.Is(err, errSessionFinished) {
		writeError(w, http.StatusConflict, "Tour session is already finished")
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}

	metrics.NavigationSteps.WithLabelValues("next", result.Status.String()).Inc()
	if result.Status == flow.Complete {
		metrics.SessionsCompleted.Inc()
	}

	writeJSON(w, http.StatusOK, navigateResponse{
		Status:    result.Status.String(),
		StepID:    result.StepID,
		BlockedBy: result.BlockedBy,
		Session:   sess,
	})
}

func (s *Server) previousStep(w http.ResponseWriter, r *http.Request) {
	var stepID string
	var moved bool
	sess, err := s.sessions.Update(r.Context(), chi.URLParam(r, "sessionID"), func(sess *domain.TourSession) error {
		graph, err := s.trees.Graph(r.Context(), sess.TreeID)
		if err != nil {
			return err
		}
		nav := flow.NewNavigator(flow.Build(graph))
		stepID, moved = nav.Previous(sess)
		if moved && sess.Status == domain.SessionCompleted {
			sess.Status = domain.SessionInProgress
			sess.DateCompleted = nil
		}
		return nil
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	outcome := "advanced"
	if !moved {
		outcome = "at_root"
	}
	metrics.NavigationSteps.WithLabelValues("previous", outcome).Inc()

	writeJSON(w, http.StatusOK, previousResponse{
		StepID:  stepID,
		AtRoot:  !moved,
		Session: sess,
	})
}

var errSessionFinished = errors.New("session finished")
