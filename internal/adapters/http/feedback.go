package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tourforge/tourforge/pkg/domain"
)

type submitFeedbackRequest struct {
	Category domain.FeedbackCategory `json:"category"`
	Role     string                  `json:"role"`
	Comment  string                  `json:"comment"`
}

type updateFeedbackRequest struct {
	Status  *domain.FeedbackStatus `json:"status"`
	Comment *string                `json:"comment"`
}

func validCategory(c domain.FeedbackCategory) bool {
	switch c {
	case domain.FeedbackBug, domain.FeedbackFeatureRequest, domain.FeedbackTourSuggestion, domain.FeedbackOther:
		return true
	}
	return false
}

func validStatus(s domain.FeedbackStatus) bool {
	switch s {
	case domain.FeedbackOpen, domain.FeedbackInProgress, domain.FeedbackResolved, domain.FeedbackClosed:
		return true
	}
	return false
}

func (s *Server) submitFeedback(w http.ResponseWriter, r *http.Request) {
	var req submitFeedbackRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validCategory(req.Category) {
		writeError(w, http.StatusUnprocessableEntity, "Unknown feedback category: "+string(req.Category))
		return
	}
	if req.Comment == "" {
		writeError(w, http.StatusUnprocessableEntity, "Feedback comment is required")
		return
	}

	user := currentUserFrom(r)
	now := time.Now().UTC()
	fb := &domain.Feedback{
		ID:        uuid.NewString(),
		Username:  user.Username,
		Category:  req.Category,
		UserRole:  user.Role,
		Role:      req.Role,
		Comment:   req.Comment,
		Status:    domain.FeedbackOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.feedback.Add(r.Context(), fb); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, fb)
}

func (s *Server) listFeedback(w http.ResponseWriter, r *http.Request) {
	entries, err := s.feedback.List(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}

	category := r.URL.Query().Get("category")
	status := r.URL.Query().Get("status")
	filtered := entries[:0:0]
	for _, fb := range entries {
		if category != "" && string(fb.Category) != category {
			continue
		}
		if status != "" && string(fb.Status) != status {
			continue
		}
		filtered = append(filtered, fb)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": filtered,
		"total": len(filtered),
	})
}

func (s *Server) feedbackStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.feedback.Stats(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// getFeedback returns one entry. Non-admins only see their own feedback;
// anything else reads as missing rather than forbidden, so the endpoint
// does not leak which IDs exist.
func (s *Server) getFeedback(w http.ResponseWriter, r *http.Request) {
	fb, err := s.feedback.Get(r.Context(), chi.URLParam(r, "feedbackID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	caller := currentUserFrom(r)
	if caller.Role != domain.RoleAdmin && caller.Username != fb.Username {
		writeStoreError(w, domain.ErrFeedbackNotFound)
		return
	}
	writeJSON(w, http.StatusOK, fb)
}

func (s *Server) deleteFeedback(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	if err := s.feedback.Delete(r.Context(), chi.URLParam(r, "feedbackID")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) updateFeedback(w http.ResponseWriter, r *http.Request) {
	var req updateFeedbackRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Status != nil && !validStatus(*req.Status) {
		writeError(w, http.StatusUnprocessableEntity, "Unknown feedback status: "+string(*req.Status))
		return
	}

	fb, err := s.feedback.Get(r.Context(), chi.URLParam(r, "feedbackID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if req.Status != nil {
		fb.Status = *req.Status
	}
	if req.Comment != nil {
		fb.Comment = *req.Comment
	}
	fb.UpdatedAt = time.Now().UTC()

	if err := s.feedback.Update(r.Context(), fb); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fb)
}
