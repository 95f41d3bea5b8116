package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tourforge/tourforge/internal/metrics"
	"github.com/tourforge/tourforge/pkg/domain"
	"github.com/tourforge/tourforge/pkg/validate"
)

// msgSecondRoot rejects writes that would give a tour two starting points.
// Demoting the current root is an explicit editor action, never a side
// effect of saving another node.
const msgSecondRoot = "Another step is already marked as the tour starting point."

type edgeValidationResponse struct {
	Accepted bool                    `json:"accepted"`
	Result   domain.ValidationResult `json:"result"`
	Edge     *domain.Edge            `json:"edge,omitempty"`
}

func (s *Server) createNode(w http.ResponseWriter, r *http.Request) {
	var node domain.Node
	if err := decodeBody(r, &node); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if node.Kind != domain.KindStep && node.Kind != domain.KindQuestion && node.Kind != domain.KindConditional {
		writeError(w, http.StatusUnprocessableEntity, "Unknown node type: "+string(node.Kind))
		return
	}
	if node.ID == "" {
		node.ID = uuid.NewString()
	}

	treeID := chi.URLParam(r, "treeID")
	graph, err := s.trees.Graph(r.Context(), treeID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if graph.RootConflict(node) {
		writeError(w, http.StatusUnprocessableEntity, msgSecondRoot)
		return
	}

	if err := s.trees.PutNode(r.Context(), treeID, node); err != nil {
		writeStoreError(w, err)
		return
	}
	s.touchTree(r, treeID)
	writeJSON(w, http.StatusCreated, node)
}

func (s *Server) updateNode(w http.ResponseWriter, r *http.Request) {
	var node domain.Node
	if err := decodeBody(r, &node); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	node.ID = chi.URLParam(r, "nodeID")

	treeID := chi.URLParam(r, "treeID")
	graph, err := s.trees.Graph(r.Context(), treeID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if graph.Node(node.ID) == nil {
		writeStoreError(w, domain.ErrNodeNotFound)
		return
	}
	if graph.RootConflict(node) {
		writeError(w, http.StatusUnprocessableEntity, msgSecondRoot)
		return
	}

	if err := s.trees.PutNode(r.Context(), treeID, node); err != nil {
		writeStoreError(w, err)
		return
	}
	s.touchTree(r, treeID)
	writeJSON(w, http.StatusOK, node)
}

func (s *Server) deleteNode(w http.ResponseWriter, r *http.Request) {
	treeID := chi.URLParam(r, "treeID")
	if err := s.trees.DeleteNode(r.Context(), treeID, chi.URLParam(r, "nodeID")); err != nil {
		writeStoreError(w, err)
		return
	}
	s.touchTree(r, treeID)
	w.WriteHeader(http.StatusNoContent)
}

// createEdge runs the connection rules before persisting. Rule errors
// reject the edge; a duplicate warning also leaves the graph untouched so
// the editor can surface it without double-drawing.
func (s *Server) createEdge(w http.ResponseWriter, r *http.Request) {
	var edge domain.Edge
	if err := decodeBody(r, &edge); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	treeID := chi.URLParam(r, "treeID")
	graph, err := s.trees.Graph(r.Context(), treeID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	result := validate.Connection(edge.Source, edge.Target, graph)
	if !result.IsValid() {
		metrics.EdgesRejected.Inc()
		writeJSON(w, http.StatusUnprocessableEntity, edgeValidationResponse{Result: result})
		return
	}
	if len(result.Warnings) > 0 {
		writeJSON(w, http.StatusConflict, edgeValidationResponse{Result: result})
		return
	}

	if edge.ID == "" {
		edge.ID = uuid.NewString()
	}
	if err := s.trees.PutEdge(r.Context(), treeID, edge); err != nil {
		writeStoreError(w, err)
		return
	}
	s.touchTree(r, treeID)
	writeJSON(w, http.StatusCreated, edgeValidationResponse{Accepted: true, Result: result, Edge: &edge})
}

func (s *Server) deleteEdge(w http.ResponseWriter, r *http.Request) {
	treeID := chi.URLParam(r, "treeID")
	if err := s.trees.DeleteEdge(r.Context(), treeID, chi.URLParam(r, "edgeID")); err != nil {
		writeStoreError(w, err)
		return
	}
	s.touchTree(r, treeID)
	w.WriteHeader(http.StatusNoContent)
}

// touchTree bumps version and edit metadata after a graph mutation.
// Failures are logged, not surfaced; the mutation itself already landed.
func (s *Server) touchTree(r *http.Request, treeID string) {
	tree, err := s.trees.GetTree(r.Context(), treeID)
	if err != nil {
		s.logger.Warn("failed to load tree for version bump", "tree", treeID, "err", err)
		return
	}
	tree.Version++
	tree.LastEditedBy = currentUserFrom(r).Username
	tree.UpdatedAt = time.Now().UTC()
	if err := s.trees.UpdateTree(r.Context(), tree); err != nil {
		s.logger.Warn("failed to bump tree version", "tree", treeID, "err", err)
	}
}
