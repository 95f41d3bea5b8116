package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tourforge/tourforge/internal/metrics"
	"github.com/tourforge/tourforge/pkg/domain"
	"github.com/tourforge/tourforge/pkg/validate"
)

type createTreeRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type updateTreeRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
}

// treeDetail is the editor load payload: metadata plus the full graph.
type treeDetail struct {
	domain.Tree
	Nodes []domain.Node `json:"nodes"`
	Edges []domain.Edge `json:"edges"`
}

func (s *Server) listTrees(w http.ResponseWriter, r *http.Request) {
	trees, err := s.trees.ListTrees(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trees)
}

func (s *Server) createTree(w http.ResponseWriter, r *http.Request) {
	var req createTreeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, "Tree name is required")
		return
	}

	user := currentUserFrom(r)
	now := time.Now().UTC()
	tree := &domain.Tree{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Description:  req.Description,
		Tags:         req.Tags,
		CreatedBy:    user.Username,
		LastEditedBy: user.Username,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.trees.CreateTree(r.Context(), tree); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tree)
}

func (s *Server) getTree(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "treeID")
	tree, err := s.trees.GetTree(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	graph, err := s.trees.Graph(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, treeDetail{Tree: *tree, Nodes: graph.Nodes, Edges: graph.Edges})
}

func (s *Server) updateTree(w http.ResponseWriter, r *http.Request) {
	var req updateTreeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := chi.URLParam(r, "treeID")
	tree, err := s.trees.GetTree(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if req.Name != nil {
		tree.Name = *req.Name
	}
	if req.Description != nil {
		tree.Description = *req.Description
	}
	if req.Tags != nil {
		tree.Tags = *req.Tags
	}
	tree.LastEditedBy = currentUserFrom(r).Username
	tree.Version++
	tree.UpdatedAt = time.Now().UTC()

	if err := s.trees.UpdateTree(r.Context(), tree); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (s *Server) deleteTree(w http.ResponseWriter, r *http.Request) {
	if err := s.trees.DeleteTree(r.Context(), chi.URLParam(r, "treeID")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// duplicateTree deep-copies a tree under fresh IDs. Node and edge IDs are
// remapped so the copy can be edited without colliding with the source.
func (s *Server) duplicateTree(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := chi.URLParam(r, "treeID")
	src, err := s.trees.GetTree(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	graph, err := s.trees.Graph(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	user := currentUserFrom(r)
	now := time.Now().UTC()
	copyTree := &domain.Tree{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Description:  src.Description,
		Tags:         append([]string(nil), src.Tags...),
		CreatedBy:    user.Username,
		LastEditedBy: user.Username,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if copyTree.Name == "" {
		copyTree.Name = src.Name + " (Copy)"
	}
	if err := s.trees.CreateTree(r.Context(), copyTree); err != nil {
		writeStoreError(w, err)
		return
	}

	idMap := make(map[string]string, len(graph.Nodes))
	for _, node := range graph.Nodes {
		idMap[node.ID] = fmt.Sprintf("%s-%s", copyTree.ID[:8], node.ID)
	}
	for _, node := range graph.Nodes {
		node.ID = idMap[node.ID]
		node.Data = remapConditionalTargets(node, idMap)
		if err := s.trees.PutNode(r.Context(), copyTree.ID, node); err != nil {
			writeStoreError(w, err)
			return
		}
	}
	for _, edge := range graph.Edges {
		edge.ID = fmt.Sprintf("%s-%s", copyTree.ID[:8], edge.ID)
		edge.Source = idMap[edge.Source]
		edge.Target = idMap[edge.Target]
		if err := s.trees.PutEdge(r.Context(), copyTree.ID, edge); err != nil {
			writeStoreError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusCreated, copyTree)
}

// remapConditionalTargets rewrites rule and default targets inside a copied
// conditional node so they point at the copied step IDs.
func remapConditionalTargets(node domain.Node, idMap map[string]string) map[string]any {
	if node.Data == nil {
		return nil
	}
	data := make(map[string]any, len(node.Data))
	for k, v := range node.Data {
		data[k] = v
	}
	if node.Kind != domain.KindConditional {
		return data
	}
	if target, ok := data["defaultTarget"].(string); ok {
		if mapped, ok := idMap[target]; ok {
			data["defaultTarget"] = mapped
		}
	}
	rules, ok := data["conditions"].([]any)
	if !ok {
		return data
	}
	remapped := make([]any, 0, len(rules))
	for _, raw := range rules {
		rule, ok := raw.(map[string]any)
		if !ok {
			remapped = append(remapped, raw)
			continue
		}
		copied := make(map[string]any, len(rule))
		for k, v := range rule {
			copied[k] = v
		}
		if target, ok := copied["targetNodeId"].(string); ok {
			if mapped, ok := idMap[target]; ok {
				copied["targetNodeId"] = mapped
			}
		}
		remapped = append(remapped, copied)
	}
	data["conditions"] = remapped
	return data
}

func (s *Server) exportTree(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "treeID")
	tree, err := s.trees.GetTree(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	graph, err := s.trees.Graph(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.TreeExport{
		Metadata:   *tree,
		Nodes:      graph.Nodes,
		Edges:      graph.Edges,
		ExportedAt: time.Now().UTC(),
	})
}

func (s *Server) setDefaultForTour(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "treeID")
	if err := s.trees.SetDefaultForTour(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"default_tree_id": id})
}

func (s *Server) defaultForTour(w http.ResponseWriter, r *http.Request) {
	tree, err := s.trees.DefaultForTour(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (s *Server) validateTree(w http.ResponseWriter, r *http.Request) {
	graph, err := s.trees.Graph(r.Context(), chi.URLParam(r, "treeID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	result := validate.Connectivity(graph)
	outcome := "valid"
	if !result.IsValid {
		outcome = "invalid"
	}
	metrics.ValidationRuns.WithLabelValues(outcome).Inc()

	writeJSON(w, http.StatusOK, result)
}
