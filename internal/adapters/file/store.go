// Package file stores decision trees as JSON documents on disk, one file
// per tree, in the same shape the export endpoint produces. Useful for
// small deployments and for editing trees with plain tools.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tourforge/tourforge/pkg/domain"
)

// Store implements ports.TreeStore on the local filesystem.
type Store struct {
	basePath string
	// mu serializes read-modify-write cycles on tree documents.
	mu sync.Mutex
}

// NewStore creates a file store rooted at basePath. If basePath is empty
// it defaults to ".tourforge/trees".
func NewStore(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".tourforge", "trees")
	}
	return &Store{basePath: basePath}
}

func (s *Store) path(id string) string {
	return filepath.Join(s.basePath, id+".json")
}

// document is the on-disk shape, matching domain.TreeExport minus the
// export timestamp.
type document struct {
	Metadata domain.Tree   `json:"metadata"`
	Nodes    []domain.Node `json:"nodes"`
	Edges    []domain.Edge `json:"edges"`
}

func (s *Store) read(id string) (*document, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrTreeNotFound
		}
		return nil, fmt.Errorf("failed to read tree file: %w", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse tree file %s: %w", s.path(id), err)
	}
	return &doc, nil
}

func (s *Store) write(doc *document) error {
	if err := os.MkdirAll(s.basePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure tree directory: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tree: %w", err)
	}
	if err := os.WriteFile(s.path(doc.Metadata.ID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write tree file: %w", err)
	}
	return nil
}

// update applies fn to the stored document under the store lock.
func (s *Store) update(id string, fn func(*document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(id)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.write(doc)
}

func (s *Store) CreateTree(ctx context.Context, tree *domain.Tree) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(&document{Metadata: *tree})
}

func (s *Store) GetTree(ctx context.Context, id string) (*domain.Tree, error) {
	doc, err := s.read(id)
	if err != nil {
		return nil, err
	}
	tree := doc.Metadata
	return &tree, nil
}

func (s *Store) ListTrees(ctx context.Context) ([]domain.TreeSummary, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.TreeSummary{}, nil
		}
		return nil, fmt.Errorf("failed to list tree directory: %w", err)
	}

	summaries := make([]domain.TreeSummary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		doc, err := s.read(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			// A malformed document should not hide the rest.
			continue
		}
		summaries = append(summaries, domain.TreeSummary{
			Tree:      doc.Metadata,
			NodeCount: len(doc.Nodes),
			EdgeCount: len(doc.Edges),
		})
	}
	return summaries, nil
}

func (s *Store) UpdateTree(ctx context.Context, tree *domain.Tree) error {
	return s.update(tree.ID, func(doc *document) error {
		doc.Metadata = *tree
		return nil
	})
}

func (s *Store) DeleteTree(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return domain.ErrTreeNotFound
	}
	return err
}

func (s *Store) Graph(ctx context.Context, treeID string) (*domain.Graph, error) {
	doc, err := s.read(treeID)
	if err != nil {
		return nil, err
	}
	return &domain.Graph{Nodes: doc.Nodes, Edges: doc.Edges}, nil
}

func (s *Store) PutNode(ctx context.Context, treeID string, node domain.Node) error {
	return s.update(treeID, func(doc *document) error {
		for i := range doc.Nodes {
			if doc.Nodes[i].ID == node.ID {
				doc.Nodes[i] = node
				return nil
			}
		}
		doc.Nodes = append(doc.Nodes, node)
		return nil
	})
}

func (s *Store) DeleteNode(ctx context.Context, treeID, nodeID string) error {
	return s.update(treeID, func(doc *document) error {
		idx := -1
		for i := range doc.Nodes {
			if doc.Nodes[i].ID == nodeID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return domain.ErrNodeNotFound
		}
		doc.Nodes = append(doc.Nodes[:idx], doc.Nodes[idx+1:]...)

		kept := doc.Edges[:0]
		for _, e := range doc.Edges {
			if e.Source != nodeID && e.Target != nodeID {
				kept = append(kept, e)
			}
		}
		doc.Edges = kept
		return nil
	})
}

func (s *Store) PutEdge(ctx context.Context, treeID string, edge domain.Edge) error {
	return s.update(treeID, func(doc *document) error {
		for i := range doc.Edges {
			if doc.Edges[i].ID == edge.ID {
				doc.Edges[i] = edge
				return nil
			}
		}
		doc.Edges = append(doc.Edges, edge)
		return nil
	})
}

func (s *Store) DeleteEdge(ctx context.Context, treeID, edgeID string) error {
	return s.update(treeID, func(doc *document) error {
		for i := range doc.Edges {
			if doc.Edges[i].ID == edgeID {
				doc.Edges = append(doc.Edges[:i], doc.Edges[i+1:]...)
				return nil
			}
		}
		return domain.ErrEdgeNotFound
	})
}

func (s *Store) SetDefaultForTour(ctx context.Context, treeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, err := s.read(treeID)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return fmt.Errorf("failed to list tree directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		if id == treeID {
			continue
		}
		doc, err := s.read(id)
		if err != nil || !doc.Metadata.DefaultForTour {
			continue
		}
		doc.Metadata.DefaultForTour = false
		if err := s.write(doc); err != nil {
			return err
		}
	}

	target.Metadata.DefaultForTour = true
	return s.write(target)
}

func (s *Store) DefaultForTour(ctx context.Context) (*domain.Tree, error) {
	summaries, err := s.ListTrees(ctx)
	if err != nil {
		return nil, err
	}
	for _, summary := range summaries {
		if summary.DefaultForTour {
			tree := summary.Tree
			return &tree, nil
		}
	}
	return nil, domain.ErrTreeNotFound
}

// LoadExport reads a standalone tree export document from an arbitrary
// path. The CLI uses it for `validate` and `play`.
func LoadExport(path string) (*domain.TreeExport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var export domain.TreeExport
	if err := json.Unmarshal(data, &export); err != nil {
		// Tolerate bare {nodes, edges} documents without metadata.
		var g domain.Graph
		if gErr := json.Unmarshal(data, &g); gErr == nil && len(g.Nodes) > 0 {
			return &domain.TreeExport{Nodes: g.Nodes, Edges: g.Edges}, nil
		}
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &export, nil
}
