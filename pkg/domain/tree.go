package domain

import "time"

// Tree is the metadata record of a decision tree. The node and edge sets
// are stored alongside it but loaded as a Graph snapshot.
type Tree struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Tags           []string  `json:"tags"`
	CreatedBy      string    `json:"created_by"`
	LastEditedBy   string    `json:"last_edited_by"`
	Version        int       `json:"version"`
	DefaultForTour bool      `json:"is_default_for_tour"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TreeSummary is a Tree plus the counts the list view shows.
type TreeSummary struct {
	Tree
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
}

// TreeExport is the portable form of a tree: metadata plus the full graph.
type TreeExport struct {
	Metadata   Tree      `json:"metadata"`
	Nodes      []Node    `json:"nodes"`
	Edges      []Edge    `json:"edges"`
	ExportedAt time.Time `json:"exported_at"`
}
