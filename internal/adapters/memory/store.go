// Package memory provides map-backed stores, used by tests and as the
// default backend of `tourforge serve`.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tourforge/tourforge/pkg/domain"
)

// treeRecord keeps nodes and edges in creation order, mirroring the
// ORDER BY created_at the SQL layer used.
type treeRecord struct {
	tree  domain.Tree
	nodes []domain.Node
	edges []domain.Edge
}

// Store implements the tree and session ports in memory.
type Store struct {
	mu       sync.RWMutex
	trees    map[string]*treeRecord
	treeIDs  []string
	sessions map[string]*domain.TourSession
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		trees:    make(map[string]*treeRecord),
		sessions: make(map[string]*domain.TourSession),
	}
}

// --- TreeStore ---

func (s *Store) CreateTree(ctx context.Context, tree *domain.Tree) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trees[tree.ID] = &treeRecord{tree: *tree}
	s.treeIDs = append(s.treeIDs, tree.ID)
	return nil
}

func (s *Store) GetTree(ctx context.Context, id string) (*domain.Tree, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.trees[id]
	if !ok {
		return nil, domain.ErrTreeNotFound
	}
	tree := rec.tree
	return &tree, nil
}

func (s *Store) ListTrees(ctx context.Context) ([]domain.TreeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]domain.TreeSummary, 0, len(s.treeIDs))
	for _, id := range s.treeIDs {
		rec := s.trees[id]
		summaries = append(summaries, domain.TreeSummary{
			Tree:      rec.tree,
			NodeCount: len(rec.nodes),
			EdgeCount: len(rec.edges),
		})
	}
	// Most recently updated first, like the original list view.
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

func (s *Store) UpdateTree(ctx context.Context, tree *domain.Tree) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.trees[tree.ID]
	if !ok {
		return domain.ErrTreeNotFound
	}
	rec.tree = *tree
	return nil
}

func (s *Store) DeleteTree(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trees[id]; !ok {
		return domain.ErrTreeNotFound
	}
	delete(s.trees, id)
	for i, tid := range s.treeIDs {
		if tid == id {
			s.treeIDs = append(s.treeIDs[:i], s.treeIDs[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) Graph(ctx context.Context, treeID string) (*domain.Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.trees[treeID]
	if !ok {
		return nil, domain.ErrTreeNotFound
	}
	g := &domain.Graph{
		Nodes: make([]domain.Node, len(rec.nodes)),
		Edges: make([]domain.Edge, len(rec.edges)),
	}
	copy(g.Nodes, rec.nodes)
	copy(g.Edges, rec.edges)
	// Node payload maps get their own top level so a caller writing into
	// its snapshot cannot reach the store; nested payload values stay
	// shared and are treated as read-only.
	for i := range g.Nodes {
		if data := rec.nodes[i].Data; data != nil {
			g.Nodes[i].Data = make(map[string]any, len(data))
			for k, v := range data {
				g.Nodes[i].Data[k] = v
			}
		}
	}
	return g, nil
}

func (s *Store) PutNode(ctx context.Context, treeID string, node domain.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.trees[treeID]
	if !ok {
		return domain.ErrTreeNotFound
	}
	for i := range rec.nodes {
		if rec.nodes[i].ID == node.ID {
			rec.nodes[i] = node
			return nil
		}
	}
	rec.nodes = append(rec.nodes, node)
	return nil
}

func (s *Store) DeleteNode(ctx context.Context, treeID, nodeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.trees[treeID]
	if !ok {
		return domain.ErrTreeNotFound
	}
	idx := -1
	for i := range rec.nodes {
		if rec.nodes[i].ID == nodeID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.ErrNodeNotFound
	}
	rec.nodes = append(rec.nodes[:idx], rec.nodes[idx+1:]...)

	// Cascade: drop edges touching the node.
	kept := rec.edges[:0]
	for _, e := range rec.edges {
		if e.Source != nodeID && e.Target != nodeID {
			kept = append(kept, e)
		}
	}
	rec.edges = kept
	return nil
}

func (s *Store) PutEdge(ctx context.Context, treeID string, edge domain.Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.trees[treeID]
	if !ok {
		return domain.ErrTreeNotFound
	}
	for i := range rec.edges {
		if rec.edges[i].ID == edge.ID {
			rec.edges[i] = edge
			return nil
		}
	}
	rec.edges = append(rec.edges, edge)
	return nil
}

func (s *Store) DeleteEdge(ctx context.Context, treeID, edgeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.trees[treeID]
	if !ok {
		return domain.ErrTreeNotFound
	}
	for i := range rec.edges {
		if rec.edges[i].ID == edgeID {
			rec.edges = append(rec.edges[:i], rec.edges[i+1:]...)
			return nil
		}
	}
	return domain.ErrEdgeNotFound
}

func (s *Store) SetDefaultForTour(ctx context.Context, treeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.trees[treeID]
	if !ok {
		return domain.ErrTreeNotFound
	}
	for _, other := range s.trees {
		other.tree.DefaultForTour = false
	}
	rec.tree.DefaultForTour = true
	return nil
}

func (s *Store) DefaultForTour(ctx context.Context) (*domain.Tree, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.trees {
		if rec.tree.DefaultForTour {
			tree := rec.tree
			return &tree, nil
		}
	}
	return nil, domain.ErrTreeNotFound
}

// --- SessionStore ---

func (s *Store) Save(ctx context.Context, sess *domain.TourSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ID] = cloneSession(sess)
	return nil
}

func (s *Store) Load(ctx context.Context, id string) (*domain.TourSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return cloneSession(sess), nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

func (s *Store) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.TourSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.TourSession
	for _, sess := range s.sessions {
		if sess.UserID == userID {
			out = append(out, cloneSession(sess))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DateStarted.After(out[j].DateStarted)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func cloneSession(src *domain.TourSession) *domain.TourSession {
	dst := *src
	dst.StepPath = append([]string(nil), src.StepPath...)
	dst.Answers = make(domain.AnswerSet, len(src.Answers))
	for k, v := range src.Answers {
		dst.Answers[k] = v
	}
	return &dst
}

// FeedbackLog implements ports.FeedbackStore in memory.
type FeedbackLog struct {
	mu      sync.RWMutex
	entries []*domain.Feedback
}

// NewFeedbackLog creates an empty in-memory feedback store.
func NewFeedbackLog() *FeedbackLog {
	return &FeedbackLog{}
}

func (l *FeedbackLog) Add(ctx context.Context, fb *domain.Feedback) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := *fb
	l.entries = append(l.entries, &entry)
	return nil
}

func (l *FeedbackLog) Get(ctx context.Context, id string) (*domain.Feedback, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, fb := range l.entries {
		if fb.ID == id {
			entry := *fb
			return &entry, nil
		}
	}
	return nil, domain.ErrFeedbackNotFound
}

func (l *FeedbackLog) Update(ctx context.Context, fb *domain.Feedback) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, existing := range l.entries {
		if existing.ID == fb.ID {
			entry := *fb
			l.entries[i] = &entry
			return nil
		}
	}
	return domain.ErrFeedbackNotFound
}

func (l *FeedbackLog) Delete(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, fb := range l.entries {
		if fb.ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return nil
		}
	}
	return domain.ErrFeedbackNotFound
}

func (l *FeedbackLog) List(ctx context.Context) ([]*domain.Feedback, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*domain.Feedback, 0, len(l.entries))
	for i := len(l.entries) - 1; i >= 0; i-- {
		entry := *l.entries[i]
		out = append(out, &entry)
	}
	return out, nil
}

func (l *FeedbackLog) Stats(ctx context.Context) (*domain.FeedbackStats, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stats := &domain.FeedbackStats{
		Total:      len(l.entries),
		ByCategory: make(map[string]int),
		ByStatus:   make(map[string]int),
		ByRole:     make(map[string]int),
	}
	for _, fb := range l.entries {
		stats.ByCategory[string(fb.Category)]++
		stats.ByStatus[string(fb.Status)]++
		if fb.Role != "" {
			stats.ByRole[fb.Role]++
		}
	}
	return stats, nil
}

// UserDirectory implements ports.UserStore in memory.
type UserDirectory struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewUserDirectory creates an empty in-memory user store.
func NewUserDirectory() *UserDirectory {
	return &UserDirectory{users: make(map[string]*domain.User)}
}

func (d *UserDirectory) Upsert(ctx context.Context, user domain.User) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	existing, ok := d.users[user.Username]
	if !ok {
		stored := user
		d.users[user.Username] = &stored
		out := stored
		return &out, nil
	}

	existing.LastAccessed = user.LastAccessed
	if user.Email != "" {
		existing.Email = user.Email
	}
	if user.FullName != "" {
		existing.FullName = user.FullName
	}
	out := *existing
	return &out, nil
}

func (d *UserDirectory) Get(ctx context.Context, username string) (*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	user, ok := d.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *user
	return &out, nil
}

func (d *UserDirectory) Update(ctx context.Context, user domain.User) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.users[user.Username]; !ok {
		return nil, domain.ErrUserNotFound
	}
	stored := user
	d.users[user.Username] = &stored
	out := stored
	return &out, nil
}

func (d *UserDirectory) Delete(ctx context.Context, username string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.users[username]; !ok {
		return domain.ErrUserNotFound
	}
	delete(d.users, username)
	return nil
}

func (d *UserDirectory) List(ctx context.Context) ([]*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*domain.User, 0, len(d.users))
	for _, u := range d.users {
		entry := *u
		out = append(out, &entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}
