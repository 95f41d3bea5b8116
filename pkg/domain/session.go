package domain

import "time"

// SessionStatus tracks the lifecycle of a playback session.
type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionAbandoned  SessionStatus = "abandoned"
)

// TourSession is the caller-owned state of one tour playthrough. The
// navigator mutates CurrentStepID, StepPath and Status; the UI layer owns
// Answers and persists the whole session between calls.
type TourSession struct {
	ID     string        `json:"id"`
	TreeID string        `json:"tree_id"`
	UserID string        `json:"user_id"`
	Status SessionStatus `json:"status"`

	// CurrentStepID is the step the user is looking at.
	CurrentStepID string `json:"current_step,omitempty"`
	// StepPath is the ordered list of visited step IDs. It doubles as the
	// undo stack for Previous.
	StepPath []string  `json:"step_path"`
	Answers  AnswerSet `json:"answers"`

	Progress      int        `json:"progress_percentage"`
	DateStarted   time.Time  `json:"date_started"`
	DateCompleted *time.Time `json:"date_completed,omitempty"`
}

// NewTourSession creates an unstarted session for the given tree.
func NewTourSession(id, treeID, userID string) *TourSession {
	return &TourSession{
		ID:          id,
		TreeID:      treeID,
		UserID:      userID,
		Status:      SessionInProgress,
		Answers:     make(AnswerSet),
		DateStarted: time.Now().UTC(),
	}
}

// Complete marks the session finished and stamps the completion time.
func (s *TourSession) Complete() {
	now := time.Now().UTC()
	s.Status = SessionCompleted
	s.DateCompleted = &now
	s.Progress = 100
}
