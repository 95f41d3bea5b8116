package domain

import "time"

// FeedbackCategory classifies a feedback entry.
type FeedbackCategory string

const (
	FeedbackBug            FeedbackCategory = "bug"
	FeedbackFeatureRequest FeedbackCategory = "feature_request"
	FeedbackTourSuggestion FeedbackCategory = "tour_suggestion"
	FeedbackOther          FeedbackCategory = "other"
)

// FeedbackStatus tracks triage state.
type FeedbackStatus string

const (
	FeedbackOpen       FeedbackStatus = "open"
	FeedbackInProgress FeedbackStatus = "in_progress"
	FeedbackResolved   FeedbackStatus = "resolved"
	FeedbackClosed     FeedbackStatus = "closed"
)

// Feedback is one piece of user feedback about the tours or the editor.
type Feedback struct {
	ID        string           `json:"id"`
	Username  string           `json:"username"`
	Category  FeedbackCategory `json:"category"`
	UserRole  string           `json:"user_role"`
	Role      string           `json:"role,omitempty"` // self-reported company role
	Comment   string           `json:"comment"`
	Status    FeedbackStatus   `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// FeedbackStats aggregates feedback for the dashboard.
type FeedbackStats struct {
	Total      int            `json:"total"`
	ByCategory map[string]int `json:"by_category"`
	ByStatus   map[string]int `json:"by_status"`
	ByRole     map[string]int `json:"by_role"`
}
