package domain

import "time"

// User is an identity derived from the forwarded auth headers. Roles gate
// the editor; playback works for everyone.
type User struct {
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	FullName     string    `json:"full_name,omitempty"`
	Role         string    `json:"role"`
	CompanyRole  string    `json:"company_role,omitempty"`
	AddDate      time.Time `json:"add_date"`
	LastAccessed time.Time `json:"last_accessed"`
}

// Known user roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
