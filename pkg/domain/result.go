package domain

// ValidationResult accumulates structural errors and non-blocking warnings.
// Evaluators never panic or stop at the first problem; the editor renders
// the whole list.
type ValidationResult struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// AddError appends a structural error.
func (r *ValidationResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddWarning appends a non-blocking warning.
func (r *ValidationResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// IsValid reports whether no errors were recorded. Warnings never block.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// RootValidationResult is the connectivity report for a graph. IsValid is
// materialized as a field so the report serializes whole for the editor.
type RootValidationResult struct {
	Errors           []string `json:"errors"`
	Warnings         []string `json:"warnings"`
	IsValid          bool     `json:"isValid"`
	RootNodeID       string   `json:"rootNodeId,omitempty"`
	OrphanedNodes    []string `json:"orphanedNodes"`
	UnreachableNodes []string `json:"unreachableNodes"`
	Message          string   `json:"message,omitempty"`
}
