package dto

import "time"

// CreateRiskRequest is the DTO for registering a new risk.
type CreateRiskRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Type         string `json:"type"`
	Severity     int    `json:"severity"`
	Probability  int    `json:"probability"`
	SiteID       *int64 `json:"site_id,omitempty"`
	AssignedToID *int64 `json:"assigned_to_id,omitempty"`
	ActorID      int64  `json:"actor_id,omitempty"`
}

// UpdateRiskRequest is the DTO for editing a risk. Severity and Probability
// are optional; the risk is re-assessed only when both are set.
type UpdateRiskRequest struct {
	RiskID      int64  `json:"risk_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
	Severity    *int   `json:"severity,omitempty"`
	Probability *int   `json:"probability,omitempty"`
	ActorID     int64  `json:"actor_id,omitempty"`
}

// AssessRiskRequest is the DTO for re-assessing a risk.
type AssessRiskRequest struct {
	RiskID      int64 `json:"risk_id"`
	Severity    int   `json:"severity"`
	Probability int   `json:"probability"`
	ActorID     int64 `json:"actor_id,omitempty"`
}

// ChangeRiskStatusRequest is the DTO for moving a risk along its workflow.
type ChangeRiskStatusRequest struct {
	RiskID  int64  `json:"risk_id"`
	Status  string `json:"status"`
	ActorID int64  `json:"actor_id,omitempty"`
}

// CloseRiskRequest is the DTO for closing a risk.
type CloseRiskRequest struct {
	RiskID  int64 `json:"risk_id"`
	ActorID int64 `json:"actor_id,omitempty"`
}

// AssignRiskRequest is the DTO for linking a risk to a site and/or a user.
type AssignRiskRequest struct {
	RiskID       int64  `json:"risk_id"`
	SiteID       *int64 `json:"site_id,omitempty"`
	AssignedToID *int64 `json:"assigned_to_id,omitempty"`
}

// DeleteRiskRequest is the DTO for removing a risk.
type DeleteRiskRequest struct {
	RiskID int64 `json:"risk_id"`
}

// GetRiskRequest is the DTO for retrieving a single risk.
type GetRiskRequest struct {
	RiskID int64 `json:"risk_id"`
}

// ListRisksRequest is the DTO for listing risks. Filters are applied in
// precedence order CriticalOnly, Status, SiteID; with none set every risk is
// returned.
type ListRisksRequest struct {
	Status       string `json:"status,omitempty"`
	SiteID       int64  `json:"site_id,omitempty"`
	CriticalOnly bool   `json:"critical_only,omitempty"`
}

// RiskResponse is the read projection of a risk.
type RiskResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Type         string    `json:"type"`
	Severity     int       `json:"severity"`
	Probability  int       `json:"probability"`
	Status       string    `json:"status"`
	Score        int       `json:"score"`
	ScoreLevel   string    `json:"score_level"`
	SiteID       *int64    `json:"site_id,omitempty"`
	AssignedToID *int64    `json:"assigned_to_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ListRisksResponse wraps a list of risks.
type ListRisksResponse struct {
	Risks      []RiskResponse `json:"risks"`
	TotalCount int            `json:"total_count"`
}

// GetRiskHistoryRequest is the DTO for reading the audit trail. A zero
// RiskID returns the history of every risk.
type GetRiskHistoryRequest struct {
	RiskID int64 `json:"risk_id,omitempty"`
}

// RiskHistoryResponse is the read projection of one audit record.
type RiskHistoryResponse struct {
	ID        int64          `json:"id"`
	RiskID    int64          `json:"risk_id"`
	Action    string         `json:"action"`
	Changes   map[string]any `json:"changes,omitempty"`
	ActorID   *int64         `json:"actor_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// GetRiskHistoryResponse wraps a list of audit records.
type GetRiskHistoryResponse struct {
	Entries []RiskHistoryResponse `json:"entries"`
}

// CalculateScoreRequest is the DTO for previewing a score with a named strategy.
type CalculateScoreRequest struct {
	Strategy    string `json:"strategy"`
	Severity    int    `json:"severity"`
	Probability int    `json:"probability"`
}

// CalculateScoreResponse is the DTO returned by a score preview.
type CalculateScoreResponse struct {
	Strategy   string `json:"strategy"`
	Score      int    `json:"score"`
	ScoreLevel string `json:"score_level"`
}
