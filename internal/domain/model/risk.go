package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bibbank/risk-service/internal/domain/domainerr"
	"github.com/bibbank/risk-service/internal/domain/valueobject"
)

// MinTitleLength is the minimum number of characters a trimmed title must have.
const MinTitleLength = 3

// Risk is the aggregate root for the risk domain.
// It is immutable; every behavior returns a new instance and leaves the
// receiver untouched on error.
type Risk struct {
	id           int64
	title        string
	description  string
	riskType     valueobject.RiskType
	severity     valueobject.Severity
	probability  valueobject.Probability
	score        valueobject.RiskScore
	status       valueobject.RiskStatus
	siteID       int64
	assignedToID int64
	createdAt    time.Time
	updatedAt    time.Time
}

// NewRisk creates a new Risk in draft status.
// The id stays zero until a repository assigns one.
func NewRisk(
	title string,
	riskType string,
	severity valueobject.Severity,
	probability valueobject.Probability,
	description string,
	now time.Time,
) (Risk, error) {
	if err := validateTitle(title); err != nil {
		return Risk{}, err
	}
	rt, err := valueobject.NewRiskType(riskType)
	if err != nil {
		return Risk{}, err
	}

	return Risk{
		title:       title,
		description: description,
		riskType:    rt,
		severity:    severity,
		probability: probability,
		score:       valueobject.CalculateRiskScore(severity, probability),
		status:      valueobject.RiskStatusDraft,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructRisk recreates a Risk from persisted data without validation.
// The score is recomputed from severity and probability. Used by repository
// implementations.
func ReconstructRisk(
	id int64,
	title string,
	description string,
	riskType valueobject.RiskType,
	severity valueobject.Severity,
	probability valueobject.Probability,
	status valueobject.RiskStatus,
	siteID int64,
	assignedToID int64,
	createdAt time.Time,
	updatedAt time.Time,
) Risk {
	return Risk{
		id:           id,
		title:        title,
		description:  description,
		riskType:     riskType,
		severity:     severity,
		probability:  probability,
		score:        valueobject.CalculateRiskScore(severity, probability),
		status:       status,
		siteID:       siteID,
		assignedToID: assignedToID,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// WithID returns a copy carrying the identifier assigned by persistence.
func (r Risk) WithID(id int64) Risk {
	updated := r.clone()
	updated.id = id
	return updated
}

// Update replaces the descriptive fields. Severity, probability, score and
// status are left untouched.
func (r Risk) Update(title, riskType, description string, now time.Time) (Risk, error) {
	if err := validateTitle(title); err != nil {
		return Risk{}, err
	}
	rt, err := valueobject.NewRiskType(riskType)
	if err != nil {
		return Risk{}, err
	}

	updated := r.clone()
	updated.title = title
	updated.riskType = rt
	updated.description = description
	updated.updatedAt = now

	return updated, nil
}

// Assess records a new severity and probability and recomputes the score.
// The status is not affected.
func (r Risk) Assess(severity valueobject.Severity, probability valueobject.Probability, now time.Time) Risk {
	updated := r.clone()
	updated.severity = severity
	updated.probability = probability
	updated.score = valueobject.CalculateRiskScore(severity, probability)
	updated.updatedAt = now
	return updated
}

// AssignToSite links the risk to a site. The reference is not validated.
func (r Risk) AssignToSite(siteID int64, now time.Time) Risk {
	updated := r.clone()
	updated.siteID = siteID
	updated.updatedAt = now
	return updated
}

// AssignToUser links the risk to the user responsible for it.
func (r Risk) AssignToUser(userID int64, now time.Time) Risk {
	updated := r.clone()
	updated.assignedToID = userID
	updated.updatedAt = now
	return updated
}

// ChangeStatus moves the risk along the workflow.
func (r Risk) ChangeStatus(target valueobject.RiskStatus, now time.Time) (Risk, error) {
	if !r.status.CanTransitionTo(target) {
		return Risk{}, domainerr.New(
			domainerr.KindInvalidTransition,
			fmt.Sprintf("Cannot transition from %s to %s", r.status, target),
			map[string]any{"from": r.status.String(), "to": target.String()},
		)
	}

	updated := r.clone()
	updated.status = target
	updated.updatedAt = now
	return updated, nil
}

// Close is ChangeStatus(closed).
func (r Risk) Close(now time.Time) (Risk, error) {
	return r.ChangeStatus(valueobject.RiskStatusClosed, now)
}

func validateTitle(title string) error {
	if utf8.RuneCountInString(strings.TrimSpace(title)) < MinTitleLength {
		return domainerr.New(
			domainerr.KindInvalidTitle,
			"Title must be at least 3 characters",
			map[string]any{"value": title, "min_length": MinTitleLength},
		)
	}
	return nil
}

// --- Accessors ---

// ID returns the persistence identifier, zero until the risk is saved.
func (r Risk) ID() int64 { return r.id }

// Title returns the risk title as given.
func (r Risk) Title() string { return r.title }

// Description returns the free-form description, empty when absent.
func (r Risk) Description() string { return r.description }

// Type returns the risk classification.
func (r Risk) Type() valueobject.RiskType { return r.riskType }

// Severity returns the assessed severity.
func (r Risk) Severity() valueobject.Severity { return r.severity }

// Probability returns the assessed probability.
func (r Risk) Probability() valueobject.Probability { return r.probability }

// Score returns severity times probability.
func (r Risk) Score() valueobject.RiskScore { return r.score }

// Status returns the workflow status.
func (r Risk) Status() valueobject.RiskStatus { return r.status }

// SiteID returns the linked site, zero when unassigned.
func (r Risk) SiteID() int64 { return r.siteID }

// AssignedToID returns the responsible user, zero when unassigned.
func (r Risk) AssignedToID() int64 { return r.assignedToID }

// CreatedAt returns the creation timestamp.
func (r Risk) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns the last modification timestamp.
func (r Risk) UpdatedAt() time.Time { return r.updatedAt }

// IsPersisted reports whether a repository has assigned an id.
func (r Risk) IsPersisted() bool { return r.id != 0 }

// HasSite reports whether the risk is linked to a site.
func (r Risk) HasSite() bool { return r.siteID != 0 }

// IsAssigned reports whether the risk has a responsible user.
func (r Risk) IsAssigned() bool { return r.assignedToID != 0 }

// clone creates a copy of the risk for immutability.
func (r Risk) clone() Risk {
	return r
}

// RiskNotFound is the error repositories return for a missing risk.
func RiskNotFound(id int64) error {
	return domainerr.New(
		domainerr.KindNotFound,
		fmt.Sprintf("Risk with ID %d not found", id),
		map[string]any{"id": id},
	)
}
