package prediction

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type selects how a record's predicted outcome is interpreted.
type Type string

const (
	TypeBoolean Type = "Boolean"
	TypeNumeric Type = "Numeric"
)

// Status descriptions surfaced to callers.
const (
	StatusResolved = "Resolved"
	StatusOverdue  = "Overdue"
	StatusPending  = "Pending"
	StatusUnknown  = "Unknown"
)

// Construction validation failures.
var (
	ErrEmptyEventName        = errors.New("event name is empty")
	ErrEmptyEventDescription = errors.New("event description is empty")
	ErrConfidenceOutOfRange  = errors.New("confidence level must be between 0 and 100")
	ErrUnknownType           = errors.New("unknown prediction type")
)

// Record is a single tracked prediction. EvidenceData holds the evidence
// list in its encoded scalar form; read and write it through Evidence and
// SetEvidence. Mutate lifecycle state only through UpdatePendingStatus and
// Resolve — the record performs no locking and expects one owner.
type Record struct {
	ID               string     `json:"id"`
	EventName        string     `json:"event_name"`
	EventDescription string     `json:"event_description"`
	ConfidenceLevel  float64    `json:"confidence_level"`
	SelectedType     Type       `json:"selected_type"`
	BooleanValue     string     `json:"boolean_value,omitempty"`
	EstimatedValue   string     `json:"estimated_value,omitempty"`
	EvidenceData     string     `json:"evidence_data,omitempty"`
	DueDate          time.Time  `json:"due_date"`
	DateCreated      time.Time  `json:"date_created"`
	IsPending        bool       `json:"is_pending"`
	IsResolved       bool       `json:"is_resolved"`
	ActualOutcome    *string    `json:"actual_outcome,omitempty"`
	ResolutionDate   *time.Time `json:"resolution_date,omitempty"`
	LastModified     time.Time  `json:"last_modified"`
}

// NewRecordParams holds the caller-supplied attributes of a new record.
type NewRecordParams struct {
	EventName        string
	EventDescription string
	ConfidenceLevel  float64
	SelectedType     Type
	BooleanValue     string
	EstimatedValue   string
	Evidence         []string
	DueDate          time.Time
}

// NewRecord validates params and builds a record at the given instant.
// Name and description are stored trimmed; a record is never produced in a
// partially valid state.
func NewRecord(p NewRecordParams, now time.Time) (*Record, error) {
	name := strings.TrimSpace(p.EventName)
	if name == "" {
		return nil, ErrEmptyEventName
	}
	description := strings.TrimSpace(p.EventDescription)
	if description == "" {
		return nil, ErrEmptyEventDescription
	}
	if p.ConfidenceLevel < 0 || p.ConfidenceLevel > 100 {
		return nil, ErrConfidenceOutOfRange
	}
	if p.SelectedType != TypeBoolean && p.SelectedType != TypeNumeric {
		return nil, ErrUnknownType
	}

	r := &Record{
		ID:               uuid.NewString(),
		EventName:        name,
		EventDescription: description,
		ConfidenceLevel:  p.ConfidenceLevel,
		SelectedType:     p.SelectedType,
		BooleanValue:     p.BooleanValue,
		EstimatedValue:   p.EstimatedValue,
		DueDate:          p.DueDate,
		DateCreated:      now,
		IsPending:        p.DueDate.After(now),
		LastModified:     now,
	}
	r.SetEvidence(p.Evidence)
	return r, nil
}

// Evidence returns the decoded evidence list.
func (r *Record) Evidence() []string {
	return DecodeEvidence(r.EvidenceData)
}

// SetEvidence stores the list in its encoded scalar form.
func (r *Record) SetEvidence(items []string) {
	r.EvidenceData = EncodeEvidence(items)
}

// UpdatePendingStatus recomputes IsPending against the given instant.
// Resolved records are terminal and left untouched, LastModified included.
func (r *Record) UpdatePendingStatus(now time.Time) {
	if r.IsResolved {
		return
	}
	r.IsPending = r.DueDate.After(now)
	r.LastModified = now
}

// Resolve records the actual outcome, one-shot. Calling it on an already
// resolved record is silently ignored.
func (r *Record) Resolve(outcome string, now time.Time) {
	if r.IsResolved {
		return
	}
	resolvedAt := now
	r.ActualOutcome = &outcome
	r.ResolutionDate = &resolvedAt
	r.IsResolved = true
	r.IsPending = false
	r.LastModified = now
}

// IsOverdue reports whether the due date has passed without resolution.
func (r *Record) IsOverdue(now time.Time) bool {
	return r.DueDate.Before(now) && !r.IsResolved
}

// DaysToDue is the whole-day distance from now to the due date, negative
// once the due date has passed.
func (r *Record) DaysToDue(now time.Time) int {
	return int(r.DueDate.Sub(now).Hours() / 24)
}

// StatusDescription names the current lifecycle phase.
func (r *Record) StatusDescription(now time.Time) string {
	switch {
	case r.IsResolved:
		return StatusResolved
	case r.IsOverdue(now):
		return StatusOverdue
	case r.IsPending:
		return StatusPending
	default:
		return StatusUnknown
	}
}

// WasCorrect compares the recorded outcome against the predicted value by
// exact string equality. The second result is false until the record is
// resolved.
func (r *Record) WasCorrect() (bool, bool) {
	if !r.IsResolved || r.ActualOutcome == nil {
		return false, false
	}
	switch r.SelectedType {
	case TypeNumeric:
		return *r.ActualOutcome == r.EstimatedValue, true
	default:
		return *r.ActualOutcome == r.BooleanValue, true
	}
}
