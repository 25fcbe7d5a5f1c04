package prediction

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

var testNow = time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

func validParams() NewRecordParams {
	return NewRecordParams{
		EventName:        "Will it rain",
		EventDescription: "Tomorrow's weather",
		ConfidenceLevel:  70,
		SelectedType:     TypeBoolean,
		BooleanValue:     "Yes",
		Evidence:         []string{"forecast shows 80%"},
		DueDate:          testNow.Add(24 * time.Hour),
	}
}

func TestNewRecordValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*NewRecordParams)
		wantErr error
	}{
		{
			name:    "Valid params",
			mutate:  func(p *NewRecordParams) {},
			wantErr: nil,
		},
		{
			name:    "Empty event name",
			mutate:  func(p *NewRecordParams) { p.EventName = "" },
			wantErr: ErrEmptyEventName,
		},
		{
			name:    "Whitespace event name",
			mutate:  func(p *NewRecordParams) { p.EventName = "   \t" },
			wantErr: ErrEmptyEventName,
		},
		{
			name:    "Empty description",
			mutate:  func(p *NewRecordParams) { p.EventDescription = " " },
			wantErr: ErrEmptyEventDescription,
		},
		{
			name:    "Confidence below range",
			mutate:  func(p *NewRecordParams) { p.ConfidenceLevel = -0.5 },
			wantErr: ErrConfidenceOutOfRange,
		},
		{
			name:    "Confidence above range",
			mutate:  func(p *NewRecordParams) { p.ConfidenceLevel = 100.5 },
			wantErr: ErrConfidenceOutOfRange,
		},
		{
			name:    "Confidence at lower bound",
			mutate:  func(p *NewRecordParams) { p.ConfidenceLevel = 0 },
			wantErr: nil,
		},
		{
			name:    "Confidence at upper bound",
			mutate:  func(p *NewRecordParams) { p.ConfidenceLevel = 100 },
			wantErr: nil,
		},
		{
			name:    "Unknown type",
			mutate:  func(p *NewRecordParams) { p.SelectedType = "Maybe" },
			wantErr: ErrUnknownType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			r, err := NewRecord(p, testNow)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewRecord() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && r == nil {
				t.Fatal("NewRecord() returned nil record without error")
			}
			if tt.wantErr != nil && r != nil {
				t.Fatal("NewRecord() returned a record alongside an error")
			}
		})
	}
}

func TestNewRecordInitialState(t *testing.T) {
	r, err := NewRecord(validParams(), testNow)
	if err != nil {
		t.Fatalf("NewRecord() error = %v", err)
	}

	if r.ID == "" {
		t.Error("ID not assigned")
	}
	if !r.IsPending {
		t.Error("IsPending = false, want true for a future due date")
	}
	if r.IsResolved {
		t.Error("IsResolved = true for a fresh record")
	}
	if r.IsOverdue(testNow) {
		t.Error("IsOverdue = true for a future due date")
	}
	if got, want := r.Evidence(), []string{"forecast shows 80%"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Evidence() = %q, want %q", got, want)
	}
	if !r.DateCreated.Equal(testNow) || !r.LastModified.Equal(testNow) {
		t.Error("creation timestamps not fixed to the construction instant")
	}
	if got := r.StatusDescription(testNow); got != StatusPending {
		t.Errorf("StatusDescription() = %q, want %q", got, StatusPending)
	}
}

func TestNewRecordPastDueDate(t *testing.T) {
	p := validParams()
	p.DueDate = testNow.Add(-time.Hour)

	r, err := NewRecord(p, testNow)
	if err != nil {
		t.Fatalf("NewRecord() error = %v", err)
	}
	if r.IsPending {
		t.Error("IsPending = true for a past due date")
	}
	if !r.IsOverdue(testNow) {
		t.Error("IsOverdue = false for a past due date")
	}
	if got := r.StatusDescription(testNow); got != StatusOverdue {
		t.Errorf("StatusDescription() = %q, want %q", got, StatusOverdue)
	}
}

func TestUpdatePendingStatus(t *testing.T) {
	r, err := NewRecord(validParams(), testNow)
	if err != nil {
		t.Fatalf("NewRecord() error = %v", err)
	}

	// Clock advances past the due date
	later := testNow.Add(48 * time.Hour)
	r.UpdatePendingStatus(later)

	if r.IsPending {
		t.Error("IsPending = true after the due date passed")
	}
	if !r.IsOverdue(later) {
		t.Error("IsOverdue = false after the due date passed")
	}
	if got := r.StatusDescription(later); got != StatusOverdue {
		t.Errorf("StatusDescription() = %q, want %q", got, StatusOverdue)
	}
	if !r.LastModified.Equal(later) {
		t.Error("LastModified not advanced by UpdatePendingStatus")
	}
}

func TestUpdatePendingStatusResolvedNoOp(t *testing.T) {
	r, err := NewRecord(validParams(), testNow)
	if err != nil {
		t.Fatalf("NewRecord() error = %v", err)
	}

	resolvedAt := testNow.Add(time.Hour)
	r.Resolve("Yes", resolvedAt)

	r.UpdatePendingStatus(testNow.Add(72 * time.Hour))
	if !r.LastModified.Equal(resolvedAt) {
		t.Error("UpdatePendingStatus touched LastModified on a resolved record")
	}
	if r.IsPending {
		t.Error("IsPending = true on a resolved record")
	}
}

func TestResolve(t *testing.T) {
	r, err := NewRecord(validParams(), testNow)
	if err != nil {
		t.Fatalf("NewRecord() error = %v", err)
	}

	if _, ok := r.WasCorrect(); ok {
		t.Error("WasCorrect defined before resolution")
	}

	resolvedAt := testNow.Add(25 * time.Hour)
	r.Resolve("Yes", resolvedAt)

	if !r.IsResolved {
		t.Error("IsResolved = false after Resolve")
	}
	if r.IsPending {
		t.Error("IsPending = true after Resolve")
	}
	if r.ActualOutcome == nil || *r.ActualOutcome != "Yes" {
		t.Errorf("ActualOutcome = %v, want Yes", r.ActualOutcome)
	}
	if r.ResolutionDate == nil || !r.ResolutionDate.Equal(resolvedAt) {
		t.Errorf("ResolutionDate = %v, want %v", r.ResolutionDate, resolvedAt)
	}
	if correct, ok := r.WasCorrect(); !ok || !correct {
		t.Errorf("WasCorrect() = (%v, %v), want (true, true)", correct, ok)
	}
	if r.IsOverdue(resolvedAt.Add(time.Hour)) {
		t.Error("IsOverdue = true on a resolved record")
	}
	if got := r.StatusDescription(resolvedAt); got != StatusResolved {
		t.Errorf("StatusDescription() = %q, want %q", got, StatusResolved)
	}
}

func TestResolveIsOneShot(t *testing.T) {
	r, err := NewRecord(validParams(), testNow)
	if err != nil {
		t.Fatalf("NewRecord() error = %v", err)
	}

	first := testNow.Add(time.Hour)
	r.Resolve("Yes", first)
	snapshot := *r

	r.Resolve("No", testNow.Add(2*time.Hour))
	if !reflect.DeepEqual(*r, snapshot) {
		t.Error("second Resolve changed observable state")
	}
}

func TestWasCorrectNumeric(t *testing.T) {
	tests := []struct {
		name      string
		estimated string
		outcome   string
		want      bool
	}{
		{"Exact match", "42", "42", true},
		{"Mismatch", "50", "42", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			p.SelectedType = TypeNumeric
			p.BooleanValue = ""
			p.EstimatedValue = tt.estimated

			r, err := NewRecord(p, testNow)
			if err != nil {
				t.Fatalf("NewRecord() error = %v", err)
			}
			r.Resolve(tt.outcome, testNow.Add(time.Hour))

			correct, ok := r.WasCorrect()
			if !ok {
				t.Fatal("WasCorrect undefined after resolution")
			}
			if correct != tt.want {
				t.Errorf("WasCorrect() = %v, want %v", correct, tt.want)
			}
		})
	}
}

func TestDaysToDue(t *testing.T) {
	tests := []struct {
		name    string
		dueDate time.Time
		want    int
	}{
		{"Three days out", testNow.Add(72 * time.Hour), 3},
		{"Partial day rounds toward zero", testNow.Add(36 * time.Hour), 1},
		{"Past due", testNow.Add(-48 * time.Hour), -2},
		{"Due this instant", testNow, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			p.DueDate = tt.dueDate
			r, err := NewRecord(p, testNow)
			if err != nil {
				t.Fatalf("NewRecord() error = %v", err)
			}
			if got := r.DaysToDue(testNow); got != tt.want {
				t.Errorf("DaysToDue() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStatusDescriptionUnknown(t *testing.T) {
	p := validParams()
	p.DueDate = testNow

	// Due exactly now: not pending, not overdue, not resolved
	r, err := NewRecord(p, testNow)
	if err != nil {
		t.Fatalf("NewRecord() error = %v", err)
	}
	if got := r.StatusDescription(testNow); got != StatusUnknown {
		t.Errorf("StatusDescription() = %q, want %q", got, StatusUnknown)
	}
}
