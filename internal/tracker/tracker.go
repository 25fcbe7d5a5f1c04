package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/anti-elegant/Delphi-sub001/internal/config"
	"github.com/anti-elegant/Delphi-sub001/internal/prediction"
)

// Store persists prediction records.
type Store interface {
	SavePrediction(ctx context.Context, r *prediction.Record) error
	GetPrediction(ctx context.Context, id string) (*prediction.Record, error)
	ListPredictions(ctx context.Context) ([]*prediction.Record, error)
	ListUnresolved(ctx context.Context) ([]*prediction.Record, error)
	DeletePrediction(ctx context.Context, id string) error
}

// Policy cap violations.
var (
	ErrEventNameTooLong    = errors.New("event name exceeds maximum length")
	ErrDescriptionTooLong  = errors.New("event description exceeds maximum length")
	ErrTooMuchEvidence     = errors.New("evidence list exceeds maximum count")
	ErrEvidenceItemTooLong = errors.New("evidence item exceeds maximum length")
)

// Tracker owns all mutations of prediction records. One mutex keeps at most
// one mutation in flight, matching the record's single-owner contract.
type Tracker struct {
	store  Store
	clock  prediction.Clock
	limits config.Limits
	logger zerolog.Logger
	mu     sync.Mutex
}

// New creates a tracker over the given store, clock, and validation policy.
func New(store Store, clock prediction.Clock, limits config.Limits) *Tracker {
	return &Tracker{
		store:  store,
		clock:  clock,
		limits: limits,
		logger: log.With().Str("component", "tracker").Logger(),
	}
}

// Create applies the policy caps, then builds and persists a record.
func (t *Tracker) Create(ctx context.Context, p prediction.NewRecordParams) (*prediction.Record, error) {
	if err := t.checkPolicy(p); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	r, err := prediction.NewRecord(p, t.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := t.store.SavePrediction(ctx, r); err != nil {
		return nil, fmt.Errorf("saving prediction: %w", err)
	}

	t.logger.Info().Str("id", r.ID).Str("event", r.EventName).Msg("prediction created")
	return r, nil
}

// Get retrieves one record.
func (t *Tracker) Get(ctx context.Context, id string) (*prediction.Record, error) {
	return t.store.GetPrediction(ctx, id)
}

// List retrieves all records.
func (t *Tracker) List(ctx context.Context) ([]*prediction.Record, error) {
	return t.store.ListPredictions(ctx)
}

// ListOverdue retrieves unresolved records whose due date has passed.
func (t *Tracker) ListOverdue(ctx context.Context) ([]*prediction.Record, error) {
	records, err := t.store.ListUnresolved(ctx)
	if err != nil {
		return nil, err
	}

	now := t.clock.Now()
	var overdue []*prediction.Record
	for _, r := range records {
		if r.IsOverdue(now) {
			overdue = append(overdue, r)
		}
	}
	return overdue, nil
}

// Resolve records the actual outcome for a prediction. Resolving an already
// resolved record is not an error; the stored state is returned unchanged.
func (t *Tracker) Resolve(ctx context.Context, id, outcome string) (*prediction.Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	r, err := t.store.GetPrediction(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.IsResolved {
		t.logger.Debug().Str("id", id).Msg("already resolved, ignoring")
		return r, nil
	}

	r.Resolve(outcome, t.clock.Now())
	if err := t.store.SavePrediction(ctx, r); err != nil {
		return nil, fmt.Errorf("saving resolution: %w", err)
	}

	correct, _ := r.WasCorrect()
	t.logger.Info().Str("id", id).Bool("correct", correct).Msg("prediction resolved")
	return r, nil
}

// RefreshPendingStatuses sweeps unresolved records, recomputing IsPending
// against the current instant. Returns how many records changed phase.
func (t *Tracker) RefreshPendingStatuses(ctx context.Context) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	records, err := t.store.ListUnresolved(ctx)
	if err != nil {
		return 0, err
	}

	now := t.clock.Now()
	changed := 0
	for _, r := range records {
		wasPending := r.IsPending
		r.UpdatePendingStatus(now)
		if err := t.store.SavePrediction(ctx, r); err != nil {
			return changed, fmt.Errorf("saving prediction %s: %w", r.ID, err)
		}
		if r.IsPending != wasPending {
			changed++
		}
	}

	t.logger.Info().Int("records", len(records)).Int("changed", changed).Msg("pending statuses refreshed")
	return changed, nil
}

// Delete removes a record. Destruction lives here, not on the record.
func (t *Tracker) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.DeletePrediction(ctx, id); err != nil {
		return err
	}
	t.logger.Info().Str("id", id).Msg("prediction deleted")
	return nil
}

func (t *Tracker) checkPolicy(p prediction.NewRecordParams) error {
	if len(strings.TrimSpace(p.EventName)) > t.limits.MaxEventNameLength {
		return ErrEventNameTooLong
	}
	if len(strings.TrimSpace(p.EventDescription)) > t.limits.MaxDescriptionLength {
		return ErrDescriptionTooLong
	}

	// Items dropped by the codec don't count toward the cap
	kept := 0
	for _, item := range p.Evidence {
		if strings.TrimSpace(item) == "" {
			continue
		}
		if len(item) > t.limits.MaxEvidenceItemLength {
			return ErrEvidenceItemTooLong
		}
		kept++
	}
	if kept > t.limits.MaxEvidenceCount {
		return ErrTooMuchEvidence
	}
	return nil
}
