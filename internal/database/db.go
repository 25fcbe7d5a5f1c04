package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"

	"github.com/anti-elegant/Delphi-sub001/internal/prediction"
)

// ErrNotFound is returned when no prediction exists for the given id.
var ErrNotFound = errors.New("prediction not found")

// DB represents a database connection
type DB struct {
	*sql.DB
}

// ConnectionParams holds PostgreSQL connection parameters
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// New creates a new database connection
func New(params ConnectionParams) (*DB, error) {
	// Create PostgreSQL connection string
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		params.Host, params.Port, params.User, params.Password, params.DBName, params.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Retry the startup ping; the database may still be coming up
	strategy := backoff.NewExponentialBackOff()
	strategy.MaxElapsedTime = 15 * time.Second
	if err := backoff.Retry(db.Ping, strategy); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// createTables creates the necessary tables if they don't exist
func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS predictions (
			id TEXT PRIMARY KEY,
			event_name TEXT NOT NULL,
			event_description TEXT NOT NULL,
			confidence_level DOUBLE PRECISION NOT NULL,
			selected_type TEXT NOT NULL,
			boolean_value TEXT NOT NULL DEFAULT '',
			estimated_value TEXT NOT NULL DEFAULT '',
			evidence_data TEXT NOT NULL DEFAULT '',
			due_date TIMESTAMPTZ NOT NULL,
			date_created TIMESTAMPTZ NOT NULL,
			is_pending BOOLEAN NOT NULL,
			is_resolved BOOLEAN NOT NULL,
			actual_outcome TEXT,
			resolution_date TIMESTAMPTZ,
			last_modified TIMESTAMPTZ NOT NULL
		)
	`)
	return err
}

const recordColumns = `
	id, event_name, event_description, confidence_level, selected_type,
	boolean_value, estimated_value, evidence_data, due_date, date_created,
	is_pending, is_resolved, actual_outcome, resolution_date, last_modified`

// SavePrediction inserts a record or updates the mutable columns of an
// existing one. The evidence list travels as its encoded scalar form only;
// callers decode it through the record's accessors.
func (db *DB) SavePrediction(ctx context.Context, r *prediction.Record) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO predictions (
			id, event_name, event_description, confidence_level, selected_type,
			boolean_value, estimated_value, evidence_data, due_date, date_created,
			is_pending, is_resolved, actual_outcome, resolution_date, last_modified
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id)
		DO UPDATE SET
			evidence_data = EXCLUDED.evidence_data,
			is_pending = EXCLUDED.is_pending,
			is_resolved = EXCLUDED.is_resolved,
			actual_outcome = EXCLUDED.actual_outcome,
			resolution_date = EXCLUDED.resolution_date,
			last_modified = EXCLUDED.last_modified
	`,
		r.ID, r.EventName, r.EventDescription, r.ConfidenceLevel, string(r.SelectedType),
		r.BooleanValue, r.EstimatedValue, r.EvidenceData, r.DueDate, r.DateCreated,
		r.IsPending, r.IsResolved, r.ActualOutcome, r.ResolutionDate, r.LastModified)

	return err
}

// GetPrediction retrieves a single prediction record by id
func (db *DB) GetPrediction(ctx context.Context, id string) (*prediction.Record, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM predictions WHERE id = $1`, id)

	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

// ListPredictions retrieves all prediction records, newest first
func (db *DB) ListPredictions(ctx context.Context) ([]*prediction.Record, error) {
	return db.queryRecords(ctx,
		`SELECT `+recordColumns+` FROM predictions ORDER BY date_created DESC`)
}

// ListUnresolved retrieves records still awaiting resolution, due first
func (db *DB) ListUnresolved(ctx context.Context) ([]*prediction.Record, error) {
	return db.queryRecords(ctx,
		`SELECT `+recordColumns+` FROM predictions WHERE is_resolved = FALSE ORDER BY due_date`)
}

// DeletePrediction removes a record
func (db *DB) DeletePrediction(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM predictions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) queryRecords(ctx context.Context, query string) ([]*prediction.Record, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*prediction.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*prediction.Record, error) {
	var r prediction.Record
	var selectedType string
	var actualOutcome sql.NullString
	var resolutionDate sql.NullTime

	err := row.Scan(
		&r.ID, &r.EventName, &r.EventDescription, &r.ConfidenceLevel, &selectedType,
		&r.BooleanValue, &r.EstimatedValue, &r.EvidenceData, &r.DueDate, &r.DateCreated,
		&r.IsPending, &r.IsResolved, &actualOutcome, &resolutionDate, &r.LastModified)
	if err != nil {
		return nil, err
	}

	r.SelectedType = prediction.Type(selectedType)
	if actualOutcome.Valid {
		r.ActualOutcome = &actualOutcome.String
	}
	if resolutionDate.Valid {
		r.ResolutionDate = &resolutionDate.Time
	}
	return &r, nil
}
