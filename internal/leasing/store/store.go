// Package store persists accepted lease applications together with their
// audit trail. The SQL runs unchanged on postgres and sqlite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"leasing-wizard/internal/common/database"
	"leasing-wizard/internal/models"
)

var (
	ErrDuplicate = errors.New("application already submitted")
	ErrNotFound  = errors.New("application not found")
)

// Schema creates the tables used by the store.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS lease_applications (
		id               TEXT PRIMARY KEY,
		full_name        TEXT NOT NULL,
		email            TEXT NOT NULL,
		phone            TEXT NOT NULL,
		country          TEXT NOT NULL,
		product_type     TEXT NOT NULL,
		product_model    TEXT NOT NULL,
		lease_duration   INTEGER NOT NULL,
		monthly_budget   DOUBLE PRECISION NOT NULL,
		employer_name    TEXT,
		annual_income    DOUBLE PRECISION,
		application_data TEXT NOT NULL,
		status           TEXT NOT NULL,
		submitted_by     TEXT,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_lease_applications_email ON lease_applications (email, product_type)`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id            TEXT PRIMARY KEY,
		event_type    TEXT NOT NULL,
		resource_type TEXT NOT NULL,
		resource_id   TEXT NOT NULL,
		details       TEXT NOT NULL,
		created_at    TEXT NOT NULL
	)`,
}

const (
	existsSQL = `SELECT EXISTS(
		SELECT 1 FROM lease_applications
		WHERE email = $1 AND product_type = $2 AND status = $3
	)`

	insertApplicationSQL = `INSERT INTO lease_applications (
		id, full_name, email, phone, country, product_type, product_model,
		lease_duration, monthly_budget, employer_name, annual_income,
		application_data, status, submitted_by, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	insertAuditSQL = `INSERT INTO audit_log (id, event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	selectApplicationSQL = `SELECT application_data, status, submitted_by, created_at, updated_at
		FROM lease_applications WHERE id = $1`
)

const (
	EventApplicationCreated = "lease_application_created"
	ResourceApplication     = "lease_application"
)

type Store struct {
	client *database.SQLClient
	now    func() time.Time
	newID  func() string
}

func New(client *database.SQLClient) *Store {
	return &Store{
		client: client,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Migrate applies Schema.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range Schema {
		if _, err := s.client.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Create stores draft and its audit entry in one transaction. A submitted
// application with the same email and product type yields ErrDuplicate.
func (s *Store) Create(ctx context.Context, draft models.ApplicationDraft, submittedBy string) (*models.LeaseApplication, error) {
	data, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("encode application: %w", err)
	}

	tx, err := s.client.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx, s.client.Rebind(existsSQL),
		draft.Email, string(draft.ProductType), models.StatusSubmitted,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("duplicate check: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %s (%s)", ErrDuplicate, draft.Email, draft.ProductType)
	}

	now := s.now().UTC().Truncate(time.Second)
	ts := now.Format(time.RFC3339)
	app := &models.LeaseApplication{
		ID:          s.newID(),
		Draft:       draft,
		Status:      models.StatusSubmitted,
		SubmittedBy: submittedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := tx.ExecContext(ctx, s.client.Rebind(insertApplicationSQL),
		app.ID,
		draft.FullName,
		draft.Email,
		draft.Phone,
		draft.Country,
		string(draft.ProductType),
		draft.ProductModel,
		draft.LeaseDuration,
		draft.MonthlyBudget,
		nullString(draft.EmployerName),
		nullFloat(draft.AnnualIncome),
		string(data),
		app.Status,
		nullString(submittedBy),
		ts,
		ts,
	); err != nil {
		return nil, fmt.Errorf("insert application: %w", err)
	}

	details, err := json.Marshal(map[string]interface{}{
		"email":         draft.Email,
		"productType":   draft.ProductType,
		"leaseDuration": draft.LeaseDuration,
	})
	if err != nil {
		return nil, fmt.Errorf("encode audit details: %w", err)
	}

	if _, err := tx.ExecContext(ctx, s.client.Rebind(insertAuditSQL),
		s.newID(), EventApplicationCreated, ResourceApplication, app.ID, string(details), ts,
	); err != nil {
		return nil, fmt.Errorf("insert audit log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return app, nil
}

// Get loads an application by id.
func (s *Store) Get(ctx context.Context, id string) (*models.LeaseApplication, error) {
	var (
		data                 string
		submittedBy          sql.NullString
		createdAt, updatedAt string
		app                  = models.LeaseApplication{ID: id}
	)
	err := s.client.DB.QueryRowContext(ctx, s.client.Rebind(selectApplicationSQL), id).
		Scan(&data, &app.Status, &submittedBy, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("select application: %w", err)
	}

	if err := json.Unmarshal([]byte(data), &app.Draft); err != nil {
		return nil, fmt.Errorf("decode application: %w", err)
	}
	app.SubmittedBy = submittedBy.String
	if app.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if app.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &app, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
