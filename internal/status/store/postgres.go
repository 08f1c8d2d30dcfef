package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"mobiliza/internal/status/models"
	id "mobiliza/pkg/domain"
	"mobiliza/pkg/platform/sentinel"
)

// PostgresStore is the production Store backed by Postgres.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a Postgres-backed status store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, status *models.Status) error {
	query := `
		INSERT INTO statuses (id, name, description, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query,
		status.ID.String(), status.Name, status.Description, status.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert status: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, statusID id.StatusID) (*models.Status, error) {
	query := `
		SELECT id, name, description, created_at
		FROM statuses
		WHERE id = $1
	`
	return s.scanOne(s.db.QueryRowContext(ctx, query, statusID.String()))
}

func (s *PostgresStore) GetByName(ctx context.Context, name string) (*models.Status, error) {
	query := `
		SELECT id, name, description, created_at
		FROM statuses
		WHERE name = $1
	`
	return s.scanOne(s.db.QueryRowContext(ctx, query, name))
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Status, error) {
	query := `
		SELECT id, name, description, created_at
		FROM statuses
		ORDER BY name
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	defer rows.Close()

	var out []*models.Status
	for rows.Next() {
		var (
			status models.Status
			rawID  string
		)
		if err := rows.Scan(&rawID, &status.Name, &status.Description, &status.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan status: %w", err)
		}
		statusID, err := id.ParseStatusID(rawID)
		if err != nil {
			return nil, fmt.Errorf("parse status id: %w", err)
		}
		status.ID = statusID
		out = append(out, &status)
	}
	return out, rows.Err()
}

func (s *PostgresStore) scanOne(row *sql.Row) (*models.Status, error) {
	var (
		status models.Status
		rawID  string
	)
	err := row.Scan(&rawID, &status.Name, &status.Description, &status.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan status: %w", err)
	}
	statusID, err := id.ParseStatusID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse status id: %w", err)
	}
	status.ID = statusID
	return &status, nil
}
