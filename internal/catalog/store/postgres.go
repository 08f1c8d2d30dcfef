package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"mobiliza/internal/catalog/models"
	id "mobiliza/pkg/domain"
	"mobiliza/pkg/platform/sentinel"
)

// PostgresStore is the production Store backed by Postgres.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a Postgres-backed catalog store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func mapInsertErr(err error, what string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return sentinel.ErrConflict
	}
	return fmt.Errorf("insert %s: %w", what, err)
}

func (s *PostgresStore) CreateProject(ctx context.Context, project *models.Project) error {
	query := `INSERT INTO projects (id, name, created_at) VALUES ($1, $2, $3)`
	if _, err := s.db.ExecContext(ctx, query, project.ID.String(), project.Name, project.CreatedAt); err != nil {
		return mapInsertErr(err, "project")
	}
	return nil
}

func (s *PostgresStore) GetProject(ctx context.Context, projectID id.ProjectID) (*models.Project, error) {
	query := `SELECT id, name, created_at FROM projects WHERE id = $1`
	var (
		project models.Project
		rawID   string
	)
	err := s.db.QueryRowContext(ctx, query, projectID.String()).Scan(&rawID, &project.Name, &project.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan project: %w", err)
	}
	parsed, err := id.ParseProjectID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse project id: %w", err)
	}
	project.ID = parsed
	return &project, nil
}

func (s *PostgresStore) ListProjects(ctx context.Context) ([]*models.Project, error) {
	query := `SELECT id, name, created_at FROM projects ORDER BY name`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []*models.Project
	for rows.Next() {
		var (
			project models.Project
			rawID   string
		)
		if err := rows.Scan(&rawID, &project.Name, &project.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		parsed, err := id.ParseProjectID(rawID)
		if err != nil {
			return nil, fmt.Errorf("parse project id: %w", err)
		}
		project.ID = parsed
		out = append(out, &project)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateSquad(ctx context.Context, squad *models.Squad) error {
	query := `INSERT INTO squads (id, name, project_id, created_at) VALUES ($1, $2, $3, $4)`
	var projectID any
	if squad.ProjectID != nil {
		projectID = squad.ProjectID.String()
	}
	if _, err := s.db.ExecContext(ctx, query, squad.ID.String(), squad.Name, projectID, squad.CreatedAt); err != nil {
		return mapInsertErr(err, "squad")
	}
	return nil
}

func (s *PostgresStore) GetSquad(ctx context.Context, squadID id.SquadID) (*models.Squad, error) {
	query := `SELECT id, name, project_id, created_at FROM squads WHERE id = $1`
	squad, err := scanSquad(s.db.QueryRowContext(ctx, query, squadID.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	return squad, err
}

func (s *PostgresStore) ListSquads(ctx context.Context) ([]*models.Squad, error) {
	query := `SELECT id, name, project_id, created_at FROM squads ORDER BY name`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list squads: %w", err)
	}
	defer rows.Close()

	var out []*models.Squad
	for rows.Next() {
		squad, err := scanSquad(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, squad)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSquad(row rowScanner) (*models.Squad, error) {
	var (
		squad        models.Squad
		rawID        string
		rawProjectID sql.NullString
	)
	if err := row.Scan(&rawID, &squad.Name, &rawProjectID, &squad.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan squad: %w", err)
	}
	parsed, err := id.ParseSquadID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse squad id: %w", err)
	}
	squad.ID = parsed
	if rawProjectID.Valid {
		projectID, err := id.ParseProjectID(rawProjectID.String)
		if err != nil {
			return nil, fmt.Errorf("parse squad project id: %w", err)
		}
		squad.ProjectID = &projectID
	}
	return &squad, nil
}

func (s *PostgresStore) CreateVolunteerType(ctx context.Context, vtype *models.VolunteerType) error {
	query := `INSERT INTO volunteer_types (id, name, created_at) VALUES ($1, $2, $3)`
	if _, err := s.db.ExecContext(ctx, query, vtype.ID.String(), vtype.Name, vtype.CreatedAt); err != nil {
		return mapInsertErr(err, "volunteer type")
	}
	return nil
}

func (s *PostgresStore) GetVolunteerType(ctx context.Context, typeID id.VolunteerTypeID) (*models.VolunteerType, error) {
	query := `SELECT id, name, created_at FROM volunteer_types WHERE id = $1`
	var (
		vtype models.VolunteerType
		rawID string
	)
	err := s.db.QueryRowContext(ctx, query, typeID.String()).Scan(&rawID, &vtype.Name, &vtype.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan volunteer type: %w", err)
	}
	parsed, err := id.ParseVolunteerTypeID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse volunteer type id: %w", err)
	}
	vtype.ID = parsed
	return &vtype, nil
}

func (s *PostgresStore) ListVolunteerTypes(ctx context.Context) ([]*models.VolunteerType, error) {
	query := `SELECT id, name, created_at FROM volunteer_types ORDER BY name`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list volunteer types: %w", err)
	}
	defer rows.Close()

	var out []*models.VolunteerType
	for rows.Next() {
		var (
			vtype models.VolunteerType
			rawID string
		)
		if err := rows.Scan(&rawID, &vtype.Name, &vtype.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan volunteer type: %w", err)
		}
		parsed, err := id.ParseVolunteerTypeID(rawID)
		if err != nil {
			return nil, fmt.Errorf("parse volunteer type id: %w", err)
		}
		vtype.ID = parsed
		out = append(out, &vtype)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateVertical(ctx context.Context, vertical *models.Vertical) error {
	query := `INSERT INTO verticals (id, name, created_at) VALUES ($1, $2, $3)`
	if _, err := s.db.ExecContext(ctx, query, vertical.ID.String(), vertical.Name, vertical.CreatedAt); err != nil {
		return mapInsertErr(err, "vertical")
	}
	return nil
}

func (s *PostgresStore) GetVertical(ctx context.Context, verticalID id.VerticalID) (*models.Vertical, error) {
	query := `SELECT id, name, created_at FROM verticals WHERE id = $1`
	var (
		vertical models.Vertical
		rawID    string
	)
	err := s.db.QueryRowContext(ctx, query, verticalID.String()).Scan(&rawID, &vertical.Name, &vertical.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan vertical: %w", err)
	}
	parsed, err := id.ParseVerticalID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse vertical id: %w", err)
	}
	vertical.ID = parsed
	return &vertical, nil
}

func (s *PostgresStore) ListVerticals(ctx context.Context) ([]*models.Vertical, error) {
	query := `SELECT id, name, created_at FROM verticals ORDER BY name`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list verticals: %w", err)
	}
	defer rows.Close()

	var out []*models.Vertical
	for rows.Next() {
		var (
			vertical models.Vertical
			rawID    string
		)
		if err := rows.Scan(&rawID, &vertical.Name, &vertical.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vertical: %w", err)
		}
		parsed, err := id.ParseVerticalID(rawID)
		if err != nil {
			return nil, fmt.Errorf("parse vertical id: %w", err)
		}
		vertical.ID = parsed
		out = append(out, &vertical)
	}
	return out, rows.Err()
}
