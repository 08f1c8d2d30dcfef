package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"mobiliza/internal/volunteer/models"
	id "mobiliza/pkg/domain"
	"mobiliza/pkg/platform/sentinel"
)

// PostgresStore is the production Store backed by Postgres. Per-volunteer
// serialization uses SELECT ... FOR UPDATE inside a single transaction.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a Postgres-backed volunteer store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const volunteerColumns = `
	id, name, email, phone, discord, linkedin, github,
	status_id, volunteer_type_id, squad_id,
	is_apoiase_supporter, discord_invite_sent,
	edit_token, edit_token_expires_at, daily_edits_count, last_edit_date,
	created_at, updated_at`

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) Create(ctx context.Context, volunteer *models.Volunteer, first *models.StatusHistory) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO volunteers (` + volunteerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err = tx.ExecContext(ctx, query,
		volunteer.ID.String(), volunteer.Name, volunteer.Email,
		nullIfEmpty(volunteer.Phone), nullIfEmpty(volunteer.Discord),
		nullIfEmpty(volunteer.Linkedin), nullIfEmpty(volunteer.Github),
		volunteer.StatusID.String(), nullableTypeID(volunteer.VolunteerTypeID),
		nullableSquadID(volunteer.SquadID),
		volunteer.IsApoiaseSupporter, volunteer.DiscordInviteSent,
		volunteer.EditToken, volunteer.EditTokenExpiresAt,
		volunteer.DailyEditsCount, volunteer.LastEditDate,
		volunteer.CreatedAt, volunteer.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert volunteer: %w", err)
	}

	if err := replaceVerticals(ctx, tx, volunteer.ID, volunteer.VerticalIDs); err != nil {
		return err
	}
	if err := insertHistory(ctx, tx, first); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *PostgresStore) GetByID(ctx context.Context, volunteerID id.VolunteerID) (*models.Volunteer, error) {
	return s.getWhere(ctx, s.db, "id = $1", volunteerID.String())
}

func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (*models.Volunteer, error) {
	return s.getWhere(ctx, s.db, "lower(email) = lower($1)", email)
}

func (s *PostgresStore) GetByEditToken(ctx context.Context, token string) (*models.Volunteer, error) {
	return s.getWhere(ctx, s.db, "edit_token = $1", token)
}

func (s *PostgresStore) getWhere(ctx context.Context, q querier, where string, arg any) (*models.Volunteer, error) {
	query := `SELECT ` + volunteerColumns + ` FROM volunteers WHERE ` + where
	volunteer, err := scanVolunteer(q.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := loadVerticals(ctx, q, volunteer); err != nil {
		return nil, err
	}
	return volunteer, nil
}

func (s *PostgresStore) List(ctx context.Context, filter ListFilter) ([]*models.Volunteer, error) {
	query := `SELECT ` + volunteerColumns + ` FROM volunteers`
	var (
		conds []string
		args  []any
	)
	if filter.StatusID != nil {
		args = append(args, filter.StatusID.String())
		conds = append(conds, fmt.Sprintf("status_id = $%d", len(args)))
	}
	if filter.SquadID != nil {
		args = append(args, filter.SquadID.String())
		conds = append(conds, fmt.Sprintf("squad_id = $%d", len(args)))
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list volunteers: %w", err)
	}
	defer rows.Close()

	var out []*models.Volunteer
	for rows.Next() {
		volunteer, err := scanVolunteer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, volunteer)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, volunteer := range out {
		if err := loadVerticals(ctx, s.db, volunteer); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *PostgresStore) Transition(ctx context.Context, volunteerID id.VolunteerID, record *models.StatusHistory) (*models.Volunteer, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin transition: %w", err)
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRowContext(ctx,
		`SELECT status_id FROM volunteers WHERE id = $1 FOR UPDATE`,
		volunteerID.String()).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, false, fmt.Errorf("lock volunteer: %w", err)
	}

	if current == record.StatusID.String() {
		volunteer, err := s.getWhere(ctx, tx, "id = $1", volunteerID.String())
		if err != nil {
			return nil, false, err
		}
		return volunteer, false, tx.Commit()
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE volunteers SET status_id = $1, updated_at = $2 WHERE id = $3`,
		record.StatusID.String(), record.CreatedAt, volunteerID.String())
	if err != nil {
		return nil, false, fmt.Errorf("update status: %w", err)
	}
	if err := insertHistory(ctx, tx, record); err != nil {
		return nil, false, err
	}

	volunteer, err := s.getWhere(ctx, tx, "id = $1", volunteerID.String())
	if err != nil {
		return nil, false, err
	}
	return volunteer, true, tx.Commit()
}

func (s *PostgresStore) Execute(ctx context.Context, volunteerID id.VolunteerID, apply func(*models.Volunteer) error) (*models.Volunteer, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin execute: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + volunteerColumns + ` FROM volunteers WHERE id = $1 FOR UPDATE`
	volunteer, err := scanVolunteer(tx.QueryRowContext(ctx, query, volunteerID.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := loadVerticals(ctx, tx, volunteer); err != nil {
		return nil, err
	}

	if err := apply(volunteer); err != nil {
		return nil, err
	}

	update := `
		UPDATE volunteers SET
			name = $1, email = $2, phone = $3, discord = $4, linkedin = $5, github = $6,
			volunteer_type_id = $7, squad_id = $8,
			edit_token = $9, edit_token_expires_at = $10,
			daily_edits_count = $11, last_edit_date = $12,
			updated_at = $13
		WHERE id = $14
	`
	_, err = tx.ExecContext(ctx, update,
		volunteer.Name, volunteer.Email,
		nullIfEmpty(volunteer.Phone), nullIfEmpty(volunteer.Discord),
		nullIfEmpty(volunteer.Linkedin), nullIfEmpty(volunteer.Github),
		nullableTypeID(volunteer.VolunteerTypeID), nullableSquadID(volunteer.SquadID),
		volunteer.EditToken, volunteer.EditTokenExpiresAt,
		volunteer.DailyEditsCount, volunteer.LastEditDate,
		volunteer.UpdatedAt, volunteer.ID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("update volunteer: %w", err)
	}
	if err := replaceVerticals(ctx, tx, volunteer.ID, volunteer.VerticalIDs); err != nil {
		return nil, err
	}
	return volunteer, tx.Commit()
}

func (s *PostgresStore) SetEditToken(ctx context.Context, volunteerID id.VolunteerID, token string, expiresAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE volunteers SET edit_token = $1, edit_token_expires_at = $2 WHERE id = $3`,
		token, expiresAt, volunteerID.String())
	if err != nil {
		return fmt.Errorf("set edit token: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set edit token: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) MarkInviteSent(ctx context.Context, volunteerID id.VolunteerID) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE volunteers SET discord_invite_sent = TRUE WHERE id = $1 AND NOT discord_invite_sent`,
		volunteerID.String())
	if err != nil {
		return false, fmt.Errorf("mark invite sent: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark invite sent: %w", err)
	}
	return affected == 1, nil
}

func (s *PostgresStore) ListHistory(ctx context.Context, volunteerID id.VolunteerID) ([]*models.StatusHistory, error) {
	query := `
		SELECT id, volunteer_id, status_id, created_at
		FROM status_history
		WHERE volunteer_id = $1
		ORDER BY created_at, id
	`
	rows, err := s.db.QueryContext(ctx, query, volunteerID.String())
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var out []*models.StatusHistory
	for rows.Next() {
		var (
			record                         models.StatusHistory
			rawID, rawVolunteer, rawStatus string
		)
		if err := rows.Scan(&rawID, &rawVolunteer, &rawStatus, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		historyID, err := id.ParseHistoryID(rawID)
		if err != nil {
			return nil, err
		}
		vID, err := id.ParseVolunteerID(rawVolunteer)
		if err != nil {
			return nil, err
		}
		statusID, err := id.ParseStatusID(rawStatus)
		if err != nil {
			return nil, err
		}
		record.ID, record.VolunteerID, record.StatusID = historyID, vID, statusID
		out = append(out, &record)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CountTotal(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM volunteers`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count volunteers: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM volunteers WHERE created_at >= $1`, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count volunteers since: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) CountByStatus(ctx context.Context) (map[id.StatusID]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status_id, COUNT(*) FROM volunteers GROUP BY status_id`)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	out := make(map[id.StatusID]int)
	for rows.Next() {
		var (
			raw   string
			count int
		)
		if err := rows.Scan(&raw, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		statusID, err := id.ParseStatusID(raw)
		if err != nil {
			return nil, err
		}
		out[statusID] = count
	}
	return out, rows.Err()
}

func (s *PostgresStore) CountBySquad(ctx context.Context) (map[id.SquadID]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT squad_id, COUNT(*) FROM volunteers WHERE squad_id IS NOT NULL GROUP BY squad_id`)
	if err != nil {
		return nil, fmt.Errorf("count by squad: %w", err)
	}
	defer rows.Close()

	out := make(map[id.SquadID]int)
	for rows.Next() {
		var (
			raw   string
			count int
		)
		if err := rows.Scan(&raw, &count); err != nil {
			return nil, fmt.Errorf("scan squad count: %w", err)
		}
		squadID, err := id.ParseSquadID(raw)
		if err != nil {
			return nil, err
		}
		out[squadID] = count
	}
	return out, rows.Err()
}

func (s *PostgresStore) CountByVolunteerType(ctx context.Context) (map[id.VolunteerTypeID]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT volunteer_type_id, COUNT(*) FROM volunteers WHERE volunteer_type_id IS NOT NULL GROUP BY volunteer_type_id`)
	if err != nil {
		return nil, fmt.Errorf("count by type: %w", err)
	}
	defer rows.Close()

	out := make(map[id.VolunteerTypeID]int)
	for rows.Next() {
		var (
			raw   string
			count int
		)
		if err := rows.Scan(&raw, &count); err != nil {
			return nil, fmt.Errorf("scan type count: %w", err)
		}
		typeID, err := id.ParseVolunteerTypeID(raw)
		if err != nil {
			return nil, err
		}
		out[typeID] = count
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVolunteer(row rowScanner) (*models.Volunteer, error) {
	var (
		v                                  models.Volunteer
		rawID, rawStatus                   string
		phone, discord, linkedin, github   sql.NullString
		rawTypeID, rawSquadID              sql.NullString
		editToken                          sql.NullString
		editTokenExpiresAt, lastEditDate   sql.NullTime
	)
	err := row.Scan(
		&rawID, &v.Name, &v.Email, &phone, &discord, &linkedin, &github,
		&rawStatus, &rawTypeID, &rawSquadID,
		&v.IsApoiaseSupporter, &v.DiscordInviteSent,
		&editToken, &editTokenExpiresAt, &v.DailyEditsCount, &lastEditDate,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan volunteer: %w", err)
	}

	volunteerID, err := id.ParseVolunteerID(rawID)
	if err != nil {
		return nil, err
	}
	statusID, err := id.ParseStatusID(rawStatus)
	if err != nil {
		return nil, err
	}
	v.ID, v.StatusID = volunteerID, statusID
	v.Phone, v.Discord, v.Linkedin, v.Github = phone.String, discord.String, linkedin.String, github.String

	if rawTypeID.Valid {
		typeID, err := id.ParseVolunteerTypeID(rawTypeID.String)
		if err != nil {
			return nil, err
		}
		v.VolunteerTypeID = &typeID
	}
	if rawSquadID.Valid {
		squadID, err := id.ParseSquadID(rawSquadID.String)
		if err != nil {
			return nil, err
		}
		v.SquadID = &squadID
	}
	if editToken.Valid {
		v.EditToken = &editToken.String
	}
	if editTokenExpiresAt.Valid {
		v.EditTokenExpiresAt = &editTokenExpiresAt.Time
	}
	if lastEditDate.Valid {
		v.LastEditDate = &lastEditDate.Time
	}
	return &v, nil
}

func loadVerticals(ctx context.Context, q querier, volunteer *models.Volunteer) error {
	rows, err := q.QueryContext(ctx,
		`SELECT vertical_id FROM volunteer_verticals WHERE volunteer_id = $1`,
		volunteer.ID.String())
	if err != nil {
		return fmt.Errorf("load verticals: %w", err)
	}
	defer rows.Close()

	volunteer.VerticalIDs = nil
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return fmt.Errorf("scan vertical id: %w", err)
		}
		verticalID, err := id.ParseVerticalID(raw)
		if err != nil {
			return err
		}
		volunteer.VerticalIDs = append(volunteer.VerticalIDs, verticalID)
	}
	return rows.Err()
}

func replaceVerticals(ctx context.Context, q querier, volunteerID id.VolunteerID, verticalIDs []id.VerticalID) error {
	if _, err := q.ExecContext(ctx,
		`DELETE FROM volunteer_verticals WHERE volunteer_id = $1`,
		volunteerID.String()); err != nil {
		return fmt.Errorf("clear verticals: %w", err)
	}
	for _, verticalID := range verticalIDs {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO volunteer_verticals (volunteer_id, vertical_id) VALUES ($1, $2)`,
			volunteerID.String(), verticalID.String()); err != nil {
			return fmt.Errorf("insert vertical: %w", err)
		}
	}
	return nil
}

func insertHistory(ctx context.Context, q querier, record *models.StatusHistory) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO status_history (id, volunteer_id, status_id, created_at) VALUES ($1, $2, $3, $4)`,
		record.ID.String(), record.VolunteerID.String(), record.StatusID.String(), record.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableTypeID(typeID *id.VolunteerTypeID) any {
	if typeID == nil {
		return nil
	}
	return typeID.String()
}

func nullableSquadID(squadID *id.SquadID) any {
	if squadID == nil {
		return nil
	}
	return squadID.String()
}
