package store

import (
	"context"
	"database/sql"
	"fmt"

	"mobiliza/internal/feedback/models"
	id "mobiliza/pkg/domain"
)

// PostgresStore is the production Store backed by Postgres.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a Postgres-backed feedback store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, feedback *models.Feedback) error {
	query := `
		INSERT INTO feedbacks (id, volunteer_id, author_user_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	var authorID sql.NullString
	if feedback.AuthorUserID != nil {
		authorID = sql.NullString{String: feedback.AuthorUserID.String(), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, query,
		feedback.ID.String(), feedback.VolunteerID.String(), authorID,
		feedback.Content, feedback.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListForVolunteer(ctx context.Context, volunteerID id.VolunteerID) ([]*models.Feedback, error) {
	query := `
		SELECT id, volunteer_id, author_user_id, content, created_at
		FROM feedbacks
		WHERE volunteer_id = $1
		ORDER BY created_at, id
	`
	rows, err := s.db.QueryContext(ctx, query, volunteerID.String())
	if err != nil {
		return nil, fmt.Errorf("list feedbacks: %w", err)
	}
	defer rows.Close()

	var out []*models.Feedback
	for rows.Next() {
		var (
			feedback  models.Feedback
			rawID     string
			rawVolID  string
			rawAuthor sql.NullString
		)
		if err := rows.Scan(&rawID, &rawVolID, &rawAuthor, &feedback.Content, &feedback.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		feedbackID, err := id.ParseFeedbackID(rawID)
		if err != nil {
			return nil, fmt.Errorf("parse feedback id: %w", err)
		}
		feedback.ID = feedbackID
		volID, err := id.ParseVolunteerID(rawVolID)
		if err != nil {
			return nil, fmt.Errorf("parse volunteer id: %w", err)
		}
		feedback.VolunteerID = volID
		if rawAuthor.Valid {
			authorID, err := id.ParseUserID(rawAuthor.String)
			if err != nil {
				return nil, fmt.Errorf("parse author id: %w", err)
			}
			feedback.AuthorUserID = &authorID
		}
		out = append(out, &feedback)
	}
	return out, rows.Err()
}
