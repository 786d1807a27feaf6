// Package persistence provides database adapters implementing outbound
// ports.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"relay_server/core/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SessionAdapter implements out.SessionRepository using PostgreSQL.
type SessionAdapter struct {
	db *sqlx.DB
}

// NewSessionAdapter creates a new SessionAdapter.
func NewSessionAdapter(db *sqlx.DB) *SessionAdapter {
	return &SessionAdapter{db: db}
}

// Create inserts a new session row.
func (a *SessionAdapter) Create(ctx context.Context, session *domain.ChatSession) error {
	query := `
		INSERT INTO chat_sessions (
			id, filename, contact_name, contact_phone,
			message_count, sent_count, received_count,
			start_date, end_date, duration_days, uploaded_at
		) VALUES (
			:id, :filename, :contact_name, :contact_phone,
			:message_count, :sent_count, :received_count,
			:start_date, :end_date, :duration_days, :uploaded_at
		)`

	if _, err := a.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("insert chat session: %w", err)
	}
	return nil
}

// Get returns one session, or nil when it does not exist.
func (a *SessionAdapter) Get(ctx context.Context, id uuid.UUID) (*domain.ChatSession, error) {
	query := `SELECT * FROM chat_sessions WHERE id = $1`

	var session domain.ChatSession
	if err := a.db.GetContext(ctx, &session, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get chat session: %w", err)
	}
	return &session, nil
}

// List returns sessions ordered by upload time, newest first.
func (a *SessionAdapter) List(ctx context.Context, limit, offset int) ([]*domain.ChatSession, error) {
	query := `
		SELECT * FROM chat_sessions
		ORDER BY uploaded_at DESC
		LIMIT $1 OFFSET $2`

	sessions := []*domain.ChatSession{}
	if err := a.db.SelectContext(ctx, &sessions, query, limit, offset); err != nil {
		return nil, fmt.Errorf("list chat sessions: %w", err)
	}
	return sessions, nil
}

// Delete removes a session row.
func (a *SessionAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := a.db.ExecContext(ctx, `DELETE FROM chat_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete chat session: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrNotFound
	}
	return nil
}
