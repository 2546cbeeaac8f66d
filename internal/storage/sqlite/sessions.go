package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tabscan/tabscan/internal/models"
	"github.com/tabscan/tabscan/internal/storage"
)

// CreateSession persists a session with its roster, items, and assignments
// in one transaction.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt == 0 {
		session.CreatedAt = time.Now().Unix()
	}
	if session.Title == "" {
		session.Title = generateTitle(session.Participants)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO sessions (id, title, payer_id, entered_total_cents, created_by, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		session.ID, session.Title, session.PayerID, int64(session.EnteredTotal), session.CreatedBy, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	for pos, name := range session.Participants {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO session_participants (session_id, position, name) VALUES (?, ?, ?)",
			session.ID, pos, name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for pos := range session.Items {
		item := &session.Items[pos]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO items (id, session_id, position, name, quantity, amount_cents) VALUES (?, ?, ?, ?, ?, ?)",
			item.ID, session.ID, pos, item.Name, item.Quantity, int64(item.Amount),
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}

		for apos, assignee := range item.AssignedTo.Wire() {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO item_assignments (item_id, participant, position) VALUES (?, ?, ?)",
				item.ID, assignee, apos,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item assignment: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID, including roster and items in their
// original order.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session := &models.Session{}
	var totalCents int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, payer_id, entered_total_cents, created_by, created_at FROM sessions WHERE id = ?",
		sessionID,
	).Scan(&session.ID, &session.Title, &session.PayerID, &totalCents, &session.CreatedBy, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %s: %w", sessionID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	session.EnteredTotal = models.Cents(totalCents)

	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM session_participants WHERE session_id = ? ORDER BY position",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		session.Participants = append(session.Participants, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	itemRows, err := s.db.QueryContext(ctx,
		"SELECT id, name, quantity, amount_cents FROM items WHERE session_id = ? ORDER BY position",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item models.LineItem
		var amountCents int64
		if err := itemRows.Scan(&item.ID, &item.Name, &item.Quantity, &amountCents); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.Amount = models.Cents(amountCents)

		assignRows, err := s.db.QueryContext(ctx,
			"SELECT participant FROM item_assignments WHERE item_id = ? ORDER BY position",
			item.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to get item assignments: %w", err)
		}

		var assignees []string
		for assignRows.Next() {
			var assignee string
			if err := assignRows.Scan(&assignee); err != nil {
				assignRows.Close()
				return nil, fmt.Errorf("failed to scan assignment: %w", err)
			}
			assignees = append(assignees, assignee)
		}
		assignRows.Close()
		if err := assignRows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate assignments: %w", err)
		}
		item.AssignedTo = models.ParseAssignment(assignees)

		session.Items = append(session.Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return session, nil
}

// DeleteSession removes a session; participants, items, assignments, and
// settlements cascade.
func (s *SQLiteStore) DeleteSession(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %s: %w", sessionID, storage.ErrNotFound)
	}
	return nil
}
