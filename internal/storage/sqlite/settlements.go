package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tabscan/tabscan/internal/models"
)

// ReplaceSettlements swaps a session's stored settlements for the freshly
// computed set in one transaction, so readers never observe a partial mix of
// old and new records.
func (s *SQLiteStore) ReplaceSettlements(ctx context.Context, sessionID string, settlements []*models.Settlement) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM settlements WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to clear settlements: %w", err)
	}

	now := time.Now().Unix()
	for _, settlement := range settlements {
		if settlement.ID == "" {
			settlement.ID = uuid.New().String()
		}
		if settlement.CreatedAt == 0 {
			settlement.CreatedAt = now
		}
		settlement.SessionID = sessionID

		_, err := tx.ExecContext(ctx,
			`INSERT INTO settlements (id, session_id, from_id, to_id, amount_cents, explanation, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			settlement.ID, settlement.SessionID, settlement.FromID, settlement.ToID,
			int64(settlement.Amount), settlement.Explanation, settlement.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert settlement: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListSettlementsBySession retrieves a session's settlements, largest amount
// first with debtor name as tie-break, matching the engine's output order.
func (s *SQLiteStore) ListSettlementsBySession(ctx context.Context, sessionID string) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, from_id, to_id, amount_cents, explanation, created_at
		 FROM settlements WHERE session_id = ? ORDER BY amount_cents DESC, from_id ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement := &models.Settlement{}
		var amountCents int64
		if err := rows.Scan(&settlement.ID, &settlement.SessionID, &settlement.FromID, &settlement.ToID,
			&amountCents, &settlement.Explanation, &settlement.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlement.Amount = models.Cents(amountCents)
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return settlements, nil
}
