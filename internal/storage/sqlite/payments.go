package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
)

// AppendPayment stores a recorded payment after the group's existing ones.
func (s *SQLiteStore) AppendPayment(ctx context.Context, groupID string, p models.Payment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := groupExists(ctx, tx, groupID); err != nil {
		return err
	}
	seq, err := nextSeq(ctx, tx, "payments", groupID)
	if err != nil {
		return err
	}

	var note any
	if p.Note != "" {
		note = p.Note
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO payments (id, group_id, seq, from_member, to_member, amount_cents, note, recorded_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, groupID, seq, string(p.From), string(p.To), int64(p.Amount), note, p.RecordedBy, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func listPayments(ctx context.Context, q querier, groupID string) ([]models.Payment, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, from_member, to_member, amount_cents, note, recorded_by, created_at
		 FROM payments WHERE group_id = ? ORDER BY seq`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var (
			p        models.Payment
			from, to string
			amount   int64
			note     sql.NullString
		)
		if err := rows.Scan(&p.ID, &from, &to, &amount, &note, &p.RecordedBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		p.From = models.Member(from)
		p.To = models.Member(to)
		p.Amount = models.Money(amount)
		if note.Valid {
			p.Note = note.String
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}
