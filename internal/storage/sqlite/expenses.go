package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/splitledger/internal/models"
)

const dateLayout = "2006-01-02"

// AppendExpense stores an admitted expense with its split rows.
func (s *SQLiteStore) AppendExpense(ctx context.Context, groupID string, e models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := groupExists(ctx, tx, groupID); err != nil {
		return err
	}
	seq, err := nextSeq(ctx, tx, "expenses", groupID)
	if err != nil {
		return err
	}

	var spentOn any
	if !e.SpentOn.IsZero() {
		spentOn = e.SpentOn.Format(dateLayout)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, seq, amount_cents, payer, split_type, category, description, spent_on, recorded_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, groupID, seq, int64(e.Amount), string(e.Payer), string(e.SplitType),
		e.Category, e.Description, spentOn, e.RecordedBy, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	switch e.SplitType {
	case models.SplitEqual:
		for i, m := range e.Participants {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO expense_splits (expense_id, member, position, share_cents) VALUES (?, ?, ?, NULL)",
				e.ID, string(m), i,
			); err != nil {
				return fmt.Errorf("failed to insert participant: %w", err)
			}
		}
	case models.SplitCustom:
		i := 0
		for m, share := range e.Shares {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO expense_splits (expense_id, member, position, share_cents) VALUES (?, ?, ?, ?)",
				e.ID, string(m), i, int64(share),
			); err != nil {
				return fmt.Errorf("failed to insert share: %w", err)
			}
			i++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func listExpenses(ctx context.Context, q querier, groupID string) ([]models.Expense, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, amount_cents, payer, split_type, category, description, spent_on, recorded_by, created_at
		 FROM expenses WHERE group_id = ? ORDER BY seq`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	var expenses []models.Expense
	for rows.Next() {
		var (
			e                models.Expense
			amount           int64
			payer, splitType string
			spentOn          sql.NullString
		)
		if err := rows.Scan(&e.ID, &amount, &payer, &splitType, &e.Category, &e.Description,
			&spentOn, &e.RecordedBy, &e.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Amount = models.Money(amount)
		e.Payer = models.Member(payer)
		e.SplitType = models.SplitType(splitType)
		if spentOn.Valid {
			if e.SpentOn, err = time.Parse(dateLayout, spentOn.String); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to parse spent_on of expense %s: %w", e.ID, err)
			}
		}
		expenses = append(expenses, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for i := range expenses {
		if err := loadSplit(ctx, q, &expenses[i]); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

func loadSplit(ctx context.Context, q querier, e *models.Expense) error {
	rows, err := q.QueryContext(ctx,
		"SELECT member, share_cents FROM expense_splits WHERE expense_id = ? ORDER BY position",
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			member string
			share  sql.NullInt64
		)
		if err := rows.Scan(&member, &share); err != nil {
			return fmt.Errorf("failed to scan split: %w", err)
		}
		switch e.SplitType {
		case models.SplitEqual:
			e.Participants = append(e.Participants, models.Member(member))
		case models.SplitCustom:
			if e.Shares == nil {
				e.Shares = make(map[models.Member]models.Money)
			}
			e.Shares[models.Member(member)] = models.Money(share.Int64)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate splits: %w", err)
	}
	return nil
}
