package db

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Payment struct {
	ID             int64           `json:"id"`
	ConversationID string          `json:"conversation_id"`
	UserID         int64           `json:"user_id"`
	Recipient      string          `json:"recipient"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}

// RecordPayment appends one outcome of the simulated payment flow.
func (db *DB) RecordPayment(ctx context.Context, conversationID string, userID int64, recipient string, amount decimal.Decimal, status string) error {
	_, err := db.pool.Exec(ctx,
		"INSERT INTO payments (conversation_id, user_id, recipient, amount, status) VALUES ($1, $2, $3, $4::numeric, $5)",
		conversationID, userID, recipient, amount.String(), status,
	)
	return err
}

// ListPayments returns the user's most recent payments, newest first.
func (db *DB) ListPayments(ctx context.Context, userID int64, limit int) ([]Payment, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, conversation_id, user_id, recipient, amount::text, status, created_at
		FROM payments WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		var p Payment
		var amount string
		if err := rows.Scan(&p.ID, &p.ConversationID, &p.UserID, &p.Recipient, &amount, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		if p.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("invalid amount %q for payment %d: %w", amount, p.ID, err)
		}
		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return payments, nil
}
