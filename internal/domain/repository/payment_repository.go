package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"contesthub/internal/common"
	"contesthub/internal/domain/model"
)

type PaymentRepository interface {
	// ConfirmTransaction persists the payment and bumps the contest's
	// participation counter in one transaction. The insert is conditional on
	// the transaction id being unseen; a replay inserts nothing, increments
	// nothing, and returns created=false.
	ConfirmTransaction(ctx context.Context, payment *model.Payment) (created bool, err error)
	FindByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error)
	HasSucceededPayment(ctx context.Context, contestID, email string) (bool, error)
	ListByEmail(ctx context.Context, email string) ([]model.Payment, error)
}

type pgPaymentRepository struct {
	db *sql.DB
}

func NewPgPaymentRepository(db *sql.DB) PaymentRepository {
	return &pgPaymentRepository{db: db}
}

func (r *pgPaymentRepository) ConfirmTransaction(ctx context.Context, p *model.Payment) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("pgPaymentRepository.ConfirmTransaction begin: %w", err)
	}
	defer tx.Rollback()

	insert := `INSERT INTO payments (id, email, price, transaction_id, date, contest_id, contest_name, status)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	           ON CONFLICT (transaction_id) DO NOTHING`
	res, err := tx.ExecContext(ctx, insert,
		p.ID, p.Email, p.Price, p.TransactionID, p.Date, p.ContestID, p.ContestName, p.Status)
	if err != nil {
		return false, fmt.Errorf("pgPaymentRepository.ConfirmTransaction insert: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("pgPaymentRepository.ConfirmTransaction rows affected: %w", err)
	}
	if inserted == 0 {
		// Transaction already recorded; the counter was incremented then.
		return false, nil
	}

	increment := `UPDATE contests SET participation_count = participation_count + 1, updated_at = CURRENT_TIMESTAMP
	              WHERE id = $1`
	if _, err := tx.ExecContext(ctx, increment, p.ContestID); err != nil {
		return false, fmt.Errorf("pgPaymentRepository.ConfirmTransaction increment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("pgPaymentRepository.ConfirmTransaction commit: %w", err)
	}
	return true, nil
}

func (r *pgPaymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error) {
	query := `SELECT id, email, price, transaction_id, date, contest_id, contest_name, status
	          FROM payments WHERE transaction_id = $1`
	p := &model.Payment{}
	err := r.db.QueryRowContext(ctx, query, transactionID).Scan(
		&p.ID, &p.Email, &p.Price, &p.TransactionID, &p.Date, &p.ContestID, &p.ContestName, &p.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgPaymentRepository.FindByTransactionID: %w", err)
	}
	return p, nil
}

func (r *pgPaymentRepository) HasSucceededPayment(ctx context.Context, contestID, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM payments WHERE contest_id = $1 AND email = $2 AND status = $3)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, contestID, email, model.PaymentStatusSucceeded).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("pgPaymentRepository.HasSucceededPayment: %w", err)
	}
	return exists, nil
}

func (r *pgPaymentRepository) ListByEmail(ctx context.Context, email string) ([]model.Payment, error) {
	query := `SELECT id, email, price, transaction_id, date, contest_id, contest_name, status
	          FROM payments WHERE email = $1 ORDER BY date DESC`
	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("pgPaymentRepository.ListByEmail: %w", err)
	}
	defer rows.Close()

	payments := []model.Payment{}
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.Email, &p.Price, &p.TransactionID, &p.Date, &p.ContestID, &p.ContestName, &p.Status); err != nil {
			return nil, fmt.Errorf("pgPaymentRepository.ListByEmail scan: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
