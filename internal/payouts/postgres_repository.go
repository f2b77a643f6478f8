package payouts

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository persists the payout journal in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed payout journal.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Save upserts the journal row keyed by the platform payment identifier.
func (r *PostgresRepository) Save(ctx context.Context, record Record) error {
	_, err := r.db.Exec(ctx, `INSERT INTO payout_records (payment_id, user_uid, amount, memo, status, txid, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (payment_id) DO UPDATE SET status = EXCLUDED.status, txid = EXCLUDED.txid, updated_at = EXCLUDED.updated_at`,
		record.PaymentID, record.UserUID, record.Amount, record.Memo, record.Status, record.TxID, time.Now().UTC())
	return err
}

// Find fetches a journal row by payment identifier.
func (r *PostgresRepository) Find(ctx context.Context, paymentID string) (Record, error) {
	row := r.db.QueryRow(ctx, `SELECT payment_id, user_uid, amount, memo, status, txid, updated_at
        FROM payout_records WHERE payment_id = $1`, paymentID)
	var record Record
	if err := row.Scan(&record.PaymentID, &record.UserUID, &record.Amount, &record.Memo, &record.Status, &record.TxID, &record.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrRecordNotFound
		}
		return Record{}, err
	}
	record.UpdatedAt = record.UpdatedAt.UTC()
	return record, nil
}
