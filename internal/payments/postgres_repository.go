package payments

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository persists the payment journal in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed journal repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Save upserts the journal row keyed by the platform payment identifier.
func (r *PostgresRepository) Save(ctx context.Context, record Record) error {
	_, err := r.db.Exec(ctx, `INSERT INTO payment_records (payment_id, user_uid, amount, memo, direction, status, txid, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (payment_id) DO UPDATE SET status = EXCLUDED.status, txid = EXCLUDED.txid, updated_at = EXCLUDED.updated_at`,
		record.PaymentID, record.UserUID, record.Amount, record.Memo, record.Direction, record.Status, record.TxID, time.Now().UTC())
	return err
}

// Find fetches a journal row by payment identifier.
func (r *PostgresRepository) Find(ctx context.Context, paymentID string) (Record, error) {
	row := r.db.QueryRow(ctx, `SELECT payment_id, user_uid, amount, memo, direction, status, txid, updated_at
        FROM payment_records WHERE payment_id = $1`, paymentID)
	var record Record
	if err := row.Scan(&record.PaymentID, &record.UserUID, &record.Amount, &record.Memo, &record.Direction, &record.Status, &record.TxID, &record.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrRecordNotFound
		}
		return Record{}, err
	}
	record.UpdatedAt = record.UpdatedAt.UTC()
	return record, nil
}

// ListByStatus returns journal rows in the given status.
func (r *PostgresRepository) ListByStatus(ctx context.Context, status string) ([]Record, error) {
	rows, err := r.db.Query(ctx, `SELECT payment_id, user_uid, amount, memo, direction, status, txid, updated_at
        FROM payment_records WHERE status = $1 ORDER BY updated_at`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var record Record
		if err := rows.Scan(&record.PaymentID, &record.UserUID, &record.Amount, &record.Memo, &record.Direction, &record.Status, &record.TxID, &record.UpdatedAt); err != nil {
			return nil, err
		}
		record.UpdatedAt = record.UpdatedAt.UTC()
		out = append(out, record)
	}
	return out, rows.Err()
}
