package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements AccountStore on a pgx connection pool.
// The patch applies as a single UPDATE statement, which gives the
// atomic all-or-nothing semantics reconciliation requires without an
// explicit transaction.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed account store.
// Panics if pool is nil to fail fast during initialization.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("reconcile: pgx pool is required")
	}
	return &PostgresStore{pool: pool}
}

// CreateFree provisions a new account on the free tier. Idempotent:
// an existing record is left untouched.
func (ps *PostgresStore) CreateFree(ctx context.Context, accountID string) error {
	_, err := ps.pool.Exec(ctx, `
		INSERT INTO account_billing (account_id, plan, status)
		VALUES ($1, 'free', 'canceled')
		ON CONFLICT (account_id) DO NOTHING`,
		accountID,
	)
	if err != nil {
		return fmt.Errorf("failed to create billing record for account %s: %w", accountID, err)
	}
	return nil
}

func (ps *PostgresStore) Get(ctx context.Context, accountID string) (*Record, error) {
	var rec Record
	err := ps.pool.QueryRow(ctx, `
		SELECT account_id, plan, status,
		       COALESCE(customer_id, ''),
		       COALESCE(subscription_id, ''),
		       COALESCE(price_id, ''),
		       period_end, updated_at
		FROM account_billing
		WHERE account_id = $1`,
		accountID,
	).Scan(
		&rec.AccountID, &rec.Plan, &rec.Status,
		&rec.CustomerID, &rec.SubscriptionID, &rec.PriceID,
		&rec.PeriodEnd, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to load billing record for account %s: %w", accountID, err)
	}
	return &rec, nil
}

func (ps *PostgresStore) Update(ctx context.Context, accountID string, patch Patch) error {
	tag, err := ps.pool.Exec(ctx, `
		UPDATE account_billing
		SET plan = $2,
		    status = $3,
		    subscription_id = NULLIF($4, ''),
		    price_id = NULLIF($5, ''),
		    period_end = $6,
		    updated_at = now()
		WHERE account_id = $1`,
		accountID,
		patch.Plan, patch.Status,
		patch.SubscriptionID, patch.PriceID, patch.PeriodEnd,
	)
	if err != nil {
		return fmt.Errorf("failed to patch billing record for account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (ps *PostgresStore) ListBilled(ctx context.Context, limit int) ([]string, error) {
	query := `
		SELECT account_id
		FROM account_billing
		WHERE customer_id IS NOT NULL
		ORDER BY account_id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := ps.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list billed accounts: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan account ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate billed accounts: %w", err)
	}
	return ids, nil
}
