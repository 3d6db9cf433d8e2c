package postgres

import (
	"context"
	"database/sql"

	"notestand/internal/dbx"
	"notestand/internal/model"
	"notestand/internal/repository"
)

// AccountPostgres is the PostgreSQL implementation of repository.AccountRepository.
type AccountPostgres struct{}

// NewAccountPostgres creates a new AccountPostgres repository.
func NewAccountPostgres() *AccountPostgres {
	return &AccountPostgres{}
}

var _ repository.AccountRepository = (*AccountPostgres)(nil)

// Create inserts a new account row and returns the stored record.
func (r *AccountPostgres) Create(ctx context.Context, q dbx.DBTX, acc *model.Account) (*model.Account, error) {
	const query = `
		INSERT INTO accounts (id, display_name, ref, balance, admin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, display_name, ref, balance, admin, created_at
	`
	row := q.QueryRowContext(ctx, query,
		acc.ID,
		acc.DisplayName,
		acc.Ref,
		acc.Balance,
		acc.Admin,
		acc.CreatedAt,
	)
	var out model.Account
	if err := row.Scan(&out.ID, &out.DisplayName, &out.Ref, &out.Balance, &out.Admin, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single account by its ID.
func (r *AccountPostgres) FindByID(ctx context.Context, q dbx.DBTX, id string) (*model.Account, error) {
	const query = `
		SELECT id, display_name, ref, balance, admin, created_at
		FROM accounts
		WHERE id = $1
	`
	var a model.Account
	if err := q.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.DisplayName, &a.Ref, &a.Balance, &a.Admin, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// Debit subtracts amount only when the balance covers it. The conditional
// UPDATE is what keeps balances non-negative under concurrency; zero rows
// affected means insufficient funds.
func (r *AccountPostgres) Debit(ctx context.Context, q dbx.DBTX, id string, amount int64) (bool, error) {
	const query = `UPDATE accounts SET balance = balance - $1 WHERE id = $2 AND balance >= $1`
	res, err := q.ExecContext(ctx, query, amount, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Credit adds amount to the account's balance. A missing account is an
// error, not a no-op: a transfer whose credit lands nowhere would commit a
// debit with no matching credit and destroy money.
func (r *AccountPostgres) Credit(ctx context.Context, q dbx.DBTX, id string, amount int64) error {
	const query = `UPDATE accounts SET balance = balance + $1 WHERE id = $2`
	res, err := q.ExecContext(ctx, query, amount, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return sql.ErrNoRows
	}
	return nil
}
