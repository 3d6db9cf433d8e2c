package repository

import (
	"context"

	"notestand/internal/dbx"
	"notestand/internal/model"
)

// AccountRepository defines data access for accounts and their balances.
// Debit and Credit are the only balance mutations in the system; the ledger
// service composes them inside one transaction to keep transfers conserved.
type AccountRepository interface {
	// Create inserts a new account row and returns the stored record.
	Create(ctx context.Context, q dbx.DBTX, acc *model.Account) (*model.Account, error)

	// FindByID returns an account by its ID.
	FindByID(ctx context.Context, q dbx.DBTX, id string) (*model.Account, error)

	// Debit subtracts amount from the account's balance only if the balance
	// covers it. Returns false when funds are insufficient (or the account
	// does not exist); the row is untouched in that case.
	Debit(ctx context.Context, q dbx.DBTX, id string, amount int64) (bool, error)

	// Credit adds amount to the account's balance. Crediting an account
	// that does not exist returns sql.ErrNoRows so the surrounding
	// transaction rolls back instead of committing a one-sided transfer.
	Credit(ctx context.Context, q dbx.DBTX, id string, amount int64) error
}
