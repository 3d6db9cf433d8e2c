package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"notestand/internal/dbx"
	"notestand/internal/model"
	"notestand/internal/repository"
)

// LedgerService owns account balances and the atomic transfer primitive.
// All balance mutations in the system go through it.
type LedgerService interface {
	// Transfer atomically moves amount credits from one account to the
	// other. Either both balance mutations commit or neither does, so the
	// sum of the two balances is invariant across the call.
	Transfer(ctx context.Context, from, to string, amount int64) error

	// TopUp credits an account with purchased credits.
	TopUp(ctx context.Context, accountID string, amount int64) error

	// CreateAccount registers a new account with a zero balance.
	CreateAccount(ctx context.Context, displayName, ref string) (*model.Account, error)

	// GetAccount returns an account by ID.
	GetAccount(ctx context.Context, accountID string) (*model.Account, error)
}

type ledgerService struct {
	db       dbx.DBTX
	tx       dbx.TxRunner
	accounts repository.AccountRepository
}

// NewLedgerService constructs a LedgerService. db serves single-row reads;
// tx runs the multi-row mutations.
func NewLedgerService(db dbx.DBTX, tx dbx.TxRunner, accounts repository.AccountRepository) LedgerService {
	return &ledgerService{db: db, tx: tx, accounts: accounts}
}

func (s *ledgerService) Transfer(ctx context.Context, from, to string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return s.tx.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return transferTx(ctx, tx, s.accounts, from, to, amount)
	})
}

// transferTx performs the debit and credit inside an already-open
// transaction. The unlock coordinator reuses it so a purchase shares one
// transaction with its grant insert.
func transferTx(ctx context.Context, tx dbx.DBTX, accounts repository.AccountRepository, from, to string, amount int64) error {
	ok, err := accounts.Debit(ctx, tx, from, amount)
	if err != nil {
		return fmt.Errorf("debit %s: %w", from, err)
	}
	if !ok {
		return ErrInsufficientFunds
	}
	if err := accounts.Credit(ctx, tx, to, amount); err != nil {
		return fmt.Errorf("credit %s: %w", to, err)
	}
	return nil
}

func (s *ledgerService) TopUp(ctx context.Context, accountID string, amount int64) error {
	if accountID == "" {
		return ErrIDRequired
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	// Single-statement credit; no surrounding transaction needed.
	if err := s.accounts.Credit(ctx, s.db, accountID, amount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *ledgerService) CreateAccount(ctx context.Context, displayName, ref string) (*model.Account, error) {
	acc := &model.Account{
		ID:          uuid.New().String(),
		DisplayName: displayName,
		Ref:         ref,
		CreatedAt:   time.Now().UTC(),
	}
	return s.accounts.Create(ctx, s.db, acc)
}

func (s *ledgerService) GetAccount(ctx context.Context, accountID string) (*model.Account, error) {
	if accountID == "" {
		return nil, ErrIDRequired
	}
	acc, err := s.accounts.FindByID(ctx, s.db, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return acc, nil
}
