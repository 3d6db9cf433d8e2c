package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"notestand/internal/dbx"
	"notestand/internal/model"
	"notestand/internal/repository"
)

// UnlockOutcome is the result of a purchase attempt.
type UnlockOutcome string

const (
	// OutcomeSuccess: the viewer was charged and the grant now exists.
	OutcomeSuccess UnlockOutcome = "success"
	// OutcomeAlreadyUnlocked: the grant already existed; nothing was
	// charged. This is idempotent success, not an error.
	OutcomeAlreadyUnlocked UnlockOutcome = "already_unlocked"
	// OutcomeSelfPurchase: owners cannot buy their own documents.
	OutcomeSelfPurchase UnlockOutcome = "self_purchase"
	// OutcomeInsufficientFunds: the viewer's balance does not cover the price.
	OutcomeInsufficientFunds UnlockOutcome = "insufficient_funds"
)

// errUnlockRaced aborts the purchase transaction when a concurrent caller
// created the grant first. The rollback it forces is what keeps money from
// moving without a corresponding grant.
var errUnlockRaced = errors.New("unlock grant already created concurrently")

// UnlockService coordinates the purchase of permanent document access:
// ledger transfer, grant creation, and idempotency in one transaction.
type UnlockService interface {
	// RequestUnlock attempts to purchase access to the document for the
	// viewer at the document's current price. The grant uniqueness
	// constraint is the sole concurrency gate: among K simultaneous calls
	// for a new (viewer, document) pair exactly one succeeds and is
	// charged, the rest observe AlreadyUnlocked.
	RequestUnlock(ctx context.Context, viewerID, documentID string) (UnlockOutcome, error)

	// HasGrant reports whether the viewer already purchased the document.
	HasGrant(ctx context.Context, viewerID, documentID string) (bool, error)
}

type unlockService struct {
	db        dbx.DBTX
	tx        dbx.TxRunner
	accounts  repository.AccountRepository
	documents repository.DocumentRepository
	grants    repository.GrantRepository
}

// NewUnlockService constructs an UnlockService.
func NewUnlockService(db dbx.DBTX, tx dbx.TxRunner, accounts repository.AccountRepository, documents repository.DocumentRepository, grants repository.GrantRepository) UnlockService {
	return &unlockService{db: db, tx: tx, accounts: accounts, documents: documents, grants: grants}
}

func (s *unlockService) HasGrant(ctx context.Context, viewerID, documentID string) (bool, error) {
	if viewerID == "" || documentID == "" {
		return false, nil
	}
	return s.grants.Exists(ctx, s.db, viewerID, documentID)
}

func (s *unlockService) RequestUnlock(ctx context.Context, viewerID, documentID string) (UnlockOutcome, error) {
	if viewerID == "" || documentID == "" {
		return "", ErrIDRequired
	}

	doc, err := s.documents.FindByID(ctx, s.db, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}

	// Idempotency first: a repeat call is success without a charge.
	exists, err := s.grants.Exists(ctx, s.db, viewerID, documentID)
	if err != nil {
		return "", err
	}
	if exists {
		return OutcomeAlreadyUnlocked, nil
	}

	if doc.OwnerID == viewerID {
		return OutcomeSelfPurchase, nil
	}

	// Only approved, live documents have a purchase path.
	if doc.Deleted() || doc.Status != model.StatusApproved {
		return "", ErrNotPurchasable
	}

	// Debit, credit, and grant insert commit together or not at all. A
	// lost race on the grant insert rolls the money movement back.
	err = s.tx.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if doc.Price > 0 {
			if err := transferTx(ctx, tx, s.accounts, viewerID, doc.OwnerID, doc.Price); err != nil {
				return err
			}
		}
		created, err := s.grants.Insert(ctx, tx, viewerID, documentID)
		if err != nil {
			return fmt.Errorf("insert grant: %w", err)
		}
		if !created {
			return errUnlockRaced
		}
		return nil
	})
	switch {
	case err == nil:
		return OutcomeSuccess, nil
	case errors.Is(err, errUnlockRaced):
		return OutcomeAlreadyUnlocked, nil
	case errors.Is(err, ErrInsufficientFunds):
		return OutcomeInsufficientFunds, nil
	default:
		return "", err
	}
}
