package repository

import (
	"context"

	"notestand/internal/dbx"
)

// GrantRepository defines data access for unlock grants. The table's
// UNIQUE(account_id, document_id) constraint is the sole concurrency gate
// for purchases: no in-process locking exists anywhere above it.
type GrantRepository interface {
	// Insert creates the grant. Returns false without error when the pair
	// already exists (unique violation), so the caller can roll back its
	// surrounding transaction and report an idempotent outcome.
	Insert(ctx context.Context, q dbx.DBTX, accountID, documentID string) (bool, error)

	// Exists reports whether a grant exists for the pair.
	Exists(ctx context.Context, q dbx.DBTX, accountID, documentID string) (bool, error)
}

// LikeRepository defines data access for like events.
type LikeRepository interface {
	// Insert records a like. Returns false when the pair already exists.
	Insert(ctx context.Context, q dbx.DBTX, accountID, documentID string) (bool, error)

	// Delete removes a like. Returns false when no row existed.
	Delete(ctx context.Context, q dbx.DBTX, accountID, documentID string) (bool, error)

	// Exists reports whether the account currently likes the document.
	Exists(ctx context.Context, q dbx.DBTX, accountID, documentID string) (bool, error)
}
