package postgres

import (
	"context"

	"notestand/internal/dbx"
	"notestand/internal/repository"
)

// GrantPostgres is the PostgreSQL implementation of repository.GrantRepository.
type GrantPostgres struct{}

// NewGrantPostgres creates a new GrantPostgres repository.
func NewGrantPostgres() *GrantPostgres {
	return &GrantPostgres{}
}

var _ repository.GrantRepository = (*GrantPostgres)(nil)

// Insert creates the unlock grant. ON CONFLICT keeps a duplicate from
// raising a server error: the insert runs inside an open transaction, and a
// raised 23505 would abort it, poisoning every later statement. Zero rows
// affected means the pair already existed; the caller decides whether that
// means rolling back a purchase that lost the race.
func (r *GrantPostgres) Insert(ctx context.Context, q dbx.DBTX, accountID, documentID string) (bool, error) {
	const query = `
		INSERT INTO unlock_grants (account_id, document_id, granted_at)
		VALUES ($1, $2, now())
		ON CONFLICT (account_id, document_id) DO NOTHING`
	res, err := q.ExecContext(ctx, query, accountID, documentID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Exists reports whether a grant exists for the (account, document) pair.
func (r *GrantPostgres) Exists(ctx context.Context, q dbx.DBTX, accountID, documentID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM unlock_grants WHERE account_id = $1 AND document_id = $2)`
	var exists bool
	if err := q.QueryRowContext(ctx, query, accountID, documentID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// LikePostgres is the PostgreSQL implementation of repository.LikeRepository.
type LikePostgres struct{}

// NewLikePostgres creates a new LikePostgres repository.
func NewLikePostgres() *LikePostgres {
	return &LikePostgres{}
}

var _ repository.LikeRepository = (*LikePostgres)(nil)

// Insert records a like; duplicates report (false, nil). ON CONFLICT keeps
// the toggle transaction live on a duplicate so the un-like delete that
// follows can still run.
func (r *LikePostgres) Insert(ctx context.Context, q dbx.DBTX, accountID, documentID string) (bool, error) {
	const query = `
		INSERT INTO like_events (account_id, document_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (account_id, document_id) DO NOTHING`
	res, err := q.ExecContext(ctx, query, accountID, documentID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Delete removes a like; a missing row reports (false, nil).
func (r *LikePostgres) Delete(ctx context.Context, q dbx.DBTX, accountID, documentID string) (bool, error) {
	const query = `DELETE FROM like_events WHERE account_id = $1 AND document_id = $2`
	res, err := q.ExecContext(ctx, query, accountID, documentID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Exists reports whether the account currently likes the document.
func (r *LikePostgres) Exists(ctx context.Context, q dbx.DBTX, accountID, documentID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM like_events WHERE account_id = $1 AND document_id = $2)`
	var exists bool
	if err := q.QueryRowContext(ctx, query, accountID, documentID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
