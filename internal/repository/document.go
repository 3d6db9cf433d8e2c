package repository

import (
	"context"
	"time"

	"notestand/internal/dbx"
	"notestand/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	Create(ctx context.Context, q dbx.DBTX, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID, including soft-deleted rows;
	// the access engine decides what a deleted row means.
	FindByID(ctx context.Context, q dbx.DBTX, id string) (*model.Document, error)

	// List returns a page of approved, non-deleted documents plus the total count.
	List(ctx context.Context, q dbx.DBTX, pq PageQuery) (*PageResult[model.Document], error)

	// SetStatus updates the moderation status.
	SetStatus(ctx context.Context, q dbx.DBTX, id string, status model.DocumentStatus) error

	// SoftDelete stamps deleted_at. Grants and likes are untouched.
	SoftDelete(ctx context.Context, q dbx.DBTX, id string, at time.Time) error

	// BumpLikeCount atomically adds delta to the document's like counter and
	// returns the new value. The row lock taken by the UPDATE serializes
	// concurrent likes, so the returned count is exact.
	BumpLikeCount(ctx context.Context, q dbx.DBTX, id string, delta int64) (int64, error)
}
