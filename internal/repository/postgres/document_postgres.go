package postgres

import (
	"context"
	"time"

	"notestand/internal/dbx"
	"notestand/internal/model"
	"notestand/internal/repository"
)

// DocumentPostgres is the PostgreSQL implementation of repository.DocumentRepository.
type DocumentPostgres struct{}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres() *DocumentPostgres {
	return &DocumentPostgres{}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, owner_id, title, status, price, storage_path, size, content_type, like_count, created_at, deleted_at`

func scanDocument(row interface{ Scan(dest ...any) error }) (*model.Document, error) {
	var d model.Document
	if err := row.Scan(
		&d.ID,
		&d.OwnerID,
		&d.Title,
		&d.Status,
		&d.Price,
		&d.StoragePath,
		&d.Size,
		&d.ContentType,
		&d.LikeCount,
		&d.CreatedAt,
		&d.DeletedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, q dbx.DBTX, doc *model.Document) (*model.Document, error) {
	const query = `
		INSERT INTO documents (id, owner_id, title, status, price, storage_path, size, content_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + documentColumns
	row := q.QueryRowContext(ctx, query,
		doc.ID,
		doc.OwnerID,
		doc.Title,
		doc.Status,
		doc.Price,
		doc.StoragePath,
		doc.Size,
		doc.ContentType,
		doc.CreatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its ID, soft-deleted rows included.
func (r *DocumentPostgres) FindByID(ctx context.Context, q dbx.DBTX, id string) (*model.Document, error) {
	const query = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE id = $1
	`
	return scanDocument(q.QueryRowContext(ctx, query, id))
}

// List returns approved, non-deleted documents using LIMIT/OFFSET pagination
// and a total count.
func (r *DocumentPostgres) List(ctx context.Context, q dbx.DBTX, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	const qCount = `SELECT COUNT(*) FROM documents WHERE status = 'approved' AND deleted_at IS NULL`
	var total int
	if err := q.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE status = 'approved' AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := q.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// SetStatus updates the moderation status of a document.
func (r *DocumentPostgres) SetStatus(ctx context.Context, q dbx.DBTX, id string, status model.DocumentStatus) error {
	const query = `UPDATE documents SET status = $1 WHERE id = $2 AND deleted_at IS NULL`
	_, err := q.ExecContext(ctx, query, status, id)
	return err
}

// SoftDelete stamps deleted_at on the document. Grants and likes referencing
// it are historical records and stay untouched.
func (r *DocumentPostgres) SoftDelete(ctx context.Context, q dbx.DBTX, id string, at time.Time) error {
	const query = `UPDATE documents SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	_, err := q.ExecContext(ctx, query, at, id)
	return err
}

// BumpLikeCount adds delta to like_count and returns the new value. The row
// lock held by the UPDATE until commit makes the returned count exact under
// concurrent likes.
func (r *DocumentPostgres) BumpLikeCount(ctx context.Context, q dbx.DBTX, id string, delta int64) (int64, error) {
	const query = `UPDATE documents SET like_count = like_count + $1 WHERE id = $2 RETURNING like_count`
	var count int64
	if err := q.QueryRowContext(ctx, query, delta, id).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
