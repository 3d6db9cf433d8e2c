package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"notestand/internal/dbx"
	"notestand/internal/model"
	"notestand/internal/repository"
	"notestand/internal/storage"
)

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// UploadInput carries the metadata for a new document upload.
type UploadInput struct {
	OwnerID          string
	Title            string
	OriginalFilename string
	ContentType      string
	Size             int64
	Price            int64
}

// DocumentService defines the use cases for handling documents around the
// core engine: upload, catalog reads, moderation, and soft delete.
type DocumentService interface {
	// Upload stores the content in object storage and creates the Pending
	// document row, rolling the object back if the DB insert fails.
	Upload(ctx context.Context, r io.Reader, in UploadInput) (*model.Document, error)

	// List returns approved documents using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*DocumentListResult, error)

	// Get returns a single document by its ID. Soft-deleted documents are
	// reported as not found.
	Get(ctx context.Context, id string) (*model.Document, error)

	// Moderate applies an external moderation decision to the document.
	Moderate(ctx context.Context, id string, next model.DocumentStatus) error

	// SoftDelete marks the document deleted. The stored object, grants,
	// and likes survive as historical records.
	SoftDelete(ctx context.Context, id string) error
}

type documentService struct {
	db    dbx.DBTX
	store storage.Storage
	repo  repository.DocumentRepository
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(db dbx.DBTX, store storage.Storage, repo repository.DocumentRepository) DocumentService {
	return &documentService{db: db, store: store, repo: repo}
}

func (s *documentService) Upload(ctx context.Context, r io.Reader, in UploadInput) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if in.OwnerID == "" {
		return nil, ErrIDRequired
	}
	if in.Price < 0 {
		return nil, ErrInvalidAmount
	}

	// Generate filename using UUID + extension
	ext := filepath.Ext(in.OriginalFilename)
	genName := uuid.New().String() + ext
	key := filepath.ToSlash(filepath.Join("documents", genName))

	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": in.OriginalFilename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	doc := &model.Document{
		ID:          uuid.New().String(),
		OwnerID:     in.OwnerID,
		Title:       in.Title,
		Status:      model.StatusPending,
		Price:       in.Price,
		StoragePath: objInfo.Key,
		Size:        objInfo.Size,
		ContentType: objInfo.ContentType,
		CreatedAt:   time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, s.db, doc)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

// List returns paginated documents without exposing repository types.
func (s *documentService) List(ctx context.Context, limit, offset int) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, s.db, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

// Get returns a document by ID.
func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if doc.Deleted() {
		return nil, ErrNotFound
	}
	return doc, nil
}

// legalTransitions holds the moderation state machine: uploads start
// pending, moderation approves or rejects, report resolution suspends.
var legalTransitions = map[model.DocumentStatus][]model.DocumentStatus{
	model.StatusPending:  {model.StatusApproved, model.StatusRejected},
	model.StatusApproved: {model.StatusSuspended},
}

func (s *documentService) Moderate(ctx context.Context, id string, next model.DocumentStatus) error {
	if id == "" {
		return ErrIDRequired
	}
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	for _, allowed := range legalTransitions[doc.Status] {
		if next == allowed {
			return s.repo.SetStatus(ctx, s.db, id, next)
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, doc.Status, next)
}

// SoftDelete marks the document deleted. The blob is kept: grants are
// financial history and the object may be needed for audit.
func (s *documentService) SoftDelete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, s.db, id, time.Now().UTC())
}
