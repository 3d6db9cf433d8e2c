package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"notestand/internal/access"
	"notestand/internal/dbx"
	"notestand/internal/identity"
	"notestand/internal/render"
	"notestand/internal/repository"
	"notestand/internal/storage"
)

// Delivery is the rendered, viewer-specific output for a document request.
// The bytes must never be served from a shared cache.
type Delivery struct {
	Bytes       []byte
	ContentType string
	Level       access.Level
}

// DeliveryService is the request orchestrator for document viewing: it
// resolves the access level from document state and grant history, fetches
// the raw bytes from the blob collaborator, and renders viewer-safe output.
type DeliveryService interface {
	Deliver(ctx context.Context, v *identity.Viewer, documentID string) (*Delivery, error)
}

type deliveryService struct {
	db        dbx.DBTX
	documents repository.DocumentRepository
	grants    repository.GrantRepository
	blobs     storage.Storage
	renderer  *render.Registry
	log       *zap.Logger
}

// NewDeliveryService constructs a DeliveryService.
func NewDeliveryService(db dbx.DBTX, documents repository.DocumentRepository, grants repository.GrantRepository, blobs storage.Storage, renderer *render.Registry, log *zap.Logger) DeliveryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &deliveryService{db: db, documents: documents, grants: grants, blobs: blobs, renderer: renderer, log: log}
}

func (s *deliveryService) Deliver(ctx context.Context, v *identity.Viewer, documentID string) (*Delivery, error) {
	if documentID == "" {
		return nil, ErrIDRequired
	}

	doc, err := s.documents.FindByID(ctx, s.db, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// A missing document is a plain access denial: rule 1.
			return nil, ErrAccessDenied
		}
		return nil, err
	}

	hasGrant := false
	if !v.IsAnonymous() {
		hasGrant, err = s.grants.Exists(ctx, s.db, v.AccountID, documentID)
		if err != nil {
			return nil, err
		}
	}

	level := access.Decide(doc, v, hasGrant)
	if level == access.Denied {
		return nil, ErrAccessDenied
	}

	raw, _, err := s.blobs.Fetch(ctx, doc.StoragePath)
	if err != nil {
		// Retryable infrastructure failure, distinct from policy denials.
		return nil, fmt.Errorf("%w: %v", ErrRetrieval, err)
	}

	out, err := s.renderer.RenderForDelivery(raw, doc.ContentType, v, level)
	if err != nil {
		if errors.Is(err, render.ErrMalformed) {
			s.log.Warn("stored document is malformed",
				zap.String("document_id", doc.ID),
				zap.String("content_type", doc.ContentType))
		}
		return nil, err
	}

	return &Delivery{Bytes: out, ContentType: doc.ContentType, Level: level}, nil
}
