package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"notestand/internal/dbx"
	"notestand/internal/repository"
)

// likeRewardEvery is the distinct-like interval that credits the document
// owner one credit unit.
const likeRewardEvery = 10

// LikeResult reports the state after a toggle.
type LikeResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

// LikeService toggles likes and settles the like-based owner reward.
type LikeService interface {
	// Toggle flips the viewer's like on the document. Liking inserts the
	// event and, when the distinct-like count crosses a multiple of ten as
	// a direct consequence of this insert, credits the owner one unit in
	// the same transaction. Un-liking removes the event with no ledger
	// effect.
	Toggle(ctx context.Context, viewerID, documentID string) (*LikeResult, error)
}

type likeService struct {
	tx        dbx.TxRunner
	accounts  repository.AccountRepository
	documents repository.DocumentRepository
	likes     repository.LikeRepository
	log       *zap.Logger
}

// NewLikeService constructs a LikeService.
func NewLikeService(tx dbx.TxRunner, accounts repository.AccountRepository, documents repository.DocumentRepository, likes repository.LikeRepository, log *zap.Logger) LikeService {
	if log == nil {
		log = zap.NewNop()
	}
	return &likeService{tx: tx, accounts: accounts, documents: documents, likes: likes, log: log}
}

func (s *likeService) Toggle(ctx context.Context, viewerID, documentID string) (*LikeResult, error) {
	if viewerID == "" || documentID == "" {
		return nil, ErrIDRequired
	}

	var res LikeResult
	err := s.tx.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		doc, err := s.documents.FindByID(ctx, tx, documentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if doc.Deleted() {
			return ErrNotFound
		}

		created, err := s.likes.Insert(ctx, tx, viewerID, documentID)
		if err != nil {
			return fmt.Errorf("insert like: %w", err)
		}

		if !created {
			// Already liked: this toggle removes the like. No ledger effect.
			if _, err := s.likes.Delete(ctx, tx, viewerID, documentID); err != nil {
				return fmt.Errorf("delete like: %w", err)
			}
			count, err := s.documents.BumpLikeCount(ctx, tx, documentID, -1)
			if err != nil {
				return err
			}
			res = LikeResult{Liked: false, LikeCount: count}
			return nil
		}

		// The counter update locks the document row, so the returned count
		// is exact even when likes land concurrently. Checking the boundary
		// on this value inside the same transaction is what prevents two
		// racing likes from both claiming (or both missing) the reward.
		count, err := s.documents.BumpLikeCount(ctx, tx, documentID, 1)
		if err != nil {
			return err
		}
		if count%likeRewardEvery == 0 {
			if err := s.accounts.Credit(ctx, tx, doc.OwnerID, 1); err != nil {
				return fmt.Errorf("credit like reward: %w", err)
			}
			s.log.Info("like reward settled",
				zap.String("document_id", documentID),
				zap.String("owner_id", doc.OwnerID),
				zap.Int64("like_count", count))
		}
		res = LikeResult{Liked: true, LikeCount: count}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}
