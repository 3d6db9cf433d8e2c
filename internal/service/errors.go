package service

import "errors"

// Error taxonomy for the platform core. Policy failures (access) are kept
// distinct from money-moving failures so callers can present accurate
// messaging, and infrastructure failures carry their own retryable class.
var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("document not found")
	ErrReaderNil  = errors.New("reader is nil")

	// ErrAccessDenied is a policy outcome: the viewer may not see the
	// document. User-facing, non-retryable.
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidAmount rejects non-positive ledger amounts.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds means the paying account cannot cover the
	// amount. User-facing and actionable, non-retryable.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNotPurchasable means the document's lifecycle state offers no
	// purchase path (pending, rejected, suspended, or deleted).
	ErrNotPurchasable = errors.New("document is not purchasable")

	// ErrInvalidTransition rejects illegal moderation state changes.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrRetrieval wraps blob store failures. Infrastructure class,
	// retryable by the caller.
	ErrRetrieval = errors.New("document retrieval failed")
)
