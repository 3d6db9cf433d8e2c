package model

import "time"

// Account holds a user's credit balance. Balances are plain integer credit
// units and are never negative; every mutation goes through the ledger.
type Account struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	// Ref is the human-facing account number shown in watermarks.
	Ref       string    `json:"ref"`
	Balance   int64     `json:"balance"`
	Admin     bool      `json:"admin"`
	CreatedAt time.Time `json:"created_at"`
}

// UnlockGrant is the durable record that an account purchased permanent
// access to a document. Presence of the (AccountID, DocumentID) pair is the
// sole source of truth for "has purchased"; grants are never removed.
type UnlockGrant struct {
	AccountID  string    `json:"account_id"`
	DocumentID string    `json:"document_id"`
	GrantedAt  time.Time `json:"granted_at"`
}

// LikeEvent records that an account likes a document. The pair is unique;
// un-liking deletes the row. Every 10th distinct like rewards the document
// owner with one credit.
type LikeEvent struct {
	AccountID  string    `json:"account_id"`
	DocumentID string    `json:"document_id"`
	CreatedAt  time.Time `json:"created_at"`
}
