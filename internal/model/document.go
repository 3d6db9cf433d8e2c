package model

import "time"

// DocumentStatus is the moderation lifecycle state of a document.
type DocumentStatus string

const (
	// StatusPending is the initial state after upload, awaiting moderation.
	StatusPending DocumentStatus = "pending"
	// StatusApproved means the document is listed and purchasable.
	StatusApproved DocumentStatus = "approved"
	// StatusRejected means moderation refused the document.
	StatusRejected DocumentStatus = "rejected"
	// StatusSuspended means an approved document was taken down after a report.
	// Existing grant holders keep access; new purchases are blocked.
	StatusSuspended DocumentStatus = "suspended"
)

// Document represents an uploaded file offered for sale on the platform.
// This is a pure domain model with no database-specific dependencies or tags.
type Document struct {
	ID          string         `json:"id"`
	OwnerID     string         `json:"owner_id"`
	Title       string         `json:"title"`
	Status      DocumentStatus `json:"status"`
	Price       int64          `json:"price"`
	StoragePath string         `json:"storage_path"`
	Size        int64          `json:"size"`
	ContentType string         `json:"content_type"`
	LikeCount   int64          `json:"like_count"`
	CreatedAt   time.Time      `json:"created_at"`
	// DeletedAt marks a soft delete. A soft-deleted document is not
	// accessible to anyone, including its owner and admins.
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Deleted reports whether the document has been soft-deleted.
func (d *Document) Deleted() bool {
	return d.DeletedAt != nil
}
