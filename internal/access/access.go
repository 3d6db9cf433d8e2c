// Package access computes viewing rights for a document. The decision is a
// pure function of the document's lifecycle state, the viewer, and the
// viewer's purchase history, so it can be memoized per (document, viewer)
// and tested without any collaborators.
package access

import (
	"notestand/internal/identity"
	"notestand/internal/model"
)

// Level is the outcome of an access decision.
type Level int

const (
	// Denied means the viewer may not see the document at all.
	Denied Level = iota
	// PreviewOnly means the viewer may see a truncated, watermarked preview.
	PreviewOnly
	// Full means the viewer may see every page (still watermarked).
	Full
)

// String implements fmt.Stringer.
func (l Level) String() string {
	switch l {
	case PreviewOnly:
		return "preview"
	case Full:
		return "full"
	default:
		return "denied"
	}
}

// Decide returns the access level for viewer v on doc. hasGrant reports
// whether an unlock grant exists for the (viewer, document) pair; the caller
// looks it up because this function performs no I/O.
//
// Rules are evaluated in order:
//  1. missing or soft-deleted document: denied for everyone
//  2. pending and viewer is neither owner nor admin: denied
//  3. owner, admin, or grant holder: full
//  4. approved and free: full for everyone
//  5. approved, priced, no grant: preview only
//  6. suspended or rejected without rule 3: denied, no purchase path
func Decide(doc *model.Document, v *identity.Viewer, hasGrant bool) Level {
	if doc == nil || doc.Deleted() {
		return Denied
	}

	owner := !v.IsAnonymous() && v.AccountID == doc.OwnerID
	admin := !v.IsAnonymous() && v.Admin

	if doc.Status == model.StatusPending && !owner && !admin {
		return Denied
	}
	if owner || admin || hasGrant {
		return Full
	}
	if doc.Status == model.StatusApproved {
		if doc.Price == 0 {
			return Full
		}
		return PreviewOnly
	}
	return Denied
}
