package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"notestand/internal/access"
	"notestand/internal/identity"
	"notestand/internal/model"
	"notestand/internal/render"
	repomocks "notestand/internal/repository/mocks"
	storagemocks "notestand/internal/storage/mocks"
)

type deliveryFixture struct {
	docs   *repomocks.MockDocumentRepository
	grants *repomocks.MockGrantRepository
	blobs  *storagemocks.MockStorage
	svc    DeliveryService
}

func newDeliveryFixture(t *testing.T) *deliveryFixture {
	t.Helper()
	f := &deliveryFixture{
		docs:   new(repomocks.MockDocumentRepository),
		grants: new(repomocks.MockGrantRepository),
		blobs:  new(storagemocks.MockStorage),
	}
	f.svc = NewDeliveryService(nil, f.docs, f.grants, f.blobs, render.NewRegistry("notestand", nil), nil)
	return f
}

func imageDoc(status model.DocumentStatus, price int64) *model.Document {
	return &model.Document{
		ID:          "doc-1",
		OwnerID:     "owner",
		Title:       "diagram",
		Status:      status,
		Price:       price,
		StoragePath: "documents/diagram.png",
		ContentType: "image/png",
	}
}

func member(id string) *identity.Viewer {
	return &identity.Viewer{AccountID: id, DisplayName: id, Ref: id}
}

func TestDeliverFullAccessWithGrant(t *testing.T) {
	f := newDeliveryFixture(t)
	raw := []byte{0x89, 'P', 'N', 'G'}

	f.docs.On("FindByID", mock.Anything, mock.Anything, "doc-1").
		Return(imageDoc(model.StatusApproved, 3), nil).Once()
	f.grants.On("Exists", mock.Anything, mock.Anything, "viewer", "doc-1").
		Return(true, nil).Once()
	f.blobs.On("Fetch", mock.Anything, "documents/diagram.png").
		Return(raw, "image/png", nil).Once()

	d, err := f.svc.Deliver(context.Background(), member("viewer"), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, access.Full, d.Level)
	assert.Equal(t, raw, d.Bytes)
	assert.Equal(t, "image/png", d.ContentType)
}

func TestDeliverFreeDocumentToGuest(t *testing.T) {
	f := newDeliveryFixture(t)
	raw := []byte{0x89, 'P', 'N', 'G'}

	f.docs.On("FindByID", mock.Anything, mock.Anything, "doc-1").
		Return(imageDoc(model.StatusApproved, 0), nil).Once()
	f.blobs.On("Fetch", mock.Anything, "documents/diagram.png").
		Return(raw, "image/png", nil).Once()

	d, err := f.svc.Deliver(context.Background(), identity.Guest("203.0.113.7"), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, access.Full, d.Level)

	// Anonymous viewers never trigger a grant lookup.
	f.grants.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeliverDeniedWithoutGrant(t *testing.T) {
	f := newDeliveryFixture(t)

	f.docs.On("FindByID", mock.Anything, mock.Anything, "doc-1").
		Return(imageDoc(model.StatusApproved, 3), nil).Once()
	f.grants.On("Exists", mock.Anything, mock.Anything, "viewer", "doc-1").
		Return(false, nil).Once()
	f.blobs.On("Fetch", mock.Anything, "documents/diagram.png").
		Return([]byte{0x89, 'P', 'N', 'G'}, "image/png", nil).Once()

	// Priced image without a grant resolves to preview, and images carry no
	// preview-safe variant, so the renderer refuses rather than leak bytes.
	_, err := f.svc.Deliver(context.Background(), member("viewer"), "doc-1")
	assert.ErrorIs(t, err, render.ErrNoProtectedVariant)
}

func TestDeliverMissingDocumentIsDenied(t *testing.T) {
	f := newDeliveryFixture(t)

	f.docs.On("FindByID", mock.Anything, mock.Anything, "missing").
		Return(nil, sql.ErrNoRows).Once()

	_, err := f.svc.Deliver(context.Background(), member("viewer"), "missing")
	assert.ErrorIs(t, err, ErrAccessDenied)
	f.blobs.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

func TestDeliverDeletedDocumentIsDenied(t *testing.T) {
	f := newDeliveryFixture(t)
	doc := imageDoc(model.StatusApproved, 0)
	now := time.Now().UTC()
	doc.DeletedAt = &now

	f.docs.On("FindByID", mock.Anything, mock.Anything, "doc-1").
		Return(doc, nil).Once()
	f.grants.On("Exists", mock.Anything, mock.Anything, "owner", "doc-1").
		Return(false, nil).Once()

	// Even the owner loses access once the document is deleted.
	_, err := f.svc.Deliver(context.Background(), member("owner"), "doc-1")
	assert.ErrorIs(t, err, ErrAccessDenied)
	f.blobs.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

func TestDeliverPendingDocumentOwnerFull(t *testing.T) {
	f := newDeliveryFixture(t)
	raw := []byte{0x89, 'P', 'N', 'G'}

	f.docs.On("FindByID", mock.Anything, mock.Anything, "doc-1").
		Return(imageDoc(model.StatusPending, 3), nil).Once()
	f.grants.On("Exists", mock.Anything, mock.Anything, "owner", "doc-1").
		Return(false, nil).Once()
	f.blobs.On("Fetch", mock.Anything, "documents/diagram.png").
		Return(raw, "image/png", nil).Once()

	d, err := f.svc.Deliver(context.Background(), member("owner"), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, access.Full, d.Level)
}

func TestDeliverStorageFailureIsRetrievalError(t *testing.T) {
	f := newDeliveryFixture(t)

	f.docs.On("FindByID", mock.Anything, mock.Anything, "doc-1").
		Return(imageDoc(model.StatusApproved, 0), nil).Once()
	f.grants.On("Exists", mock.Anything, mock.Anything, "viewer", "doc-1").
		Return(false, nil).Once()
	f.blobs.On("Fetch", mock.Anything, "documents/diagram.png").
		Return(nil, "", errors.New("connection refused")).Once()

	_, err := f.svc.Deliver(context.Background(), member("viewer"), "doc-1")
	assert.ErrorIs(t, err, ErrRetrieval)
	assert.NotErrorIs(t, err, ErrAccessDenied)
}

func TestDeliverMalformedStoredPDF(t *testing.T) {
	f := newDeliveryFixture(t)
	doc := imageDoc(model.StatusApproved, 0)
	doc.ContentType = "application/pdf"
	doc.StoragePath = "documents/broken.pdf"

	f.docs.On("FindByID", mock.Anything, mock.Anything, "doc-1").
		Return(doc, nil).Once()
	f.grants.On("Exists", mock.Anything, mock.Anything, "viewer", "doc-1").
		Return(false, nil).Once()
	f.blobs.On("Fetch", mock.Anything, "documents/broken.pdf").
		Return([]byte("not a pdf at all"), "application/pdf", nil).Once()

	_, err := f.svc.Deliver(context.Background(), member("viewer"), "doc-1")
	assert.ErrorIs(t, err, render.ErrMalformed)
}

func TestDeliverRequiresID(t *testing.T) {
	f := newDeliveryFixture(t)

	_, err := f.svc.Deliver(context.Background(), member("viewer"), "")
	assert.ErrorIs(t, err, ErrIDRequired)
}
