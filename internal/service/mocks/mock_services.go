package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"notestand/internal/identity"
	"notestand/internal/model"
	"notestand/internal/service"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, r io.Reader, in service.UploadInput) (*model.Document, error) {
	args := m.Called(ctx, r, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, limit, offset int) (*service.DocumentListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, id string) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Moderate(ctx context.Context, id string, next model.DocumentStatus) error {
	args := m.Called(ctx, id, next)
	return args.Error(0)
}

func (m *MockDocumentService) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUnlockService struct {
	mock.Mock
}

func (m *MockUnlockService) RequestUnlock(ctx context.Context, viewerID, documentID string) (service.UnlockOutcome, error) {
	args := m.Called(ctx, viewerID, documentID)
	return args.Get(0).(service.UnlockOutcome), args.Error(1)
}

func (m *MockUnlockService) HasGrant(ctx context.Context, viewerID, documentID string) (bool, error) {
	args := m.Called(ctx, viewerID, documentID)
	return args.Bool(0), args.Error(1)
}

type MockLikeService struct {
	mock.Mock
}

func (m *MockLikeService) Toggle(ctx context.Context, viewerID, documentID string) (*service.LikeResult, error) {
	args := m.Called(ctx, viewerID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LikeResult), args.Error(1)
}

type MockDeliveryService struct {
	mock.Mock
}

func (m *MockDeliveryService) Deliver(ctx context.Context, v *identity.Viewer, documentID string) (*service.Delivery, error) {
	args := m.Called(ctx, v, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Delivery), args.Error(1)
}

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Transfer(ctx context.Context, from, to string, amount int64) error {
	args := m.Called(ctx, from, to, amount)
	return args.Error(0)
}

func (m *MockLedgerService) TopUp(ctx context.Context, accountID string, amount int64) error {
	args := m.Called(ctx, accountID, amount)
	return args.Error(0)
}

func (m *MockLedgerService) CreateAccount(ctx context.Context, displayName, ref string) (*model.Account, error) {
	args := m.Called(ctx, displayName, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockLedgerService) GetAccount(ctx context.Context, accountID string) (*model.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}
