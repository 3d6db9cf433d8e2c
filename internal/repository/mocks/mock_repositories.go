package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"notestand/internal/dbx"
	"notestand/internal/model"
	"notestand/internal/repository"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, q dbx.DBTX, doc *model.Document) (*model.Document, error) {
	args := m.Called(ctx, q, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, q dbx.DBTX, id string) (*model.Document, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) List(ctx context.Context, q dbx.DBTX, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	args := m.Called(ctx, q, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Document]), args.Error(1)
}

func (m *MockDocumentRepository) SetStatus(ctx context.Context, q dbx.DBTX, id string, status model.DocumentStatus) error {
	args := m.Called(ctx, q, id, status)
	return args.Error(0)
}

func (m *MockDocumentRepository) SoftDelete(ctx context.Context, q dbx.DBTX, id string, at time.Time) error {
	args := m.Called(ctx, q, id, at)
	return args.Error(0)
}

func (m *MockDocumentRepository) BumpLikeCount(ctx context.Context, q dbx.DBTX, id string, delta int64) (int64, error) {
	args := m.Called(ctx, q, id, delta)
	return args.Get(0).(int64), args.Error(1)
}

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, q dbx.DBTX, acc *model.Account) (*model.Account, error) {
	args := m.Called(ctx, q, acc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByID(ctx context.Context, q dbx.DBTX, id string) (*model.Account, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountRepository) Debit(ctx context.Context, q dbx.DBTX, id string, amount int64) (bool, error) {
	args := m.Called(ctx, q, id, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) Credit(ctx context.Context, q dbx.DBTX, id string, amount int64) error {
	args := m.Called(ctx, q, id, amount)
	return args.Error(0)
}

type MockGrantRepository struct {
	mock.Mock
}

func (m *MockGrantRepository) Insert(ctx context.Context, q dbx.DBTX, accountID, documentID string) (bool, error) {
	args := m.Called(ctx, q, accountID, documentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGrantRepository) Exists(ctx context.Context, q dbx.DBTX, accountID, documentID string) (bool, error) {
	args := m.Called(ctx, q, accountID, documentID)
	return args.Bool(0), args.Error(1)
}

type MockLikeRepository struct {
	mock.Mock
}

func (m *MockLikeRepository) Insert(ctx context.Context, q dbx.DBTX, accountID, documentID string) (bool, error) {
	args := m.Called(ctx, q, accountID, documentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLikeRepository) Delete(ctx context.Context, q dbx.DBTX, accountID, documentID string) (bool, error) {
	args := m.Called(ctx, q, accountID, documentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLikeRepository) Exists(ctx context.Context, q dbx.DBTX, accountID, documentID string) (bool, error) {
	args := m.Called(ctx, q, accountID, documentID)
	return args.Bool(0), args.Error(1)
}
