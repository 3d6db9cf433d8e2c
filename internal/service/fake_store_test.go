package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"notestand/internal/dbx"
	"notestand/internal/model"
	"notestand/internal/repository"
)

// pairKey identifies a (account, document) row in the fake store.
type pairKey struct{ account, document string }

// fakeStore is an in-memory backing store for the service tests. The
// repository interfaces are exposed through adapter views (accountRepo,
// docRepo, grantRepo, likeRepo) because their method names collide.
// Transactions are serialized and roll back by snapshot, which mirrors the
// guarantees the real store provides: the grant/like uniqueness keys gate
// concurrent writers, balances stay non-negative, and a failed transaction
// leaves no partial state.
type fakeStore struct {
	mu       sync.Mutex
	accounts map[string]*model.Account
	docs     map[string]*model.Document
	grants   map[pairKey]bool
	likes    map[pairKey]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts: map[string]*model.Account{},
		docs:     map[string]*model.Document{},
		grants:   map[pairKey]bool{},
		likes:    map[pairKey]bool{},
	}
}

var _ dbx.TxRunner = (*fakeStore)(nil)

func (f *fakeStore) addAccount(id string, balance int64) {
	f.accounts[id] = &model.Account{ID: id, DisplayName: id, Ref: id, Balance: balance}
}

func (f *fakeStore) addDocument(d *model.Document) {
	cp := *d
	f.docs[d.ID] = &cp
}

func (f *fakeStore) balance(id string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accounts[id].Balance
}

func (f *fakeStore) likeCount(id string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.docs[id].LikeCount
}

func (f *fakeStore) hasGrant(accountID, documentID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.grants[pairKey{accountID, documentID}]
}

func (f *fakeStore) snapshot() *fakeStore {
	s := newFakeStore()
	for id, a := range f.accounts {
		cp := *a
		s.accounts[id] = &cp
	}
	for id, d := range f.docs {
		cp := *d
		s.docs[id] = &cp
	}
	for k := range f.grants {
		s.grants[k] = true
	}
	for k := range f.likes {
		s.likes[k] = true
	}
	return s
}

// WithTx serializes transactions and restores the pre-transaction snapshot
// when fn fails, so money never moves without its grant.
func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := f.snapshot()
	if err := fn(ctx, nil); err != nil {
		f.accounts = snap.accounts
		f.docs = snap.docs
		f.grants = snap.grants
		f.likes = snap.likes
		return err
	}
	return nil
}

// lockUnlessTx guards repository calls made outside WithTx. The runner
// already holds the mutex during a transaction, so methods invoked with the
// nil transaction handle skip locking.
func (f *fakeStore) lockUnlessTx(q dbx.DBTX) func() {
	if q == nil {
		return func() {}
	}
	f.mu.Lock()
	return f.mu.Unlock
}

// fakePool is the non-nil handle the services use for reads outside
// transactions; calls carrying it take the store mutex themselves.
var fakePool dbx.DBTX = fakePoolHandle{}

type fakePoolHandle struct{}

func (fakePoolHandle) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, nil
}
func (fakePoolHandle) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, nil
}
func (fakePoolHandle) QueryRowContext(context.Context, string, ...any) *sql.Row {
	return nil
}

type accountRepo struct{ f *fakeStore }

var _ repository.AccountRepository = accountRepo{}

func (r accountRepo) Create(ctx context.Context, q dbx.DBTX, acc *model.Account) (*model.Account, error) {
	defer r.f.lockUnlessTx(q)()
	cp := *acc
	r.f.accounts[acc.ID] = &cp
	out := cp
	return &out, nil
}

func (r accountRepo) FindByID(ctx context.Context, q dbx.DBTX, id string) (*model.Account, error) {
	defer r.f.lockUnlessTx(q)()
	a, ok := r.f.accounts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (r accountRepo) Debit(ctx context.Context, q dbx.DBTX, id string, amount int64) (bool, error) {
	defer r.f.lockUnlessTx(q)()
	a, ok := r.f.accounts[id]
	if !ok || a.Balance < amount {
		return false, nil
	}
	a.Balance -= amount
	return true, nil
}

func (r accountRepo) Credit(ctx context.Context, q dbx.DBTX, id string, amount int64) error {
	defer r.f.lockUnlessTx(q)()
	a, ok := r.f.accounts[id]
	if !ok {
		return sql.ErrNoRows
	}
	a.Balance += amount
	return nil
}

type docRepo struct{ f *fakeStore }

var _ repository.DocumentRepository = docRepo{}

func (r docRepo) Create(ctx context.Context, q dbx.DBTX, doc *model.Document) (*model.Document, error) {
	defer r.f.lockUnlessTx(q)()
	cp := *doc
	r.f.docs[doc.ID] = &cp
	out := cp
	return &out, nil
}

func (r docRepo) FindByID(ctx context.Context, q dbx.DBTX, id string) (*model.Document, error) {
	defer r.f.lockUnlessTx(q)()
	d, ok := r.f.docs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *d
	return &cp, nil
}

func (r docRepo) List(ctx context.Context, q dbx.DBTX, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	defer r.f.lockUnlessTx(q)()
	items := []model.Document{}
	for _, d := range r.f.docs {
		if d.Status == model.StatusApproved && !d.Deleted() {
			items = append(items, *d)
		}
	}
	return &repository.PageResult[model.Document]{Items: items, Total: len(items)}, nil
}

func (r docRepo) SetStatus(ctx context.Context, q dbx.DBTX, id string, status model.DocumentStatus) error {
	defer r.f.lockUnlessTx(q)()
	if d, ok := r.f.docs[id]; ok {
		d.Status = status
	}
	return nil
}

func (r docRepo) SoftDelete(ctx context.Context, q dbx.DBTX, id string, at time.Time) error {
	defer r.f.lockUnlessTx(q)()
	if d, ok := r.f.docs[id]; ok {
		d.DeletedAt = &at
	}
	return nil
}

func (r docRepo) BumpLikeCount(ctx context.Context, q dbx.DBTX, id string, delta int64) (int64, error) {
	defer r.f.lockUnlessTx(q)()
	d, ok := r.f.docs[id]
	if !ok {
		return 0, sql.ErrNoRows
	}
	d.LikeCount += delta
	return d.LikeCount, nil
}

type grantRepo struct{ f *fakeStore }

var _ repository.GrantRepository = grantRepo{}

func (r grantRepo) Insert(ctx context.Context, q dbx.DBTX, accountID, documentID string) (bool, error) {
	defer r.f.lockUnlessTx(q)()
	k := pairKey{accountID, documentID}
	if r.f.grants[k] {
		return false, nil
	}
	r.f.grants[k] = true
	return true, nil
}

func (r grantRepo) Exists(ctx context.Context, q dbx.DBTX, accountID, documentID string) (bool, error) {
	defer r.f.lockUnlessTx(q)()
	return r.f.grants[pairKey{accountID, documentID}], nil
}

type likeRepo struct{ f *fakeStore }

var _ repository.LikeRepository = likeRepo{}

func (r likeRepo) Insert(ctx context.Context, q dbx.DBTX, accountID, documentID string) (bool, error) {
	defer r.f.lockUnlessTx(q)()
	k := pairKey{accountID, documentID}
	if r.f.likes[k] {
		return false, nil
	}
	r.f.likes[k] = true
	return true, nil
}

func (r likeRepo) Delete(ctx context.Context, q dbx.DBTX, accountID, documentID string) (bool, error) {
	defer r.f.lockUnlessTx(q)()
	k := pairKey{accountID, documentID}
	if !r.f.likes[k] {
		return false, nil
	}
	delete(r.f.likes, k)
	return true, nil
}

func (r likeRepo) Exists(ctx context.Context, q dbx.DBTX, accountID, documentID string) (bool, error) {
	defer r.f.lockUnlessTx(q)()
	return r.f.likes[pairKey{accountID, documentID}], nil
}
