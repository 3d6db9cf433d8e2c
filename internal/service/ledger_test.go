package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedgerFixture(t *testing.T) (*fakeStore, LedgerService) {
	t.Helper()
	store := newFakeStore()
	svc := NewLedgerService(fakePool, store, accountRepo{store})
	return store, svc
}

func TestTransferMovesFundsAtomically(t *testing.T) {
	store, svc := newLedgerFixture(t)
	store.addAccount("a", 10)
	store.addAccount("b", 1)

	err := svc.Transfer(context.Background(), "a", "b", 4)
	require.NoError(t, err)
	assert.Equal(t, int64(6), store.balance("a"))
	assert.Equal(t, int64(5), store.balance("b"))
}

func TestTransferInsufficientFundsLeavesBalances(t *testing.T) {
	store, svc := newLedgerFixture(t)
	store.addAccount("a", 3)
	store.addAccount("b", 0)

	err := svc.Transfer(context.Background(), "a", "b", 4)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, int64(3), store.balance("a"))
	assert.Equal(t, int64(0), store.balance("b"))
}

func TestTransferExactBalanceDrainsToZero(t *testing.T) {
	store, svc := newLedgerFixture(t)
	store.addAccount("a", 4)
	store.addAccount("b", 0)

	err := svc.Transfer(context.Background(), "a", "b", 4)
	require.NoError(t, err)
	assert.Equal(t, int64(0), store.balance("a"))
	assert.Equal(t, int64(4), store.balance("b"))
}

func TestTransferToUnknownAccountRollsBack(t *testing.T) {
	store, svc := newLedgerFixture(t)
	store.addAccount("payer", 10)

	// The credit side finds no row, so the debit must not survive either.
	err := svc.Transfer(context.Background(), "payer", "ghost", 5)
	assert.Error(t, err)
	assert.Equal(t, int64(10), store.balance("payer"))
}

func TestTransferRejectsNonPositiveAmounts(t *testing.T) {
	store, svc := newLedgerFixture(t)
	store.addAccount("a", 10)
	store.addAccount("b", 0)

	assert.ErrorIs(t, svc.Transfer(context.Background(), "a", "b", 0), ErrInvalidAmount)
	assert.ErrorIs(t, svc.Transfer(context.Background(), "a", "b", -5), ErrInvalidAmount)
	assert.Equal(t, int64(10), store.balance("a"))
}

func TestTopUp(t *testing.T) {
	store, svc := newLedgerFixture(t)
	store.addAccount("a", 2)

	require.NoError(t, svc.TopUp(context.Background(), "a", 8))
	assert.Equal(t, int64(10), store.balance("a"))

	assert.ErrorIs(t, svc.TopUp(context.Background(), "a", 0), ErrInvalidAmount)
	assert.ErrorIs(t, svc.TopUp(context.Background(), "", 5), ErrIDRequired)
	assert.ErrorIs(t, svc.TopUp(context.Background(), "missing", 5), ErrNotFound)
}

func TestCreateAndGetAccount(t *testing.T) {
	store, svc := newLedgerFixture(t)

	acc, err := svc.CreateAccount(context.Background(), "Ada", "ada-001")
	require.NoError(t, err)
	assert.NotEmpty(t, acc.ID)
	assert.Equal(t, "Ada", acc.DisplayName)
	assert.Equal(t, "ada-001", acc.Ref)
	assert.Equal(t, int64(0), acc.Balance)

	got, err := svc.GetAccount(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, got.ID)
	assert.Equal(t, int64(0), store.balance(acc.ID))
}

func TestGetAccountUnknown(t *testing.T) {
	_, svc := newLedgerFixture(t)

	_, err := svc.GetAccount(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
