package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"notestand/internal/model"
)

var accountCols = []string{"id", "display_name", "ref", "balance", "admin", "created_at"}

func TestAccountPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAccountPostgres()
	ctx := context.Background()

	now := time.Now().UTC()
	acc := &model.Account{ID: "acc-1", DisplayName: "Ada", Ref: "ada-001", Balance: 0, CreatedAt: now}

	rows := sqlmock.NewRows(accountCols).
		AddRow(acc.ID, acc.DisplayName, acc.Ref, acc.Balance, false, acc.CreatedAt)

	mock.ExpectQuery("INSERT INTO accounts").
		WithArgs(acc.ID, acc.DisplayName, acc.Ref, acc.Balance, false, acc.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, db, acc)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "acc-1", result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAccountPostgres()
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(accountCols).
			AddRow("acc-1", "Ada", "ada-001", 42, false, time.Now())

		mock.ExpectQuery("SELECT (.+) FROM accounts WHERE id = ?").
			WithArgs("acc-1").
			WillReturnRows(rows)

		acc, err := repo.FindByID(ctx, db, "acc-1")

		assert.NoError(t, err)
		assert.Equal(t, int64(42), acc.Balance)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM accounts WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		acc, err := repo.FindByID(ctx, db, "missing")

		assert.Nil(t, acc)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestAccountPostgres_Debit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAccountPostgres()
	ctx := context.Background()

	t.Run("sufficient balance", func(t *testing.T) {
		mock.ExpectExec("UPDATE accounts SET balance = balance -").
			WithArgs(int64(3), "acc-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.Debit(ctx, db, "acc-1", 3)

		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("insufficient balance affects no rows", func(t *testing.T) {
		mock.ExpectExec("UPDATE accounts SET balance = balance -").
			WithArgs(int64(10), "acc-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.Debit(ctx, db, "acc-1", 10)

		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestAccountPostgres_Credit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAccountPostgres()
	ctx := context.Background()

	t.Run("credited", func(t *testing.T) {
		mock.ExpectExec("UPDATE accounts SET balance = balance \\+").
			WithArgs(int64(5), "acc-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Credit(ctx, db, "acc-1", 5)

		assert.NoError(t, err)
	})

	// A credit that lands on no row must error so the surrounding transfer
	// transaction rolls back instead of committing a one-sided debit.
	t.Run("missing account", func(t *testing.T) {
		mock.ExpectExec("UPDATE accounts SET balance = balance \\+").
			WithArgs(int64(5), "ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Credit(ctx, db, "ghost", 5)

		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
