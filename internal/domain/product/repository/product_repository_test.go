package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return gdb, mock
}

func TestReserveStock(t *testing.T) {
	t.Run("Guarded decrement hits one row", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		repo := NewProductRepository(gdb)

		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.ReserveStock(gdb, "product-1", 2)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Guard miss surfaces stock exhausted", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		repo := NewProductRepository(gdb)

		// stock >= qty 不满足时 UPDATE 命中 0 行，绝不写成负数
		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.ReserveStock(gdb, "product-1", 99)

		assert.ErrorIs(t, err, ErrStockExhausted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReleaseStock(t *testing.T) {
	t.Run("Compensating increment", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		repo := NewProductRepository(gdb)

		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.ReleaseStock(gdb, "product-1", 2)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown product", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		repo := NewProductRepository(gdb)

		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.ReleaseStock(gdb, "ghost", 2)

		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}
