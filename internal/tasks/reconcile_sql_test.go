package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestRunOnceReportsRepairedRows(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("UPDATE tweets").WillReturnResult(sqlmock.NewResult(0, 2))

	r := NewReconciler(db, 0)
	require.NoError(t, r.RunOnce(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunOncePropagatesTweetCountError(t *testing.T) {
	db, mock := setupMockDB(t)

	boom := errors.New("connection reset")
	mock.ExpectExec("UPDATE users").WillReturnError(boom)

	r := NewReconciler(db, 0)
	err := r.RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunOncePropagatesLikeCountError(t *testing.T) {
	db, mock := setupMockDB(t)

	boom := errors.New("connection reset")
	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE tweets").WillReturnError(boom)

	r := NewReconciler(db, 0)
	err := r.RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
