package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mkhalaf/bankcore/pkg/repository"
)

func newMockUoW(t *testing.T) (*UoW, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	}), &gorm.Config{})
	require.NoError(t, err)
	return NewUoW(db), mock
}

func TestUoW_DoCommits(t *testing.T) {
	uow, mock := newMockUoW(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	var inside repository.UnitOfWork
	err := uow.Do(context.Background(), func(tx repository.UnitOfWork) error {
		inside = tx
		return nil
	})
	require.NoError(t, err)
	assert.NotNil(t, inside)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUoW_DoRollsBackOnError(t *testing.T) {
	uow, mock := newMockUoW(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := uow.Do(context.Background(), func(repository.UnitOfWork) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUoW_DoSerializable(t *testing.T) {
	uow, mock := newMockUoW(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	err := uow.DoSerializable(context.Background(), func(repository.UnitOfWork) error {
		return nil
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUoW_AccessorsShareSession(t *testing.T) {
	uow, mock := newMockUoW(t)

	assert.NotNil(t, uow.Persons())
	assert.NotNil(t, uow.Banks())
	assert.NotNil(t, uow.Branches())
	assert.NotNil(t, uow.Accounts())
	assert.NotNil(t, uow.Transactions())
	assert.NotNil(t, uow.Budgets())
	assert.NotNil(t, uow.Goals())
	assert.NotNil(t, uow.Locations())
	assert.NotNil(t, uow.Keys())
	assert.NotNil(t, uow.Reports())

	mock.ExpectBegin()
	mock.ExpectCommit()
	err := uow.Do(context.Background(), func(tx repository.UnitOfWork) error {
		assert.NotNil(t, tx.Persons())
		assert.NotNil(t, tx.Accounts())
		return nil
	})
	require.NoError(t, err)
}
