// Package repository implements the data-access contracts over GORM. The
// unit of work wraps gorm's Transaction so that every repository obtained
// inside Do shares one store session and commits or rolls back together.
package repository

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mkhalaf/bankcore/pkg/repository"
)

// UoW binds repository access to a transaction boundary. Outside Do the
// accessors run on the plain connection, which suits read-only work.
type UoW struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUoW creates a unit of work over the given connection.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

// session returns the transaction when one is open, the connection otherwise.
func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// Do runs fn inside a transaction at the store's default isolation level.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	})
	return mapError(err)
}

// DoSerializable runs fn at serializable isolation, the level the transfer
// path requires.
func (u *UoW) DoSerializable(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	return mapError(err)
}

func (u *UoW) Persons() repository.PersonRepository { return &personRepository{db: u.session()} }
func (u *UoW) Banks() repository.BankRepository     { return &bankRepository{db: u.session()} }
func (u *UoW) Branches() repository.BranchRepository {
	return &branchRepository{db: u.session()}
}
func (u *UoW) Accounts() repository.AccountRepository {
	return &accountRepository{db: u.session()}
}
func (u *UoW) Transactions() repository.TransactionRepository {
	return &transactionRepository{db: u.session()}
}
func (u *UoW) Budgets() repository.BudgetRepository { return &budgetRepository{db: u.session()} }
func (u *UoW) Goals() repository.GoalRepository     { return &goalRepository{db: u.session()} }
func (u *UoW) Locations() repository.LocationRepository {
	return &locationRepository{db: u.session()}
}
func (u *UoW) Keys() repository.KeyAllocator { return &keyAllocator{db: u.session()} }
func (u *UoW) Reports() repository.ReportingRepository {
	return &reportingRepository{db: u.session()}
}

// lockForUpdate adds an exclusive row lock to the query. SQLite has no row
// locks; its single-writer model already serializes writers, so the clause is
// skipped there to keep the test store on the same code path.
func lockForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
