// Package repository defines the data-access contracts the services depend
// on. Implementations live under infra/repository; services never see the
// store directly.
package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mkhalaf/bankcore/pkg/domain"
	"github.com/mkhalaf/bankcore/pkg/dto"
)

// PersonRepository persists the person composite (core row, name row, email
// rows) as one unit.
type PersonRepository interface {
	// Create inserts the core row, the name row and every email row. Inside a
	// unit of work the inserts commit or roll back together.
	Create(ctx context.Context, p *domain.Person) error
	Get(ctx context.Context, key domain.PersonKey) (*domain.Person, error)
	Exists(ctx context.Context, key domain.PersonKey) (bool, error)
}

// BankRepository persists the bank composite (bank row + location row).
type BankRepository interface {
	Create(ctx context.Context, b *domain.Bank) error
	Get(ctx context.Context, id int64) (*domain.Bank, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// BranchRepository persists the branch composite (branch row + location row).
// Branch codes are unique only within their owning bank.
type BranchRepository interface {
	Create(ctx context.Context, b *domain.Branch) error
	Exists(ctx context.Context, bankID, code int64) (bool, error)
}

// AccountRepository persists the account composite (account row + one subtype
// row). Balance mutation is restricted to UpdateBalance so only the transfer
// path can touch it.
type AccountRepository interface {
	Create(ctx context.Context, a *domain.Account) error
	Get(ctx context.Context, number int64) (*domain.Account, error)
	// GetForUpdate loads the account row under an exclusive row lock. Only
	// meaningful inside a unit of work.
	GetForUpdate(ctx context.Context, number int64) (*domain.Account, error)
	UpdateBalance(ctx context.Context, number int64, balance decimal.Decimal) error
}

// TransactionRepository appends immutable ledger rows.
type TransactionRepository interface {
	Create(ctx context.Context, t *domain.Transaction) error
	Get(ctx context.Context, id int64) (*domain.Transaction, error)
}

// BudgetRepository persists the budget composite (limit row + window row).
type BudgetRepository interface {
	Create(ctx context.Context, b *domain.Budget) error
	Get(ctx context.Context, category string, owner domain.PersonKey) (*domain.Budget, error)
	// UpdateLimit returns the number of budgets matched so callers can
	// distinguish "no such budget" from success.
	UpdateLimit(ctx context.Context, category string, owner domain.PersonKey, limit decimal.Decimal) (int64, error)
}

// GoalRepository persists savings goals and serves the two-phase purge.
type GoalRepository interface {
	Create(ctx context.Context, g *domain.SavingsGoal) error
	Get(ctx context.Context, key domain.GoalKey) (*domain.SavingsGoal, error)
	// FindExpired returns goals whose deadline has passed and whose saving is
	// still short of the target.
	FindExpired(ctx context.Context, now time.Time) ([]domain.SavingsGoal, error)
	// Delete removes the deadline row then the primary row for one goal.
	Delete(ctx context.Context, key domain.GoalKey) error
}

// LocationRepository registers country+pincode pairs.
type LocationRepository interface {
	Create(ctx context.Context, l *domain.Location) error
}

// Key scopes understood by the allocator.
const (
	ScopeBank        = "bank"
	ScopeBranch      = "branch"
	ScopeAccount     = "account"
	ScopeTransaction = "transaction"
)

// KeyAllocator hands out surrogate keys. Allocation takes an exclusive lock
// on the scope's counter, so concurrent callers always receive distinct keys.
// Must be called inside the unit of work that inserts the keyed row.
type KeyAllocator interface {
	// Next returns the next key for a global scope (bank id, account number,
	// transaction id).
	Next(ctx context.Context, scope string) (int64, error)
	// NextScoped returns the next key within a parent, e.g. the branch code
	// inside one bank.
	NextScoped(ctx context.Context, scope string, parent int64) (int64, error)
}

// ReportingRepository serves the read-only display queries. Every query is
// parameterized; implementations never interpolate caller input.
type ReportingRepository interface {
	PersonTransactions(ctx context.Context, key domain.PersonKey) ([]dto.TransactionRow, error)
	BranchAccounts(ctx context.Context, bankID, branchCode int64) ([]dto.BranchAccountRow, error)
	HighIncomePersons(ctx context.Context, threshold decimal.Decimal) ([]dto.PersonRead, error)
	BankBranchCounts(ctx context.Context) ([]dto.BankBranchCountRow, error)
	TransactionTotal(ctx context.Context, key domain.PersonKey, from, to time.Time) (decimal.Decimal, error)
	MaxBalanceAccount(ctx context.Context) (*dto.MaxBalanceRow, error)
	CountryExpenditure(ctx context.Context) ([]dto.CountryExpenditureRow, error)
	SearchPersonsByName(ctx context.Context, pattern string) ([]dto.PersonRead, error)
	SearchBanksByName(ctx context.Context, pattern string) ([]dto.BankSearchRow, error)
	ExpenditurePatterns(ctx context.Context, minPercent decimal.Decimal) ([]dto.ExpenditurePatternRow, error)
	TransactionPatterns(ctx context.Context, from, to time.Time, minCount int64) ([]dto.TransactionPatternRow, error)
}
