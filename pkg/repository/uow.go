package repository

import "context"

// UnitOfWork provides the transaction boundary and repository access in one
// abstraction. Repositories obtained inside Do share the transaction session,
// so everything written in fn commits or rolls back as one outcome.
//
// Outside Do the accessors are bound to the plain connection, which is the
// right session for read-only work such as reporting or the goal-purge
// discovery pass.
type UnitOfWork interface {
	// Do runs fn inside a transaction at the store's default isolation.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error
	// DoSerializable runs fn at serializable isolation. The transfer path
	// uses this together with a sender row lock.
	DoSerializable(ctx context.Context, fn func(uow UnitOfWork) error) error

	Persons() PersonRepository
	Banks() BankRepository
	Branches() BranchRepository
	Accounts() AccountRepository
	Transactions() TransactionRepository
	Budgets() BudgetRepository
	Goals() GoalRepository
	Locations() LocationRepository
	Keys() KeyAllocator
	Reports() ReportingRepository
}
