package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mkhalaf/bankcore/pkg/domain"
	repo "github.com/mkhalaf/bankcore/pkg/repository"
)

// counterSeed describes where a scope's counter is seeded from when it does
// not exist yet, so the allocator can be introduced over pre-existing rows.
type counterSeed struct {
	table        string
	column       string
	parentColumn string
}

var counterSeeds = map[string]counterSeed{
	repo.ScopeBank:        {table: "banks", column: "id"},
	repo.ScopeBranch:      {table: "branches", column: "code", parentColumn: "bank_id"},
	repo.ScopeAccount:     {table: "accounts", column: "number"},
	repo.ScopeTransaction: {table: "transactions", column: "id"},
}

// keyAllocator allocates surrogate keys from a locked counter row. The read
// and the increment happen under one exclusive lock inside the caller's unit
// of work, so two concurrent callers can never be handed the same key.
type keyAllocator struct {
	db *gorm.DB
}

func (a *keyAllocator) Next(ctx context.Context, scope string) (int64, error) {
	return a.next(ctx, scope, 0)
}

func (a *keyAllocator) NextScoped(ctx context.Context, scope string, parent int64) (int64, error) {
	return a.next(ctx, scope, parent)
}

func (a *keyAllocator) next(ctx context.Context, scope string, parent int64) (int64, error) {
	seed, ok := counterSeeds[scope]
	if !ok {
		return 0, domain.Wrap(domain.ErrValidation, fmt.Sprintf("unknown key scope %q", scope))
	}

	if err := a.ensureCounter(ctx, scope, parent, seed); err != nil {
		return 0, mapError(err)
	}

	var counter KeyCounter
	tx := lockForUpdate(a.db.WithContext(ctx)).
		Where("scope = ? AND parent = ?", scope, parent).
		First(&counter)
	if tx.Error != nil {
		return 0, mapError(tx.Error)
	}

	counter.Value++
	err := a.db.WithContext(ctx).
		Model(&KeyCounter{}).
		Where("scope = ? AND parent = ?", scope, parent).
		Update("value", counter.Value).Error
	if err != nil {
		return 0, mapError(err)
	}
	return counter.Value, nil
}

// ensureCounter seeds the counter row from the current maximum of the keyed
// column. The conflict clause makes concurrent first allocations converge on
// one row, which the caller then locks.
func (a *keyAllocator) ensureCounter(ctx context.Context, scope string, parent int64, seed counterSeed) error {
	q := fmt.Sprintf("SELECT COALESCE(MAX(%s), 0) FROM %s", seed.column, seed.table)
	var max int64
	var err error
	if seed.parentColumn != "" {
		q += fmt.Sprintf(" WHERE %s = ?", seed.parentColumn)
		err = a.db.WithContext(ctx).Raw(q, parent).Scan(&max).Error
	} else {
		err = a.db.WithContext(ctx).Raw(q).Scan(&max).Error
	}
	if err != nil {
		return err
	}

	return a.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&KeyCounter{Scope: scope, Parent: parent, Value: max}).Error
}
