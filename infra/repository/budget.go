package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mkhalaf/bankcore/pkg/domain"
)

type budgetRepository struct {
	db *gorm.DB
}

func (r *budgetRepository) Create(ctx context.Context, b *domain.Budget) error {
	row := Budget{
		Category:      b.Category,
		Nationality:   b.Owner.Nationality,
		NationalID:    b.Owner.NationalID,
		BudgetLimit:   b.Limit,
		CurrentExpend: b.CurrentExpend,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return mapError(err)
	}
	window := BudgetWindow{
		Category:    b.Category,
		Nationality: b.Owner.Nationality,
		NationalID:  b.Owner.NationalID,
		Until:       b.WindowEnd,
	}
	return mapError(r.db.WithContext(ctx).Create(&window).Error)
}

func (r *budgetRepository) Get(ctx context.Context, category string, owner domain.PersonKey) (*domain.Budget, error) {
	var row Budget
	err := r.db.WithContext(ctx).
		Where("category = ? AND nationality = ? AND national_id = ?",
			category, owner.Nationality, owner.NationalID).
		First(&row).Error
	if err != nil {
		return nil, mapError(err)
	}
	var window BudgetWindow
	err = r.db.WithContext(ctx).
		Where("category = ? AND nationality = ? AND national_id = ?",
			category, owner.Nationality, owner.NationalID).
		First(&window).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &domain.Budget{
		Category:      row.Category,
		Owner:         owner,
		Limit:         row.BudgetLimit,
		CurrentExpend: row.CurrentExpend,
		WindowEnd:     window.Until,
	}, nil
}

func (r *budgetRepository) UpdateLimit(ctx context.Context, category string, owner domain.PersonKey, limit decimal.Decimal) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&Budget{}).
		Where("category = ? AND nationality = ? AND national_id = ?",
			category, owner.Nationality, owner.NationalID).
		Update("budget_limit", limit)
	if tx.Error != nil {
		return 0, mapError(tx.Error)
	}
	return tx.RowsAffected, nil
}

type goalRepository struct {
	db *gorm.DB
}

func (r *goalRepository) Create(ctx context.Context, g *domain.SavingsGoal) error {
	row := SavingsGoal{
		Name:          g.Key.Name,
		Nationality:   g.Key.Owner.Nationality,
		NationalID:    g.Key.Owner.NationalID,
		TargetAmount:  g.TargetAmount,
		CurrentSaving: g.CurrentSaving,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return mapError(err)
	}
	deadline := SavingsGoalDeadline{
		Name:        g.Key.Name,
		Nationality: g.Key.Owner.Nationality,
		NationalID:  g.Key.Owner.NationalID,
		Deadline:    g.Deadline,
	}
	return mapError(r.db.WithContext(ctx).Create(&deadline).Error)
}

func (r *goalRepository) Get(ctx context.Context, key domain.GoalKey) (*domain.SavingsGoal, error) {
	var row SavingsGoal
	err := r.db.WithContext(ctx).
		Where("name = ? AND nationality = ? AND national_id = ?",
			key.Name, key.Owner.Nationality, key.Owner.NationalID).
		First(&row).Error
	if err != nil {
		return nil, mapError(err)
	}
	var deadline SavingsGoalDeadline
	err = r.db.WithContext(ctx).
		Where("name = ? AND nationality = ? AND national_id = ?",
			key.Name, key.Owner.Nationality, key.Owner.NationalID).
		First(&deadline).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &domain.SavingsGoal{
		Key:           key,
		TargetAmount:  row.TargetAmount,
		CurrentSaving: row.CurrentSaving,
		Deadline:      deadline.Deadline,
	}, nil
}

// FindExpired joins the target and deadline rows and keeps only goals past
// their deadline and short of their target. Amount comparison happens here in
// SQL so the discovery pass stays a single query.
func (r *goalRepository) FindExpired(ctx context.Context, now time.Time) ([]domain.SavingsGoal, error) {
	type expiredRow struct {
		Name          string
		Nationality   string
		NationalID    string
		TargetAmount  decimal.Decimal
		CurrentSaving decimal.Decimal
		Deadline      time.Time
	}
	var rows []expiredRow
	err := r.db.WithContext(ctx).
		Table("savings_goals").
		Select("savings_goals.name, savings_goals.nationality, savings_goals.national_id, savings_goals.target_amount, savings_goals.current_saving, savings_goal_deadlines.deadline").
		Joins("JOIN savings_goal_deadlines ON savings_goal_deadlines.name = savings_goals.name AND savings_goal_deadlines.nationality = savings_goals.nationality AND savings_goal_deadlines.national_id = savings_goals.national_id").
		Where("savings_goal_deadlines.deadline < ? AND savings_goals.current_saving < savings_goals.target_amount", now).
		Scan(&rows).Error
	if err != nil {
		return nil, mapError(err)
	}
	goals := make([]domain.SavingsGoal, 0, len(rows))
	for _, row := range rows {
		goals = append(goals, domain.SavingsGoal{
			Key: domain.GoalKey{
				Name: row.Name,
				Owner: domain.PersonKey{
					Nationality: row.Nationality,
					NationalID:  row.NationalID,
				},
			},
			TargetAmount:  row.TargetAmount,
			CurrentSaving: row.CurrentSaving,
			Deadline:      row.Deadline,
		})
	}
	return goals, nil
}

// Delete removes the deadline row first, then the primary row, honoring the
// dependent-before-parent order.
func (r *goalRepository) Delete(ctx context.Context, key domain.GoalKey) error {
	err := r.db.WithContext(ctx).
		Where("name = ? AND nationality = ? AND national_id = ?",
			key.Name, key.Owner.Nationality, key.Owner.NationalID).
		Delete(&SavingsGoalDeadline{}).Error
	if err != nil {
		return mapError(err)
	}
	tx := r.db.WithContext(ctx).
		Where("name = ? AND nationality = ? AND national_id = ?",
			key.Name, key.Owner.Nationality, key.Owner.NationalID).
		Delete(&SavingsGoal{})
	if tx.Error != nil {
		return mapError(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
