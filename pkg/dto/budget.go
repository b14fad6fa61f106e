package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetCreate carries the budget row and its duration-window row.
// CurrentExpend always starts at zero.
type BudgetCreate struct {
	Category     string `validate:"required,max=64"`
	Nationality  string `validate:"required,max=64"`
	NationalID   string `validate:"required,max=64"`
	Limit        decimal.Decimal
	DurationDate string `validate:"required,datetime=2006-01-02"`
	DurationTime string `validate:"required,datetime=15:04:05"`
}

// BudgetLimitUpdate changes an existing budget's limit. When the new limit
// exceeds the owner's annual income the update is withheld with an advisory
// unless AcknowledgeWarning is set; the income comparison is never a hard
// constraint.
type BudgetLimitUpdate struct {
	Category           string `validate:"required,max=64"`
	Nationality        string `validate:"required,max=64"`
	NationalID         string `validate:"required,max=64"`
	NewLimit           decimal.Decimal
	AcknowledgeWarning bool
}

// BudgetAdvisory is returned instead of an error when an update needs caller
// confirmation.
type BudgetAdvisory struct {
	Message      string
	AnnualIncome decimal.Decimal
	NewLimit     decimal.Decimal
}

// GoalCreate carries the savings-goal row and its deadline row.
// CurrentSaving always starts at zero.
type GoalCreate struct {
	Name         string `validate:"required,max=64"`
	Nationality  string `validate:"required,max=64"`
	NationalID   string `validate:"required,max=64"`
	TargetAmount decimal.Decimal
	DeadlineDate string `validate:"required,datetime=2006-01-02"`
	DeadlineTime string `validate:"required,datetime=15:04:05"`
}

// GoalRead is the discovery-pass view of an expired goal, shown to the caller
// before the separately locked deletion pass.
type GoalRead struct {
	Name          string
	Nationality   string
	NationalID    string
	TargetAmount  decimal.Decimal
	CurrentSaving decimal.Decimal
	Deadline      time.Time
}
