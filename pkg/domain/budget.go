package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a composite entity: the limit row plus its duration-window row,
// keyed by (category, owner).
type Budget struct {
	Category      string
	Owner         PersonKey
	Limit         decimal.Decimal
	CurrentExpend decimal.Decimal
	WindowEnd     time.Time
}

// GoalKey identifies a savings goal.
type GoalKey struct {
	Name  string
	Owner PersonKey
}

// SavingsGoal is a composite entity: the target row plus its deadline row.
type SavingsGoal struct {
	Key           GoalKey
	TargetAmount  decimal.Decimal
	CurrentSaving decimal.Decimal
	Deadline      time.Time
}

// Expired reports whether the goal is eligible for removal: past its deadline
// and still short of its target. Both conditions are required.
func (g *SavingsGoal) Expired(now time.Time) bool {
	return g.Deadline.Before(now) && g.CurrentSaving.LessThan(g.TargetAmount)
}
