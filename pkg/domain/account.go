package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType tags which subtype table carries an account's extra attributes.
type AccountType string

const (
	AccountCurrent      AccountType = "current"
	AccountSaving       AccountType = "saving"
	AccountSalary       AccountType = "salary"
	AccountDemat        AccountType = "demat"
	AccountFixedDeposit AccountType = "fixed_deposit"
)

// ParseAccountType normalizes a caller-supplied tag.
func ParseAccountType(s string) (AccountType, bool) {
	switch AccountType(s) {
	case AccountCurrent, AccountSaving, AccountSalary, AccountDemat, AccountFixedDeposit:
		return AccountType(s), true
	}
	return "", false
}

// AccountDetails is the tagged union over subtype attributes. Exactly one
// implementation exists per AccountType, and exactly one dependent row is
// written per account.
type AccountDetails interface {
	AccountType() AccountType
}

// CurrentDetails backs the current-account subtype row. MinBalance is the
// caller-supplied requirement the initial balance is checked against.
type CurrentDetails struct {
	MinBalance              decimal.Decimal
	MonthlyTransactionLimit int
}

func (CurrentDetails) AccountType() AccountType { return AccountCurrent }

// SavingDetails backs the saving-account subtype row.
type SavingDetails struct {
	MinBalance             decimal.Decimal
	InterestRate           decimal.Decimal
	MonthlyWithdrawalLimit int
}

func (SavingDetails) AccountType() AccountType { return AccountSaving }

// SalaryDetails backs the salary-account subtype row.
type SalaryDetails struct {
	OrganisationID string
	EmployeeID     string
}

func (SalaryDetails) AccountType() AccountType { return AccountSalary }

// DematDetails backs the demat-account subtype row.
type DematDetails struct {
	DPID               string
	TradingAccountLink string
	MaintenanceCharges decimal.Decimal
}

func (DematDetails) AccountType() AccountType { return AccountDemat }

// FixedDepositDetails backs the fixed-deposit subtype row.
type FixedDepositDetails struct {
	LockedUntil      time.Time
	MaturityDate     time.Time
	PrematurePenalty decimal.Decimal
}

func (FixedDepositDetails) AccountType() AccountType { return AccountFixedDeposit }

// Account is a composite entity: the account row plus exactly one subtype row
// keyed by the same account number. Number is a global surrogate key. Balance
// is mutated only by the transfer service and never goes negative.
type Account struct {
	Number     int64
	Owner      PersonKey
	BranchCode int64
	BankID     int64
	Balance    decimal.Decimal
	Type       AccountType
	Details    AccountDetails
	CreatedAt  time.Time
}
