package dto

import (
	"github.com/shopspring/decimal"
)

// AccountCreate opens an account of the tagged subtype. Exactly the subtype
// fields matching Type are consulted; the rest are ignored.
type AccountCreate struct {
	OwnerNationality string `validate:"required,max=64"`
	OwnerNationalID  string `validate:"required,max=64"`
	BankID           int64  `validate:"required,gt=0"`
	BranchCode       int64  `validate:"required,gt=0"`
	Type             string `validate:"required,oneof=current saving salary demat fixed_deposit"`
	InitialBalance   decimal.Decimal

	// current
	MinBalance              decimal.Decimal
	MonthlyTransactionLimit int

	// saving
	InterestRate           decimal.Decimal
	MonthlyWithdrawalLimit int

	// salary
	OrganisationID string
	EmployeeID     string

	// demat
	DPID               string
	TradingAccountLink string
	MaintenanceCharges decimal.Decimal

	// fixed deposit
	LockedUntil      string `validate:"omitempty,datetime=2006-01-02"`
	MaturityDate     string `validate:"omitempty,datetime=2006-01-02"`
	PrematurePenalty decimal.Decimal
}

// TransferRequest moves Amount from the session holder's account to the
// receiver account. Secret is the sender's transaction password, re-verified
// before any lock is taken.
type TransferRequest struct {
	SenderAccount   int64 `validate:"required,gt=0"`
	ReceiverAccount int64 `validate:"required,gt=0"`
	Amount          decimal.Decimal
	Secret          string `validate:"required"`
}
