package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reporting rows. These are produced by parameterized read-only queries and
// rendered by the shell; the core never formats them.

// TransactionRow is one ledger entry in a person's history.
type TransactionRow struct {
	TransactionID   int64
	At              time.Time
	Amount          decimal.Decimal
	SenderAccount   int64
	ReceiverAccount int64
}

// BranchAccountRow lists an account held at a branch with its holder and the
// branch manager.
type BranchAccountRow struct {
	AccountNumber int64
	Balance       decimal.Decimal
	HolderName    string
	HolderPhone   string
	ManagerName   string
}

// BankBranchCountRow pairs a bank with its branch count.
type BankBranchCountRow struct {
	BankName    string
	BranchCount int64
}

// MaxBalanceRow is the account holding the maximum balance system-wide.
type MaxBalanceRow struct {
	AccountNumber int64
	Balance       decimal.Decimal
	HolderName    string
}

// CountryExpenditureRow aggregates average annual expenditure per nationality.
type CountryExpenditureRow struct {
	Nationality    string
	AvgExpenditure decimal.Decimal
	PersonCount    int64
}

// BankSearchRow is one match of a bank-name search, with the bank's
// registered location and branch count.
type BankSearchRow struct {
	BankName    string
	Country     string
	Pincode     string
	BranchCount int64
}

// ExpenditurePatternRow groups persons spending above an income share
// threshold by nationality.
type ExpenditurePatternRow struct {
	Nationality     string
	PersonCount     int64
	AvgSpendPercent decimal.Decimal
}

// TransactionPatternRow is one frequent sender inside a reporting period.
type TransactionPatternRow struct {
	FullName         string
	TransactionCount int64
	TotalAmount      decimal.Decimal
	AvgAmount        decimal.Decimal
}
