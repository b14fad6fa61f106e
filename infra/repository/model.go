package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// Persisted models. Composite entities are split across a primary table and
// one or more dependent tables sharing the primary key; the repositories
// insert them parent-first inside the active unit of work.

// Person is the core person row.
type Person struct {
	Nationality          string  `gorm:"primaryKey;size:64"`
	NationalID           string  `gorm:"primaryKey;size:64"`
	PasswordHash         string  `gorm:"not null"`
	CustodianNationality *string `gorm:"size:64"`
	CustodianNationalID  *string `gorm:"size:64"`
	DateOfBirth          time.Time
	Phone                string          `gorm:"size:32"`
	AnnualIncome         decimal.Decimal `gorm:"type:decimal(20,2)"`
	AnnualExpenditure    decimal.Decimal `gorm:"type:decimal(20,2)"`
	CreatedAt            time.Time
}

func (Person) TableName() string { return "persons" }

// PersonName is the 1:1 name row.
type PersonName struct {
	Nationality string  `gorm:"primaryKey;size:64"`
	NationalID  string  `gorm:"primaryKey;size:64"`
	First       string  `gorm:"size:64;not null"`
	Middle      *string `gorm:"size:64"`
	Last        string  `gorm:"size:64;not null"`
}

func (PersonName) TableName() string { return "person_names" }

// PersonEmail is one of a person's 1..N email rows.
type PersonEmail struct {
	Email       string `gorm:"primaryKey;size:255"`
	Nationality string `gorm:"size:64;not null;index:idx_person_emails_owner"`
	NationalID  string `gorm:"size:64;not null;index:idx_person_emails_owner"`
}

func (PersonEmail) TableName() string { return "person_emails" }

// Bank is the registered-bank row. ID comes from the key allocator, never
// from the store's autoincrement.
type Bank struct {
	ID              int64  `gorm:"primaryKey;autoIncrement:false"`
	Name            string `gorm:"size:128;not null"`
	HeadNationality string `gorm:"size:64;not null"`
	HeadNationalID  string `gorm:"size:64;not null"`
}

func (Bank) TableName() string { return "banks" }

// BankLocation is the bank's dependent location row.
type BankLocation struct {
	BankID  int64  `gorm:"primaryKey;autoIncrement:false"`
	Country string `gorm:"size:64;not null"`
	Pincode string `gorm:"size:16;not null"`
}

func (BankLocation) TableName() string { return "bank_locations" }

// Branch is the branch row; Code is unique only within BankID.
type Branch struct {
	Code               int64  `gorm:"primaryKey;autoIncrement:false"`
	BankID             int64  `gorm:"primaryKey;autoIncrement:false"`
	ManagerNationality string `gorm:"size:64;not null"`
	ManagerNationalID  string `gorm:"size:64;not null"`
}

func (Branch) TableName() string { return "branches" }

// BranchLocation is the branch's dependent location row.
type BranchLocation struct {
	Code    int64  `gorm:"primaryKey;autoIncrement:false"`
	BankID  int64  `gorm:"primaryKey;autoIncrement:false"`
	Country string `gorm:"size:64;not null"`
	Pincode string `gorm:"size:16;not null"`
}

func (BranchLocation) TableName() string { return "branch_locations" }

// Account is the primary account row; one subtype row accompanies it.
type Account struct {
	Number           int64  `gorm:"primaryKey;autoIncrement:false"`
	OwnerNationality string `gorm:"size:64;not null;index:idx_accounts_owner"`
	OwnerNationalID  string `gorm:"size:64;not null;index:idx_accounts_owner"`
	BranchCode       int64
	BankID           int64
	Balance          decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Type             string          `gorm:"size:16;not null"`
	CreatedAt        time.Time
}

func (Account) TableName() string { return "accounts" }

// CurrentAccount is the current-account subtype row.
type CurrentAccount struct {
	Number                  int64           `gorm:"primaryKey;autoIncrement:false"`
	MinBalance              decimal.Decimal `gorm:"type:decimal(20,2)"`
	MonthlyTransactionLimit int
}

func (CurrentAccount) TableName() string { return "current_accounts" }

// SavingAccount is the saving-account subtype row.
type SavingAccount struct {
	Number                 int64           `gorm:"primaryKey;autoIncrement:false"`
	MinBalance             decimal.Decimal `gorm:"type:decimal(20,2)"`
	InterestRate           decimal.Decimal `gorm:"type:decimal(8,4)"`
	MonthlyWithdrawalLimit int
}

func (SavingAccount) TableName() string { return "saving_accounts" }

// SalaryAccount is the salary-account subtype row.
type SalaryAccount struct {
	Number         int64  `gorm:"primaryKey;autoIncrement:false"`
	OrganisationID string `gorm:"size:64"`
	EmployeeID     string `gorm:"size:64"`
}

func (SalaryAccount) TableName() string { return "salary_accounts" }

// DematAccount is the demat-account subtype row.
type DematAccount struct {
	Number             int64           `gorm:"primaryKey;autoIncrement:false"`
	DPID               string          `gorm:"size:64"`
	TradingAccountLink string          `gorm:"size:128"`
	MaintenanceCharges decimal.Decimal `gorm:"type:decimal(20,2)"`
}

func (DematAccount) TableName() string { return "demat_accounts" }

// FixedDepositAccount is the fixed-deposit subtype row.
type FixedDepositAccount struct {
	Number           int64 `gorm:"primaryKey;autoIncrement:false"`
	LockedUntil      time.Time
	MaturityDate     time.Time
	PrematurePenalty decimal.Decimal `gorm:"type:decimal(20,2)"`
}

func (FixedDepositAccount) TableName() string { return "fixed_deposit_accounts" }

// Transaction is an append-only ledger row.
type Transaction struct {
	ID       int64           `gorm:"primaryKey;autoIncrement:false"`
	At       time.Time       `gorm:"not null;index"`
	Amount   decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Sender   int64           `gorm:"not null;index"`
	Receiver int64           `gorm:"not null;index"`
}

func (Transaction) TableName() string { return "transactions" }

// Budget is the budget limit row.
type Budget struct {
	Category      string          `gorm:"primaryKey;size:64"`
	Nationality   string          `gorm:"primaryKey;size:64"`
	NationalID    string          `gorm:"primaryKey;size:64"`
	BudgetLimit   decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	CurrentExpend decimal.Decimal `gorm:"type:decimal(20,2);not null"`
}

func (Budget) TableName() string { return "budgets" }

// BudgetWindow is the budget's dependent duration row.
type BudgetWindow struct {
	Category    string    `gorm:"primaryKey;size:64"`
	Nationality string    `gorm:"primaryKey;size:64"`
	NationalID  string    `gorm:"primaryKey;size:64"`
	Until       time.Time `gorm:"not null"`
}

func (BudgetWindow) TableName() string { return "budget_windows" }

// SavingsGoal is the goal target row.
type SavingsGoal struct {
	Name          string          `gorm:"primaryKey;size:64"`
	Nationality   string          `gorm:"primaryKey;size:64"`
	NationalID    string          `gorm:"primaryKey;size:64"`
	TargetAmount  decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	CurrentSaving decimal.Decimal `gorm:"type:decimal(20,2);not null"`
}

func (SavingsGoal) TableName() string { return "savings_goals" }

// SavingsGoalDeadline is the goal's dependent deadline row.
type SavingsGoalDeadline struct {
	Name        string    `gorm:"primaryKey;size:64"`
	Nationality string    `gorm:"primaryKey;size:64"`
	NationalID  string    `gorm:"primaryKey;size:64"`
	Deadline    time.Time `gorm:"not null"`
}

func (SavingsGoalDeadline) TableName() string { return "savings_goal_deadlines" }

// Location resolves country+pincode to state and city.
type Location struct {
	Country string `gorm:"primaryKey;size:64"`
	Pincode string `gorm:"primaryKey;size:16"`
	State   string `gorm:"size:64"`
	City    string `gorm:"size:64"`
}

func (Location) TableName() string { return "locations" }

// KeyCounter backs the key allocator. One row per (scope, parent); Parent is
// zero for global scopes. The row is locked exclusively while a key is
// handed out.
type KeyCounter struct {
	Scope  string `gorm:"primaryKey;size:32"`
	Parent int64  `gorm:"primaryKey;autoIncrement:false"`
	Value  int64  `gorm:"not null"`
}

func (KeyCounter) TableName() string { return "key_counters" }

// Models lists every persisted model for automigration.
func Models() []any {
	return []any{
		&Person{}, &PersonName{}, &PersonEmail{},
		&Bank{}, &BankLocation{},
		&Branch{}, &BranchLocation{},
		&Account{}, &CurrentAccount{}, &SavingAccount{}, &SalaryAccount{},
		&DematAccount{}, &FixedDepositAccount{},
		&Transaction{},
		&Budget{}, &BudgetWindow{},
		&SavingsGoal{}, &SavingsGoalDeadline{},
		&Location{}, &KeyCounter{},
	}
}
