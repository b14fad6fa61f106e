package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mkhalaf/bankcore/pkg/domain"
)

type accountRepository struct {
	db *gorm.DB
}

// Create inserts the primary account row followed by exactly one subtype row
// chosen by the account's tag.
func (r *accountRepository) Create(ctx context.Context, a *domain.Account) error {
	row := Account{
		Number:           a.Number,
		OwnerNationality: a.Owner.Nationality,
		OwnerNationalID:  a.Owner.NationalID,
		BranchCode:       a.BranchCode,
		BankID:           a.BankID,
		Balance:          a.Balance,
		Type:             string(a.Type),
		CreatedAt:        a.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return mapError(err)
	}
	return r.createDetails(ctx, a.Number, a.Details)
}

func (r *accountRepository) createDetails(ctx context.Context, number int64, details domain.AccountDetails) error {
	var row any
	switch d := details.(type) {
	case domain.CurrentDetails:
		row = &CurrentAccount{
			Number:                  number,
			MinBalance:              d.MinBalance,
			MonthlyTransactionLimit: d.MonthlyTransactionLimit,
		}
	case domain.SavingDetails:
		row = &SavingAccount{
			Number:                 number,
			MinBalance:             d.MinBalance,
			InterestRate:           d.InterestRate,
			MonthlyWithdrawalLimit: d.MonthlyWithdrawalLimit,
		}
	case domain.SalaryDetails:
		row = &SalaryAccount{
			Number:         number,
			OrganisationID: d.OrganisationID,
			EmployeeID:     d.EmployeeID,
		}
	case domain.DematDetails:
		row = &DematAccount{
			Number:             number,
			DPID:               d.DPID,
			TradingAccountLink: d.TradingAccountLink,
			MaintenanceCharges: d.MaintenanceCharges,
		}
	case domain.FixedDepositDetails:
		row = &FixedDepositAccount{
			Number:           number,
			LockedUntil:      d.LockedUntil,
			MaturityDate:     d.MaturityDate,
			PrematurePenalty: d.PrematurePenalty,
		}
	default:
		return domain.Wrap(domain.ErrValidation, fmt.Sprintf("unknown account details %T", details))
	}
	return mapError(r.db.WithContext(ctx).Create(row).Error)
}

func (r *accountRepository) Get(ctx context.Context, number int64) (*domain.Account, error) {
	return r.get(ctx, r.db, number)
}

// GetForUpdate takes the exclusive row lock the transfer path relies on:
// the balance read that follows is already protected by the lock.
func (r *accountRepository) GetForUpdate(ctx context.Context, number int64) (*domain.Account, error) {
	return r.get(ctx, lockForUpdate(r.db), number)
}

func (r *accountRepository) get(ctx context.Context, db *gorm.DB, number int64) (*domain.Account, error) {
	var row Account
	if err := db.WithContext(ctx).First(&row, "number = ?", number).Error; err != nil {
		return nil, mapError(err)
	}
	acct := &domain.Account{
		Number: row.Number,
		Owner: domain.PersonKey{
			Nationality: row.OwnerNationality,
			NationalID:  row.OwnerNationalID,
		},
		BranchCode: row.BranchCode,
		BankID:     row.BankID,
		Balance:    row.Balance,
		Type:       domain.AccountType(row.Type),
		CreatedAt:  row.CreatedAt,
	}
	details, err := r.getDetails(ctx, acct.Number, acct.Type)
	if err != nil {
		return nil, err
	}
	acct.Details = details
	return acct, nil
}

func (r *accountRepository) getDetails(ctx context.Context, number int64, typ domain.AccountType) (domain.AccountDetails, error) {
	switch typ {
	case domain.AccountCurrent:
		var d CurrentAccount
		if err := r.db.WithContext(ctx).First(&d, "number = ?", number).Error; err != nil {
			return nil, mapError(err)
		}
		return domain.CurrentDetails{
			MinBalance:              d.MinBalance,
			MonthlyTransactionLimit: d.MonthlyTransactionLimit,
		}, nil
	case domain.AccountSaving:
		var d SavingAccount
		if err := r.db.WithContext(ctx).First(&d, "number = ?", number).Error; err != nil {
			return nil, mapError(err)
		}
		return domain.SavingDetails{
			MinBalance:             d.MinBalance,
			InterestRate:           d.InterestRate,
			MonthlyWithdrawalLimit: d.MonthlyWithdrawalLimit,
		}, nil
	case domain.AccountSalary:
		var d SalaryAccount
		if err := r.db.WithContext(ctx).First(&d, "number = ?", number).Error; err != nil {
			return nil, mapError(err)
		}
		return domain.SalaryDetails{
			OrganisationID: d.OrganisationID,
			EmployeeID:     d.EmployeeID,
		}, nil
	case domain.AccountDemat:
		var d DematAccount
		if err := r.db.WithContext(ctx).First(&d, "number = ?", number).Error; err != nil {
			return nil, mapError(err)
		}
		return domain.DematDetails{
			DPID:               d.DPID,
			TradingAccountLink: d.TradingAccountLink,
			MaintenanceCharges: d.MaintenanceCharges,
		}, nil
	case domain.AccountFixedDeposit:
		var d FixedDepositAccount
		if err := r.db.WithContext(ctx).First(&d, "number = ?", number).Error; err != nil {
			return nil, mapError(err)
		}
		return domain.FixedDepositDetails{
			LockedUntil:      d.LockedUntil,
			MaturityDate:     d.MaturityDate,
			PrematurePenalty: d.PrematurePenalty,
		}, nil
	}
	return nil, domain.Wrap(domain.ErrValidation, fmt.Sprintf("unknown account type %q", typ))
}

func (r *accountRepository) UpdateBalance(ctx context.Context, number int64, balance decimal.Decimal) error {
	tx := r.db.WithContext(ctx).Model(&Account{}).
		Where("number = ?", number).
		Update("balance", balance)
	if tx.Error != nil {
		return mapError(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type transactionRepository struct {
	db *gorm.DB
}

func (r *transactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	row := Transaction{
		ID:       t.ID,
		At:       t.At,
		Amount:   t.Amount,
		Sender:   t.Sender,
		Receiver: t.Receiver,
	}
	return mapError(r.db.WithContext(ctx).Create(&row).Error)
}

func (r *transactionRepository) Get(ctx context.Context, id int64) (*domain.Transaction, error) {
	var row Transaction
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return &domain.Transaction{
		ID:       row.ID,
		At:       row.At,
		Amount:   row.Amount,
		Sender:   row.Sender,
		Receiver: row.Receiver,
	}, nil
}
