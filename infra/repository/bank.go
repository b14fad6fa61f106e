package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mkhalaf/bankcore/pkg/domain"
)

type bankRepository struct {
	db *gorm.DB
}

func (r *bankRepository) Create(ctx context.Context, b *domain.Bank) error {
	bank := Bank{
		ID:              b.ID,
		Name:            b.Name,
		HeadNationality: b.GlobalHead.Nationality,
		HeadNationalID:  b.GlobalHead.NationalID,
	}
	if err := r.db.WithContext(ctx).Create(&bank).Error; err != nil {
		return mapError(err)
	}
	loc := BankLocation{BankID: b.ID, Country: b.Country, Pincode: b.Pincode}
	if err := r.db.WithContext(ctx).Create(&loc).Error; err != nil {
		return mapError(err)
	}
	return nil
}

func (r *bankRepository) Get(ctx context.Context, id int64) (*domain.Bank, error) {
	var bank Bank
	if err := r.db.WithContext(ctx).First(&bank, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	var loc BankLocation
	if err := r.db.WithContext(ctx).First(&loc, "bank_id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return &domain.Bank{
		ID:   bank.ID,
		Name: bank.Name,
		GlobalHead: domain.PersonKey{
			Nationality: bank.HeadNationality,
			NationalID:  bank.HeadNationalID,
		},
		Country: loc.Country,
		Pincode: loc.Pincode,
	}, nil
}

func (r *bankRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Bank{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, mapError(err)
	}
	return count > 0, nil
}

type branchRepository struct {
	db *gorm.DB
}

func (r *branchRepository) Create(ctx context.Context, b *domain.Branch) error {
	branch := Branch{
		Code:               b.Code,
		BankID:             b.BankID,
		ManagerNationality: b.Manager.Nationality,
		ManagerNationalID:  b.Manager.NationalID,
	}
	if err := r.db.WithContext(ctx).Create(&branch).Error; err != nil {
		return mapError(err)
	}
	loc := BranchLocation{Code: b.Code, BankID: b.BankID, Country: b.Country, Pincode: b.Pincode}
	if err := r.db.WithContext(ctx).Create(&loc).Error; err != nil {
		return mapError(err)
	}
	return nil
}

func (r *branchRepository) Exists(ctx context.Context, bankID, code int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Branch{}).
		Where("bank_id = ? AND code = ?", bankID, code).
		Count(&count).Error
	if err != nil {
		return false, mapError(err)
	}
	return count > 0, nil
}

type locationRepository struct {
	db *gorm.DB
}

func (r *locationRepository) Create(ctx context.Context, l *domain.Location) error {
	loc := Location{Country: l.Country, Pincode: l.Pincode, State: l.State, City: l.City}
	return mapError(r.db.WithContext(ctx).Create(&loc).Error)
}
