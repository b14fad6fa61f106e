package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mkhalaf/bankcore/pkg/domain"
)

type personRepository struct {
	db *gorm.DB
}

// Create inserts the core row, then the name row, then every email row.
// Foreign-key-safe order: parent first. Atomicity comes from the enclosing
// unit of work.
func (r *personRepository) Create(ctx context.Context, p *domain.Person) error {
	core := Person{
		Nationality:       p.Key.Nationality,
		NationalID:        p.Key.NationalID,
		PasswordHash:      p.PasswordHash,
		DateOfBirth:       p.DateOfBirth,
		Phone:             p.Phone,
		AnnualIncome:      p.AnnualIncome,
		AnnualExpenditure: p.AnnualExpenditure,
		CreatedAt:         p.CreatedAt,
	}
	if p.Custodian != nil {
		core.CustodianNationality = &p.Custodian.Nationality
		core.CustodianNationalID = &p.Custodian.NationalID
	}
	if err := r.db.WithContext(ctx).Create(&core).Error; err != nil {
		return mapError(err)
	}

	name := PersonName{
		Nationality: p.Key.Nationality,
		NationalID:  p.Key.NationalID,
		First:       p.Name.First,
		Middle:      p.Name.Middle,
		Last:        p.Name.Last,
	}
	if err := r.db.WithContext(ctx).Create(&name).Error; err != nil {
		return mapError(err)
	}

	for _, email := range p.Emails {
		row := PersonEmail{
			Email:       email,
			Nationality: p.Key.Nationality,
			NationalID:  p.Key.NationalID,
		}
		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			return mapError(err)
		}
	}
	return nil
}

func (r *personRepository) Get(ctx context.Context, key domain.PersonKey) (*domain.Person, error) {
	var core Person
	err := r.db.WithContext(ctx).
		Where("nationality = ? AND national_id = ?", key.Nationality, key.NationalID).
		First(&core).Error
	if err != nil {
		return nil, mapError(err)
	}

	var name PersonName
	err = r.db.WithContext(ctx).
		Where("nationality = ? AND national_id = ?", key.Nationality, key.NationalID).
		First(&name).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, mapError(err)
	}

	var emails []PersonEmail
	err = r.db.WithContext(ctx).
		Where("nationality = ? AND national_id = ?", key.Nationality, key.NationalID).
		Find(&emails).Error
	if err != nil {
		return nil, mapError(err)
	}

	p := &domain.Person{
		Key:               key,
		PasswordHash:      core.PasswordHash,
		DateOfBirth:       core.DateOfBirth,
		Phone:             core.Phone,
		AnnualIncome:      core.AnnualIncome,
		AnnualExpenditure: core.AnnualExpenditure,
		Name: domain.PersonName{
			First:  name.First,
			Middle: name.Middle,
			Last:   name.Last,
		},
		CreatedAt: core.CreatedAt,
	}
	if core.CustodianNationality != nil && core.CustodianNationalID != nil {
		p.Custodian = &domain.PersonKey{
			Nationality: *core.CustodianNationality,
			NationalID:  *core.CustodianNationalID,
		}
	}
	for _, e := range emails {
		p.Emails = append(p.Emails, e.Email)
	}
	return p, nil
}

func (r *personRepository) Exists(ctx context.Context, key domain.PersonKey) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Person{}).
		Where("nationality = ? AND national_id = ?", key.Nationality, key.NationalID).
		Count(&count).Error
	if err != nil {
		return false, mapError(err)
	}
	return count > 0, nil
}
