// Package dto defines the request and read types exchanged between the
// interactive shell and the core services. Create DTOs carry validator tags;
// dates arrive as strings in the shell's YYYY-MM-DD form and are parsed during
// validation.
package dto

import "github.com/shopspring/decimal"

// PersonCreate carries everything needed for the three person rows.
type PersonCreate struct {
	Nationality          string `validate:"required,max=64"`
	NationalID           string `validate:"required,max=64"`
	Password             string `validate:"required,min=6,max=72"`
	CustodianNationality string `validate:"omitempty,max=64"`
	CustodianNationalID  string `validate:"required_with=CustodianNationality,omitempty,max=64"`
	DateOfBirth          string `validate:"required,datetime=2006-01-02"`
	Phone                string `validate:"required,max=32"`
	AnnualIncome         decimal.Decimal
	AnnualExpenditure    decimal.Decimal
	FirstName            string   `validate:"required,max=64"`
	MiddleName           string   `validate:"omitempty,max=64"`
	LastName             string   `validate:"required,max=64"`
	Emails               []string `validate:"required,min=1,dive,email"`
}

// PersonRead is the reporting shape of a person.
type PersonRead struct {
	Nationality  string
	NationalID   string
	FullName     string
	Phone        string
	AnnualIncome decimal.Decimal
}
