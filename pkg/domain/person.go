package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PersonKey is the natural composite key identifying a person across the
// whole schema.
type PersonKey struct {
	Nationality string
	NationalID  string
}

// PersonName holds the 1:1 name record of a person. Middle is optional.
type PersonName struct {
	First  string
	Middle *string
	Last   string
}

// Person is a composite entity spanning the core row, the name row and one
// row per email address. It either exists completely or not at all.
type Person struct {
	Key          PersonKey
	PasswordHash string
	// Custodian is a nullable self-reference to another person.
	Custodian         *PersonKey
	DateOfBirth       time.Time
	Phone             string
	AnnualIncome      decimal.Decimal
	AnnualExpenditure decimal.Decimal
	Name              PersonName
	Emails            []string
	CreatedAt         time.Time
}

// FullName renders the display name the way the reporting layer expects it.
func (p *Person) FullName() string {
	if p.Name.Middle != nil && *p.Name.Middle != "" {
		return p.Name.First + " " + *p.Name.Middle + " " + p.Name.Last
	}
	return p.Name.First + " " + p.Name.Last
}
