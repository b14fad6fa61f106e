package dto

// LocationCreate registers a country+pincode pair.
type LocationCreate struct {
	Country string `validate:"required,max=64"`
	Pincode string `validate:"required,max=16"`
	State   string `validate:"required,max=64"`
	City    string `validate:"required,max=64"`
}

// BankCreate carries the bank row and its location row.
type BankCreate struct {
	Name            string `validate:"required,max=128"`
	HeadNationality string `validate:"required,max=64"`
	HeadNationalID  string `validate:"required,max=64"`
	Country         string `validate:"required,max=64"`
	Pincode         string `validate:"required,max=16"`
}

// BranchCreate carries the branch row and its location row. The branch code
// is allocated per-bank by the core.
type BranchCreate struct {
	BankID             int64  `validate:"required,gt=0"`
	ManagerNationality string `validate:"required,max=64"`
	ManagerNationalID  string `validate:"required,max=64"`
	Country            string `validate:"required,max=64"`
	Pincode            string `validate:"required,max=16"`
}
