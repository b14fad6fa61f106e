package domain

// Location is a country+pincode pair resolvable to a state and city.
type Location struct {
	Country string
	Pincode string
	State   string
	City    string
}

// Bank is a composite entity: the registered bank row plus its location row.
// BankID is a globally allocated surrogate key.
type Bank struct {
	ID         int64
	Name       string
	GlobalHead PersonKey
	Country    string
	Pincode    string
}

// Branch is a composite entity: the branch row plus its location row.
// Code is a per-bank counter, unique only within the owning bank.
type Branch struct {
	Code    int64
	BankID  int64
	Manager PersonKey
	Country string
	Pincode string
}
