package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mkhalaf/bankcore/pkg/domain"
	"github.com/mkhalaf/bankcore/pkg/dto"
)

// reportingRepository serves the display queries. Every statement is
// parameterized; caller input is never formatted into SQL text.
type reportingRepository struct {
	db *gorm.DB
}

func displayName(first string, middle *string, last string) string {
	if middle != nil && *middle != "" {
		return first + " " + *middle + " " + last
	}
	return first + " " + last
}

func (r *reportingRepository) PersonTransactions(ctx context.Context, key domain.PersonKey) ([]dto.TransactionRow, error) {
	var rows []dto.TransactionRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT t.id AS transaction_id, t.at, t.amount,
		       t.sender AS sender_account, t.receiver AS receiver_account
		FROM transactions t
		JOIN accounts sa ON t.sender = sa.number
		JOIN accounts ra ON t.receiver = ra.number
		WHERE (sa.owner_nationality = ? AND sa.owner_national_id = ?)
		   OR (ra.owner_nationality = ? AND ra.owner_national_id = ?)
		ORDER BY t.at DESC`,
		key.Nationality, key.NationalID, key.Nationality, key.NationalID,
	).Scan(&rows).Error
	return rows, mapError(err)
}

func (r *reportingRepository) BranchAccounts(ctx context.Context, bankID, branchCode int64) ([]dto.BranchAccountRow, error) {
	type row struct {
		AccountNumber int64
		Balance       decimal.Decimal
		HolderFirst   string
		HolderMiddle  *string
		HolderLast    string
		HolderPhone   string
		ManagerFirst  string
		ManagerMiddle *string
		ManagerLast   string
	}
	var raw []row
	err := r.db.WithContext(ctx).Raw(`
		SELECT a.number AS account_number, a.balance,
		       hn.first AS holder_first, hn.middle AS holder_middle, hn.last AS holder_last,
		       hp.phone AS holder_phone,
		       mn.first AS manager_first, mn.middle AS manager_middle, mn.last AS manager_last
		FROM accounts a
		JOIN persons hp ON a.owner_nationality = hp.nationality AND a.owner_national_id = hp.national_id
		JOIN person_names hn ON hp.nationality = hn.nationality AND hp.national_id = hn.national_id
		JOIN branches b ON a.branch_code = b.code AND a.bank_id = b.bank_id
		JOIN person_names mn ON b.manager_nationality = mn.nationality AND b.manager_national_id = mn.national_id
		WHERE a.bank_id = ? AND a.branch_code = ?`,
		bankID, branchCode,
	).Scan(&raw).Error
	if err != nil {
		return nil, mapError(err)
	}
	rows := make([]dto.BranchAccountRow, 0, len(raw))
	for _, rr := range raw {
		rows = append(rows, dto.BranchAccountRow{
			AccountNumber: rr.AccountNumber,
			Balance:       rr.Balance,
			HolderName:    displayName(rr.HolderFirst, rr.HolderMiddle, rr.HolderLast),
			HolderPhone:   rr.HolderPhone,
			ManagerName:   displayName(rr.ManagerFirst, rr.ManagerMiddle, rr.ManagerLast),
		})
	}
	return rows, nil
}

func (r *reportingRepository) HighIncomePersons(ctx context.Context, threshold decimal.Decimal) ([]dto.PersonRead, error) {
	return r.scanPersons(ctx, `
		SELECT p.nationality, p.national_id, n.first, n.middle, n.last,
		       p.phone, p.annual_income
		FROM persons p
		JOIN person_names n ON p.nationality = n.nationality AND p.national_id = n.national_id
		WHERE p.annual_income > ?
		ORDER BY p.annual_income DESC`, threshold)
}

func (r *reportingRepository) SearchPersonsByName(ctx context.Context, pattern string) ([]dto.PersonRead, error) {
	// The pattern goes in as a bound parameter; only the wildcards are added
	// here.
	return r.scanPersons(ctx, `
		SELECT p.nationality, p.national_id, n.first, n.middle, n.last,
		       p.phone, p.annual_income
		FROM person_names n
		JOIN persons p ON n.nationality = p.nationality AND n.national_id = p.national_id
		WHERE (n.first || ' ' || COALESCE(n.middle, '') || ' ' || n.last) LIKE ?`,
		"%"+pattern+"%")
}

func (r *reportingRepository) scanPersons(ctx context.Context, query string, arg any) ([]dto.PersonRead, error) {
	type row struct {
		Nationality  string
		NationalID   string
		First        string
		Middle       *string
		Last         string
		Phone        string
		AnnualIncome decimal.Decimal
	}
	var raw []row
	if err := r.db.WithContext(ctx).Raw(query, arg).Scan(&raw).Error; err != nil {
		return nil, mapError(err)
	}
	out := make([]dto.PersonRead, 0, len(raw))
	for _, rr := range raw {
		out = append(out, dto.PersonRead{
			Nationality:  rr.Nationality,
			NationalID:   rr.NationalID,
			FullName:     displayName(rr.First, rr.Middle, rr.Last),
			Phone:        rr.Phone,
			AnnualIncome: rr.AnnualIncome,
		})
	}
	return out, nil
}

func (r *reportingRepository) BankBranchCounts(ctx context.Context) ([]dto.BankBranchCountRow, error) {
	var rows []dto.BankBranchCountRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT b.name AS bank_name, COUNT(br.code) AS branch_count
		FROM banks b
		LEFT JOIN branches br ON b.id = br.bank_id
		GROUP BY b.id, b.name
		ORDER BY branch_count DESC`).Scan(&rows).Error
	return rows, mapError(err)
}

func (r *reportingRepository) TransactionTotal(ctx context.Context, key domain.PersonKey, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Raw(`
		SELECT SUM(t.amount)
		FROM transactions t
		JOIN accounts a ON t.sender = a.number
		WHERE a.owner_nationality = ? AND a.owner_national_id = ?
		  AND t.at BETWEEN ? AND ?`,
		key.Nationality, key.NationalID, from, to,
	).Scan(&total).Error
	if err != nil {
		return decimal.Zero, mapError(err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *reportingRepository) MaxBalanceAccount(ctx context.Context) (*dto.MaxBalanceRow, error) {
	type row struct {
		AccountNumber int64
		Balance       decimal.Decimal
		First         string
		Middle        *string
		Last          string
	}
	var raw []row
	err := r.db.WithContext(ctx).Raw(`
		SELECT a.number AS account_number, a.balance, n.first, n.middle, n.last
		FROM accounts a
		JOIN person_names n ON a.owner_nationality = n.nationality AND a.owner_national_id = n.national_id
		WHERE a.balance = (SELECT MAX(balance) FROM accounts)`).Scan(&raw).Error
	if err != nil {
		return nil, mapError(err)
	}
	if len(raw) == 0 {
		return nil, domain.ErrNotFound
	}
	top := raw[0]
	return &dto.MaxBalanceRow{
		AccountNumber: top.AccountNumber,
		Balance:       top.Balance,
		HolderName:    displayName(top.First, top.Middle, top.Last),
	}, nil
}

func (r *reportingRepository) SearchBanksByName(ctx context.Context, pattern string) ([]dto.BankSearchRow, error) {
	var rows []dto.BankSearchRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT b.name AS bank_name, bl.country, bl.pincode,
		       COUNT(br.code) AS branch_count
		FROM banks b
		JOIN bank_locations bl ON b.id = bl.bank_id
		LEFT JOIN branches br ON b.id = br.bank_id
		WHERE b.name LIKE ?
		GROUP BY b.id, b.name, bl.country, bl.pincode
		ORDER BY b.name`,
		"%"+pattern+"%",
	).Scan(&rows).Error
	return rows, mapError(err)
}

func (r *reportingRepository) ExpenditurePatterns(ctx context.Context, minPercent decimal.Decimal) ([]dto.ExpenditurePatternRow, error) {
	// Zero-income rows are excluded before the division so the store never
	// divides by zero.
	var rows []dto.ExpenditurePatternRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT nationality, COUNT(*) AS person_count,
		       AVG(annual_expenditure * 100.0 / annual_income) AS avg_spend_percent
		FROM persons
		WHERE annual_income > 0
		  AND annual_expenditure * 100.0 / annual_income > ?
		GROUP BY nationality
		ORDER BY person_count DESC`,
		minPercent,
	).Scan(&rows).Error
	return rows, mapError(err)
}

func (r *reportingRepository) TransactionPatterns(ctx context.Context, from, to time.Time, minCount int64) ([]dto.TransactionPatternRow, error) {
	type row struct {
		First            string
		Middle           *string
		Last             string
		TransactionCount int64
		TotalAmount      decimal.Decimal
		AvgAmount        decimal.Decimal
	}
	var raw []row
	err := r.db.WithContext(ctx).Raw(`
		SELECT n.first, n.middle, n.last,
		       COUNT(t.id) AS transaction_count,
		       SUM(t.amount) AS total_amount,
		       AVG(t.amount) AS avg_amount
		FROM persons p
		JOIN person_names n ON p.nationality = n.nationality AND p.national_id = n.national_id
		JOIN accounts a ON p.nationality = a.owner_nationality AND p.national_id = a.owner_national_id
		JOIN transactions t ON t.sender = a.number
		WHERE t.at BETWEEN ? AND ?
		GROUP BY p.nationality, p.national_id, n.first, n.middle, n.last
		HAVING COUNT(t.id) >= ?
		ORDER BY transaction_count DESC`,
		from, to, minCount,
	).Scan(&raw).Error
	if err != nil {
		return nil, mapError(err)
	}
	rows := make([]dto.TransactionPatternRow, 0, len(raw))
	for _, rr := range raw {
		rows = append(rows, dto.TransactionPatternRow{
			FullName:         displayName(rr.First, rr.Middle, rr.Last),
			TransactionCount: rr.TransactionCount,
			TotalAmount:      rr.TotalAmount,
			AvgAmount:        rr.AvgAmount,
		})
	}
	return rows, nil
}

func (r *reportingRepository) CountryExpenditure(ctx context.Context) ([]dto.CountryExpenditureRow, error) {
	var rows []dto.CountryExpenditureRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT nationality, AVG(annual_expenditure) AS avg_expenditure,
		       COUNT(*) AS person_count
		FROM persons
		GROUP BY nationality
		ORDER BY avg_expenditure DESC`).Scan(&rows).Error
	return rows, mapError(err)
}
