package reporting_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infrarepo "github.com/mkhalaf/bankcore/infra/repository"
	"github.com/mkhalaf/bankcore/internal/fixtures"
	"github.com/mkhalaf/bankcore/pkg/domain"
	"github.com/mkhalaf/bankcore/pkg/dto"
	"github.com/mkhalaf/bankcore/pkg/service/registry"
	"github.com/mkhalaf/bankcore/pkg/service/reporting"
	"github.com/mkhalaf/bankcore/pkg/service/transfer"
	"github.com/mkhalaf/bankcore/pkg/session"
)

const secret = "open-sesame"

type world struct {
	reports *reporting.Service
	sess    *session.Session

	ada        domain.PersonKey
	babbage    domain.PersonKey
	bankID     int64
	branchCode int64
	adaAcc     int64
	babbageAcc int64
}

// setup builds a small populated system: two persons of different
// nationalities, one bank with one branch, an account each, and a single
// committed transfer of 150 from Ada to Babbage.
func setup(t *testing.T) *world {
	t.Helper()
	uow := infrarepo.NewUoW(fixtures.NewTestDB(t))
	logger := slog.Default()
	reg := registry.New(uow, logger)
	sessions := session.NewRegistry(time.Minute)
	ctx := context.Background()

	enroll := func(nationality, id, first, last, income, expenditure string) domain.PersonKey {
		key, err := reg.CreatePerson(ctx, dto.PersonCreate{
			Nationality: nationality, NationalID: id,
			Password: secret, DateOfBirth: "1990-04-01", Phone: "555-0101",
			AnnualIncome:      decimal.RequireFromString(income),
			AnnualExpenditure: decimal.RequireFromString(expenditure),
			FirstName:         first, LastName: last,
			Emails: []string{id + "@example.com"},
		})
		require.NoError(t, err)
		return key
	}
	ada := enroll("UK", "1001", "Ada", "Lovelace", "90000", "30000")
	babbage := enroll("FR", "2001", "Charles", "Babbage", "40000", "10000")
	sess := sessions.Open(ada)

	bankID, err := reg.CreateBank(ctx, sess, dto.BankCreate{
		Name: "First National", HeadNationality: ada.Nationality, HeadNationalID: ada.NationalID,
		Country: "United Kingdom", Pincode: "SW1A",
	})
	require.NoError(t, err)
	code, err := reg.CreateBranch(ctx, sess, dto.BranchCreate{
		BankID: bankID, ManagerNationality: babbage.Nationality, ManagerNationalID: babbage.NationalID,
		Country: "United Kingdom", Pincode: "SW1B",
	})
	require.NoError(t, err)

	open := func(owner domain.PersonKey, balance string) int64 {
		number, err := reg.OpenAccount(ctx, sess, dto.AccountCreate{
			OwnerNationality: owner.Nationality, OwnerNationalID: owner.NationalID,
			BankID: bankID, BranchCode: code, Type: "saving",
			InitialBalance: decimal.RequireFromString(balance),
		})
		require.NoError(t, err)
		return number
	}
	adaAcc := open(ada, "1000")
	babbageAcc := open(babbage, "200")

	_, err = transfer.New(uow, sessions, logger).Execute(ctx, sess, dto.TransferRequest{
		SenderAccount: adaAcc, ReceiverAccount: babbageAcc,
		Amount: decimal.RequireFromString("150"), Secret: secret,
	})
	require.NoError(t, err)

	return &world{
		reports:    reporting.New(uow, logger),
		sess:       sess,
		ada:        ada,
		babbage:    babbage,
		bankID:     bankID,
		branchCode: code,
		adaAcc:     adaAcc,
		babbageAcc: babbageAcc,
	}
}

func TestPersonTransactions_BothSides(t *testing.T) {
	w := setup(t)

	for _, key := range []domain.PersonKey{w.ada, w.babbage} {
		rows, err := w.reports.PersonTransactions(context.Background(), w.sess, key)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, w.adaAcc, rows[0].SenderAccount)
		assert.Equal(t, w.babbageAcc, rows[0].ReceiverAccount)
		assert.True(t, rows[0].Amount.Equal(decimal.RequireFromString("150")))
	}
}

func TestBranchAccounts_ListsHoldersAndManager(t *testing.T) {
	w := setup(t)

	rows, err := w.reports.BranchAccounts(context.Background(), w.sess, w.bankID, w.branchCode)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byNumber := map[int64]dto.BranchAccountRow{}
	for _, r := range rows {
		byNumber[r.AccountNumber] = r
	}
	assert.Equal(t, "Ada Lovelace", byNumber[w.adaAcc].HolderName)
	assert.Equal(t, "Charles Babbage", byNumber[w.babbageAcc].HolderName)
	assert.Equal(t, "Charles Babbage", byNumber[w.adaAcc].ManagerName)
	assert.True(t, byNumber[w.adaAcc].Balance.Equal(decimal.RequireFromString("850")))
}

func TestHighIncomePersons_ThresholdIsExclusive(t *testing.T) {
	w := setup(t)

	rows, err := w.reports.HighIncomePersons(context.Background(), w.sess, decimal.RequireFromString("40000"))
	require.NoError(t, err)
	require.Len(t, rows, 1, "income equal to the threshold must not match")
	assert.Equal(t, "Ada Lovelace", rows[0].FullName)
}

func TestBankBranchCounts(t *testing.T) {
	w := setup(t)

	rows, err := w.reports.BankBranchCounts(context.Background(), w.sess)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "First National", rows[0].BankName)
	assert.EqualValues(t, 1, rows[0].BranchCount)
}

func TestTransactionTotal_WindowAndEmptyRange(t *testing.T) {
	w := setup(t)
	now := time.Now()

	total, err := w.reports.TransactionTotal(context.Background(), w.sess,
		w.ada, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("150")))

	// A window before any activity sums to zero, not an error.
	total, err = w.reports.TransactionTotal(context.Background(), w.sess,
		w.ada, now.Add(-48*time.Hour), now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	_, err = w.reports.TransactionTotal(context.Background(), w.sess,
		w.ada, now, now.Add(-time.Hour))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestMaxBalanceAccount(t *testing.T) {
	w := setup(t)

	row, err := w.reports.MaxBalanceAccount(context.Background(), w.sess)
	require.NoError(t, err)
	assert.Equal(t, w.adaAcc, row.AccountNumber)
	assert.Equal(t, "Ada Lovelace", row.HolderName)
	assert.True(t, row.Balance.Equal(decimal.RequireFromString("850")))
}

func TestCountryExpenditure_GroupsByNationality(t *testing.T) {
	w := setup(t)

	rows, err := w.reports.CountryExpenditure(context.Background(), w.sess)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "UK", rows[0].Nationality, "ordered by average expenditure, descending")
	assert.True(t, rows[0].AvgExpenditure.Equal(decimal.RequireFromString("30000")))
	assert.EqualValues(t, 1, rows[0].PersonCount)
}

func TestSearchPersonsByName(t *testing.T) {
	w := setup(t)

	rows, err := w.reports.SearchPersonsByName(context.Background(), w.sess, "Babb")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, w.babbage, domain.PersonKey{
		Nationality: rows[0].Nationality, NationalID: rows[0].NationalID,
	})

	rows, err = w.reports.SearchPersonsByName(context.Background(), w.sess, "a")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = w.reports.SearchPersonsByName(context.Background(), w.sess, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSearchBanksByName(t *testing.T) {
	w := setup(t)

	rows, err := w.reports.SearchBanksByName(context.Background(), w.sess, "National")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "First National", rows[0].BankName)
	assert.Equal(t, "United Kingdom", rows[0].Country)
	assert.Equal(t, "SW1A", rows[0].Pincode)
	assert.EqualValues(t, 1, rows[0].BranchCount)

	rows, err = w.reports.SearchBanksByName(context.Background(), w.sess, "Provincial")
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = w.reports.SearchBanksByName(context.Background(), w.sess, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExpenditurePatterns_ThresholdSelectsHeavySpenders(t *testing.T) {
	w := setup(t)

	// Ada spends 30000 of 90000 (33.3%), Babbage 10000 of 40000 (25%).
	rows, err := w.reports.ExpenditurePatterns(context.Background(), w.sess,
		decimal.RequireFromString("30"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "UK", rows[0].Nationality)
	assert.EqualValues(t, 1, rows[0].PersonCount)
	assert.True(t, rows[0].AvgSpendPercent.Round(1).Equal(decimal.RequireFromString("33.3")))

	rows, err = w.reports.ExpenditurePatterns(context.Background(), w.sess,
		decimal.RequireFromString("20"))
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = w.reports.ExpenditurePatterns(context.Background(), w.sess,
		decimal.RequireFromString("-1"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTransactionPatterns_CountsSendersInWindow(t *testing.T) {
	w := setup(t)
	now := time.Now()
	from, to := now.Add(-time.Hour), now.Add(time.Hour)

	rows, err := w.reports.TransactionPatterns(context.Background(), w.sess, from, to, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1, "only Ada has sent anything")
	assert.Equal(t, "Ada Lovelace", rows[0].FullName)
	assert.EqualValues(t, 1, rows[0].TransactionCount)
	assert.True(t, rows[0].TotalAmount.Equal(decimal.RequireFromString("150")))
	assert.True(t, rows[0].AvgAmount.Equal(decimal.RequireFromString("150")))

	rows, err = w.reports.TransactionPatterns(context.Background(), w.sess, from, to, 2)
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = w.reports.TransactionPatterns(context.Background(), w.sess, from, to, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = w.reports.TransactionPatterns(context.Background(), w.sess, to, from, 1)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestReportsRequireLiveSession(t *testing.T) {
	w := setup(t)
	w.sess.Close()

	_, err := w.reports.BankBranchCounts(context.Background(), w.sess)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}
