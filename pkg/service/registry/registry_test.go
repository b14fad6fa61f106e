package registry_test

import (
	"context"
	"fmt"
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
	"github.com/mkhalaf/bankcore/pkg/repository"
	"github.com/mkhalaf/bankcore/pkg/service/registry"
	"github.com/mkhalaf/bankcore/pkg/session"
)

func newService(t *testing.T) (*registry.Service, repository.UnitOfWork) {
	t.Helper()
	uow := infrarepo.NewUoW(fixtures.NewTestDB(t))
	return registry.New(uow, slog.Default()), uow
}

func personCreate(nationality, id string) dto.PersonCreate {
	return dto.PersonCreate{
		Nationality:       nationality,
		NationalID:        id,
		Password:          "open-sesame",
		DateOfBirth:       "1990-04-01",
		Phone:             "555-0101",
		AnnualIncome:      decimal.RequireFromString("50000"),
		AnnualExpenditure: decimal.RequireFromString("20000"),
		FirstName:         "Ada",
		LastName:          "Lovelace",
		Emails:            []string{fmt.Sprintf("%s.%s@example.com", nationality, id)},
	}
}

func enroll(t *testing.T, svc *registry.Service, nationality, id string) domain.PersonKey {
	t.Helper()
	key, err := svc.CreatePerson(context.Background(), personCreate(nationality, id))
	require.NoError(t, err)
	return key
}

func openSession(key domain.PersonKey) *session.Session {
	return session.NewRegistry(time.Minute).Open(key)
}

func TestCreatePerson_PersistsComposite(t *testing.T) {
	svc, uow := newService(t)
	in := personCreate("IN", "9001")
	in.MiddleName = "King"
	in.Emails = []string{"ada@example.com", "countess@example.com"}

	key, err := svc.CreatePerson(context.Background(), in)
	require.NoError(t, err)

	got, err := uow.Persons().Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, "Ada King Lovelace", got.FullName())
	assert.ElementsMatch(t, in.Emails, got.Emails)
	assert.True(t, got.AnnualIncome.Equal(in.AnnualIncome))
	assert.NotEqual(t, in.Password, got.PasswordHash)
}

func TestCreatePerson_DuplicateIdentity(t *testing.T) {
	svc, _ := newService(t)
	enroll(t, svc, "IN", "9001")

	_, err := svc.CreatePerson(context.Background(), personCreate("IN", "9001"))
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestCreatePerson_UnknownCustodian(t *testing.T) {
	svc, uow := newService(t)
	in := personCreate("IN", "9002")
	in.CustodianNationality = "IN"
	in.CustodianNationalID = "no-such-person"

	_, err := svc.CreatePerson(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ok, err := uow.Persons().Exists(context.Background(),
		domain.PersonKey{Nationality: "IN", NationalID: "9002"})
	require.NoError(t, err)
	assert.False(t, ok, "failed enrollment must leave no rows behind")
}

func TestCreatePerson_RejectsBadInput(t *testing.T) {
	svc, _ := newService(t)

	in := personCreate("IN", "9003")
	in.Emails = []string{"not-an-email"}
	_, err := svc.CreatePerson(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrValidation)

	in = personCreate("IN", "9003")
	in.DateOfBirth = "01/04/1990"
	_, err = svc.CreatePerson(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrValidation)

	in = personCreate("IN", "9003")
	in.AnnualIncome = decimal.RequireFromString("-1")
	_, err = svc.CreatePerson(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateBank_AssignsSequentialIDs(t *testing.T) {
	svc, _ := newService(t)
	head := enroll(t, svc, "IN", "9001")
	sess := openSession(head)

	first, err := svc.CreateBank(context.Background(), sess, dto.BankCreate{
		Name: "First National", HeadNationality: head.Nationality, HeadNationalID: head.NationalID,
		Country: "India", Pincode: "110001",
	})
	require.NoError(t, err)
	second, err := svc.CreateBank(context.Background(), sess, dto.BankCreate{
		Name: "Second National", HeadNationality: head.Nationality, HeadNationalID: head.NationalID,
		Country: "India", Pincode: "110002",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
}

func TestCreateBank_UnknownHead(t *testing.T) {
	svc, _ := newService(t)
	head := enroll(t, svc, "IN", "9001")
	sess := openSession(head)

	_, err := svc.CreateBank(context.Background(), sess, dto.BankCreate{
		Name: "Ghost Bank", HeadNationality: "IN", HeadNationalID: "missing",
		Country: "India", Pincode: "110001",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateBranch_CodesScopedPerBank(t *testing.T) {
	svc, _ := newService(t)
	head := enroll(t, svc, "IN", "9001")
	sess := openSession(head)

	bankA, err := svc.CreateBank(context.Background(), sess, dto.BankCreate{
		Name: "Alpha", HeadNationality: head.Nationality, HeadNationalID: head.NationalID,
		Country: "India", Pincode: "110001",
	})
	require.NoError(t, err)
	bankB, err := svc.CreateBank(context.Background(), sess, dto.BankCreate{
		Name: "Beta", HeadNationality: head.Nationality, HeadNationalID: head.NationalID,
		Country: "India", Pincode: "110002",
	})
	require.NoError(t, err)

	branch := func(bankID int64) int64 {
		code, err := svc.CreateBranch(context.Background(), sess, dto.BranchCreate{
			BankID: bankID, ManagerNationality: head.Nationality, ManagerNationalID: head.NationalID,
			Country: "India", Pincode: "110003",
		})
		require.NoError(t, err)
		return code
	}

	assert.Equal(t, int64(1), branch(bankA))
	assert.Equal(t, int64(2), branch(bankA))
	assert.Equal(t, int64(1), branch(bankB), "branch codes restart per bank")
}

func setupBranch(t *testing.T, svc *registry.Service, sess *session.Session, head domain.PersonKey) (int64, int64) {
	t.Helper()
	bankID, err := svc.CreateBank(context.Background(), sess, dto.BankCreate{
		Name: "First National", HeadNationality: head.Nationality, HeadNationalID: head.NationalID,
		Country: "India", Pincode: "110001",
	})
	require.NoError(t, err)
	code, err := svc.CreateBranch(context.Background(), sess, dto.BranchCreate{
		BankID: bankID, ManagerNationality: head.Nationality, ManagerNationalID: head.NationalID,
		Country: "India", Pincode: "110002",
	})
	require.NoError(t, err)
	return bankID, code
}

func TestOpenAccount_CurrentBelowMinimum(t *testing.T) {
	svc, uow := newService(t)
	owner := enroll(t, svc, "IN", "9001")
	sess := openSession(owner)
	bankID, code := setupBranch(t, svc, sess, owner)

	_, err := svc.OpenAccount(context.Background(), sess, dto.AccountCreate{
		OwnerNationality: owner.Nationality, OwnerNationalID: owner.NationalID,
		BankID: bankID, BranchCode: code, Type: "current",
		InitialBalance: decimal.RequireFromString("100"),
		MinBalance:     decimal.RequireFromString("500"),
	})
	assert.ErrorIs(t, err, domain.ErrPolicyViolation)

	_, err = uow.Accounts().Get(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrNotFound, "rejected open must write nothing")
}

func TestOpenAccount_CurrentMeetsMinimum(t *testing.T) {
	svc, uow := newService(t)
	owner := enroll(t, svc, "IN", "9001")
	sess := openSession(owner)
	bankID, code := setupBranch(t, svc, sess, owner)

	number, err := svc.OpenAccount(context.Background(), sess, dto.AccountCreate{
		OwnerNationality: owner.Nationality, OwnerNationalID: owner.NationalID,
		BankID: bankID, BranchCode: code, Type: "current",
		InitialBalance:          decimal.RequireFromString("600"),
		MinBalance:              decimal.RequireFromString("500"),
		MonthlyTransactionLimit: 30,
	})
	require.NoError(t, err)

	got, err := uow.Accounts().Get(context.Background(), number)
	require.NoError(t, err)
	assert.Equal(t, domain.AccountCurrent, got.Type)
	details, ok := got.Details.(domain.CurrentDetails)
	require.True(t, ok)
	assert.True(t, details.MinBalance.Equal(decimal.RequireFromString("500")))
	assert.Equal(t, 30, details.MonthlyTransactionLimit)
}

func TestOpenAccount_FixedDeposit(t *testing.T) {
	svc, uow := newService(t)
	owner := enroll(t, svc, "IN", "9001")
	sess := openSession(owner)
	bankID, code := setupBranch(t, svc, sess, owner)

	number, err := svc.OpenAccount(context.Background(), sess, dto.AccountCreate{
		OwnerNationality: owner.Nationality, OwnerNationalID: owner.NationalID,
		BankID: bankID, BranchCode: code, Type: "fixed_deposit",
		InitialBalance:   decimal.RequireFromString("10000"),
		LockedUntil:      "2027-01-01",
		MaturityDate:     "2027-06-01",
		PrematurePenalty: decimal.RequireFromString("250"),
	})
	require.NoError(t, err)

	got, err := uow.Accounts().Get(context.Background(), number)
	require.NoError(t, err)
	details, ok := got.Details.(domain.FixedDepositDetails)
	require.True(t, ok)
	assert.Equal(t, 2027, details.MaturityDate.Year())
	assert.True(t, details.PrematurePenalty.Equal(decimal.RequireFromString("250")))
}

func TestOpenAccount_UnknownBranch(t *testing.T) {
	svc, _ := newService(t)
	owner := enroll(t, svc, "IN", "9001")
	sess := openSession(owner)

	_, err := svc.OpenAccount(context.Background(), sess, dto.AccountCreate{
		OwnerNationality: owner.Nationality, OwnerNationalID: owner.NationalID,
		BankID: 1, BranchCode: 1, Type: "saving",
		InitialBalance: decimal.RequireFromString("100"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateBudgetLimit_AdvisoryAboveIncome(t *testing.T) {
	svc, uow := newService(t)
	owner := enroll(t, svc, "IN", "9001") // income 50000
	sess := openSession(owner)

	err := svc.CreateBudget(context.Background(), sess, dto.BudgetCreate{
		Category: "travel", Nationality: owner.Nationality, NationalID: owner.NationalID,
		Limit: decimal.RequireFromString("1000"), DurationDate: "2026-12-31", DurationTime: "23:59:59",
	})
	require.NoError(t, err)

	over := decimal.RequireFromString("60000")
	advisory, err := svc.UpdateBudgetLimit(context.Background(), sess, dto.BudgetLimitUpdate{
		Category: "travel", Nationality: owner.Nationality, NationalID: owner.NationalID,
		NewLimit: over,
	})
	require.NoError(t, err)
	require.NotNil(t, advisory, "limit above income must come back as an advisory")
	assert.True(t, advisory.NewLimit.Equal(over))

	b, err := uow.Budgets().Get(context.Background(), "travel", owner)
	require.NoError(t, err)
	assert.True(t, b.Limit.Equal(decimal.RequireFromString("1000")),
		"an unacknowledged advisory must not change the budget")

	advisory, err = svc.UpdateBudgetLimit(context.Background(), sess, dto.BudgetLimitUpdate{
		Category: "travel", Nationality: owner.Nationality, NationalID: owner.NationalID,
		NewLimit: over, AcknowledgeWarning: true,
	})
	require.NoError(t, err)
	assert.Nil(t, advisory)

	b, err = uow.Budgets().Get(context.Background(), "travel", owner)
	require.NoError(t, err)
	assert.True(t, b.Limit.Equal(over))
}

func TestUpdateBudgetLimit_NoMatchingBudget(t *testing.T) {
	svc, _ := newService(t)
	owner := enroll(t, svc, "IN", "9001")
	sess := openSession(owner)

	_, err := svc.UpdateBudgetLimit(context.Background(), sess, dto.BudgetLimitUpdate{
		Category: "travel", Nationality: owner.Nationality, NationalID: owner.NationalID,
		NewLimit: decimal.RequireFromString("100"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClosedSessionRejectsWrites(t *testing.T) {
	svc, _ := newService(t)
	owner := enroll(t, svc, "IN", "9001")
	sess := openSession(owner)
	sess.Close()

	_, err := svc.CreateBank(context.Background(), sess, dto.BankCreate{
		Name: "Late Bank", HeadNationality: owner.Nationality, HeadNationalID: owner.NationalID,
		Country: "India", Pincode: "110001",
	})
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.ErrorIs(t, err, domain.ErrSecurity)
}
