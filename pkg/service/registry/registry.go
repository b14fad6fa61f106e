// Package registry creates the composite entities of the schema. Every
// create spans the primary row and its dependent rows inside one unit of
// work: the entity either fully exists afterwards or not at all.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mkhalaf/bankcore/pkg/domain"
	"github.com/mkhalaf/bankcore/pkg/dto"
	"github.com/mkhalaf/bankcore/pkg/password"
	"github.com/mkhalaf/bankcore/pkg/repository"
	"github.com/mkhalaf/bankcore/pkg/session"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

type Service struct {
	uow      repository.UnitOfWork
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{
		uow:      uow,
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Service) check(in any) error {
	if err := s.validate.Struct(in); err != nil {
		return domain.Wrap(domain.ErrValidation, err.Error())
	}
	return nil
}

// CreatePerson enrolls a new person: the core row, the name row and every
// email row are written as one unit. Enrollment is the one write open to
// unauthenticated callers, since it is how an actor obtains credentials.
func (s *Service) CreatePerson(ctx context.Context, in dto.PersonCreate) (domain.PersonKey, error) {
	key := domain.PersonKey{Nationality: in.Nationality, NationalID: in.NationalID}
	if err := s.check(in); err != nil {
		return key, err
	}
	if in.AnnualIncome.IsNegative() || in.AnnualExpenditure.IsNegative() {
		return key, domain.Wrap(domain.ErrValidation, "income and expenditure must be non-negative")
	}
	dob, err := time.Parse(dateLayout, in.DateOfBirth)
	if err != nil {
		return key, domain.Wrap(domain.ErrValidation, "invalid date of birth")
	}

	digest, err := password.Hash(in.Password)
	if err != nil {
		return key, err
	}

	p := &domain.Person{
		Key:               key,
		PasswordHash:      digest,
		DateOfBirth:       dob,
		Phone:             in.Phone,
		AnnualIncome:      in.AnnualIncome,
		AnnualExpenditure: in.AnnualExpenditure,
		Name: domain.PersonName{
			First: in.FirstName,
			Last:  in.LastName,
		},
		Emails:    in.Emails,
		CreatedAt: s.now(),
	}
	if in.MiddleName != "" {
		middle := in.MiddleName
		p.Name.Middle = &middle
	}
	if in.CustodianNationality != "" {
		p.Custodian = &domain.PersonKey{
			Nationality: in.CustodianNationality,
			NationalID:  in.CustodianNationalID,
		}
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if p.Custodian != nil {
			ok, err := uow.Persons().Exists(ctx, *p.Custodian)
			if err != nil {
				return err
			}
			if !ok {
				return domain.Wrap(domain.ErrNotFound, "custodian not found")
			}
		}
		return uow.Persons().Create(ctx, p)
	})
	if err != nil {
		return key, err
	}
	s.logger.Info("person enrolled", "nationality", key.Nationality, "national_id", key.NationalID)
	return key, nil
}

// CreateLocation registers a country+pincode pair.
func (s *Service) CreateLocation(ctx context.Context, sess *session.Session, in dto.LocationCreate) error {
	if err := sess.Touch(); err != nil {
		return err
	}
	if err := s.check(in); err != nil {
		return err
	}
	loc := &domain.Location{Country: in.Country, Pincode: in.Pincode, State: in.State, City: in.City}
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		return uow.Locations().Create(ctx, loc)
	})
}

// CreateBank allocates a bank id and writes the bank row plus its location
// row. The id comes from the allocator inside the same unit of work.
func (s *Service) CreateBank(ctx context.Context, sess *session.Session, in dto.BankCreate) (int64, error) {
	if err := sess.Touch(); err != nil {
		return 0, err
	}
	if err := s.check(in); err != nil {
		return 0, err
	}
	head := domain.PersonKey{Nationality: in.HeadNationality, NationalID: in.HeadNationalID}

	var id int64
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		ok, err := uow.Persons().Exists(ctx, head)
		if err != nil {
			return err
		}
		if !ok {
			return domain.Wrap(domain.ErrNotFound, "global head not found")
		}
		id, err = uow.Keys().Next(ctx, repository.ScopeBank)
		if err != nil {
			return err
		}
		return uow.Banks().Create(ctx, &domain.Bank{
			ID:         id,
			Name:       in.Name,
			GlobalHead: head,
			Country:    in.Country,
			Pincode:    in.Pincode,
		})
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("bank registered", "bank_id", id, "name", in.Name)
	return id, nil
}

// CreateBranch allocates the next branch code within the owning bank and
// writes both branch rows.
func (s *Service) CreateBranch(ctx context.Context, sess *session.Session, in dto.BranchCreate) (int64, error) {
	if err := sess.Touch(); err != nil {
		return 0, err
	}
	if err := s.check(in); err != nil {
		return 0, err
	}
	manager := domain.PersonKey{Nationality: in.ManagerNationality, NationalID: in.ManagerNationalID}

	var code int64
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		ok, err := uow.Banks().Exists(ctx, in.BankID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.Wrap(domain.ErrNotFound, "bank not found")
		}
		ok, err = uow.Persons().Exists(ctx, manager)
		if err != nil {
			return err
		}
		if !ok {
			return domain.Wrap(domain.ErrNotFound, "branch manager not found")
		}
		code, err = uow.Keys().NextScoped(ctx, repository.ScopeBranch, in.BankID)
		if err != nil {
			return err
		}
		return uow.Branches().Create(ctx, &domain.Branch{
			Code:    code,
			BankID:  in.BankID,
			Manager: manager,
			Country: in.Country,
			Pincode: in.Pincode,
		})
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("branch opened", "bank_id", in.BankID, "branch_code", code)
	return code, nil
}

// OpenAccount allocates an account number and writes the account row plus
// the one subtype row picked by the tag. The current-account minimum-balance
// rule is applied before anything is written.
func (s *Service) OpenAccount(ctx context.Context, sess *session.Session, in dto.AccountCreate) (int64, error) {
	if err := sess.Touch(); err != nil {
		return 0, err
	}
	if err := s.check(in); err != nil {
		return 0, err
	}
	typ, ok := domain.ParseAccountType(in.Type)
	if !ok {
		return 0, domain.Wrap(domain.ErrValidation, fmt.Sprintf("unknown account type %q", in.Type))
	}
	if in.InitialBalance.IsNegative() {
		return 0, domain.Wrap(domain.ErrValidation, "initial balance must be non-negative")
	}
	details, err := s.buildDetails(typ, in)
	if err != nil {
		return 0, err
	}
	if typ == domain.AccountCurrent && in.InitialBalance.LessThan(in.MinBalance) {
		return 0, domain.Wrap(domain.ErrPolicyViolation,
			"initial balance does not meet the minimum balance requirement")
	}

	owner := domain.PersonKey{Nationality: in.OwnerNationality, NationalID: in.OwnerNationalID}
	var number int64
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		ok, err := uow.Persons().Exists(ctx, owner)
		if err != nil {
			return err
		}
		if !ok {
			return domain.Wrap(domain.ErrNotFound, "account owner not found")
		}
		ok, err = uow.Branches().Exists(ctx, in.BankID, in.BranchCode)
		if err != nil {
			return err
		}
		if !ok {
			return domain.Wrap(domain.ErrNotFound, "branch not found")
		}
		number, err = uow.Keys().Next(ctx, repository.ScopeAccount)
		if err != nil {
			return err
		}
		return uow.Accounts().Create(ctx, &domain.Account{
			Number:     number,
			Owner:      owner,
			BranchCode: in.BranchCode,
			BankID:     in.BankID,
			Balance:    in.InitialBalance,
			Type:       typ,
			Details:    details,
			CreatedAt:  s.now(),
		})
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("account opened", "number", number, "type", typ)
	return number, nil
}

func (s *Service) buildDetails(typ domain.AccountType, in dto.AccountCreate) (domain.AccountDetails, error) {
	switch typ {
	case domain.AccountCurrent:
		return domain.CurrentDetails{
			MinBalance:              in.MinBalance,
			MonthlyTransactionLimit: in.MonthlyTransactionLimit,
		}, nil
	case domain.AccountSaving:
		return domain.SavingDetails{
			MinBalance:             in.MinBalance,
			InterestRate:           in.InterestRate,
			MonthlyWithdrawalLimit: in.MonthlyWithdrawalLimit,
		}, nil
	case domain.AccountSalary:
		return domain.SalaryDetails{
			OrganisationID: in.OrganisationID,
			EmployeeID:     in.EmployeeID,
		}, nil
	case domain.AccountDemat:
		return domain.DematDetails{
			DPID:               in.DPID,
			TradingAccountLink: in.TradingAccountLink,
			MaintenanceCharges: in.MaintenanceCharges,
		}, nil
	case domain.AccountFixedDeposit:
		locked, err := time.Parse(dateLayout, in.LockedUntil)
		if err != nil {
			return nil, domain.Wrap(domain.ErrValidation, "invalid lock-in date")
		}
		maturity, err := time.Parse(dateLayout, in.MaturityDate)
		if err != nil {
			return nil, domain.Wrap(domain.ErrValidation, "invalid maturity date")
		}
		return domain.FixedDepositDetails{
			LockedUntil:      locked,
			MaturityDate:     maturity,
			PrematurePenalty: in.PrematurePenalty,
		}, nil
	}
	return nil, domain.Wrap(domain.ErrValidation, fmt.Sprintf("unknown account type %q", typ))
}

// CreateBudget writes the budget row and its window row; current expenditure
// always starts at zero.
func (s *Service) CreateBudget(ctx context.Context, sess *session.Session, in dto.BudgetCreate) error {
	if err := sess.Touch(); err != nil {
		return err
	}
	if err := s.check(in); err != nil {
		return err
	}
	if in.Limit.IsNegative() {
		return domain.Wrap(domain.ErrValidation, "budget limit must be non-negative")
	}
	window, err := parseDateTime(in.DurationDate, in.DurationTime)
	if err != nil {
		return err
	}
	owner := domain.PersonKey{Nationality: in.Nationality, NationalID: in.NationalID}

	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		ok, err := uow.Persons().Exists(ctx, owner)
		if err != nil {
			return err
		}
		if !ok {
			return domain.Wrap(domain.ErrNotFound, "budget owner not found")
		}
		return uow.Budgets().Create(ctx, &domain.Budget{
			Category:      in.Category,
			Owner:         owner,
			Limit:         in.Limit,
			CurrentExpend: decimal.Zero,
			WindowEnd:     window,
		})
	})
}

// CreateGoal writes the savings-goal row and its deadline row; current
// saving always starts at zero.
func (s *Service) CreateGoal(ctx context.Context, sess *session.Session, in dto.GoalCreate) error {
	if err := sess.Touch(); err != nil {
		return err
	}
	if err := s.check(in); err != nil {
		return err
	}
	if !in.TargetAmount.IsPositive() {
		return domain.Wrap(domain.ErrValidation, "target amount must be positive")
	}
	deadline, err := parseDateTime(in.DeadlineDate, in.DeadlineTime)
	if err != nil {
		return err
	}
	owner := domain.PersonKey{Nationality: in.Nationality, NationalID: in.NationalID}

	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		ok, err := uow.Persons().Exists(ctx, owner)
		if err != nil {
			return err
		}
		if !ok {
			return domain.Wrap(domain.ErrNotFound, "goal owner not found")
		}
		return uow.Goals().Create(ctx, &domain.SavingsGoal{
			Key:           domain.GoalKey{Name: in.Name, Owner: owner},
			TargetAmount:  in.TargetAmount,
			CurrentSaving: decimal.Zero,
			Deadline:      deadline,
		})
	})
}

// UpdateBudgetLimit changes a budget's limit. A limit above the owner's
// annual income yields an advisory instead of a write until the caller
// acknowledges it; the comparison is never enforced as a hard constraint.
func (s *Service) UpdateBudgetLimit(ctx context.Context, sess *session.Session, in dto.BudgetLimitUpdate) (*dto.BudgetAdvisory, error) {
	if err := sess.Touch(); err != nil {
		return nil, err
	}
	if err := s.check(in); err != nil {
		return nil, err
	}
	if in.NewLimit.IsNegative() {
		return nil, domain.Wrap(domain.ErrValidation, "budget limit must be non-negative")
	}
	owner := domain.PersonKey{Nationality: in.Nationality, NationalID: in.NationalID}

	p, err := s.uow.Persons().Get(ctx, owner)
	if err != nil {
		return nil, err
	}
	if in.NewLimit.GreaterThan(p.AnnualIncome) && !in.AcknowledgeWarning {
		return &dto.BudgetAdvisory{
			Message:      "budget limit exceeds annual income",
			AnnualIncome: p.AnnualIncome,
			NewLimit:     in.NewLimit,
		}, nil
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		matched, err := uow.Budgets().UpdateLimit(ctx, in.Category, owner, in.NewLimit)
		if err != nil {
			return err
		}
		if matched == 0 {
			return domain.Wrap(domain.ErrNotFound, "no matching budget")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("budget limit updated", "category", in.Category, "limit", in.NewLimit)
	return nil, nil
}

func parseDateTime(date, clock string) (time.Time, error) {
	t, err := time.Parse(dateLayout+" "+timeLayout, date+" "+clock)
	if err != nil {
		return time.Time{}, domain.Wrap(domain.ErrValidation, "invalid date or time")
	}
	return t, nil
}
