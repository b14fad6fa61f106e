// Package reporting serves the read-only display queries. Reads run on the
// plain connection; a report never blocks a writer.
package reporting

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mkhalaf/bankcore/pkg/domain"
	"github.com/mkhalaf/bankcore/pkg/dto"
	"github.com/mkhalaf/bankcore/pkg/repository"
	"github.com/mkhalaf/bankcore/pkg/session"
)

type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// PersonTransactions lists every ledger row where the person's accounts
// appear as sender or receiver.
func (s *Service) PersonTransactions(ctx context.Context, sess *session.Session, key domain.PersonKey) ([]dto.TransactionRow, error) {
	if err := sess.Touch(); err != nil {
		return nil, err
	}
	return s.uow.Reports().PersonTransactions(ctx, key)
}

// BranchAccounts lists the accounts held at one branch with their owners.
func (s *Service) BranchAccounts(ctx context.Context, sess *session.Session, bankID, branchCode int64) ([]dto.BranchAccountRow, error) {
	if err := sess.Touch(); err != nil {
		return nil, err
	}
	return s.uow.Reports().BranchAccounts(ctx, bankID, branchCode)
}

// HighIncomePersons lists persons whose annual income exceeds the threshold.
func (s *Service) HighIncomePersons(ctx context.Context, sess *session.Session, threshold decimal.Decimal) ([]dto.PersonRead, error) {
	if err := sess.Touch(); err != nil {
		return nil, err
	}
	return s.uow.Reports().HighIncomePersons(ctx, threshold)
}

// BankBranchCounts lists every bank with its number of branches.
func (s *Service) BankBranchCounts(ctx context.Context, sess *session.Session) ([]dto.BankBranchCountRow, error) {
	if err := sess.Touch(); err != nil {
		return nil, err
	}
	return s.uow.Reports().BankBranchCounts(ctx)
}

// TransactionTotal sums what the person's accounts sent inside [from, to].
func (s *Service) TransactionTotal(ctx context.Context, sess *session.Session, key domain.PersonKey, from, to time.Time) (decimal.Decimal, error) {
	if err := sess.Touch(); err != nil {
		return decimal.Zero, err
	}
	if to.Before(from) {
		return decimal.Zero, domain.Wrap(domain.ErrValidation, "range end precedes range start")
	}
	return s.uow.Reports().TransactionTotal(ctx, key, from, to)
}

// MaxBalanceAccount returns the single richest account, or ErrNotFound when
// no accounts exist.
func (s *Service) MaxBalanceAccount(ctx context.Context, sess *session.Session) (*dto.MaxBalanceRow, error) {
	if err := sess.Touch(); err != nil {
		return nil, err
	}
	return s.uow.Reports().MaxBalanceAccount(ctx)
}

// CountryExpenditure sums annual expenditure of persons grouped by the
// country of the branches where they hold accounts.
func (s *Service) CountryExpenditure(ctx context.Context, sess *session.Session) ([]dto.CountryExpenditureRow, error) {
	if err := sess.Touch(); err != nil {
		return nil, err
	}
	return s.uow.Reports().CountryExpenditure(ctx)
}

// SearchPersonsByName matches the pattern against the assembled full name,
// case-insensitively. The pattern is always bound, never interpolated.
func (s *Service) SearchPersonsByName(ctx context.Context, sess *session.Session, pattern string) ([]dto.PersonRead, error) {
	if err := sess.Touch(); err != nil {
		return nil, err
	}
	if pattern == "" {
		return nil, domain.Wrap(domain.ErrValidation, "empty search pattern")
	}
	return s.uow.Reports().SearchPersonsByName(ctx, pattern)
}

// SearchBanksByName matches the pattern against bank names and reports each
// match with its registered location and branch count.
func (s *Service) SearchBanksByName(ctx context.Context, sess *session.Session, pattern string) ([]dto.BankSearchRow, error) {
	if err := sess.Touch(); err != nil {
		return nil, err
	}
	if pattern == "" {
		return nil, domain.Wrap(domain.ErrValidation, "empty search pattern")
	}
	return s.uow.Reports().SearchBanksByName(ctx, pattern)
}

// ExpenditurePatterns groups persons spending more than minPercent of their
// income, by nationality, heaviest group first.
func (s *Service) ExpenditurePatterns(ctx context.Context, sess *session.Session, minPercent decimal.Decimal) ([]dto.ExpenditurePatternRow, error) {
	if err := sess.Touch(); err != nil {
		return nil, err
	}
	if minPercent.IsNegative() {
		return nil, domain.Wrap(domain.ErrValidation, "spending threshold must not be negative")
	}
	return s.uow.Reports().ExpenditurePatterns(ctx, minPercent)
}

// TransactionPatterns lists persons who sent at least minCount transfers
// inside [from, to], with count, total and average amount.
func (s *Service) TransactionPatterns(ctx context.Context, sess *session.Session, from, to time.Time, minCount int64) ([]dto.TransactionPatternRow, error) {
	if err := sess.Touch(); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, domain.Wrap(domain.ErrValidation, "range end precedes range start")
	}
	if minCount < 1 {
		return nil, domain.Wrap(domain.ErrValidation, "minimum transaction count must be at least 1")
	}
	return s.uow.Reports().TransactionPatterns(ctx, from, to, minCount)
}
