// Package transfer moves money between accounts. A transfer is the only
// writer of account balances and always runs at serializable isolation with
// the sender row locked, so the no-overdraft invariant holds under any
// interleaving.
package transfer

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mkhalaf/bankcore/pkg/domain"
	"github.com/mkhalaf/bankcore/pkg/dto"
	"github.com/mkhalaf/bankcore/pkg/password"
	"github.com/mkhalaf/bankcore/pkg/repository"
	"github.com/mkhalaf/bankcore/pkg/session"
)

type Service struct {
	uow      repository.UnitOfWork
	sessions *session.Registry
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

func New(uow repository.UnitOfWork, sessions *session.Registry, logger *slog.Logger) *Service {
	return &Service{
		uow:      uow,
		sessions: sessions,
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}
}

// Execute runs one transfer for the session holder. The secret is re-verified
// against the sender account's owner before any lock is taken; a mismatch
// terminates the session. On success the debit, the credit and the ledger row
// commit as one outcome and the transaction id is returned.
func (s *Service) Execute(ctx context.Context, sess *session.Session, in dto.TransferRequest) (int64, error) {
	if err := sess.Touch(); err != nil {
		return 0, err
	}
	if err := s.validate.Struct(in); err != nil {
		return 0, domain.Wrap(domain.ErrValidation, err.Error())
	}
	if !in.Amount.IsPositive() {
		return 0, domain.Wrap(domain.ErrValidation, "transfer amount must be positive")
	}
	if in.SenderAccount == in.ReceiverAccount {
		return 0, domain.Wrap(domain.ErrValidation, "sender and receiver must differ")
	}

	// Ownership and the secret are checked on the plain connection; the
	// locked section below re-reads the balance, so a stale read here is
	// harmless.
	sender, err := s.uow.Accounts().Get(ctx, in.SenderAccount)
	if err != nil {
		return 0, err
	}
	if sender.Owner != sess.Person {
		s.sessions.Close(sess)
		s.logger.Warn("transfer from foreign account, session terminated",
			"account", in.SenderAccount)
		return 0, domain.Wrap(domain.ErrSecurity, "sender account is not held by this session")
	}
	owner, err := s.uow.Persons().Get(ctx, sender.Owner)
	if err != nil {
		return 0, err
	}
	if !password.Verify(owner.PasswordHash, in.Secret) {
		s.sessions.Close(sess)
		s.logger.Warn("transfer secret mismatch, session terminated",
			"account", in.SenderAccount)
		return 0, domain.Wrap(domain.ErrSecurity, "transaction secret mismatch")
	}

	var txID int64
	err = s.uow.DoSerializable(ctx, func(uow repository.UnitOfWork) error {
		// Both rows are locked in ascending number order so two opposite
		// transfers cannot deadlock each other.
		first, second := in.SenderAccount, in.ReceiverAccount
		if second < first {
			first, second = second, first
		}
		a, err := uow.Accounts().GetForUpdate(ctx, first)
		if err != nil {
			return err
		}
		b, err := uow.Accounts().GetForUpdate(ctx, second)
		if err != nil {
			return err
		}
		locked, receiver := a, b
		if locked.Number != in.SenderAccount {
			locked, receiver = b, a
		}
		if locked.Balance.LessThan(in.Amount) {
			return domain.Wrap(domain.ErrInsufficientFunds, "balance below transfer amount")
		}
		if err := uow.Accounts().UpdateBalance(ctx, locked.Number, locked.Balance.Sub(in.Amount)); err != nil {
			return err
		}
		if err := uow.Accounts().UpdateBalance(ctx, receiver.Number, receiver.Balance.Add(in.Amount)); err != nil {
			return err
		}
		txID, err = uow.Keys().Next(ctx, repository.ScopeTransaction)
		if err != nil {
			return err
		}
		return uow.Transactions().Create(ctx, &domain.Transaction{
			ID:       txID,
			At:       s.now(),
			Amount:   in.Amount,
			Sender:   in.SenderAccount,
			Receiver: in.ReceiverAccount,
		})
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("transfer committed",
		"transaction_id", txID,
		"sender", in.SenderAccount,
		"receiver", in.ReceiverAccount,
		"amount", in.Amount)
	return txID, nil
}
