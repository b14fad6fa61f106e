// Package auth authenticates actors against stored credentials and issues
// sessions.
package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mkhalaf/bankcore/pkg/domain"
	"github.com/mkhalaf/bankcore/pkg/password"
	"github.com/mkhalaf/bankcore/pkg/repository"
	"github.com/mkhalaf/bankcore/pkg/session"
)

type Service struct {
	uow      repository.UnitOfWork
	sessions *session.Registry
	logger   *slog.Logger
}

func New(uow repository.UnitOfWork, sessions *session.Registry, logger *slog.Logger) *Service {
	return &Service{uow: uow, sessions: sessions, logger: logger}
}

// Login verifies the secret against the stored digest and opens a session.
// Unknown identity and wrong secret are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, key domain.PersonKey, secret string) (*session.Session, error) {
	log := s.logger.With("nationality", key.Nationality, "national_id", key.NationalID)
	if err := s.VerifySecret(ctx, key, secret); err != nil {
		log.Warn("login failed")
		return nil, err
	}
	sess := s.sessions.Open(key)
	log.Info("login successful", "session_id", sess.ID)
	return sess, nil
}

// VerifySecret checks a candidate secret for the given person. Used both at
// login and by the transfer path's re-authentication step.
func (s *Service) VerifySecret(ctx context.Context, key domain.PersonKey, secret string) error {
	p, err := s.uow.Persons().Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Wrap(domain.ErrSecurity, "invalid credentials")
		}
		return err
	}
	if !password.Verify(p.PasswordHash, secret) {
		return domain.Wrap(domain.ErrSecurity, "invalid credentials")
	}
	return nil
}

// Logout terminates the session.
func (s *Service) Logout(sess *session.Session) {
	s.sessions.Close(sess)
	s.logger.Info("session closed", "session_id", sess.ID)
}

// Expire terminates a session after a security failure so the actor must
// re-authenticate.
func (s *Service) Expire(sess *session.Session) {
	s.sessions.Close(sess)
	s.logger.Warn("session terminated after security failure", "session_id", sess.ID)
}
