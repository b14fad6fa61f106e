// Package goals owns the savings-goal purge. The purge is two-phase: an
// unlocked discovery pass lists the candidates for the caller, then a single
// unit of work deletes the confirmed goals, re-checking eligibility under
// the transaction so a goal funded between the passes survives.
package goals

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mkhalaf/bankcore/pkg/domain"
	"github.com/mkhalaf/bankcore/pkg/dto"
	"github.com/mkhalaf/bankcore/pkg/repository"
	"github.com/mkhalaf/bankcore/pkg/session"
)

type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
	now    func() time.Time
}

func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger, now: time.Now}
}

// FindExpired is the discovery pass: goals whose deadline has passed and
// whose saving is still short of the target. Read-only, no locks.
func (s *Service) FindExpired(ctx context.Context, sess *session.Session) ([]dto.GoalRead, error) {
	if err := sess.Touch(); err != nil {
		return nil, err
	}
	expired, err := s.uow.Goals().FindExpired(ctx, s.now())
	if err != nil {
		return nil, err
	}
	out := make([]dto.GoalRead, 0, len(expired))
	for _, g := range expired {
		out = append(out, goalRead(&g))
	}
	return out, nil
}

// PurgeExpired deletes the confirmed goals in one unit of work: either every
// eligible goal in keys is removed or none are. Eligibility is re-checked
// under the transaction, so a goal that was funded or removed since discovery
// is skipped, never an error. Returns the goals actually removed.
func (s *Service) PurgeExpired(ctx context.Context, sess *session.Session, keys []domain.GoalKey) ([]dto.GoalRead, error) {
	if err := sess.Touch(); err != nil {
		return nil, err
	}

	var removed []dto.GoalRead
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		removed = removed[:0]
		for _, key := range keys {
			g, err := uow.Goals().Get(ctx, key)
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if !g.Expired(s.now()) {
				continue
			}
			if err := uow.Goals().Delete(ctx, key); err != nil {
				return err
			}
			removed = append(removed, goalRead(g))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(removed) > 0 {
		s.logger.Info("expired goals purged", "count", len(removed))
	}
	return removed, nil
}

func goalRead(g *domain.SavingsGoal) dto.GoalRead {
	return dto.GoalRead{
		Name:          g.Key.Name,
		Nationality:   g.Key.Owner.Nationality,
		NationalID:    g.Key.Owner.NationalID,
		TargetAmount:  g.TargetAmount,
		CurrentSaving: g.CurrentSaving,
		Deadline:      g.Deadline,
	}
}
