package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/mkhalaf/bankcore/pkg/domain"
)

// mapError converts store errors to domain errors so database concerns never
// leak past the infra layer. The unwrap chain is walked because GORM wraps
// driver errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		switch {
		case errors.Is(cur, gorm.ErrDuplicatedKey):
			return domain.Wrap(domain.ErrAlreadyExists, err.Error())
		case errors.Is(cur, gorm.ErrForeignKeyViolated):
			// The referenced parent row is gone; surface it as the absent
			// entity rather than a raw constraint failure.
			return domain.ErrNotFound
		case errors.Is(cur, gorm.ErrRecordNotFound):
			return domain.ErrNotFound
		case errors.Is(cur, gorm.ErrInvalidTransaction),
			errors.Is(cur, context.DeadlineExceeded):
			return domain.Wrap(domain.ErrTransientStore, err.Error())
		}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && transientPgCode(pgErr.Code) {
		return domain.Wrap(domain.ErrTransientStore, err.Error())
	}
	return err
}

// transientPgCode reports whether a Postgres SQLSTATE marks a failure that a
// retry can resolve: serialization conflicts, deadlocks, lock timeouts, and
// connection loss (class 08).
func transientPgCode(code string) bool {
	switch code {
	case "40001", "40P01", "55P03":
		return true
	}
	return strings.HasPrefix(code, "08")
}
