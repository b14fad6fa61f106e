package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/mkhalaf/bankcore/pkg/domain"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil passes through", nil, nil},
		{"duplicate key", gorm.ErrDuplicatedKey, domain.ErrAlreadyExists},
		{"wrapped duplicate key", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), domain.ErrAlreadyExists},
		{"record not found", gorm.ErrRecordNotFound, domain.ErrNotFound},
		{"foreign key names the absent parent", gorm.ErrForeignKeyViolated, domain.ErrNotFound},
		{"invalid transaction", gorm.ErrInvalidTransaction, domain.ErrTransientStore},
		{"deadline exceeded", context.DeadlineExceeded, domain.ErrTransientStore},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, domain.ErrTransientStore},
		{"deadlock detected", &pgconn.PgError{Code: "40P01"}, domain.ErrTransientStore},
		{"lock not available", &pgconn.PgError{Code: "55P03"}, domain.ErrTransientStore},
		{"connection failure", &pgconn.PgError{Code: "08006"}, domain.ErrTransientStore},
		{"wrapped serialization failure",
			fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40001"}), domain.ErrTransientStore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestMapError_UnknownErrorUntouched(t *testing.T) {
	sentinel := errors.New("disk on fire")
	assert.Same(t, sentinel, mapError(sentinel))
}
