package auth_test

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
	"github.com/mkhalaf/bankcore/pkg/service/auth"
	"github.com/mkhalaf/bankcore/pkg/service/registry"
	"github.com/mkhalaf/bankcore/pkg/session"
)

const secret = "open-sesame"

func setup(t *testing.T) (*auth.Service, domain.PersonKey) {
	t.Helper()
	uow := infrarepo.NewUoW(fixtures.NewTestDB(t))
	logger := slog.Default()

	key, err := registry.New(uow, logger).CreatePerson(context.Background(), dto.PersonCreate{
		Nationality: "IN", NationalID: "1001",
		Password: secret, DateOfBirth: "1990-04-01", Phone: "555-0101",
		AnnualIncome:      decimal.RequireFromString("50000"),
		AnnualExpenditure: decimal.RequireFromString("20000"),
		FirstName:         "Ada", LastName: "Lovelace",
		Emails: []string{"ada@example.com"},
	})
	require.NoError(t, err)

	return auth.New(uow, session.NewRegistry(time.Minute), logger), key
}

func TestLogin_Success(t *testing.T) {
	svc, key := setup(t)

	sess, err := svc.Login(context.Background(), key, secret)
	require.NoError(t, err)
	assert.Equal(t, key, sess.Person)
	assert.NoError(t, sess.Touch())
}

func TestLogin_WrongSecret(t *testing.T) {
	svc, key := setup(t)

	_, err := svc.Login(context.Background(), key, "guess")
	assert.ErrorIs(t, err, domain.ErrSecurity)
}

func TestLogin_UnknownIdentityIndistinguishable(t *testing.T) {
	svc, key := setup(t)

	_, wrongSecret := svc.Login(context.Background(), key, "guess")
	_, unknown := svc.Login(context.Background(),
		domain.PersonKey{Nationality: "IN", NationalID: "no-such"}, secret)

	require.Error(t, wrongSecret)
	require.Error(t, unknown)
	assert.Equal(t, wrongSecret.Error(), unknown.Error(),
		"probing for registered identities must not be possible")
	assert.NotErrorIs(t, unknown, domain.ErrNotFound)
}

func TestLogout_TerminatesSession(t *testing.T) {
	svc, key := setup(t)

	sess, err := svc.Login(context.Background(), key, secret)
	require.NoError(t, err)
	svc.Logout(sess)
	assert.ErrorIs(t, sess.Touch(), domain.ErrSessionExpired)
}

func TestExpire_ForcesReauthentication(t *testing.T) {
	svc, key := setup(t)

	sess, err := svc.Login(context.Background(), key, secret)
	require.NoError(t, err)
	svc.Expire(sess)
	assert.True(t, sess.Closed())

	// A fresh login is the only way back in.
	again, err := svc.Login(context.Background(), key, secret)
	require.NoError(t, err)
	assert.NotEqual(t, sess.ID, again.ID)
}
