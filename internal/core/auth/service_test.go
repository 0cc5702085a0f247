package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"health-heroes/internal/infrastructure/config"
	"health-heroes/internal/pkg/common"
	"health-heroes/internal/repository"
	"health-heroes/internal/testutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) *Service {
	t.Helper()
	db := testutil.DB(t)
	return NewService(repository.NewUserRepo(db), config.AuthConfig{
		JWTSecret:     "test-secret-0123456789",
		JWTExpiration: time.Hour,
		BcryptCost:    bcrypt.MinCost,
	})
}

func register(t *testing.T, svc *Service, email string) {
	t.Helper()
	_, err := svc.Register(context.Background(), RegisterParams{
		Name: "Amal", Email: email, Password: "password1",
	})
	require.NoError(t, err)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	register(t, svc, "  Amal@Example.com ")

	_, err := svc.Register(ctx, RegisterParams{Name: "B", Email: "amal@example.com", Password: "password1"})
	assert.True(t, errors.Is(err, common.ErrEmailTaken))

	_, err = svc.Login(ctx, "amal@example.com", "wrong-password")
	assert.True(t, errors.Is(err, common.ErrInvalidCredentials))
	_, err = svc.Login(ctx, "nobody@example.com", "password1")
	assert.True(t, errors.Is(err, common.ErrInvalidCredentials))

	session, err := svc.Login(ctx, "AMAL@example.com", "password1")
	require.NoError(t, err)
	require.NotNil(t, session.User.LastLogin)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, time.Minute)

	claims, err := svc.ParseToken(session.Token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, id)
	assert.NotEmpty(t, claims.ID)

	me, err := svc.Me(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "amal@example.com", me.Email)
}

func TestParseTokenRejectsInvalid(t *testing.T) {
	svc := newAuthService(t)
	register(t, svc, "amal@example.com")
	session, err := svc.Login(context.Background(), "amal@example.com", "password1")
	require.NoError(t, err)

	_, err = svc.ParseToken(session.Token + "x")
	assert.True(t, errors.Is(err, common.ErrUnauthorized))

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ParseToken(session.Token)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "1", Issuer: issuer})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ParseToken(unsigned)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
}
