package operators

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BariVakhidov/guestlist/internal/domain/models"
)

func newAuthenticator(ttl time.Duration) *Authenticator {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), "door-secret", ttl)
}

func TestIssueAndAuthenticate(t *testing.T) {
	a := newAuthenticator(time.Hour)
	name := gofakeit.Name()

	issued, token, err := a.IssueToken(models.Operator{Name: name})
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)
	assert.Equal(t, models.RoleOperator, issued.Role)

	operator, err := a.AuthenticateByToken(token)
	require.NoError(t, err)
	assert.Equal(t, issued, operator)
	assert.False(t, operator.IsAdmin())

	_, adminToken, err := a.IssueToken(models.Operator{ID: "admin-1", Name: name, Role: models.RoleAdmin})
	require.NoError(t, err)
	admin, err := a.AuthenticateByToken(adminToken)
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
}

func TestIssueToken_Rejects(t *testing.T) {
	a := newAuthenticator(time.Hour)

	_, _, err := a.IssueToken(models.Operator{Name: "  "})
	assert.ErrorIs(t, err, ErrInvalidOperator)

	_, _, err = a.IssueToken(models.Operator{Name: "Door", Role: "root"})
	assert.ErrorIs(t, err, ErrInvalidOperator)
}

func TestAuthenticateByToken_Rejects(t *testing.T) {
	_, expired, err := newAuthenticator(-time.Minute).IssueToken(models.Operator{Name: "Door"})
	require.NoError(t, err)

	a := newAuthenticator(time.Hour)
	for _, token := range []string{"", "garbage", expired} {
		_, err := a.AuthenticateByToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}
