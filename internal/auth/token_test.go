package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/teamqueries/internal/domain"
)

// sign produces a token the way the server does. The client never sees the
// secret.
func sign(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-side-secret"))
	require.NoError(t, err)
	return token
}

func TestReadClaims(t *testing.T) {
	t.Parallel()

	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		claims jwt.Claims
		want   Claims
	}{
		{
			name: "subject and role",
			claims: sessionClaims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", ExpiresAt: jwt.NewNumericDate(exp)},
				Role:             "admin",
			},
			want: Claims{UserID: "u1", Role: domain.UserRoleAdmin, ExpiresAt: exp},
		},
		{
			name:   "legacy id claim",
			claims: jwt.MapClaims{"id": "u2", "role": "user"},
			want:   Claims{UserID: "u2", Role: domain.UserRoleUser},
		},
		{
			name:   "userId claim, unknown role",
			claims: jwt.MapClaims{"userId": "u3", "role": "owner"},
			want:   Claims{UserID: "u3", Role: domain.UserRoleUser},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ReadClaims(sign(t, tt.claims))
			require.NoError(t, err)
			assert.Equal(t, tt.want.UserID, got.UserID)
			assert.Equal(t, tt.want.Role, got.Role)
			assert.True(t, tt.want.ExpiresAt.Equal(got.ExpiresAt))
		})
	}
}

func TestReadClaims_BearerPrefix(t *testing.T) {
	t.Parallel()

	got, err := ReadClaims("Bearer " + sign(t, jwt.MapClaims{"sub": "u1"}))
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
}

func TestReadClaims_Invalid(t *testing.T) {
	t.Parallel()

	for name, token := range map[string]string{
		"empty":      "",
		"garbage":    "not.a.jwt",
		"no subject": sign(t, jwt.MapClaims{"role": "admin"}),
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := ReadClaims(token)
			require.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}

func TestNewSession(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	token := sign(t, jwt.MapClaims{"id": "u1", "role": "admin", "exp": now.Add(time.Hour).Unix()})
	user := domain.User{ID: "u1", Name: "Asha", Role: domain.UserRoleAdmin}

	sess, err := NewSession(token, user, now)
	require.NoError(t, err)
	assert.Equal(t, "Asha", sess.User.Name)
	assert.Equal(t, token, sess.Token)
	assert.Equal(t, now.Add(time.Hour).Unix(), sess.ExpiresAt.Unix())

	_, err = NewSession(token, domain.User{ID: "u2"}, now)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = NewSession(token, user, now.Add(2*time.Hour))
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestNewSession_TokenOnly(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sess, err := NewSession(sign(t, jwt.MapClaims{"sub": "u9", "role": "admin"}), domain.User{}, now)
	require.NoError(t, err)
	assert.Equal(t, "u9", sess.UserID())
	assert.True(t, sess.IsAdmin())
	assert.True(t, sess.ExpiresAt.IsZero())
}
