// Package auth reads the session token issued by the team server. The
// client cannot verify the signature; the server does that on every call.
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/heartmarshall/teamqueries/internal/domain"
)

// Claims are the token fields the client relies on.
type Claims struct {
	UserID    string
	Role      domain.UserRole
	ExpiresAt time.Time
}

// sessionClaims extends standard JWT claims with the fields the server puts
// in its tokens. Older tokens carry the user ID in "id" instead of "sub".
type sessionClaims struct {
	jwt.RegisteredClaims
	LegacyID string `json:"id,omitempty"`
	UserID   string `json:"userId,omitempty"`
	Role     string `json:"role,omitempty"`
}

func (c *sessionClaims) userID() string {
	for _, id := range []string{c.Subject, c.LegacyID, c.UserID} {
		if id != "" {
			return id
		}
	}
	return ""
}

var parser = jwt.NewParser()

// ReadClaims decodes token without verifying its signature. Errors wrap
// domain.ErrUnauthorized.
func ReadClaims(token string) (Claims, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return Claims{}, fmt.Errorf("auth.ReadClaims: %w: token is empty", domain.ErrUnauthorized)
	}

	var sc sessionClaims
	if _, _, err := parser.ParseUnverified(token, &sc); err != nil {
		return Claims{}, fmt.Errorf("auth.ReadClaims: %w: %v", domain.ErrUnauthorized, err)
	}

	id := sc.userID()
	if id == "" {
		return Claims{}, fmt.Errorf("auth.ReadClaims: %w: token has no subject", domain.ErrUnauthorized)
	}

	c := Claims{UserID: id, Role: domain.UserRole(strings.ToLower(sc.Role))}
	if !c.Role.IsValid() {
		c.Role = domain.UserRoleUser
	}
	if sc.ExpiresAt != nil {
		c.ExpiresAt = sc.ExpiresAt.Time
	}
	return c, nil
}

// NewSession builds the session for a login response. The token must belong
// to user and must not be expired at now.
func NewSession(token string, user domain.User, now time.Time) (domain.Session, error) {
	c, err := ReadClaims(token)
	if err != nil {
		return domain.Session{}, err
	}
	if user.ID != "" && c.UserID != user.ID {
		return domain.Session{}, fmt.Errorf("auth.NewSession: %w: token subject %s does not match user %s",
			domain.ErrUnauthorized, c.UserID, user.ID)
	}
	if user.ID == "" {
		user.ID = c.UserID
		user.Role = c.Role
	}

	sess := domain.Session{User: user, Token: token, ExpiresAt: c.ExpiresAt}
	if sess.IsExpired(now) {
		return domain.Session{}, fmt.Errorf("auth.NewSession: %w: token expired at %s",
			domain.ErrUnauthorized, c.ExpiresAt.Format(time.RFC3339))
	}
	return sess, nil
}
