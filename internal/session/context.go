// Package session runs one authenticated session: it loads the initial view,
// keeps it live from push events and performs mutations against the server.
package session

import (
	"fmt"
	"time"

	"github.com/heartmarshall/teamqueries/internal/auth"
	"github.com/heartmarshall/teamqueries/internal/domain"
)

// NewContext builds the explicit session context for user and token. The
// token subject must match user and the token must not be expired at now.
func NewContext(user domain.User, token string, now time.Time) (domain.Session, error) {
	sess, err := auth.NewSession(token, user, now)
	if err != nil {
		return domain.Session{}, fmt.Errorf("session.NewContext: %w", err)
	}
	return sess, nil
}
