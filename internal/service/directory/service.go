// Package directory implements the admin user directory: listing, searching
// and managing team members, plus batched user lookups.
package directory

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/teamqueries/internal/domain"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

// userAPI defines the admin REST operations needed by the directory.
type userAPI interface {
	FetchUsers(ctx context.Context) ([]domain.User, error)
	UpdateRole(ctx context.Context, userID string, role domain.UserRole) error
	UpdateLeaveBalance(ctx context.Context, userID string, balance decimal.Decimal, reason string) error
	DeleteUser(ctx context.Context, userID string) error
}

// Service holds the directory of one admin session.
type Service struct {
	log  *slog.Logger
	api  userAPI
	byID *dataloader.Loader[string, domain.User]

	mu    sync.RWMutex
	users []domain.User
}

// NewService creates a directory service.
func NewService(logger *slog.Logger, api userAPI) *Service {
	s := &Service{
		log: logger.With("service", "directory"),
		api: api,
	}
	s.byID = dataloader.NewBatchedLoader(
		s.batchUsers,
		dataloader.WithWait[string, domain.User](wait),
		dataloader.WithBatchCapacity[string, domain.User](maxBatch),
	)
	return s
}

// RoleCounts summarises the directory by role.
type RoleCounts struct {
	Total   int
	Admins  int
	Members int
}

// Refresh fetches the full user list (admin only) and replaces the cached
// directory.
func (s *Service) Refresh(ctx context.Context, sess domain.Session) ([]domain.User, error) {
	if !sess.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	users, err := s.api.FetchUsers(ctx)
	if err != nil {
		return nil, err
	}
	s.replace(users)
	s.byID.ClearAll()

	s.log.DebugContext(ctx, "directory refreshed", slog.Int("users", len(users)))
	return slices.Clone(users), nil
}

func (s *Service) replace(users []domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = slices.Clone(users)
}

// Users returns the cached directory.
func (s *Service) Users() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.users)
}

// Search returns the cached users whose name, email or mobile contains term,
// ignoring case. An empty term matches everyone.
func (s *Service) Search(term string) []domain.User {
	term = strings.ToLower(strings.TrimSpace(term))

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		if term == "" ||
			strings.Contains(strings.ToLower(u.Name), term) ||
			strings.Contains(strings.ToLower(u.Email), term) ||
			strings.Contains(strings.ToLower(u.Mobile), term) {
			out = append(out, u)
		}
	}
	return out
}

// Counts counts the cached users by role.
func (s *Service) Counts() RoleCounts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := RoleCounts{Total: len(s.users)}
	for _, u := range s.users {
		if u.Role.IsAdmin() {
			c.Admins++
		} else {
			c.Members++
		}
	}
	return c
}

// update applies fn to the cached user id. Unknown ids are ignored.
func (s *Service) update(id string, fn func(*domain.User)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := slices.IndexFunc(s.users, func(u domain.User) bool { return u.ID == id }); i >= 0 {
		fn(&s.users[i])
	}
}

func (s *Service) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = slices.DeleteFunc(s.users, func(u domain.User) bool { return u.ID == id })
}
