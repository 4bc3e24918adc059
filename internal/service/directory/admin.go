package directory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/teamqueries/internal/domain"
)

// SetRole changes the role of a user (admin only).
func (s *Service) SetRole(ctx context.Context, sess domain.Session, userID string, role domain.UserRole) error {
	if !sess.IsAdmin() {
		return domain.ErrForbidden
	}
	if !role.IsValid() {
		return domain.NewValidationError("role", "invalid role: must be 'user' or 'admin'")
	}

	// Prevent admin from demoting themselves.
	if sess.UserID() == userID && role == domain.UserRoleUser {
		return domain.NewValidationError("role", "cannot demote yourself")
	}

	if err := s.api.UpdateRole(ctx, userID, role); err != nil {
		return fmt.Errorf("directory.SetRole: %w", err)
	}
	s.update(userID, func(u *domain.User) { u.Role = role })
	s.byID.Clear(ctx, userID)

	s.log.InfoContext(ctx, "user role updated",
		slog.String("target_user_id", userID),
		slog.String("new_role", role.String()),
	)
	return nil
}

// UpdateLeaveBalance sets the paid leave balance of a user (admin only). The
// balance must not be negative and a reason is required.
func (s *Service) UpdateLeaveBalance(ctx context.Context, sess domain.Session, userID string, balance decimal.Decimal, reason string) error {
	if !sess.IsAdmin() {
		return domain.ErrForbidden
	}

	reason = strings.TrimSpace(reason)
	var errs []domain.FieldError
	if balance.IsNegative() {
		errs = append(errs, domain.FieldError{Field: "balance", Message: "must not be negative"})
	}
	if reason == "" {
		errs = append(errs, domain.FieldError{Field: "reason", Message: "required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}

	if err := s.api.UpdateLeaveBalance(ctx, userID, balance, reason); err != nil {
		return fmt.Errorf("directory.UpdateLeaveBalance: %w", err)
	}
	s.update(userID, func(u *domain.User) { u.PaidLeaveBalance = balance })
	s.byID.Clear(ctx, userID)

	s.log.InfoContext(ctx, "leave balance updated",
		slog.String("target_user_id", userID),
		slog.String("balance", balance.String()),
	)
	return nil
}

// DeleteUser removes a user (admin only). Admins cannot delete themselves.
func (s *Service) DeleteUser(ctx context.Context, sess domain.Session, userID string) error {
	if !sess.IsAdmin() {
		return domain.ErrForbidden
	}
	if sess.UserID() == userID {
		return domain.NewValidationError("user", "cannot delete yourself")
	}

	if err := s.api.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("directory.DeleteUser: %w", err)
	}
	s.remove(userID)
	s.byID.Clear(ctx, userID)

	s.log.InfoContext(ctx, "user deleted", slog.String("target_user_id", userID))
	return nil
}
