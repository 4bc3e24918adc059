package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a team member as seen by the client.
type User struct {
	ID           string
	Name         string
	Email        string
	Mobile       string
	Role         UserRole
	ProfileImage string

	// PaidLeaveBalance is the cached balance in days. The server owns the
	// authoritative value; this copy may be stale.
	PaidLeaveBalance decimal.Decimal

	CreatedAt time.Time
}

// Ref returns the weak reference snapshot of u.
func (u User) Ref() UserRef {
	return UserRef{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Mobile:       u.Mobile,
		ProfileImage: u.ProfileImage,
	}
}

// Notification is a server-generated message addressed to the session user.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	IsRead    bool
	CreatedAt time.Time
}

// Alert is surfaced to the session user when one of their own requests
// changes status.
type Alert struct {
	RequestID string
	Status    RequestStatus
	Comment   *string
	ActionBy  *UserRef
	Message   string
}
