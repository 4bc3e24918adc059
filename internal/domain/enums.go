package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RequestStatus is the lifecycle state of a request.
type RequestStatus string

const (
	StatusPending   RequestStatus = "Pending"
	StatusApproved  RequestStatus = "Approved"
	StatusResolved  RequestStatus = "Resolved"
	StatusCancelled RequestStatus = "Cancelled"
)

// Statuses lists every status in display order.
var Statuses = []RequestStatus{StatusPending, StatusApproved, StatusResolved, StatusCancelled}

func (s RequestStatus) String() string { return string(s) }

func (s RequestStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusResolved, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is permitted.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusResolved || s == StatusCancelled
}

// NormalizeStatus trims and title-cases raw so that " pending" and "PENDING"
// both become StatusPending. The result may still be invalid.
func NormalizeStatus(raw string) RequestStatus {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return RequestStatus(cases.Title(language.Und).String(trimmed))
}

// RequestKind distinguishes plain queries from leave requests.
type RequestKind string

const (
	KindGeneral RequestKind = "general"
	KindLeave   RequestKind = "leave"
)

func (k RequestKind) String() string { return string(k) }

func (k RequestKind) IsValid() bool {
	switch k {
	case KindGeneral, KindLeave:
		return true
	}
	return false
}

// UserRole represents the authorization level of a user.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleUser, UserRoleAdmin:
		return true
	}
	return false
}

func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin
}

// NotificationType classifies a server notification. The set is open; the
// constants are the types the server is known to send.
type NotificationType string

const (
	NotificationLeaveUpdate NotificationType = "leave_update"
	NotificationNewRequest  NotificationType = "new_request"
)

func (t NotificationType) String() string { return string(t) }
