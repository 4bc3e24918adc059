package domain

import (
	"time"
	"unicode/utf8"
)

// MaxRequestTextLength is the maximum request text length in code points.
const MaxRequestTextLength = 1000

// UserRef is a weak reference to a user together with the snapshot of the
// user's display data taken when the referencing record was last synced.
type UserRef struct {
	ID           string
	Name         string
	Email        string
	Mobile       string
	ProfileImage string
}

// LeaveRange is an inclusive range of calendar dates.
type LeaveRange struct {
	Start time.Time
	End   time.Time
}

// Request is a query or leave request raised by a team member.
type Request struct {
	ID        string
	RequestNo *int64
	Requester UserRef
	Kind      RequestKind
	Text      string
	Leave     *LeaveRange
	Status    RequestStatus
	Comment   *string
	ActionBy  *UserRef
	CreatedAt time.Time
	UpdatedAt time.Time

	// Speculative marks a locally created record that the server has not
	// confirmed yet. It is never sent on the wire.
	Speculative bool
}

// CheckInvariants validates the structural rules every stored request obeys.
func (r Request) CheckInvariants() error {
	var errs []FieldError

	if r.ID == "" {
		errs = append(errs, FieldError{Field: "id", Message: "required"})
	}
	if !r.Kind.IsValid() {
		errs = append(errs, FieldError{Field: "kind", Message: "unknown request kind"})
	}
	if !r.Status.IsValid() {
		errs = append(errs, FieldError{Field: "status", Message: "unknown status"})
	}
	if utf8.RuneCountInString(r.Text) > MaxRequestTextLength {
		errs = append(errs, FieldError{Field: "text", Message: "max 1000 characters"})
	}

	switch {
	case r.Kind == KindLeave && r.Leave == nil:
		errs = append(errs, FieldError{Field: "leave_range", Message: "required for leave requests"})
	case r.Kind != KindLeave && r.Leave != nil:
		errs = append(errs, FieldError{Field: "leave_range", Message: "only allowed on leave requests"})
	case r.Leave != nil && r.Leave.End.Before(r.Leave.Start):
		errs = append(errs, FieldError{Field: "leave_range", Message: "end before start"})
	}

	if r.Status == StatusPending && (r.ActionBy != nil || r.Comment != nil) {
		errs = append(errs, FieldError{Field: "action_by", Message: "must be unset while pending"})
	}

	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// IsOwnedBy reports whether userID raised the request.
func (r Request) IsOwnedBy(userID string) bool {
	return userID != "" && r.Requester.ID == userID
}
