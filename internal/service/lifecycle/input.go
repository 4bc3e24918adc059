package lifecycle

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/teamqueries/internal/domain"
)

// SubmitInput holds the parameters of a new request.
type SubmitInput struct {
	Kind  domain.RequestKind
	Text  string
	Leave *domain.LeaveRange
}

// Validate checks all fields and collects all errors.
func (i SubmitInput) Validate() error {
	var errs []domain.FieldError

	text := strings.TrimSpace(i.Text)
	if text == "" {
		errs = append(errs, domain.FieldError{Field: "text", Message: "required"})
	}
	if utf8.RuneCountInString(text) > domain.MaxRequestTextLength {
		errs = append(errs, domain.FieldError{Field: "text", Message: "max 1000 characters"})
	}

	switch {
	case !i.Kind.IsValid():
		errs = append(errs, domain.FieldError{Field: "kind", Message: "must be 'general' or 'leave'"})
	case i.Kind == domain.KindLeave && i.Leave == nil:
		errs = append(errs, domain.FieldError{Field: "leave_range", Message: "required for leave requests"})
	case i.Kind == domain.KindGeneral && i.Leave != nil:
		errs = append(errs, domain.FieldError{Field: "leave_range", Message: "only allowed on leave requests"})
	case i.Leave != nil && LeaveDays(i.Leave.Start, i.Leave.End) == 0:
		errs = append(errs, domain.FieldError{Field: "leave_range", Message: "end before start"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Normalized returns a copy with trimmed text and date-only leave bounds.
func (i SubmitInput) Normalized() SubmitInput {
	out := SubmitInput{Kind: i.Kind, Text: strings.TrimSpace(i.Text)}
	if i.Leave != nil {
		out.Leave = &domain.LeaveRange{Start: civil(i.Leave.Start), End: civil(i.Leave.End)}
	}
	return out
}

// Assess validates the input and, for leave requests, checks the range
// against balance. Validation failures are returned as errors; an over
// balance is reported in the assessment only.
func (i SubmitInput) Assess(balance decimal.Decimal) (LeaveAssessment, error) {
	if err := i.Validate(); err != nil {
		return LeaveAssessment{}, err
	}
	if i.Kind != domain.KindLeave {
		return LeaveAssessment{Balance: balance, Submittable: true, Action: ActionSubmit}, nil
	}
	return AssessLeave(i.Leave, balance), nil
}
