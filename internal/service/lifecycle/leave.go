package lifecycle

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/teamqueries/internal/domain"
)

// SubmitAction is the label of the primary submit affordance.
type SubmitAction string

const (
	ActionSubmit       SubmitAction = "submit"
	ActionSubmitAnyway SubmitAction = "submit anyway"
)

// LeaveAssessment describes a leave range against the cached balance.
type LeaveAssessment struct {
	Days    int
	Balance decimal.Decimal
	// OverBalance is a warning, not a block: the server enforces the balance
	// when the request is approved.
	OverBalance bool
	Submittable bool
	Action      SubmitAction
}

const day = 24 * time.Hour

// LeaveDays counts the calendar days from start to end, both inclusive.
// It returns 0 when end is before start.
func LeaveDays(start, end time.Time) int {
	s, e := civil(start), civil(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s)/day) + 1
}

// civil drops the clock and zone so DST shifts cannot change a day count.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AssessLeave checks rng against the cached balance. A nil range is not
// submittable.
func AssessLeave(rng *domain.LeaveRange, balance decimal.Decimal) LeaveAssessment {
	a := LeaveAssessment{Balance: balance, Action: ActionSubmit}
	if rng == nil {
		return a
	}
	a.Days = LeaveDays(rng.Start, rng.End)
	a.Submittable = a.Days > 0
	a.OverBalance = decimal.NewFromInt(int64(a.Days)).GreaterThan(balance)
	if a.Submittable && a.OverBalance {
		a.Action = ActionSubmitAnyway
	}
	return a
}
