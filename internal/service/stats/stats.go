// Package stats derives dashboard counters from the request store.
package stats

import (
	"iter"

	"github.com/heartmarshall/teamqueries/internal/domain"
)

// Counts holds the number of requests per status. Other counts records whose
// status does not normalize to a known value.
type Counts struct {
	Pending   int
	Approved  int
	Resolved  int
	Cancelled int
	Other     int
}

// Total returns the number of records counted.
func (c Counts) Total() int {
	return c.Pending + c.Approved + c.Resolved + c.Cancelled + c.Other
}

// Of returns the count for status. Unknown statuses return Other.
func (c Counts) Of(status domain.RequestStatus) int {
	switch status {
	case domain.StatusPending:
		return c.Pending
	case domain.StatusApproved:
		return c.Approved
	case domain.StatusResolved:
		return c.Resolved
	case domain.StatusCancelled:
		return c.Cancelled
	}
	return c.Other
}

// Project counts requests by normalized status. It is a pure function of
// its input and may be recomputed on every store change.
func Project(requests iter.Seq[domain.Request]) Counts {
	var c Counts
	for r := range requests {
		switch domain.NormalizeStatus(string(r.Status)) {
		case domain.StatusPending:
			c.Pending++
		case domain.StatusApproved:
			c.Approved++
		case domain.StatusResolved:
			c.Resolved++
		case domain.StatusCancelled:
			c.Cancelled++
		default:
			c.Other++
		}
	}
	return c
}
