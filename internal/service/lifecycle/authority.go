// Package lifecycle encodes the request status state machine, role gating,
// submission validation and leave-day accounting.
package lifecycle

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/teamqueries/internal/domain"
)

// transitions lists the legal next states of each status.
var transitions = map[domain.RequestStatus][]domain.RequestStatus{
	domain.StatusPending:  {domain.StatusApproved, domain.StatusCancelled},
	domain.StatusApproved: {domain.StatusResolved},
}

// Transition is a checked status change ready to be sent to the server.
type Transition struct {
	RequestID string
	From      domain.RequestStatus
	To        domain.RequestStatus
	Comment   string
	// MissingReason is set when a rejection carries no comment. It is a
	// warning only.
	MissingReason bool
}

// Decision is the outcome of reconciling an externally sourced record.
type Decision int

const (
	// Accept means the incoming record may replace the known one.
	Accept Decision = iota
	// Stale means the incoming record would move the status backwards or is
	// older than the known one; it must be dropped.
	Stale
)

func (d Decision) String() string {
	if d == Accept {
		return "accept"
	}
	return "stale"
}

// Authority answers every lifecycle question. It holds no request state.
type Authority struct {
	log *slog.Logger
}

// NewAuthority creates an Authority.
func NewAuthority(logger *slog.Logger) *Authority {
	return &Authority{log: logger.With("service", "lifecycle")}
}

// Targets returns the statuses reachable from status in one step.
func Targets(status domain.RequestStatus) []domain.RequestStatus {
	next := transitions[status]
	out := make([]domain.RequestStatus, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether from -> to is a single legal step.
func CanTransition(from, to domain.RequestStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Reachable reports whether to can be reached from from along one or more
// legal steps.
func Reachable(from, to domain.RequestStatus) bool {
	seen := map[domain.RequestStatus]bool{from: true}
	queue := []domain.RequestStatus{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range transitions[cur] {
			if next == to {
				return true
			}
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// Plan checks a status change requested by the session user. It must be
// called before any network call; a rejected plan leaves nothing to undo.
// An illegal step yields a *domain.TransitionError, a non-admin actor yields
// domain.ErrForbidden.
func (a *Authority) Plan(sess domain.Session, req domain.Request, to domain.RequestStatus, comment string) (Transition, error) {
	if req.Speculative {
		return Transition{}, domain.NewValidationError("request", "not confirmed by the server yet")
	}
	if !to.IsValid() {
		return Transition{}, domain.NewValidationError("status", fmt.Sprintf("unknown status %q", to))
	}
	if !CanTransition(req.Status, to) {
		return Transition{}, &domain.TransitionError{From: req.Status, To: to}
	}
	if !sess.IsAdmin() {
		return Transition{}, domain.ErrForbidden
	}

	comment = strings.TrimSpace(comment)
	t := Transition{
		RequestID:     req.ID,
		From:          req.Status,
		To:            to,
		Comment:       comment,
		MissingReason: to == domain.StatusCancelled && comment == "",
	}
	return t, nil
}

// Reconcile decides whether incoming, received from the server outside a
// request/response cycle, may replace current. Status must move forward
// along the table (several steps at once are fine when intermediate events
// were lost); an equal status is accepted unless incoming is older.
func (a *Authority) Reconcile(current, incoming domain.Request) Decision {
	if current.Speculative {
		return Accept
	}
	if current.Status == incoming.Status {
		if !incoming.UpdatedAt.IsZero() && incoming.UpdatedAt.Before(current.UpdatedAt) {
			return Stale
		}
		return Accept
	}
	if Reachable(current.Status, incoming.Status) {
		return Accept
	}

	a.log.Debug("stale status change dropped",
		slog.String("request_id", current.ID),
		slog.String("current", current.Status.String()),
		slog.String("incoming", incoming.Status.String()),
	)
	return Stale
}

// CanDelete reports whether the session user may delete req: admins may
// delete anything, members only their own requests.
func CanDelete(sess domain.Session, req domain.Request) bool {
	return sess.IsAdmin() || sess.Owns(req)
}
