package push

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/teamqueries/internal/domain"
	"github.com/heartmarshall/teamqueries/internal/service/lifecycle"
)

// requestStore is the subset of the entity store the adapter writes to.
type requestStore interface {
	UpsertIf(req domain.Request, keep func(current domain.Request, known bool) bool) bool
	Remove(id string) bool
	PrependNotification(n domain.Notification) bool
}

// reconciler decides whether an incoming record may replace a known one.
type reconciler interface {
	Reconcile(current, incoming domain.Request) lifecycle.Decision
}

// AlertSink receives alerts for status changes on the session user's own
// requests.
type AlertSink interface {
	Alert(ctx context.Context, alert domain.Alert)
}

// AlertFunc adapts a function to AlertSink.
type AlertFunc func(ctx context.Context, alert domain.Alert)

func (f AlertFunc) Alert(ctx context.Context, alert domain.Alert) { f(ctx, alert) }

// Adapter applies push events for one session to its store.
type Adapter struct {
	log       *slog.Logger
	store     requestStore
	sess      domain.Session
	authority reconciler
	alerts    AlertSink
	metrics   *Metrics
}

// NewAdapter creates an Adapter. alerts and metrics may be nil.
func NewAdapter(
	logger *slog.Logger,
	store requestStore,
	sess domain.Session,
	authority reconciler,
	alerts AlertSink,
	metrics *Metrics,
) *Adapter {
	return &Adapter{
		log:       logger.With("service", "push", "user_id", sess.UserID()),
		store:     store,
		sess:      sess,
		authority: authority,
		alerts:    alerts,
		metrics:   metrics,
	}
}

// HandleRaw decodes frame and applies it. A malformed frame is logged,
// counted and dropped without touching the store.
func (a *Adapter) HandleRaw(ctx context.Context, frame []byte) Outcome {
	ev, err := Decode(frame)
	if err != nil {
		a.log.WarnContext(ctx, "malformed push event dropped",
			slog.String("event", ev.Kind.String()),
			slog.String("error", err.Error()),
		)
		a.metrics.observe(ev.Kind, OutcomeMalformed)
		return OutcomeMalformed
	}
	return a.Handle(ctx, ev)
}

// Handle applies a decoded event and reports what happened to it.
func (a *Adapter) Handle(ctx context.Context, ev Event) Outcome {
	outcome, err := a.apply(ctx, ev)
	if err != nil {
		a.log.WarnContext(ctx, "push event dropped",
			slog.String("event", ev.Kind.String()),
			slog.String("error", err.Error()),
		)
		outcome = OutcomeMalformed
	}
	a.metrics.observe(ev.Kind, outcome)
	return outcome
}

var errMissingPayload = fmt.Errorf("%w: missing payload", domain.ErrMalformedEvent)

func (a *Adapter) apply(ctx context.Context, ev Event) (Outcome, error) {
	switch ev.Kind {
	case KindNewRequest:
		if ev.Request == nil {
			return "", errMissingPayload
		}
		// The server already scopes events to their audience; this check
		// only keeps a misrouted event out of a member's view.
		if !a.sess.IsAdmin() && !a.sess.Owns(*ev.Request) {
			a.log.DebugContext(ctx, "new request filtered", slog.String("request_id", ev.Request.ID))
			return OutcomeFiltered, nil
		}
		if !a.upsertForward(*ev.Request) {
			return OutcomeStale, nil
		}
		return OutcomeApplied, nil

	case KindStatusUpdate:
		if ev.Request == nil {
			return "", errMissingPayload
		}
		return a.applyStatusUpdate(ctx, *ev.Request), nil

	case KindRequestDeleted:
		if ev.DeletedID == "" {
			return "", errMissingPayload
		}
		a.store.Remove(ev.DeletedID)
		return OutcomeApplied, nil

	case KindNotificationReceived:
		if ev.Notification == nil {
			return "", errMissingPayload
		}
		a.store.PrependNotification(*ev.Notification)
		return OutcomeApplied, nil
	}
	return "", fmt.Errorf("%w: unknown event %q", domain.ErrMalformedEvent, ev.Kind)
}

func (a *Adapter) applyStatusUpdate(ctx context.Context, incoming domain.Request) Outcome {
	var previous domain.Request
	var known bool
	applied := a.store.UpsertIf(incoming, func(current domain.Request, ok bool) bool {
		previous, known = current, ok
		return !ok || a.authority.Reconcile(current, incoming) == lifecycle.Accept
	})
	if !applied {
		return OutcomeStale
	}

	changed := !known || previous.Status != incoming.Status
	if changed && a.alerts != nil && a.sess.Owns(incoming) {
		a.alerts.Alert(ctx, alertFor(incoming))
	}
	return OutcomeApplied
}

// upsertForward stores incoming unless a known record is further along the
// lifecycle or newer. A redelivered new_request must not undo a status
// change that already arrived.
func (a *Adapter) upsertForward(incoming domain.Request) bool {
	return a.store.UpsertIf(incoming, func(current domain.Request, known bool) bool {
		return !known || a.authority.Reconcile(current, incoming) == lifecycle.Accept
	})
}

func alertFor(r domain.Request) domain.Alert {
	subject := "Your request"
	if r.RequestNo != nil {
		subject = fmt.Sprintf("Your request #%d", *r.RequestNo)
	}
	msg := fmt.Sprintf("%s is now %s", subject, r.Status)
	if r.ActionBy != nil && r.ActionBy.Name != "" {
		msg += " by " + r.ActionBy.Name
	}
	if r.Comment != nil {
		msg += ": " + *r.Comment
	}
	return domain.Alert{
		RequestID: r.ID,
		Status:    r.Status,
		Comment:   r.Comment,
		ActionBy:  r.ActionBy,
		Message:   msg,
	}
}
