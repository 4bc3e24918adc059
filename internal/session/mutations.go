package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamqueries/internal/adapter/api"
	"github.com/heartmarshall/teamqueries/internal/domain"
	"github.com/heartmarshall/teamqueries/internal/service/lifecycle"
)

const speculativePrefix = "local-"

// Submit validates in, shows it as a speculative record and sends it to the
// server. On success the speculative record is replaced by the server's; on
// failure it is rolled back. The leave assessment is returned whenever the
// input is valid.
func (c *Controller) Submit(ctx context.Context, in lifecycle.SubmitInput) (domain.Request, lifecycle.LeaveAssessment, error) {
	assessment, err := in.Assess(c.sess.User.PaidLeaveBalance)
	if err != nil {
		return domain.Request{}, lifecycle.LeaveAssessment{}, fmt.Errorf("session.Submit: %w", err)
	}
	in = in.Normalized()

	now := c.now().UTC()
	local := domain.Request{
		ID:        speculativePrefix + uuid.NewString(),
		Requester: c.sess.User.Ref(),
		Kind:      in.Kind,
		Text:      in.Text,
		Leave:     in.Leave,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.store.InsertSpeculative(local); err != nil {
		return domain.Request{}, assessment, fmt.Errorf("session.Submit: %w", err)
	}

	created, err := c.api.SubmitRequest(ctx, api.NewRequest{Kind: in.Kind, Text: in.Text, Leave: in.Leave})
	if err != nil {
		c.store.Rollback(local.ID)
		c.afterWriteError(ctx, err)
		return domain.Request{}, assessment, fmt.Errorf("session.Submit: %w", err)
	}
	c.store.Confirm(local.ID, created)

	c.log.InfoContext(ctx, "request submitted",
		slog.String("request_id", created.ID),
		slog.String("kind", created.Kind.String()),
		slog.Bool("over_balance", assessment.OverBalance),
	)
	return created, assessment, nil
}

// ChangeStatus moves request id to status to. The transition is checked
// before any network call; a rejected one changes nothing.
func (c *Controller) ChangeStatus(ctx context.Context, id string, to domain.RequestStatus, comment string) (domain.Request, lifecycle.Transition, error) {
	current, ok := c.store.Get(id)
	if !ok {
		return domain.Request{}, lifecycle.Transition{}, fmt.Errorf("session.ChangeStatus %s: %w", id, domain.ErrNotFound)
	}
	tr, err := c.authority.Plan(c.sess, current, to, comment)
	if err != nil {
		return domain.Request{}, lifecycle.Transition{}, fmt.Errorf("session.ChangeStatus: %w", err)
	}
	if tr.MissingReason {
		c.log.WarnContext(ctx, "rejecting without a reason", slog.String("request_id", id))
	}

	updated, err := c.api.UpdateStatus(ctx, id, tr.To, tr.Comment)
	if err != nil {
		c.afterWriteError(ctx, err)
		return domain.Request{}, tr, fmt.Errorf("session.ChangeStatus: %w", err)
	}

	// A push event may have deleted or advanced the record meanwhile.
	c.store.UpsertIf(updated, func(cur domain.Request, known bool) bool {
		return known && c.authority.Reconcile(cur, updated) == lifecycle.Accept
	})

	c.log.InfoContext(ctx, "request status changed",
		slog.String("request_id", id),
		slog.String("from", tr.From.String()),
		slog.String("to", tr.To.String()),
	)
	return updated, tr, nil
}

// Delete removes request id. Members may delete only their own requests.
func (c *Controller) Delete(ctx context.Context, id string) error {
	req, ok := c.store.Get(id)
	if !ok {
		return fmt.Errorf("session.Delete %s: %w", id, domain.ErrNotFound)
	}
	if req.Speculative {
		return fmt.Errorf("session.Delete: %w", domain.NewValidationError("request", "not confirmed by the server yet"))
	}
	if !lifecycle.CanDelete(c.sess, req) {
		return fmt.Errorf("session.Delete: %w", domain.ErrForbidden)
	}

	if err := c.api.DeleteRequest(ctx, id); err != nil {
		c.afterWriteError(ctx, err)
		return fmt.Errorf("session.Delete: %w", err)
	}
	c.store.Remove(id)

	c.log.InfoContext(ctx, "request deleted", slog.String("request_id", id))
	return nil
}

// MarkAllRead marks every notification read on the server and then in the
// store. It returns the number of notifications that changed locally.
func (c *Controller) MarkAllRead(ctx context.Context) (int, error) {
	if err := c.api.MarkNotificationsRead(ctx); err != nil {
		c.afterWriteError(ctx, err)
		return 0, fmt.Errorf("session.MarkAllRead: %w", err)
	}
	return c.store.MarkAllNotificationsRead(), nil
}
