package session

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"sync"
	"time"

	"github.com/heartmarshall/teamqueries/internal/adapter/api"
	"github.com/heartmarshall/teamqueries/internal/domain"
	"github.com/heartmarshall/teamqueries/internal/push"
	"github.com/heartmarshall/teamqueries/internal/service/lifecycle"
	"github.com/heartmarshall/teamqueries/internal/service/stats"
	"github.com/heartmarshall/teamqueries/internal/store"
)

// requestAPI defines the REST operations needed by the controller.
type requestAPI interface {
	FetchRequests(ctx context.Context) ([]domain.Request, error)
	FetchNotifications(ctx context.Context) ([]domain.Notification, error)
	SubmitRequest(ctx context.Context, in api.NewRequest) (domain.Request, error)
	UpdateStatus(ctx context.Context, id string, status domain.RequestStatus, comment string) (domain.Request, error)
	DeleteRequest(ctx context.Context, id string) error
	MarkNotificationsRead(ctx context.Context) error
}

// Subscription is an open push channel.
type Subscription interface {
	Messages() <-chan []byte
	Close()
}

// Subscriber opens push subscriptions for a session token.
type Subscriber interface {
	Subscribe(ctx context.Context, token string) (Subscription, error)
}

// SubscriberFunc adapts a function to Subscriber.
type SubscriberFunc func(ctx context.Context, token string) (Subscription, error)

func (f SubscriberFunc) Subscribe(ctx context.Context, token string) (Subscription, error) {
	return f(ctx, token)
}

// Deps holds the collaborators of a Controller. Alerts, Metrics and Now are
// optional. Alerts is called after the controller has released its locks, so
// a sink may read from or refresh the controller.
type Deps struct {
	Logger    *slog.Logger
	Session   domain.Session
	API       requestAPI
	Push      Subscriber
	Authority *lifecycle.Authority
	Alerts    push.AlertSink
	Metrics   *push.Metrics
	Now       func() time.Time
}

// Controller owns the store of one session and keeps it in sync with the
// server. Create a new Controller for every session.
type Controller struct {
	log       *slog.Logger
	sess      domain.Session
	api       requestAPI
	push      Subscriber
	authority *lifecycle.Authority
	store     *store.Store
	adapter   *push.Adapter
	alerts    push.AlertSink
	queued    *alertQueue
	now       func() time.Time

	// loadMu allows one load at a time.
	loadMu sync.Mutex

	// mu serialises push delivery against load and drain.
	mu         sync.Mutex
	started    bool
	stopped    bool
	loading    bool
	buffer     [][]byte
	sub        Subscription
	cancel     context.CancelFunc
	readerDone chan struct{}

	stopOnce sync.Once
}

// NewController creates a Controller with a fresh store for deps.Session.
func NewController(deps Deps) *Controller {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	log := deps.Logger.With("service", "session", "user_id", deps.Session.UserID())
	st := store.New(deps.Logger, deps.Session)

	// The adapter runs under c.mu; it only queues alerts.
	var queued *alertQueue
	var sink push.AlertSink
	if deps.Alerts != nil {
		queued = &alertQueue{}
		sink = queued
	}

	return &Controller{
		log:       log,
		sess:      deps.Session,
		api:       deps.API,
		push:      deps.Push,
		authority: deps.Authority,
		store:     st,
		adapter:   push.NewAdapter(deps.Logger, st, deps.Session, deps.Authority, sink, deps.Metrics),
		alerts:    deps.Alerts,
		queued:    queued,
		now:       now,
	}
}

// Session returns the session context.
func (c *Controller) Session() domain.Session { return c.sess }

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

// Start subscribes to push events, loads the initial view and then applies
// the events received meanwhile, in receipt order, before going live. A
// failed fetch leaves the session running on push events alone; the error is
// returned and Refresh may be called later.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	switch {
	case c.stopped:
		c.mu.Unlock()
		return fmt.Errorf("session.Start: %w", domain.ErrSessionClosed)
	case c.started:
		c.mu.Unlock()
		return fmt.Errorf("session.Start: already started")
	}
	c.started = true
	c.loading = true
	c.mu.Unlock()

	liveCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sub, err := c.push.Subscribe(liveCtx, c.sess.Token)
	if err != nil {
		cancel()
		c.mu.Lock()
		c.started, c.loading = false, false
		c.mu.Unlock()
		return fmt.Errorf("session.Start: subscribe: %w", err)
	}

	done := make(chan struct{})
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		cancel()
		sub.Close()
		return fmt.Errorf("session.Start: %w", domain.ErrSessionClosed)
	}
	c.sub, c.cancel, c.readerDone = sub, cancel, done
	c.mu.Unlock()
	go c.readLoop(liveCtx, sub, done)

	c.log.InfoContext(ctx, "session started")

	if err := c.load(ctx, true); err != nil {
		return fmt.Errorf("session.Start: %w", err)
	}
	return nil
}

// Refresh reloads the view from the server with the same buffering as Start.
// On failure the current contents stay and the error is returned.
func (c *Controller) Refresh(ctx context.Context) error {
	if err := c.load(ctx, false); err != nil {
		return fmt.Errorf("session.Refresh: %w", err)
	}
	return nil
}

// Stop disposes the push subscription, waits for its reader to exit and then
// clears and seals the store. Events arriving afterwards are dropped. It is
// safe to call more than once.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() {
		c.mu.Lock()
		c.stopped = true
		c.buffer = nil
		sub, cancel, done := c.sub, c.cancel, c.readerDone
		c.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		if sub != nil {
			sub.Close()
		}
		if done != nil {
			<-done
		}
		c.store.Close()

		c.log.Info("session stopped")
	})
}

func (c *Controller) readLoop(ctx context.Context, sub Subscription, done chan<- struct{}) {
	defer close(done)

	msgs := sub.Messages()
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-msgs:
			if !ok {
				c.log.Warn("push subscription ended")
				return
			}
			c.deliver(ctx, frame)
		}
	}
}

// deliver applies frame, or buffers it while a load is in flight.
func (c *Controller) deliver(ctx context.Context, frame []byte) {
	c.mu.Lock()
	switch {
	case c.stopped:
	case c.loading:
		c.buffer = append(c.buffer, frame)
	default:
		c.adapter.HandleRaw(ctx, frame)
	}
	c.mu.Unlock()

	c.flushAlerts(ctx)
}

// load fetches the view and installs it. Push events received while the
// fetch is in flight are buffered and applied after the load. On the first
// load a failed notification fetch degrades to an empty list; on a refresh
// the known notifications stay.
func (c *Controller) load(ctx context.Context, initial bool) error {
	defer c.flushAlerts(ctx)

	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return domain.ErrSessionClosed
	}
	c.loading = true
	c.mu.Unlock()

	requests, reqErr := c.api.FetchRequests(ctx)

	var notifications []domain.Notification
	var noteErr error
	if reqErr == nil {
		notifications, noteErr = c.api.FetchNotifications(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		c.buffer = nil
		return domain.ErrSessionClosed
	}

	if reqErr == nil {
		c.store.LoadInitial(requests)
		switch {
		case noteErr == nil:
			c.store.LoadNotifications(notifications)
		case initial:
			c.log.WarnContext(ctx, "notifications unavailable", slog.String("error", noteErr.Error()))
			c.store.LoadNotifications(nil)
		default:
			c.log.WarnContext(ctx, "keeping stale notifications", slog.String("error", noteErr.Error()))
		}
	} else {
		c.log.WarnContext(ctx, "fetch failed, keeping stale view", slog.String("error", reqErr.Error()))
	}

	buffered := c.buffer
	c.buffer = nil
	c.loading = false
	for _, frame := range buffered {
		c.adapter.HandleRaw(ctx, frame)
	}

	c.log.DebugContext(ctx, "view loaded",
		slog.Int("requests", len(requests)),
		slog.Int("buffered_events", len(buffered)),
	)
	return reqErr
}

// flushAlerts hands queued alerts to the sink. It must not be called with
// c.mu or c.loadMu held.
func (c *Controller) flushAlerts(ctx context.Context) {
	if c.queued == nil {
		return
	}
	for _, a := range c.queued.take() {
		c.alerts.Alert(ctx, a)
	}
}

// alertQueue collects alerts raised while the controller lock is held.
type alertQueue struct {
	mu      sync.Mutex
	pending []domain.Alert
}

func (q *alertQueue) Alert(_ context.Context, a domain.Alert) {
	q.mu.Lock()
	q.pending = append(q.pending, a)
	q.mu.Unlock()
}

func (q *alertQueue) take() []domain.Alert {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// View returns the requests matching f, newest first.
func (c *Controller) View(f store.Filter) iter.Seq[domain.Request] {
	return c.store.View(f)
}

// Get returns the request with id.
func (c *Controller) Get(id string) (domain.Request, bool) {
	return c.store.Get(id)
}

// Stats counts the requests in the store by status.
func (c *Controller) Stats() stats.Counts {
	return stats.Project(c.store.All())
}

// Notifications returns the notifications, newest first.
func (c *Controller) Notifications() []domain.Notification {
	return c.store.Notifications()
}

// UnreadCount returns the number of unread notifications.
func (c *Controller) UnreadCount() int {
	return c.store.UnreadCount()
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

// afterWriteError re-syncs the view when the server refused a write the
// client believed valid. Writes are never retried.
func (c *Controller) afterWriteError(ctx context.Context, err error) {
	if !domain.IsAuthorization(err) {
		return
	}
	c.log.WarnContext(ctx, "server refused action, re-syncing", slog.String("error", err.Error()))
	if rerr := c.Refresh(ctx); rerr != nil && !errors.Is(rerr, domain.ErrSessionClosed) {
		c.log.WarnContext(ctx, "re-sync failed", slog.String("error", rerr.Error()))
	}
}
