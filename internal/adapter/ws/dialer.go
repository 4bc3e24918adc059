// Package ws is the websocket transport of the push channel.
package ws

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/heartmarshall/teamqueries/internal/config"
	"github.com/heartmarshall/teamqueries/internal/domain"
)

// Dialer opens push subscriptions.
type Dialer struct {
	url         string
	readLimit   int64
	dialTimeout time.Duration
	bufferSize  int
	log         *slog.Logger
}

// NewDialer creates a Dialer for the configured push endpoint.
func NewDialer(cfg config.PushConfig, logger *slog.Logger) *Dialer {
	return &Dialer{
		url:         cfg.URL,
		readLimit:   cfg.ReadLimit,
		dialTimeout: cfg.DialTimeout,
		bufferSize:  cfg.BufferSize,
		log:         logger.With("adapter", "ws"),
	}
}

// Subscribe connects with token as the bearer credential and starts reading.
// The subscription lives until Close is called, ctx is cancelled or the
// server closes the connection.
func (d *Dialer) Subscribe(ctx context.Context, token string) (*Subscription, error) {
	dialCtx := ctx
	if d.dialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, d.dialTimeout)
		defer cancel()
	}

	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, resp, err := websocket.Dial(dialCtx, d.url, &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("ws.Subscribe: %w", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("ws.Subscribe: %w: %v", domain.ErrTransport, err)
	}
	if d.readLimit > 0 {
		conn.SetReadLimit(d.readLimit)
	}

	readCtx, cancel := context.WithCancel(ctx)
	s := &Subscription{
		conn:   conn,
		msgs:   make(chan []byte, max(d.bufferSize, 1)),
		cancel: cancel,
		done:   make(chan struct{}),
		log:    d.log,
	}
	go s.read(readCtx)

	d.log.InfoContext(ctx, "push subscription opened", slog.String("url", d.url))
	return s, nil
}

// Subscription delivers the raw frames of one push connection.
type Subscription struct {
	conn   *websocket.Conn
	msgs   chan []byte
	cancel context.CancelFunc
	done   chan struct{}
	log    *slog.Logger

	mu  sync.Mutex
	err error

	closeOnce sync.Once
}

// Messages returns the frames in receipt order. The channel is closed when
// the subscription ends.
func (s *Subscription) Messages() <-chan []byte { return s.msgs }

// Done is closed after the reader has exited.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Err returns the error that ended the subscription, if any. A normal close
// or Close itself leaves it nil.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close stops the reader, drops the connection and waits for the reader to
// exit. Frames already buffered stay readable from Messages. It is safe to
// call more than once.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		<-s.done
		_ = s.conn.CloseNow()
	})
}

func (s *Subscription) read(ctx context.Context) {
	defer close(s.done)
	defer close(s.msgs)

	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			s.finish(ctx, err)
			return
		}
		select {
		case s.msgs <- data:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Subscription) finish(ctx context.Context, err error) {
	if ctx.Err() != nil {
		return
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		s.log.Info("push subscription closed by server")
		return
	}
	s.log.Warn("push subscription ended", slog.String("error", err.Error()))

	s.mu.Lock()
	s.err = fmt.Errorf("ws.read: %w: %v", domain.ErrTransport, err)
	s.mu.Unlock()
}
