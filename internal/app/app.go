// Package app wires configuration, logging, the REST client, the push
// channel and the session controller into the teamqueries commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heartmarshall/teamqueries/internal/adapter/api"
	"github.com/heartmarshall/teamqueries/internal/adapter/ws"
	"github.com/heartmarshall/teamqueries/internal/config"
	"github.com/heartmarshall/teamqueries/internal/domain"
	"github.com/heartmarshall/teamqueries/internal/push"
	"github.com/heartmarshall/teamqueries/internal/service/directory"
	"github.com/heartmarshall/teamqueries/internal/service/lifecycle"
	"github.com/heartmarshall/teamqueries/internal/session"
	"github.com/heartmarshall/teamqueries/internal/store"
	"github.com/heartmarshall/teamqueries/pkg/ctxutil"
)

// Command selects what Run does.
type Command string

const (
	// CommandWatch keeps the session live and prints alerts until the
	// context is cancelled.
	CommandWatch Command = "watch"
	// CommandStats loads the view once, prints the counts and exits.
	CommandStats Command = "stats"
	// CommandUsers prints the admin user directory.
	CommandUsers Command = "users"
	// CommandLogs prints the admin activity log.
	CommandLogs Command = "logs"
)

// Options are the command-line inputs of Run.
type Options struct {
	ConfigPath string
	Command    Command
	// Search filters the users and logs commands.
	Search string
	// Status filters the logs command; "" and "all" match every status.
	Status string
	// Out receives command output; nil means os.Stdout.
	Out io.Writer
}

// Run is the application entry point. It loads configuration, initializes
// the logger, signs in and executes opts.Command.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.LoadFile(opts.ConfigPath)
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if opts.Command == "" {
		opts.Command = CommandWatch
	}

	logger.Info("starting teamqueries",
		slog.String("version", BuildVersion()),
		slog.String("command", string(opts.Command)),
		slog.String("log_level", cfg.Log.Level),
	)

	client := api.NewClient(cfg.API, logger)
	sess, err := authenticate(ctx, cfg.Session, client, time.Now())
	if err != nil {
		return err
	}
	client = client.WithToken(sess.Token)
	ctx = ctxutil.WithUserID(ctx, sess.UserID())

	logger.Info("signed in",
		slog.String("user_id", sess.UserID()),
		slog.String("role", sess.User.Role.String()),
	)

	switch opts.Command {
	case CommandUsers:
		return listUsers(ctx, logger, client, sess, opts.Search, out)
	case CommandLogs:
		return listLogs(ctx, client, sess, store.Filter{Status: opts.Status, Search: opts.Search}, out)
	case CommandWatch, CommandStats:
		return watch(ctx, logger, cfg, client, sess, opts.Command == CommandWatch, out)
	default:
		return fmt.Errorf("unknown command %q", opts.Command)
	}
}

// authenticate builds the session context from a configured token or, when
// there is none, from a login call.
func authenticate(ctx context.Context, cfg config.SessionConfig, client *api.Client, now time.Time) (domain.Session, error) {
	if !cfg.HasCredentials() {
		return domain.Session{}, errors.New("no session credentials: set SESSION_TOKEN or SESSION_MOBILE and SESSION_PASSWORD")
	}

	if cfg.Token != "" {
		return session.NewContext(domain.User{}, cfg.Token, now)
	}

	res, err := client.Login(ctx, cfg.Mobile, cfg.Password)
	if err != nil {
		return domain.Session{}, fmt.Errorf("login: %w", err)
	}
	return session.NewContext(res.User, res.Token, now)
}

// subscriber adapts the websocket dialer to the controller.
func subscriber(d *ws.Dialer) session.Subscriber {
	return session.SubscriberFunc(func(ctx context.Context, token string) (session.Subscription, error) {
		sub, err := d.Subscribe(ctx, token)
		if err != nil {
			return nil, err
		}
		return sub, nil
	})
}

func watch(
	ctx context.Context,
	logger *slog.Logger,
	cfg *config.Config,
	client *api.Client,
	sess domain.Session,
	live bool,
	out io.Writer,
) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics := push.NewMetrics(reg)

	if live && cfg.Metrics.ListenAddr != "" {
		stop := serveMetrics(logger, cfg.Metrics.ListenAddr, reg)
		defer stop()
	}

	ctrl := session.NewController(session.Deps{
		Logger:    logger,
		Session:   sess,
		API:       client,
		Push:      subscriber(ws.NewDialer(cfg.Push, logger)),
		Authority: lifecycle.NewAuthority(logger),
		Alerts: push.AlertFunc(func(ctx context.Context, a domain.Alert) {
			logger.InfoContext(ctx, "request status changed", slog.String("request_id", a.RequestID))
			fmt.Fprintln(out, a.Message)
		}),
		Metrics: metrics,
	})
	defer ctrl.Stop()

	if err := ctrl.Start(ctx); err != nil {
		return err
	}
	writeStats(out, ctrl.Stats(), ctrl.UnreadCount())

	if !live {
		return nil
	}

	<-ctx.Done()
	logger.Info("shutting down")
	writeStats(out, ctrl.Stats(), ctrl.UnreadCount())
	return nil
}

func listUsers(ctx context.Context, logger *slog.Logger, client *api.Client, sess domain.Session, search string, out io.Writer) error {
	dir := directory.NewService(logger, client)
	if _, err := dir.Refresh(ctx, sess); err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	writeUsers(out, dir.Search(search), dir.Counts())
	return nil
}

func listLogs(ctx context.Context, client *api.Client, sess domain.Session, f store.Filter, out io.Writer) error {
	if !sess.IsAdmin() {
		return fmt.Errorf("list logs: %w", domain.ErrForbidden)
	}
	all, err := client.FetchDetailed(ctx)
	if err != nil {
		return fmt.Errorf("list logs: %w", err)
	}

	var logs []domain.Request
	for _, r := range all {
		if f.Match(r) {
			logs = append(logs, r)
		}
	}
	writeLogs(out, logs, len(all))
	return nil
}

// serveMetrics exposes reg on addr and returns a function that shuts the
// server down.
func serveMetrics(logger *slog.Logger, addr string, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("metrics endpoint listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics endpoint failed", slog.String("error", err.Error()))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("metrics shutdown", slog.String("error", err.Error()))
		}
	}
}
