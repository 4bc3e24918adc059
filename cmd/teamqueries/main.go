// Command teamqueries is a terminal client for the team request tracker.
//
// Usage:
//
//	teamqueries [--config=path] [watch|stats|users|logs] [--search=term] [--status=name]
//
// watch (the default) keeps the session live and prints an alert whenever
// one of your requests changes status. stats prints the request counts once.
// users prints the admin user directory and logs the admin activity log.
//
// Settings come from the YAML file (--config, CONFIG_PATH or ./config.yaml)
// and environment variables; see internal/config.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/heartmarshall/teamqueries/internal/app"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var opts app.Options
	var showVersion bool

	flagSet := pflag.NewFlagSet("teamqueries", pflag.ContinueOnError)
	flagSet.StringVarP(&opts.ConfigPath, "config", "c", os.Getenv("CONFIG_PATH"), "path to the YAML config file")
	flagSet.StringVar(&opts.Search, "search", "", "filter users by name, email or mobile; logs by number, requester or query")
	flagSet.StringVar(&opts.Status, "status", "all", "filter logs by status (logs command)")
	flagSet.BoolVar(&showVersion, "version", false, "print the version and exit")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if showVersion {
		fmt.Println("teamqueries", app.BuildVersion())
		return nil
	}

	switch args := flagSet.Args(); len(args) {
	case 0:
		opts.Command = app.CommandWatch
	case 1:
		opts.Command = app.Command(args[0])
	default:
		return fmt.Errorf("unexpected argument: %s", args[1])
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx, opts)
}
