// Command pager walks a simulated remote collection page by page.
//
// Interactively it shows the loaded items in a box and offers the actions
// the current state allows. With -json it loads every page unattended and
// prints each state as one JSON line.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/amp-labs/amp-flux/bgworker"
	"github.com/amp-labs/amp-flux/build"
	"github.com/amp-labs/amp-flux/cli"
	"github.com/amp-labs/amp-flux/closer"
	"github.com/amp-labs/amp-flux/config"
	"github.com/amp-labs/amp-flux/dispatcher"
	"github.com/amp-labs/amp-flux/logger"
	"github.com/amp-labs/amp-flux/network"
	"github.com/amp-labs/amp-flux/pagination"
	"github.com/amp-labs/amp-flux/should"
	"github.com/amp-labs/amp-flux/shutdown"
	"github.com/amp-labs/amp-flux/telemetry"
	"github.com/goccy/go-json"
)

const (
	subsystem       = "pager"
	shutdownTimeout = 5 * time.Second
)

func main() {
	jsonOutput := flag.Bool("json", false, "load every page without prompting and print each state as a JSON line")
	envFile := flag.String("env", "", "read configuration from this .env file instead of the environment")
	version := flag.Bool("version", false, "print build information and exit")

	flag.Parse()

	if *version {
		if err := json.NewEncoder(os.Stdout).Encode(build.Current()); err != nil {
			os.Exit(1)
		}

		return
	}

	if err := run(*jsonOutput, *envFile); err != nil {
		logger.Get().Error("pager failed", "error", err)
		os.Exit(1)
	}
}

func loadConfig(envFile string) (config.Config, error) {
	if envFile != "" {
		return config.FromFile(envFile)
	}

	return config.Load()
}

func run(jsonOutput bool, envFile string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	ctx := logger.WithSubsystem(shutdown.SetupHandler(context.Background()), subsystem)

	tel, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: build.Current().Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Enabled:        cfg.Telemetry.Enabled,
	})
	if err != nil {
		return err
	}

	var handlers []slog.Handler
	if h := tel.LogHandler(); h != nil {
		handlers = append(handlers, h)
	}

	logger.ConfigureLoggingWithOptions(logger.Options{
		Subsystem:   subsystem,
		JSON:        cfg.Log.JSON,
		MinLevel:    cfg.Log.Level,
		LegacyLevel: slog.LevelWarn,
		Output:      os.Stderr,
		Handlers:    handlers,
	})

	resources := closer.NewStack()
	defer should.Close(resources, "releasing pager resources")

	resources.Push(closer.Func(func() error {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		return tel.Shutdown(shutdownCtx)
	}))

	pool := bgworker.New(ctx, "network", cfg.Workers)
	resources.Push(closer.Func(func() error {
		pool.Stop()

		return nil
	}))

	stub := network.NewStub(
		network.WithTotal(cfg.TotalItems),
		network.WithDelay(cfg.FetchDelay),
		network.WithFailures(cfg.Failures()),
		network.WithPool(pool),
	)

	d := dispatcher.Default()
	go traceActions(ctx, d)

	opts := []pagination.Option{
		pagination.WithName(subsystem),
		pagination.WithDispatcher(d),
		pagination.WithPageSize(cfg.PageSize),
		pagination.WithOverlapPolicy(cfg.Overlap),
	}

	if cfg.Recovery {
		opts = append(opts, pagination.WithRecovery())
	}

	model := pagination.New(stub, opts...)
	resources.Push(model)

	if cfg.MetricsAddr != "" {
		resources.Push(serve(ctx, cfg.MetricsAddr, model))
	}

	logger.Get(ctx).Debug("Pager configured",
		"pageSize", cfg.PageSize,
		"total", cfg.TotalItems,
		"delay", cfg.FetchDelay.String(),
		"overlap", cfg.Overlap.String(),
		"recovery", cfg.Recovery)

	if jsonOutput {
		err = runJSON(ctx, model, os.Stdout, cfg.Recovery)
	} else {
		err = runInteractive(ctx, model, cli.NewPrompter(), os.Stdout, cfg.Recovery)
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("%s: %w", subsystem, err)
	}

	return nil
}

// traceActions logs every dispatched action until ctx is done.
func traceActions(ctx context.Context, d *dispatcher.Dispatcher) {
	for action := range d.Actions(ctx) {
		logger.Get(ctx).Debug("Action dispatched",
			"family", string(action.Family()),
			"action", action.Name())
	}
}
