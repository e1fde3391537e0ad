package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/shapedtime/neomovies/internal/api"
	"github.com/shapedtime/neomovies/internal/auth"
	"github.com/shapedtime/neomovies/internal/config"
	"github.com/shapedtime/neomovies/internal/logging"
	"github.com/shapedtime/neomovies/internal/metrics"
	"github.com/shapedtime/neomovies/internal/neoapi"
	"github.com/shapedtime/neomovies/internal/selector"
	"github.com/shapedtime/neomovies/internal/storage"
)

const (
	configFlag  = "config"
	apiURLFlag  = "api-url"
	localeFlag  = "locale"
	storageFlag = "storage"
	logFlag     = "log-level"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		slog.Error("neomovies failed", "error", err)
		os.Exit(1)
	}
}

// env is everything a command needs, built once in the app's Before hook.
type env struct {
	cfg     *config.Config
	store   storage.Store
	client  *neoapi.Client
	auth    *auth.Controller
	routes  *api.RouteTracker
	reg     *prometheus.Registry
	msgs    *selector.Messages
	logFile io.Closer
}

func newApp() *cli.App {
	e := &env{}

	return &cli.App{
		Name:  "neomovies",
		Usage: "browse the neomovies catalog and pick torrent releases",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    configFlag,
				Value:   "config.yaml",
				EnvVars: []string{"NEO_CONFIG"},
				Usage:   "YAML config file",
			},
			&cli.StringFlag{
				Name:  apiURLFlag,
				Usage: "API base URL, overrides the config file",
			},
			&cli.StringFlag{
				Name:  localeFlag,
				Usage: "message language (ru, en)",
			},
			&cli.StringFlag{
				Name:  storageFlag,
				Usage: "local storage driver (badger, sqlite, memory)",
			},
			&cli.StringFlag{
				Name:  logFlag,
				Usage: "log level (debug, info, warn, error)",
			},
		},
		Before: e.setup,
		After:  e.close,
		Commands: concat(
			e.authCommands(),
			e.catalogCommands(),
			e.accountCommands(),
			[]*cli.Command{e.serveCommand()},
		),
	}
}

func (e *env) setup(c *cli.Context) error {
	cfg, err := config.Load(c.String(configFlag))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if v := c.String(apiURLFlag); v != "" {
		cfg.API.BaseURL = v
	}
	if v := c.String(localeFlag); v != "" {
		cfg.Locale = v
	}
	if v := c.String(storageFlag); v != "" {
		cfg.Storage.Driver = v
	}
	if v := c.String(logFlag); v != "" {
		cfg.Log.Level = v
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	_, e.logFile = logging.Setup(cfg.Log)

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("open local storage: %w", err)
	}
	slog.Debug("Local storage opened", "driver", cfg.Storage.Driver, "path", cfg.Storage.Path)

	e.reg = prometheus.NewRegistry()
	m := metrics.New(e.reg)

	e.cfg = cfg
	e.store = store
	e.msgs = selector.NewMessages(cfg.Locale)
	e.routes = &api.RouteTracker{}
	e.client = neoapi.NewClient(cfg.API.BaseURL,
		neoapi.WithTimeout(cfg.RequestTimeout()),
		neoapi.WithUserAgent(cfg.API.UserAgent),
		neoapi.WithObserver(m),
	)
	e.auth = auth.NewController(e.client, store, e.routes, nil, auth.WithObserver(m))
	e.reg.MustRegister(metrics.NewSessionCollector(e.auth))

	state, err := e.auth.Restore()
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	slog.Debug("Session restored", "state", state)

	return nil
}

func (e *env) close(c *cli.Context) error {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			slog.Error("Failed to close local storage", "error", err)
		}
	}
	if e.logFile != nil {
		e.logFile.Close()
	}
	return nil
}

// fail turns an error into a localized message for the terminal.
func (e *env) fail(err error) error {
	return cli.Exit(e.msgs.Error(err), 1)
}

func concat(groups ...[]*cli.Command) []*cli.Command {
	var out []*cli.Command
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
