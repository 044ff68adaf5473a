package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jask/appshell/internal/config"
	"github.com/jask/appshell/internal/database"
	"github.com/jask/appshell/internal/database/repository"
	"github.com/jask/appshell/internal/features"
	"github.com/jask/appshell/internal/host/propsfile"
	"github.com/jask/appshell/internal/inspect"
	"github.com/jask/appshell/internal/lifecycle"
	"github.com/jask/appshell/internal/logging"
	"github.com/jask/appshell/internal/metrics"
	"github.com/jask/appshell/internal/persist"
	"github.com/jask/appshell/internal/storagegate"
	"github.com/jask/appshell/internal/store"
	"github.com/jask/appshell/internal/tui"
	"github.com/jask/appshell/internal/urlresolve"
)

func runShell(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cmd, &cfg)

	log, closer, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("mkdir db dir: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	props, err := launchProps(cfg, args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	reducers := store.NewReducerRegistry()
	middleware := store.NewMiddlewareRegistry()
	listeners := store.NewListenerRegistry()
	middleware.Register(m.Middleware())

	persistence := persist.NewRegistry(repository.NewSnapshotRepo(db), log)
	module := &features.Module{ServerDomain: cfg.App.ServerDomain, Log: log}
	module.Register(features.Registries{
		Reducers:    reducers,
		Middleware:  middleware,
		Listeners:   listeners,
		Persistence: persistence,
	})

	var inspector store.Inspector
	if cfg.Dev.Inspect {
		inspector = inspect.Logger{Log: log}
	}

	locator := &store.Locator{}
	events := tui.NewEvents()
	ctrl := lifecycle.New(lifecycle.Config{
		Props: props,
		Gate: storagegate.Gate{
			Signal:  func(ctx context.Context) error { return database.Ready(ctx, db) },
			Timeout: cfg.Storage.ReadyTimeout,
			Log:     log,
		},
		Factory: &lifecycle.Factory{
			Reducers:    reducers,
			Middleware:  middleware,
			Listeners:   listeners,
			Persistence: persistence,
			Inspector:   inspector,
			Locator:     locator,
			Log:         log,
		},
		Resolver: urlresolve.Resolver{
			Location:  func() string { return cfg.App.Location },
			ServerURL: features.ServerURL,
		},
		Actions:    module.Actions(),
		Redirector: tui.Redirector{Events: events, Log: log},
		Log:        log,
		OnChange: func(rs lifecycle.RenderState) {
			m.ObserveRender(rs)
			events.Changed(rs)
		},
	})
	defer ctrl.Close()

	if cfg.Metrics.Addr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, reg, log); err != nil {
				log.WithError(err).Warn("metrics listener stopped")
			}
		}()
	}

	program := tea.NewProgram(tui.New(tui.Options{
		Controller: ctrl,
		Events:     events,
		Locator:    locator,
		ServerURL:  features.ServerURL,
		Log:        log,
	}), tea.WithAltScreen())

	if path := cfg.Host.PropsFile; path != "" {
		go watchProps(ctx, path, program, log)
	}

	log.WithField("version", Version).Info("starting appshell")
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("default-url") {
		cfg.App.DefaultURL, _ = flags.GetString("default-url")
	}
	if flags.Changed("props-file") {
		cfg.Host.PropsFile, _ = flags.GetString("props-file")
	}
	if flags.Changed("inspect") {
		cfg.Dev.Inspect, _ = flags.GetBool("inspect")
	}
}

// launchProps builds the first props: the props file if present, then
// config, then the positional URL.
func launchProps(cfg config.Config, args []string) (lifecycle.Props, error) {
	var props lifecycle.Props
	if path := cfg.Host.PropsFile; path != "" {
		p, err := propsfile.Read(path)
		switch {
		case err == nil:
			props = p
		case os.IsNotExist(err):
		default:
			return lifecycle.Props{}, fmt.Errorf("read props file: %w", err)
		}
	}
	if props.DefaultURL == "" {
		props.DefaultURL = cfg.App.DefaultURL
	}
	if props.URL == nil && cfg.App.URL != "" {
		props.URL = cfg.App.URL
	}
	if len(args) > 0 {
		props.URL = args[0]
	}
	return props, nil
}

func watchProps(ctx context.Context, path string, program *tea.Program, log logrus.FieldLogger) {
	err := propsfile.Watch(ctx, path, func(p lifecycle.Props) {
		program.Send(tui.PropsMsg{Props: p})
	}, log)
	if err != nil {
		log.WithError(err).WithField("path", path).Warn("props file watcher stopped")
	}
}
