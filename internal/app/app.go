// Package app wires configuration, Lua listeners, logging and metrics into
// a ready-to-use event manager for the eventctl command.
package app

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/dshills/eventmgr/internal/config"
	"github.com/dshills/eventmgr/internal/event"
	"github.com/dshills/eventmgr/internal/event/aware"
	"github.com/dshills/eventmgr/internal/event/manager"
	"github.com/dshills/eventmgr/internal/event/message"
	"github.com/dshills/eventmgr/internal/script"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file. Empty uses defaults.
	ConfigPath string

	// LogLevel overrides the configured level when set.
	LogLevel string

	// Scripts are loaded in addition to the configured ones.
	Scripts []string

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// JSONLogs disables the console log format.
	JSONLogs bool
}

// App owns a composite event manager, its peers and their Lua listeners.
// Like the managers, it is meant to be used from one goroutine.
type App struct {
	aware.Emitter

	cfg     config.Config
	log     zerolog.Logger
	printer *message.Printer

	registry *prometheus.Registry
	metrics  *manager.Metrics

	manager *manager.Composite
	peers   map[string]*manager.Manager

	// scripts maps an absolute script path to its loaded listener.
	scripts map[string]*loaded
}

// loaded is a script attached to one manager.
type loaded struct {
	listener *script.Listener
	target   manager.EventManager
}

// New creates an App from opts. Scripts that fail to load abort creation.
func New(opts Options) (*App, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigPath); err != nil {
			return nil, NewOperationError("load config", opts.ConfigPath, err)
		}
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	cfg.Scripts = append(cfg.Scripts, opts.Scripts...)
	if err := cfg.Validate(); err != nil {
		return nil, NewOperationError("validate config", opts.ConfigPath, err)
	}

	a := &App{
		cfg:     cfg,
		log:     NewLogger(opts.LogOutput, cfg.Level(), !opts.JSONLogs),
		printer: message.NewPrinter(cfg.Language()),
		peers:   make(map[string]*manager.Manager),
		scripts: make(map[string]*loaded),
	}
	if err := a.bootstrap(); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

// bootstrap initializes all components in dependency order.
func (a *App) bootstrap() error {
	// 1. Metrics
	if a.cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(collectors.NewGoCollector())
		m, err := manager.NewMetrics(a.cfg.Metrics.Namespace, a.registry)
		if err != nil {
			return NewOperationError("register metrics", a.cfg.Metrics.Namespace, err)
		}
		a.metrics = m
	}

	// 2. Managers
	opts := []manager.Option{
		manager.WithLogger(a.log),
		manager.WithStrictCallables(a.cfg.StrictCallables),
	}
	if a.metrics != nil {
		a.manager = manager.NewComposite(append(opts, manager.WithMetrics(a.metrics))...)
	} else {
		a.manager = manager.NewComposite(opts...)
	}
	a.SetOwner(a)
	a.SetEventManager(a.manager, nil)

	for _, p := range a.cfg.Peers {
		peer := manager.New(
			manager.WithLogger(a.log.With().Str("peer", p.Name).Logger()),
			manager.WithStrictCallables(a.cfg.StrictCallables),
		)
		if err := a.manager.SetOtherManager(p.Name, peer); err != nil {
			return NewOperationError("add peer", p.Name, err)
		}
		a.peers[p.Name] = peer
	}

	// 3. Scripts
	for _, path := range a.cfg.Scripts {
		if err := a.load(path, a.manager); err != nil {
			return err
		}
	}
	for _, p := range a.cfg.Peers {
		for _, path := range p.Scripts {
			if err := a.load(path, a.peers[p.Name]); err != nil {
				return err
			}
		}
	}

	a.log.Debug().
		Int("scripts", len(a.scripts)).
		Int("peers", len(a.peers)).
		Msg("event manager ready")
	return nil
}

// Config returns the effective configuration.
func (a *App) Config() config.Config {
	return a.cfg
}

// Logger returns the application logger.
func (a *App) Logger() zerolog.Logger {
	return a.log
}

// Manager returns the main event manager.
func (a *App) Manager() *manager.Composite {
	return a.manager
}

// Gatherer returns the metrics registry, or nil when metrics are disabled.
func (a *App) Gatherer() prometheus.Gatherer {
	if a.registry == nil {
		return nil
	}
	return a.registry
}

// Fire dispatches a new event named name with props through the main
// manager and its peers. The App is the event's context.
func (a *App) Fire(ctx context.Context, name string, props map[string]any) (*event.Event, error) {
	return a.TriggerEvent(ctx, name, props)
}

// Queues lists event names per manager. The main manager is keyed by the
// empty string.
func (a *App) Queues() map[string][]string {
	out := map[string][]string{"": a.manager.EventNames()}
	for name, peer := range a.peers {
		out[name] = peer.EventNames()
	}
	return out
}

// Scripts returns the absolute paths of loaded scripts, sorted.
func (a *App) Scripts() []string {
	paths := make([]string, 0, len(a.scripts))
	for p := range a.scripts {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Localize renders err in the configured locale. Errors from the event
// packages are translated; anything else keeps its own text.
func (a *App) Localize(err error) string {
	var ee *event.Error
	if errors.As(err, &ee) {
		return ee.Localize(a.printer)
	}
	return err.Error()
}

// Close releases every loaded script.
func (a *App) Close() error {
	var errs []error
	for path, s := range a.scripts {
		if err := s.listener.Close(); err != nil {
			errs = append(errs, NewOperationError("close", path, err))
		}
		delete(a.scripts, path)
	}
	return errors.Join(errs...)
}

// absPath is filepath.Abs falling back to the cleaned input.
func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
