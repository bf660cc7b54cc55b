package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dshills/eventmgr/internal/app"
)

var globalUsage = `Load Lua event listeners and fire events through an event manager.

Listeners are Lua scripts defining events_listening(), which returns a table
of event names (glob patterns allowed) to handler functions and priorities.
Scripts and settings can also come from a YAML or TOML config file.

Environment:
  EVENTMGR_LOG_LEVEL         log level (debug, info, warn, error)
  EVENTMGR_LOCALE            locale for error messages (en, zh-CN)
  EVENTMGR_DEFAULT_PRIORITY  priority for handlers declared without one
  EVENTMGR_STRICT_CALLABLES  reject declarations naming unknown handlers
  EVENTMGR_SCRIPTS           comma separated list of scripts to load
`

// globalFlags are shared by every subcommand.
type globalFlags struct {
	config   string
	logLevel string
	jsonLogs bool
	scripts  []string
}

func (g *globalFlags) options(logs io.Writer) app.Options {
	return app.Options{
		ConfigPath: g.config,
		LogLevel:   g.logLevel,
		Scripts:    g.scripts,
		LogOutput:  logs,
		JSONLogs:   g.jsonLogs,
	}
}

// lastApp lets main localize errors with the configured locale.
var lastApp *app.App

func newRootCmd(out, logs io.Writer) *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "eventctl",
		Short:         "Fire events through Lua listeners",
		Long:          globalUsage,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&g.config, "config", "c", "", "path to a YAML or TOML config file")
	f.StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	f.BoolVar(&g.jsonLogs, "json-logs", false, "write logs as JSON lines")
	f.StringArrayVarP(&g.scripts, "script", "s", nil, "Lua listener script to load (can be repeated)")

	cmd.AddCommand(
		newFireCmd(g, out, logs),
		newNamesCmd(g, out, logs),
		newWatchCmd(g, out, logs),
		newVersionCmd(out),
	)
	return cmd
}

// newApp builds the application for one command run.
func newApp(g *globalFlags, logs io.Writer) (*app.App, error) {
	a, err := app.New(g.options(logs))
	if err != nil {
		return nil, err
	}
	lastApp = a
	return a, nil
}

// localize renders err in the configured locale when an app was built.
func localize(err error) string {
	if lastApp != nil {
		return lastApp.Localize(err)
	}
	return err.Error()
}

// parseProps turns k=v pairs into event properties. Values are decoded as
// YAML scalars, so numbers and booleans keep their type.
func parseProps(pairs []string) (map[string]any, error) {
	props := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid property %q, expected key=value", pair)
		}

		var value any
		if err := yaml.Unmarshal([]byte(v), &value); err != nil || value == nil {
			value = v
		}
		props[k] = value
	}
	return props, nil
}

func newVersionCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(out, "eventctl %s\n", version)
			fmt.Fprintf(out, "Commit: %s\n", commit)
			fmt.Fprintf(out, "Built: %s\n", date)
		},
	}
}

var errNoListeners = errors.New("no listeners loaded, pass --script or --config")
