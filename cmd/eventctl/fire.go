package main

import (
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dshills/eventmgr/internal/event"
)

var fireHelp = `
This command fires one event through the loaded listeners and prints the
event afterwards: its results in invocation order, whether propagation was
stopped, and its final properties.

    $ eventctl fire user.login -s audit.lua --prop user=ann --prop attempts=3
`

// report is the printed form of a dispatched event.
type report struct {
	Event      string         `yaml:"event"`
	ID         string         `yaml:"id"`
	Stopped    bool           `yaml:"stopped"`
	Results    []any          `yaml:"results"`
	Properties map[string]any `yaml:"properties"`
	Error      string         `yaml:"error,omitempty"`
}

func newReport(e *event.Event) report {
	return report{
		Event:      e.Name(),
		ID:         e.ID(),
		Stopped:    e.IsPropagationStopped(),
		Results:    e.Results(),
		Properties: e.Properties(),
	}
}

func writeReport(out io.Writer, r report) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

func newFireCmd(g *globalFlags, out, logs io.Writer) *cobra.Command {
	var props []string

	cmd := &cobra.Command{
		Use:   "fire EVENT",
		Short: "fire an event and print the result",
		Long:  fireHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseProps(props)
			if err != nil {
				return err
			}

			a, err := newApp(g, logs)
			if err != nil {
				return err
			}
			defer a.Close()

			e, err := a.Fire(cmd.Context(), args[0], p)
			if e == nil {
				return err
			}
			// A listener failure still leaves a partially processed event
			// worth showing.
			r := newReport(e)
			if err != nil {
				r.Error = a.Localize(err)
			}
			if werr := writeReport(out, r); werr != nil {
				return werr
			}
			return err
		},
	}

	cmd.Flags().StringArrayVarP(&props, "prop", "p", nil, "event property as key=value (can be repeated)")
	return cmd
}
