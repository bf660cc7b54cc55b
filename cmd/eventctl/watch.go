package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/eventmgr/internal/app"
	"github.com/dshills/eventmgr/internal/watcher"
)

var watchHelp = `
This command fires an event, then fires it again every time one of the
loaded scripts changes on disk. A changed script replaces the previous
version; if it fails to load, the previous version stays attached.

Stop with Ctrl+C.
`

func newWatchCmd(g *globalFlags, out, logs io.Writer) *cobra.Command {
	var props []string

	cmd := &cobra.Command{
		Use:   "watch EVENT",
		Short: "re-fire an event whenever a script changes",
		Long:  watchHelp,
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

			if len(a.Scripts()) == 0 {
				return errNoListeners
			}

			w, err := watcher.New()
			if err != nil {
				return err
			}
			defer w.Close()

			for _, path := range a.Scripts() {
				if err := w.Watch(path); err != nil {
					return err
				}
			}
			return watchLoop(cmd.Context(), a, w, args[0], p, out)
		},
	}

	cmd.Flags().StringArrayVarP(&props, "prop", "p", nil, "event property as key=value (can be repeated)")
	return cmd
}

// watchLoop fires name once and again after every script change, until
// ctx is done. Dispatch happens only on this goroutine.
func watchLoop(ctx context.Context, a *app.App, w *watcher.Watcher, name string, props map[string]any, out io.Writer) error {
	log := a.Logger()

	fire := func() error {
		e, err := a.Fire(ctx, name, props)
		if e == nil {
			return err
		}
		r := newReport(e)
		if err != nil {
			r.Error = a.Localize(err)
		}
		return writeReport(out, r)
	}

	if err := fire(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case path := <-w.Changes():
			if err := a.Reload(path); err != nil {
				continue
			}
			if err := fire(); err != nil {
				return err
			}

		case err := <-w.Errors():
			log.Warn().Err(err).Msg("file watcher error")
		}
	}
}
