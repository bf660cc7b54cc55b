package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
)

func newNamesCmd(g *globalFlags, out, logs io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "names",
		Short: "list the event names listeners are attached to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(g, logs)
			if err != nil {
				return err
			}
			defer a.Close()

			queues := a.Queues()
			for _, name := range queues[""] {
				fmt.Fprintln(out, name)
			}

			peers := make([]string, 0, len(queues)-1)
			for peer := range queues {
				if peer != "" {
					peers = append(peers, peer)
				}
			}
			sort.Strings(peers)
			for _, peer := range peers {
				for _, name := range queues[peer] {
					fmt.Fprintf(out, "%s: %s\n", peer, name)
				}
			}
			return nil
		},
	}
}
