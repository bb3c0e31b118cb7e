package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/petrijr/blockflow"
)

func newShowCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the saved snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctrl, cfg, closeFn, err := opts.openController(ctx, cmd)
			if err != nil {
				return err
			}
			defer func() { _ = closeFn() }()

			out := cmd.OutOrStdout()
			snap, ok := ctrl.Load(ctx)
			if !ok {
				fmt.Fprintf(out, "no snapshot under %q\n", cfg.StorageKey)
				return nil
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}

			findings := blockflow.ValidateWithConfig(snap.Nodes, snap.Edges, cfg)
			fmt.Fprintf(out, "name:       %s\n", snap.Metadata.Name)
			fmt.Fprintf(out, "version:    %s\n", snap.Metadata.Version)
			fmt.Fprintf(out, "last saved: %s\n", snap.Metadata.LastSaved.Format(time.RFC3339))
			fmt.Fprintf(out, "nodes:      %d\n", len(snap.Nodes))
			fmt.Fprintf(out, "edges:      %d\n", len(snap.Edges))
			fmt.Fprintf(out, "findings:   %d\n", len(findings))
			for _, n := range snap.Nodes {
				fmt.Fprintf(out, "  %-12s %-11s %s\n", n.ID, n.Kind, n.Label())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the stored document")
	return cmd
}
