package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/petrijr/blockflow"
)

func newSaveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "save <graph.json|->",
		Short: "Save a workflow graph as the editor snapshot",
		Long: `Save writes the graph into the configured slot, as the editor's manual
save does. A graph without nodes, without edges or with error findings is
refused.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGraph(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			ctrl, cfg, closeFn, err := opts.openController(ctx, cmd)
			if err != nil {
				return err
			}
			defer func() { _ = closeFn() }()

			findings := blockflow.ValidateWithConfig(g.Nodes, g.Edges, cfg)
			if len(g.Nodes) == 0 || len(g.Edges) == 0 || blockflow.HasBlocking(findings) {
				return fmt.Errorf("%w (%d findings, run validate for details)", blockflow.ErrSaveBlocked, len(findings))
			}

			snap, err := ctrl.Save(ctx, g.Nodes, g.Edges)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "saved %q (%d nodes, %d edges) at %s [%s]\n",
				snap.Metadata.Name, len(snap.Nodes), len(snap.Edges),
				snap.Metadata.LastSaved.Format(time.RFC3339), ctrl.Status())
			return nil
		},
	}
}
