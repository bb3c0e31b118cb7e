package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDiscardCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "discard",
		Short: "Delete the saved snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctrl, cfg, closeFn, err := opts.openController(ctx, cmd)
			if err != nil {
				return err
			}
			defer func() { _ = closeFn() }()

			if err := ctrl.Discard(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "discarded %q\n", cfg.StorageKey)
			return nil
		},
	}
}
