package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petrijr/blockflow"
)

var errBlockingFindings = errors.New("workflow has blocking findings")

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate <graph.json|->",
		Short: "Print the validation findings of a workflow graph",
		Long: `Validate prints every finding in check order. The command fails when
at least one finding has error severity; info findings are advisory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			g, err := readGraph(args[0])
			if err != nil {
				return err
			}

			findings := blockflow.ValidateWithConfig(g.Nodes, g.Edges, cfg)
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(findings); err != nil {
					return err
				}
			} else if len(findings) == 0 {
				fmt.Fprintln(out, "no findings")
			} else {
				for _, f := range findings {
					fmt.Fprintf(out, "%-5s  %s  %s\n", f.Type, f.ID, f.Message)
				}
			}

			if blockflow.HasBlocking(findings) {
				return errBlockingFindings
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print findings as JSON")
	return cmd
}
