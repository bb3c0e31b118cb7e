package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/petrijr/blockflow"
)

type rootOptions struct {
	configPath string
	dbPath     string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "blockflow",
		Short: "Validate workflow graphs and manage saved editor snapshots",
		Long: `blockflow checks workflow graphs built from start, form, conditional,
api and end blocks, and reads or writes the snapshot an editor session
autosaves into.

Graph files are JSON documents with "nodes" and "edges" arrays, the same
shape the editor stores.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path (overrides the configured store)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log editor events to stderr")

	cmd.AddCommand(
		newValidateCmd(opts),
		newSaveCmd(opts),
		newShowCmd(opts),
		newDiscardCmd(opts),
	)
	return cmd
}

func (o *rootOptions) loadConfig() (blockflow.Config, error) {
	cfg := blockflow.DefaultConfig()
	if o.configPath != "" {
		var err error
		cfg, err = blockflow.LoadConfig(o.configPath)
		if err != nil {
			return blockflow.Config{}, err
		}
	}
	if o.dbPath != "" {
		cfg.Store = blockflow.StoreConfig{Driver: blockflow.DriverSQLite, DSN: o.dbPath}
	}
	return cfg, cfg.Validate()
}

func (o *rootOptions) observer(w io.Writer) blockflow.Observer {
	if !o.verbose {
		return nil
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return blockflow.NewLoggingObserver(logger)
}

// openController connects the configured store and returns a controller on
// it with a function that releases the store.
func (o *rootOptions) openController(ctx context.Context, cmd *cobra.Command) (*blockflow.Controller, blockflow.Config, func() error, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, blockflow.Config{}, nil, err
	}
	store, closeStore, err := blockflow.OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, blockflow.Config{}, nil, err
	}
	ctrl := blockflow.NewController(store, cfg, o.observer(cmd.ErrOrStderr()))
	return ctrl, cfg, func() error {
		ctrl.Close()
		return closeStore()
	}, nil
}

// graphFile is the document read by validate and save. Metadata is ignored.
type graphFile struct {
	Nodes []blockflow.Node `json:"nodes"`
	Edges []blockflow.Edge `json:"edges"`
}

func readGraph(path string) (graphFile, error) {
	var g graphFile

	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return g, fmt.Errorf("open graph: %w", err)
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return g, fmt.Errorf("parse graph %s: %w", path, err)
	}
	return g, nil
}
