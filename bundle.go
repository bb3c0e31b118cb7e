package blockflow

import (
	"context"
	"database/sql"
)

// NewSQLiteEditor opens an Editor whose snapshot slot lives in the given
// SQLite database. The caller keeps ownership of db.
//
// Typical usage:
//
//	db, _ := sql.Open("sqlite", "file:blockflow.db")
//	ed, err := blockflow.NewSQLiteEditor(ctx, db, blockflow.DefaultConfig(), nil)
func NewSQLiteEditor(ctx context.Context, db *sql.DB, cfg Config, obs Observer) (*Editor, error) {
	store, err := NewSQLiteStore(db)
	if err != nil {
		return nil, err
	}
	return OpenEditor(ctx, store, cfg, obs)
}

// OpenConfiguredEditor connects the store named by cfg.Store and opens an
// Editor on it. The returned close function closes the editor and then the
// store connection.
func OpenConfiguredEditor(ctx context.Context, cfg Config, obs Observer) (*Editor, func() error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	store, closeStore, err := OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, nil, err
	}

	ed, err := OpenEditor(ctx, store, cfg, obs)
	if err != nil {
		_ = closeStore()
		return nil, nil, err
	}

	return ed, func() error {
		ed.Close()
		return closeStore()
	}, nil
}
