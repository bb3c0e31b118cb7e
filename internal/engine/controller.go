package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/petrijr/blockflow/internal/debounce"
	"github.com/petrijr/blockflow/internal/persistence"
	"github.com/petrijr/blockflow/pkg/api"
)

const (
	// DefaultAutosaveDelay is the quiet period before an autosave fires.
	DefaultAutosaveDelay = 2 * time.Second

	DefaultWorkflowName = "Sample Workflow"
	DefaultVersion      = "1.0.0"
)

// Config describes how to construct a Controller. Zero fields take the
// package defaults.
type Config struct {
	Store         persistence.SnapshotStore
	Key           string
	WorkflowName  string
	Version       string
	AutosaveDelay time.Duration
	Observer      api.Observer

	// Now stamps metadata.lastSaved. Defaults to time.Now.
	Now func() time.Time
}

// Controller turns graphs into durable snapshots and tracks save progress.
// It is safe for concurrent use; writes are serialized.
type Controller struct {
	store    persistence.SnapshotStore
	key      string
	name     string
	version  string
	observer api.Observer
	now      func() time.Time
	autosave *debounce.Debouncer

	mu     sync.Mutex // guards status
	status api.SaveStatus

	writeMu sync.Mutex
}

// NewController creates a Controller from cfg.
func NewController(cfg Config) *Controller {
	store := cfg.Store
	if store == nil {
		store = persistence.NewMemoryStore()
	}
	key := cfg.Key
	if key == "" {
		key = persistence.DefaultKey
	}
	name := cfg.WorkflowName
	if name == "" {
		name = DefaultWorkflowName
	}
	version := cfg.Version
	if version == "" {
		version = DefaultVersion
	}
	delay := cfg.AutosaveDelay
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	obs := cfg.Observer
	if obs == nil {
		obs = api.NoopObserver{}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Controller{
		store:    store,
		key:      key,
		name:     name,
		version:  version,
		observer: obs,
		now:      now,
		autosave: debounce.New(delay),
		status:   api.SaveIdle,
	}
}

// NewInMemoryController creates a controller over a non-durable memory slot.
func NewInMemoryController() *Controller {
	return NewController(Config{Store: persistence.NewMemoryStore()})
}

// NewSQLiteController creates a controller whose slot lives in db, creating
// the snapshots table if needed.
func NewSQLiteController(db *sql.DB) (*Controller, error) {
	store, err := persistence.NewSQLiteStore(db)
	if err != nil {
		return nil, err
	}
	return NewController(Config{Store: store}), nil
}

// NewPostgresController is NewSQLiteController for a PostgreSQL database.
func NewPostgresController(db *sql.DB) (*Controller, error) {
	store, err := persistence.NewPostgresStore(db)
	if err != nil {
		return nil, err
	}
	return NewController(Config{Store: store}), nil
}

// NewRedisController creates a controller whose slot lives in Redis under
// the "blockflow:" prefix, without expiry.
func NewRedisController(client *redis.Client) *Controller {
	return NewController(Config{Store: persistence.NewRedisStore(client, "blockflow:", 0)})
}

// NewMongoController creates a controller whose slot lives in the default
// blockflow.snapshots collection.
func NewMongoController(client *mongo.Client) *Controller {
	return NewController(Config{Store: persistence.NewMongoStore(client, "", "")})
}

// Key returns the storage key of the snapshot slot.
func (c *Controller) Key() string {
	return c.key
}

// Status returns the current save status.
func (c *Controller) Status() api.SaveStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Controller) setStatus(ctx context.Context, next api.SaveStatus) {
	c.mu.Lock()
	prev := c.status
	if !prev.CanTransition(next) {
		c.mu.Unlock()
		return
	}
	c.status = next
	c.mu.Unlock()

	c.observer.OnStatusChanged(ctx, prev, next)
}

// Save writes a snapshot of the graph to the slot. On a failed write the
// status ends in error and the write error is returned.
func (c *Controller) Save(ctx context.Context, nodes []api.Node, edges []api.Edge) (api.Snapshot, error) {
	return c.save(ctx, nodes, edges, api.TriggerManual)
}

func (c *Controller) save(ctx context.Context, nodes []api.Node, edges []api.Edge, trigger api.SaveTrigger) (api.Snapshot, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.setStatus(ctx, api.SaveSaving)
	start := time.Now()

	snap := c.snapshot(nodes, edges)
	data, err := persistence.EncodeSnapshot(snap)
	if err == nil {
		err = c.store.Set(ctx, c.key, data)
	}
	if err != nil {
		c.setStatus(ctx, api.SaveError)
		c.observer.OnSaveFailed(ctx, trigger, err)
		return api.Snapshot{}, fmt.Errorf("save snapshot %q: %w", c.key, err)
	}

	c.setStatus(ctx, api.SaveSaved)
	c.observer.OnSaveCompleted(ctx, &snap, trigger, time.Since(start))
	return snap, nil
}

// snapshot keeps only {id, type, position, data} of each node and
// {id, source, target, label} of each edge.
func (c *Controller) snapshot(nodes []api.Node, edges []api.Edge) api.Snapshot {
	outNodes := make([]api.Node, len(nodes))
	for i, n := range nodes {
		outNodes[i] = n.Clone()
	}
	outEdges := make([]api.Edge, len(edges))
	for i, e := range edges {
		outEdges[i] = api.Edge{
			ID:     e.ID,
			Source: e.Source,
			Target: e.Target,
			Label:  e.Label,
		}
	}
	return api.Snapshot{
		Nodes: outNodes,
		Edges: outEdges,
		Metadata: api.Metadata{
			Name:      c.name,
			Version:   c.version,
			LastSaved: c.now().UTC(),
		},
	}
}

// Load reads the stored snapshot. A missing, unreadable or corrupt slot
// yields false; the reason is only reported to the observer.
func (c *Controller) Load(ctx context.Context) (*api.Snapshot, bool) {
	data, err := c.store.Get(ctx, c.key)
	if err != nil {
		if errors.Is(err, persistence.ErrSnapshotNotFound) {
			c.observer.OnSnapshotLoaded(ctx, nil, nil)
		} else {
			c.observer.OnSnapshotLoaded(ctx, nil, err)
		}
		return nil, false
	}

	snap, err := persistence.DecodeSnapshot(data)
	if err != nil {
		c.observer.OnSnapshotLoaded(ctx, nil, err)
		return nil, false
	}

	c.observer.OnSnapshotLoaded(ctx, &snap, nil)
	return &snap, true
}

// Discard deletes the stored snapshot.
func (c *Controller) Discard(ctx context.Context) error {
	if err := c.store.Delete(ctx, c.key); err != nil {
		return fmt.Errorf("discard snapshot %q: %w", c.key, err)
	}
	c.observer.OnSnapshotDiscarded(ctx)
	return nil
}

// Autosave restarts the autosave delay. When it elapses without another
// Autosave call, the graph from the latest call is saved, but only if the
// findings passed with it were empty. Returns false after Close.
func (c *Controller) Autosave(ctx context.Context, nodes []api.Node, edges []api.Edge, findings []api.Finding) bool {
	ctx = context.WithoutCancel(ctx)
	nodes = append([]api.Node(nil), nodes...)
	edges = append([]api.Edge(nil), edges...)
	return c.autosave.Schedule(func() {
		if len(findings) > 0 {
			c.observer.OnAutosaveSkipped(ctx, len(findings))
			return
		}
		// The error is already reflected in the status and reported to the observer.
		_, _ = c.save(ctx, nodes, edges, api.TriggerAuto)
	})
}

// AutosavePending reports whether an autosave is waiting for its delay.
func (c *Controller) AutosavePending() bool {
	return c.autosave.Pending()
}

// CancelAutosave drops a pending autosave without closing the controller.
func (c *Controller) CancelAutosave() {
	c.autosave.Cancel()
}

// Close cancels a pending autosave; later Autosave calls are ignored.
// Manual saves keep working.
func (c *Controller) Close() {
	c.autosave.Stop()
}
