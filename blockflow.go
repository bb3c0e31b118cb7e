package blockflow

import (
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/petrijr/blockflow/internal/engine"
	"github.com/petrijr/blockflow/internal/persistence"
	"github.com/petrijr/blockflow/internal/validation"
	"github.com/petrijr/blockflow/pkg/api"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	Kind            = api.Kind
	Node            = api.Node
	NodeData        = api.NodeData
	StartData       = api.StartData
	EndData         = api.EndData
	FormData        = api.FormData
	APIData         = api.APIData
	ConditionalData = api.ConditionalData
	Field           = api.Field
	FieldType       = api.FieldType
	Method          = api.Method
	Operator        = api.Operator
	Route           = api.Route
	Edge            = api.Edge
	Position        = api.Position
	Finding         = api.Finding
	Severity        = api.Severity
	Snapshot        = api.Snapshot
	Metadata        = api.Metadata
	SaveStatus      = api.SaveStatus
	SaveTrigger     = api.SaveTrigger

	Observer             = api.Observer
	LoggingObserver      = api.LoggingObserver
	BasicMetrics         = api.BasicMetrics
	BasicMetricsSnapshot = api.BasicMetricsSnapshot
	CompositeObserver    = api.CompositeObserver
	NoopObserver         = api.NoopObserver

	// SnapshotStore is the durable slot snapshots are written to.
	SnapshotStore = persistence.SnapshotStore

	// Controller is the persistence controller behind an Editor.
	Controller = engine.Controller
)

// Re-export common observer helpers.

var (
	NewLoggingObserver   = api.NewLoggingObserver
	NewCompositeObserver = api.NewCompositeObserver
	DefaultData          = api.DefaultData
)

// Re-export kinds and status values for convenience.

const (
	KindStart       = api.KindStart
	KindForm        = api.KindForm
	KindConditional = api.KindConditional
	KindAPI         = api.KindAPI
	KindEnd         = api.KindEnd

	SaveIdle   = api.SaveIdle
	SaveSaving = api.SaveSaving
	SaveSaved  = api.SaveSaved
	SaveError  = api.SaveError
)

// Re-export store sentinels.

var (
	ErrSnapshotNotFound = persistence.ErrSnapshotNotFound
	ErrCorruptSnapshot  = persistence.ErrCorruptSnapshot
)

// Validate returns the ordered findings for the graph. It never fails and
// never modifies its arguments.
func Validate(nodes []Node, edges []Edge) []Finding {
	return validation.Validate(nodes, edges)
}

// ValidateWithConfig is Validate with the optional checks enabled by cfg.
func ValidateWithConfig(nodes []Node, edges []Edge, cfg Config) []Finding {
	return validation.Validate(nodes, edges, validation.WithDanglingEdges(cfg.ReportDanglingEdges))
}

// CanAddNode reports whether a node of the given kind may be added right now
// without a second start or end node.
func CanAddNode(kind Kind, nodes []Node) bool {
	return validation.CanAddNode(kind, nodes)
}

// HasBlocking reports whether any finding has error severity.
func HasBlocking(findings []Finding) bool {
	return validation.HasBlocking(findings)
}

// Store constructors
// These wrap the internal/persistence package so external callers
// never need to import internal packages.

// NewMemoryStore returns a non-durable SnapshotStore.
func NewMemoryStore() SnapshotStore {
	return persistence.NewMemoryStore()
}

// NewSQLiteStore returns a SnapshotStore in the given SQLite database.
func NewSQLiteStore(db *sql.DB) (SnapshotStore, error) {
	return persistence.NewSQLiteStore(db)
}

// NewPostgresStore returns a SnapshotStore in the given PostgreSQL database.
func NewPostgresStore(db *sql.DB) (SnapshotStore, error) {
	return persistence.NewPostgresStore(db)
}

// NewRedisStore returns a SnapshotStore in Redis. A positive ttl expires the
// slot that long after each save.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) SnapshotStore {
	return persistence.NewRedisStore(client, prefix, ttl)
}

// NewMongoStore returns a SnapshotStore in a MongoDB collection.
func NewMongoStore(client *mongo.Client, dbName, collName string) SnapshotStore {
	return persistence.NewMongoStore(client, dbName, collName)
}

// NewController returns a persistence controller over store, configured from
// cfg. Most callers use an Editor instead.
func NewController(store SnapshotStore, cfg Config, obs Observer) *Controller {
	return engine.NewController(cfg.controllerConfig(store, obs))
}

// EncodeSnapshot and DecodeSnapshot convert between snapshots and the JSON
// document kept in a slot.
var (
	EncodeSnapshot = persistence.EncodeSnapshot
	DecodeSnapshot = persistence.DecodeSnapshot
)
