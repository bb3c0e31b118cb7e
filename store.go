package blockflow

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	_ "modernc.org/sqlite"
)

// OpenStore connects the backend selected by cfg.Driver. The returned close
// function releases the underlying connection and must be called once the
// store is no longer used.
func OpenStore(ctx context.Context, cfg StoreConfig) (SnapshotStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case DriverMemory, "":
		return NewMemoryStore(), noop, nil

	case DriverSQLite:
		db, err := sql.Open("sqlite", "file:"+cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
		store, err := NewSQLiteStore(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("init sqlite store: %w", err)
		}
		return store, db.Close, nil

	case DriverPostgres:
		db, err := sql.Open("pgx", cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		store, err := NewPostgresStore(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("init postgres store: %w", err)
		}
		return store, db.Close, nil

	case DriverRedis:
		opts, err := redis.ParseURL(cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return NewRedisStore(client, cfg.RedisPrefix, cfg.RedisTTL), client.Close, nil

	case DriverMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.DSN))
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		closeFn := func() error { return client.Disconnect(context.Background()) }
		return NewMongoStore(client, cfg.MongoDatabase, cfg.MongoCollection), closeFn, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}
