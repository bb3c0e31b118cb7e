package persistence

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/petrijr/blockflow/internal/testutil"
)

type PostgresStoreTestSuite struct {
	SnapshotStoreSuite
	db *sql.DB
}

func TestPostgresStoreTestSuite(t *testing.T) {
	dsn := testutil.GetPostgresDSN(t)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.Ping(); err != nil {
		t.Skipf("postgres not reachable: %v", err)
	}

	suite.Run(t, &PostgresStoreTestSuite{db: db})
}

func (p *PostgresStoreTestSuite) SetupTest() {
	store, err := NewPostgresStore(p.db)
	p.Require().NoError(err)
	_, err = p.db.Exec(`TRUNCATE TABLE snapshots`)
	p.Require().NoError(err)
	p.Store = store
}
