package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/petrijr/blockflow/internal/testutil"
)

type MongoStoreTestSuite struct {
	SnapshotStoreSuite
	client *mongo.Client
}

func TestMongoStoreTestSuite(t *testing.T) {
	uri := testutil.GetMongoURI(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("mongo.Connect failed: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Disconnect(context.Background())
	})

	suite.Run(t, &MongoStoreTestSuite{client: client})
}

func (m *MongoStoreTestSuite) SetupTest() {
	store := NewMongoStore(m.client, "blockflow_test", "snapshots")
	m.Require().NoError(store.coll.Drop(context.Background()))
	m.Store = store
}
