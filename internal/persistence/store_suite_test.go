package persistence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/petrijr/blockflow/pkg/api"
)

// SnapshotStoreSuite holds the behaviour every SnapshotStore must share.
// Backend tests embed it and set Store in SetupTest.
type SnapshotStoreSuite struct {
	suite.Suite
	Store SnapshotStore
}

func (s *SnapshotStoreSuite) key(name string) string {
	return fmt.Sprintf("%s-%s", s.T().Name(), name)
}

func (s *SnapshotStoreSuite) TestGetMissingKey() {
	_, err := s.Store.Get(context.Background(), s.key("missing"))
	s.Require().ErrorIs(err, ErrSnapshotNotFound)
}

func (s *SnapshotStoreSuite) TestSetThenGet() {
	ctx := context.Background()
	k := s.key("slot")

	s.Require().NoError(s.Store.Set(ctx, k, []byte(`{"a":1}`)))

	got, err := s.Store.Get(ctx, k)
	s.Require().NoError(err)
	s.Equal(`{"a":1}`, string(got))
}

func (s *SnapshotStoreSuite) TestSetReplaces() {
	ctx := context.Background()
	k := s.key("slot")

	s.Require().NoError(s.Store.Set(ctx, k, []byte("first")))
	s.Require().NoError(s.Store.Set(ctx, k, []byte("second")))

	got, err := s.Store.Get(ctx, k)
	s.Require().NoError(err)
	s.Equal("second", string(got))
}

func (s *SnapshotStoreSuite) TestDeleteIsIdempotent() {
	ctx := context.Background()
	k := s.key("slot")

	s.Require().NoError(s.Store.Set(ctx, k, []byte("v")))
	s.Require().NoError(s.Store.Delete(ctx, k))
	s.Require().NoError(s.Store.Delete(ctx, k))

	_, err := s.Store.Get(ctx, k)
	s.Require().ErrorIs(err, ErrSnapshotNotFound)
}

func (s *SnapshotStoreSuite) TestKeysAreIndependent() {
	ctx := context.Background()
	a, b := s.key("a"), s.key("b")

	s.Require().NoError(s.Store.Set(ctx, a, []byte("A")))
	s.Require().NoError(s.Store.Set(ctx, b, []byte("B")))
	s.Require().NoError(s.Store.Delete(ctx, a))

	got, err := s.Store.Get(ctx, b)
	s.Require().NoError(err)
	s.Equal("B", string(got))
}

func (s *SnapshotStoreSuite) TestSnapshotRoundTrip() {
	ctx := context.Background()
	k := s.key("snapshot")

	snap := sampleSnapshot()
	data, err := EncodeSnapshot(snap)
	s.Require().NoError(err)
	s.Require().NoError(s.Store.Set(ctx, k, data))

	stored, err := s.Store.Get(ctx, k)
	s.Require().NoError(err)
	got, err := DecodeSnapshot(stored)
	s.Require().NoError(err)

	s.Equal(snap.Nodes, got.Nodes)
	s.Equal(snap.Edges, got.Edges)
	s.Equal(snap.Metadata.Name, got.Metadata.Name)
	s.True(snap.Metadata.LastSaved.Equal(got.Metadata.LastSaved))
}

func (s *SnapshotStoreSuite) TestConcurrentSets() {
	ctx := context.Background()
	k := s.key("slot")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.NoError(s.Store.Set(ctx, k, []byte(fmt.Sprintf("v%d", i))))
		}(i)
	}
	wg.Wait()

	got, err := s.Store.Get(ctx, k)
	s.Require().NoError(err)
	s.Regexp(`^v[0-7]$`, string(got))
}

func sampleSnapshot() api.Snapshot {
	return api.Snapshot{
		Nodes: []api.Node{
			{ID: "node_0", Kind: api.KindStart, Position: api.Position{X: 250, Y: 50}, Data: api.StartData{Label: "Start"}},
			{ID: "node_1", Kind: api.KindForm, Position: api.Position{X: 250, Y: 150}, Data: api.FormData{
				Label:      "Form",
				CustomName: "Signup",
				Fields: []api.Field{
					{ID: "f1", Name: "email", Label: "Email", Type: api.FieldString, Required: true},
					{ID: "f2", Name: "plan", Label: "Plan", Type: api.FieldDropdown, Options: []string{"free", "pro"}},
				},
			}},
			{ID: "node_2", Kind: api.KindConditional, Position: api.Position{X: 250, Y: 250}, Data: api.ConditionalData{
				Label:           "Conditional",
				CustomName:      "Is pro",
				FieldToEvaluate: "plan",
				Operator:        api.OpEquals,
				Value:           "pro",
				Routes:          api.DefaultRoutes(),
			}},
			{ID: "node_3", Kind: api.KindAPI, Position: api.Position{X: 100, Y: 350}, Data: api.APIData{Label: "API Call", URL: "https://example.com/hook", Method: api.MethodPost}},
			{ID: "node_4", Kind: api.KindEnd, Position: api.Position{X: 250, Y: 450}, Data: api.EndData{Label: "End"}},
		},
		Edges: []api.Edge{
			{ID: "e0", Source: "node_0", Target: "node_1"},
			{ID: "e1", Source: "node_1", Target: "node_2"},
			{ID: "e2", Source: "node_2", Target: "node_3", Label: "True"},
			{ID: "e3", Source: "node_2", Target: "node_4", Label: "False"},
			{ID: "e4", Source: "node_3", Target: "node_4"},
		},
		Metadata: api.Metadata{
			Name:      "Sample Workflow",
			Version:   "1.0.0",
			LastSaved: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
		},
	}
}
