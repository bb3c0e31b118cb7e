package persistence

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/petrijr/blockflow/pkg/api"
)

func TestEncodeSnapshot_NilSlicesBecomeEmptyArrays(t *testing.T) {
	data, err := EncodeSnapshot(api.Snapshot{Metadata: api.Metadata{Name: "w", Version: "1.0.0"}})
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	require.JSONEq(t, `[]`, string(raw["nodes"]))
	require.JSONEq(t, `[]`, string(raw["edges"]))

	snap, err := DecodeSnapshot(data)
	require.NoError(t, err)
	require.Empty(t, snap.Nodes)
	require.Equal(t, "w", snap.Metadata.Name)
}

func TestDecodeSnapshot_BrowserDocument(t *testing.T) {
	doc := `{
		"nodes": [
			{"id":"node_0","type":"start","position":{"x":250,"y":50},"data":{"label":"Start"}},
			{"id":"node_1","type":"api","position":{"x":250,"y":150},"data":{"label":"API Call","url":"https://x.io","method":"POST"}}
		],
		"edges": [{"id":"e1","source":"node_0","target":"node_1","label":""}],
		"metadata": {"name":"Sample Workflow","version":"1.0.0","lastSaved":"2026-10-19T08:30:00.000Z"}
	}`

	snap, err := DecodeSnapshot([]byte(doc))
	require.NoError(t, err)
	require.Len(t, snap.Nodes, 2)
	require.Equal(t, api.KindAPI, snap.Nodes[1].Kind)
	require.Equal(t, "https://x.io", snap.Nodes[1].API().URL)
	require.Equal(t, api.MethodPost, snap.Nodes[1].API().Method)
	require.Equal(t, "e1", snap.Edges[0].ID)
	require.Equal(t, 2026, snap.Metadata.LastSaved.Year())
}

func TestDecodeSnapshot_Corrupt(t *testing.T) {
	cases := map[string]string{
		"not json":         `{{{`,
		"empty":            ``,
		"array":            `[]`,
		"missing metadata": `{"nodes":[],"edges":[]}`,
		"missing edges":    `{"nodes":[],"metadata":{"name":"w"}}`,
		"unknown type":     `{"nodes":[{"id":"n","type":"loop","data":{}}],"edges":[],"metadata":{}}`,
		"bad payload":      `{"nodes":[{"id":"n","type":"form","data":{"fields":"x"}}],"edges":[],"metadata":{}}`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeSnapshot([]byte(doc))
			require.ErrorIs(t, err, ErrCorruptSnapshot)
		})
	}
}
