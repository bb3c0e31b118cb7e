package api

import (
	"encoding/json"
	"fmt"
)

// Kind identifies the type of a node (block) in a workflow graph.
type Kind string

const (
	KindStart       Kind = "start"
	KindForm        Kind = "form"
	KindConditional Kind = "conditional"
	KindAPI         Kind = "api"
	KindEnd         Kind = "end"
)

// Kinds lists every node kind in palette order.
var Kinds = []Kind{KindStart, KindForm, KindConditional, KindAPI, KindEnd}

// Valid reports whether k is one of the known node kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindStart, KindForm, KindConditional, KindAPI, KindEnd:
		return true
	}
	return false
}

// FieldType is the input type of a form field.
type FieldType string

const (
	FieldString   FieldType = "string"
	FieldNumber   FieldType = "number"
	FieldDropdown FieldType = "dropdown"
	FieldCheckbox FieldType = "checkbox"
)

// Method is the HTTP method configured on an API node. It is configuration
// data only; nothing in this module dispatches requests.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// Operator is the comparison applied by a conditional node.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpIsEmpty     Operator = "is_empty"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
	OpContains    Operator = "contains"
)

// Route ids of a conditional node. A conditional node always owns exactly
// these two routes.
const (
	RouteTrue  = "true"
	RouteFalse = "false"
)

// Position is the canvas coordinate of a node. It is presentation-only and
// never validated.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData is the kind-specific payload of a node. The set of
// implementations is closed: StartData, EndData, FormData, APIData and
// ConditionalData.
type NodeData interface {
	Kind() Kind
	isNodeData()
}

// StartData is the payload of the start node.
type StartData struct {
	Label string `json:"label"`
}

// EndData is the payload of the end node.
type EndData struct {
	Label string `json:"label"`
}

// Field is a single input of a form node.
type Field struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	Options  []string  `json:"options"`
}

// FormData is the payload of a form node.
type FormData struct {
	Label      string  `json:"label"`
	CustomName string  `json:"customName"`
	Fields     []Field `json:"fields"`
}

// APIData is the payload of an API call node.
type APIData struct {
	Label  string `json:"label"`
	URL    string `json:"url"`
	Method Method `json:"method"`
}

// Route is one of the two fixed outgoing branches of a conditional node.
type Route struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Condition string `json:"condition"`
}

// ConditionalData is the payload of a conditional node.
type ConditionalData struct {
	Label           string   `json:"label"`
	CustomName      string   `json:"customName"`
	FieldToEvaluate string   `json:"fieldToEvaluate"`
	Operator        Operator `json:"operator"`
	Value           string   `json:"value"`
	Routes          []Route  `json:"routes"`
}

func (StartData) Kind() Kind       { return KindStart }
func (EndData) Kind() Kind         { return KindEnd }
func (FormData) Kind() Kind        { return KindForm }
func (APIData) Kind() Kind         { return KindAPI }
func (ConditionalData) Kind() Kind { return KindConditional }

func (StartData) isNodeData()       {}
func (EndData) isNodeData()         {}
func (FormData) isNodeData()        {}
func (APIData) isNodeData()         {}
func (ConditionalData) isNodeData() {}

// RouteLabel returns the label of the route with the given id.
func (d ConditionalData) RouteLabel(id string) (string, bool) {
	for _, r := range d.Routes {
		if r.ID == id {
			return r.Label, true
		}
	}
	return "", false
}

// DefaultData returns the payload a freshly added node of kind k starts with,
// or nil for an unknown kind.
func DefaultData(k Kind) NodeData {
	switch k {
	case KindStart:
		return StartData{Label: "Start"}
	case KindForm:
		return FormData{Label: "Form", CustomName: "Form", Fields: []Field{}}
	case KindConditional:
		return ConditionalData{
			Label:      "Conditional",
			CustomName: "Conditional",
			Operator:   OpEquals,
			Routes:     DefaultRoutes(),
		}
	case KindAPI:
		return APIData{Label: "API Call", Method: MethodGet}
	case KindEnd:
		return EndData{Label: "End"}
	}
	return nil
}

// DefaultRoutes returns the true/false route pair of a new conditional node.
func DefaultRoutes() []Route {
	return []Route{
		{ID: RouteTrue, Label: "True"},
		{ID: RouteFalse, Label: "False"},
	}
}

// Node is a vertex of the workflow graph. Kind selects which NodeData
// implementation Data holds.
type Node struct {
	ID       string
	Kind     Kind
	Position Position
	Data     NodeData
}

// Form returns the node payload as FormData. A node whose payload is missing
// or of another kind yields the zero value.
func (n Node) Form() FormData {
	d, _ := n.Data.(FormData)
	return d
}

// API returns the node payload as APIData (zero value on mismatch).
func (n Node) API() APIData {
	d, _ := n.Data.(APIData)
	return d
}

// Conditional returns the node payload as ConditionalData (zero value on mismatch).
func (n Node) Conditional() ConditionalData {
	d, _ := n.Data.(ConditionalData)
	return d
}

// Label returns the display label of the node, whatever its kind.
func (n Node) Label() string {
	switch d := n.Data.(type) {
	case StartData:
		return d.Label
	case EndData:
		return d.Label
	case FormData:
		return d.Label
	case APIData:
		return d.Label
	case ConditionalData:
		return d.Label
	}
	return ""
}

// Clone returns a deep copy of the node, so that slices inside the payload
// are not shared with the original.
func (n Node) Clone() Node {
	switch d := n.Data.(type) {
	case FormData:
		if d.Fields != nil {
			fields := make([]Field, len(d.Fields))
			for i, f := range d.Fields {
				if f.Options != nil {
					f.Options = append([]string{}, f.Options...)
				}
				fields[i] = f
			}
			d.Fields = fields
		}
		n.Data = d
	case ConditionalData:
		if d.Routes != nil {
			d.Routes = append([]Route{}, d.Routes...)
		}
		n.Data = d
	}
	return n
}

// nodeJSON is the persisted shape of a node. "type" carries the kind, as in
// the snapshots written by the browser editor.
type nodeJSON struct {
	ID       string          `json:"id"`
	Type     Kind            `json:"type"`
	Position Position        `json:"position"`
	Data     json.RawMessage `json:"data"`
}

// MarshalJSON encodes the node as {id, type, position, data}.
func (n Node) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(n.Data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(nodeJSON{
		ID:       n.ID,
		Type:     n.Kind,
		Position: n.Position,
		Data:     raw,
	})
}

// UnmarshalJSON decodes the payload according to the "type" tag. A null or
// missing payload decodes to a nil Data.
func (n *Node) UnmarshalJSON(b []byte) error {
	var raw nodeJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	var data NodeData
	var err error
	switch raw.Type {
	case KindStart:
		data, err = decodeData[StartData](raw.Data)
	case KindEnd:
		data, err = decodeData[EndData](raw.Data)
	case KindForm:
		data, err = decodeData[FormData](raw.Data)
	case KindAPI:
		data, err = decodeData[APIData](raw.Data)
	case KindConditional:
		data, err = decodeData[ConditionalData](raw.Data)
	default:
		return fmt.Errorf("node %q: unknown node type %q", raw.ID, raw.Type)
	}
	if err != nil {
		return fmt.Errorf("node %q: %w", raw.ID, err)
	}

	*n = Node{
		ID:       raw.ID,
		Kind:     raw.Type,
		Position: raw.Position,
		Data:     data,
	}
	return nil
}

func decodeData[T NodeData](raw json.RawMessage) (NodeData, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Edge is a directed connection between two nodes. SourceHandle selects the
// true/false output of a conditional source.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	Label        string `json:"label,omitempty"`
}

// Touches reports whether the edge has nodeID as one of its endpoints.
func (e Edge) Touches(nodeID string) bool {
	return e.Source == nodeID || e.Target == nodeID
}
