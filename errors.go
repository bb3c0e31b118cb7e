package blockflow

import "errors"

var (
	// ErrNodeLimit is returned when adding a second start or end node.
	ErrNodeLimit = errors.New("blockflow: node limit reached for kind")

	// ErrUnknownNode is returned when an operation names a node id that is
	// not in the graph.
	ErrUnknownNode = errors.New("blockflow: unknown node")

	// ErrUnknownKind is returned for a node kind outside start, form,
	// conditional, api and end.
	ErrUnknownKind = errors.New("blockflow: unknown node kind")

	// ErrKindMismatch is returned when a payload does not belong to the
	// node's kind.
	ErrKindMismatch = errors.New("blockflow: payload kind does not match node")

	// ErrSaveBlocked is returned by a manual save while the graph is empty,
	// has no edges or has error findings.
	ErrSaveBlocked = errors.New("blockflow: save blocked by validation")

	// ErrEditorClosed is returned by mutations after Close.
	ErrEditorClosed = errors.New("blockflow: editor closed")

	// ErrInvalidConfig wraps every configuration validation failure.
	ErrInvalidConfig = errors.New("blockflow: invalid configuration")
)
