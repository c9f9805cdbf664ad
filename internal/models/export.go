package models

import "time"

// Interchange format identifiers.
const (
	FormatInterchange        = "interchange"
	InterchangeDocumentType  = "kinnet-graph"
	InterchangeSchemaVersion = 1
)

// InterchangeDocument is the self-describing node/edge/attribute serialization of a
// GraphModel. Node and edge attributes round-trip unchanged.
type InterchangeDocument struct {
	Format        string            `json:"format"`
	SchemaVersion int               `json:"schema_version"`
	KinnetVersion string            `json:"kinnet_version"`
	ExportedAt    time.Time         `json:"exported_at"`
	Directed      bool              `json:"directed"`
	Stats         InterchangeStats  `json:"stats"`
	Nodes         []InterchangeNode `json:"nodes"`
	Edges         []InterchangeEdge `json:"edges"`
}

// InterchangeStats summarises the contents of a document.
type InterchangeStats struct {
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
}

// InterchangeNode is the portable representation of a node.
type InterchangeNode struct {
	ID         PersonID       `json:"id"`
	Attributes NodeAttributes `json:"attributes"`
}

// InterchangeEdge is the portable representation of an edge.
type InterchangeEdge struct {
	Source     PersonID       `json:"source"`
	Target     PersonID       `json:"target"`
	Attributes EdgeAttributes `json:"attributes"`
}
