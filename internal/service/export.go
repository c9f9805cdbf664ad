package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/persistorai/kinnet/internal/models"
)

// ExportGraph serializes g in the named format. Only the interchange format
// is supported.
func (s *NetworkService) ExportGraph(g *models.GraphModel, format string) ([]byte, error) {
	if format != models.FormatInterchange {
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedFormat, format)
	}

	doc := models.InterchangeDocument{
		Format:        models.InterchangeDocumentType,
		SchemaVersion: models.InterchangeSchemaVersion,
		KinnetVersion: s.cfg.Version,
		ExportedAt:    time.Now().UTC(),
		Directed:      true,
		Stats: models.InterchangeStats{
			NodeCount: len(g.Nodes),
			EdgeCount: len(g.Edges),
		},
		Nodes: make([]models.InterchangeNode, 0, len(g.Nodes)),
		Edges: make([]models.InterchangeEdge, 0, len(g.Edges)),
	}

	for _, id := range g.NodeIDs() {
		doc.Nodes = append(doc.Nodes, models.InterchangeNode{ID: id, Attributes: g.Nodes[id]})
	}

	for _, e := range g.Edges {
		doc.Edges = append(doc.Edges, models.InterchangeEdge(e))
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding interchange document: %w", err)
	}

	return data, nil
}

// ImportGraph parses an interchange document back into a GraphModel.
func (s *NetworkService) ImportGraph(data []byte) (models.GraphModel, error) {
	var doc models.InterchangeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.GraphModel{}, fmt.Errorf("%w: %w", models.ErrInvalidDocument, err)
	}

	if errs := validateDocument(&doc); len(errs) > 0 {
		return models.GraphModel{}, fmt.Errorf("%w: %s", models.ErrInvalidDocument, errs[0])
	}

	g := models.GraphModel{
		Nodes: make(map[models.PersonID]models.NodeAttributes, len(doc.Nodes)),
		Edges: make([]models.GraphEdge, 0, len(doc.Edges)),
	}

	for _, n := range doc.Nodes {
		g.Nodes[n.ID] = n.Attributes
	}

	for _, e := range doc.Edges {
		g.Edges = append(g.Edges, models.GraphEdge(e))
	}

	return g, nil
}

// validateDocument returns human-readable consistency errors; empty means valid.
func validateDocument(doc *models.InterchangeDocument) []string {
	var errs []string

	if doc.Format != models.InterchangeDocumentType {
		errs = append(errs, fmt.Sprintf("format %q is not %q", doc.Format, models.InterchangeDocumentType))
	}

	if doc.SchemaVersion < 1 || doc.SchemaVersion > models.InterchangeSchemaVersion {
		errs = append(errs, fmt.Sprintf("schema version %d is not supported (max %d)",
			doc.SchemaVersion, models.InterchangeSchemaVersion))
	}

	ids := make(map[models.PersonID]bool, len(doc.Nodes))

	for i, n := range doc.Nodes {
		switch {
		case !n.ID.Valid():
			errs = append(errs, fmt.Sprintf("node[%d]: invalid id %d", i, n.ID))
		case ids[n.ID]:
			errs = append(errs, fmt.Sprintf("node[%d]: duplicate id %d", i, n.ID))
		case n.Attributes.Label == "":
			errs = append(errs, fmt.Sprintf("node[%d]: missing label", i))
		}

		ids[n.ID] = true
	}

	for i, e := range doc.Edges {
		if !ids[e.Source] || !ids[e.Target] {
			errs = append(errs, fmt.Sprintf("edge[%d]: %d→%d references a missing node", i, e.Source, e.Target))
		}
	}

	return errs
}
