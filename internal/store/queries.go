package store

import (
	"fmt"
	"strings"

	"github.com/persistorai/kinnet/internal/models"
)

// edgeTable describes where a person-to-person relation kind is stored.
type edgeTable struct {
	table, source, target, code string
}

var edgeTables = map[models.RelationKind]edgeTable{
	models.KindKinship:     {table: "kin_data", source: "c_personid", target: "c_kin_id", code: "c_kin_code"},
	models.KindAssociation: {table: "assoc_data", source: "c_personid", target: "c_assoc_id", code: "c_assoc_code"},
}

// edgeQuery builds the query for one relation kind. match is the dialect's
// id-membership predicate ("= ANY($1)" or "IN (?, ...)"); the returned int
// is how many times the id list must be bound. Rows are not capped: a wide
// office fan-out is bounded by the traversal's node ceiling, which reports it.
func edgeQuery(kind models.RelationKind, match string) (string, int, error) {
	if kind == models.KindOffice {
		return fmt.Sprintf(`SELECT DISTINCT a.c_personid, b.c_personid, a.c_office_id
			FROM posted_to_office_data a
			JOIN posted_to_office_data b ON b.c_office_id = a.c_office_id AND b.c_personid <> a.c_personid
			WHERE a.c_personid %s
			ORDER BY a.c_personid, b.c_personid, a.c_office_id`, match), 1, nil
	}

	t, ok := edgeTables[kind]
	if !ok {
		return "", 0, fmt.Errorf("%w: %q", models.ErrInvalidRelationKind, kind)
	}

	half := func(col string) string {
		return fmt.Sprintf(`SELECT %[1]s, %[2]s, %[3]s FROM %[4]s WHERE %[5]s %[6]s`,
			t.source, t.target, t.code, t.table, col, match)
	}

	return `SELECT * FROM (` + half(t.source) + `) AS fwd UNION SELECT * FROM (` + half(t.target) + `) AS rev`, 2, nil
}

// sqlitePlaceholders returns "IN (?, ?, ...)" for n ids.
func sqlitePlaceholders(n int) string {
	return "IN (" + strings.TrimSuffix(strings.Repeat("?, ", n), ", ") + ")"
}
