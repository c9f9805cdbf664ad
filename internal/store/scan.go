package store

import (
	"database/sql"

	"github.com/persistorai/kinnet/internal/models"
)

// personColumns lists the biog_main columns selected for attribute lookups.
const personColumns = `c_personid, c_name, c_name_chn, c_birthyear, c_deathyear, c_dy`

// scanPerson scans one biog_main row. Both pgx and database/sql rows satisfy
// the scan signature.
func scanPerson(scan func(dest ...any) error) (models.PersonAttributes, error) {
	var (
		id                    int64
		name, nameChn         sql.NullString
		birth, death, dynasty sql.NullInt64
	)

	if err := scan(&id, &name, &nameChn, &birth, &death, &dynasty); err != nil {
		return models.PersonAttributes{}, err
	}

	return models.PersonAttributes{
		ID:          models.PersonID(id),
		Name:        name.String,
		NameChn:     nameChn.String,
		BirthYear:   nullInt(birth),
		DeathYear:   nullInt(death),
		DynastyCode: nullInt(dynasty),
	}, nil
}

// scanEdge scans a (from, to, code) row into an edge of the given kind.
func scanEdge(scan func(dest ...any) error, kind models.RelationKind) (models.Edge, error) {
	var from, to int64
	var code int

	if err := scan(&from, &to, &code); err != nil {
		return models.Edge{}, err
	}

	if kind == models.KindOffice {
		return officeEdge(models.PersonID(from), models.PersonID(to), models.RelationshipCode(code)), nil
	}

	return models.Edge{
		From: models.PersonID(from),
		To:   models.PersonID(to),
		Code: models.RelationshipCode(code),
		Kind: kind,
	}, nil
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}

	n := int(v.Int64)

	return &n
}
