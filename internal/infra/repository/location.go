package repository

import (
	"github.com/totegamma/rfb-playground/internal/domain"
	"github.com/totegamma/rfb-playground/internal/infra/relational"
)

var locationTable = relational.Table{
	Name:    "rfb_location",
	Columns: []string{"id", "location_name", "run_day_of_week"},
	Kinds: map[string]relational.Kind{
		"id":              relational.Integer,
		"run_day_of_week": relational.Integer,
	},
}

func mapLocation(row relational.Row, prefix string) (domain.Location, error) {
	r := row.Reader(prefix)
	l := domain.Location{
		ID:           relational.Get[int64](r, "id"),
		LocationName: relational.Get[string](r, "location_name"),
		RunDayOfWeek: relational.Get[int](r, "run_day_of_week"),
	}
	return l, r.Err()
}

func locationValues(l domain.Location) []relational.Value {
	return []relational.Value{
		{Column: "location_name", Value: l.LocationName},
		{Column: "run_day_of_week", Value: l.RunDayOfWeek},
	}
}

type LocationRepository struct {
	*crudRepository[domain.Location]
}

func NewLocationRepository(em *relational.EntityManager) *LocationRepository {
	sel := relational.Select[domain.Location]{
		Table: locationTable,
		Hydrate: func(row relational.Row) (domain.Location, error) {
			return mapLocation(row, relational.PrimaryAlias)
		},
	}
	withID := func(l domain.Location, id int64) domain.Location {
		l.ID = &id
		return l
	}
	return &LocationRepository{
		crudRepository: newCrudRepository(em, domain.LocationEntity, sel, locationValues, withID),
	}
}
