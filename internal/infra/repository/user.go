package repository

import (
	"context"

	"github.com/totegamma/rfb-playground/internal/domain"
	"github.com/totegamma/rfb-playground/internal/infra/relational"
)

var userTable = relational.Table{
	Name:    "rfb_user",
	Columns: []string{"id", "username", "home_location_id"},
	Kinds: map[string]relational.Kind{
		"id":               relational.Integer,
		"home_location_id": relational.Integer,
	},
}

var homeLocationJoin = relational.Join{
	Table:      locationTable,
	Alias:      "home_location",
	ForeignKey: "home_location_id",
}

func mapUser(row relational.Row, prefix string) (domain.User, error) {
	r := row.Reader(prefix)
	u := domain.User{
		ID:             relational.Get[int64](r, "id"),
		Username:       relational.Get[string](r, "username"),
		HomeLocationID: relational.Get[int64](r, "home_location_id"),
	}
	return u, r.Err()
}

func hydrateUser(row relational.Row) (domain.User, error) {
	u, err := mapUser(row, relational.PrimaryAlias)
	if err != nil {
		return u, err
	}
	u.HomeLocation, err = relational.Related(row, homeLocationJoin, mapLocation)
	return u, err
}

func userValues(u domain.User) []relational.Value {
	return []relational.Value{
		{Column: "username", Value: u.Username},
		{Column: "home_location_id", Value: u.HomeLocationID},
	}
}

type UserRepository struct {
	*crudRepository[domain.User]
}

func NewUserRepository(em *relational.EntityManager) *UserRepository {
	sel := relational.Select[domain.User]{
		Table:   userTable,
		Joins:   []relational.Join{homeLocationJoin},
		Hydrate: hydrateUser,
	}
	withID := func(u domain.User, id int64) domain.User {
		u.ID = &id
		return u
	}
	return &UserRepository{
		crudRepository: newCrudRepository(em, domain.UserEntity, sel, userValues, withID),
	}
}

func (r *UserRepository) FindByHomeLocation(ctx context.Context, locationID int64) ([]domain.User, error) {
	return r.findBy(ctx, relational.Where("home_location_id", relational.Eq, locationID))
}

func (r *UserRepository) FindAllWhereHomeLocationIsNull(ctx context.Context) ([]domain.User, error) {
	return r.findBy(ctx, relational.IsNull("home_location_id"))
}
