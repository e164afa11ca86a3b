package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"testing"

	"github.com/totegamma/rfb-playground/internal/domain"
	"github.com/totegamma/rfb-playground/internal/infra/database"
	"github.com/totegamma/rfb-playground/internal/infra/relational"
)

type repos struct {
	locations   *LocationRepository
	users       *UserRepository
	events      *EventRepository
	attendances *AttendanceRepository
}

func newRepos(t *testing.T) repos {
	t.Helper()
	db, closer, err := database.NewSQLite(filepath.Join(t.TempDir(), "rfb.db"), 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(closer)

	if err := database.ApplySchema(db, database.DriverSQLite); err != nil {
		t.Fatalf("schema: %v", err)
	}
	ids, err := database.IdentityStrategy(database.DriverSQLite)
	if err != nil {
		t.Fatalf("identity: %v", err)
	}
	em := relational.NewEntityManager(db, ids, nil)

	return repos{
		locations:   NewLocationRepository(em),
		users:       NewUserRepository(em),
		events:      NewEventRepository(em),
		attendances: NewAttendanceRepository(em),
	}
}

func ptr[V any](v V) *V {
	return &v
}

func date(s string) *domain.LocalDate {
	d, err := domain.ParseLocalDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func TestLocationRoundTrip(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	saved, err := r.locations.Save(ctx, domain.Location{LocationName: ptr("Harbour"), RunDayOfWeek: ptr(3)})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == nil {
		t.Fatalf("expected id")
	}

	got, err := r.locations.FindByID(ctx, *saved.ID)
	if err != nil || got == nil {
		t.Fatalf("find: %v %v", got, err)
	}
	if *got.LocationName != "Harbour" || *got.RunDayOfWeek != 3 {
		t.Fatalf("unexpected location %+v", got)
	}
}

func TestUpdateReflectsChanges(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	saved, err := r.events.Save(ctx, domain.Event{EventDate: date("2024-01-01"), EventCode: ptr("A")})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	saved.EventCode = ptr("B")
	updated, err := r.events.Save(ctx, saved)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if *updated.ID != *saved.ID {
		t.Fatalf("id changed on update")
	}

	got, err := r.events.FindByID(ctx, *saved.ID)
	if err != nil || got == nil {
		t.Fatalf("find: %v %v", got, err)
	}
	if *got.EventCode != "B" || got.EventDate.String() != "2024-01-01" {
		t.Fatalf("unexpected event %+v", got)
	}
}

func TestSaveUnknownIDIsStale(t *testing.T) {
	r := newRepos(t)

	_, err := r.users.Save(context.Background(), domain.User{ID: ptr(int64(41)), Username: ptr("nobody")})
	if !errors.Is(err, domain.ErrStaleEntity) {
		t.Fatalf("expected stale entity, got %v", err)
	}
}

func TestPartialUpdate(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	saved, err := r.locations.Save(ctx, domain.Location{LocationName: ptr("Park"), RunDayOfWeek: ptr(6)})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	_, err = r.locations.PartialUpdate(ctx, domain.Location{ID: saved.ID})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	got, _ := r.locations.FindByID(ctx, *saved.ID)
	if *got.LocationName != "Park" || *got.RunDayOfWeek != 6 {
		t.Fatalf("id only patch changed fields: %+v", got)
	}

	_, err = r.locations.PartialUpdate(ctx, domain.Location{ID: saved.ID, RunDayOfWeek: ptr(2)})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	got, _ = r.locations.FindByID(ctx, *saved.ID)
	if *got.LocationName != "Park" || *got.RunDayOfWeek != 2 {
		t.Fatalf("expected only the weekday to change: %+v", got)
	}

	missing, err := r.locations.PartialUpdate(ctx, domain.Location{ID: ptr(int64(999)), RunDayOfWeek: ptr(1)})
	if err != nil || missing != nil {
		t.Fatalf("expected empty result for missing entity, got %v %v", missing, err)
	}
}

func TestEventJoinedRead(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	loc, err := r.locations.Save(ctx, domain.Location{LocationName: ptr("Quay"), RunDayOfWeek: ptr(5)})
	if err != nil {
		t.Fatalf("save location: %v", err)
	}
	located, err := r.events.Save(ctx, domain.Event{EventDate: date("2024-03-01"), EventCode: ptr("L"), RfbLocationID: loc.ID})
	if err != nil {
		t.Fatalf("save event: %v", err)
	}
	floating, err := r.events.Save(ctx, domain.Event{EventDate: date("2024-03-02"), EventCode: ptr("F")})
	if err != nil {
		t.Fatalf("save event: %v", err)
	}

	got, err := r.events.FindByID(ctx, *located.ID)
	if err != nil || got == nil {
		t.Fatalf("find: %v %v", got, err)
	}
	if got.RfbLocation == nil {
		t.Fatalf("expected location relation")
	}
	if *got.RfbLocation.ID != *loc.ID || *got.RfbLocation.LocationName != "Quay" || *got.RfbLocation.RunDayOfWeek != 5 {
		t.Fatalf("unexpected relation %+v", got.RfbLocation)
	}

	got, err = r.events.FindByID(ctx, *floating.ID)
	if err != nil || got == nil {
		t.Fatalf("find: %v %v", got, err)
	}
	if got.RfbLocation != nil {
		t.Fatalf("expected nil relation, got %+v", got.RfbLocation)
	}
	if *got.EventCode != "F" || got.EventDate.String() != "2024-03-02" {
		t.Fatalf("parent fields not populated: %+v", got)
	}

	byLocation, err := r.events.FindByRfbLocation(ctx, *loc.ID)
	if err != nil || len(byLocation) != 1 || *byLocation[0].ID != *located.ID {
		t.Fatalf("find by location: %v %v", byLocation, err)
	}
	orphans, err := r.events.FindAllWhereRfbLocationIsNull(ctx)
	if err != nil || len(orphans) != 1 || *orphans[0].ID != *floating.ID {
		t.Fatalf("find without location: %v %v", orphans, err)
	}
}

func TestUserHomeLocation(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	loc, _ := r.locations.Save(ctx, domain.Location{LocationName: ptr("Hill")})
	home, err := r.users.Save(ctx, domain.User{Username: ptr("bob"), HomeLocationID: loc.ID})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := r.users.Save(ctx, domain.User{Username: ptr("carol")}); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, _ := r.users.FindByID(ctx, *home.ID)
	if got.HomeLocation == nil || *got.HomeLocation.LocationName != "Hill" || got.HomeLocation.RunDayOfWeek != nil {
		t.Fatalf("unexpected home location %+v", got.HomeLocation)
	}

	byHome, err := r.users.FindByHomeLocation(ctx, *loc.ID)
	if err != nil || len(byHome) != 1 {
		t.Fatalf("find by home: %v %v", byHome, err)
	}
	homeless, err := r.users.FindAllWhereHomeLocationIsNull(ctx)
	if err != nil || len(homeless) != 1 || *homeless[0].Username != "carol" {
		t.Fatalf("find homeless: %v %v", homeless, err)
	}

	count, err := r.users.Count(ctx, nil)
	if err != nil || count != 2 {
		t.Fatalf("count: %d %v", count, err)
	}
}

func TestPagination(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	for i := range 7 {
		if _, err := r.locations.Save(ctx, domain.Location{RunDayOfWeek: ptr(i)}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	sort := []domain.Order{{Property: "runDayOfWeek", Direction: domain.Asc}}

	first, err := r.locations.FindAll(ctx, nil, domain.Pageable{Page: 0, Size: 3, Sort: sort})
	if err != nil {
		t.Fatalf("page 0: %v", err)
	}
	second, err := r.locations.FindAll(ctx, nil, domain.Pageable{Page: 1, Size: 3, Sort: sort})
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	third, err := r.locations.FindAll(ctx, nil, domain.Pageable{Page: 2, Size: 3, Sort: sort})
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(first) != 3 || len(second) != 3 || len(third) != 1 {
		t.Fatalf("unexpected page sizes %d %d %d", len(first), len(second), len(third))
	}

	seen := map[int64]bool{}
	for _, page := range [][]domain.Location{first, second, third} {
		for _, l := range page {
			if seen[*l.ID] {
				t.Fatalf("location %d on two pages", *l.ID)
			}
			seen[*l.ID] = true
		}
	}
	if len(seen) != 7 {
		t.Fatalf("expected union of 7, got %d", len(seen))
	}
	if *first[0].RunDayOfWeek != 0 || *third[0].RunDayOfWeek != 6 {
		t.Fatalf("sort not applied")
	}
}

func TestAttendanceScenario(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	alice, err := r.users.Save(ctx, domain.User{Username: ptr("alice")})
	if err != nil {
		t.Fatalf("save user: %v", err)
	}
	if *alice.ID != 1 {
		t.Fatalf("expected alice to get id 1, got %d", *alice.ID)
	}

	event, err := r.events.Save(ctx, domain.Event{EventDate: date("1970-01-01"), EventCode: ptr("A")})
	if err != nil {
		t.Fatalf("save event: %v", err)
	}
	if *event.ID != 2 {
		t.Fatalf("expected event to get id 2, got %d", *event.ID)
	}

	attendance, err := r.attendances.Save(ctx, domain.EventAttendance{RfbEventID: event.ID, RfbUserID: alice.ID})
	if err != nil {
		t.Fatalf("save attendance: %v", err)
	}

	got, err := r.attendances.FindByID(ctx, *attendance.ID)
	if err != nil || got == nil {
		t.Fatalf("find: %v %v", got, err)
	}
	if got.RfbUser == nil || *got.RfbUser.Username != "alice" {
		t.Fatalf("expected alice, got %+v", got.RfbUser)
	}
	if got.RfbEvent == nil || *got.RfbEvent.EventCode != "A" || got.RfbEvent.EventDate.String() != "1970-01-01" {
		t.Fatalf("expected event A, got %+v", got.RfbEvent)
	}

	if err := r.users.DeleteByID(ctx, *alice.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	got, err = r.attendances.FindByID(ctx, *attendance.ID)
	if err != nil || got == nil {
		t.Fatalf("attendance vanished after user delete: %v %v", got, err)
	}
	if got.RfbUser != nil {
		t.Fatalf("expected unresolved user, got %+v", got.RfbUser)
	}
	if got.RfbUserID == nil || *got.RfbUserID != *alice.ID {
		t.Fatalf("expected dangling foreign key to be kept")
	}
	if got.RfbEvent == nil {
		t.Fatalf("event relation lost")
	}

	byEvent, err := r.attendances.FindByRfbEvent(ctx, *event.ID)
	if err != nil || len(byEvent) != 1 {
		t.Fatalf("find by event: %v %v", byEvent, err)
	}
	byUser, err := r.attendances.FindByRfbUser(ctx, *alice.ID)
	if err != nil || len(byUser) != 1 {
		t.Fatalf("find by user: %v %v", byUser, err)
	}
	noUser, err := r.attendances.FindAllWhereRfbUserIsNull(ctx)
	if err != nil || len(noUser) != 0 {
		t.Fatalf("find without user: %v %v", noUser, err)
	}
	noEvent, err := r.attendances.FindAllWhereRfbEventIsNull(ctx)
	if err != nil || len(noEvent) != 0 {
		t.Fatalf("find without event: %v %v", noEvent, err)
	}
}

func TestDeleteAndExists(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	saved, _ := r.locations.Save(ctx, domain.Location{LocationName: ptr("Gone")})
	ok, err := r.locations.ExistsByID(ctx, *saved.ID)
	if err != nil || !ok {
		t.Fatalf("expected location to exist: %v", err)
	}

	if err := r.locations.DeleteByID(ctx, *saved.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := r.locations.DeleteByID(ctx, *saved.ID); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}

	ok, err = r.locations.ExistsByID(ctx, *saved.ID)
	if err != nil || ok {
		t.Fatalf("expected location to be gone: %v", err)
	}
	got, err := r.locations.FindByID(ctx, *saved.ID)
	if err != nil || got != nil {
		t.Fatalf("expected empty result, got %v %v", got, err)
	}
}

func TestStreamUsers(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	for _, name := range []string{"u1", "u2", "u3"} {
		if _, err := r.users.Save(ctx, domain.User{Username: ptr(name)}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	n := 0
	for u, err := range r.users.Stream(ctx, nil, domain.Unpaged()) {
		if err != nil {
			t.Fatalf("stream: %v", err)
		}
		if u.Username == nil {
			t.Fatalf("unexpected user %+v", u)
		}
		n++
	}
	if n != 3 {
		t.Fatalf("expected 3 users, got %d", n)
	}
}

func TestFindAllWithFilters(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	loc, err := r.locations.Save(ctx, domain.Location{LocationName: ptr("Quay")})
	if err != nil {
		t.Fatalf("save location: %v", err)
	}
	var ids []int64
	for _, e := range []domain.Event{
		{EventDate: date("2024-01-01"), EventCode: ptr("Q1"), RfbLocationID: loc.ID},
		{EventDate: date("2024-02-01"), EventCode: ptr("Q2")},
		{EventDate: date("2024-03-01"), EventCode: ptr("X3")},
	} {
		saved, err := r.events.Save(ctx, e)
		if err != nil {
			t.Fatalf("save event: %v", err)
		}
		ids = append(ids, *saved.ID)
	}

	codes := func(filters ...domain.Filter) []string {
		t.Helper()
		events, err := r.events.FindAll(ctx, filters, domain.Pageable{Sort: []domain.Order{{Property: "eventDate"}}})
		if err != nil {
			t.Fatalf("find %v: %v", filters, err)
		}
		out := []string{}
		for _, e := range events {
			out = append(out, *e.EventCode)
		}
		return out
	}

	cases := []struct {
		filters []domain.Filter
		want    []string
	}{
		{[]domain.Filter{{Property: "eventDate", Op: domain.FilterGreaterThan, Value: "2024-01-15"}}, []string{"Q2", "X3"}},
		{[]domain.Filter{{Property: "eventDate", Op: domain.FilterLessThanOrEqual, Value: "2024-02-01"}}, []string{"Q1", "Q2"}},
		{[]domain.Filter{{Property: "eventCode", Op: domain.FilterContains, Value: "Q"}}, []string{"Q1", "Q2"}},
		{[]domain.Filter{{Property: "eventCode", Op: domain.FilterNotEquals, Value: "Q1"}}, []string{"Q2", "X3"}},
		{[]domain.Filter{{Property: "id", Op: domain.FilterIn, Value: fmt.Sprintf("%d, %d", ids[0], ids[2])}}, []string{"Q1", "X3"}},
		{[]domain.Filter{{Property: "rfbLocationId", Op: domain.FilterSpecified, Value: "true"}}, []string{"Q1"}},
		{[]domain.Filter{{Property: "rfbLocationId", Op: domain.FilterSpecified, Value: "false"}}, []string{"Q2", "X3"}},
		{[]domain.Filter{
			{Property: "eventCode", Op: domain.FilterContains, Value: "Q"},
			{Property: "id", Op: domain.FilterGreaterThanOrEqual, Value: fmt.Sprint(ids[1])},
		}, []string{"Q2"}},
	}
	for _, tc := range cases {
		if got := codes(tc.filters...); !slices.Equal(got, tc.want) {
			t.Fatalf("%v: got %v want %v", tc.filters, got, tc.want)
		}
	}

	count, err := r.events.Count(ctx, []domain.Filter{{Property: "eventCode", Op: domain.FilterEquals, Value: "X3"}})
	if err != nil || count != 1 {
		t.Fatalf("count: %d %v", count, err)
	}

	for _, bad := range []domain.Filter{
		{Property: "eventDate", Op: domain.FilterEquals, Value: "yesterday"},
		{Property: "rfbLocationId", Op: domain.FilterContains, Value: "1"},
		{Property: "id", Op: domain.FilterIn, Value: "1,two"},
		{Property: "password", Op: domain.FilterEquals, Value: "x"},
	} {
		_, err := r.events.FindAll(ctx, []domain.Filter{bad}, domain.Unpaged())
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%v: expected validation error, got %v", bad, err)
		}
	}
}
