package domain

// Location is a place where events are run on a fixed weekday.
type Location struct {
	ID           *int64  `json:"id"`
	LocationName *string `json:"locationName"`
	RunDayOfWeek *int    `json:"runDayOfWeek"`
}

func (l Location) GetID() *int64 {
	return l.ID
}

func (l Location) Merge(patch Location) Location {
	l.ID = pick(l.ID, patch.ID)
	l.LocationName = pick(l.LocationName, patch.LocationName)
	l.RunDayOfWeek = pick(l.RunDayOfWeek, patch.RunDayOfWeek)
	return l
}
