package domain

import "encoding/json"

type User struct {
	ID             *int64    `json:"id"`
	Username       *string   `json:"username"`
	HomeLocationID *int64    `json:"homeLocationId"`
	HomeLocation   *Location `json:"homeLocation"`
}

func (u User) GetID() *int64 {
	return u.ID
}

// SetHomeLocation attaches the relation and keeps the foreign key in sync.
func (u *User) SetHomeLocation(l *Location) {
	u.HomeLocation = l
	if l == nil {
		u.HomeLocationID = nil
		return
	}
	u.HomeLocationID = l.ID
}

func (u User) Merge(patch User) User {
	u.ID = pick(u.ID, patch.ID)
	u.Username = pick(u.Username, patch.Username)
	if patch.HomeLocationID != nil {
		u.HomeLocationID = patch.HomeLocationID
		u.HomeLocation = nil
	}
	if patch.HomeLocation != nil {
		u.SetHomeLocation(patch.HomeLocation)
	}
	return u
}

func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*u = User(p)
	if u.HomeLocation != nil {
		u.SetHomeLocation(u.HomeLocation)
	}
	return nil
}
