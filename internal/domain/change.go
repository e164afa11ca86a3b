package domain

import "time"

type ChangeAction string

const (
	ChangeCreated ChangeAction = "created"
	ChangeUpdated ChangeAction = "updated"
	ChangeDeleted ChangeAction = "deleted"
)

// Change is broadcast after every successful write.
type Change struct {
	Entity    string       `json:"entity"`
	Action    ChangeAction `json:"action"`
	ID        int64        `json:"id"`
	Timestamp time.Time    `json:"timestamp"`
}
