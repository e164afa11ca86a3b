package domain

import "encoding/json"

type Event struct {
	ID            *int64     `json:"id"`
	EventDate     *LocalDate `json:"eventDate"`
	EventCode     *string    `json:"eventCode"`
	RfbLocationID *int64     `json:"rfbLocationId"`
	RfbLocation   *Location  `json:"rfbLocation"`
}

func (e Event) GetID() *int64 {
	return e.ID
}

// SetRfbLocation attaches the relation and keeps the foreign key in sync.
func (e *Event) SetRfbLocation(l *Location) {
	e.RfbLocation = l
	if l == nil {
		e.RfbLocationID = nil
		return
	}
	e.RfbLocationID = l.ID
}

func (e Event) Merge(patch Event) Event {
	e.ID = pick(e.ID, patch.ID)
	e.EventDate = pick(e.EventDate, patch.EventDate)
	e.EventCode = pick(e.EventCode, patch.EventCode)
	if patch.RfbLocationID != nil {
		e.RfbLocationID = patch.RfbLocationID
		e.RfbLocation = nil
	}
	if patch.RfbLocation != nil {
		e.SetRfbLocation(patch.RfbLocation)
	}
	return e
}

func (e *Event) UnmarshalJSON(data []byte) error {
	type plain Event
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = Event(p)
	if e.RfbLocation != nil {
		e.SetRfbLocation(e.RfbLocation)
	}
	return nil
}
