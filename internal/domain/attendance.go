package domain

import "encoding/json"

// EventAttendance records a user attending an event. Both references may be nil.
type EventAttendance struct {
	ID             *int64     `json:"id"`
	AttendanceDate *LocalDate `json:"attendanceDate"`
	RfbEventID     *int64     `json:"rfbEventId"`
	RfbEvent       *Event     `json:"rfbEvent"`
	RfbUserID      *int64     `json:"rfbUserId"`
	RfbUser        *User      `json:"rfbUser"`
}

func (a EventAttendance) GetID() *int64 {
	return a.ID
}

func (a *EventAttendance) SetRfbEvent(e *Event) {
	a.RfbEvent = e
	if e == nil {
		a.RfbEventID = nil
		return
	}
	a.RfbEventID = e.ID
}

func (a *EventAttendance) SetRfbUser(u *User) {
	a.RfbUser = u
	if u == nil {
		a.RfbUserID = nil
		return
	}
	a.RfbUserID = u.ID
}

func (a EventAttendance) Merge(patch EventAttendance) EventAttendance {
	a.ID = pick(a.ID, patch.ID)
	a.AttendanceDate = pick(a.AttendanceDate, patch.AttendanceDate)
	if patch.RfbEventID != nil {
		a.RfbEventID = patch.RfbEventID
		a.RfbEvent = nil
	}
	if patch.RfbEvent != nil {
		a.SetRfbEvent(patch.RfbEvent)
	}
	if patch.RfbUserID != nil {
		a.RfbUserID = patch.RfbUserID
		a.RfbUser = nil
	}
	if patch.RfbUser != nil {
		a.SetRfbUser(patch.RfbUser)
	}
	return a
}

func (a *EventAttendance) UnmarshalJSON(data []byte) error {
	type plain EventAttendance
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = EventAttendance(p)
	if a.RfbEvent != nil {
		a.SetRfbEvent(a.RfbEvent)
	}
	if a.RfbUser != nil {
		a.SetRfbUser(a.RfbUser)
	}
	return nil
}
