package domain

const (
	MIMEMergePatchJSON = "application/merge-patch+json"
	MIMENDJSON         = "application/x-ndjson"
)

const (
	TotalCountHeader = "X-Total-Count"
	LinkHeader       = "Link"
)

// entity names used in alert headers and change events
const (
	LocationEntity   = "rfbLocation"
	UserEntity       = "rfbUser"
	EventEntity      = "rfbEvent"
	AttendanceEntity = "rfbEventAttendance"
)

const ChangeChannel = "rfb-changes"
