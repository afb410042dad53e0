package visitor

import (
	"time"

	"github.com/google/uuid"
)

// Visitor is one analytics row keyed by the client-supplied fingerprint.
// Repeated visits increment VisitCount and refresh LastSeen.
type Visitor struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Fingerprint string    `json:"fingerprint" db:"fingerprint"`
	IP          string    `json:"ip" db:"ip"`
	UserAgent   string    `json:"user_agent" db:"user_agent"`
	Device      string    `json:"device" db:"device"`
	Browser     string    `json:"browser" db:"browser"`
	OS          string    `json:"os" db:"os"`
	Country     string    `json:"country" db:"country"`
	City        string    `json:"city" db:"city"`
	VisitCount  int       `json:"visit_count" db:"visit_count"`
	FirstSeen   time.Time `json:"first_seen" db:"first_seen"`
	LastSeen    time.Time `json:"last_seen" db:"last_seen"`
}

// LogVisitRequest carries what the edge knows about the client. Device,
// browser and OS are derived from UserAgent by the service.
type LogVisitRequest struct {
	Fingerprint string
	IP          string
	UserAgent   string
	Country     string
	City        string
}
