package limiter

import "time"

// Policy configures one endpoint's budget: at most Limit requests per
// client within each Window.
type Policy struct {
	Limit  int
	Window time.Duration
}

// Decision is the outcome of a rate-limit check. ResetAt is the absolute
// time the current window lapses; it may be slightly off when the counter
// expires between increment and TTL read, but Allowed never is.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Window    time.Duration
	ResetAt   time.Time
}
