// Package countdown computes the time remaining until the next Christmas.
package countdown

import "time"

// Remaining is the broken-down time left until Target.
type Remaining struct {
	Days    int       `json:"days"`
	Hours   int       `json:"hours"`
	Minutes int       `json:"minutes"`
	Seconds int       `json:"seconds"`
	Target  time.Time `json:"target"`
}

// Target returns midnight of December 25 in now's location, rolling the year
// forward once the date has passed.
func Target(now time.Time) time.Time {
	christmas := time.Date(now.Year(), time.December, 25, 0, 0, 0, 0, now.Location())
	if now.After(christmas) {
		christmas = christmas.AddDate(1, 0, 0)
	}
	return christmas
}

// Until breaks the interval from now to the next Christmas into calendar units.
func Until(now time.Time) Remaining {
	target := Target(now)
	diff := target.Sub(now)
	return Remaining{
		Days:    int(diff / (24 * time.Hour)),
		Hours:   int(diff/time.Hour) % 24,
		Minutes: int(diff/time.Minute) % 60,
		Seconds: int(diff/time.Second) % 60,
		Target:  target,
	}
}
