package fridge

import (
	"time"

	"cloud.google.com/go/civil"
)

// Clock supplies the current local calendar date. Every freshness
// computation goes through one Clock so all call sites agree on "today".
type Clock interface {
	Today() civil.Date
}

// LocalClock reports today's date in Location. A nil Location means time.Local.
type LocalClock struct {
	Location *time.Location
	now      func() time.Time
}

// NewLocalClock returns a clock for the named IANA time zone. An empty name
// selects time.Local.
func NewLocalClock(timezone string) (*LocalClock, error) {
	if timezone == "" {
		return &LocalClock{Location: time.Local}, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &LocalClock{Location: loc}, nil
}

// Today returns the current calendar date in the clock's location.
func (c *LocalClock) Today() civil.Date {
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return civil.DateOf(now().In(loc))
}

// FixedClock always reports the same date.
type FixedClock civil.Date

func (c FixedClock) Today() civil.Date {
	return civil.Date(c)
}
