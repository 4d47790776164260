package fridge

import (
	"cloud.google.com/go/civil"
)

// Tier is the freshness classification of an item.
type Tier string

const (
	Fresh   Tier = "FRESH"
	Good    Tier = "GOOD"
	Urgent  Tier = "URGENT"
	Expired Tier = "EXPIRED"
)

const (
	urgentWithinDays = 2
	goodWithinDays   = 5
)

// Classify maps an optional expiration date to a tier relative to today.
// A missing date is treated as GOOD.
func Classify(expiration *civil.Date, today civil.Date) Tier {
	if expiration == nil {
		return Good
	}

	days := expiration.DaysSince(today)
	switch {
	case days < 0:
		return Expired
	case days <= urgentWithinDays:
		return Urgent
	case days <= goodWithinDays:
		return Good
	default:
		return Fresh
	}
}

// DaysUntil returns the number of days from today until the expiration date.
// ok is false when the item has no date.
func DaysUntil(expiration *civil.Date, today civil.Date) (days int, ok bool) {
	if expiration == nil {
		return 0, false
	}
	return expiration.DaysSince(today), true
}

// ParseTier returns the tier named by s, or Good when s is not a known tier.
func ParseTier(s string) Tier {
	switch t := Tier(s); t {
	case Fresh, Good, Urgent, Expired:
		return t
	}
	return Good
}
