package services

import (
	"fmt"
	"time"
)

// AutoStartMode selects when a running session is automatically stopped
// and a fresh one started.
type AutoStartMode int

const (
	AutoStartDisabled AutoStartMode = iota
	AutoStartOnLogin                // new session each time the player enters the world
	AutoStartHourly                 // reset at the top of every UTC hour
	AutoStartDaily                  // reset at the GW2 daily reset (00:00 UTC)
)

func ParseAutoStartMode(s string) (AutoStartMode, error) {
	switch s {
	case "", "disabled":
		return AutoStartDisabled, nil
	case "login":
		return AutoStartOnLogin, nil
	case "hourly":
		return AutoStartHourly, nil
	case "daily":
		return AutoStartDaily, nil
	}
	return AutoStartDisabled, fmt.Errorf("unknown auto-start mode %q", s)
}

func (m AutoStartMode) String() string {
	switch m {
	case AutoStartOnLogin:
		return "login"
	case AutoStartHourly:
		return "hourly"
	case AutoStartDaily:
		return "daily"
	default:
		return "disabled"
	}
}

// autoStartTracker watches the observations the restart triggers key on.
// All three signals are tracked on every cycle regardless of the active
// mode, so switching modes at runtime starts from a primed state instead
// of firing immediately.
type autoStartTracker struct {
	lastMapID  int
	hourPrimed bool
	lastHour   int
	dayPrimed  bool
	lastDay    int
}

// observe records one poll cycle's map id and time and reports whether the
// given mode's trigger fired.
//
// OnLogin fires only on the zero to non-zero map transition. Hourly and
// Daily prime silently on their first observation and fire on any change
// of the UTC hour-of-day or day-of-year afterwards.
func (t *autoStartTracker) observe(mode AutoStartMode, mapID int, now time.Time) bool {
	fired := false

	if t.lastMapID == 0 && mapID != 0 && mode == AutoStartOnLogin {
		fired = true
	}
	t.lastMapID = mapID

	hour := now.UTC().Hour()
	if !t.hourPrimed {
		t.hourPrimed = true
		t.lastHour = hour
	} else if hour != t.lastHour {
		if mode == AutoStartHourly {
			fired = true
		}
		t.lastHour = hour
	}

	day := now.UTC().YearDay()
	if !t.dayPrimed {
		t.dayPrimed = true
		t.lastDay = day
	} else if day != t.lastDay {
		if mode == AutoStartDaily {
			fired = true
		}
		t.lastDay = day
	}

	return fired
}
