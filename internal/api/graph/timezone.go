package graph

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"
)

// windowsZones maps the groupware server's zone names to IANA identifiers.
var windowsZones = map[string]string{
	"W. Europe Standard Time":        "Europe/Berlin",
	"Central Europe Standard Time":   "Europe/Budapest",
	"Central European Standard Time": "Europe/Warsaw",
	"Romance Standard Time":          "Europe/Paris",
	"GMT Standard Time":              "Europe/London",
	"UTC":                            "UTC",
	"Coordinated Universal Time":     "UTC",
}

// ResolveZone maps a named zone to a location. Unknown names and zones
// missing from the host database resolve to time.Local.
func ResolveZone(name string) *time.Location {
	id, ok := windowsZones[name]
	if !ok {
		return time.Local
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		return time.Local
	}
	return loc
}

var errUnparsableTime = errors.New("unparsable date-time")

var (
	timedLayouts = []string{
		"2006-01-02T15:04:05.9999999",
		"2006-01-02T15:04:05",
		time.RFC3339Nano,
	}
	allDayLayouts = []string{
		time.DateOnly,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05.9999999",
	}
	dueLayouts = []string{
		"2006-01-02T15:04:05.9999999",
		"2006-01-02T15:04:05",
		time.DateOnly,
	}
)

// parseWallClock parses value as wall-clock time in loc, trying layouts in
// order. Layouts carrying an offset keep that offset.
func parseWallClock(value string, loc *time.Location, layouts []string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", errUnparsableTime, value)
}

// ParseEventTime resolves a calendar date-time to an instant. All-day
// values are midnight UTC regardless of zone.
func ParseEventTime(value, zone string, allDay bool) (time.Time, error) {
	if allDay {
		return parseWallClock(value, time.UTC, allDayLayouts)
	}
	return parseWallClock(value, ResolveZone(zone), timedLayouts)
}

// parseDue parses a task due date. A missing or unparsable value is no due
// date.
func parseDue(value string, loc *time.Location) *time.Time {
	if value == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return &t
	}
	t, err := parseWallClock(value, loc, dueLayouts)
	if err != nil {
		return nil
	}
	return &t
}
