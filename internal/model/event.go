package model

import (
	"sort"
	"time"
)

// VorstandEvent is a board calendar event with resolved instants.
type VorstandEvent struct {
	ID          string    `json:"id"`
	Subject     string    `json:"subject"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Location    string    `json:"location,omitempty"`
	BodyPreview string    `json:"bodyPreview,omitempty"`
	IsAllDay    bool      `json:"isAllDay"`
}

// SortEvents orders events by start ascending.
func SortEvents(events []VorstandEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
}

// SplitEvents separates upcoming from past events. All-day events count as
// upcoming until the day of their end has passed in loc; timed events until
// their end instant. Both results are sorted by start.
func SplitEvents(events []VorstandEvent, now time.Time, loc *time.Location) (future, past []VorstandEvent) {
	if loc == nil {
		loc = time.Local
	}
	today := startOfDay(now, loc)

	for _, e := range events {
		upcoming := !e.End.Before(now)
		if e.IsAllDay {
			upcoming = !startOfDay(e.End, loc).Before(today)
		}
		if upcoming {
			future = append(future, e)
		} else {
			past = append(past, e)
		}
	}

	SortEvents(future)
	SortEvents(past)
	return future, past
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
