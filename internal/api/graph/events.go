package graph

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/julis-sh/mitgliederinfo/internal/api/rest"
	"github.com/julis-sh/mitgliederinfo/internal/model"
)

type dateTimeTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type location struct {
	DisplayName string `json:"displayName"`
}

type rawEvent struct {
	ID          string           `json:"id"`
	Subject     string           `json:"subject"`
	Start       dateTimeTimeZone `json:"start"`
	End         dateTimeTimeZone `json:"end"`
	IsAllDay    bool             `json:"isAllDay"`
	Location    *location        `json:"location"`
	BodyPreview string           `json:"bodyPreview"`
}

// FetchCalendarEvents returns every event of calendarID owned by user,
// sorted by start. Empty arguments select the configured board calendar.
func (c *Client) FetchCalendarEvents(ctx context.Context, token, calendarID, user string) ([]model.VorstandEvent, error) {
	if calendarID == "" {
		calendarID = c.cfg.CalendarID
	}
	if user == "" {
		user = c.cfg.CalendarUser
	}

	raw, err := collect[rawEvent](ctx, c, token, rest.Request{
		Path: "users/" + url.PathEscape(user) + "/calendars/" + url.PathEscape(calendarID) + "/events",
		Query: url.Values{
			"$orderby": {"start/dateTime asc"},
			"$top":     {strconv.Itoa(c.cfg.PageSize)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar events: %w", err)
	}

	events := make([]model.VorstandEvent, 0, len(raw))
	for _, r := range raw {
		e, err := c.toEvent(r)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch calendar events: %w", err)
		}
		events = append(events, e)
	}

	model.SortEvents(events)
	return events, nil
}

func (c *Client) toEvent(r rawEvent) (model.VorstandEvent, error) {
	start, err := c.eventTime(r.ID, r.Start, r.IsAllDay)
	if err != nil {
		return model.VorstandEvent{}, err
	}
	end, err := c.eventTime(r.ID, r.End, r.IsAllDay)
	if err != nil {
		return model.VorstandEvent{}, err
	}

	e := model.VorstandEvent{
		ID:          r.ID,
		Subject:     r.Subject,
		Start:       start,
		End:         end,
		BodyPreview: r.BodyPreview,
		IsAllDay:    r.IsAllDay,
	}
	if r.Location != nil {
		e.Location = r.Location.DisplayName
	}
	return e, nil
}

func (c *Client) eventTime(id string, dt dateTimeTimeZone, allDay bool) (time.Time, error) {
	t, err := ParseEventTime(dt.DateTime, dt.TimeZone, allDay)
	if err == nil {
		return t, nil
	}
	if !c.cfg.LenientDates {
		return time.Time{}, model.NewErrDecode(fmt.Errorf("event %s: %w", id, err))
	}

	c.logger.Warn("Graph client: unparsable event date, using current time",
		"event_id", id,
		"value", dt.DateTime,
		"time_zone", dt.TimeZone)
	return c.now(), nil
}
