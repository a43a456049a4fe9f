package googlecalendar

import (
	"cmp"
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/calendar/v3"

	"github.com/leofalp/aigotools/core/paginate"
	"github.com/leofalp/aigotools/internal/gapi"
)

const (
	// MaxPageSize is the largest page Events.list and CalendarList.list serve.
	MaxPageSize = 250

	defaultCalendarID         = "primary"
	defaultListEvents         = 10
	defaultListCalendars      = 200
	defaultListCalendarEvents = 20
)

func (c *Client) eventsSource(calendarID string, in ListEventsInput) paginate.Source[*calendar.Event] {
	source := paginate.SourceFunc[*calendar.Event](func(ctx context.Context, req paginate.PageRequest) (*paginate.Page[*calendar.Event], error) {
		call := c.service.Events.List(calendarID).
			MaxResults(int64(req.Size)).
			ShowHiddenInvitations(in.ShowHidden).
			ShowDeleted(in.ShowDeleted).
			Context(ctx)
		if in.TimeMin != "" {
			call = call.TimeMin(in.TimeMin)
		}
		if in.TimeMax != "" {
			call = call.TimeMax(in.TimeMax)
		}
		if req.Token != "" {
			call = call.PageToken(req.Token)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("error listing events of %s: %w", calendarID, err)
		}
		return &paginate.Page[*calendar.Event]{Items: resp.Items, NextToken: resp.NextPageToken}, nil
	})
	return gapi.WithRetry[*calendar.Event](source, c.retry)
}

// ListEvents returns up to TotalResults events of a calendar in API format.
func (c *Client) ListEvents(ctx context.Context, in ListEventsInput) (ListEventsOutput, error) {
	calendarID := cmp.Or(in.CalendarID, defaultCalendarID)
	total := in.TotalResults
	if total <= 0 {
		total = defaultListEvents
	}

	res, err := paginate.Aggregate(ctx, c.eventsSource(calendarID, in), passEvent, paginate.Request{
		TargetCount: total,
		PageSizeCap: MaxPageSize,
	}, c.aggregateOptions("googlecalendar.events")...)
	if err != nil {
		return ListEventsOutput{}, err
	}

	events := res.Records
	if events == nil {
		events = []*calendar.Event{}
	}
	return ListEventsOutput{CalendarID: calendarID, Count: len(events), Events: events}, nil
}

// ListCalendarEvents returns up to MaxResults events of a calendar in
// compact form.
func (c *Client) ListCalendarEvents(ctx context.Context, in ListCalendarEventsInput) (ListCalendarEventsOutput, error) {
	if strings.TrimSpace(in.CalendarID) == "" {
		return ListCalendarEventsOutput{}, fmt.Errorf("calendar_id is required")
	}
	total := in.MaxResults
	if total <= 0 {
		total = defaultListCalendarEvents
	}

	res, err := paginate.Aggregate(ctx, c.eventsSource(in.CalendarID, ListEventsInput{}), toEvent, paginate.Request{
		TargetCount: total,
		PageSizeCap: MaxPageSize,
	}, c.aggregateOptions("googlecalendar.events")...)
	if err != nil {
		return ListCalendarEventsOutput{}, err
	}

	events := res.Records
	if events == nil {
		events = []Event{}
	}
	return ListCalendarEventsOutput{CalendarID: in.CalendarID, Count: len(events), Events: events}, nil
}

// ListCalendars returns the calendars in the user's calendar list.
func (c *Client) ListCalendars(ctx context.Context, in ListCalendarsInput) (ListCalendarsOutput, error) {
	total := in.MaxResults
	if total <= 0 {
		total = defaultListCalendars
	}

	source := paginate.SourceFunc[*calendar.CalendarListEntry](func(ctx context.Context, req paginate.PageRequest) (*paginate.Page[*calendar.CalendarListEntry], error) {
		call := c.service.CalendarList.List().MaxResults(int64(req.Size)).Context(ctx)
		if req.Token != "" {
			call = call.PageToken(req.Token)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("error listing calendars: %w", err)
		}
		return &paginate.Page[*calendar.CalendarListEntry]{Items: resp.Items, NextToken: resp.NextPageToken}, nil
	})

	res, err := paginate.Aggregate(ctx, gapi.WithRetry[*calendar.CalendarListEntry](source, c.retry), toCalendarInfo, paginate.Request{
		TargetCount: total,
		PageSizeCap: MaxPageSize,
	}, c.aggregateOptions("googlecalendar.calendars")...)
	if err != nil {
		return ListCalendarsOutput{}, err
	}

	calendars := res.Records
	if calendars == nil {
		calendars = []CalendarInfo{}
	}
	return ListCalendarsOutput{Count: len(calendars), Calendars: calendars}, nil
}

// CreateCalendar creates a secondary calendar.
func (c *Client) CreateCalendar(ctx context.Context, in CreateCalendarInput) (CalendarInfo, error) {
	if strings.TrimSpace(in.Name) == "" {
		return CalendarInfo{}, fmt.Errorf("name is required")
	}

	created, err := c.service.Calendars.Insert(&calendar.Calendar{
		Summary:     in.Name,
		Description: in.Description,
		TimeZone:    in.TimeZone,
	}).Context(ctx).Do()
	if err != nil {
		return CalendarInfo{}, fmt.Errorf("error creating calendar %q: %w", in.Name, err)
	}
	return CalendarInfo{ID: created.Id, Name: created.Summary, Description: created.Description, TimeZone: created.TimeZone}, nil
}

// InsertEvent adds an event to a calendar.
func (c *Client) InsertEvent(ctx context.Context, in InsertEventInput) (Event, error) {
	if strings.TrimSpace(in.Summary) == "" {
		return Event{}, fmt.Errorf("summary is required")
	}
	if in.Start == "" || in.End == "" {
		return Event{}, fmt.Errorf("start and end are required")
	}
	calendarID := cmp.Or(in.CalendarID, defaultCalendarID)

	event := &calendar.Event{
		Summary:     in.Summary,
		Description: in.Description,
		Location:    in.Location,
		Start:       eventTime(in.Start, in.TimeZone),
		End:         eventTime(in.End, in.TimeZone),
	}
	for _, email := range in.Attendees {
		event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: email})
	}

	created, err := c.service.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return Event{}, fmt.Errorf("error creating event in %s: %w", calendarID, err)
	}
	return toEvent(created)
}
