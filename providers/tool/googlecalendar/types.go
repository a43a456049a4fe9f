package googlecalendar

import (
	"errors"

	"google.golang.org/api/calendar/v3"
)

var (
	errNilEvent    = errors.New("event is nil")
	errNilCalendar = errors.New("calendar entry has no id")
)

type ListEventsInput struct {
	CalendarID   string `json:"calendar_id,omitempty" jsonschema:"description=Calendar identifier (default: primary)"`
	TotalResults int    `json:"total_results,omitempty" jsonschema:"description=Maximum number of events to return (default: 10),minimum=1"`
	ShowHidden   bool   `json:"show_hidden,omitempty" jsonschema:"description=Include hidden invitations"`
	ShowDeleted  bool   `json:"show_deleted,omitempty" jsonschema:"description=Include deleted events"`
	TimeMin      string `json:"time_min,omitempty" jsonschema:"description=Lower bound for event end time as RFC3339 timestamp"`
	TimeMax      string `json:"time_max,omitempty" jsonschema:"description=Upper bound for event start time as RFC3339 timestamp"`
}

// ListEventsOutput carries the events exactly as the API returns them.
type ListEventsOutput struct {
	CalendarID string            `json:"calendar_id" jsonschema:"description=Calendar the events belong to"`
	Count      int               `json:"count" jsonschema:"description=Number of events returned"`
	Events     []*calendar.Event `json:"events" jsonschema:"description=Events in API format"`
}

type ListCalendarsInput struct {
	MaxResults int `json:"max_results,omitempty" jsonschema:"description=Maximum number of calendars to return (default: 200),minimum=1"`
}

type ListCalendarsOutput struct {
	Count     int            `json:"count" jsonschema:"description=Number of calendars returned"`
	Calendars []CalendarInfo `json:"calendars" jsonschema:"description=Calendars visible to the user"`
}

// CalendarInfo is the short form of a calendar.
type CalendarInfo struct {
	ID          string `json:"id" jsonschema:"description=Calendar identifier"`
	Name        string `json:"name" jsonschema:"description=Calendar title"`
	Description string `json:"description" jsonschema:"description=Calendar description"`
	TimeZone    string `json:"time_zone,omitempty" jsonschema:"description=Calendar time zone"`
}

type ListCalendarEventsInput struct {
	CalendarID string `json:"calendar_id" jsonschema:"description=Calendar identifier,required"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"description=Maximum number of events to return (default: 20),minimum=1"`
}

type ListCalendarEventsOutput struct {
	CalendarID string  `json:"calendar_id" jsonschema:"description=Calendar the events belong to"`
	Count      int     `json:"count" jsonschema:"description=Number of events returned"`
	Events     []Event `json:"events" jsonschema:"description=Events in compact form"`
}

// Event is the compact view of a calendar event.
type Event struct {
	ID          string   `json:"id" jsonschema:"description=Event identifier"`
	Summary     string   `json:"summary" jsonschema:"description=Event title"`
	Description string   `json:"description,omitempty" jsonschema:"description=Event description"`
	Location    string   `json:"location,omitempty" jsonschema:"description=Event location"`
	Start       string   `json:"start" jsonschema:"description=Start as RFC3339 timestamp or YYYY-MM-DD for all-day events"`
	End         string   `json:"end" jsonschema:"description=End as RFC3339 timestamp or YYYY-MM-DD for all-day events"`
	Status      string   `json:"status,omitempty" jsonschema:"description=confirmed or tentative or cancelled"`
	Link        string   `json:"link,omitempty" jsonschema:"description=Link to the event in Google Calendar"`
	Attendees   []string `json:"attendees,omitempty" jsonschema:"description=Attendee email addresses"`
}

type CreateCalendarInput struct {
	Name        string `json:"name" jsonschema:"description=Title of the new calendar,required"`
	Description string `json:"description,omitempty" jsonschema:"description=Description of the new calendar"`
	TimeZone    string `json:"time_zone,omitempty" jsonschema:"description=IANA time zone such as Europe/Rome"`
}

type InsertEventInput struct {
	CalendarID  string   `json:"calendar_id,omitempty" jsonschema:"description=Calendar identifier (default: primary)"`
	Summary     string   `json:"summary" jsonschema:"description=Event title,required"`
	Description string   `json:"description,omitempty" jsonschema:"description=Event description"`
	Location    string   `json:"location,omitempty" jsonschema:"description=Event location"`
	Start       string   `json:"start" jsonschema:"description=Start as RFC3339 timestamp or YYYY-MM-DD for an all-day event,required"`
	End         string   `json:"end" jsonschema:"description=End as RFC3339 timestamp or YYYY-MM-DD for an all-day event,required"`
	TimeZone    string   `json:"time_zone,omitempty" jsonschema:"description=IANA time zone of start and end"`
	Attendees   []string `json:"attendees,omitempty" jsonschema:"description=Email addresses to invite"`
}

func toCalendarInfo(e *calendar.CalendarListEntry) (CalendarInfo, error) {
	if e == nil || e.Id == "" {
		return CalendarInfo{}, errNilCalendar
	}
	return CalendarInfo{ID: e.Id, Name: e.Summary, Description: e.Description, TimeZone: e.TimeZone}, nil
}

func passEvent(e *calendar.Event) (*calendar.Event, error) {
	if e == nil {
		return nil, errNilEvent
	}
	return e, nil
}

func toEvent(e *calendar.Event) (Event, error) {
	if e == nil {
		return Event{}, errNilEvent
	}
	out := Event{
		ID:          e.Id,
		Summary:     e.Summary,
		Description: e.Description,
		Location:    e.Location,
		Start:       formatTime(e.Start),
		End:         formatTime(e.End),
		Status:      e.Status,
		Link:        e.HtmlLink,
	}
	for _, a := range e.Attendees {
		if a != nil && a.Email != "" {
			out.Attendees = append(out.Attendees, a.Email)
		}
	}
	return out, nil
}

func formatTime(t *calendar.EventDateTime) string {
	if t == nil {
		return ""
	}
	if t.DateTime != "" {
		return t.DateTime
	}
	return t.Date
}

// eventTime builds an EventDateTime from an RFC3339 timestamp or a date.
func eventTime(value, tz string) *calendar.EventDateTime {
	if len(value) == len("2006-01-02") {
		return &calendar.EventDateTime{Date: value, TimeZone: tz}
	}
	return &calendar.EventDateTime{DateTime: value, TimeZone: tz}
}
