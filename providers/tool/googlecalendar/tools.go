package googlecalendar

import (
	"google.golang.org/api/calendar/v3"

	"github.com/leofalp/aigotools/core/cost"
	"github.com/leofalp/aigotools/providers/tool"
)

var metrics = cost.ToolMetrics{
	Amount:                  0.0,
	Currency:                "USD",
	CostDescription:         "Google Calendar API quota",
	Accuracy:                0.99,
	AverageDurationInMillis: 400,
}

// NewTools returns every calendar tool bound to service.
func NewTools(service *calendar.Service, opts ...Option) []tool.GenericTool {
	c := New(service, opts...)
	return []tool.GenericTool{
		tool.NewTool[ListEventsInput, ListEventsOutput](
			"GoogleCalendarListEvents",
			c.ListEvents,
			tool.WithDescription("List events of a Google Calendar in full API format. Filter by time range with RFC3339 timestamps and optionally include hidden or deleted events."),
			tool.WithMetrics(metrics),
		),
		tool.NewTool[ListCalendarEventsInput, ListCalendarEventsOutput](
			"GoogleCalendarListCalendarEvents",
			c.ListCalendarEvents,
			tool.WithDescription("List events of a specific Google Calendar in compact form: title, time, location, status and attendees."),
			tool.WithMetrics(metrics),
		),
		tool.NewTool[ListCalendarsInput, ListCalendarsOutput](
			"GoogleCalendarListCalendars",
			c.ListCalendars,
			tool.WithDescription("List the calendars of the user with their id, name and description. Use the id with the other calendar tools."),
			tool.WithMetrics(metrics),
		),
		tool.NewTool[CreateCalendarInput, CalendarInfo](
			"GoogleCalendarCreateCalendar",
			c.CreateCalendar,
			tool.WithDescription("Create a new secondary Google Calendar."),
			tool.WithMetrics(metrics),
		),
		tool.NewTool[InsertEventInput, Event](
			"GoogleCalendarInsertEvent",
			c.InsertEvent,
			tool.WithDescription("Create an event in a Google Calendar. Start and end take an RFC3339 timestamp or a YYYY-MM-DD date for all-day events."),
			tool.WithMetrics(metrics),
		),
	}
}
