// Package googlecalendar exposes Google Calendar operations as tools.
//
// The package never handles credentials: callers pass an authenticated
// *calendar.Service to [New]. Listings are collected with the paginate
// aggregator following nextPageToken, at most 250 events or calendars per
// request.
package googlecalendar
