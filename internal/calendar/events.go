package calendar

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
)

// ErrEventNotFound reports that a referenced event no longer exists remotely.
var ErrEventNotFound = errors.New("google calendar event not found")

const primaryCalendar = "primary"

// Event is a single calendar event as read from Google Calendar.
type Event struct {
	ID          string     `json:"id"`
	Summary     string     `json:"summary"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	AllDay      bool       `json:"all_day"`
	Attendees   []string   `json:"attendees,omitempty"`
	Recurrence  []string   `json:"recurrence,omitempty"`
}

// EventInput carries the fields for creating an event.
type EventInput struct {
	Summary     string
	Description string
	Location    string
	StartTime   time.Time
	EndTime     time.Time
	Attendees   []string // Email addresses of attendees
	Recurrence  []string // RRULE strings
}

// EventPatch carries a partial update. Only non-nil fields are sent; every
// other field on the live event stays untouched remotely.
type EventPatch struct {
	Summary     *string
	Description *string
	Location    *string
	StartTime   *time.Time
	EndTime     *time.Time
	Attendees   *[]string
	Recurrence  *[]string
}

// IsEmpty reports whether the patch carries no fields at all.
func (p EventPatch) IsEmpty() bool {
	return p.Summary == nil && p.Description == nil && p.Location == nil &&
		p.StartTime == nil && p.EndTime == nil && p.Attendees == nil && p.Recurrence == nil
}

func parseGoogleEventTimes(item *calendar.Event, loc *time.Location) (time.Time, time.Time, bool, error) {
	if item == nil || item.Start == nil || item.End == nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("event is missing start or end")
	}

	// All-day events use Date instead of DateTime.
	if item.Start.Date != "" {
		startDate, err := time.ParseInLocation("2006-01-02", item.Start.Date, loc)
		if err != nil {
			return time.Time{}, time.Time{}, false, fmt.Errorf("failed to parse all-day start date: %w", err)
		}
		endDate, err := time.ParseInLocation("2006-01-02", item.End.Date, loc)
		if err != nil {
			return time.Time{}, time.Time{}, false, fmt.Errorf("failed to parse all-day end date: %w", err)
		}
		return startDate, endDate, true, nil
	}

	if item.Start.DateTime == "" || item.End.DateTime == "" {
		return time.Time{}, time.Time{}, false, fmt.Errorf("event datetime is missing")
	}

	startTime, err := time.Parse(time.RFC3339, item.Start.DateTime)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("failed to parse start datetime: %w", err)
	}
	endTime, err := time.Parse(time.RFC3339, item.End.DateTime)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("failed to parse end datetime: %w", err)
	}

	return startTime, endTime, false, nil
}

func eventFromItem(item *calendar.Event, loc *time.Location) (Event, error) {
	startTime, endTime, allDay, err := parseGoogleEventTimes(item, loc)
	if err != nil {
		return Event{}, err
	}

	attendees := make([]string, 0, len(item.Attendees))
	for _, attendee := range item.Attendees {
		if attendee != nil && attendee.Email != "" {
			attendees = append(attendees, attendee.Email)
		}
	}

	endCopy := endTime
	return Event{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		Location:    item.Location,
		StartTime:   startTime,
		EndTime:     &endCopy,
		AllDay:      allDay,
		Attendees:   attendees,
		Recurrence:  item.Recurrence,
	}, nil
}

// ListUpcoming returns events on the primary calendar within [timeMin, timeMax),
// ordered by start time ascending with recurring events expanded.
func (c *Client) ListUpcoming(maxResults int64, timeMin, timeMax time.Time) ([]Event, error) {
	svc := c.currentService()
	if svc == nil {
		return nil, ErrNotAuthenticated
	}
	if timeMax.Before(timeMin) {
		return nil, &RemoteError{Op: "list", Err: fmt.Errorf("invalid range: time_max is before time_min")}
	}

	var result []Event
	pageToken := ""
	nowLoc := time.Now().Location()

	for {
		call := svc.Events.List(primaryCalendar).
			TimeMin(timeMin.Format(time.RFC3339)).
			TimeMax(timeMax.Format(time.RFC3339)).
			MaxResults(maxResults).
			SingleEvents(true).
			ShowDeleted(false).
			OrderBy("startTime")
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		events, err := call.Do()
		if err != nil {
			return nil, &RemoteError{Op: "list", Err: err}
		}

		for _, item := range events.Items {
			if item == nil || item.Status == "cancelled" {
				continue
			}

			event, parseErr := eventFromItem(item, nowLoc)
			if parseErr != nil {
				// Skip malformed events rather than failing the whole request.
				continue
			}
			result = append(result, event)
		}

		if events.NextPageToken == "" || int64(len(result)) >= maxResults {
			break
		}
		pageToken = events.NextPageToken
	}

	if int64(len(result)) > maxResults {
		result = result[:maxResults]
	}
	return result, nil
}

// Insert creates a new event on the primary calendar and returns it.
func (c *Client) Insert(input EventInput) (*Event, error) {
	svc := c.currentService()
	if svc == nil {
		return nil, ErrNotAuthenticated
	}

	// RFC3339 format includes the offset, so Google Calendar can infer the timezone
	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Location:    input.Location,
		Start: &calendar.EventDateTime{
			DateTime: input.StartTime.Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: input.EndTime.Format(time.RFC3339),
		},
		Recurrence: input.Recurrence,
	}

	if len(input.Attendees) > 0 {
		attendees := make([]*calendar.EventAttendee, len(input.Attendees))
		for i, email := range input.Attendees {
			attendees[i] = &calendar.EventAttendee{Email: email}
		}
		event.Attendees = attendees
	}

	// SendUpdates sends notifications to attendees
	created, err := svc.Events.Insert(primaryCalendar, event).SendUpdates("all").Do()
	if err != nil {
		return nil, &RemoteError{Op: "insert", Err: err}
	}

	result, err := eventFromItem(created, time.Now().Location())
	if err != nil {
		return nil, &RemoteError{Op: "insert", Err: err}
	}
	return &result, nil
}

// Update applies a partial update to an event. Fields absent from the patch
// are not sent, so the remote values stay as they were.
func (c *Client) Update(eventID string, patch EventPatch) (*Event, error) {
	svc := c.currentService()
	if svc == nil {
		return nil, ErrNotAuthenticated
	}
	if eventID == "" {
		return nil, &RemoteError{Op: "update", Err: fmt.Errorf("event id is required")}
	}

	body := buildPatchBody(patch)

	updated, err := svc.Events.Patch(primaryCalendar, eventID, body).SendUpdates("all").Do()
	if err != nil {
		return nil, &RemoteError{Op: "update", Err: remoteOrNotFound(err)}
	}

	result, err := eventFromItem(updated, time.Now().Location())
	if err != nil {
		return nil, &RemoteError{Op: "update", Err: err}
	}
	return &result, nil
}

// buildPatchBody maps set patch fields onto the wire body. ForceSendFields
// keeps explicitly cleared strings from being dropped by the JSON encoder.
func buildPatchBody(patch EventPatch) *calendar.Event {
	body := &calendar.Event{}

	if patch.Summary != nil {
		body.Summary = *patch.Summary
		body.ForceSendFields = append(body.ForceSendFields, "Summary")
	}
	if patch.Description != nil {
		body.Description = *patch.Description
		body.ForceSendFields = append(body.ForceSendFields, "Description")
	}
	if patch.Location != nil {
		body.Location = *patch.Location
		body.ForceSendFields = append(body.ForceSendFields, "Location")
	}
	if patch.StartTime != nil {
		body.Start = &calendar.EventDateTime{DateTime: patch.StartTime.Format(time.RFC3339)}
	}
	if patch.EndTime != nil {
		body.End = &calendar.EventDateTime{DateTime: patch.EndTime.Format(time.RFC3339)}
	}
	if patch.Attendees != nil {
		attendees := make([]*calendar.EventAttendee, len(*patch.Attendees))
		for i, email := range *patch.Attendees {
			attendees[i] = &calendar.EventAttendee{Email: email}
		}
		body.Attendees = attendees
		body.ForceSendFields = append(body.ForceSendFields, "Attendees")
	}
	if patch.Recurrence != nil {
		body.Recurrence = *patch.Recurrence
		body.ForceSendFields = append(body.ForceSendFields, "Recurrence")
	}

	return body
}

// Delete removes an event from the primary calendar.
func (c *Client) Delete(eventID string) error {
	svc := c.currentService()
	if svc == nil {
		return ErrNotAuthenticated
	}
	if eventID == "" {
		return &RemoteError{Op: "delete", Err: fmt.Errorf("event id is required")}
	}

	if err := svc.Events.Delete(primaryCalendar, eventID).SendUpdates("all").Do(); err != nil {
		return &RemoteError{Op: "delete", Err: remoteOrNotFound(err)}
	}
	return nil
}

func remoteOrNotFound(err error) error {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) && (gErr.Code == http.StatusNotFound || gErr.Code == http.StatusGone) {
		return ErrEventNotFound
	}
	return err
}
