// Package calendar provides iCal feed fetching, parsing, and reservation
// synchronization.
package calendar

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/flatcolina/sincbook/internal/storage/models"
)

// DefaultFetchTimeout bounds a single feed download.
const DefaultFetchTimeout = 10 * time.Second

// Parser fetches and parses iCal/ICS calendar feeds.
type Parser struct {
	httpClient *http.Client
}

// NewParser creates a new iCal parser with the given fetch timeout.
func NewParser(timeout time.Duration) *Parser {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Parser{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchAndParse downloads and parses an iCal feed from a URL. Network
// errors, timeouts, and non-2xx statuses return a FetchError.
func (p *Parser) FetchAndParse(ctx context.Context, url string) ([]models.CalendarEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("feed returned status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	slog.DebugContext(ctx, "fetched calendar feed", "url", url, "bytes", len(body))

	return p.Parse(strings.NewReader(string(body)))
}

// Parse reads and parses iCal data from a reader, preserving feed order.
// A calendar that does not parse at all returns a ParseError; a malformed
// individual VEVENT is skipped with a warning so one bad event cannot drop
// a feed's remaining bookings.
func (p *Parser) Parse(r io.Reader) ([]models.CalendarEvent, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	vevents := cal.Events()
	events := make([]models.CalendarEvent, 0, len(vevents))
	for _, ve := range vevents {
		event, err := parseVEvent(ve)
		if err != nil {
			slog.Warn("skipping malformed calendar event", "uid", event.UID, "error", err)
			continue
		}
		events = append(events, event)
	}

	return events, nil
}

// parseVEvent extracts the fields a reservation needs from one VEVENT.
// An absent date property yields a zero time (the mapper decides what to do
// with it); a present but unparseable one makes the event malformed.
func parseVEvent(ve *ics.VEvent) (models.CalendarEvent, error) {
	var event models.CalendarEvent

	if p := ve.GetProperty(ics.ComponentPropertyUniqueId); p != nil {
		event.UID = p.Value
	}
	if p := ve.GetProperty(ics.ComponentPropertySummary); p != nil {
		event.Summary = unescapeText(p.Value)
	}
	if p := ve.GetProperty(ics.ComponentPropertyDescription); p != nil {
		event.Description = unescapeText(p.Value)
	}

	start, err := dateValue(ve, ics.ComponentPropertyDtStart)
	if err != nil {
		return event, fmt.Errorf("DTSTART: %w", err)
	}
	end, err := dateValue(ve, ics.ComponentPropertyDtEnd)
	if err != nil {
		return event, fmt.Errorf("DTEND: %w", err)
	}

	event.Start = start
	event.End = end
	return event, nil
}

func dateValue(ve *ics.VEvent, prop ics.ComponentProperty) (time.Time, error) {
	p := ve.GetProperty(prop)
	if p == nil || p.Value == "" {
		return time.Time{}, nil
	}
	return NormalizeDate(p.Value)
}

// icalDateFormats covers the date and date-time shapes seen in platform
// feeds. Longer layouts come first so a bare-date layout does not shadow a
// date-time value.
var icalDateFormats = []string{
	"20060102T150405Z",
	"20060102T150405",
	"20060102",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// NormalizeDate parses an iCal date or date-time value and truncates it to
// its calendar date at UTC midnight. Reservations are day-granular: a
// check-in of 2024-03-10T14:00:00Z and a bare 20240310 are the same day.
func NormalizeDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range icalDateFormats {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date value %q", value)
}

// unescapeText reverses the iCal text escaping rules (RFC 5545 §3.3.11).
func unescapeText(value string) string {
	value = strings.ReplaceAll(value, `\n`, "\n")
	value = strings.ReplaceAll(value, `\,`, ",")
	value = strings.ReplaceAll(value, `\;`, ";")
	value = strings.ReplaceAll(value, `\\`, `\`)
	return value
}
