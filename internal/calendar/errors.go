package calendar

import "fmt"

// FetchError reports a failed feed download. The feed contributes zero
// events for the run; sibling feeds are unaffected.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching calendar %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports calendar text that does not parse as iCalendar at all.
// Individual malformed events within a well-formed calendar are skipped
// instead, and never surface as a ParseError.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing calendar: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MappingError reports an event that cannot become a reservation draft.
// The event is skipped; the rest of the feed is unaffected.
type MappingError struct {
	UID    string
	Reason string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("mapping event %q: %s", e.UID, e.Reason)
}
