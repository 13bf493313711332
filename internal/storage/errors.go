package storage

import "fmt"

// ConfigLoadError reports a failure to read the feed configuration
// collection. It is the only storage failure that aborts a whole sync run.
type ConfigLoadError struct {
	Collection string
	Err        error
}

func (e *ConfigLoadError) Error() string {
	return fmt.Sprintf("loading feed configs from %q: %v", e.Collection, e.Err)
}

func (e *ConfigLoadError) Unwrap() error { return e.Err }

// DuplicateCheckError reports a failed existence query. Callers treat the
// record as not a duplicate: attempting a duplicate write is preferred over
// silently dropping a new booking.
type DuplicateCheckError struct {
	PropertyID string
	Code       string
	Err        error
}

func (e *DuplicateCheckError) Error() string {
	return fmt.Sprintf("checking reservation %s/%s: %v", e.PropertyID, e.Code, e.Err)
}

func (e *DuplicateCheckError) Unwrap() error { return e.Err }

// WriteError reports a failed reservation write. The record is skipped and
// the run continues with the next event.
type WriteError struct {
	DocID string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing reservation %s: %v", e.DocID, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
