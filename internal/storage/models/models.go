// Package models contains the domain models for the application.
package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// DateLayout is the storage format for calendar dates. Reservation dates are
// day-granular; no time-of-day or time zone is kept.
const DateLayout = "2006-01-02"

// Origin constants for the platforms that publish iCal feeds.
const (
	OriginBooking = "booking"
)

// FeedConfig represents one property's iCal feed subscription. Entries are
// owned by an external administrative surface; this service only reads them.
type FeedConfig struct {
	PropertyID    string `firestore:"propertyId" json:"property_id"`
	FeedURL       string `firestore:"feedUrl" json:"feed_url"`
	Origin        string `firestore:"origin" json:"origin"`
	PropertyLabel string `firestore:"propertyLabel" json:"property_label"`
	// Disabled entries stay in the collection but are skipped during sync.
	// An absent field means active.
	Disabled bool `firestore:"disabled" json:"disabled"`
}

// Valid reports whether the entry carries the fields a sync run needs.
func (c FeedConfig) Valid() bool {
	return c.PropertyID != "" && c.FeedURL != ""
}

// CalendarEvent represents a parsed VEVENT from an iCal feed. It is an
// intermediate value, never persisted.
type CalendarEvent struct {
	UID         string    `json:"uid"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}

// Reservation status constants. Only pending_validation is assigned here;
// the later transitions belong to the downstream validation workflow.
const (
	StatusPendingValidation = "pending_validation"
	StatusPending           = "pending"
	StatusConfirmed         = "confirmed"
)

// Reservation is a pre-reservation record imported from a platform feed.
// Dates are stored as YYYY-MM-DD strings (date-only semantics).
type Reservation struct {
	PropertyID            string    `firestore:"propertyId" json:"property_id"`
	Origin                string    `firestore:"origin" json:"origin"`
	SourceReservationCode string    `firestore:"sourceReservationCode" json:"source_reservation_code"`
	GuestName             string    `firestore:"guestName" json:"guest_name"`
	CheckinDate           string    `firestore:"checkinDate" json:"checkin_date"`
	CheckoutDate          string    `firestore:"checkoutDate" json:"checkout_date"`
	NightCount            int       `firestore:"nightCount" json:"night_count"`
	Status                string    `firestore:"status" json:"status"`
	CreatedAt             time.Time `firestore:"createdAt" json:"created_at"`
	UpdatedAt             time.Time `firestore:"updatedAt" json:"updated_at"`
}

// DocID derives the deterministic document identifier for a reservation.
// At most one document can exist per (propertyId, origin, sourceReservationCode)
// because the key is a pure function of those three fields. The code is
// digested since feed UIDs can be long and may contain characters that are
// not valid in a document path.
func (r *Reservation) DocID() string {
	sum := sha256.Sum256([]byte(r.SourceReservationCode))
	return r.PropertyID + "_" + r.Origin + "_" + hex.EncodeToString(sum[:8])
}

// SyncResult contains the outcome of syncing a single feed.
type SyncResult struct {
	PropertyID    string    `json:"property_id"`
	PropertyLabel string    `json:"property_label"`
	EventsFound   int       `json:"events_found"`
	Created       int       `json:"created"`
	Updated       int       `json:"updated"`
	Skipped       int       `json:"skipped"`
	Error         error     `json:"-"`
	SyncedAt      time.Time `json:"synced_at"`
}

// SyncRun aggregates the results of one whole sync pass across all feeds.
type SyncRun struct {
	RunID      string       `json:"run_id"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Results    []SyncResult `json:"results"`
}

// TotalCreated returns the number of records created across all feeds.
func (r *SyncRun) TotalCreated() int {
	n := 0
	for _, res := range r.Results {
		n += res.Created
	}
	return n
}

// TotalUpdated returns the number of records updated across all feeds.
func (r *SyncRun) TotalUpdated() int {
	n := 0
	for _, res := range r.Results {
		n += res.Updated
	}
	return n
}
