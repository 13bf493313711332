package calendar

import (
	"strings"

	"github.com/flatcolina/sincbook/internal/storage/models"
)

// PlaceholderGuestName is used when a feed event carries no summary.
const PlaceholderGuestName = "Imported Guest"

// MapEvent converts a parsed calendar event into a pre-reservation draft
// for the given property and origin. It fails with a MappingError when the
// event is missing a usable check-in or check-out date.
func MapEvent(event models.CalendarEvent, propertyID, origin string) (*models.Reservation, error) {
	if event.Start.IsZero() || event.End.IsZero() {
		return nil, &MappingError{UID: event.UID, Reason: "missing check-in or check-out date"}
	}

	guestName := strings.TrimSpace(event.Summary)
	if guestName == "" {
		guestName = PlaceholderGuestName
	}

	checkin := event.Start.Format(models.DateLayout)
	checkout := event.End.Format(models.DateLayout)

	code := strings.TrimSpace(event.UID)
	if code == "" {
		// Best-effort fallback key, stable across reruns. Two bookings with
		// the same guest name and check-in date on a UID-less feed collide
		// and are treated as one; a known limitation of such feeds.
		code = guestName + "-" + checkin
	}

	// The night count is always recomputed from the two dates. Zero or
	// negative values are kept on the record for downstream validation to
	// flag; the sync itself does not reject them.
	nights := int(event.End.Sub(event.Start).Hours() / 24)

	return &models.Reservation{
		PropertyID:            propertyID,
		Origin:                origin,
		SourceReservationCode: code,
		GuestName:             guestName,
		CheckinDate:           checkin,
		CheckoutDate:          checkout,
		NightCount:            nights,
		Status:                models.StatusPendingValidation,
	}, nil
}
