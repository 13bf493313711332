package storage

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/flatcolina/sincbook/internal/storage/models"
)

// ReservationRepository provides data access for pre-reservation records.
type ReservationRepository struct {
	BaseRepository
}

// NewReservationRepository creates a new reservation repository.
func NewReservationRepository(client *Client, collection string) *ReservationRepository {
	return &ReservationRepository{
		BaseRepository: NewBaseRepository(client, collection),
	}
}

// Exists reports whether a reservation matching all three identity fields is
// already stored. With deterministic document keys this is an optimization
// that lets unchanged bookings skip the write transaction; correctness does
// not depend on it.
func (r *ReservationRepository) Exists(ctx context.Context, propertyID, sourceCode, origin string) (bool, error) {
	iter := r.Collection().
		Where("propertyId", "==", propertyID).
		Where("sourceReservationCode", "==", sourceCode).
		Where("origin", "==", origin).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	_, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return false, nil
	}
	if err != nil {
		return false, &DuplicateCheckError{PropertyID: propertyID, Code: sourceCode, Err: err}
	}

	return true, nil
}

// Upsert writes a reservation under its deterministic document key and
// reports whether the document was created. The write runs in a transaction
// so concurrent sync runs cannot race the existence check: the record is
// created with a server-assigned createdAt when absent, and merge-written
// otherwise without touching createdAt or status (those belong to the
// record's lifecycle, not to the feed).
func (r *ReservationRepository) Upsert(ctx context.Context, res *models.Reservation) (bool, error) {
	ref := r.Collection().Doc(res.DocID())

	var created bool
	err := r.Client().fs.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		created = false

		_, err := tx.Get(ref)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}

		if status.Code(err) == codes.NotFound {
			created = true
			return tx.Set(ref, map[string]any{
				"propertyId":            res.PropertyID,
				"origin":                res.Origin,
				"sourceReservationCode": res.SourceReservationCode,
				"guestName":             res.GuestName,
				"checkinDate":           res.CheckinDate,
				"checkoutDate":          res.CheckoutDate,
				"nightCount":            res.NightCount,
				"status":                res.Status,
				"createdAt":             firestore.ServerTimestamp,
				"updatedAt":             firestore.ServerTimestamp,
			})
		}

		return tx.Set(ref, map[string]any{
			"guestName":    res.GuestName,
			"checkinDate":  res.CheckinDate,
			"checkoutDate": res.CheckoutDate,
			"nightCount":   res.NightCount,
			"updatedAt":    firestore.ServerTimestamp,
		}, firestore.MergeAll)
	})
	if err != nil {
		return false, &WriteError{DocID: res.DocID(), Err: err}
	}

	return created, nil
}
