package storage

import (
	"cloud.google.com/go/firestore"
)

// BaseRepository provides the shared collection plumbing for the
// Firestore-backed repositories.
type BaseRepository struct {
	client     *Client
	collection string
}

// NewBaseRepository creates a base repository bound to one collection.
func NewBaseRepository(client *Client, collection string) BaseRepository {
	return BaseRepository{client: client, collection: collection}
}

// Collection returns the repository's collection reference.
func (r *BaseRepository) Collection() *firestore.CollectionRef {
	return r.client.fs.Collection(r.collection)
}

// CollectionName returns the name of the bound collection.
func (r *BaseRepository) CollectionName() string {
	return r.collection
}

// Client returns the underlying storage client.
func (r *BaseRepository) Client() *Client {
	return r.client
}
