// Package storage provides Firestore connectivity and data access.
package storage

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// Client wraps the Firestore connection with application-specific methods.
// It is constructed once per process and handed to every repository that
// needs storage access; there is no package-level client.
type Client struct {
	fs        *firestore.Client
	projectID string
}

// NewClient connects to Firestore for the given project. Credentials come
// either from an inline service-account JSON blob or from a key file path;
// the blob wins when both are set. When neither is set, the SDK falls back
// to application default credentials.
func NewClient(ctx context.Context, projectID string, credentialsJSON []byte, credentialsFile string) (*Client, error) {
	var opts []option.ClientOption
	switch {
	case len(credentialsJSON) > 0:
		opts = append(opts, option.WithCredentialsJSON(credentialsJSON))
	case credentialsFile != "":
		if _, err := os.Stat(credentialsFile); err != nil {
			return nil, fmt.Errorf("credentials file %q: %w", credentialsFile, err)
		}
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	fs, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to firestore: %w", err)
	}

	return &Client{fs: fs, projectID: projectID}, nil
}

// ProjectID returns the project the client is connected to.
func (c *Client) ProjectID() string {
	return c.projectID
}

// Close releases the underlying Firestore connection.
func (c *Client) Close() error {
	return c.fs.Close()
}
