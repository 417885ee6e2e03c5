package storage

import "context"

// Store persists uploaded media and returns a public-relative URL path for
// the stored object.
type Store interface {
	Save(ctx context.Context, name string, contentType string, data []byte) (string, error)
}
