// Package storage defines the engine's view of the external document store.
// Byte storage itself lives outside the engine; the engine only validates
// that a storage ref resolves before accepting a replacement.
package storage

import "context"

// Metadata describes an uploaded file.
type Metadata struct {
	FileName    string
	ContentType string
}

// DocumentStore is the external blob store the upload plumbing writes to.
type DocumentStore interface {
	Put(ctx context.Context, data []byte, meta Metadata) (string, error)
	Exists(ctx context.Context, storageRef string) (bool, error)
}
