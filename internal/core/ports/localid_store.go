// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/courier/internal/core/domain"
)

// LocalIDStore maps client-generated local ids to server-assigned object ids.
//
// Implementations must be safe for concurrent use: commands of one queue are
// resolved in parallel against the same store.
//
//go:generate go run go.uber.org/mock/mockgen -source=localid_store.go -destination=mocks/mock_localid_store.go -package=mocks
type LocalIDStore interface {
	// ObjectIDForLocalID returns the server id recorded for localID.
	// found is false when the object has not been created on the server yet.
	ObjectIDForLocalID(ctx context.Context, localID string) (objectID string, found bool, err error)

	// SetObjectID records the server id assigned to localID.
	SetObjectID(ctx context.Context, localID, objectID string) error

	// Close releases the resources held by the store.
	Close() error
}

// StoreOpener opens the LocalIDStore selected by the configuration.
type StoreOpener interface {
	// Open returns a store for the configured backend.
	// It returns an error wrapping domain.ErrUnknownStoreBackend for unknown backends.
	Open(ctx context.Context, cfg domain.StoreConfig) (LocalIDStore, error)
}
