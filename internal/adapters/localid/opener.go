package localid

import (
	"context"

	"go.trai.ch/courier/internal/core/domain"
	"go.trai.ch/courier/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.StoreOpener = (*Opener)(nil)

// Opener implements ports.StoreOpener for the json and sqlite backends.
type Opener struct{}

// NewOpener creates a new Opener.
func NewOpener() *Opener {
	return &Opener{}
}

// Open returns the store selected by cfg.Backend.
func (o *Opener) Open(ctx context.Context, cfg domain.StoreConfig) (ports.LocalIDStore, error) {
	switch cfg.Backend {
	case domain.StoreBackendJSON, "":
		store, err := NewStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case domain.StoreBackendSQLite:
		store, err := OpenSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownStoreBackend, "cannot open local id store"), "backend", string(cfg.Backend))
	}
}
