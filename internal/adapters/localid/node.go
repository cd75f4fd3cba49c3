package localid

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/courier/internal/core/ports"
)

const NodeID graft.ID = "adapter.localid_store_opener"

func init() {
	graft.Register(graft.Node[ports.StoreOpener]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.StoreOpener, error) {
			return NewOpener(), nil
		},
	})
}
