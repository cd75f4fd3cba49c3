package queuefile

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/courier/internal/core/ports"
)

const NodeID graft.ID = "adapter.queue_store"

func init() {
	graft.Register(graft.Node[ports.QueueStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.QueueStore, error) {
			return New(), nil
		},
	})
}
