package logger

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/courier/internal/core/ports"
)

// NodeID provides the process-wide Logger, filtered by LevelEnv.
const NodeID graft.ID = "adapter.logger"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run:       runLoggerNode,
	})
}

func runLoggerNode(_ context.Context) (ports.Logger, error) {
	return NewWithLevel(os.Stderr, LevelFromEnv()), nil
}
