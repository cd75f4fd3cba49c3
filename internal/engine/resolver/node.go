package resolver

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/courier/internal/adapters/codec"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/courier/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/courier/internal/core/ports"
)

// NodeID is the unique identifier for the resolver factory Graft node.
const NodeID graft.ID = "engine.resolver"

// Factory builds a Resolver for a LocalIDStore opened at run time.
type Factory struct {
	dec ports.Decoder
	enc ports.Encoder
	log ports.Logger
}

// NewFactory creates a new Factory.
func NewFactory(dec ports.Decoder, enc ports.Encoder, log ports.Logger) *Factory {
	return &Factory{dec: dec, enc: enc, log: log}
}

// New creates a Resolver backed by store.
func (f *Factory) New(store ports.LocalIDStore) *Resolver {
	return New(store, f.dec, f.enc, f.log)
}

func init() {
	graft.Register(graft.Node[*Factory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			codec.DecoderNodeID,
			codec.EncoderNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Factory, error) {
			dec, err := graft.Dep[ports.Decoder](ctx)
			if err != nil {
				return nil, err
			}

			enc, err := graft.Dep[ports.Encoder](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewFactory(dec, enc, log), nil
		},
	})
}
