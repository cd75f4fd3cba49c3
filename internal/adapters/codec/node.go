package codec

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/courier/internal/core/ports"
)

const (
	CodecNodeID   graft.ID = "adapter.codec"
	DecoderNodeID graft.ID = "adapter.codec.decoder"
	EncoderNodeID graft.ID = "adapter.codec.encoder"
)

func init() {
	// Codec Node (Concrete implementation shared by Decoder and Encoder)
	graft.Register(graft.Node[*Codec]{
		ID:        CodecNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (*Codec, error) {
			return New(), nil
		},
	})

	graft.Register(graft.Node[ports.Decoder]{
		ID:        DecoderNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{CodecNodeID},
		Run: func(ctx context.Context) (ports.Decoder, error) {
			c, err := graft.Dep[*Codec](ctx)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
	})

	graft.Register(graft.Node[ports.Encoder]{
		ID:        EncoderNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{CodecNodeID},
		Run: func(ctx context.Context) (ports.Encoder, error) {
			c, err := graft.Dep[*Codec](ctx)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
	})
}
