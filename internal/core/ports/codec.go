package ports

import "go.trai.ch/courier/internal/core/domain"

// Decoder turns stored command parameters into a traversable value tree.
//
//go:generate go run go.uber.org/mock/mockgen -source=codec.go -destination=mocks/mock_codec.go -package=mocks
type Decoder interface {
	// Decode converts a stored parameter map into a domain.Map.
	// References to objects that already have a server id decode as domain.Pointer,
	// references by local id as *domain.Placeholder.
	Decode(parameters map[string]any) (domain.Map, error)
}

// Encoder turns a value tree back into stored command parameters.
type Encoder interface {
	// Encode converts a domain.Map into its stored form.
	// Resolved placeholders are written as server pointers, unresolved ones as local id tokens.
	// It returns an error wrapping domain.ErrEncodingFailure when a value cannot be represented.
	Encode(tree domain.Map) (map[string]any, error)
}
