package domain

import (
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

const localIDPrefix = "local_"

// NewLocalID generates a client-side identifier for an object without a server id.
func NewLocalID() string {
	return localIDPrefix + strings.ToLower(ulid.Make().String())
}

// IsLocalID reports whether id was generated by NewLocalID.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, localIDPrefix) && len(id) > len(localIDPrefix)
}

// NewOperationSetUUID generates an identifier for a batch of field mutations.
func NewOperationSetUUID() string {
	return uuid.NewString()
}
