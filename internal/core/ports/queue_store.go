package ports

import "go.trai.ch/courier/internal/core/domain"

// QueueStore persists a queue of pending commands.
//
//go:generate go run go.uber.org/mock/mockgen -source=queue_store.go -destination=mocks/mock_queue_store.go -package=mocks
type QueueStore interface {
	// Load reads the commands stored at path, in queue order.
	Load(path string) ([]*domain.Command, error)

	// Save writes the commands to path, replacing its content.
	Save(path string, commands []*domain.Command) error
}
