package config

// Courierfile represents the structure of the courier.yaml configuration file.
type Courierfile struct {
	Version string    `yaml:"version"`
	Store   *StoreDTO `yaml:"store"`
	Queue   *QueueDTO `yaml:"queue"`
}

// StoreDTO represents the local id store section.
type StoreDTO struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// QueueDTO represents the queue section.
type QueueDTO struct {
	Parallelism *int   `yaml:"parallelism"`
	DedupWindow string `yaml:"dedupWindow"`
}
