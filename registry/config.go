package registry

import "time"

// Default values for the registry. If the values are not set, these values
// are used.
const (
	DefaultRoomTTL      = 10 * time.Minute
	DefaultReapInterval = time.Minute
)

// maxCreateRetries bounds room id regeneration on collision.
const maxCreateRetries = 5

// Config contains the configuration for the registry.
type Config struct {
	// RoomTTL is how long an abandoned room may linger before it is reaped.
	RoomTTL time.Duration

	// ReapInterval is how often abandoned rooms are swept.
	ReapInterval time.Duration
}
