package lazy

import "time"

// Op is a durable operation performed by the background writer.
type Op string

const (
	OpWrite  Op = "write"
	OpRemove Op = "remove"
)

// Hook observes durable outcomes that are otherwise invisible to callers.
// Written is called from the background writer; implementations must be
// safe for concurrent use and must not block.
type Hook interface {
	// Written is called once per durable operation; err is nil on success.
	Written(op Op, elapsed time.Duration, err error)
	// DecodeFailed is called when persisted data was discarded as malformed.
	DecodeFailed(err error)
	// Size is called with the registry size after it changed.
	Size(n int)
}

// NopHook ignores everything.
type NopHook struct{}

func (NopHook) Written(Op, time.Duration, error) {}
func (NopHook) DecodeFailed(error)               {}
func (NopHook) Size(int)                         {}
