package records

import "context"

// Keys of the records MJ36 persists.
const (
	KeyAppData   = "app_data"
	KeySession   = "session"
	KeyLockState = "lock_state"

	// KeySessionSecret holds the generated session signing key when none is
	// configured.
	KeySessionSecret = "session_secret"
)

// UpdateFunc receives the current value (nil when absent) and returns the
// value to store. Returning an error aborts the update and leaves the record
// untouched.
type UpdateFunc func(current []byte) ([]byte, error)

type Repository interface {
	// Get returns (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete is idempotent.
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
	// Update atomically replaces the value of key with fn(current).
	Update(ctx context.Context, key string, fn UpdateFunc) error
}
