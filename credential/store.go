package credential

import (
	"context"
	"errors"
)

// ErrNoToken is an exported constant or variable used by the credential slot.
var ErrNoToken = errors.New("no token stored")

// DefaultSlot is the fixed name of the token slot. All bundled stores key
// their single value by it unless constructed with an explicit slot.
const DefaultSlot = "authToken"

// Store is the scoped accessor over the single persisted token string.
// All operations are synchronous and idempotent: Save overwrites any prior
// value, Clear is a no-op when nothing is stored, and Load returns
// [ErrNoToken] when the slot is empty.
type Store interface {
	Save(ctx context.Context, token string) error
	Load(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}
