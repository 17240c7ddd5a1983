package shared

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a new ULID string.
// IDs generated within the same millisecond are strictly increasing.
func NewID() string {
	return NewIDAt(time.Now())
}

// NewIDAt returns a ULID using the given timestamp
func NewIDAt(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// IsValidID reports whether s is a well-formed ULID
func IsValidID(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}

// IDTime extracts the creation time encoded in a ULID
func IDTime(s string) (time.Time, error) {
	id, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(id.Time()), nil
}
