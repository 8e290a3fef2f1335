// Package security provides unique id generation utilities
package security

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

// GenerateULID generates a new ULID string. Ids generated within the same
// millisecond are strictly increasing.
func GenerateULID() string {
	return GenerateULIDAt(time.Now())
}

// GenerateULIDAt generates a ULID carrying the given timestamp.
func GenerateULIDAt(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// ULIDTime extracts the timestamp of a ULID string.
func ULIDTime(id string) (time.Time, bool) {
	parsed, err := ulid.ParseStrict(id)
	if err != nil {
		return time.Time{}, false
	}
	return ulid.Time(parsed.Time()), true
}
