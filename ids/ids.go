// Package ids mints the time-ordered, lexicographically sortable
// identifiers used for folders, items, columns and file records, plus
// unordered random tokens (Random).
package ids

import (
	"crypto/rand"
	"math/big"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(newLockedReader(), 0)
)

// lockedReader serializes access to a crypto/rand-backed io.Reader so the
// monotonic ULID source can be shared across goroutines.
type lockedReader struct {
	mu sync.Mutex
}

func newLockedReader() *lockedReader { return &lockedReader{} }

func (r *lockedReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return rand.Read(p)
}

// New mints a fresh time-ordered id. Ids minted in sequence from the same
// process sort lexicographically in mint order, which is what backs the
// "item ids are time-ordered" invariant.
func New() string {
	mu.Lock()
	defer mu.Unlock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	return id.String()
}

// Random returns a unique token with no ordering guarantee. Nothing in this
// module calls it: placeholder identities come from identity.New and file
// blob names from the file record's ids.New id.
func Random() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1<<62))
	if err != nil {
		// crypto/rand failure is not recoverable; fall back to a
		// time-derived value rather than panic.
		return New()
	}
	return n.String()
}
