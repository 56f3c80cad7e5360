// Package identity supplies the ambient user id stamped onto CreatedBy and
// LastModifiedBy columns. The store has no authentication (see spec
// Non-goals): a single placeholder identity is injected per Engine and used
// for every write, the way the teacher's auth package injected a fixed
// Auth method when authentication was disabled.
package identity

import (
	uuid "github.com/satori/go.uuid"
)

// Identity names the ambient actor attributed to writes.
type Identity struct {
	UserID string
}

// New mints a fresh placeholder identity. Called once per Engine; every
// write during that Engine's lifetime is attributed to the same UserID,
// matching the spec's "a placeholder identity is injected" Non-goal.
func New() Identity {
	return Identity{UserID: uuid.NewV4().String()}
}

// Named returns a fixed identity, useful for tests that want a stable
// CreatedBy/LastModifiedBy value.
func Named(userID string) Identity {
	return Identity{UserID: userID}
}
