package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"maps"
	"slices"
)

// ClientRegistry is the static set of service clients allowed to use the
// client-credentials grant. It is read-only after construction.
type ClientRegistry struct {
	digests map[string][32]byte
	dummy   [32]byte
}

// NewClientRegistry copies clients; later changes to the map have no effect.
func NewClientRegistry(clients map[string]string) *ClientRegistry {
	r := &ClientRegistry{
		digests: make(map[string][32]byte, len(clients)),
		dummy:   sha256.Sum256([]byte("crituk:unknown-client")),
	}
	for id, secret := range clients {
		r.digests[id] = sha256.Sum256([]byte(secret))
	}
	return r
}

// IsValid reports whether secret is the registered secret for clientID.
// Unknown ids are compared against a dummy digest so both failure causes cost
// the same.
func (r *ClientRegistry) IsValid(clientID, secret string) bool {
	want, ok := r.digests[clientID]
	if !ok {
		want = r.dummy
	}
	got := sha256.Sum256([]byte(secret))
	match := subtle.ConstantTimeCompare(want[:], got[:]) == 1
	return ok && match && clientID != ""
}

// IDs returns the registered client ids, sorted.
func (r *ClientRegistry) IDs() []string {
	return slices.Sorted(maps.Keys(r.digests))
}
