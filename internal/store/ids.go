package store

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

// newRandomID returns prefix-<suffix> where suffix is 8 chars of base32
// (lowercase, no padding). 40 bits of space keeps collisions implausible
// for a single writer's workspace.
func newRandomID(prefix string) (string, error) {
	var b [5]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	return prefix + "-" + strings.ToLower(enc.EncodeToString(b[:])), nil
}

// NextID returns a fresh id with the given prefix (proj, char, ev, arc)
// that does not collide with any entity in db.
func (s Store) NextID(db *DB, prefix string) string {
	for i := 0; i < 20; i++ {
		id, err := newRandomID(prefix)
		if err != nil {
			break
		}
		if !idExists(db, id) {
			return id
		}
	}
	// crypto/rand failure or a run of collisions; fall back to a counter.
	n := len(db.Projects) + len(db.Characters) + len(db.Events) + len(db.Arcs)
	for {
		n++
		id := fmt.Sprintf("%s-%d", prefix, n)
		if !idExists(db, id) {
			return id
		}
	}
}

func idExists(db *DB, id string) bool {
	for _, p := range db.Projects {
		if p.ID == id {
			return true
		}
	}
	for _, c := range db.Characters {
		if c.ID == id {
			return true
		}
	}
	for _, e := range db.Events {
		if e.ID == id {
			return true
		}
	}
	for _, a := range db.Arcs {
		if a.ID == id {
			return true
		}
	}
	return false
}
