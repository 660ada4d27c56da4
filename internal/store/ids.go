package store

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

const (
	PrefixModel    = "mdl"
	PrefixProperty = "prop"
)

// IDGen hands out ids that are unique across the workspace lifetime.
type IDGen interface {
	NewID(db *DB, prefix string) (string, error)
}

// RandomIDs is the default IDGen.
type RandomIDs struct{}

func (RandomIDs) NewID(db *DB, prefix string) (string, error) {
	for i := 0; i < 20; i++ {
		id, err := newRandomID(prefix)
		if err != nil {
			return "", err
		}
		if !idExists(db, id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique %s id", prefix)
}

// newRandomID returns prefix-<suffix> where suffix is 8 chars of base32 (lowercase, no padding).
// 8 chars base32 ~= 40 bits of space.
func newRandomID(prefix string) (string, error) {
	var b [5]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))
	return prefix + "-" + suffix, nil
}

func idExists(db *DB, id string) bool {
	if db == nil {
		return false
	}
	for _, m := range db.Models {
		if m.ID == id {
			return true
		}
		for _, p := range m.Properties {
			if p.ID == id {
				return true
			}
		}
	}
	for _, r := range db.RetiredIDs {
		if r == id {
			return true
		}
	}
	return false
}
