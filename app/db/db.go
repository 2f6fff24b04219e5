package db

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when object not found
var ErrNotFound error = errors.New("not found")

// GenerateID generates new uuid and encodes it to base64
func GenerateID() string {
	id := [16]byte(uuid.New())
	return base64.RawURLEncoding.EncodeToString(id[:])
}

// SlugKey returns short stable key for a slug, used where the slug itself
// may be too long (e.g. telegram callback data)
func SlugKey(slug string) string {
	sum := sha256.Sum256([]byte(slug))
	return hex.EncodeToString(sum[:8])
}
