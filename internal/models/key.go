package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidKey indicates a supplied identifier is not a well-formed key.
var ErrInvalidKey = errors.New("invalid key")

// Key is the opaque identifier shared by every entity kind. Referential
// fields store the Key of the referenced entity, never a copy of it.
type Key string

// NewKey generates a fresh globally unique key.
func NewKey() Key {
	return Key(uuid.NewString())
}

// ParseKey validates an externally supplied identifier. All key parsing in
// the service goes through this function.
func ParseKey(raw string) (Key, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidKey
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", ErrInvalidKey
	}
	return Key(id.String()), nil
}

// String returns the key's wire representation.
func (k Key) String() string { return string(k) }

// IsZero reports whether the key is unset.
func (k Key) IsZero() bool { return k == "" }
