package editor

import (
	"strings"

	"github.com/google/uuid"
)

// IDFunc generates component identifiers. Mockable.
var IDFunc = NewID

// NewID returns a short opaque component identifier, eg. "comp-3f9a1c27b04e".
func NewID() string {
	return "comp-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// NewSessionID returns an editor session identifier.
func NewSessionID() string {
	return uuid.NewString()
}
