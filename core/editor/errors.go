package editor

import (
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

var (
	ErrComponentNotFound = errors.New("component not found")
	ErrInvalidRange      = errors.New("index out of range")
	ErrGestureActive     = errors.New("a drag gesture is already active")
	ErrNoGesture         = errors.New("no active drag gesture")
	ErrInvalidDraggable  = errors.New("invalid draggable")
	ErrInvalidDevice     = errors.New("invalid device view")
	ErrSessionNotFound   = core.NewNotFoundError("editor session")
)
