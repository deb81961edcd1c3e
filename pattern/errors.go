package pattern

import (
	"errors"
	"fmt"
)

// ErrCatchAllPlacement is returned when a catch-all or optional catch-all
// segment is followed by anything other than a single final index segment.
var ErrCatchAllPlacement = errors.New("catch-all must terminate the path")

// PlacementError describes a misplaced catch-all segment.
type PlacementError struct {
	// Path is the file path being compiled.
	Path string
	// Segment is the offending raw segment.
	Segment string
	// Optional is true for an optional catch-all.
	Optional bool
}

func (e *PlacementError) Error() string {
	kind := "catch-all"
	if e.Optional {
		kind = "optional catch-all"
	}
	return fmt.Sprintf("pattern: %s segment %q in %q must terminate the path", kind, e.Segment, e.Path)
}

// Unwrap returns ErrCatchAllPlacement.
func (e *PlacementError) Unwrap() error {
	return ErrCatchAllPlacement
}
