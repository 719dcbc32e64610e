package layout

import "github.com/google/uuid"

// newSegmentID mints a fresh random segment identifier.
func newSegmentID() SegmentID {
	return SegmentID(uuid.New())
}
