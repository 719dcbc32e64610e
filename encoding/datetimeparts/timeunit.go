package datetimeparts

import "github.com/colvex/colvex/scalar"

// TimeUnit is the resolution a Timestamp extension DType's storage i64
// counts in, mirroring vortex_datetime_dtype::TimeUnit.
type TimeUnit uint8

const (
	Seconds TimeUnit = iota
	Milliseconds
	Microseconds
	Nanoseconds
)

func (u TimeUnit) unitsPerSecond() int64 {
	switch u {
	case Milliseconds:
		return 1_000
	case Microseconds:
		return 1_000_000
	case Nanoseconds:
		return 1_000_000_000
	default:
		return 1
	}
}

// TemporalMetadata is the decoded form of a Timestamp extension DType's
// opaque metadata blob: the storage time unit plus an optional IANA
// timezone name (empty means naive, no zone attached).
type TemporalMetadata struct {
	Unit     TimeUnit
	TimeZone string
}

// Encode packs m into the byte blob scalar.Extension stores opaquely.
func (m TemporalMetadata) Encode() []byte {
	b := make([]byte, 1+len(m.TimeZone))
	b[0] = byte(m.Unit)
	copy(b[1:], m.TimeZone)
	return b
}

// DecodeTemporalMetadata is Encode's inverse.
func DecodeTemporalMetadata(b []byte) TemporalMetadata {
	if len(b) == 0 {
		return TemporalMetadata{}
	}
	return TemporalMetadata{Unit: TimeUnit(b[0]), TimeZone: string(b[1:])}
}

// NewTimestampDType builds the Extension DType a Timestamp column carries
// (spec §3.1's recognized date/time/timestamp extensions), storage always
// a nullable-as-declared i64 count of unit since the epoch.
func NewTimestampDType(unit TimeUnit, timezone string, nullable bool) scalar.DType {
	storage := scalar.Primitive(scalar.I64, nullable)
	meta := TemporalMetadata{Unit: unit, TimeZone: timezone}.Encode()
	return scalar.Extension(scalar.ExtTimestamp, storage, meta)
}
