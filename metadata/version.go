// Package metadata implements the flat, vtabled metadata schema the codec
// frames onto a byte stream: logical types, fields, schemas, and the
// record-batch / dictionary-batch headers, encoded with
// github.com/google/flatbuffers so unknown fields and unknown type tags can
// be added later without breaking existing readers.
//
// Every table in this package follows the same convention a flatc-generated
// package would: a Go struct holds the decoded value, an Encode function
// builds it bottom-up into a flatbuffers.Builder, and a decode function
// reads field slots out of a flatbuffers.Table, falling back to the
// documented default when a vtable entry is absent.
package metadata

// Version identifies the wire version of the flat metadata format.
//
// This codec only ever writes V4 and rejects anything else on read with
// errs.ErrIncompatibleVersion — the version families below exist so the
// rejection error can name what was actually seen on the wire.
type Version int16

const (
	V1 Version = 1
	V2 Version = 2
	V3 Version = 3
	V4 Version = 4
	V5 Version = 5
)

func (v Version) String() string {
	switch v {
	case V1:
		return "V1"
	case V2:
		return "V2"
	case V3:
		return "V3"
	case V4:
		return "V4"
	case V5:
		return "V5"
	default:
		return "unknown"
	}
}

// CurrentVersion is the only Version this codec writes or accepts.
const CurrentVersion = V4
