package report

import (
	"github.com/google/uuid"
	"github.com/tinylib/msgp/msgp"
)

// UUIDExtensionType is the MessagePack extension type for UUIDs.
// Types 3, 4 and 5 are taken by msgp for complex64, complex128 and time.Time.
const UUIDExtensionType int8 = 10

// UUIDSize is the fixed size of a UUID.
const UUIDSize = 16

func init() {
	msgp.RegisterExtension(UUIDExtensionType, func() msgp.Extension {
		return new(UUID)
	})
}

// UUID carries a uuid.UUID through MessagePack as extension type 10.
type UUID uuid.UUID

// ExtensionType returns UUIDExtensionType.
func (u *UUID) ExtensionType() int8 {
	return UUIDExtensionType
}

// Len returns the encoded length (always 16 bytes).
func (u *UUID) Len() int {
	return UUIDSize
}

// MarshalBinaryTo copies the UUID bytes into b.
//
// Parameters:
//   - b: Destination buffer of at least 16 bytes
//
// Returns:
//   - error: nil
func (u *UUID) MarshalBinaryTo(b []byte) error {
	copy(b, u[:])

	return nil
}

// UnmarshalBinary copies 16 bytes from b into the UUID.
//
// Parameters:
//   - b: Source buffer with the extension payload
//
// Returns:
//   - error: msgp.ErrShortBytes if b is not exactly 16 bytes
func (u *UUID) UnmarshalBinary(b []byte) error {
	if len(b) != UUIDSize {
		return msgp.ErrShortBytes
	}
	copy(u[:], b)

	return nil
}

// UUID returns the value as a uuid.UUID.
func (u *UUID) UUID() uuid.UUID {
	return uuid.UUID(*u)
}

// String returns the hyphenated form.
func (u *UUID) String() string {
	return uuid.UUID(*u).String()
}
