package codec

import "errors"

var (
	// ErrEmptyRecord is returned when a device record carries no payload.
	ErrEmptyRecord = errors.New("record has no data")
	// ErrTypeMismatch is returned when a backend record of another type is
	// handed to a codec.
	ErrTypeMismatch = errors.New("record type mismatch")
	// ErrMalformedRecord is returned when a backend payload cannot be decoded.
	ErrMalformedRecord = errors.New("malformed record data")
	// ErrUnknownRecordType is returned by ForType for unregistered types.
	ErrUnknownRecordType = errors.New("unknown record type")
)
