package store

import "errors"

var (
	// ErrOutOfRange reports a position outside the current snapshot.
	ErrOutOfRange = errors.New("position out of range")
	// ErrRecordNotFound reports an ID that matches no record.
	ErrRecordNotFound = errors.New("record not found")
	// ErrAmbiguousHandle reports an ID prefix that matches several records.
	ErrAmbiguousHandle = errors.New("ambiguous record handle")
	// ErrCorruptStore reports a store file that cannot be decoded.
	ErrCorruptStore = errors.New("corrupt store")
)
