package label

import "errors"

// Error taxonomy for the annotation store. Callers match with errors.Is;
// the store wraps each with the key and operation that failed.
var (
	// ErrNotInitialized means an operation ran before Initialize loaded a
	// project. This is a programmer error, fatal to the call.
	ErrNotInitialized = errors.New("annotation store is not initialized")

	// ErrInvalidInput means an identifier was empty (or all whitespace)
	// after trimming.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSampleNotFound means an existence check came back negative where
	// existence was required.
	ErrSampleNotFound = errors.New("sample not found")

	// ErrStorageUnavailable means the underlying blob client failed
	// (network, auth, quota). The store does not retry; retry policy
	// belongs to the blob client or a higher layer.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrCorruptData means a key resolved but its content failed to parse.
	// This is deliberately distinct from "not found": conflating the two
	// would hide real data damage.
	ErrCorruptData = errors.New("corrupt annotation data")
)
