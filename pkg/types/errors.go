package types

import "errors"

// Provider errors. ErrInvalidAddress is a programmer error and is always
// returned, never converted into an empty result.
var (
	ErrInvalidAddress   = errors.New("unknown address")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrUnknownColumn    = errors.New("unknown column")
	ErrInvalidSortOrder = errors.New("invalid sort order")
	ErrInvalidMode      = errors.New("invalid open mode")
	ErrProviderClosed   = errors.New("provider is closed")
)

// Record validation errors, raised by editors before they call Insert.
var (
	ErrInvalidGender = errors.New("invalid gender")
	ErrInvalidName   = errors.New("pet requires a name")
	ErrInvalidWeight = errors.New("weight must be non-negative")
)

// ErrNotFound reports that an item address selected no row.
var ErrNotFound = errors.New("pet not found")
