package domain

import "errors"

var (
	// ErrDecode is returned when a memo is not a well-formed smartbridge
	ErrDecode = errors.New("decode error")

	// ErrValidation is returned when a decoded field fails its schema rule
	ErrValidation = errors.New("validation failed")

	// ErrDuplicate is returned when a journal record with the same blockstamp already exists
	ErrDuplicate = errors.New("duplicate journal record")

	// ErrIntegrity is returned when a peer returns fewer transactions than the block declares
	ErrIntegrity = errors.New("block integrity check failed")

	// ErrRuleViolation is returned when a contract engine rule rejects an operation
	ErrRuleViolation = errors.New("rule violation")

	// ErrStore is returned when a persistence primitive fails
	ErrStore = errors.New("store error")

	// ErrOutOfRange is returned when a quantity leaves the int64 scaled range
	ErrOutOfRange = errors.New("quantity out of range")

	// ErrNoPeer is returned when no chain peer is available
	ErrNoPeer = errors.New("no peer available")
)
