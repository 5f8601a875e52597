package domain

import "errors"

// Sentinel errors returned by the catalog, evaluator, and ledger. Callers
// check them with errors.Is; the transport layer maps them to responses.
// Negative evaluation outcomes and idempotent replays are ordinary results,
// not errors.
var (
	// ErrNotFound indicates an unknown challenge identifier or hint level.
	ErrNotFound = errors.New("not found")

	// ErrNoCriteria indicates a challenge that declares no solution criteria.
	// This is a configuration error, not a user error.
	ErrNoCriteria = errors.New("challenge has no solution criteria")

	// ErrInsufficientBalance indicates a hint spend that would drive the
	// balance below zero.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrStoreUnavailable indicates the backing score store is unreachable.
	ErrStoreUnavailable = errors.New("score store unavailable")
)
