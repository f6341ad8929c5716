package domain

import "errors"

// Sentinel errors for the ledger core. Callers match them with errors.Is;
// lower layers wrap them with %w and context.
var (
	// ErrNotFound is returned when the target user or document no longer
	// exists in the store (or is absent from the directory snapshot).
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned for a non-positive amount or missing
	// settlement inputs, before any write is issued.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStoreUnavailable is returned on transport or backend failure.
	// The outcome of an in-flight write is unknown; callers must not
	// blindly retry, or they risk duplicate transaction records.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInconsistent is returned when a balance write committed but its
	// transaction record did not. Only the split SetBalance +
	// RecordTransaction admin path can produce it; TopUp and Deduct
	// commit both halves in one store transaction.
	ErrInconsistent = errors.New("balance and transaction log diverged")

	// ErrCorrupt is returned for a stored document that violates the
	// schema (missing name, non-numeric balance). The ledger fails fast
	// instead of substituting defaults.
	ErrCorrupt = errors.New("corrupt document")
)
