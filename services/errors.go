package services

import "errors"

// Settlement error taxonomy. Handlers map these to HTTP statuses; callers
// must be able to tell financial failures apart from structural ones, so
// never collapse ErrInsufficientFunds into ErrNotFound.
var (
	// ErrNotFound: the referenced entity is missing or not in the state the
	// operation requires (an ACTIVE listing that is already FINISHED reads
	// as not found, same as the row being absent).
	ErrNotFound = errors.New("not found")

	// ErrConflict: the entity was already settled or opened; a second
	// attempt must fail instead of double-crediting.
	ErrConflict = errors.New("conflict")

	// ErrInsufficientFunds: a debit would drive the wallet negative.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrIneligible: an ownership precondition is not met.
	ErrIneligible = errors.New("ineligible")

	// ErrNoSupply: no free assigned card of the requested type exists.
	ErrNoSupply = errors.New("no supply")

	// ErrAlreadyMinted: the card template has no remaining supply.
	ErrAlreadyMinted = errors.New("already minted")

	// ErrNotSupported: the operation is interface surface without settlement
	// semantics (CREDIT purchases).
	ErrNotSupported = errors.New("not supported")

	// ErrInternal: unexpected downstream failure.
	ErrInternal = errors.New("internal error")
)
