package portfolio

import (
	"errors"
	"fmt"
)

// Structural errors returned synchronously to the caller; never retried.
var (
	ErrSymbolNotFound  = errors.New("symbol not found")
	ErrDuplicateSymbol = errors.New("symbol already exists")
	ErrUnknownField    = errors.New("unknown field")
)

// ProviderError tags a market-data failure with the symbol it belongs to.
// Inside a batch refresh it is logged and the symbol keeps its
// last-known-good state; it never aborts sibling refreshes.
type ProviderError struct {
	Symbol string
	Err    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error for %s: %v", e.Symbol, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// MergeError marks malformed or incompatible series during combination.
// Callers degrade to an empty table rather than propagating it.
type MergeError struct {
	Symbol string
	Err    error
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("merge error for %s: %v", e.Symbol, e.Err)
}

func (e *MergeError) Unwrap() error { return e.Err }
