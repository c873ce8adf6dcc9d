package domain

import "errors"

// Sentinel errors surfaced across package boundaries so callers can
// distinguish conditions that are fatal to a request from ones that degrade
// gracefully, per the error taxonomy every stage follows.
var (
	// ErrSymbolNotFound means a provider's symbol search returned nothing.
	ErrSymbolNotFound = errors.New("domain: symbol not found")

	// ErrInsufficientBars means fewer than MinOHLCVBars bars were available;
	// fatal to the data orchestrator.
	ErrInsufficientBars = errors.New("domain: fewer than minimum required OHLCV bars")

	// ErrDocumentNotFound means the store has no document for a key.
	ErrDocumentNotFound = errors.New("domain: asset document not found")
)
