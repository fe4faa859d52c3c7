package firm

import (
	"strings"

	"github.com/google/uuid"
)

// Selector is the caller-supplied firm choice for one request: either no
// firm was requested, or exactly one firm id was. It is built from the
// configured header and query parameter; it is never inferred from token
// claims.
type Selector struct {
	firmID    uuid.UUID
	requested bool
}

// NoFirmRequested is the selector for requests that name no firm.
func NoFirmRequested() Selector {
	return Selector{}
}

// RequestedFirm is the selector for requests that name a specific firm.
func RequestedFirm(id uuid.UUID) Selector {
	return Selector{firmID: id, requested: true}
}

// Requested returns the requested firm id, if any.
func (s Selector) Requested() (uuid.UUID, bool) {
	return s.firmID, s.requested
}

// SelectorFromValues builds a Selector from the raw header and query
// parameter values. Supplying both with different values is an error rather
// than a silent precedence rule; a malformed id is likewise rejected.
func SelectorFromValues(headerValue, queryValue string) (Selector, error) {
	headerValue = strings.TrimSpace(headerValue)
	queryValue = strings.TrimSpace(queryValue)

	if headerValue == "" && queryValue == "" {
		return NoFirmRequested(), nil
	}
	if headerValue != "" && queryValue != "" && headerValue != queryValue {
		return Selector{}, ErrAmbiguousFirmSelection
	}
	raw := headerValue
	if raw == "" {
		raw = queryValue
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return Selector{}, ErrAmbiguousFirmSelection
	}
	return RequestedFirm(id), nil
}
