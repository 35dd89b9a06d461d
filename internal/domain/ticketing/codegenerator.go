package ticketing

import (
	"github.com/google/uuid"

	"github.com/nrjbutsecond/tessera/internal/shared/id"
)

// CodeGenerator produces the identifiers a new ticket needs. Injected so
// tests can pin deterministic values.
type CodeGenerator interface {
	NewGUID() string
	NewCode() (string, error)
	NewClassSID() (string, error)
}

type defaultCodeGenerator struct{}

func NewCodeGenerator() CodeGenerator {
	return defaultCodeGenerator{}
}

func (defaultCodeGenerator) NewGUID() string {
	return uuid.NewString()
}

func (defaultCodeGenerator) NewCode() (string, error) {
	shortID, err := id.NewTicketCode()
	if err != nil {
		return "", err
	}
	return id.FormatTicketCode(shortID), nil
}

func (defaultCodeGenerator) NewClassSID() (string, error) {
	shortID, err := id.NewTicketClassID()
	if err != nil {
		return "", err
	}
	return id.FormatTicketClassID(shortID), nil
}
