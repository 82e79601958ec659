package pack

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/annopack/pkg/ontology"
)

// Validation errors. Each wraps ontology.ErrValidation so callers can match
// either the specific reason or the general rejection.
var (
	ErrKindNotAccepted = fmt.Errorf("%w: kind not accepted", ontology.ErrValidation)
	ErrForeignEntry    = fmt.Errorf("%w: entry belongs to another container", ontology.ErrValidation)
	ErrSpanOutOfRange  = fmt.Errorf("%w: span out of range", ontology.ErrValidation)
	ErrPoisonPack      = fmt.Errorf("%w: poison pack accepts no entries", ontology.ErrValidation)
)

// Restore errors.
var (
	ErrUnknownKind   = errors.New("unknown entry kind")
	ErrInvalidRecord = errors.New("invalid entry record")
)
