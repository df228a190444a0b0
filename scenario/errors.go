package scenario

import (
	"fmt"
	"strings"
)

// RegistryErrorKind classifies why a scenario registration or
// composition was rejected.
type RegistryErrorKind int

const (
	DuplicateID RegistryErrorKind = iota
	UnknownReference
	CyclicComposition
)

func (k RegistryErrorKind) String() string {
	switch k {
	case DuplicateID:
		return "duplicate_id"
	case UnknownReference:
		return "unknown_reference"
	case CyclicComposition:
		return "cyclic_composition"
	default:
		return "unknown"
	}
}

// RegistryError reports a scenario registration conflict or an I5
// (extends ∪ requires acyclic) violation. Fatal at startup.
type RegistryError struct {
	Kind  RegistryErrorKind
	ID    string
	Cycle []string
}

func (e *RegistryError) Error() string {
	if e.Kind == CyclicComposition {
		return fmt.Sprintf("scenario: cyclic composition: %s", strings.Join(e.Cycle, " -> "))
	}
	return fmt.Sprintf("scenario: %s: %s", e.Kind, e.ID)
}
