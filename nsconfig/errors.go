// Package nsconfig loads and validates the namespace configuration file
// (§6): a JSON document naming one or more namespaces, each a file
// pattern view over a repository paired with a scenario composition.
package nsconfig

import "fmt"

// ConfigErrorKind classifies a namespace configuration failure.
type ConfigErrorKind int

const (
	// Malformed means the document could not be read or did not parse
	// as valid JSON.
	Malformed ConfigErrorKind = iota
	// UnknownNamespaceKey means a namespace object carried a key outside
	// the documented schema.
	UnknownNamespaceKey
	// UnknownScenario means a namespace referenced a scenario id the
	// Scenario Registry has no spec for.
	UnknownScenario
	// MissingNamespace means the requested or default namespace name
	// has no entry in the document.
	MissingNamespace
)

func (k ConfigErrorKind) String() string {
	switch k {
	case Malformed:
		return "malformed"
	case UnknownNamespaceKey:
		return "unknown_namespace_key"
	case UnknownScenario:
		return "unknown_scenario"
	case MissingNamespace:
		return "missing_namespace"
	default:
		return "unknown"
	}
}

// ConfigError is fatal for the namespace run it concerns.
type ConfigError struct {
	Kind    ConfigErrorKind
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("nsconfig: %s: %s: %s", e.Kind, e.Field, e.Message)
}
