package nsconfig

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/viant/afs"

	"github.com/linagraph/linagraph/scenario"
)

// RDFOptions is the namespace's "rdf" sub-object: knobs for how
// addresses produced within this namespace are persisted.
type RDFOptions struct {
	Enabled      bool   `json:"enabled"`
	DatabasePath string `json:"databasePath,omitempty"`
}

// Namespace is one entry of the "namespaces" map (§6).
type Namespace struct {
	ProjectName     string                    `json:"projectName"`
	FilePatterns    []string                  `json:"filePatterns"`
	ExcludePatterns []string                  `json:"excludePatterns,omitempty"`
	Scenarios       []string                  `json:"scenarios"`
	ScenarioConfig  map[string]map[string]any `json:"scenarioConfig,omitempty"`
	SemanticTags    []string                  `json:"semanticTags,omitempty"`
	RDF             *RDFOptions               `json:"rdf,omitempty"`
	MaxConcurrency  int                       `json:"maxConcurrency,omitempty"`
}

var allowedNamespaceKeys = map[string]bool{
	"projectName": true, "filePatterns": true, "excludePatterns": true,
	"scenarios": true, "scenarioConfig": true, "semanticTags": true,
	"rdf": true, "maxConcurrency": true,
}

// Document is the parsed namespace configuration file. Extra carries
// any top-level key beyond "default"/"namespaces", preserved verbatim
// per §6 ("unknown top-level keys are preserved").
type Document struct {
	Default    string
	Namespaces map[string]Namespace
	Extra      map[string]json.RawMessage
}

// Load reads and parses the namespace configuration file at url,
// through the same storage abstraction used throughout (afs), so
// local paths and remote URLs are both valid.
func Load(ctx context.Context, fs afs.Service, url string) (*Document, error) {
	data, err := fs.DownloadWithURL(ctx, url)
	if err != nil {
		return nil, &ConfigError{Kind: Malformed, Field: url, Message: err.Error()}
	}
	return Parse(data)
}

// Parse decodes a namespace configuration document, rejecting any
// namespace object that carries a key outside the documented schema.
func Parse(data []byte) (*Document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigError{Kind: Malformed, Message: err.Error()}
	}

	doc := &Document{
		Namespaces: map[string]Namespace{},
		Extra:      map[string]json.RawMessage{},
	}

	if defaultRaw, ok := raw["default"]; ok {
		if err := json.Unmarshal(defaultRaw, &doc.Default); err != nil {
			return nil, &ConfigError{Kind: Malformed, Field: "default", Message: err.Error()}
		}
	}

	if nsRaw, ok := raw["namespaces"]; ok {
		var nsMap map[string]json.RawMessage
		if err := json.Unmarshal(nsRaw, &nsMap); err != nil {
			return nil, &ConfigError{Kind: Malformed, Field: "namespaces", Message: err.Error()}
		}
		for name, objRaw := range nsMap {
			ns, err := parseNamespace(name, objRaw)
			if err != nil {
				return nil, err
			}
			doc.Namespaces[name] = ns
		}
	}

	for key, value := range raw {
		if key == "default" || key == "namespaces" {
			continue
		}
		doc.Extra[key] = value
	}

	return doc, nil
}

func parseNamespace(name string, objRaw json.RawMessage) (Namespace, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(objRaw, &keys); err != nil {
		return Namespace{}, &ConfigError{Kind: Malformed, Field: name, Message: err.Error()}
	}
	for key := range keys {
		if !allowedNamespaceKeys[key] {
			return Namespace{}, &ConfigError{
				Kind: UnknownNamespaceKey, Field: fmt.Sprintf("namespaces.%s.%s", name, key),
				Message: "unrecognized namespace key",
			}
		}
	}
	var ns Namespace
	if err := json.Unmarshal(objRaw, &ns); err != nil {
		return Namespace{}, &ConfigError{Kind: Malformed, Field: name, Message: err.Error()}
	}
	return ns, nil
}

// Resolve returns the named namespace, falling back to doc.Default
// when name is empty.
func (d *Document) Resolve(name string) (string, Namespace, error) {
	if name == "" {
		name = d.Default
	}
	ns, ok := d.Namespaces[name]
	if !ok {
		return "", Namespace{}, &ConfigError{Kind: MissingNamespace, Field: name, Message: "no such namespace"}
	}
	return name, ns, nil
}

// Validate checks that every scenario id referenced by every namespace
// is registered, per §6's "referenced scenario IDs must exist in the
// registry, otherwise configuration validation fails."
func (d *Document) Validate(registry *scenario.Registry) error {
	for name, ns := range d.Namespaces {
		for _, id := range ns.Scenarios {
			if _, ok := registry.Get(id); !ok {
				return &ConfigError{
					Kind: UnknownScenario, Field: fmt.Sprintf("namespaces.%s.scenarios", name),
					Message: fmt.Sprintf("scenario %q is not registered", id),
				}
			}
		}
	}
	return nil
}
