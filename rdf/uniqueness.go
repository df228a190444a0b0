package rdf

import "fmt"

// Extraction is one candidate symbol pulled from a file by an analyzer,
// prior to being grouped and deduplicated by the uniqueness validator.
type Extraction struct {
	Address  Address
	NodeType NodeType
}

// UniquenessValidator groups a batch of per-file extractions by address,
// discarding exact duplicates and reporting symbol-name collisions
// (same filePath+name claimed by two different node types) without
// auto-applying a fix.
type UniquenessValidator struct{}

// NewUniquenessValidator returns a validator ready for use; it carries
// no state between calls.
func NewUniquenessValidator() *UniquenessValidator {
	return &UniquenessValidator{}
}

// Validate classifies a batch of extractions from a single file. It
// returns the deduplicated list of addresses to keep (one per exact
// address, first occurrence wins) and any collisions found.
func (v *UniquenessValidator) Validate(extractions []Extraction) ([]Address, []*ValidationError) {
	seenAddr := make(map[string]bool, len(extractions))
	kept := make([]Address, 0, len(extractions))

	// byNameFile[filePath+"\x00"+name] -> set of node types claiming it
	byNameFile := make(map[string]map[NodeType]bool)
	nameFileOrder := make([]string, 0)

	for _, ex := range extractions {
		key := ex.Address.String()
		if seenAddr[key] {
			continue // exact duplicate: keep one, discard the rest
		}
		seenAddr[key] = true
		kept = append(kept, ex.Address)

		if !ex.Address.IsSymbol() {
			continue
		}
		nfKey := ex.Address.FilePath() + "\x00" + ex.Address.SymbolName()
		set, ok := byNameFile[nfKey]
		if !ok {
			set = make(map[NodeType]bool)
			byNameFile[nfKey] = set
			nameFileOrder = append(nameFileOrder, nfKey)
		}
		set[ex.NodeType] = true
	}

	var conflicts []*ValidationError
	for _, nfKey := range nameFileOrder {
		types := byNameFile[nfKey]
		if len(types) <= 1 {
			continue
		}
		var filePath, name string
		for i := 0; i < len(nfKey); i++ {
			if nfKey[i] == 0 {
				filePath, name = nfKey[:i], nfKey[i+1:]
				break
			}
		}
		conflictingTypes := make([]NodeType, 0, len(types))
		for t := range types {
			conflictingTypes = append(conflictingTypes, t)
		}
		conflicts = append(conflicts, &ValidationError{
			Kind:            SymbolCollision,
			FilePath:        filePath,
			Name:            name,
			ConflictingType: conflictingTypes,
			Suggestion:      ProposeDisambiguation(name, len(types)),
		})
	}

	return kept, conflicts
}

// ProposeDisambiguation returns (without applying) a positional-suffix
// suggestion for the nth colliding symbol sharing a name, e.g.
// "Name@2" for the second of several same-named entities.
func ProposeDisambiguation(name string, ordinal int) string {
	return fmt.Sprintf("%s@%d", name, ordinal)
}
