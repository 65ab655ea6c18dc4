// Package dict holds the word dictionary: the name-to-definition tables a
// definition is compiled into and looked up from. Ported from
// original_source/src/evaluate/definition.rs's DefinitionTable, reshaped
// around the teacher's slice-plus-map symbol-table idiom (symbols.go).
package dict

import (
	"github.com/thirdlang/thirdvm/internal/ferr"
	"github.com/thirdlang/thirdvm/internal/memory"
)

// Definition binds an ExecutionToken to its IMMEDIATE flag.
type Definition struct {
	ExecutionToken memory.ExecutionToken
	Immediate      bool
}

// NameTagKind distinguishes a persistent definition from a temporary
// (locals-scope) one.
type NameTagKind int

const (
	NameTagDefinition NameTagKind = iota
	NameTagTempDefinition
)

// NameTag locates a definition by kind and index, per definition.rs's
// NameTag enum.
type NameTag struct {
	Kind  NameTagKind
	Index int
}

// Dictionary is the word table: a persistent table of compiled definitions
// plus a temporary table cleared when each colon definition is closed by
// `;` (used for LOCALS| bindings). Spec §4.3.
type Dictionary struct {
	names       map[string]int
	definitions []Definition
	mostRecent  int

	tempNames       map[string]int
	tempDefinitions []Definition
}

// New creates an empty Dictionary.
func New() *Dictionary {
	return &Dictionary{
		names:     make(map[string]int),
		tempNames: make(map[string]int),
	}
}

// GetFromToken resolves a tokenized word or integer literal to a
// Definition, per definition.rs's get_from_token.
func (d *Dictionary) GetFromToken(isWord bool, word string, number memory.Number) (Definition, error) {
	if !isWord {
		return Definition{ExecutionToken: memory.NumberToken(number)}, nil
	}
	return d.GetFromName(word)
}

// GetFromName looks a word up in the persistent table, falling back to the
// temporary table, per definition.rs's get_from_str.
func (d *Dictionary) GetFromName(name string) (Definition, error) {
	if i, ok := d.names[name]; ok {
		return d.definitions[i], nil
	}
	if i, ok := d.tempNames[name]; ok {
		return d.tempDefinitions[i], nil
	}
	return Definition{}, ferr.Unknown(name)
}

// GetNameTag reports which table a word lives in and at what index.
func (d *Dictionary) GetNameTag(name string) (NameTag, error) {
	if i, ok := d.names[name]; ok {
		return NameTag{Kind: NameTagDefinition, Index: i}, nil
	}
	if i, ok := d.tempNames[name]; ok {
		return NameTag{Kind: NameTagTempDefinition, Index: i}, nil
	}
	return NameTag{}, ferr.Unknown(name)
}

// GetByIndex returns the persistent definition at index.
func (d *Dictionary) GetByIndex(index int) (Definition, error) {
	if index < 0 || index >= len(d.definitions) {
		return Definition{}, ferr.ErrInvalidNumber
	}
	return d.definitions[index], nil
}

// SetByIndex overwrites the persistent definition at index, used by DOES>
// to retarget an already-created word's execution token.
func (d *Dictionary) SetByIndex(index int, def Definition) error {
	if index < 0 || index >= len(d.definitions) {
		return ferr.ErrInvalidNumber
	}
	d.definitions[index] = def
	return nil
}

// GetTempByIndex returns the temporary-table definition at index.
func (d *Dictionary) GetTempByIndex(index int) (Definition, error) {
	if index < 0 || index >= len(d.tempDefinitions) {
		return Definition{}, ferr.ErrInvalidNumber
	}
	return d.tempDefinitions[index], nil
}

// SetTempByIndex overwrites the temporary-table definition at index.
func (d *Dictionary) SetTempByIndex(index int, def Definition) error {
	if index < 0 || index >= len(d.tempDefinitions) {
		return ferr.ErrInvalidNumber
	}
	d.tempDefinitions[index] = def
	return nil
}

// MakeMostRecentImmediate flags the most recently added persistent
// definition as IMMEDIATE.
func (d *Dictionary) MakeMostRecentImmediate() {
	d.definitions[d.mostRecent].Immediate = true
}

// MostRecentDefinition returns the most recently added persistent
// definition, as used by DOES> to retrieve the word CREATE just made.
func (d *Dictionary) MostRecentDefinition() Definition {
	return d.definitions[d.mostRecent]
}

// Add binds word to def in the persistent table.
func (d *Dictionary) Add(word string, def Definition) {
	index := len(d.definitions)
	d.names[word] = index
	d.definitions = append(d.definitions, def)
	d.mostRecent = index
}

// AddTemp binds word to def in the temporary table, used for LOCALS| and
// `{ }` locals within the definition currently being compiled.
func (d *Dictionary) AddTemp(word string, def Definition) {
	index := len(d.tempDefinitions)
	d.tempNames[word] = index
	d.tempDefinitions = append(d.tempDefinitions, def)
}

// ClearTemp discards every temporary binding, run by `;` at the end of
// each colon definition.
func (d *Dictionary) ClearTemp() {
	d.tempNames = make(map[string]int)
	d.tempDefinitions = nil
}

// DebugName finds the first persistent name bound to xt, for diagnostics
// and the debugger/profiler's human-readable traces. Linear scan, as in
// definition.rs's debug_only_get_name: never used on a hot path.
func (d *Dictionary) DebugName(xt memory.ExecutionToken) (string, bool) {
	for name, index := range d.names {
		if d.definitions[index].ExecutionToken.Equal(xt) {
			return name, true
		}
	}
	return "", false
}

// Names returns every persistently bound word, for the CLI's post-run
// dictionary dump (cmd/thirdvm/dump.go).
func (d *Dictionary) Names() []string {
	out := make([]string, 0, len(d.names))
	for name := range d.names {
		out = append(out, name)
	}
	return out
}
