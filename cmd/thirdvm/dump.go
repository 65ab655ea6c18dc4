package main

import (
	"fmt"
	"io"

	"github.com/thirdlang/thirdvm/internal/engine"
	"github.com/thirdlang/thirdvm/internal/memory"
)

// dumpEngine prints a human-readable snapshot of e's state: the
// dictionary's names, the data stack, the return stack, and data space
// itself, annotated with definition names where a cell's address matches
// one. dumper.go reconstructed all of this by walking one flat,
// undifferentiated memory array and re-deriving dictionary/word
// boundaries from raw address arithmetic; this port's Engine already
// exposes each segment as a distinct, structured accessor, so the dump
// just reads them directly instead of re-deriving structure.
func dumpEngine(e *engine.Engine, w io.Writer) {
	fmt.Fprintln(w, "dictionary:")
	for _, name := range e.Dict.Names() {
		def, err := e.Dict.GetFromName(name)
		if err != nil {
			continue
		}
		mark := ""
		if def.Immediate {
			mark = " (immediate)"
		}
		fmt.Fprintf(w, "  %s -> %s%s\n", name, def.ExecutionToken, mark)
	}

	fmt.Fprintln(w, "data stack:")
	dumpValues(w, e, e.Stack.ToSlice())

	fmt.Fprintln(w, "return stack:")
	dumpValues(w, e, e.Return.ToSlice())

	fmt.Fprintln(w, "data space:")
	base := e.Data.Base()
	for i, v := range e.Data.DebugCells() {
		addr := base.PlusCells(int64(i))
		name := ""
		if n, ok := e.Dict.DebugName(memory.DefinitionToken(addr)); ok {
			name = "  ; definition of " + n
		}
		fmt.Fprintf(w, "  %v | %s%s\n", addr, describeValue(v), name)
	}
}

func dumpValues(w io.Writer, e *engine.Engine, values []memory.Value) {
	for i, v := range values {
		fmt.Fprintf(w, "  [%d] %s\n", i, describeValue(v))
	}
}

func describeValue(v memory.Value) string {
	if v.Kind == memory.ValueIsNumber {
		return fmt.Sprintf("%d", v.Number)
	}
	return v.Token.String()
}
