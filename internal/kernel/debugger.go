// Package kernel implements the two kernel-extension-chain observers named
// in spec.md DESIGN NOTES §9: a REPL-launched debugger and a dispatch-
// counting profiler. Grounded on original_source/src/debugging/
// {debugger,debug_operations,profiler}.rs.
package kernel

import (
	"fmt"

	"github.com/thirdlang/thirdvm/internal/engine"
	"github.com/thirdlang/thirdvm/internal/ferr"
	"github.com/thirdlang/thirdvm/internal/memory"
)

// Debugger is a kernel observer that intercepts the word DEBUG, dropping
// into a nested command loop reading further words from the same input
// stream until END. Unlike debugger.rs, which spawns a whole second
// ForthState, this drives the debug commands directly against the engine
// being debugged — "the debugger itself is implemented in forth" already
// meant the debug commands are just more dictionary words; there is no
// separate evaluator to stand up in a single-package Go engine (see
// DESIGN.md).
type Debugger struct {
	engine.NopObserver
}

// HandleUnknownWord intercepts DEBUG; every other unknown word is left to
// the default UnknownWord propagation.
func (d *Debugger) HandleUnknownWord(e *engine.Engine, word string) (bool, error) {
	if word != "DEBUG" {
		return false, nil
	}
	return true, d.run(e)
}

func (d *Debugger) run(e *engine.Engine) error {
	for {
		word, err := e.Input.NextWord()
		if err != nil {
			return err
		}
		switch word {
		case "END":
			return nil
		case "STACK":
			d.printStack(e, e.Stack.ToSlice())
		case "RETURNSTACK":
			d.printStack(e, e.Return.ToSlice())
		case "MEMORY":
			d.printMemory(e)
		case "X":
			if err := d.examineMemory(e); err != nil {
				return err
			}
		default:
			def, derr := e.Dict.GetFromName(word)
			if derr != nil {
				return derr
			}
			if err := e.Execute(def.ExecutionToken); err != nil {
				return err
			}
		}
	}
}

func (d *Debugger) printStack(e *engine.Engine, values []memory.Value) {
	for i, v := range values {
		e.Writeln(fmt.Sprintf("%#10x | %s", i, stringifyValue(e, v)))
	}
}

func (d *Debugger) printMemory(e *engine.Engine) {
	for i, v := range e.Data.DebugCells() {
		addr := e.Data.Base().PlusCells(int64(i))
		name := ""
		if n, ok := e.Dict.DebugName(memory.DefinitionToken(addr)); ok {
			name = "\t\t\t: definition of " + n
		}
		e.Writeln(fmt.Sprintf("%#10x | %s %s", i, stringifyValue(e, v), name))
	}
}

func (d *Debugger) examineMemory(e *engine.Engine) error {
	n, err := e.Stack.PopNumber()
	if err != nil {
		return err
	}
	addr, err := e.Data.AddressFromOffset(n)
	if err != nil {
		return err
	}
	format, err := e.Input.NextWord()
	if err != nil {
		return err
	}
	v, err := e.Data.ReadValue(addr)
	if err != nil {
		return err
	}
	switch format {
	case "I":
		e.Writeln(stringifyValue(e, v))
	case "N":
		e.Writeln(fmt.Sprintf("%d", v.ToNumber()))
	case "UN":
		e.Writeln(fmt.Sprintf("%d", memory.UnsignedNumber(v.ToNumber())))
	default:
		return ferr.ErrInvalidWord
	}
	return nil
}

func stringifyValue(e *engine.Engine, v memory.Value) string {
	if v.Kind != memory.ValueIsToken {
		return fmt.Sprintf("%d", v.Number)
	}
	xt := v.Token
	name := ""
	if n, ok := e.Dict.DebugName(xt); ok {
		name = n + " "
	}
	switch xt.Kind {
	case memory.TokenNumber:
		return fmt.Sprintf("push %d", xt.Number)
	case memory.TokenDefinition:
		return fmt.Sprintf("%s(defined call @ %v)", name, xt.Address)
	case memory.TokenCompiledInstruction:
		return fmt.Sprintf("%s(call compiled instruction)", name)
	case memory.TokenLeaf:
		return fmt.Sprintf("%s(builtin)", name)
	default:
		return "invalid xt"
	}
}
