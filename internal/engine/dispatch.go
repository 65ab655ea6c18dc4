package engine

import (
	"github.com/thirdlang/thirdvm/internal/ferr"
	"github.com/thirdlang/thirdvm/internal/instr"
	"github.com/thirdlang/thirdvm/internal/memory"
)

// Execute dispatches a single execution token, per spec.md §4.6.2:
//   - Number(n)            → push n on the data stack.
//   - LeafOperation(f)      → call f(state).
//   - CompiledInstruction(i) → look up and run.
//   - Definition(a)         → call: push current IP, jump to a, run to
//     return.
func (e *Engine) Execute(xt memory.ExecutionToken) error {
	e.logf(".", "execute %v", xt)

	var err error
	switch xt.Kind {
	case memory.TokenNumber:
		e.Stack.PushNumber(xt.Number)

	case memory.TokenLeaf:
		if xt.Index < 0 || xt.Index >= len(e.builtins) {
			return ferr.ErrInvalidExecutionToken
		}
		err = e.builtins[xt.Index].Fn(e)

	case memory.TokenCompiledInstruction:
		err = e.executeInstruction(e.Instrs.Get(xt.Index))

	case memory.TokenDefinition:
		err = e.call(xt.Address)

	default:
		return ferr.ErrInvalidExecutionToken
	}

	if err != nil {
		return err
	}
	return e.runObservers(xt)
}

func (e *Engine) executeInstruction(ci instr.Instruction) error {
	switch ci.Kind {
	case instr.Push:
		e.Stack.PushValue(ci.Value)
		return nil

	case instr.MemPush:
		e.Data.Push(ci.Value)
		return nil

	case instr.Branch:
		e.JumpTo(ci.Destination)
		return nil

	case instr.BranchFalse:
		n, err := e.Stack.PopUnsigned()
		if err != nil {
			return err
		}
		if n == 0 {
			e.JumpTo(ci.Destination)
		}
		return nil

	default:
		return ferr.ErrInvalidExecutionToken
	}
}

// call implements the Definition branch of Execute: push the current IP
// (possibly "none") onto the return stack, jump to addr, then run the inner
// fetch/dispatch loop until a matching return or an error.
func (e *Engine) call(addr memory.Address) error {
	e.pushReturnIP()
	e.JumpTo(addr)
	return e.runToReturn()
}

// runToReturn is the inner loop of spec.md §4.6.2: repeatedly read the
// cell at IP as an ExecutionToken, advance IP by one cell, and execute it,
// until IP becomes invalid (a return) or an error occurs. A compiled
// instruction may overwrite IP (branch, or return_from popping the return
// stack); the next fetch always uses whatever IP holds at that point.
func (e *Engine) runToReturn() error {
	for e.ipValid {
		addr := e.ipAddr
		v, err := e.Data.ReadValue(addr)
		if err != nil {
			return err
		}
		xt := v.ToToken()
		e.ipAddr = addr.PlusCells(1)
		if err := e.Execute(xt); err != nil {
			return err
		}
	}
	return nil
}

// pushReturnIP pushes the current IP (or the "none" sentinel) onto the
// return stack, as a single cell.
func (e *Engine) pushReturnIP() {
	if !e.ipValid {
		e.Return.PushNumber(noReturnMarker)
		return
	}
	e.Return.PushNumber(e.ipAddr.Raw())
}

// ReturnFrom pops the return stack and restores IP from it: the "none"
// sentinel clears IP (ending the innermost runToReturn loop), any other
// value is the address execution resumes at. This is the leaf operation
// that `;` compiles as its epilogue.
func (e *Engine) ReturnFrom() error {
	n, err := e.Return.PopNumber()
	if err != nil {
		return err
	}
	if n == noReturnMarker {
		e.ipValid = false
		return nil
	}
	e.ipAddr = memory.AddressFromRaw(n)
	e.ipValid = true
	return nil
}
