package ops

import (
	"github.com/thirdlang/thirdvm/internal/engine"
	"github.com/thirdlang/thirdvm/internal/ferr"
	"github.com/thirdlang/thirdvm/internal/memory"
)

// registerControlFlow wires the compile-time structured control words
// (IF/ELSE/THEN, DO/LOOP/+LOOP, BEGIN/UNTIL/AGAIN/WHILE/REPEAT, LEAVE) plus
// THROW and EVALUATE, grounded on control_flow_operations.rs.
//
// The original resolves every forward reference by reserving a data-space
// cell at the open end of the construct and overwriting it once the close
// word knows the real target — built out of raw HERE/ALLOT arithmetic and
// a pair of primitive patch words (_BNE/_B) because Rust's compiled
// instructions are closures with no mutable field to repoint. This port's
// compiled-instruction table (internal/instr) stores its operands as plain
// data instead, so it already exposes the patch step directly
// (instr.Table.Patch) — IF/ELSE/THEN and the loop words are written
// directly against that API rather than reproducing the POSTPONE-based
// bootstrap string verbatim (see DESIGN.md).
func registerControlFlow(e *engine.Engine) {
	registerIfElseThen(e)
	registerDoLoop(e)
	registerBeginLoops(e)

	e.Register("THROW", false, func(e *engine.Engine) error {
		code, err := e.Stack.PopUnsigned()
		if err != nil {
			return err
		}
		if code == 0 {
			return nil
		}
		return ferr.Thrown(int64(code))
	})

	e.Register("EVALUATE", false, func(e *engine.Engine) error {
		n, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		addr, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		base := memory.AddressFromRaw(addr)
		seg, err := e.SegmentFor(base)
		if err != nil {
			return err
		}
		runes := make([]rune, 0, n)
		for i := memory.Number(0); i < n; i++ {
			b, err := memory.ReadByte(seg, base.PlusBytes(int64(i)))
			if err != nil {
				return err
			}
			runes = append(runes, rune(b))
		}
		return e.EvaluateString(string(runes))
	})
}

// registerIfElseThen implements IF/ELSE/THEN as described in the package
// doc: IF compiles a BranchFalse with a placeholder destination and pushes
// its execution token (as a genuine stack value, via PushToken) for the
// closing word to patch; ELSE additionally compiles the unconditional jump
// over the else-branch that THEN must also patch.
func registerIfElseThen(e *engine.Engine) {
	e.Register("IF", true, func(e *engine.Engine) error {
		xt := e.Instrs.CompileBranchFalse(memory.AddressFromRaw(0))
		e.Data.Push(memory.TokenValue(xt))
		e.Stack.PushToken(xt)
		return nil
	})

	e.Register("ELSE", true, func(e *engine.Engine) error {
		ifXT, err := e.Stack.PopToken()
		if err != nil {
			return err
		}
		elseXT := e.Instrs.CompileBranch(memory.AddressFromRaw(0))
		e.Data.Push(memory.TokenValue(elseXT))
		e.Instrs.Patch(ifXT, e.Data.Top())
		e.Stack.PushToken(elseXT)
		return nil
	})

	e.Register("THEN", true, func(e *engine.Engine) error {
		xt, err := e.Stack.PopToken()
		if err != nil {
			return err
		}
		e.Instrs.Patch(xt, e.Data.Top())
		return nil
	})
}

// registerDoLoop implements DO, LOOP and +LOOP. The return-stack loop frame
// is a plain (start, limit) pair of Numbers with limit on top — the same
// layout I (below) and the loop-step leaf expect — plus, beneath the
// frame, the address LEAVE should jump to, read back out of a data-space
// cell DO reserves and +LOOP patches once the post-loop address is known
// (control_flow_operations.rs's do_init_loop/loop_plus_compiletime).
func registerDoLoop(e *engine.Engine) {
	// DO is the one control word that needs a fresh closure per occurrence:
	// the runtime leaf it compiles must remember *this* DO's reserved
	// patch cell, which only exists at the moment DO runs.
	e.Register("DO", true, func(e *engine.Engine) error {
		reserved := e.Data.Expand(1)

		enterLoop := e.RegisterAnonymous(func(e *engine.Engine) error {
			// The reserved cell runs just before this leaf and pushes its
			// value as a literal; drop that copy, the cell is read below.
			if _, err := e.Stack.PopValue(); err != nil {
				return err
			}
			start, err := e.Stack.PopNumber() // top of stack: "limit start DO"
			if err != nil {
				return err
			}
			limit, err := e.Stack.PopNumber()
			if err != nil {
				return err
			}
			exitVal, err := e.Data.ReadValue(reserved)
			if err != nil {
				return err
			}
			e.Return.PushNumber(exitVal.ToNumber())
			e.Return.PushNumber(start)
			e.Return.PushNumber(limit)
			return nil
		})
		e.Data.Push(memory.TokenValue(enterLoop))

		// handed to LOOP/+LOOP through the (compile-time) data stack.
		e.Stack.PushNumber(reserved.Raw())
		e.Stack.PushNumber(e.Data.Top().Raw())
		return nil
	})

	loopStep := e.RegisterAnonymous(func(e *engine.Engine) error {
		step, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		limit, err := e.Return.PopNumber()
		if err != nil {
			return err
		}
		start, err := e.Return.PopNumber()
		if err != nil {
			return err
		}
		newStart := start + step
		done := memory.UnsignedNumber(newStart) >= memory.UnsignedNumber(limit)
		e.Stack.PushNumber(boolToNumber(done))
		e.Return.PushNumber(newStart)
		e.Return.PushNumber(limit)
		return nil
	})

	loopEpilogue := e.RegisterAnonymous(func(e *engine.Engine) error {
		if _, err := e.Return.PopNumber(); err != nil { // limit
			return err
		}
		if _, err := e.Return.PopNumber(); err != nil { // start
			return err
		}
		_, err := e.Return.PopNumber() // leave address
		return err
	})

	plusLoop := func(e *engine.Engine) error {
		bodyStart, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		reserved, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}

		e.Data.Push(memory.TokenValue(loopStep))
		brXT := e.Instrs.CompileBranchFalse(memory.AddressFromRaw(bodyStart))
		e.Data.Push(memory.TokenValue(brXT))
		e.Data.Push(memory.TokenValue(loopEpilogue))

		exitAddr := e.Data.Top()
		return e.Data.WriteValue(memory.AddressFromRaw(reserved), memory.NumberValue(exitAddr.Raw()))
	}
	e.Register("+LOOP", true, plusLoop)

	e.Register("LOOP", true, func(e *engine.Engine) error {
		e.Data.Push(memory.NumberValue(1))
		return plusLoop(e)
	})

	e.Register("LEAVE", false, func(e *engine.Engine) error {
		if _, err := e.Return.PopNumber(); err != nil { // limit
			return err
		}
		if _, err := e.Return.PopNumber(); err != nil { // start
			return err
		}
		leaveAddr, err := e.Return.PopNumber()
		if err != nil {
			return err
		}
		e.JumpTo(memory.AddressFromRaw(leaveAddr))
		return nil
	})

	e.Register("I", false, func(e *engine.Engine) error {
		limit, err := e.Return.PopNumber()
		if err != nil {
			return err
		}
		start, err := e.Return.PopNumber()
		if err != nil {
			return err
		}
		e.Return.PushNumber(start)
		e.Return.PushNumber(limit)
		e.Stack.PushNumber(start)
		return nil
	})
}

// registerBeginLoops implements BEGIN/UNTIL/AGAIN/WHILE/REPEAT. BEGIN
// itself compiles nothing — it only remembers HERE; UNTIL and AGAIN close
// the loop with a conditional or unconditional branch back to it; WHILE
// additionally reserves a forward BranchFalse exit that REPEAT patches once
// the post-loop address is known.
func registerBeginLoops(e *engine.Engine) {
	e.Register("BEGIN", true, func(e *engine.Engine) error {
		e.Stack.PushNumber(e.Data.Top().Raw())
		return nil
	})

	e.Register("UNTIL", true, func(e *engine.Engine) error {
		loopTop, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		xt := e.Instrs.CompileBranchFalse(memory.AddressFromRaw(loopTop))
		e.Data.Push(memory.TokenValue(xt))
		return nil
	})

	e.Register("AGAIN", true, func(e *engine.Engine) error {
		loopTop, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		xt := e.Instrs.CompileBranch(memory.AddressFromRaw(loopTop))
		e.Data.Push(memory.TokenValue(xt))
		return nil
	})

	e.Register("WHILE", true, func(e *engine.Engine) error {
		loopTop, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		fwdXT := e.Instrs.CompileBranchFalse(memory.AddressFromRaw(0))
		e.Data.Push(memory.TokenValue(fwdXT))
		e.Stack.PushNumber(loopTop)
		e.Stack.PushToken(fwdXT)
		return nil
	})

	e.Register("REPEAT", true, func(e *engine.Engine) error {
		fwdXT, err := e.Stack.PopToken()
		if err != nil {
			return err
		}
		loopTop, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		backXT := e.Instrs.CompileBranch(memory.AddressFromRaw(loopTop))
		e.Data.Push(memory.TokenValue(backXT))
		e.Instrs.Patch(fwdXT, e.Data.Top())
		return nil
	})
}
