package ops

import (
	"github.com/thirdlang/thirdvm/internal/dict"
	"github.com/thirdlang/thirdvm/internal/engine"
	"github.com/thirdlang/thirdvm/internal/ferr"
	"github.com/thirdlang/thirdvm/internal/memory"
)

// registerData wires HERE/ALLOT/CELLS and the defining words CREATE,
// DOES>, VALUE/TO, and the VARIABLE/CONSTANT/2VARIABLE/2CONSTANT family,
// grounded verbatim on data_operations.rs.
func registerData(e *engine.Engine) {
	e.Register("HERE", false, func(e *engine.Engine) error {
		e.Stack.PushNumber(e.Data.Top().Raw())
		return nil
	})
	e.Register("ALLOT", false, func(e *engine.Engine) error {
		n, err := e.Stack.PopUnsigned()
		if err != nil {
			return err
		}
		e.Data.Allot(int64(n))
		return nil
	})
	e.Register("CELLS", false, func(e *engine.Engine) error {
		n, err := e.Stack.PopUnsigned()
		if err != nil {
			return err
		}
		e.Stack.PushNumber(memory.Number(n) * memory.CellSize)
		return nil
	})

	registerDefiners(e)
}

// registerDefiners implements CREATE and DOES>. CREATE lays down a
// three-cell header: cell 0 holds the data area's address as a plain
// Number (so executing the created word pushes it, per Value.ToToken's
// bare-Number-is-a-literal rule), cells 1 and 2 both default to breakXT —
// "a manual break, so that normal calls to the function wont execute the
// rest of the code, only created objects" in data_operations.rs's words.
// DOES> overwrites cell 1 with a Definition pointing at the code
// immediately following it (inside the enclosing colon definition): the
// created word then runs push-PFA, call-the-does-code, and the does-code's
// own return (its enclosing definition's own return-from) unwinds back to
// cell 2's break leaf, which performs the second, outermost return.
func registerDefiners(e *engine.Engine) {
	e.Register("CREATE", false, doCreate)

	e.Register("DOES>", false, func(e *engine.Engine) error {
		def := e.Dict.MostRecentDefinition()
		if def.ExecutionToken.Kind != memory.TokenDefinition {
			return nil
		}
		objectAddr := def.ExecutionToken.Address
		ip, ok := e.IP()
		if !ok {
			return ferr.ErrInvalidAddress
		}
		doesXT := memory.DefinitionToken(ip)
		if err := e.Data.WriteValue(objectAddr.PlusCells(1), memory.TokenValue(doesXT)); err != nil {
			return err
		}
		return e.ReturnFrom()
	})

	e.Register("VARIABLE", false, func(e *engine.Engine) error {
		if err := doCreate(e); err != nil {
			return err
		}
		e.Data.Push(memory.NumberValue(0))
		return nil
	})
	e.Register("2VARIABLE", false, func(e *engine.Engine) error {
		if err := doCreate(e); err != nil {
			return err
		}
		e.Data.Push(memory.NumberValue(0))
		e.Data.Push(memory.NumberValue(0))
		return nil
	})

	e.Register("CONSTANT", false, registerConstant(1))
	e.Register("2CONSTANT", false, registerConstant(2))

	e.Register("VALUE", false, func(e *engine.Engine) error {
		word, err := e.Input.NextWord()
		if err != nil {
			return err
		}
		n, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		e.Dict.Add(word, dict.Definition{ExecutionToken: memory.NumberToken(n)})
		return nil
	})

	e.Register("TO", true, func(e *engine.Engine) error {
		word, err := e.Input.NextWord()
		if err != nil {
			return err
		}
		tag, err := e.Dict.GetNameTag(word)
		if err != nil {
			return err
		}
		if tag.Kind == dict.NameTagDefinition {
			idx := tag.Index
			set := func(e *engine.Engine) error {
				n, err := e.Stack.PopNumber()
				if err != nil {
					return err
				}
				return e.Dict.SetByIndex(idx, dict.Definition{ExecutionToken: memory.NumberToken(n)})
			}
			if e.Mode == engine.Interpret {
				return set(e)
			}
			leaf := e.RegisterAnonymous(set)
			e.Data.Push(memory.TokenValue(leaf))
			return nil
		}
		n, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		return e.Dict.SetTempByIndex(tag.Index, dict.Definition{ExecutionToken: memory.NumberToken(n)})
	})
}

// doCreate is CREATE's handler, called directly by VARIABLE/2VARIABLE the
// way variable<N>/constant<N> call create(state) in data_operations.rs.
func doCreate(e *engine.Engine) error {
	word, err := e.Input.NextWord()
	if err != nil {
		return err
	}
	header := e.Data.Top()
	pfa := header.PlusCells(3)
	xt := memory.DefinitionToken(header)

	e.Data.Push(memory.NumberValue(pfa.Raw()))
	e.Data.Push(memory.TokenValue(breakXT))
	e.Data.Push(memory.TokenValue(breakXT))

	e.Dict.Add(word, dict.Definition{ExecutionToken: xt})
	return nil
}

// registerConstant returns the handler for CONSTANT (width 1) or
// 2CONSTANT (width 2): pop width cells off the stack, compile a leaf that
// reads them back out of the cells immediately following it in the body
// and pushes them, per data_operations.rs's constant<N>.
func registerConstant(width int) func(e *engine.Engine) error {
	return func(e *engine.Engine) error {
		word, err := e.Input.NextWord()
		if err != nil {
			return err
		}
		address := e.Data.Top()

		leaf := e.RegisterAnonymous(func(e *engine.Engine) error {
			ip, ok := e.IP()
			if !ok {
				return ferr.ErrInvalidAddress
			}
			for i := 0; i < width; i++ {
				v, err := e.Data.ReadValue(ip.PlusCells(int64(i)))
				if err != nil {
					return err
				}
				e.Stack.PushValue(v)
			}
			return e.ReturnFrom()
		})
		e.Data.Push(memory.TokenValue(leaf))

		vs := make([]memory.Value, width)
		for i := width - 1; i >= 0; i-- {
			v, err := e.Stack.PopValue()
			if err != nil {
				return err
			}
			vs[i] = v
		}
		for _, v := range vs {
			e.Data.Push(v)
		}

		e.Dict.Add(word, dict.Definition{ExecutionToken: memory.DefinitionToken(address)})
		return nil
	}
}
