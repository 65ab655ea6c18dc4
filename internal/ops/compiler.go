package ops

import (
	"github.com/thirdlang/thirdvm/internal/dict"
	"github.com/thirdlang/thirdvm/internal/engine"
	"github.com/thirdlang/thirdvm/internal/ferr"
	"github.com/thirdlang/thirdvm/internal/memory"
	"github.com/thirdlang/thirdvm/internal/token"
)

// registerCompiler wires the words that drive compilation itself: opening
// and closing a colon definition, switching mode, literals, POSTPONE and
// the tick family, plus comments and the locals binders. Grounded on
// compiler_control_operations.rs.
// breakXT is the shared "return immediately" leaf used both to close a
// colon definition (";") and as CREATE's default two-cell body, before any
// DOES> rewrites it (data.go).
var breakXT memory.ExecutionToken

// pendingLocals counts the locals bound in the definition being compiled,
// so that ";" can drop them from the return stack before returning.
var pendingLocals int

func registerCompiler(e *engine.Engine) {
	breakXT = e.RegisterAnonymous(func(e *engine.Engine) error { return e.ReturnFrom() })
	returnXT := breakXT

	e.Register(":", false, func(e *engine.Engine) error {
		word, err := e.Input.NextWord()
		if err != nil {
			return err
		}
		xt := memory.DefinitionToken(e.Data.Top())
		e.Dict.Add(word, dict.Definition{ExecutionToken: xt})
		pendingLocals = 0
		e.Mode = engine.Compile
		return nil
	})

	e.Register(";", true, func(e *engine.Engine) error {
		if n := pendingLocals; n > 0 {
			pendingLocals = 0
			e.Data.Push(memory.TokenValue(e.RegisterAnonymous(func(e *engine.Engine) error {
				for i := 0; i < n; i++ {
					if _, err := e.Return.PopValue(); err != nil {
						return err
					}
				}
				return nil
			})))
		}
		e.Data.Push(memory.TokenValue(returnXT))
		e.Dict.ClearTemp()
		e.Mode = engine.Interpret
		return nil
	})

	e.Register("IMMEDIATE", false, func(e *engine.Engine) error {
		e.Dict.MakeMostRecentImmediate()
		return nil
	})
	e.Register("[", true, func(e *engine.Engine) error { e.Mode = engine.Interpret; return nil })
	e.Register("]", false, func(e *engine.Engine) error { e.Mode = engine.Compile; return nil })
	e.Register("STATE", false, func(e *engine.Engine) error {
		e.Stack.PushNumber(boolToNumber(e.Mode == engine.Compile))
		return nil
	})

	e.Register("LITERAL", true, func(e *engine.Engine) error {
		v, err := e.Stack.PopValue()
		if err != nil {
			return err
		}
		xt := e.Instrs.CompilePush(v)
		e.Data.Push(memory.TokenValue(xt))
		return nil
	})
	e.Register("2LITERAL", true, func(e *engine.Engine) error {
		d, err := e.Stack.PopDouble()
		if err != nil {
			return err
		}
		chunks := d.Chunks()
		e.Data.Push(memory.TokenValue(e.Instrs.CompilePush(memory.NumberValue(chunks[0]))))
		e.Data.Push(memory.TokenValue(e.Instrs.CompilePush(memory.NumberValue(chunks[1]))))
		return nil
	})

	// POSTPONE stores the referenced word's execution token directly into
	// the body being compiled — since body dispatch executes whatever it
	// finds unconditionally, this reproduces the invoked word's effect
	// (immediate or not) when this definition's body is later reached,
	// exactly what postpone's two branches in the original achieve with
	// one extra indirection Go's tagged tokens don't need.
	e.Register("POSTPONE", true, func(e *engine.Engine) error {
		def, err := nextDefinition(e)
		if err != nil {
			return err
		}
		e.Data.Push(memory.TokenValue(def.ExecutionToken))
		return nil
	})

	e.Register("'", false, func(e *engine.Engine) error {
		name, err := e.Input.NextWord()
		if err != nil {
			return err
		}
		def, err := e.Dict.GetFromName(name)
		if err != nil {
			return err
		}
		e.Stack.PushToken(def.ExecutionToken)
		return nil
	})
	e.Register("[']", true, func(e *engine.Engine) error {
		name, err := e.Input.NextWord()
		if err != nil {
			return err
		}
		def, err := e.Dict.GetFromName(name)
		if err != nil {
			return err
		}
		xt := e.Instrs.CompilePush(memory.TokenValue(def.ExecutionToken))
		e.Data.Push(memory.TokenValue(xt))
		return nil
	})
	e.Register("COMPILE,", false, func(e *engine.Engine) error {
		xt, err := e.Stack.PopToken()
		if err != nil {
			return err
		}
		e.Data.Push(memory.TokenValue(xt))
		return nil
	})

	e.Register(">BODY", false, func(e *engine.Engine) error {
		v, err := e.Stack.PopValue()
		if err != nil {
			return err
		}
		xt := v.ToToken()
		switch xt.Kind {
		case memory.TokenDefinition:
			e.Stack.PushNumber(xt.Address.Raw())
		case memory.TokenNumber:
			e.Stack.PushNumber(xt.Number)
		default:
			e.Stack.PushValue(v)
		}
		return nil
	})
	e.Register("EXECUTE", false, func(e *engine.Engine) error {
		xt, err := e.Stack.PopToken()
		if err != nil {
			return err
		}
		return e.Execute(xt)
	})

	e.Register("(", true, func(e *engine.Engine) error {
		_, err := e.Input.NextLineUntil(')')
		return err
	})
	e.Register("\\", true, func(e *engine.Engine) error {
		_, err := e.Input.NextLineUntil('\n')
		return err
	})

	registerLocals(e)
}

// nextDefinition resolves the definition named by the next input token —
// a word or an integer literal — the way POSTPONE and the original's
// get_token!-based helpers do.
func nextDefinition(e *engine.Engine) (dict.Definition, error) {
	tok, err := e.Input.Next()
	if err != nil {
		return dict.Definition{}, err
	}
	return e.Dict.GetFromToken(tok.Kind == token.Word, tok.Word, tok.Number)
}

// registerLocals implements LOCALS| and { }: bind the top N stack values,
// in declaration order, to names visible only within the definition
// currently compiling. Grounded on compiler_control_operations.rs's
// `locals`, simplified to plain return-stack peeks instead of its
// return_from/frame-relative-read trick (see DESIGN.md): since an accessor
// is registered as a leaf, not a Definition, invoking one never touches
// the return stack itself, so the locals block sits undisturbed at a
// fixed depth from the top for as long as surrounding code preserves
// call/return symmetry — true except across an open DO/BEGIN loop frame,
// a documented limitation.
func registerLocals(e *engine.Engine) {
	bind := func(closing string) func(e *engine.Engine) error {
		return func(e *engine.Engine) error {
			var names []string
			for {
				tok, err := e.Input.Next()
				if err != nil {
					return err
				}
				if tok.Kind != token.Word {
					return ferr.ErrInvalidWord
				}
				if tok.Word == closing {
					break
				}
				names = append(names, tok.Word)
			}

			n := len(names)
			pendingLocals += n
			transfer := e.RegisterAnonymous(func(e *engine.Engine) error {
				for i := 0; i < n; i++ {
					v, err := e.Stack.PopValue()
					if err != nil {
						return err
					}
					e.Return.PushValue(v)
				}
				return nil
			})
			e.Data.Push(memory.TokenValue(transfer))

			for i, name := range names {
				offset := n - 1 - i
				getter := e.RegisterAnonymous(func(e *engine.Engine) error {
					v, err := e.Return.PeekAt(offset)
					if err != nil {
						return err
					}
					e.Stack.PushValue(v)
					return nil
				})
				e.Dict.AddTemp(name, dict.Definition{ExecutionToken: getter})
			}
			return nil
		}
	}
	e.Register("LOCALS|", true, bind("|"))
	e.Register("{", true, bind("}"))
}
