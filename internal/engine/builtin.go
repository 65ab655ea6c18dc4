package engine

import (
	"github.com/thirdlang/thirdvm/internal/dict"
	"github.com/thirdlang/thirdvm/internal/memory"
)

// Register adds a native Go function as a dictionary word, the build-time
// equivalent of definition.rs's `Definition::new(ExecutionToken::
// LeafOperation(f), immediate)`. Returns the xt so the registration code in
// internal/ops can also use it when wiring compile-time words that
// need to reference each other's tokens (e.g. `;` needs the xt that
// performs return_from).
func (e *Engine) Register(name string, immediate bool, fn func(e *Engine) error) memory.ExecutionToken {
	index, exists := e.builtinNames[name]
	xt := memory.LeafToken(0)
	if exists {
		e.builtins[index] = Builtin{Name: name, Immediate: immediate, Fn: fn}
		xt = memory.LeafToken(index)
	} else {
		index = len(e.builtins)
		e.builtins = append(e.builtins, Builtin{Name: name, Immediate: immediate, Fn: fn})
		e.builtinNames[name] = index
		xt = memory.LeafToken(index)
	}
	e.Dict.Add(name, dict.Definition{ExecutionToken: xt, Immediate: immediate})
	return xt
}

// RegisterAnonymous adds fn to the builtin table without a dictionary
// entry, for internally-synthesized leaf operations such as the `;`
// epilogue's return_from call or a CONSTANT-defined word's runtime stub.
func (e *Engine) RegisterAnonymous(fn func(e *Engine) error) memory.ExecutionToken {
	index := len(e.builtins)
	e.builtins = append(e.builtins, Builtin{Fn: fn})
	return memory.LeafToken(index)
}

// Builtin returns the registered builtin at index, for diagnostics.
func (e *Engine) Builtin(index int) Builtin { return e.builtins[index] }
