package engine

import (
	"errors"
	"io"
	"strings"

	"github.com/thirdlang/thirdvm/internal/dict"
	"github.com/thirdlang/thirdvm/internal/ferr"
	"github.com/thirdlang/thirdvm/internal/memory"
	"github.com/thirdlang/thirdvm/internal/token"
)

func inputStreamFrom(r io.Reader) *token.Stream { return token.NewStream(r) }

// EvaluateString feeds s through the outer loop, used by EVALUATE and by
// tests; the previous input stream is restored when it returns.
func (e *Engine) EvaluateString(s string) error {
	prev := e.Input
	e.Input = inputStreamFrom(strings.NewReader(s))
	defer func() { e.Input = prev }()
	return e.Evaluate()
}

// Evaluate drives the outer loop (spec.md §4.6) until the input stream is
// exhausted or an error propagates. NoMoreTokens on the *first* read of a
// token is treated as benign end-of-input, matching spec.md §5's "Input
// cancellation is signalled by the input stream returning NoMoreTokens;
// this terminates evaluation benignly."
func (e *Engine) Evaluate() error {
	for {
		tok, err := e.Input.Next()
		if err != nil {
			if errors.Is(err, ferr.ErrNoMoreTokens) {
				return nil
			}
			return err
		}

		def, lookupErr := e.lookup(tok)
		if lookupErr != nil {
			if unknown, ok := lookupErr.(*ferr.Error); ok && unknown.Kind == ferr.UnknownWord {
				if handled, herr := e.tryHandleUnknownWord(unknown.Word); handled || herr != nil {
					if herr != nil {
						return herr
					}
					continue
				}
			}
			return lookupErr
		}

		if err := e.dispatch(def); err != nil {
			return err
		}
	}
}

func (e *Engine) lookup(tok token.Token) (dict.Definition, error) {
	return e.Dict.GetFromToken(tok.Kind == token.Word, tok.Word, tok.Number)
}

// dispatch applies the outer loop's mode split: in Interpret mode every
// definition simply executes; in Compile mode an immediate definition
// executes too, while a non-immediate one is appended to the data space as
// a compiled value, per spec.md §4.6's step 2.
func (e *Engine) dispatch(def dict.Definition) error {
	if e.Mode == Interpret || def.Immediate {
		return e.Execute(def.ExecutionToken)
	}
	e.Data.Push(memory.TokenValue(def.ExecutionToken))
	return nil
}
