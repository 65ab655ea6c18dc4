package engine

import (
	"io"

	"github.com/thirdlang/thirdvm/internal/memory"
)

// Write pushes s to the output sink, per spec.md §6's output-stream push
// interface.
func (e *Engine) Write(s string) error {
	if e.Output == nil {
		return nil
	}
	_, err := io.WriteString(e.Output, s)
	return err
}

// Writeln writes s followed by a newline.
func (e *Engine) Writeln(s string) error { return e.Write(s + "\n") }

// StackValues returns the data stack's contents bottom-first, per spec.md
// §6's embedder accessor stack_values().
func (e *Engine) StackValues() []memory.Value { return e.Stack.ToSlice() }

// StackNumbers returns the data stack's contents coerced to Numbers
// bottom-first, per spec.md §6's stack_numbers().
func (e *Engine) StackNumbers() []memory.Number {
	values := e.Stack.ToSlice()
	out := make([]memory.Number, len(values))
	for i, v := range values {
		out[i] = v.ToNumber()
	}
	return out
}
