// Package engine implements the threaded interpreter: the outer
// evaluate loop, the inner execution-token dispatcher, and the compiled-
// definition call/return mechanism described in spec.md §4.6. It owns the
// dictionary, memory segments, instruction table, and builtin registry, and
// is the only package compiled-instruction execution and native builtins
// are dispatched through — internal/ops imports this package to register
// builtins, never the reverse, which is how the Go port avoids the Rust
// original's closures-capturing-the-evaluator cycle (see DESIGN.md).
package engine

import (
	"io"

	"github.com/thirdlang/thirdvm/internal/dict"
	"github.com/thirdlang/thirdvm/internal/instr"
	"github.com/thirdlang/thirdvm/internal/memory"
	"github.com/thirdlang/thirdvm/internal/token"
)

// Mode is the interpreter's execution mode, per spec.md §4.6.
type Mode int

const (
	Interpret Mode = iota
	Compile
)

func (m Mode) String() string {
	if m == Compile {
		return "compile"
	}
	return "interpret"
}

// Builtin binds a name's compile-time behavior (immediate or not) to a
// native Go function, the Go analogue of LeafOperation.
type Builtin struct {
	Name      string
	Immediate bool
	Fn        func(e *Engine) error
}

// noReturnMarker is the return-stack sentinel Value meaning "IP is None" —
// i.e. the outer call stack is at rest. Every configured base address
// (Config) is a large positive sentinel, so -1 can never collide with a
// live address. Ported from Option<Address>'s None, which Go's Value type
// has no room to represent directly without widening every return-stack
// cell (see DESIGN.md).
const noReturnMarker = memory.Number(-1)

// Engine is the complete interpreter state: dictionary, memory segments,
// compiled-instruction table, builtin registry, execution mode, current
// instruction pointer, and the kernel-observer chain. Spec.md §3's
// "Internal state memory" and the IP both live here directly rather than
// in the Config's address sentinel table: IP is emulated state, not
// addressable memory, so it is a plain field rather than a cell.
type Engine struct {
	Config Config

	Dict   *dict.Dictionary
	Data   *memory.DataSpace
	Stack  *memory.Stack
	Return *memory.Stack
	Heap   *memory.Heap
	Instrs *instr.Table

	Mode Mode

	ipAddr  memory.Address
	ipValid bool

	Input  *token.Stream
	Output io.Writer

	// Logf, when non-nil, traces dispatch the way the teacher's vm.logf
	// does (ported from core.go's logging type): called with a short mark
	// and a message for every Execute call.
	Logf func(mark, mess string, args ...interface{})

	builtins     []Builtin
	builtinNames map[string]int

	Observers []Observer
}

// New constructs an Engine with the given configuration. Memory segments
// are seeded at the configured base addresses; the dictionary, instruction
// table, and builtin registry start empty — internal/ops populates them.
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		Config:       cfg,
		Dict:         dict.New(),
		Data:         memory.NewDataSpace(cfg.dataSpaceBase()),
		Stack:        memory.NewStack(cfg.dataStackBase()),
		Return:       memory.NewStack(cfg.returnStackBase()),
		Heap:         memory.NewHeap(cfg.heapBase()),
		Instrs:       instr.New(),
		Mode:         Interpret,
		builtinNames: make(map[string]int),
	}
	for _, opt := range opts {
		opt.apply(e)
	}
	return e
}

func (e *Engine) logf(mark, mess string, args ...interface{}) {
	if e.Logf != nil {
		e.Logf(mark, mess, args...)
	}
}

// IP reports the current instruction pointer, and whether it is valid
// (the outer call stack is "at rest" when it is not). Spec.md §3: "IP, when
// not absent, points to a cell in data space holding an ExecutionToken
// value."
func (e *Engine) IP() (memory.Address, bool) { return e.ipAddr, e.ipValid }

// JumpTo sets IP ← addr without touching the return stack, per spec.md
// §4.6.2's jump_to.
func (e *Engine) JumpTo(addr memory.Address) { e.ipAddr = addr; e.ipValid = true }

// Halt clears IP, as if the outer call stack had fully unwound. No builtin
// word calls it.
func (e *Engine) Halt() { e.ipValid = false }
