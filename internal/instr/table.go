// Package instr holds the compiled-instruction table: the small set of
// primitive operations a colon-definition's body is threaded out of
// (push a literal, push into data space, branch, conditional branch).
//
// original_source/src/compiled_instructions/instruction_compiler.rs
// represents each of these as a boxed closure captured over its operand
// (Box<dyn Fn(&mut ForthState) -> ForthResult>). Go has no trait-object
// closure capture that the engine package could invoke without instr
// importing engine — and engine must import instr to dispatch compiled
// code, so a closure-based port would be a direct import cycle. Kept as
// plain tagged data instead: the table stores what each instruction is,
// and internal/engine owns what executing one does.
package instr

import "github.com/thirdlang/thirdvm/internal/memory"

// Kind distinguishes the four compiled-instruction shapes.
type Kind int

const (
	// Push pushes Value onto the data stack.
	Push Kind = iota
	// MemPush appends Value to data space when executed. No builtin word
	// compiles one; 2LITERAL compiles two Push instructions.
	MemPush
	// Branch unconditionally sets IP to Destination.
	Branch
	// BranchFalse pops an UnsignedNumber; sets IP to Destination only if
	// it is zero, per instruction_compiler.rs's BranchFalse.
	BranchFalse
)

// Instruction is one compiled-instruction-table entry.
type Instruction struct {
	Kind        Kind
	Value       memory.Value
	Destination memory.Address
}

func (k Kind) String() string {
	switch k {
	case Push:
		return "push"
	case MemPush:
		return "mem-push"
	case Branch:
		return "jmp"
	case BranchFalse:
		return "jz"
	default:
		return "unknown"
	}
}

func (i Instruction) String() string {
	switch i.Kind {
	case Push, MemPush:
		return i.Kind.String() + " " + i.Value.String()
	case Branch, BranchFalse:
		return i.Kind.String() + " " + i.Destination.String()
	default:
		return "unknown instruction"
	}
}

// Table is the growable vector of compiled instructions shared by every
// colon-definition body; an ExecutionToken of kind TokenCompiledInstruction
// indexes into it.
type Table struct {
	instructions []Instruction
}

// New creates an empty Table.
func New() *Table { return &Table{} }

// Len reports how many instructions have been compiled so far; used as the
// offset of the next one.
func (t *Table) Len() int { return len(t.instructions) }

// Get returns the instruction at index.
func (t *Table) Get(index int) Instruction { return t.instructions[index] }

func (t *Table) add(instr Instruction) memory.ExecutionToken {
	index := len(t.instructions)
	t.instructions = append(t.instructions, instr)
	return memory.CompiledInstructionToken(index)
}

// CompilePush compiles a Push instruction and returns its token.
func (t *Table) CompilePush(v memory.Value) memory.ExecutionToken {
	return t.add(Instruction{Kind: Push, Value: v})
}

// CompileMemPush compiles a MemPush instruction and returns its token.
func (t *Table) CompileMemPush(v memory.Value) memory.ExecutionToken {
	return t.add(Instruction{Kind: MemPush, Value: v})
}

// CompileBranch compiles an unconditional Branch instruction and returns
// its token.
func (t *Table) CompileBranch(dest memory.Address) memory.ExecutionToken {
	return t.add(Instruction{Kind: Branch, Destination: dest})
}

// CompileBranchFalse compiles a BranchFalse instruction and returns its
// token.
func (t *Table) CompileBranchFalse(dest memory.Address) memory.ExecutionToken {
	return t.add(Instruction{Kind: BranchFalse, Destination: dest})
}

// Patch overwrites the destination of an already-compiled Branch or
// BranchFalse instruction, used to back-patch forward references (IF's
// eventual ELSE or THEN, ELSE's THEN, WHILE's REPEAT).
func (t *Table) Patch(xt memory.ExecutionToken, dest memory.Address) {
	t.instructions[xt.Index].Destination = dest
}
