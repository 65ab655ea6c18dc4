package memory

import "github.com/thirdlang/thirdvm/internal/ferr"

// Stack is a LIFO vector of values with a base address, used for both the
// data stack and the return stack (spec §3: "vector of values with a base
// address; supports typed push/pop and frame-relative reads for locals").
type Stack struct {
	base   Address
	values []Value
}

// NewStack creates a Stack whose base address is base (used only for
// diagnostics and frame-relative local addressing; the vector itself grows
// independently of any backing memory region).
func NewStack(base Address) *Stack { return &Stack{base: base} }

func (s *Stack) Base() Address { return s.base }
func (s *Stack) End() Address  { return s.base.PlusCells(int64(len(s.values))) }
func (s *Stack) Len() int      { return len(s.values) }
func (s *Stack) Depth() int    { return len(s.values) }

func (s *Stack) CheckAddress(a Address) error { return checkAddress(s.base, s.End(), a) }

func (s *Stack) ReadValue(a Address) (Value, error) {
	if err := s.CheckAddress(a); err != nil {
		return Value{}, err
	}
	return s.values[a.CellOffsetFrom(s.base)], nil
}

func (s *Stack) WriteValue(a Address, v Value) error {
	if err := s.CheckAddress(a); err != nil {
		return err
	}
	s.values[a.CellOffsetFrom(s.base)] = v
	return nil
}

// PushValue pushes a raw Value.
func (s *Stack) PushValue(v Value) { s.values = append(s.values, v) }

// PopValue pops a raw Value.
func (s *Stack) PopValue() (Value, error) {
	if len(s.values) == 0 {
		return Value{}, ferr.ErrStackUnderflow
	}
	v := s.values[len(s.values)-1]
	s.values = s.values[:len(s.values)-1]
	return v, nil
}

// Peek returns the top value without popping it.
func (s *Stack) Peek() (Value, error) {
	if len(s.values) == 0 {
		return Value{}, ferr.ErrStackUnderflow
	}
	return s.values[len(s.values)-1], nil
}

// PeekAt returns the value i cells below the top (0 is the top itself), as
// used by PICK.
func (s *Stack) PeekAt(i int) (Value, error) {
	idx := len(s.values) - 1 - i
	if idx < 0 || idx >= len(s.values) {
		return Value{}, ferr.ErrStackUnderflow
	}
	return s.values[idx], nil
}

// ToSlice returns a copy of the stack contents, bottom first, for
// diagnostics and the embedder's stack_values()/stack_numbers() accessors.
func (s *Stack) ToSlice() []Value {
	out := make([]Value, len(s.values))
	copy(out, s.values)
	return out
}

// PushNumber pushes a single Number.
func (s *Stack) PushNumber(n Number) { s.PushValue(NumberValue(n)) }

// PopNumber pops a single Number, coercing an execution-token payload via
// Value.ToNumber the way the original source's generic Value::to_number
// does.
func (s *Stack) PopNumber() (Number, error) {
	v, err := s.PopValue()
	if err != nil {
		return 0, err
	}
	return v.ToNumber(), nil
}

// PopUnsigned pops a single Number reinterpreted as unsigned.
func (s *Stack) PopUnsigned() (UnsignedNumber, error) {
	n, err := s.PopNumber()
	return UnsignedNumber(n), err
}

// PushToken pushes a single ExecutionToken.
func (s *Stack) PushToken(xt ExecutionToken) { s.PushValue(TokenValue(xt)) }

// PopToken pops a single ExecutionToken; a Number on top is rejected, per
// spec §3: "ExecutionToken::pop_from_stack ... Err(InvalidExecutionToken)"
// for popped values that are not a token variant.
func (s *Stack) PopToken() (ExecutionToken, error) {
	v, err := s.PopValue()
	if err != nil {
		return ExecutionToken{}, err
	}
	if v.Kind != ValueIsToken {
		return ExecutionToken{}, ferr.ErrInvalidExecutionToken
	}
	return v.Token, nil
}

// PushByte pushes b, sign-extended to a full cell (spec §4.1: "Bytes occupy
// one cell with sign-extension").
func (s *Stack) PushByte(b Byte) { s.PushNumber(Number(b)) }

// PopByte pops a cell and narrows it to a byte.
func (s *Stack) PopByte() (Byte, error) {
	n, err := s.PopNumber()
	if err != nil {
		return 0, err
	}
	return ToChunks(n)[0], nil
}

// PushDouble pushes d across two cells, low cell first then high cell —
// i.e. the high half ends up on top, so that a subsequent PopNumber;
// PopNumber reads high then low, matching PopDouble's own order, so
// PopDouble right after PushDouble(d) returns d.
func (s *Stack) PushDouble(d Double) {
	chunks := d.Chunks()
	s.PushNumber(chunks[0]) // low
	s.PushNumber(chunks[1]) // high
}

// PopDouble pops a Double pushed by PushDouble: the high cell comes off
// first, then the low cell.
func (s *Stack) PopDouble() (Double, error) {
	hi, err := s.PopNumber()
	if err != nil {
		return Double{}, err
	}
	lo, err := s.PopNumber()
	if err != nil {
		return Double{}, err
	}
	return DoubleFromChunks(lo, hi), nil
}
