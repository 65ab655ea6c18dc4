package memory

import "github.com/thirdlang/thirdvm/internal/ferr"

// Segment is the uniform interface every concrete memory region
// implements. Spec §3: "a uniform interface — base, end, read_value,
// write_value, check_address, polymorphic typed read/write/push. Invariant:
// every access is bounds-checked against the segment holding it."
type Segment interface {
	Base() Address
	End() Address
	CheckAddress(a Address) error
	ReadValue(a Address) (Value, error)
	WriteValue(a Address, v Value) error
}

// checkAddress implements the monotone [base, end) bounds check shared by
// every concrete segment.
func checkAddress(base, end, a Address) error {
	if a.Between(base, end) {
		return nil
	}
	return ferr.ErrAddressOutOfRange
}

// ReadNumber reads a single Number (one cell) at a.
func ReadNumber(s Segment, a Address) (Number, error) {
	v, err := s.ReadValue(a)
	if err != nil {
		return 0, err
	}
	return v.ToNumber(), nil
}

// WriteNumber writes a single Number (one cell) at a.
func WriteNumber(s Segment, a Address, n Number) error {
	return s.WriteValue(a, NumberValue(n))
}

// ReadToken reads a single ExecutionToken (one cell) at a.
func ReadToken(s Segment, a Address) (ExecutionToken, error) {
	v, err := s.ReadValue(a)
	if err != nil {
		return ExecutionToken{}, err
	}
	return v.ToToken(), nil
}

// WriteToken writes a single ExecutionToken (one cell) at a.
func WriteToken(s Segment, a Address, xt ExecutionToken) error {
	return s.WriteValue(a, TokenValue(xt))
}

// ReadByte reads a single signed byte from within the cell containing a,
// per spec §4.7: "Byte operations read/write within the containing cell."
func ReadByte(s Segment, a Address) (Byte, error) {
	cellAddr := AddressFromRaw(a.Raw() - a.CellByte())
	n, err := ReadNumber(s, cellAddr)
	if err != nil {
		return 0, err
	}
	return ToChunks(n)[a.CellByte()], nil
}

// WriteByte writes a single signed byte within the cell containing a,
// read-modify-write on the containing cell.
func WriteByte(s Segment, a Address, b Byte) error {
	cellAddr := AddressFromRaw(a.Raw() - a.CellByte())
	n, err := ReadNumber(s, cellAddr)
	if err != nil {
		return err
	}
	chunks := ToChunks(n)
	chunks[a.CellByte()] = b
	return WriteNumber(s, cellAddr, NumberFromChunks(chunks))
}

// ReadDouble reads a two-cell Double at a, low cell first.
func ReadDouble(s Segment, a Address) (Double, error) {
	lo, err := ReadNumber(s, a)
	if err != nil {
		return Double{}, err
	}
	hi, err := ReadNumber(s, a.PlusCells(1))
	if err != nil {
		return Double{}, err
	}
	return DoubleFromChunks(lo, hi), nil
}

// WriteDouble writes a two-cell Double at a, low cell first. Per spec
// §4.1, "Multi-cell writes check every address before mutating (atomic
// failure)": both addresses are validated before either cell is written.
func WriteDouble(s Segment, a Address, d Double) error {
	if err := s.CheckAddress(a); err != nil {
		return err
	}
	if err := s.CheckAddress(a.PlusCells(1)); err != nil {
		return err
	}
	chunks := d.Chunks()
	if err := WriteNumber(s, a, chunks[0]); err != nil {
		return err
	}
	return WriteNumber(s, a.PlusCells(1), chunks[1])
}
