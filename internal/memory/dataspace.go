package memory

import "github.com/thirdlang/thirdvm/internal/ferr"

// DataSpace is the append-only bump region compiled definitions and user
// data live in. Spec §3/§4.1: "append-only bump region starting at a
// configured base. top() returns next free cell; push(v) appends; expand(n)
// reserves uninitialized cells. Writes to already-allocated addresses are
// allowed."
type DataSpace struct {
	base   Address
	cells  []Value
}

// NewDataSpace creates a DataSpace starting at base.
func NewDataSpace(base Address) *DataSpace {
	return &DataSpace{base: base}
}

func (d *DataSpace) Base() Address { return d.base }

// End returns one past the last allocated cell.
func (d *DataSpace) End() Address { return d.base.PlusCells(int64(len(d.cells))) }

// Top returns the address of the next free cell, i.e. End().
func (d *DataSpace) Top() Address { return d.End() }

func (d *DataSpace) CheckAddress(a Address) error { return checkAddress(d.base, d.End(), a) }

func (d *DataSpace) ReadValue(a Address) (Value, error) {
	if err := d.CheckAddress(a); err != nil {
		return Value{}, err
	}
	return d.cells[a.CellOffsetFrom(d.base)], nil
}

// WriteValue stores v at a. Unlike Push, this never grows the space: a is
// required to already be allocated (spec §3: "Writes to already-allocated
// addresses are allowed").
func (d *DataSpace) WriteValue(a Address, v Value) error {
	if err := d.CheckAddress(a); err != nil {
		return err
	}
	d.cells[a.CellOffsetFrom(d.base)] = v
	return nil
}

// Push appends one cell holding v, growing the space, and returns the
// address it was written to.
func (d *DataSpace) Push(v Value) Address {
	addr := d.Top()
	d.cells = append(d.cells, v)
	return addr
}

// Expand reserves nCells uninitialized cells and returns the address of the
// first one. Spec §4.1: "allot(n_bytes) rounds up to cell boundary and
// expands top by that many cells."
func (d *DataSpace) Expand(nCells int64) Address {
	addr := d.Top()
	for i := int64(0); i < nCells; i++ {
		d.cells = append(d.cells, NumberValue(0))
	}
	return addr
}

// Allot reserves nBytes worth of cells, rounded up to the next cell
// boundary, mirroring the ALLOT word.
func (d *DataSpace) Allot(nBytes int64) Address {
	nCells := (nBytes + CellSize - 1) / CellSize
	return d.Expand(nCells)
}

// DebugCells returns a copy of every allocated cell, bottom first, for the
// debugger's MEMORY command.
func (d *DataSpace) DebugCells() []Value {
	out := make([]Value, len(d.cells))
	copy(out, d.cells)
	return out
}

// AddressFromOffset validates that raw names a live cell within the space
// and returns the corresponding Address, as used by the user-facing
// address-from-number conversions ( @ ! and friends operate on raw cell
// offsets supplied by user code).
func (d *DataSpace) AddressFromOffset(raw int64) (Address, error) {
	a := AddressFromRaw(raw)
	if err := d.CheckAddress(a); err != nil {
		return Address{}, ferr.ErrInvalidAddress
	}
	return a, nil
}
