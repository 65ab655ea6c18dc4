// Package memory implements the evaluator's addressable storage: the cell
// model, the tagged value/execution-token variants, and the concrete
// segments (data space, stacks, heap) that back them.
//
// Grounded on original_source/src/environment/{memory,value,generic_numbers,
// stack,units}.rs and original_source/src/environment/heap.rs, adapted from
// Rust's address/value/generic-number split into one Go package the way the
// teacher (jcorbin/gothird) keeps its memory model (memcore.go) alongside
// the values it stores.
package memory

import "fmt"

// CellSize is the width, in bytes, of one addressable cell. Spec §3.
const CellSize = 8

// PageSize is the width, in bytes, of one heap page. Spec §3.
const PageSize = 4096

// CellsPerPage is the number of cells in one heap page.
const CellsPerPage = PageSize / CellSize

// Address is an opaque byte offset into some segment's address space.
type Address struct{ offset int64 }

// AddressFromRaw constructs an Address from a raw byte offset.
func AddressFromRaw(offset int64) Address { return Address{offset} }

// Raw returns the address as a raw byte offset.
func (a Address) Raw() int64 { return a.offset }

// Cell returns the cell index (address / CellSize) this address falls in.
func (a Address) Cell() int64 { return a.offset / CellSize }

// CellByte returns the byte offset of this address within its cell.
func (a Address) CellByte() int64 { return a.offset % CellSize }

// PlusBytes returns the address advanced by n bytes.
func (a Address) PlusBytes(n int64) Address { return Address{a.offset + n} }

// PlusCells returns the address advanced by n cells.
func (a Address) PlusCells(n int64) Address { return Address{a.offset + n*CellSize} }

// MinusCells returns the address retreated by n cells.
func (a Address) MinusCells(n int64) Address { return Address{a.offset - n*CellSize} }

// Distance returns a-b in bytes.
func (a Address) Distance(b Address) int64 { return a.offset - b.offset }

// CellOffsetFrom returns the number of whole cells between base and a.
func (a Address) CellOffsetFrom(base Address) int64 { return a.Distance(base) / CellSize }

// Less reports whether a precedes b.
func (a Address) Less(b Address) bool { return a.offset < b.offset }

// Between reports whether a is in [lo, hi).
func (a Address) Between(lo, hi Address) bool { return !a.Less(lo) && a.Less(hi) }

// AlignedToCell reports whether the address falls on a cell boundary.
func (a Address) AlignedToCell() bool { return a.offset%CellSize == 0 }

func (a Address) String() string { return fmt.Sprintf("%#x", a.offset) }
