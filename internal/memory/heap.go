package memory

import "github.com/thirdlang/thirdvm/internal/ferr"

// Heap sizing constants, in bytes, per spec §4.2.
const (
	SmallBinSize = 0x200
	SmallBinStep = 0x10
	LargeBinSize = 0x1000
	LargeBinStep = 0x80

	PagesPerRange = 16
	RangeSize     = PageSize * PagesPerRange
	CellsPerRange = CellsPerPage * PagesPerRange
)

// pageRange is one 16-page region serving a single size class. Ported from
// original_source/src/environment/heap.rs's PageRange.
type pageRange struct {
	base      Address
	chunkSize int64 // cells
	cells     []Value
	freeList  []Address
}

func newPageRange(base Address, chunkSize int64) *pageRange {
	return &pageRange{base: base, chunkSize: chunkSize}
}

func (r *pageRange) isFull() bool {
	return int64(len(r.cells)) == CellsPerRange && len(r.freeList) == 0
}

func (r *pageRange) allocateNext() (Address, error) {
	if n := len(r.freeList); n > 0 {
		addr := r.freeList[n-1]
		r.freeList = r.freeList[:n-1]
		return addr, nil
	}
	if CellsPerRange-int64(len(r.cells)) >= r.chunkSize {
		addr := r.base.PlusCells(int64(len(r.cells)))
		for i := int64(0); i < r.chunkSize; i++ {
			r.cells = append(r.cells, NumberValue(0))
		}
		return addr, nil
	}
	return Address{}, ferr.ErrInsufficientMemory
}

func (r *pageRange) inRange(a Address) bool {
	return a.Between(r.base, r.base.PlusCells(int64(len(r.cells))))
}

// free reclaims addr: the tail-most bump chunk shrinks the used region,
// anything else is pushed onto the free list. Spec §4.2: "if the freed
// chunk is the last bump-allocated chunk, shrink the bump tail; otherwise
// push it onto the free list."
func (r *pageRange) free(addr Address) {
	if addr.CellOffsetFrom(r.base)+r.chunkSize == int64(len(r.cells)) {
		r.cells = r.cells[:int64(len(r.cells))-r.chunkSize]
	} else {
		r.freeList = append(r.freeList, addr)
	}
}

func (r *pageRange) write(addr Address, v Value) { r.cells[addr.CellOffsetFrom(r.base)] = v }
func (r *pageRange) read(addr Address) Value     { return r.cells[addr.CellOffsetFrom(r.base)] }

// bin holds one size class's table of page-ranges, keyed by a granularity
// step, per spec §4.2.
type bin struct {
	sections  [][]*pageRange
	startSize int64
	endSize   int64
	step      int64
}

func newBin(startSize, endSize, step int64) *bin {
	n := (endSize-startSize)/step + 1
	return &bin{sections: make([][]*pageRange, n), startSize: startSize, endSize: endSize, step: step}
}

func (b *bin) ranges(size int64) (int64, *[]*pageRange, error) {
	if size < b.startSize || size > b.endSize {
		return 0, nil, ferr.ErrInvalidSize
	}
	localSize := ((size + b.step - 1) / b.step) * b.step
	index := (localSize - b.startSize) / b.step
	return localSize, &b.sections[index], nil
}

// Heap is the two-tier size-classed allocator backing ALLOCATE/FREE/RESIZE.
// Spec §4.2.
type Heap struct {
	base        Address
	small       *bin
	large       *bin
	sizeLookup  []int64 // chunk size (cells) by range index, append-only
	rangeByAddr map[Address]*pageRange
}

// NewHeap creates a Heap whose ranges are carved out starting at base.
func NewHeap(base Address) *Heap {
	return &Heap{
		base:        base,
		small:       newBin(0, SmallBinSize/CellSize, SmallBinStep/CellSize),
		large:       newBin(SmallBinSize/CellSize, LargeBinSize/CellSize, LargeBinStep/CellSize),
		rangeByAddr: make(map[Address]*pageRange),
	}
}

func (h *Heap) binFor(sizeCells int64) *bin {
	if sizeCells < SmallBinSize/CellSize {
		return h.small
	}
	return h.large
}

// Allocate returns the address of a new allocation able to hold sizeBytes.
func (h *Heap) Allocate(sizeBytes int64) (Address, error) {
	sizeCells := (sizeBytes + CellSize - 1) / CellSize

	sizeCells, table, err := h.binFor(sizeCells).ranges(sizeCells)
	if err != nil {
		return Address{}, err
	}

	// Scan backwards for the first non-full range, moving it to the tail
	// so recently-used ranges stay there. Spec §4.2.
	var r *pageRange
	for i := len(*table) - 1; i >= 0; i-- {
		if !(*table)[i].isFull() {
			if i < len(*table)-1 {
				(*table)[i], (*table)[len(*table)-1] = (*table)[len(*table)-1], (*table)[i]
			}
			r = (*table)[len(*table)-1]
			break
		}
	}
	if r == nil {
		base := h.base.PlusBytes(RangeSize * int64(len(h.sizeLookup)))
		h.sizeLookup = append(h.sizeLookup, sizeCells)
		r = newPageRange(base, sizeCells)
		*table = append(*table, r)
		h.rangeByAddr[base] = r
	}

	addr, err := r.allocateNext()
	if err != nil {
		return Address{}, err
	}
	return addr, nil
}

func (h *Heap) rangeIndex(addr Address) int64 {
	return addr.Distance(h.base) / RangeSize
}

func (h *Heap) rangeFor(addr Address) (*pageRange, error) {
	idx := h.rangeIndex(addr)
	if idx < 0 || idx >= int64(len(h.sizeLookup)) {
		return nil, ferr.ErrInvalidAddress
	}
	rangeBase := h.base.PlusBytes(RangeSize * idx)
	r, ok := h.rangeByAddr[rangeBase]
	if !ok || !r.inRange(addr) {
		return nil, ferr.ErrInvalidAddress
	}
	return r, nil
}

// Free reclaims the chunk at addr.
func (h *Heap) Free(addr Address) error {
	r, err := h.rangeFor(addr)
	if err != nil {
		return err
	}
	r.free(addr)
	return nil
}

// Resize changes the allocation at addr to hold newSizeBytes. If the
// existing size class already fits, addr is returned unchanged; otherwise a
// fresh allocation is made and the old one freed. Spec §4.2: "The resize
// contract does not preserve contents when the address changes."
func (h *Heap) Resize(addr Address, newSizeBytes int64) (Address, error) {
	r, err := h.rangeFor(addr)
	if err != nil {
		return Address{}, err
	}
	newSizeCells := (newSizeBytes + CellSize - 1) / CellSize
	if newSizeCells <= r.chunkSize {
		return addr, nil
	}
	newAddr, err := h.Allocate(newSizeBytes)
	if err != nil {
		return Address{}, err
	}
	r.free(addr)
	return newAddr, nil
}

func (h *Heap) Base() Address { return h.base }
func (h *Heap) End() Address  { return h.base.PlusBytes(RangeSize * int64(len(h.sizeLookup))) }

func (h *Heap) CheckAddress(a Address) error {
	if _, err := h.rangeFor(a); err != nil {
		return ferr.ErrAddressOutOfRange
	}
	return nil
}

func (h *Heap) ReadValue(a Address) (Value, error) {
	r, err := h.rangeFor(a)
	if err != nil {
		return Value{}, ferr.ErrAddressOutOfRange
	}
	return r.read(a), nil
}

func (h *Heap) WriteValue(a Address, v Value) error {
	r, err := h.rangeFor(a)
	if err != nil {
		return ferr.ErrAddressOutOfRange
	}
	r.write(a, v)
	return nil
}
