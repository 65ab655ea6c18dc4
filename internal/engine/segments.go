package engine

import (
	"github.com/thirdlang/thirdvm/internal/ferr"
	"github.com/thirdlang/thirdvm/internal/memory"
)

// SegmentFor resolves a raw address to whichever backing segment owns it —
// data space, heap, data stack, or return stack — so that the generic
// memory words (@ ! C@ C! CMOVE ...) can operate uniformly on an address
// regardless of which region it was allocated from, per spec.md §3's "every
// access is bounds-checked against the segment holding it."
func (e *Engine) SegmentFor(addr memory.Address) (memory.Segment, error) {
	for _, seg := range []memory.Segment{e.Data, e.Heap, e.Stack, e.Return} {
		if seg.CheckAddress(addr) == nil {
			return seg, nil
		}
	}
	return nil, ferr.ErrAddressOutOfRange
}
