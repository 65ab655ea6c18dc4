package ops

import (
	"github.com/thirdlang/thirdvm/internal/engine"
	"github.com/thirdlang/thirdvm/internal/memory"
)

// registerMemory wires the generic memory-access words, grounded on
// memory_operations.rs's dereference/memory_write/number_dereference family
// (monomorphized here over plain Number, Byte and Double rather than a
// generic glue trait — see arithmetic.go's package doc).
func registerMemory(e *engine.Engine) {
	e.Register("@", false, func(e *engine.Engine) error {
		n, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		addr := memory.AddressFromRaw(n)
		seg, err := e.SegmentFor(addr)
		if err != nil {
			return err
		}
		v, err := seg.ReadValue(addr)
		if err != nil {
			return err
		}
		e.Stack.PushValue(v)
		return nil
	})
	e.Register("!", false, func(e *engine.Engine) error {
		n, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		v, err := e.Stack.PopValue()
		if err != nil {
			return err
		}
		addr := memory.AddressFromRaw(n)
		seg, err := e.SegmentFor(addr)
		if err != nil {
			return err
		}
		return seg.WriteValue(addr, v)
	})
	e.Register("C@", false, func(e *engine.Engine) error {
		n, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		addr := memory.AddressFromRaw(n)
		seg, err := e.SegmentFor(addr)
		if err != nil {
			return err
		}
		b, err := memory.ReadByte(seg, addr)
		if err != nil {
			return err
		}
		e.Stack.PushByte(b)
		return nil
	})
	e.Register("C!", false, func(e *engine.Engine) error {
		n, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		b, err := e.Stack.PopByte()
		if err != nil {
			return err
		}
		addr := memory.AddressFromRaw(n)
		seg, err := e.SegmentFor(addr)
		if err != nil {
			return err
		}
		return memory.WriteByte(seg, addr, b)
	})
	e.Register("2@", false, func(e *engine.Engine) error {
		n, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		addr := memory.AddressFromRaw(n)
		seg, err := e.SegmentFor(addr)
		if err != nil {
			return err
		}
		d, err := memory.ReadDouble(seg, addr)
		if err != nil {
			return err
		}
		e.Stack.PushDouble(d)
		return nil
	})
	e.Register("2!", false, func(e *engine.Engine) error {
		n, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		d, err := e.Stack.PopDouble()
		if err != nil {
			return err
		}
		addr := memory.AddressFromRaw(n)
		seg, err := e.SegmentFor(addr)
		if err != nil {
			return err
		}
		return memory.WriteDouble(seg, addr, d)
	})
	e.Register(",", false, func(e *engine.Engine) error {
		v, err := e.Stack.PopValue()
		if err != nil {
			return err
		}
		e.Data.Push(v)
		return nil
	})

	registerHeapAllocator(e)
}

// registerHeapAllocator wires ALLOCATE/FREE/RESIZE against the size-classed
// Heap allocator (internal/memory/heap.go), grounded on
// original_source/src/environment/heap.rs's size-classed bin allocator —
// the original's memory_operations.rs has no allocator words of its own
// (its single memory region only ever grows), so these are new words this
// port's heap segment earns by existing as a distinct addressable region
// (spec.md §3/DESIGN.md).
func registerHeapAllocator(e *engine.Engine) {
	e.Register("ALLOCATE", false, func(e *engine.Engine) error {
		size, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		addr, err := e.Heap.Allocate(size)
		if err != nil {
			e.Stack.PushNumber(-1)
			return nil
		}
		e.Stack.PushNumber(addr.Raw())
		e.Stack.PushNumber(0)
		return nil
	})
	e.Register("FREE", false, func(e *engine.Engine) error {
		n, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		if err := e.Heap.Free(memory.AddressFromRaw(n)); err != nil {
			e.Stack.PushNumber(-1)
			return nil
		}
		e.Stack.PushNumber(0)
		return nil
	})
	e.Register("RESIZE", false, func(e *engine.Engine) error {
		size, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		n, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		addr, err := e.Heap.Resize(memory.AddressFromRaw(n), size)
		if err != nil {
			e.Stack.PushNumber(-1)
			return nil
		}
		e.Stack.PushNumber(addr.Raw())
		e.Stack.PushNumber(0)
		return nil
	})
}
