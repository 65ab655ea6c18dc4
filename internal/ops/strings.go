package ops

import (
	"fmt"
	"unicode"

	"github.com/thirdlang/thirdvm/internal/engine"
	"github.com/thirdlang/thirdvm/internal/memory"
)

// registerStrings wires the byte-buffer and string words (CHAR/KEY/WORD,
// -TRAILING, the CMOVE family, ACCEPT, COUNT) grounded on
// string_operations.rs, plus the print words from print_operations.rs.
//
// The original buffers WORD's result in its single grow-only heap region;
// this port keeps two distinct segments (internal/memory's Heap is the
// size-classed ALLOCATE/FREE/RESIZE arena memory.go wires), so the
// byte-packed scratch buffer a transient word read needs is grown out of
// data space instead, the same bump-allocated region colon definitions
// compile into — matching the original's "grow by one cell whenever the
// write pointer catches up with top" policy (DataSpace.Expand).
func registerStrings(e *engine.Engine) {
	e.Register("CHAR", false, getChar)
	e.Register("KEY", false, getChar)

	e.Register("WORD", false, func(e *engine.Engine) error {
		delim, err := e.Stack.PopByte()
		if err != nil {
			return err
		}
		addr, err := readStringToMemory(e, rune(delim))
		if err != nil {
			return err
		}
		e.Stack.PushNumber(addr.Raw())
		return nil
	})

	e.Register("-TRAILING", false, func(e *engine.Engine) error {
		count, err := e.Stack.PopUnsigned()
		if err != nil {
			return err
		}
		addrN, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		addr := memory.AddressFromRaw(addrN)
		seg, err := e.SegmentFor(addr)
		if err != nil {
			return err
		}
		var newCount memory.UnsignedNumber
		for i := memory.UnsignedNumber(0); i < count; i++ {
			b, err := memory.ReadByte(seg, addr.PlusBytes(int64(i)))
			if err != nil {
				return err
			}
			c := rune(byte(b))
			if c < unicode.MaxASCII && !unicode.IsSpace(c) {
				newCount = i + 1
			}
		}
		e.Stack.PushNumber(addrN)
		e.Stack.PushNumber(memory.Number(newCount))
		return nil
	})

	e.Register("CMOVE", false, func(e *engine.Engine) error {
		count, source, destination, err := popMoveArgs(e)
		if err != nil {
			return err
		}
		for i := int64(0); i < count; i++ {
			if err := copyByte(e, source.PlusBytes(i), destination.PlusBytes(i)); err != nil {
				return err
			}
		}
		return nil
	})
	// CMOVE> copies from the top down, the way an overlapping forward move
	// has to when destination lies ahead of source.
	e.Register("CMOVE>", false, func(e *engine.Engine) error {
		count, source, destination, err := popMoveArgs(e)
		if err != nil {
			return err
		}
		for i := count - 1; i >= 0; i-- {
			if err := copyByte(e, source.PlusBytes(i), destination.PlusBytes(i)); err != nil {
				return err
			}
		}
		return nil
	})
	e.Register("MOVE", false, func(e *engine.Engine) error {
		count, source, destination, err := popMoveArgs(e)
		if err != nil {
			return err
		}
		srcSeg, err := e.SegmentFor(source)
		if err != nil {
			return err
		}
		bytes := make([]memory.Byte, count)
		for i := int64(0); i < count; i++ {
			b, err := memory.ReadByte(srcSeg, source.PlusBytes(i))
			if err != nil {
				return err
			}
			bytes[i] = b
		}
		dstSeg, err := e.SegmentFor(destination)
		if err != nil {
			return err
		}
		for i, b := range bytes {
			if err := memory.WriteByte(dstSeg, destination.PlusBytes(int64(i)), b); err != nil {
				return err
			}
		}
		return nil
	})

	e.Register("ACCEPT", false, func(e *engine.Engine) error {
		count, err := e.Stack.PopUnsigned()
		if err != nil {
			return err
		}
		addrN, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		addr := memory.AddressFromRaw(addrN)
		seg, err := e.SegmentFor(addr)
		if err != nil {
			return err
		}
		var copied memory.UnsignedNumber
		for copied < count {
			c, err := e.Input.NextChar()
			if err != nil {
				return err
			}
			if c == '\n' {
				break
			}
			if err := memory.WriteByte(seg, addr.PlusBytes(int64(copied)), memory.Byte(byte(c))); err != nil {
				return err
			}
			copied++
		}
		return nil
	})

	e.Register("COUNT", false, func(e *engine.Engine) error {
		addrN, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		addr := memory.AddressFromRaw(addrN)
		seg, err := e.SegmentFor(addr)
		if err != nil {
			return err
		}
		length, err := memory.ReadByte(seg, addr)
		if err != nil {
			return err
		}
		e.Stack.PushNumber(addr.PlusBytes(1).Raw())
		e.Stack.PushNumber(memory.Number(byte(length)))
		return nil
	})

	registerPrint(e)
}

func getChar(e *engine.Engine) error {
	c, err := e.Input.NextChar()
	if err != nil {
		return err
	}
	e.Stack.PushByte(memory.Byte(c))
	return nil
}

// readStringToMemory reads characters up to delimiter into a freshly
// reserved data-space buffer: one length byte followed by the characters
// themselves, all byte-addressed, per string_operations.rs's
// read_string_to_memory.
func readStringToMemory(e *engine.Engine, delimiter rune) (memory.Address, error) {
	lengthAddr := e.Data.Top()
	e.Data.Expand(1)
	stringAddr := lengthAddr.PlusBytes(1)

	var length int64
	for {
		c, err := e.Input.NextChar()
		if err != nil {
			return memory.Address{}, err
		}
		if c == delimiter {
			break
		}
		target := stringAddr.PlusBytes(length)
		if !target.Less(e.Data.Top()) {
			e.Data.Expand(1)
		}
		if err := memory.WriteByte(e.Data, target, memory.Byte(byte(c))); err != nil {
			return memory.Address{}, err
		}
		length++
	}
	if err := memory.WriteByte(e.Data, lengthAddr, memory.Byte(byte(length))); err != nil {
		return memory.Address{}, err
	}
	return lengthAddr, nil
}

// popMoveArgs pops the common (source, destination, count) operands shared
// by CMOVE/CMOVE>/MOVE, in their on-stack order: count on top, then
// destination, then source.
func popMoveArgs(e *engine.Engine) (count int64, source, destination memory.Address, err error) {
	c, err := e.Stack.PopUnsigned()
	if err != nil {
		return 0, memory.Address{}, memory.Address{}, err
	}
	d, err := e.Stack.PopNumber()
	if err != nil {
		return 0, memory.Address{}, memory.Address{}, err
	}
	s, err := e.Stack.PopNumber()
	if err != nil {
		return 0, memory.Address{}, memory.Address{}, err
	}
	return int64(c), memory.AddressFromRaw(s), memory.AddressFromRaw(d), nil
}

func copyByte(e *engine.Engine, source, destination memory.Address) error {
	srcSeg, err := e.SegmentFor(source)
	if err != nil {
		return err
	}
	b, err := memory.ReadByte(srcSeg, source)
	if err != nil {
		return err
	}
	dstSeg, err := e.SegmentFor(destination)
	if err != nil {
		return err
	}
	return memory.WriteByte(dstSeg, destination, b)
}

// registerPrint wires the numeric-output words, grounded on
// print_operations.rs's generic pop_and_print monomorphized over Number,
// Double, Byte and UnsignedNumber.
func registerPrint(e *engine.Engine) {
	e.Register(".", false, func(e *engine.Engine) error {
		n, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		return e.Write(fmt.Sprintf("%d ", n))
	})
	e.Register("D.", false, func(e *engine.Engine) error {
		d, err := e.Stack.PopDouble()
		if err != nil {
			return err
		}
		return e.Write(d.SignedString() + " ")
	})
	e.Register("C.", false, func(e *engine.Engine) error {
		b, err := e.Stack.PopByte()
		if err != nil {
			return err
		}
		return e.Write(fmt.Sprintf("%d ", b))
	})
	e.Register("U.", false, func(e *engine.Engine) error {
		n, err := e.Stack.PopUnsigned()
		if err != nil {
			return err
		}
		return e.Write(fmt.Sprintf("%d ", n))
	})
	e.Register("CR", false, func(e *engine.Engine) error {
		return e.Writeln("")
	})
}
