// Package ops registers every native builtin word against an *engine.Engine:
// arithmetic, stack shuffling, memory access, control flow, the compiler
// words, data-defining words, and string/print words. Grounded on
// original_source/src/operations/*.rs, one file per source module.
//
// The Rust original expresses each family once, generic over a Glue trait
// (Number / DoubleNumber / UnsignedNumber / UnsignedDoubleNumber) and
// monomorphizes a name-prefix matrix ("", "D", "U", "UD", ...) at compile
// time. Go has no matching generic-numeric-trait story cheap enough to
// preserve that matrix without reintroducing reflection or interface
// boxing, so each width is a handful of plain functions instead.
package ops

import (
	"github.com/thirdlang/thirdvm/internal/engine"
	"github.com/thirdlang/thirdvm/internal/ferr"
	"github.com/thirdlang/thirdvm/internal/memory"
)

func boolToNumber(b bool) memory.Number {
	if b {
		return -1
	}
	return 0
}

func registerArithmetic(e *engine.Engine) {
	binary := func(f func(a, b memory.Number) (memory.Number, error)) func(e *engine.Engine) error {
		return func(e *engine.Engine) error {
			a, err := e.Stack.PopNumber()
			if err != nil {
				return err
			}
			b, err := e.Stack.PopNumber()
			if err != nil {
				return err
			}
			r, err := f(a, b)
			if err != nil {
				return err
			}
			e.Stack.PushNumber(r)
			return nil
		}
	}
	mono := func(f func(a memory.Number) memory.Number) func(e *engine.Engine) error {
		return func(e *engine.Engine) error {
			a, err := e.Stack.PopNumber()
			if err != nil {
				return err
			}
			e.Stack.PushNumber(f(a))
			return nil
		}
	}

	e.Register("+", false, binary(func(a, b memory.Number) (memory.Number, error) { return b + a, nil }))
	e.Register("-", false, binary(func(a, b memory.Number) (memory.Number, error) { return b - a, nil }))
	e.Register("*", false, binary(func(a, b memory.Number) (memory.Number, error) { return b * a, nil }))
	e.Register("/", false, binary(func(a, b memory.Number) (memory.Number, error) {
		if a == 0 {
			return 0, ferr.ErrDivisionByZero
		}
		return b / a, nil
	}))
	e.Register("MOD", false, binary(func(a, b memory.Number) (memory.Number, error) {
		if a == 0 {
			return 0, ferr.ErrDivisionByZero
		}
		return b % a, nil
	}))
	e.Register("/MOD", false, func(e *engine.Engine) error {
		a, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		b, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		if a == 0 {
			return ferr.ErrDivisionByZero
		}
		e.Stack.PushNumber(b % a)
		e.Stack.PushNumber(b / a)
		return nil
	})
	e.Register("MIN", false, binary(func(a, b memory.Number) (memory.Number, error) {
		if b < a {
			return b, nil
		}
		return a, nil
	}))
	e.Register("MAX", false, binary(func(a, b memory.Number) (memory.Number, error) {
		if b > a {
			return b, nil
		}
		return a, nil
	}))
	e.Register("NEGATE", false, mono(func(a memory.Number) memory.Number { return -a }))
	e.Register("ABS", false, mono(func(a memory.Number) memory.Number {
		if a < 0 {
			return -a
		}
		return a
	}))
	e.Register("1+", false, mono(func(a memory.Number) memory.Number { return a + 1 }))
	e.Register("1-", false, mono(func(a memory.Number) memory.Number { return a - 1 }))
	e.Register("2*", false, mono(func(a memory.Number) memory.Number { return a << 1 }))
	e.Register("2/", false, mono(func(a memory.Number) memory.Number { return a >> 1 }))

	e.Register("=", false, binary(func(a, b memory.Number) (memory.Number, error) { return boolToNumber(a == b), nil }))
	e.Register("<>", false, binary(func(a, b memory.Number) (memory.Number, error) { return boolToNumber(a != b), nil }))
	e.Register("<", false, binary(func(a, b memory.Number) (memory.Number, error) { return boolToNumber(b < a), nil }))
	e.Register(">", false, binary(func(a, b memory.Number) (memory.Number, error) { return boolToNumber(b > a), nil }))
	e.Register("<=", false, binary(func(a, b memory.Number) (memory.Number, error) { return boolToNumber(b <= a), nil }))
	e.Register(">=", false, binary(func(a, b memory.Number) (memory.Number, error) { return boolToNumber(b >= a), nil }))
	e.Register("0=", false, mono(func(a memory.Number) memory.Number { return boolToNumber(a == 0) }))
	e.Register("0<", false, mono(func(a memory.Number) memory.Number { return boolToNumber(a < 0) }))
	e.Register("0>", false, mono(func(a memory.Number) memory.Number { return boolToNumber(a > 0) }))

	e.Register("AND", false, binary(func(a, b memory.Number) (memory.Number, error) { return b & a, nil }))
	e.Register("OR", false, binary(func(a, b memory.Number) (memory.Number, error) { return b | a, nil }))
	e.Register("XOR", false, binary(func(a, b memory.Number) (memory.Number, error) { return b ^ a, nil }))
	e.Register("INVERT", false, mono(func(a memory.Number) memory.Number { return ^a }))
	e.Register("LSHIFT", false, binary(func(a, b memory.Number) (memory.Number, error) {
		return memory.Number(memory.UnsignedNumber(b) << memory.UnsignedNumber(a)), nil
	}))
	e.Register("RSHIFT", false, binary(func(a, b memory.Number) (memory.Number, error) {
		return memory.Number(memory.UnsignedNumber(b) >> memory.UnsignedNumber(a)), nil
	}))

	registerUnsigned(e)
	registerDouble(e)
	registerMixedWidth(e)
}

func registerUnsigned(e *engine.Engine) {
	binaryU := func(f func(a, b memory.UnsignedNumber) (memory.Number, error)) func(e *engine.Engine) error {
		return func(e *engine.Engine) error {
			a, err := e.Stack.PopUnsigned()
			if err != nil {
				return err
			}
			b, err := e.Stack.PopUnsigned()
			if err != nil {
				return err
			}
			r, err := f(a, b)
			if err != nil {
				return err
			}
			e.Stack.PushNumber(r)
			return nil
		}
	}

	e.Register("U<", false, binaryU(func(a, b memory.UnsignedNumber) (memory.Number, error) { return boolToNumber(b < a), nil }))
	e.Register("U>", false, binaryU(func(a, b memory.UnsignedNumber) (memory.Number, error) { return boolToNumber(b > a), nil }))
	e.Register("U<=", false, binaryU(func(a, b memory.UnsignedNumber) (memory.Number, error) { return boolToNumber(b <= a), nil }))
	e.Register("U>=", false, binaryU(func(a, b memory.UnsignedNumber) (memory.Number, error) { return boolToNumber(b >= a), nil }))
	e.Register("U/", false, binaryU(func(a, b memory.UnsignedNumber) (memory.Number, error) {
		if a == 0 {
			return 0, ferr.ErrDivisionByZero
		}
		return memory.Number(b / a), nil
	}))
	e.Register("UMIN", false, binaryU(func(a, b memory.UnsignedNumber) (memory.Number, error) {
		if b < a {
			return memory.Number(b), nil
		}
		return memory.Number(a), nil
	}))
	e.Register("UMAX", false, binaryU(func(a, b memory.UnsignedNumber) (memory.Number, error) {
		if b > a {
			return memory.Number(b), nil
		}
		return memory.Number(a), nil
	}))
}

func registerDouble(e *engine.Engine) {
	binaryD := func(f func(a, b memory.Double) memory.Double) func(e *engine.Engine) error {
		return func(e *engine.Engine) error {
			a, err := e.Stack.PopDouble()
			if err != nil {
				return err
			}
			b, err := e.Stack.PopDouble()
			if err != nil {
				return err
			}
			e.Stack.PushDouble(f(a, b))
			return nil
		}
	}
	cmpD := func(f func(a, b memory.Double) bool) func(e *engine.Engine) error {
		return func(e *engine.Engine) error {
			a, err := e.Stack.PopDouble()
			if err != nil {
				return err
			}
			b, err := e.Stack.PopDouble()
			if err != nil {
				return err
			}
			e.Stack.PushNumber(boolToNumber(f(a, b)))
			return nil
		}
	}
	signedLess := func(a, b memory.Double) bool {
		sa, sb := a.Hi>>63 != 0, b.Hi>>63 != 0
		if sa != sb {
			return sa
		}
		if a.Hi != b.Hi {
			return a.Hi < b.Hi
		}
		return a.Lo < b.Lo
	}

	e.Register("D+", false, binaryD(func(a, b memory.Double) memory.Double { return b.Add(a) }))
	e.Register("D-", false, binaryD(func(a, b memory.Double) memory.Double { return b.Add(a.Negate()) }))
	e.Register("DNEGATE", false, func(e *engine.Engine) error {
		d, err := e.Stack.PopDouble()
		if err != nil {
			return err
		}
		e.Stack.PushDouble(d.Negate())
		return nil
	})
	e.Register("D=", false, cmpD(func(a, b memory.Double) bool { return a == b }))
	e.Register("D<>", false, cmpD(func(a, b memory.Double) bool { return a != b }))
	e.Register("D<", false, cmpD(func(a, b memory.Double) bool { return signedLess(b, a) }))
	e.Register("D>", false, cmpD(func(a, b memory.Double) bool { return signedLess(a, b) }))
	e.Register("D0=", false, func(e *engine.Engine) error {
		d, err := e.Stack.PopDouble()
		if err != nil {
			return err
		}
		e.Stack.PushNumber(boolToNumber(d == memory.Double{}))
		return nil
	})
}

// registerMixedWidth implements the "growing" operators (M*/, UM*, UM/MOD)
// that take narrow operands but compute at double width to avoid overflow,
// per arithmetic_operations.rs's SingleToDoubleGlue/UnsignedSingleToDoubleGlue.
func registerMixedWidth(e *engine.Engine) {
	e.Register("M*/", false, func(e *engine.Engine) error {
		c, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		b, err := e.Stack.PopNumber()
		if err != nil {
			return err
		}
		a, err := e.Stack.PopDouble()
		if err != nil {
			return err
		}
		if c == 0 {
			return ferr.ErrDivisionByZero
		}
		return mulDivDouble(e, a, b, c)
	})
	e.Register("UM*", false, func(e *engine.Engine) error {
		a, err := e.Stack.PopUnsigned()
		if err != nil {
			return err
		}
		b, err := e.Stack.PopUnsigned()
		if err != nil {
			return err
		}
		hi, lo := mul64(uint64(a), uint64(b))
		e.Stack.PushDouble(memory.Double{Lo: lo, Hi: hi})
		return nil
	})
	e.Register("UM/MOD", false, func(e *engine.Engine) error {
		divisor, err := e.Stack.PopUnsigned()
		if err != nil {
			return err
		}
		d, err := e.Stack.PopDouble()
		if err != nil {
			return err
		}
		if divisor == 0 {
			return ferr.ErrDivisionByZero
		}
		quot, rem := divmod128(d.Hi, d.Lo, uint64(divisor))
		e.Stack.PushNumber(memory.Number(rem))
		e.Stack.PushNumber(memory.Number(quot))
		return nil
	})
}

// mul64 computes the full 128-bit product of two uint64s.
func mul64(a, b uint64) (hi, lo uint64) {
	const mask = 0xffffffff
	aLo, aHi := a&mask, a>>32
	bLo, bHi := b&mask, b>>32

	lo32 := aLo * bLo
	t := aHi*bLo + lo32>>32
	w1 := t & mask
	k := t >> 32

	w2 := aLo*bHi + w1
	lo = (w2 << 32) | (lo32 & mask)
	hi = aHi*bHi + k + w2>>32
	return hi, lo
}

// divmod128 divides the 128-bit (hi,lo) by a 64-bit divisor, per UM/MOD's
// widening division. Implemented with repeated long division since Go's
// math/bits.Div64 requires hi < divisor, which a truncating M*/ cannot
// always guarantee for arbitrary operands.
func divmod128(hi, lo, divisor uint64) (quot, rem uint64) {
	rem = 0
	quot = 0
	for i := 0; i < 128; i++ {
		carry := rem >> 63
		rem = (rem << 1) | (hi >> 63)
		hi = (hi << 1) | (lo >> 63)
		lo <<= 1
		quot <<= 1
		if carry != 0 || rem >= divisor {
			rem -= divisor
			quot |= 1
		}
	}
	return quot, rem
}

func mulDivDouble(e *engine.Engine, a memory.Double, b, c memory.Number) error {
	hi, lo := mul64(uint64(a.Lo), uint64(b))
	if a.Hi != 0 {
		_, extra := mul64(uint64(a.Hi), uint64(b))
		hi += extra
	}
	quot, _ := divmod128(hi, lo, uint64(c))
	e.Stack.PushNumber(memory.Number(quot))
	return nil
}
