package memory

import "math/big"

// Number is the machine's native signed cell-width integer. Spec §3.
type Number = int64

// UnsignedNumber is Number reinterpreted as unsigned.
type UnsignedNumber = uint64

// Byte is the machine's signed byte type, as read/written within a cell.
type Byte = int8

// UnsignedByte is Byte reinterpreted as unsigned.
type UnsignedByte = uint8

// Double is a 128-bit double-cell number, stored low-cell-first per spec
// §4.1 ("double numbers occupy two cells in stack order low then high").
// Ported from original_source/src/environment/generic_numbers.rs's
// i128/u128 DoubleNumber, which Go has no native type for.
type Double struct {
	Lo, Hi uint64
}

// DoubleFromNumber sign-extends a single Number into a Double.
func DoubleFromNumber(n Number) Double {
	if n < 0 {
		return Double{Lo: uint64(n), Hi: ^uint64(0)}
	}
	return Double{Lo: uint64(n), Hi: 0}
}

// DoubleFromChunks reconstructs a Double from its low/high cell chunks, the
// inverse of Chunks.
func DoubleFromChunks(low, high Number) Double {
	return Double{Lo: uint64(low), Hi: uint64(high)}
}

// Chunks returns the [low, high] single-cell chunks of d, in the order they
// are written to memory or pushed to the stack.
func (d Double) Chunks() [2]Number { return [2]Number{Number(d.Lo), Number(d.Hi)} }

// Add returns d+e with 128-bit wraparound.
func (d Double) Add(e Double) Double {
	lo := d.Lo + e.Lo
	carry := uint64(0)
	if lo < d.Lo {
		carry = 1
	}
	return Double{Lo: lo, Hi: d.Hi + e.Hi + carry}
}

// Negate returns the signed two's-complement negation of d.
func (d Double) Negate() Double {
	return Double{Lo: ^d.Lo, Hi: ^d.Hi}.Add(Double{Lo: 1})
}

// bigUint renders d as an unsigned 128-bit value.
func (d Double) bigUint() *big.Int {
	hi := new(big.Int).SetUint64(d.Hi)
	hi.Lsh(hi, 64)
	lo := new(big.Int).SetUint64(d.Lo)
	return hi.Or(hi, lo)
}

// UnsignedString renders d as an unsigned decimal string, as used by D. .
func (d Double) UnsignedString() string { return d.bigUint().String() }

// SignedString renders d as a signed decimal string, as used by D. when the
// high cell's sign bit is set.
func (d Double) SignedString() string {
	if d.Hi>>63 != 0 {
		neg := d.Negate().bigUint()
		return "-" + neg.String()
	}
	return d.bigUint().String()
}

// ToChunks splits a wide number into narrow chunks, least-significant first.
// Ported from generic_numbers.rs's ConvertOperations::to_chunks.
func ToChunks(n Number) [CellSize]Byte {
	var out [CellSize]Byte
	u := uint64(n)
	for i := range out {
		out[i] = Byte(byte(u >> (8 * uint(i))))
	}
	return out
}

// NumberFromChunks combines narrow byte chunks, least-significant first,
// into a wide Number. The inverse of ToChunks.
func NumberFromChunks(chunks [CellSize]Byte) Number {
	var u uint64
	for i, c := range chunks {
		u |= uint64(byte(c)) << (8 * uint(i))
	}
	return Number(u)
}
