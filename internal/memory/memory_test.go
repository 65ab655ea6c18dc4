package memory_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thirdlang/thirdvm/internal/memory"
)

func TestAddressArithmetic(t *testing.T) {
	base := memory.AddressFromRaw(0x1000)

	require.Equal(t, int64(0x1000), base.Raw())
	require.True(t, base.AlignedToCell())
	require.False(t, base.PlusBytes(1).AlignedToCell())

	three := base.PlusCells(3)
	require.Equal(t, int64(3*memory.CellSize), three.Distance(base))
	require.Equal(t, int64(3), three.CellOffsetFrom(base))
	require.True(t, base.Less(three))
	require.True(t, three.Between(base, base.PlusCells(10)))
	require.False(t, three.MinusCells(3) != base)
}

func TestDoubleRoundTrip(t *testing.T) {
	d := memory.DoubleFromNumber(-7)
	chunks := d.Chunks()
	got := memory.DoubleFromChunks(chunks[0], chunks[1])
	require.Equal(t, d, got)
	require.Equal(t, "-7", d.SignedString())
}

func TestDoubleAddAndNegate(t *testing.T) {
	a := memory.DoubleFromNumber(5)
	b := memory.DoubleFromNumber(-5)
	sum := a.Add(b)
	require.Equal(t, "0", sum.UnsignedString())

	neg := a.Negate()
	require.Equal(t, "-5", neg.SignedString())
}

func TestToChunksRoundTrip(t *testing.T) {
	n := memory.Number(0x0102030405060708)
	chunks := memory.ToChunks(n)
	require.Equal(t, n, memory.NumberFromChunks(chunks))
}

func TestDataSpacePushAndExpand(t *testing.T) {
	d := memory.NewDataSpace(memory.AddressFromRaw(0))

	a0 := d.Push(memory.NumberValue(42))
	require.Equal(t, int64(0), a0.Raw())

	reserved := d.Expand(2)
	require.Equal(t, int64(memory.CellSize), reserved.Raw())

	v, err := d.ReadValue(a0)
	require.NoError(t, err)
	require.Equal(t, memory.Number(42), v.Number)

	require.NoError(t, d.WriteValue(reserved, memory.NumberValue(7)))
	v2, err := d.ReadValue(reserved)
	require.NoError(t, err)
	require.Equal(t, memory.Number(7), v2.Number)

	_, err = d.ReadValue(d.Top())
	require.Error(t, err)
}

func TestDataSpaceAllotRoundsToCell(t *testing.T) {
	d := memory.NewDataSpace(memory.AddressFromRaw(0))
	addr := d.Allot(1)
	require.Equal(t, int64(memory.CellSize), d.Top().Distance(addr))
}

func TestStackPushPop(t *testing.T) {
	s := memory.NewStack(memory.AddressFromRaw(0))

	s.PushNumber(1)
	s.PushNumber(2)
	s.PushNumber(3)

	v, err := s.PeekAt(1)
	require.NoError(t, err)
	require.Equal(t, memory.Number(2), v.ToNumber())

	n, err := s.PopNumber()
	require.NoError(t, err)
	require.Equal(t, memory.Number(3), n)
	require.Equal(t, 2, s.Depth())

	_, err = memory.NewStack(memory.AddressFromRaw(0)).PopNumber()
	require.Error(t, err)
}

func TestStackDoubleOrder(t *testing.T) {
	s := memory.NewStack(memory.AddressFromRaw(0))
	d := memory.DoubleFromNumber(-123)
	s.PushDouble(d)

	got, err := s.PopDouble()
	require.NoError(t, err)
	require.Equal(t, d, got)
}

func TestStackTokenRejectsNumber(t *testing.T) {
	s := memory.NewStack(memory.AddressFromRaw(0))
	s.PushNumber(9)
	_, err := s.PopToken()
	require.Error(t, err)
}

func TestValueToTokenCoercesBareNumber(t *testing.T) {
	v := memory.NumberValue(5)
	xt := v.ToToken()
	require.Equal(t, memory.TokenNumber, xt.Kind)
	require.Equal(t, memory.Number(5), xt.Number)
}
