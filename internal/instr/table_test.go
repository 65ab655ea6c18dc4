package instr_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thirdlang/thirdvm/internal/instr"
	"github.com/thirdlang/thirdvm/internal/memory"
)

func TestCompilePushAndGet(t *testing.T) {
	table := instr.New()
	xt := table.CompilePush(memory.NumberValue(7))

	require.Equal(t, memory.TokenCompiledInstruction, xt.Kind)
	require.Equal(t, 0, xt.Index)
	require.Equal(t, 1, table.Len())

	got := table.Get(xt.Index)
	require.Equal(t, instr.Push, got.Kind)
	require.Equal(t, memory.Number(7), got.Value.Number)
}

func TestCompileBranchFalseAndPatch(t *testing.T) {
	table := instr.New()
	xt := table.CompileBranchFalse(memory.AddressFromRaw(0))

	target := memory.AddressFromRaw(0x40)
	table.Patch(xt, target)

	got := table.Get(xt.Index)
	require.Equal(t, instr.BranchFalse, got.Kind)
	require.Equal(t, target, got.Destination)
}

func TestPatchOnlyTouchesDestination(t *testing.T) {
	table := instr.New()
	xt := table.CompileBranch(memory.AddressFromRaw(0))
	table.Patch(xt, memory.AddressFromRaw(8))

	got := table.Get(xt.Index)
	require.Equal(t, memory.Value{}, got.Value, "Patch must not touch a branch instruction's Value operand")
}

func TestIndependentIndices(t *testing.T) {
	table := instr.New()
	a := table.CompilePush(memory.NumberValue(1))
	b := table.CompileMemPush(memory.NumberValue(2))
	require.NotEqual(t, a.Index, b.Index)
	require.Equal(t, 2, table.Len())
}
