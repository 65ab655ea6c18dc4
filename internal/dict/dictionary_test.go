package dict_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thirdlang/thirdvm/internal/dict"
	"github.com/thirdlang/thirdvm/internal/memory"
)

func TestAddAndLookup(t *testing.T) {
	d := dict.New()
	d.Add("DUP", dict.Definition{ExecutionToken: memory.LeafToken(3)})

	def, err := d.GetFromName("DUP")
	require.NoError(t, err)
	require.Equal(t, memory.LeafToken(3), def.ExecutionToken)
	require.False(t, def.Immediate)

	_, err = d.GetFromName("NOPE")
	require.Error(t, err)
}

func TestGetFromTokenNumberLiteral(t *testing.T) {
	d := dict.New()
	def, err := d.GetFromToken(false, "", 42)
	require.NoError(t, err)
	require.Equal(t, memory.NumberToken(42), def.ExecutionToken)
}

func TestMakeMostRecentImmediate(t *testing.T) {
	d := dict.New()
	d.Add("A", dict.Definition{ExecutionToken: memory.LeafToken(1)})
	d.Add("B", dict.Definition{ExecutionToken: memory.LeafToken(2)})
	d.MakeMostRecentImmediate()

	defB, err := d.GetFromName("B")
	require.NoError(t, err)
	require.True(t, defB.Immediate)

	defA, err := d.GetFromName("A")
	require.NoError(t, err)
	require.False(t, defA.Immediate)
}

func TestSetByIndexRetargetsDefinition(t *testing.T) {
	d := dict.New()
	d.Add("THING", dict.Definition{ExecutionToken: memory.LeafToken(1)})
	tag, err := d.GetNameTag("THING")
	require.NoError(t, err)
	require.Equal(t, dict.NameTagDefinition, tag.Kind)

	require.NoError(t, d.SetByIndex(tag.Index, dict.Definition{ExecutionToken: memory.LeafToken(9)}))
	def, err := d.GetFromName("THING")
	require.NoError(t, err)
	require.Equal(t, memory.LeafToken(9), def.ExecutionToken)
}

func TestTempBindingsClearedBetweenDefinitions(t *testing.T) {
	d := dict.New()
	d.AddTemp("x", dict.Definition{ExecutionToken: memory.LeafToken(5)})

	tag, err := d.GetNameTag("x")
	require.NoError(t, err)
	require.Equal(t, dict.NameTagTempDefinition, tag.Kind)

	d.ClearTemp()
	_, err = d.GetFromName("x")
	require.Error(t, err, "temp bindings must not survive ClearTemp")
}

func TestDebugNameAndNames(t *testing.T) {
	d := dict.New()
	d.Add("DUP", dict.Definition{ExecutionToken: memory.LeafToken(3)})

	name, ok := d.DebugName(memory.LeafToken(3))
	require.True(t, ok)
	require.Equal(t, "DUP", name)

	require.Contains(t, d.Names(), "DUP")
}
