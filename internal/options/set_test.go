package options

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keysOf(s Set) []Key {
	var keys []Key
	for _, e := range s.Entries() {
		keys = append(keys, e.Key)
	}
	return keys
}

func TestMerge_LaterWins(t *testing.T) {
	a := MustSet(I(CryptoConfig, 0), I(BlocksPerSector, 1), I(FPGA0FreqMHz, 100))
	b := MustSet(I(BlocksPerSector, 4), S(ImplStrategy, "Performance_Explore"))

	merged := Merge(a, b)

	got, ok := merged.Get(BlocksPerSector)
	require.True(t, ok)
	n, _ := got.AsInt()
	assert.Equal(t, int64(4), n, "value from the later set must win")

	got, ok = merged.Get(FPGA0FreqMHz)
	require.True(t, ok)
	n, _ = got.AsInt()
	assert.Equal(t, int64(100), n, "keys only in the earlier set must survive")

	assert.True(t, merged.Has(ImplStrategy))
	assert.Equal(t, 4, merged.Len())

	// The overwritten key keeps its first position.
	want := []Key{CryptoConfig, BlocksPerSector, FPGA0FreqMHz, ImplStrategy}
	if diff := cmp.Diff(want, keysOf(merged)); diff != "" {
		t.Errorf("merged key order mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_DoesNotAliasInputs(t *testing.T) {
	a := MustSet(I(CryptoConfig, 1))
	merged := Merge(a)
	require.NoError(t, merged.Put(CryptoConfig, Int(9)))

	v, _ := a.Get(CryptoConfig)
	n, _ := v.AsInt()
	assert.Equal(t, int64(1), n)
}

func TestMerge_Empty(t *testing.T) {
	merged := Merge()
	assert.Equal(t, 0, merged.Len())
	assert.Equal(t, "{}", merged.String())

	merged = Merge(Set{}, Set{})
	assert.Equal(t, 0, merged.Len())
}

func TestSet_Put_Validation(t *testing.T) {
	var s Set

	err := s.Put(Key("CRYPTO_CONFG"), Int(1))
	require.ErrorIs(t, err, ErrUnknownKey)

	err = s.Put(CryptoConfig, String("3"))
	require.ErrorIs(t, err, ErrValueType)

	err = s.Put(ImplStrategy, Int(3))
	require.ErrorIs(t, err, ErrValueType)

	require.NoError(t, s.Put(ImplStrategy, String("Performance_Explore")))
	assert.Equal(t, 1, s.Len())
}

func TestSet_Pop(t *testing.T) {
	s := MustSet(I(CryptoConfig, 9), I(DatastreamDataWidth, 128), S(SynthStrategy, "Flow_PerfOptimized_high"))

	v, ok := s.Pop(DatastreamDataWidth)
	require.True(t, ok)
	n, _ := v.AsInt()
	assert.Equal(t, int64(128), n)
	assert.False(t, s.Has(DatastreamDataWidth))
	assert.Equal(t, []Key{CryptoConfig, SynthStrategy}, keysOf(s))

	// Index stays consistent after removal.
	got, ok := s.Get(SynthStrategy)
	require.True(t, ok)
	str, _ := got.AsString()
	assert.Equal(t, "Flow_PerfOptimized_high", str)

	_, ok = s.Pop(DatastreamDataWidth)
	assert.False(t, ok)
}

func TestSet_PopLeavesCloneIntact(t *testing.T) {
	s := MustSet(I(CryptoConfig, 9), I(DatastreamDataWidth, 128))
	c := s.Clone()
	c.Pop(DatastreamDataWidth)

	assert.True(t, s.Has(DatastreamDataWidth))
	assert.Equal(t, 2, s.Len())
}

func TestSet_CopiesAreIndependent(t *testing.T) {
	t.Run("pop on a copy", func(t *testing.T) {
		s := MustSet(I(CryptoConfig, 1), I(BlocksPerSector, 2))
		c := s
		c.Pop(CryptoConfig)

		assert.True(t, s.Has(CryptoConfig))
		got, ok := s.Get(BlocksPerSector)
		require.True(t, ok)
		n, _ := got.AsInt()
		assert.Equal(t, int64(2), n)
		assert.Equal(t, "{CRYPTO_CONFIG: 1, BLOCKS_PER_SECTOR: 2}", s.String())
		assert.Equal(t, "{BLOCKS_PER_SECTOR: 2}", c.String())
	})

	t.Run("put of a new key on a copy", func(t *testing.T) {
		s := MustSet(I(CryptoConfig, 1))
		c := s
		require.NoError(t, c.Put(TreeRoots, Int(8)))

		_, ok := s.Get(TreeRoots)
		assert.False(t, ok)
		assert.Equal(t, 1, s.Len())
		assert.Equal(t, 2, c.Len())
	})

	t.Run("overwrite on a copy", func(t *testing.T) {
		s := MustSet(I(CryptoConfig, 1))
		c := s
		require.NoError(t, c.Put(CryptoConfig, Int(7)))

		got, _ := s.Get(CryptoConfig)
		n, _ := got.AsInt()
		assert.Equal(t, int64(1), n)
	})

	t.Run("appends on copies with spare capacity", func(t *testing.T) {
		s := MustSet(I(CryptoConfig, 1), I(BlocksPerSector, 2))
		s.Pop(BlocksPerSector)
		a, b := s, s
		require.NoError(t, a.Put(TreeRoots, Int(8)))
		require.NoError(t, b.Put(TreeArity, Int(4)))

		assert.Equal(t, []Key{CryptoConfig, TreeRoots}, keysOf(a))
		assert.Equal(t, []Key{CryptoConfig, TreeArity}, keysOf(b))
	})

	t.Run("merge result is independent of its inputs", func(t *testing.T) {
		s := MustSet(I(CryptoConfig, 1), I(BlocksPerSector, 2))
		merged := Merge(s)
		merged.Pop(CryptoConfig)

		assert.True(t, s.Has(CryptoConfig))
		assert.Equal(t, 2, s.Len())
	})
}

func TestSet_String(t *testing.T) {
	s := MustSet(I(CryptoConfig, 0), I(BlocksPerSector, 4), S(ImplStrategy, "Performance_NetDelay_high"))
	assert.Equal(t, `{CRYPTO_CONFIG: 0, BLOCKS_PER_SECTOR: 4, FLOW_VIVADO_IMPL_STRATEGY: "Performance_NetDelay_high"}`, s.String())
}

func TestParseKey(t *testing.T) {
	k, err := ParseKey("TREE_ARITY")
	require.NoError(t, err)
	assert.Equal(t, TreeArity, k)
	assert.Equal(t, KindGeneric, k.Kind())
	assert.Equal(t, TypeInt, k.Type())

	assert.Equal(t, KindSystem, FPGA0FreqMHz.Kind())
	assert.Equal(t, KindTool, SimTop.Kind())
	assert.Equal(t, KindConfigFile, DatastreamDataWidth.Kind())

	_, err = ParseKey("TREE_ARITIES")
	require.ErrorIs(t, err, ErrUnknownKey)
	assert.Contains(t, err.Error(), "TREE_ARITIES")
}
