package blockcache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNURStrategy_ZeroNderef_NeverSweepsOrSetsDerefs(t *testing.T) {
	t.Parallel()

	c := newTestCache(1)
	s := newNURStrategy(0)

	h := s.ReplaceBlock(c)
	h.flags = flagValid
	h.ibfile = 0

	for i := 0; i < 20; i++ {
		s.Write(c, h)
		s.Read(c, h)
	}

	require.Zero(t, c.instrument.Derefs)
	require.True(t, h.Referenced(), "R accumulates and is never cleared when nderef == 0")
}

func TestNURStrategy_SweepFiresEveryNderefAccesses(t *testing.T) {
	t.Parallel()

	c := newTestCache(1)
	s := newNURStrategy(3)

	h := s.ReplaceBlock(c)
	h.flags = flagValid
	h.ibfile = 0

	s.Write(c, h) // countdown 3 -> 2
	s.Write(c, h) // countdown 2 -> 1
	require.Zero(t, c.instrument.Derefs)

	s.Write(c, h) // countdown 1 -> 0: sweep fires, then R is set again
	require.Equal(t, uint64(1), c.instrument.Derefs)
	require.True(t, h.Referenced(), "R is set again immediately after the sweep clears it")
}

func TestNURStrategy_ReplaceBlock_PrefersColdHeaders(t *testing.T) {
	t.Parallel()

	c := newTestCache(2)
	s := newNURStrategy(4)

	h0 := s.ReplaceBlock(c)
	require.Equal(t, 0, h0.ibcache)
	h0.flags = flagValid
	h0.ibfile = 0

	h1 := s.ReplaceBlock(c)
	require.Equal(t, 1, h1.ibcache)
}

func TestNURStrategy_ReplaceBlock_PicksLowestTwoRPlusM(t *testing.T) {
	t.Parallel()

	c := newTestCache(3)
	s := newNURStrategy(4)

	for i, ibfile := range []int64{10, 11, 12} {
		h := s.ReplaceBlock(c)
		h.flags = flagValid
		h.ibfile = ibfile
		c.headers[i] = h
	}

	// h0: R=1,M=1 (score 3); h1: R=0,M=1 (score 1); h2: R=1,M=0 (score 2).
	c.headers[0].flags |= flagRef | flagModif
	c.headers[1].flags |= flagModif
	c.headers[2].flags |= flagRef

	victim := s.ReplaceBlock(c)
	require.Equal(t, int64(11), victim.ibfile, "lowest 2R+M score wins")
}

func TestNURStrategy_ReplaceBlock_ReturnsFirstZeroScoreImmediately(t *testing.T) {
	t.Parallel()

	c := newTestCache(3)
	s := newNURStrategy(4)

	for i, ibfile := range []int64{10, 11, 12} {
		h := s.ReplaceBlock(c)
		h.flags = flagValid
		h.ibfile = ibfile
		c.headers[i] = h
	}

	c.headers[0].flags |= flagRef | flagModif // score 3
	// headers[1] stays score 0 (clean, unreferenced)
	c.headers[2].flags |= flagModif // score 1

	victim := s.ReplaceBlock(c)
	require.Equal(t, int64(11), victim.ibfile)
}

func TestNURStrategy_Invalidate_NonZeroNderef_CountsOneDeref(t *testing.T) {
	t.Parallel()

	c := newTestCache(1)
	s := newNURStrategy(4)

	h := s.ReplaceBlock(c)
	h.flags = flagValid | flagRef
	h.ibfile = 0

	s.Invalidate(c)

	require.False(t, h.Referenced())
	require.Equal(t, uint64(1), c.instrument.Derefs)
}

func TestNURStrategy_Invalidate_ZeroNderef_ClearsWithoutCountingDeref(t *testing.T) {
	t.Parallel()

	c := newTestCache(1)
	s := newNURStrategy(0)

	h := s.ReplaceBlock(c)
	h.flags = flagValid | flagRef
	h.ibfile = 0

	s.Invalidate(c)

	require.False(t, h.Referenced())
	require.Zero(t, c.instrument.Derefs)
}
