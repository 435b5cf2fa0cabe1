package blockcache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func headersFixture(n int) []*BlockHeader {
	hs := make([]*BlockHeader, n)
	for i := range hs {
		hs[i] = &BlockHeader{ibcache: i}
	}

	return hs
}

func drain(t *testing.T, bl *blockList) []int {
	t.Helper()

	var order []int

	for {
		h, ok := bl.RemoveFirst()
		if !ok {
			break
		}

		order = append(order, h.ibcache)
	}

	return order
}

func TestBlockList_IsEmpty_OnCreate(t *testing.T) {
	t.Parallel()

	bl := newBlockList()
	require.True(t, bl.IsEmpty())
}

func TestBlockList_Append_OrdersOldestFirst(t *testing.T) {
	t.Parallel()

	bl := newBlockList()
	hs := headersFixture(3)

	for _, h := range hs {
		bl.Append(h)
	}

	require.False(t, bl.IsEmpty())
	require.Equal(t, []int{0, 1, 2}, drain(t, bl))
}

func TestBlockList_Prepend_OrdersNewestFirst(t *testing.T) {
	t.Parallel()

	bl := newBlockList()
	hs := headersFixture(3)

	for _, h := range hs {
		bl.Prepend(h)
	}

	require.Equal(t, []int{2, 1, 0}, drain(t, bl))
}

func TestBlockList_RemoveFirst_OnEmpty_ReturnsNotOK(t *testing.T) {
	t.Parallel()

	bl := newBlockList()

	h, ok := bl.RemoveFirst()
	require.False(t, ok)
	require.Nil(t, h)
}

func TestBlockList_RemoveLast_OnEmpty_ReturnsNotOK(t *testing.T) {
	t.Parallel()

	bl := newBlockList()

	h, ok := bl.RemoveLast()
	require.False(t, ok)
	require.Nil(t, h)
}

func TestBlockList_RemoveLast_PopsTail(t *testing.T) {
	t.Parallel()

	bl := newBlockList()
	hs := headersFixture(3)

	for _, h := range hs {
		bl.Append(h)
	}

	last, ok := bl.RemoveLast()
	require.True(t, ok)
	require.Equal(t, 2, last.ibcache)
	require.Equal(t, []int{0, 1}, drain(t, bl))
}

func TestBlockList_Remove_Middle_IsNoopIfAbsent(t *testing.T) {
	t.Parallel()

	bl := newBlockList()
	hs := headersFixture(3)

	for _, h := range hs {
		bl.Append(h)
	}

	bl.Remove(hs[1])
	require.Equal(t, []int{0, 2}, drain(t, bl))

	// Removing an absent header is a no-op, not an error.
	bl.Remove(hs[1])
}

func TestBlockList_Clear_EmptiesList(t *testing.T) {
	t.Parallel()

	bl := newBlockList()
	for _, h := range headersFixture(3) {
		bl.Append(h)
	}

	bl.Clear()
	require.True(t, bl.IsEmpty())
}

func TestBlockList_MoveToEnd_RelocatesExistingNode(t *testing.T) {
	t.Parallel()

	bl := newBlockList()
	hs := headersFixture(3)

	for _, h := range hs {
		bl.Append(h)
	}

	bl.MoveToEnd(hs[0])
	require.Equal(t, []int{1, 2, 0}, drain(t, bl))
}

func TestBlockList_MoveToEnd_AppendsIfAbsent(t *testing.T) {
	t.Parallel()

	bl := newBlockList()
	hs := headersFixture(3)

	bl.Append(hs[0])
	bl.Append(hs[1])

	bl.MoveToEnd(hs[2])
	require.Equal(t, []int{0, 1, 2}, drain(t, bl))
}

func TestBlockList_MoveToBegin_RelocatesExistingNode(t *testing.T) {
	t.Parallel()

	bl := newBlockList()
	hs := headersFixture(3)

	for _, h := range hs {
		bl.Append(h)
	}

	bl.MoveToBegin(hs[2])
	require.Equal(t, []int{2, 0, 1}, drain(t, bl))
}

func TestBlockList_MoveToBegin_PrependsIfAbsent(t *testing.T) {
	t.Parallel()

	bl := newBlockList()
	hs := headersFixture(3)

	bl.Append(hs[1])
	bl.Append(hs[2])

	bl.MoveToBegin(hs[0])
	require.Equal(t, []int{0, 1, 2}, drain(t, bl))
}

func TestBlockList_EachHeaderAppearsAtMostOnce(t *testing.T) {
	t.Parallel()

	bl := newBlockList()
	hs := headersFixture(2)

	bl.Append(hs[0])
	bl.MoveToEnd(hs[0]) // already present: relocate, not duplicate
	bl.Append(hs[1])

	require.Equal(t, []int{0, 1}, drain(t, bl))
}
