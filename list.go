package blockcache

import "container/list"

// blockList is an ordered sequence of block-header references with O(1)
// endpoint insertion and O(1) removal given a header, used by the FIFO and
// LRU strategies (spec §4.1).
//
// The original C implementation (cache_list.c) hand-rolls a circular
// doubly-linked list with a sentinel node and walks it by pointer
// comparison for every remove/move operation. container/list already is
// that structure; blockList wraps it and adds the by-header O(1) lookup
// the original gets "for free" from manual pointer bookkeeping, via a map
// keyed by the header's stable cache-slot index. See
// laplaque-ai-anonymizing-proxy's s3fifo_cache.go for the same
// container/list-over-hand-rolled-list shape in a Go cache.
//
// A header may appear in a blockList at most once. The list holds weak
// (non-owning) references: removing a header from the list never touches
// the header itself.
type blockList struct {
	l     *list.List
	elems map[int]*list.Element // keyed by BlockHeader.ibcache
}

func newBlockList() *blockList {
	return &blockList{l: list.New(), elems: make(map[int]*list.Element)}
}

// Append inserts h at the tail.
func (bl *blockList) Append(h *BlockHeader) {
	bl.elems[h.ibcache] = bl.l.PushBack(h)
}

// Prepend inserts h at the head.
func (bl *blockList) Prepend(h *BlockHeader) {
	bl.elems[h.ibcache] = bl.l.PushFront(h)
}

// RemoveFirst pops and returns the head's header. ok is false if the list
// is empty.
func (bl *blockList) RemoveFirst() (h *BlockHeader, ok bool) {
	e := bl.l.Front()
	if e == nil {
		return nil, false
	}

	return bl.popElement(e), true
}

// RemoveLast pops and returns the tail's header. ok is false if the list
// is empty.
func (bl *blockList) RemoveLast() (h *BlockHeader, ok bool) {
	e := bl.l.Back()
	if e == nil {
		return nil, false
	}

	return bl.popElement(e), true
}

// Remove removes the unique node holding h. No-op if h is not present.
func (bl *blockList) Remove(h *BlockHeader) {
	if e, present := bl.elems[h.ibcache]; present {
		bl.popElement(e)
	}
}

// Clear removes all nodes.
func (bl *blockList) Clear() {
	bl.l.Init()
	bl.elems = make(map[int]*list.Element)
}

// IsEmpty reports whether the list holds no nodes.
func (bl *blockList) IsEmpty() bool {
	return bl.l.Len() == 0
}

// MoveToEnd is equivalent to Remove(h) followed by Append(h); if h is
// absent it is simply appended.
func (bl *blockList) MoveToEnd(h *BlockHeader) {
	if e, present := bl.elems[h.ibcache]; present {
		bl.l.MoveToBack(e)

		return
	}

	bl.Append(h)
}

// MoveToBegin is equivalent to Remove(h) followed by Prepend(h); if h is
// absent it is simply prepended.
func (bl *blockList) MoveToBegin(h *BlockHeader) {
	if e, present := bl.elems[h.ibcache]; present {
		bl.l.MoveToFront(e)

		return
	}

	bl.Prepend(h)
}

func (bl *blockList) popElement(e *list.Element) *BlockHeader {
	h, _ := e.Value.(*BlockHeader)
	bl.l.Remove(e)
	delete(bl.elems, h.ibcache)

	return h
}
