package blockcache

// Block header flag bits. Only the three concepts from spec §3 are
// observable: VALID, MODIF (dirty), and R (NUR reference bit, written only
// by the NUR strategy).
const (
	flagValid = 1 << iota // slot mirrors a file block
	flagModif             // buffer differs from the on-disk copy for ibfile
	flagRef               // NUR: accessed since the last sweep
)

// BlockHeader is the in-memory descriptor for one cache slot.
//
// ibcache is stable for the lifetime of the cache and is never reassigned;
// it is the slot's identity. ibfile and data are only meaningful while
// flagValid is set. Strategies hold headers by reference (a *BlockHeader
// from the cache's own table) rather than by copy; the cache never hands
// out a header that outlives the cache itself.
type BlockHeader struct {
	ibcache int    // 0-based slot index, immutable after Create
	ibfile  int64  // file-block index this slot caches, valid iff flagValid
	flags   uint8  // flagValid | flagModif | flagRef
	data    []byte // blocksz bytes, exclusive to this header
}

// CacheIndex returns the header's stable slot index in the cache's table.
func (h *BlockHeader) CacheIndex() int { return h.ibcache }

// Valid reports whether the slot currently mirrors a file block.
func (h *BlockHeader) Valid() bool { return h.flags&flagValid != 0 }

// Dirty reports whether the slot has been written since its last sync.
func (h *BlockHeader) Dirty() bool { return h.flags&flagModif != 0 }

// Referenced reports the NUR reference bit. FIFO and LRU never set it.
func (h *BlockHeader) Referenced() bool { return h.flags&flagRef != 0 }

// FileBlock returns the file-block index this header caches. The result is
// only meaningful when Valid reports true.
func (h *BlockHeader) FileBlock() int64 { return h.ibfile }

// nurScore computes the NUR replacement equation 2*R + M for this header.
func (h *BlockHeader) nurScore() int {
	score := 0
	if h.flags&flagRef != 0 {
		score += 2
	}
	if h.flags&flagModif != 0 {
		score++
	}
	return score
}

// BlockSnapshot is a read-only, point-in-time view of one cache slot,
// returned by [Cache.DebugBlocks]. It mirrors the debug list-printer the
// original C implementation used during development, reshaped to return
// data instead of printing it.
type BlockSnapshot struct {
	CacheIndex int
	FileBlock  int64
	Valid      bool
	Dirty      bool
	Referenced bool
}

func snapshotOf(h *BlockHeader) BlockSnapshot {
	return BlockSnapshot{
		CacheIndex: h.ibcache,
		FileBlock:  h.ibfile,
		Valid:      h.Valid(),
		Dirty:      h.Dirty(),
		Referenced: h.Referenced(),
	}
}
