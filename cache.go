package blockcache

import (
	"errors"
	"fmt"
	"io"

	"github.com/nmeurgues/blockcache/internal/storage"
)

// DefaultNSync is the periodic-sync period used when Options.NSync is left
// at its zero value: every read or write triggers a Sync (spec §4.3,
// "e.g. 1 in the reference build").
const DefaultNSync = 1

// Options configure a Cache created by [Create].
type Options struct {
	// Path is the backing file. Opened read+write, created if absent,
	// never truncated.
	Path string

	// NBlocks is the number of block slots held in memory. Must be >= 1.
	NBlocks int

	// NRecords is the number of records per block. Must be >= 1.
	NRecords int

	// RecordSize is the size in bytes of one record. Must be >= 1.
	RecordSize int

	// Strategy selects the replacement policy. Zero value is FIFO.
	Strategy StrategyKind

	// NDeref is the NUR sweep period. 0 disables the sweep. Ignored by
	// FIFO and LRU.
	NDeref int

	// NSync is the periodic-sync period: every NSync reads-or-writes
	// triggers an implicit Sync. Zero defaults to DefaultNSync.
	NSync int

	// FS overrides the backing filesystem. Defaults to storage.NewReal().
	// Tests substitute a storage.Chaos to exercise I/O failure paths.
	FS storage.FS
}

// Cache is a handle to an open, fixed-size write-back block cache over one
// backing file (spec §3). The zero value is not usable; obtain a Cache via
// [Create].
//
// A Cache is not safe for concurrent use: the caller must serialize all
// operations on a given handle.
type Cache struct {
	file storage.File

	nblocks    int
	nrecords   int
	recordsz   int
	blocksz    int64
	nsync      int
	headers    []*BlockHeader
	pfree      int // index into headers: cold-fill convenience cursor
	strategy   Strategy
	instrument Instrument

	syncCountdown int
	closed        bool
}

// Create opens (or creates) the backing file and allocates the cache's
// block headers and buffers (spec §4.3 Create).
func Create(opts Options) (*Cache, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	fs := opts.FS
	if fs == nil {
		fs = storage.NewReal()
	}

	file, err := fs.OpenFile(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("blockcache: opening backing file: %w", err)
	}

	nsync := opts.NSync
	if nsync == 0 {
		nsync = DefaultNSync
	}

	blocksz := int64(opts.NRecords) * int64(opts.RecordSize)

	headers := make([]*BlockHeader, opts.NBlocks)
	for i := range headers {
		headers[i] = &BlockHeader{ibcache: i, data: make([]byte, blocksz)}
	}

	strategy, err := newStrategy(opts.Strategy, opts.NDeref)
	if err != nil {
		_ = file.Close()

		return nil, err
	}

	return &Cache{
		file:          file,
		nblocks:       opts.NBlocks,
		nrecords:      opts.NRecords,
		recordsz:      opts.RecordSize,
		blocksz:       blocksz,
		nsync:         nsync,
		headers:       headers,
		strategy:      strategy,
		syncCountdown: nsync,
	}, nil
}

func validateOptions(opts Options) error {
	switch {
	case opts.Path == "":
		return fmt.Errorf("%w: path is empty", ErrInvalidOptions)
	case opts.NBlocks < 1:
		return fmt.Errorf("%w: nblocks must be >= 1", ErrInvalidOptions)
	case opts.NRecords < 1:
		return fmt.Errorf("%w: nrecords must be >= 1", ErrInvalidOptions)
	case opts.RecordSize < 1:
		return fmt.Errorf("%w: recordsz must be >= 1", ErrInvalidOptions)
	case opts.NDeref < 0:
		return fmt.Errorf("%w: nderef must be >= 0", ErrInvalidOptions)
	case opts.NSync < 0:
		return fmt.Errorf("%w: nsync must be >= 0", ErrInvalidOptions)
	default:
		return nil
	}
}

// Close syncs the cache, closes the strategy, and releases the backing
// file handle. All resources are released even if Sync or the file close
// fails; the combined error (if any) is returned via [errors.Join].
func (c *Cache) Close() error {
	if c.closed {
		return nil
	}

	syncErr := c.Sync()
	c.strategy.Close(c)
	closeErr := c.file.Close()
	c.closed = true

	return errors.Join(syncErr, closeErr)
}

// Sync writes every VALID-and-dirty block back to the file and clears its
// dirty bit (spec §4.3 Sync). On the first I/O failure it returns without
// attempting to undo partial writes; dirty blocks not yet reached remain
// dirty and are retried on the next Sync.
func (c *Cache) Sync() error {
	if c.closed {
		return ErrClosed
	}

	for _, h := range c.headers {
		if h.flags&(flagValid|flagModif) == flagValid|flagModif {
			if err := c.writeBlock(h); err != nil {
				return err
			}
		}
	}

	if err := c.file.Sync(); err != nil {
		return fmt.Errorf("blockcache: fsync: %w", err)
	}

	c.instrument.Syncs++

	return nil
}

// Invalidate syncs the cache, then drops VALID from every header and
// resets strategy bookkeeping (spec §4.3 Invalidate).
func (c *Cache) Invalidate() error {
	if c.closed {
		return ErrClosed
	}

	if err := c.Sync(); err != nil {
		return err
	}

	for _, h := range c.headers {
		h.flags &^= flagValid
	}

	c.pfree = 0
	c.strategy.Invalidate(c)

	return nil
}

// Read copies recordsz bytes for record i into out (spec §4.3 Read). out
// must be at least RecordSize bytes.
func (c *Cache) Read(i int64, out []byte) error {
	if c.closed {
		return ErrClosed
	}

	if i < 0 {
		return ErrIndexOutOfRange
	}

	c.instrument.Reads++

	h, err := c.getBlock(i)
	if err != nil {
		return err
	}

	off := c.recordOffset(i)
	copy(out, h.data[off:off+int64(c.recordsz)])

	c.strategy.Read(c, h)

	return c.syncGate()
}

// Write copies recordsz bytes from in into the slot for record i, marking
// the block dirty (spec §4.3 Write).
func (c *Cache) Write(i int64, in []byte) error {
	if c.closed {
		return ErrClosed
	}

	if i < 0 {
		return ErrIndexOutOfRange
	}

	c.instrument.Writes++

	h, err := c.getBlock(i)
	if err != nil {
		return err
	}

	off := c.recordOffset(i)
	copy(h.data[off:off+int64(c.recordsz)], in)
	h.flags |= flagModif

	c.strategy.Write(c, h)

	return c.syncGate()
}

// GetInstrument returns a snapshot of the five event counters and zeroes
// them (spec §4.3 Instrumentation accessor).
func (c *Cache) GetInstrument() Instrument {
	snap := c.instrument
	c.instrument = Instrument{}

	return snap
}

// DebugBlocks returns a point-in-time snapshot of every cache slot, for
// introspection (e.g. by cmd/blockcachectl's blocks command). It is not part
// of the original C interface; see SPEC_FULL.md §3.
func (c *Cache) DebugBlocks() []BlockSnapshot {
	out := make([]BlockSnapshot, len(c.headers))
	for i, h := range c.headers {
		out[i] = snapshotOf(h)
	}

	return out
}

// StrategyName returns the active replacement strategy's name.
func (c *Cache) StrategyName() string { return c.strategy.Name() }

func (c *Cache) recordOffset(i int64) int64 {
	return (i % int64(c.nrecords)) * int64(c.recordsz)
}

// getBlock resolves the header holding the file block for record i,
// loading it on a miss (spec §4.3 Get_Block).
func (c *Cache) getBlock(i int64) (*BlockHeader, error) {
	ibfile := i / int64(c.nrecords)

	if h := c.findBlock(ibfile); h != nil {
		return h, nil
	}

	victim := c.strategy.ReplaceBlock(c)
	if victim == nil {
		panic("blockcache: strategy returned no victim for a non-empty header table")
	}

	if victim.flags&(flagValid|flagModif) == flagValid|flagModif {
		if err := c.writeBlock(victim); err != nil {
			return nil, err
		}
	}

	victim.flags = 0
	victim.ibfile = ibfile

	if err := c.readBlock(victim); err != nil {
		return nil, err
	}

	return victim, nil
}

// findBlock performs the linear scan for a VALID header caching ibfile,
// counting a hit when found (spec §4.3 Find_Block).
func (c *Cache) findBlock(ibfile int64) *BlockHeader {
	for _, h := range c.headers {
		if h.flags&flagValid != 0 && h.ibfile == ibfile {
			c.instrument.Hits++

			return h
		}
	}

	return nil
}

// nextFreeHeader returns the first never-yet-placed header, or nil once
// every header has been placed at least once. pfree only ever advances, so
// the amortized cost over the cache's lifetime (between Invalidate calls)
// is O(nblocks), matching spec §9's note that pfree is a cold-fill
// convenience, not a general allocator.
func (c *Cache) nextFreeHeader() *BlockHeader {
	for c.pfree < len(c.headers) {
		h := c.headers[c.pfree]
		if h.flags&flagValid == 0 {
			return h
		}

		c.pfree++
	}

	return nil
}

// writeBlock writes h's buffer to its file offset and clears MODIF.
func (c *Cache) writeBlock(h *BlockHeader) error {
	if _, err := c.file.Seek(h.ibfile*c.blocksz, io.SeekStart); err != nil {
		return fmt.Errorf("blockcache: seeking to write block: %w", err)
	}

	if _, err := c.file.Write(h.data); err != nil {
		return fmt.Errorf("blockcache: writing block: %w", err)
	}

	h.flags &^= flagModif

	return nil
}

// readBlock fills h's buffer from the file, or with zeros if the block's
// start offset is at or past EOF, then sets VALID.
func (c *Cache) readBlock(h *BlockHeader) error {
	eof, err := c.file.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("blockcache: seeking to end of file: %w", err)
	}

	off := h.ibfile * c.blocksz

	switch {
	case off >= eof:
		clear(h.data)
	default:
		if _, err := c.file.Seek(off, io.SeekStart); err != nil {
			return fmt.Errorf("blockcache: seeking to read block: %w", err)
		}

		if _, err := io.ReadFull(c.file, h.data); err != nil {
			return fmt.Errorf("blockcache: reading block: %w", err)
		}
	}

	h.flags |= flagValid

	return nil
}

// syncGate is the periodic-sync gate (spec §4.3): decrements the per-engine
// countdown and runs Sync when it reaches zero.
func (c *Cache) syncGate() error {
	c.syncCountdown--
	if c.syncCountdown > 0 {
		return nil
	}

	c.syncCountdown = c.nsync

	return c.Sync()
}
