// Package blockcache implements a fixed-size, write-back block cache over a
// single record-oriented backing file.
//
// Callers read and write fixed-size records by ordinal index. The cache
// groups contiguous records into blocks, keeps a bounded number of blocks
// resident in memory, and defers writing a modified block back to the file
// until the block is evicted, a periodic sync boundary is crossed, or the
// caller calls Sync explicitly.
//
// # Basic usage
//
//	c, err := blockcache.Create(blockcache.Options{
//	    Path:       "/tmp/records.db",
//	    NBlocks:    64,
//	    NRecords:   8,
//	    RecordSize: 128,
//	    Strategy:   blockcache.LRU,
//	})
//	if err != nil {
//	    // handle error
//	}
//	defer c.Close()
//
//	var buf [128]byte
//	if err := c.Write(42, buf[:]); err != nil {
//	    // handle error
//	}
//	if err := c.Read(42, buf[:]); err != nil {
//	    // handle error
//	}
//
// # Concurrency
//
// A Cache is not safe for concurrent use. The caller must serialize all
// operations on a given handle; independent Cache handles over disjoint
// files are independent of each other.
//
// # Durability
//
// A successful Write is visible to a subsequent Read on the same handle
// immediately. It is only guaranteed durable on the backing file after a
// successful Sync (called explicitly, via Invalidate, or via the periodic
// sync gate). Cache is not a crash-consistency mechanism beyond that
// guarantee.
package blockcache
