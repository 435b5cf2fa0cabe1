package blockcache

// Instrument is a snapshot of the cache's event counters, returned by value
// so the caller owns its own copy (spec §9 flags "returning a reference to
// a stack snapshot" as a pattern to avoid).
type Instrument struct {
	Reads  uint64 // Read calls
	Writes uint64 // Write calls
	Hits   uint64 // Read/Write calls whose target block was already VALID
	Syncs  uint64 // completed Sync calls (explicit, periodic, or via Invalidate)
	Derefs uint64 // NUR reference-bit sweeps
}
