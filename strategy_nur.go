package blockcache

// nurStrategy is Not Used Recently: each header carries a reference bit
// (flagRef) set on every access, periodically cleared in bulk by a "sweep".
// The victim is the header minimizing 2*R+M (NUR_strategy.c's EQUATION),
// recomputed from live flags on every ReplaceBlock call rather than cached.
//
// nderef == 0 disables the sweep entirely: R accumulates and is cleared
// only by Invalidate, and n_deref is never incremented (spec §8 P7).
type nurStrategy struct {
	nderef    int // sweep period; 0 disables sweeping
	countdown int // operations remaining until the next sweep
}

func newNURStrategy(nderef int) *nurStrategy {
	return &nurStrategy{nderef: nderef, countdown: nderef}
}

func (s *nurStrategy) Close(_ *Cache) {}

// Invalidate clears every header's reference bit immediately, so a
// post-invalidation cache starts cold with respect to R. When nderef > 0
// this is done by forcing the regular sweep gate to fire once (countdown
// set to 1), which also counts as a dereference event; when nderef == 0
// the bits are cleared directly, without incrementing n_deref, since the
// sweep is disabled.
func (s *nurStrategy) Invalidate(c *Cache) {
	if s.nderef <= 0 {
		for _, h := range c.headers {
			h.flags &^= flagRef
		}

		return
	}

	s.countdown = 1
	s.sweep(c)
}

func (s *nurStrategy) ReplaceBlock(c *Cache) *BlockHeader {
	if h := c.nextFreeHeader(); h != nil {
		return h
	}

	var (
		victim   *BlockHeader
		bestSeen int
	)

	for _, h := range c.headers {
		score := h.nurScore()
		if score == 0 {
			return h
		}

		if victim == nil || score < bestSeen {
			victim = h
			bestSeen = score
		}
	}

	return victim
}

func (s *nurStrategy) Read(c *Cache, h *BlockHeader) {
	s.sweep(c)
	h.flags |= flagRef
}

func (s *nurStrategy) Write(c *Cache, h *BlockHeader) {
	s.sweep(c)
	h.flags |= flagRef
}

func (s *nurStrategy) Name() string { return "NUR" }

// sweep decrements the countdown and, on reaching zero with sweeping
// enabled, clears every header's reference bit and counts a dereference.
func (s *nurStrategy) sweep(c *Cache) {
	if s.nderef <= 0 {
		return
	}

	s.countdown--
	if s.countdown > 0 {
		return
	}

	for _, h := range c.headers {
		h.flags &^= flagRef
	}

	s.countdown = s.nderef
	c.instrument.Derefs++
}
