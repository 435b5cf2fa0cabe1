package blockcache

// fifoStrategy evicts the block placed longest ago. State is a single
// blockList ordered by placement time, oldest at the head — the direct
// port of FIFO_strategy.c's FIFO_LIST, generalized from a bare
// Cache_List pointer to a named type.
type fifoStrategy struct {
	placed *blockList
}

func newFIFOStrategy() *fifoStrategy {
	return &fifoStrategy{placed: newBlockList()}
}

func (s *fifoStrategy) Close(_ *Cache) {
	s.placed.Clear()
}

func (s *fifoStrategy) Invalidate(_ *Cache) {
	s.placed.Clear()
}

func (s *fifoStrategy) ReplaceBlock(c *Cache) *BlockHeader {
	if h := c.nextFreeHeader(); h != nil {
		s.placed.Append(h)

		return h
	}

	victim, _ := s.placed.RemoveFirst()
	s.placed.Append(victim)

	return victim
}

func (s *fifoStrategy) Read(_ *Cache, _ *BlockHeader) {}

func (s *fifoStrategy) Write(_ *Cache, _ *BlockHeader) {}

func (s *fifoStrategy) Name() string { return "FIFO" }
