package blockcache

// lruStrategy evicts the least-recently accessed block. State is a single
// blockList ordered by last access, oldest at the head. Placement is
// identical to FIFO; Read and Write additionally move the accessed header
// to the tail (LRU_strategy.c's Cache_List_Move_To_End on every access).
type lruStrategy struct {
	order *blockList
}

func newLRUStrategy() *lruStrategy {
	return &lruStrategy{order: newBlockList()}
}

func (s *lruStrategy) Close(_ *Cache) {
	s.order.Clear()
}

func (s *lruStrategy) Invalidate(_ *Cache) {
	s.order.Clear()
}

func (s *lruStrategy) ReplaceBlock(c *Cache) *BlockHeader {
	if h := c.nextFreeHeader(); h != nil {
		s.order.Append(h)

		return h
	}

	victim, _ := s.order.RemoveFirst()
	s.order.Append(victim)

	return victim
}

func (s *lruStrategy) Read(_ *Cache, h *BlockHeader) {
	s.order.MoveToEnd(h)
}

func (s *lruStrategy) Write(_ *Cache, h *BlockHeader) {
	s.order.MoveToEnd(h)
}

func (s *lruStrategy) Name() string { return "LRU" }
