package ir

// BlockGraph is a read-only adjacency view derived from the predecessor/
// successor caches Function maintains incrementally as operations are
// set. It deliberately does not expose the caches themselves, so callers
// can't mutate them and desync them from the op they summarize.
type BlockGraph struct {
	fun *Function
}

// Outgoing returns block's successors: every block reachable as the
// target of a control-transferring read in block's own operation.
func (g BlockGraph) Outgoing(block Block) []Block {
	return g.fun.blockSetPool.Items(g.fun.blocks.get(block).succs)
}

// Incoming returns block's predecessors: every block whose operation
// reads block (directly or via a first-class block value) as a control
// transfer target.
func (g BlockGraph) Incoming(block Block) []Block {
	return g.fun.blockSetPool.Items(g.fun.blocks.get(block).preds)
}
