package core

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/busjam/internal/games/busjam/nav"
)

// Query is one reachability question: can the entity owning Self get from
// From to To, ignoring its own footprint?
type Query struct {
	Self *nav.Obstacle
	From Vec
	To   Vec
}

// Oracle answers reachability queries against a navigation graph. Each query
// temporarily lifts the asker's own obstacle, rescans, tests connectivity and
// restores the graph, so the graph is unchanged once a query returns.
type Oracle struct {
	mu     sync.Mutex
	graph  *nav.Graph
	logger *log.Logger

	queries   int
	anomalies int
}

// NewOracle creates an oracle over g.
func NewOracle(g *nav.Graph, logger *log.Logger) *Oracle {
	return &Oracle{graph: g, logger: logger}
}

// SetGraph swaps the graph, used when a level is rebuilt.
func (o *Oracle) SetGraph(g *nav.Graph) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.graph = g
}

// Graph returns the current graph.
func (o *Oracle) Graph() *nav.Graph {
	return o.graph
}

// CanReach reports whether a path exists from from to to with self's
// obstacle lifted. Positions that resolve to no node are unreachable.
func (o *Oracle) CanReach(self *nav.Obstacle, from, to Vec) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.graph == nil {
		return false
	}

	restore := o.lift(self)
	o.graph.Scan()
	ok := o.query(from, to)
	restore()
	o.graph.Scan()
	return ok
}

// CanReachAll answers a batch of queries with the same results as calling
// CanReach for each, but rescans once per query plus one final restoring
// scan instead of twice per query.
func (o *Oracle) CanReachAll(queries []Query) []bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]bool, len(queries))
	if o.graph == nil || len(queries) == 0 {
		return out
	}

	for i, q := range queries {
		restore := o.lift(q.Self)
		o.graph.Scan()
		out[i] = o.query(q.From, q.To)
		restore()
	}
	o.graph.Scan()
	return out
}

// Stats returns the number of answered queries and unresolved-node anomalies.
func (o *Oracle) Stats() (queries, anomalies int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.queries, o.anomalies
}

func (o *Oracle) lift(self *nav.Obstacle) func() {
	if self == nil {
		return func() {}
	}
	was := self.Active()
	self.SetActive(false)
	return func() { self.SetActive(was) }
}

func (o *Oracle) query(from, to Vec) bool {
	o.queries++
	a, okA := o.graph.Nearest(from)
	b, okB := o.graph.Nearest(to)
	if !okA || !okB {
		o.anomalies++
		if o.logger != nil {
			o.logger.Warn("reachability query treated as unreachable",
				"from", from, "to", to, "err", ErrUnresolvedNode)
		}
		return false
	}
	return o.graph.IsPathPossible(a, b)
}
