// Package nav provides the grid navigation graph that BusJam's reachability
// queries run against. It plays the part of an external pathfinding library:
// callers toggle obstacles, rescan, resolve nearest nodes and ask whether a
// path is possible. Connectivity is answered from area labels computed during
// Scan, so IsPathPossible is O(1) between scans.
package nav

import (
	"fmt"
	"hash/fnv"
	"math"

	"github.com/zyedidia/generic/mapset"
)

// Vec is a point in level space. X grows to the right, Y grows away from the
// boarding lane.
type Vec struct {
	X float64
	Y float64
}

// V is a convenience constructor for Vec.
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// Add returns the component-wise sum.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns the component-wise difference.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale multiplies both components by f.
func (v Vec) Scale(f float64) Vec {
	return Vec{X: v.X * f, Y: v.Y * f}
}

// Dist returns the euclidean distance to o.
func (v Vec) Dist(o Vec) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// Lerp interpolates between v and o by t in [0,1].
func (v Vec) Lerp(o Vec, t float64) Vec {
	return Vec{X: v.X + (o.X-v.X)*t, Y: v.Y + (o.Y-v.Y)*t}
}

// String returns a compact representation for logs.
func (v Vec) String() string {
	return fmt.Sprintf("(%.2f,%.2f)", v.X, v.Y)
}

// NodeID identifies a node in a Graph.
type NodeID int

// NoNode is returned when a position resolves to no node.
const NoNode NodeID = -1

// Node is a single navigable point with grid coordinates.
type Node struct {
	ID       NodeID
	Col      int
	Row      int
	Pos      Vec
	Walkable bool // base walkability, before obstacles
}

type gridKey struct {
	col, row int
}

// Graph is a 4-connected grid graph with dynamic obstacles.
// Nodes are addressed by (col,row); neighbours differ by one in exactly one axis.
type Graph struct {
	nodes     []Node
	index     map[gridKey]NodeID
	snap      float64
	obstacles []*Obstacle

	// Results of the last Scan.
	walkable []bool
	area     []int
	scans    int
}

// NewGraph creates an empty graph. Positions farther than snap from every
// node resolve to NoNode.
func NewGraph(snap float64) *Graph {
	if snap <= 0 {
		snap = 0.5
	}
	return &Graph{
		index: make(map[gridKey]NodeID),
		snap:  snap,
	}
}

// AddNode adds a node at grid coordinate (col,row). Adding a coordinate twice
// replaces the earlier node's position and walkability.
func (g *Graph) AddNode(col, row int, pos Vec, walkable bool) NodeID {
	k := gridKey{col, row}
	if id, ok := g.index[k]; ok {
		g.nodes[id].Pos = pos
		g.nodes[id].Walkable = walkable
		return id
	}
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{ID: id, Col: col, Row: row, Pos: pos, Walkable: walkable})
	g.index[k] = id
	return id
}

// SetWalkable changes the base walkability of a node. Takes effect on the next Scan.
func (g *Graph) SetWalkable(id NodeID, walkable bool) {
	if !g.valid(id) {
		return
	}
	g.nodes[id].Walkable = walkable
}

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) (Node, bool) {
	if !g.valid(id) {
		return Node{}, false
	}
	return g.nodes[id], true
}

// At returns the node at a grid coordinate.
func (g *Graph) At(col, row int) (NodeID, bool) {
	id, ok := g.index[gridKey{col, row}]
	return id, ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Scans returns how many times Scan has run.
func (g *Graph) Scans() int {
	return g.scans
}

func (g *Graph) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(g.nodes)
}

// Nearest resolves a position to the closest node within the snap distance.
// Ties go to the lower node id.
func (g *Graph) Nearest(pos Vec) (NodeID, bool) {
	best := NoNode
	bestDist := math.Inf(1)
	for _, n := range g.nodes {
		d := n.Pos.Dist(pos)
		if d < bestDist {
			best = n.ID
			bestDist = d
		}
	}
	if best == NoNode || bestDist > g.snap {
		return NoNode, false
	}
	return best, true
}

// Scan rebuilds walkability from base flags and active obstacles, then labels
// connected areas.
func (g *Graph) Scan() {
	g.scans++
	n := len(g.nodes)
	if cap(g.walkable) < n {
		g.walkable = make([]bool, n)
		g.area = make([]int, n)
	}
	g.walkable = g.walkable[:n]
	g.area = g.area[:n]

	for i, node := range g.nodes {
		g.walkable[i] = node.Walkable
		g.area[i] = 0
	}
	for _, o := range g.obstacles {
		if !o.active {
			continue
		}
		if id, ok := g.Nearest(o.pos); ok {
			g.walkable[id] = false
		}
	}

	label := 0
	for i := range g.nodes {
		if !g.walkable[i] || g.area[i] != 0 {
			continue
		}
		label++
		g.flood(NodeID(i), label)
	}
}

// flood assigns label to every walkable node connected to start.
func (g *Graph) flood(start NodeID, label int) {
	visited := mapset.New[NodeID]()
	queue := []NodeID{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited.Has(current) {
			continue
		}
		visited.Put(current)
		g.area[current] = label

		for _, next := range g.Neighbors(current) {
			if g.walkable[next] && !visited.Has(next) {
				queue = append(queue, next)
			}
		}
	}
}

// Neighbors returns the 4-connected neighbours of a node, walkable or not.
func (g *Graph) Neighbors(id NodeID) []NodeID {
	if !g.valid(id) {
		return nil
	}
	n := g.nodes[id]
	out := make([]NodeID, 0, 4)
	for _, d := range [4]gridKey{{0, -1}, {1, 0}, {0, 1}, {-1, 0}} {
		if next, ok := g.index[gridKey{n.Col + d.col, n.Row + d.row}]; ok {
			out = append(out, next)
		}
	}
	return out
}

// Walkable reports whether a node was walkable at the last Scan.
func (g *Graph) Walkable(id NodeID) bool {
	if !g.valid(id) || int(id) >= len(g.walkable) {
		return false
	}
	return g.walkable[id]
}

// IsPathPossible reports whether both nodes were walkable and in the same
// connected area at the last Scan.
func (g *Graph) IsPathPossible(a, b NodeID) bool {
	if !g.Walkable(a) || !g.Walkable(b) {
		return false
	}
	return g.area[a] == g.area[b]
}

// Areas returns the number of connected areas found by the last Scan.
func (g *Graph) Areas() int {
	seen := mapset.New[int]()
	for i, a := range g.area {
		if g.walkable[i] {
			seen.Put(a)
		}
	}
	return seen.Size()
}

// Fingerprint hashes base walkability, obstacle state and the last scan's
// results. Two equal fingerprints mean the graph is in the same observable state.
func (g *Graph) Fingerprint() uint64 {
	h := fnv.New64a()
	for i, n := range g.nodes {
		fmt.Fprintf(h, "N%d:%v;", n.ID, n.Walkable)
		if i < len(g.walkable) {
			fmt.Fprintf(h, "W%v:%d;", g.walkable[i], g.area[i])
		}
	}
	for _, o := range g.obstacles {
		fmt.Fprintf(h, "O%d:%v:%s;", o.id, o.active, o.pos)
	}
	return h.Sum64()
}
