package nav

// Obstacle blocks the node nearest to its position while active.
type Obstacle struct {
	g      *Graph
	id     int
	pos    Vec
	active bool
}

// AddObstacle registers an active obstacle at pos.
func (g *Graph) AddObstacle(pos Vec) *Obstacle {
	o := &Obstacle{g: g, id: len(g.obstacles), pos: pos, active: true}
	g.obstacles = append(g.obstacles, o)
	return o
}

// RemoveObstacle unregisters an obstacle. The graph keeps its last scan until
// the next Scan.
func (g *Graph) RemoveObstacle(o *Obstacle) {
	for i, existing := range g.obstacles {
		if existing == o {
			g.obstacles = append(g.obstacles[:i], g.obstacles[i+1:]...)
			o.g = nil
			return
		}
	}
}

// Obstacles returns the number of registered obstacles.
func (g *Graph) Obstacles() int {
	return len(g.obstacles)
}

// SetActive toggles the obstacle. Takes effect on the next Scan.
func (o *Obstacle) SetActive(active bool) {
	if o == nil {
		return
	}
	o.active = active
}

// Active reports whether the obstacle currently blocks its node.
func (o *Obstacle) Active() bool {
	return o != nil && o.active
}

// MoveTo repositions the obstacle.
func (o *Obstacle) MoveTo(pos Vec) {
	if o == nil {
		return
	}
	o.pos = pos
}

// Position returns the obstacle's position.
func (o *Obstacle) Position() Vec {
	return o.pos
}

// Attached reports whether the obstacle is still registered with a graph.
func (o *Obstacle) Attached() bool {
	return o != nil && o.g != nil
}
