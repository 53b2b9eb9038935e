package core

import (
	"github.com/charmbracelet/log"
	"github.com/zyedidia/generic/mapset"
)

// Registry is the set of active customers: everyone released onto the grid
// who has not been seated yet. It owns reachability bookkeeping. Recomputes
// are requested freely and coalesced into one batch per Flush.
type Registry struct {
	oracle *Oracle
	target Vec
	logger *log.Logger

	members []*Customer
	index   mapset.Set[EntityID]

	dirty   bool
	batches int
}

// NewRegistry creates an empty registry whose customers try to reach target.
func NewRegistry(oracle *Oracle, target Vec, logger *log.Logger) *Registry {
	return &Registry{
		oracle: oracle,
		target: target,
		logger: logger,
		index:  mapset.New[EntityID](),
	}
}

// SetTarget changes the destination used by reachability checks.
func (r *Registry) SetTarget(target Vec) {
	r.target = target
	r.dirty = true
}

// Target returns the reachability destination.
func (r *Registry) Target() Vec {
	return r.target
}

// Add registers c and requests a recompute. Duplicate adds are ignored.
func (r *Registry) Add(c *Customer) bool {
	if r.index.Has(c.ID()) {
		return false
	}
	r.index.Put(c.ID())
	r.members = append(r.members, c)
	r.dirty = true
	return true
}

// Remove unregisters c, lifts its obstacle and requests a recompute.
func (r *Registry) Remove(c *Customer) bool {
	if !r.index.Has(c.ID()) {
		return false
	}
	r.index.Remove(c.ID())
	for i, m := range r.members {
		if m == c {
			r.members = append(r.members[:i], r.members[i+1:]...)
			break
		}
	}
	if c.obstacle != nil {
		c.obstacle.SetActive(false)
	}
	r.dirty = true
	return true
}

// Contains reports whether c is registered.
func (r *Registry) Contains(c *Customer) bool {
	return r.index.Has(c.ID())
}

// Len returns the number of registered customers.
func (r *Registry) Len() int {
	return len(r.members)
}

// Members returns a copy of the registered customers in insertion order.
func (r *Registry) Members() []*Customer {
	return append([]*Customer(nil), r.members...)
}

// RequestRecompute marks reachability stale.
func (r *Registry) RequestRecompute() {
	r.dirty = true
}

// Pending reports whether a recompute has been requested and not run.
func (r *Registry) Pending() bool {
	return r.dirty
}

// Batches returns how many recompute batches have run.
func (r *Registry) Batches() int {
	return r.batches
}

// Flush runs the pending recompute, if any, and reports whether it ran.
func (r *Registry) Flush() bool {
	if !r.dirty {
		return false
	}
	r.Recompute()
	return true
}

// Recompute refreshes CanReach for every grid customer. It snapshots the
// members first, queries the oracle in one batch and applies the results
// only to customers that are still on the grid.
func (r *Registry) Recompute() {
	r.dirty = false
	r.batches++

	var snapshot []*Customer
	var queries []Query
	for _, c := range r.members {
		if c.holder != HolderPool || c.state != StateUnassigned || c.cell == nil {
			c.canReach = false
			continue
		}
		snapshot = append(snapshot, c)
		queries = append(queries, Query{Self: c.obstacle, From: c.pos, To: r.target})
	}

	results := r.oracle.CanReachAll(queries)
	reachable := 0
	for i, c := range snapshot {
		if !r.Contains(c) || c.holder != HolderPool || c.cell == nil {
			continue
		}
		c.canReach = results[i]
		c.blocked = false
		if c.canReach {
			reachable++
		}
	}
	if r.logger != nil {
		r.logger.Debug("reachability recomputed", "customers", len(snapshot), "reachable", reachable)
	}
}

// Available returns the customers that can be selected right now.
func (r *Registry) Available() []*Customer {
	var out []*Customer
	for _, c := range r.members {
		if c.Available() {
			out = append(out, c)
		}
	}
	return out
}

// Clear drops every member.
func (r *Registry) Clear() {
	r.members = nil
	r.index = mapset.New[EntityID]()
	r.dirty = false
}
