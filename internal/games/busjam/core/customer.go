package core

import "github.com/vovakirdan/busjam/internal/games/busjam/nav"

// CustomerState is where a customer is in its journey to a bus.
type CustomerState uint8

const (
	StateUnassigned   CustomerState = iota // on the grid or waiting in a gate
	StateAwaitingStand                     // walking to a stand
	StateOnStand                           // waiting on a stand
	StateToBus                             // walking to a bus seat
	StateSeated                            // finalized in a seat
)

func (s CustomerState) String() string {
	switch s {
	case StateUnassigned:
		return "unassigned"
	case StateAwaitingStand:
		return "awaiting_stand"
	case StateOnStand:
		return "on_stand"
	case StateToBus:
		return "to_bus"
	case StateSeated:
		return "seated"
	default:
		return "unknown"
	}
}

// Holder names the single structure that owns a customer.
type Holder uint8

const (
	HolderNone Holder = iota
	HolderPool
	HolderStand
	HolderSeat
	HolderGate
)

func (h Holder) String() string {
	switch h {
	case HolderPool:
		return "pool"
	case HolderStand:
		return "stand"
	case HolderSeat:
		return "seat"
	case HolderGate:
		return "gate"
	default:
		return "none"
	}
}

// Customer is a passenger waiting to board the bus of its color.
type Customer struct {
	id    EntityID
	Color Color

	state    CustomerState
	holder   Holder
	canReach bool
	blocked  bool
	removed  bool

	pos   Vec
	scale float64

	cell     *Cell
	obstacle *nav.Obstacle
	stand    *Stand
	bus      *Bus
	seat     *Seat
	gate     *Gate
	sub      *Subscription
}

// NewCustomer creates a customer that is not yet placed anywhere.
func NewCustomer(id EntityID, color Color) *Customer {
	return &Customer{id: id, Color: color, scale: 1}
}

// ID implements Body.
func (c *Customer) ID() EntityID { return c.id }

// Position implements Body.
func (c *Customer) Position() Vec { return c.pos }

// SetPosition implements Body.
func (c *Customer) SetPosition(p Vec) { c.pos = p }

// Scale implements Body.
func (c *Customer) Scale() float64 { return c.scale }

// SetScale implements Body.
func (c *Customer) SetScale(s float64) { c.scale = s }

// State returns the journey state.
func (c *Customer) State() CustomerState { return c.state }

// Holder returns which structure owns the customer.
func (c *Customer) Holder() Holder { return c.holder }

// CanReach reports the result of the last reachability recompute.
func (c *Customer) CanReach() bool { return c.canReach }

// Blocked reports whether the last selection found no bus seat and no stand.
// Cleared by the next reachability recompute.
func (c *Customer) Blocked() bool { return c.blocked }

// Available reports whether selecting the customer would do anything: it is
// on the grid, unassigned, reachable and not blocked.
func (c *Customer) Available() bool {
	return !c.removed && c.holder == HolderPool && c.state == StateUnassigned &&
		c.canReach && !c.blocked
}

// Cell returns the grid cell the customer occupies, or nil once it left the grid.
func (c *Customer) Cell() *Cell { return c.cell }

// Stand returns the stand holding the customer, or nil.
func (c *Customer) Stand() *Stand { return c.stand }

// Bus returns the bus the customer is boarding or seated in, or nil.
func (c *Customer) Bus() *Bus { return c.bus }

// Gate returns the gate the customer waits in, or nil.
func (c *Customer) Gate() *Gate { return c.gate }

// placeOnCell puts the customer on the grid with a fresh obstacle.
func (c *Customer) placeOnCell(cell *Cell, g *nav.Graph) {
	c.cell = cell
	c.pos = cell.Pos
	c.holder = HolderPool
	c.state = StateUnassigned
	c.gate = nil
	c.canReach = false
	c.blocked = false
	c.obstacle = g.AddObstacle(cell.Pos)
}

// leaveGrid frees the customer's cell for pathfinding.
func (c *Customer) leaveGrid() {
	if c.obstacle != nil {
		c.obstacle.SetActive(false)
	}
	c.cell = nil
	c.canReach = false
}
