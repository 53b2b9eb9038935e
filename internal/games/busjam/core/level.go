package core

import (
	"fmt"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/busjam/internal/games/busjam/nav"
)

// Phase is the orchestrator's lifecycle stage.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseGrid
	PhaseBus
	PhaseStand
	PhaseCustomerAndGate
	PhaseRunning
	PhaseGameOver
	PhaseGameWin
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseGrid:
		return "grid"
	case PhaseBus:
		return "bus"
	case PhaseStand:
		return "stand"
	case PhaseCustomerAndGate:
		return "customer_and_gate"
	case PhaseRunning:
		return "running"
	case PhaseGameOver:
		return "game_over"
	case PhaseGameWin:
		return "game_win"
	default:
		return "unknown"
	}
}

// Level builds and runs one BusJam level. It is the Coordinator handed to
// buses and the bus queue; nothing in the package reaches it globally.
// A Level is not safe for concurrent use: drive it from one goroutine.
type Level struct {
	cfg    LevelConfig
	opts   Options
	rng    *rand.Rand
	logger *log.Logger

	ids     idAlloc
	sched   *Scheduler
	anim    Animator
	tracked *trackingAnimator
	graph   *nav.Graph
	oracle  *Oracle

	grid     *GridPool
	stands   *StandPool
	queue    *BusQueue
	registry *Registry

	buses     []*Bus
	customers []*Customer
	byID      map[EntityID]*Customer
	gates     []*Gate

	phase      Phase
	completed  bool
	outcome    Outcome
	gatesDirty bool
	inFlight   int
	stallNoted bool

	onGameOver []func(Outcome)
	onGameWin  []func(Outcome)
	events     []Event
	stats      Stats
}

// NewLevel creates an idle level. Call Initialize to build it.
func NewLevel(cfg LevelConfig, opts Options) *Level {
	opts = opts.withDefaults()
	l := &Level{
		cfg:    cfg,
		opts:   opts,
		rng:    rand.New(rand.NewSource(opts.Seed)),
		logger: opts.Logger.With("level", cfg.ID),
		byID:   make(map[EntityID]*Customer),
	}
	l.sched = NewScheduler()
	l.anim = opts.NewAnimator(l.sched, opts.Timing)
	l.tracked = &trackingAnimator{inner: l.anim, level: l}
	l.oracle = NewOracle(nil, l.logger)

	layout := opts.Layout
	l.grid = NewGridPool(layout.GridAnchor, layout.GridSpacing, &l.ids)
	l.stands = NewStandPool(layout.StandAnchor, layout.StandSpacing, &l.ids)
	l.queue = NewBusQueue(layout.BusAnchor, layout.BusSpacing, l)
	l.registry = NewRegistry(l.oracle, Vec{}, l.logger)
	return l
}

// Initialize tears down any previous state and builds the level in the
// strict order grid, buses, stands, customers and gates. An invalid
// configuration leaves the level idle and returns an error wrapping
// ErrInvalidConfig.
func (l *Level) Initialize() error {
	l.Teardown()
	l.rng = rand.New(rand.NewSource(l.opts.Seed))
	if err := l.cfg.Validate(); err != nil {
		l.logger.Error("invalid level configuration", "err", err)
		return fmt.Errorf("level %s: %w", l.cfg.ID, err)
	}

	l.setPhase(PhaseGrid)
	l.createGrid()

	l.setPhase(PhaseBus)
	if err := l.createBuses(); err != nil {
		l.Teardown()
		return fmt.Errorf("level %s: %w", l.cfg.ID, err)
	}

	l.setPhase(PhaseStand)
	l.stands.Setup(l.cfg.StandCount)

	l.setPhase(PhaseCustomerAndGate)
	if err := l.createCustomersAndGates(); err != nil {
		l.Teardown()
		return fmt.Errorf("level %s: %w", l.cfg.ID, err)
	}

	l.queue.Subscribe(l.onFrontArrived)
	l.registry.Flush()
	l.gatesDirty = len(l.gates) > 0
	l.setPhase(PhaseRunning)

	l.logger.Info("level ready",
		"grid", fmt.Sprintf("%dx%d", l.cfg.GridColumns, l.cfg.GridRows),
		"buses", l.queue.Len(),
		"customers", len(l.customers),
		"stands", l.stands.Total(),
		"gates", len(l.gates))
	return nil
}

// ClearScene discards the current level and builds it again from the same
// seed, so the layout repeats.
func (l *Level) ClearScene() error {
	l.logger.Debug("clearing scene")
	return l.Initialize()
}

// Teardown cancels all pending work and returns every pool to empty.
// Pooled grid cells and stands are kept for reuse.
func (l *Level) Teardown() {
	for _, c := range l.customers {
		c.removed = true
		c.sub.Cancel()
	}
	for _, b := range l.buses {
		b.removed = true
	}
	l.sched.CancelAll()

	l.queue.Clear()
	l.stands.Clear()
	l.registry.Clear()
	l.grid.Clear()
	l.oracle.SetGraph(nil)

	l.graph = nil
	l.buses = nil
	l.customers = nil
	l.gates = nil
	l.byID = make(map[EntityID]*Customer)
	l.completed = false
	l.outcome = Outcome{}
	l.gatesDirty = false
	l.inFlight = 0
	l.stallNoted = false
	l.events = nil
	l.stats = Stats{}
	l.phase = PhaseIdle
}

func (l *Level) setPhase(p Phase) {
	l.phase = p
	l.logger.Debug("phase", "phase", p)
	l.emit(Event{Kind: EventPhaseChanged, Phase: p})
}

func (l *Level) createGrid() {
	cells := l.grid.Update(l.cfg.GridColumns, l.cfg.GridRows)
	blocked := make(map[Coord]bool, len(l.cfg.Blocked))
	for _, b := range l.cfg.Blocked {
		blocked[b] = true
	}

	l.graph = nav.NewGraph(l.grid.Spacing() * 0.6)
	for _, c := range cells {
		c.Walkable = !blocked[c.Coord()]
		l.graph.AddNode(c.Col, c.Row, c.Pos, c.Walkable)
	}
	// The exit lane runs along the front edge; every customer heads for it.
	for col := 0; col < l.cfg.GridColumns; col++ {
		l.graph.AddNode(col, -1, l.grid.LanePosition(col), true)
	}
	l.graph.Scan()
	l.oracle.SetGraph(l.graph)

	first := l.grid.LanePosition(0)
	last := l.grid.LanePosition(l.cfg.GridColumns - 1)
	l.registry.SetTarget(first.Lerp(last, 0.5))
}

func (l *Level) createBuses() error {
	n := l.cfg.Buses()
	seats := l.cfg.Seats()
	palette := l.cfg.Colors()

	for i := 0; i < n; i++ {
		var color Color
		if len(l.cfg.BusColors) > 0 {
			color = l.cfg.BusColors[i%len(l.cfg.BusColors)]
		} else {
			color = palette[l.rng.Intn(len(palette))]
		}
		b := NewBus(l.ids.Next(), color, seats)
		l.buses = append(l.buses, b)
		l.queue.Enqueue(b)
	}
	if l.queue.Len() == 0 {
		return invalid("NO_BUSES", "no buses were created")
	}
	return nil
}

func (l *Level) newCustomer(color Color) *Customer {
	c := NewCustomer(l.ids.Next(), color)
	l.customers = append(l.customers, c)
	l.byID[c.ID()] = c
	return c
}

func (l *Level) createCustomersAndGates() error {
	var pool []*Customer
	if len(l.cfg.CustomerColors) > 0 {
		for _, color := range l.cfg.CustomerColors {
			pool = append(pool, l.newCustomer(color))
		}
	} else {
		for _, b := range l.buses {
			for i := 0; i < b.Capacity(); i++ {
				pool = append(pool, l.newCustomer(b.Color))
			}
		}
	}
	l.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	l.createGates()
	rest := distributeToGates(l.rng, pool, l.gates)

	var spots []*Cell
	for _, c := range l.grid.Visible() {
		if c.Walkable && c.gate == nil {
			spots = append(spots, c)
		}
	}
	l.rng.Shuffle(len(spots), func(i, j int) { spots[i], spots[j] = spots[j], spots[i] })

	for i, c := range rest {
		if i < len(spots) {
			c.placeOnCell(spots[i], l.graph)
			l.registry.Add(c)
			continue
		}
		overflow := rest[i:]
		if len(l.gates) == 0 {
			return invalid("NOT_ENOUGH_CELLS", "%d customers do not fit on %d free cells",
				len(rest), len(spots))
		}
		l.logger.Warn("not enough free cells, queueing overflow in gates",
			"overflow", len(overflow), "gates", len(l.gates))
		for j, oc := range overflow {
			l.gates[j%len(l.gates)].Enqueue(oc)
		}
		break
	}
	return nil
}

// createGates places gates on random walkable cells that have a free
// walkable neighbour to release onto.
func (l *Level) createGates() {
	reserved := make(map[*Cell]bool)
	for i := 0; i < l.cfg.GateCount; i++ {
		type candidate struct {
			cell     *Cell
			releases []*Cell
		}
		var candidates []candidate
		for _, c := range l.grid.Visible() {
			if !c.Walkable || c.gate != nil || reserved[c] {
				continue
			}
			var releases []*Cell
			for _, n := range l.grid.Neighbors(c) {
				if n.Walkable && n.gate == nil && !reserved[n] {
					releases = append(releases, n)
				}
			}
			if len(releases) > 0 {
				candidates = append(candidates, candidate{cell: c, releases: releases})
			}
		}
		if len(candidates) == 0 {
			l.logger.Warn("no room for gate", "placed", i, "requested", l.cfg.GateCount)
			return
		}

		pick := candidates[l.rng.Intn(len(candidates))]
		release := pick.releases[l.rng.Intn(len(pick.releases))]
		g := &Gate{ID: l.ids.Next(), Cell: pick.cell, Release: release}
		g.obstacle = l.graph.AddObstacle(pick.cell.Pos)
		pick.cell.gate = g
		reserved[release] = true
		l.gates = append(l.gates, g)
	}
}

// Tick advances the level by one scheduler step, then runs the coalesced
// reachability recompute, gate releases and stall detection.
func (l *Level) Tick() {
	if l.phase != PhaseRunning {
		return
	}
	l.stats.Ticks++
	l.sched.Step()
	if l.completed {
		return
	}
	if l.registry.Flush() {
		l.gatesDirty = true
	}
	if l.gatesDirty {
		l.gatesDirty = false
		l.releaseGates()
	}
	if l.Stalled() {
		l.resolveStall()
	}
}

func (l *Level) releaseGates() {
	for _, g := range l.gates {
		if !g.CanRelease(l.oracle) {
			continue
		}
		c := g.next()
		c.placeOnCell(g.Release, l.graph)
		l.registry.Add(c)
		l.tracked.ScaleIn(c, l.opts.Timing.SpawnTicks)
		l.stats.GateReleases++
		l.logger.Debug("gate released customer", "gate", g.ID, "customer", c.ID(), "left", g.Len())
		l.emit(Event{Kind: EventGateReleased, Customer: c.ID(), Color: c.Color})
	}
}

// SelectCustomer is the player's move: send the customer to the current bus
// if it matches, otherwise to a free stand. With neither available the
// customer is marked blocked until the next reachability recompute.
func (l *Level) SelectCustomer(id EntityID) error {
	if l.phase != PhaseRunning {
		return ErrLevelNotRunning
	}
	c := l.byID[id]
	if c == nil {
		return fmt.Errorf("customer %d: %w", id, ErrUnknownCustomer)
	}
	if l.registry.Flush() {
		l.gatesDirty = true
	}
	if !c.Available() {
		return fmt.Errorf("customer %d: %w", id, ErrCustomerUnavailable)
	}

	if bus := l.queue.Current(); bus != nil && bus.Color == c.Color && !bus.Full() {
		l.stats.Moves++
		l.leaveGrid(c)
		l.emit(Event{Kind: EventCustomerBoarding, Customer: c.ID(), Bus: bus.ID(), Color: c.Color})
		if _, err := bus.AssignCustomer(c); err != nil {
			return fmt.Errorf("customer %d: %w", id, err)
		}
		return nil
	}

	stand, ok := l.stands.Allocate(c)
	if !ok {
		c.blocked = true
		l.stats.Blocked++
		l.emit(Event{Kind: EventCustomerBlocked, Customer: c.ID(), Color: c.Color})
		return fmt.Errorf("customer %d: %w", id, ErrNoStandAvailable)
	}
	l.stats.Moves++
	l.stats.StandsUsed++
	l.leaveGrid(c)
	l.sendToStand(c, stand)
	return nil
}

func (l *Level) leaveGrid(c *Customer) {
	c.leaveGrid()
	l.registry.RequestRecompute()
	l.gatesDirty = true
}

func (l *Level) sendToStand(c *Customer, stand *Stand) {
	c.holder = HolderStand
	c.state = StateAwaitingStand
	c.stand = stand
	l.emit(Event{Kind: EventCustomerToStand, Customer: c.ID(), Color: c.Color})

	l.tracked.MoveTo(c, stand.Pos, l.opts.Timing.TravelTicks).Then(func() {
		if c.removed || c.stand != stand {
			return
		}
		c.state = StateOnStand
		l.emit(Event{Kind: EventCustomerOnStand, Customer: c.ID(), Color: c.Color})
	})
	c.sub = l.queue.Subscribe(func(front *Bus) { l.recheckStanding(c, front) })
}

// recheckStanding moves a stand customer onto a newly arrived bus of its color.
func (l *Level) recheckStanding(c *Customer, front *Bus) {
	if front == nil || c.removed || c.holder != HolderStand {
		return
	}
	if front.Color != c.Color || front.Full() {
		return
	}
	c.sub.Cancel()
	c.sub = nil
	l.sched.CancelOwner(c.ID())

	stand := c.stand
	c.stand = nil
	l.stands.Vacate(stand)
	l.registry.RequestRecompute()

	l.emit(Event{Kind: EventCustomerBoarding, Customer: c.ID(), Bus: front.ID(), Color: c.Color})
	if _, err := front.AssignCustomer(c); err != nil {
		l.logger.Warn("stand customer could not board", "customer", c.ID(), "bus", front.ID(), "err", err)
	}
}

func (l *Level) onFrontArrived(front *Bus) {
	if front == nil {
		return
	}
	l.logger.Debug("bus arrived", "bus", front.ID(), "color", front.Color, "queued", l.queue.Len())
	l.emit(Event{Kind: EventBusArrived, Bus: front.ID(), Color: front.Color})
	// A new color can unblock customers marked blocked against the old one.
	l.registry.RequestRecompute()
}

// Animator implements Coordinator.
func (l *Level) Animator() Animator { return l.tracked }

// Timing implements Coordinator.
func (l *Level) Timing() Timing { return l.opts.Timing }

// Logger implements Coordinator.
func (l *Level) Logger() *log.Logger { return l.logger }

// OnBusFilled implements Coordinator.
func (l *Level) OnBusFilled(b *Bus) {
	l.logger.Debug("bus filled", "bus", b.ID(), "color", b.Color)
	if err := l.queue.Remove(b); err != nil {
		l.logger.Warn("filled bus was not queued", "bus", b.ID(), "err", err)
	}
}

// OnCustomerSeated implements Coordinator.
func (l *Level) OnCustomerSeated(b *Bus, c *Customer) {
	l.registry.Remove(c)
	l.stats.Seated++
	l.emit(Event{Kind: EventCustomerSeated, Customer: c.ID(), Bus: b.ID(), Color: c.Color})
	l.CheckWinCondition()
}

// OnBusDeparted implements Coordinator.
func (l *Level) OnBusDeparted(b *Bus) {
	l.stats.BusesDeparted++
	l.emit(Event{Kind: EventBusDeparted, Bus: b.ID(), Color: b.Color})
	l.CheckWinCondition()
}

// OnQueueEmpty implements Coordinator.
func (l *Level) OnQueueEmpty() {
	l.logger.Debug("bus queue empty")
	l.CheckWinCondition()
}

// Stalled reports whether nothing can change without player input and no
// player input can change anything: no work is in flight, no recompute or
// gate check is pending, no gate can release and no grid customer is both
// reachable and placeable.
func (l *Level) Stalled() bool {
	if l.phase != PhaseRunning || l.completed {
		return false
	}
	if l.sched.Pending() > 0 || l.registry.Pending() || l.gatesDirty {
		return false
	}
	bus := l.queue.Current()
	freeStand := l.stands.FreeCount() > 0
	for _, c := range l.registry.members {
		if c.holder != HolderPool || !c.canReach {
			continue
		}
		if freeStand || (bus != nil && bus.Color == c.Color && !bus.Full()) {
			return false
		}
	}
	for _, g := range l.gates {
		if g.CanRelease(l.oracle) {
			return false
		}
	}
	return true
}

func (l *Level) resolveStall() {
	if l.CheckWinCondition() || l.CheckGameOver() {
		return
	}
	if l.cfg.DeadlockIsLoss && l.stands.FreeCount() == 0 && !l.standingMatch() {
		l.finish(Outcome{Reason: ReasonDeadlock})
		return
	}
	if l.stranded() {
		l.finish(Outcome{Reason: ReasonStranded})
		return
	}
	if !l.stallNoted {
		l.stallNoted = true
		l.logger.Warn("level stalled without an outcome",
			"stands", l.stands.OccupiedCount(), "target", l.cfg.Target(), "registry", l.registry.Len())
		l.emit(Event{Kind: EventStalled})
	}
}

// stranded reports whether fewer customers of the front bus's color are
// left outside a bus than it has free seats. With no bus left, any customer
// not yet seated is stranded.
func (l *Level) stranded() bool {
	bus := l.queue.Current()
	left := 0
	for _, c := range l.customers {
		if c.holder == HolderSeat {
			continue
		}
		if bus == nil || c.Color == bus.Color {
			left++
		}
	}
	if bus == nil {
		return left > 0
	}
	return left < bus.Capacity()-bus.Assigned()
}

func (l *Level) standingMatch() bool {
	bus := l.queue.Current()
	if bus == nil {
		return false
	}
	for _, c := range l.stands.Standing() {
		if c.Color == bus.Color {
			return true
		}
	}
	return false
}

// CheckGameOver ends the level as lost when fewer stands than the target are
// occupied and no standing customer matches the current bus. Once the level
// is complete it only reports whether it was lost.
func (l *Level) CheckGameOver() bool {
	if l.completed {
		return !l.outcome.Won
	}
	if l.phase != PhaseRunning {
		return false
	}
	if l.stands.OccupiedCount() >= l.cfg.Target() {
		return false
	}
	if l.standingMatch() {
		return false
	}
	l.finish(Outcome{Reason: ReasonStandsUnmet})
	return true
}

// CheckWinCondition ends the level as won when the bus queue and the
// registry are empty and no customer animation is in flight. Once the level
// is complete it only reports whether it was won.
func (l *Level) CheckWinCondition() bool {
	if l.completed {
		return l.outcome.Won
	}
	if l.phase != PhaseRunning {
		return false
	}
	if l.queue.Len() > 0 || l.registry.Len() > 0 || l.inFlight > 0 {
		return false
	}
	if l.cfg.RequireGatesEmpty {
		for _, g := range l.gates {
			if !g.Empty() {
				return false
			}
		}
	}
	l.finish(Outcome{Won: true, Reason: ReasonCleared})
	return true
}

func (l *Level) finish(o Outcome) {
	if l.completed {
		return
	}
	l.completed = true
	l.outcome = o

	kind := EventGameOver
	callbacks := l.onGameOver
	l.phase = PhaseGameOver
	if o.Won {
		kind = EventGameWin
		callbacks = l.onGameWin
		l.phase = PhaseGameWin
	}
	l.logger.Info("level finished", "outcome", o, "moves", l.stats.Moves, "ticks", l.stats.Ticks)
	l.emit(Event{Kind: kind, Reason: o.Reason, Phase: l.phase})
	for _, fn := range callbacks {
		fn(o)
	}
}

// OnGameOver registers fn to run once when the level is lost.
func (l *Level) OnGameOver(fn func(Outcome)) {
	l.onGameOver = append(l.onGameOver, fn)
}

// OnGameWin registers fn to run once when the level is won.
func (l *Level) OnGameWin(fn func(Outcome)) {
	l.onGameWin = append(l.onGameWin, fn)
}

// CheckMembership verifies that every customer is held by exactly one of the
// registry pool, a stand, a bus seat or a gate queue.
func (l *Level) CheckMembership() error {
	for _, c := range l.customers {
		n := 0
		if l.registry.Contains(c) && c.holder == HolderPool {
			n++
		}
		for _, s := range l.stands.Stands() {
			if s.occupant == c {
				n++
			}
		}
		for _, b := range l.buses {
			for _, seat := range b.seats {
				if seat.customer == c {
					n++
				}
			}
		}
		for _, g := range l.gates {
			for _, p := range g.pending {
				if p == c {
					n++
				}
			}
		}
		if n != 1 {
			return fmt.Errorf("customer %d (%s, holder %s): held by %d structures",
				c.ID(), c.state, c.holder, n)
		}
	}
	return nil
}

func (l *Level) emit(e Event) {
	e.Tick = l.sched.Tick()
	l.events = append(l.events, e)
}

// DrainEvents returns and clears the queued events.
func (l *Level) DrainEvents() []Event {
	out := l.events
	l.events = nil
	return out
}

// Config returns the level configuration.
func (l *Level) Config() LevelConfig { return l.cfg }

// Phase returns the lifecycle phase.
func (l *Level) Phase() Phase { return l.phase }

// Completed reports whether the level has been won or lost.
func (l *Level) Completed() bool { return l.completed }

// Outcome returns how the level ended; the zero Outcome while running.
func (l *Level) Outcome() Outcome { return l.outcome }

// Stats returns the level counters.
func (l *Level) Stats() Stats { return l.stats }

// Queue returns the bus queue.
func (l *Level) Queue() *BusQueue { return l.queue }

// Stands returns the stand pool.
func (l *Level) Stands() *StandPool { return l.stands }

// Registry returns the customer registry.
func (l *Level) Registry() *Registry { return l.registry }

// Grid returns the grid pool.
func (l *Level) Grid() *GridPool { return l.grid }

// Gates returns the level's gates.
func (l *Level) Gates() []*Gate { return l.gates }

// Buses returns every bus created for the level, departed ones included.
func (l *Level) Buses() []*Bus { return l.buses }

// Customers returns every customer of the level.
func (l *Level) Customers() []*Customer { return l.customers }

// Customer returns the customer with the given id, or nil.
func (l *Level) Customer(id EntityID) *Customer { return l.byID[id] }

// CustomerAt returns the customer standing on grid cell (col,row), or nil.
func (l *Level) CustomerAt(col, row int) *Customer {
	cell := l.grid.At(col, row)
	if cell == nil {
		return nil
	}
	for _, c := range l.registry.members {
		if c.cell == cell {
			return c
		}
	}
	return nil
}

// Scheduler returns the level's scheduler.
func (l *Level) Scheduler() *Scheduler { return l.sched }

// Oracle returns the reachability oracle.
func (l *Level) Oracle() *Oracle { return l.oracle }

// Graph returns the navigation graph, nil while idle.
func (l *Level) Graph() *nav.Graph { return l.graph }

// InFlight returns the number of customer animations still running.
func (l *Level) InFlight() int { return l.inFlight }

// trackingAnimator counts customer animations so the win check can wait for
// them to finish.
type trackingAnimator struct {
	inner Animator
	level *Level
}

func (t *trackingAnimator) track(b Body, sig *Signal) *Signal {
	if _, ok := b.(*Customer); !ok {
		return sig
	}
	t.level.inFlight++
	sig.Finally(func() { t.level.inFlight-- })
	return sig
}

func (t *trackingAnimator) MoveTo(b Body, target Vec, ticks int) *Signal {
	return t.track(b, t.inner.MoveTo(b, target, ticks))
}

func (t *trackingAnimator) ScaleIn(b Body, ticks int) *Signal {
	return t.track(b, t.inner.ScaleIn(b, ticks))
}
