package state

import (
	"sync"
	"time"

	"occupancy/commands"
	"occupancy/constants"
	"occupancy/models"
	"occupancy/services/logger"
)

// Source says where a state change came from.
type Source int

const (
	SourceLocal Source = iota
	SourceRemote
	SourceRollover
)

func (s Source) String() string {
	switch s {
	case SourceLocal:
		return "local"
	case SourceRemote:
		return "remote"
	case SourceRollover:
		return "rollover"
	default:
		return "unknown"
	}
}

// Change is delivered to subscribers after every new revision.
type Change struct {
	Snapshot models.Snapshot
	Source   Source
	Revision uint64
}

type Options struct {
	Now      func() time.Time
	Location *time.Location
	Logger   logger.Logger
}

// Container owns the canonical snapshot. Each revision is a fresh value;
// no snapshot is edited after it has been published.
//
// Subscribers are called synchronously in revision order and must not call
// back into the container.
type Container struct {
	mu   sync.Mutex
	snap models.Snapshot
	rev  uint64

	notifyMu sync.Mutex
	subs     map[int]func(Change)
	nextSub  int

	now    func() time.Time
	loc    *time.Location
	logger logger.Logger
}

// New takes ownership of a copy of initial.
func New(initial models.Snapshot, opts Options) *Container {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop{}
	}
	return &Container{
		snap:   initial.Clone(),
		subs:   map[int]func(Change){},
		now:    opts.Now,
		loc:    opts.Location,
		logger: opts.Logger,
	}
}

// Today is the current calendar date in the container's zone.
func (c *Container) Today() string {
	return c.now().In(c.loc).Format(constants.DateLayout)
}

// Clock is the instant and zone commands are evaluated in.
func (c *Container) Clock() commands.Clock {
	return commands.Clock{Now: c.now(), Location: c.loc}
}

// Snapshot returns a copy of the current revision.
func (c *Container) Snapshot() models.Snapshot {
	c.mu.Lock()
	pending := c.rolloverLocked()
	out := c.snap.Clone()
	c.publishAndUnlock(pending)
	return out
}

func (c *Container) Revision() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rev
}

// Apply runs cmd against the current revision. An unknown room id is a
// no-op reported as changed=false with a nil error; a rejected command
// leaves the state untouched.
func (c *Container) Apply(cmd commands.RoomCommand) (models.Snapshot, bool, error) {
	c.mu.Lock()
	pending := c.rolloverLocked()

	room, idx, ok := c.snap.FindRoom(cmd.RoomID())
	if !ok {
		out := c.snap.Clone()
		c.publishAndUnlock(pending)
		return out, false, nil
	}
	if err := cmd.Validate(room); err != nil {
		out := c.snap.Clone()
		c.publishAndUnlock(pending)
		return out, false, err
	}

	next := c.snap.Clone()
	next.Rooms[idx] = cmd.Execute(next.Rooms[idx], &next.DailyStats, c.Clock())
	pending = append(pending, c.commitLocked(next, SourceLocal))

	out := next.Clone()
	c.publishAndUnlock(pending)
	return out, true, nil
}

// Replace installs snap wholesale. Stale daily stats in snap are reset.
func (c *Container) Replace(snap models.Snapshot, src Source) models.Snapshot {
	next := snap.Clone()

	c.mu.Lock()
	if today := c.Today(); next.DailyStats.Date != today {
		c.logger.Info("Incoming %s state carries stats for %q, resetting for %s", src, next.DailyStats.Date, today)
		next.DailyStats = models.NewDailyStats(today)
	}
	pending := []Change{c.commitLocked(next, src)}
	out := next.Clone()
	c.publishAndUnlock(pending)
	return out
}

// Subscribe registers fn for every future change and returns a func that
// removes it.
func (c *Container) Subscribe(fn func(Change)) func() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.notifyMu.Lock()
		defer c.notifyMu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Container) commitLocked(next models.Snapshot, src Source) Change {
	c.snap = next
	c.rev++
	return Change{Snapshot: next.Clone(), Source: src, Revision: c.rev}
}

// publishAndUnlock releases mu and delivers pending. notifyMu is taken
// before mu is released so deliveries keep revision order.
func (c *Container) publishAndUnlock(pending []Change) {
	if len(pending) == 0 {
		c.mu.Unlock()
		return
	}
	c.notifyMu.Lock()
	c.mu.Unlock()
	defer c.notifyMu.Unlock()
	for _, ch := range pending {
		for _, fn := range c.subs {
			fn(ch)
		}
	}
}
