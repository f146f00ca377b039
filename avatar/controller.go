package avatar

import (
	"errors"
	"fmt"
	"log"

	"github.com/automoto/beamarena/shared/replication"
)

var (
	ErrNotOwner    = errors.New("avatar is not owned by this process")
	ErrNotObserver = errors.New("avatar is owned by this process")
	ErrRemoved     = errors.New("avatar has been removed")
)

// Phase is the lifecycle state of a Controller.
type Phase int

const (
	PhaseActive Phase = iota
	PhaseRemoved
)

func (p Phase) String() string {
	if p == PhaseRemoved {
		return "removed"
	}
	return "active"
}

// Effect is the visual toggled while the avatar fires.
type Effect interface {
	SetActive(active bool)
}

// Leaver is the session operation invoked when the local avatar runs out of
// health.
type Leaver interface {
	LeaveRoom()
}

type Config struct {
	ID     uint
	Name   string
	Role   Role
	Tuning Tuning

	// Effect may be nil; the avatar then runs without a visible effect.
	Effect Effect

	// Session is only used by owners.
	Session Leaver
}

// Controller runs one avatar. Exactly one of owned/observed is set,
// selected from the role at construction.
type Controller struct {
	id     uint
	name   string
	role   Role
	tuning Tuning

	owned    *Owned
	observed *Observed

	effect        Effect
	effectApplied bool

	contacts map[uint]struct{}
	phase    Phase
	session  Leaver
}

func New(cfg Config) *Controller {
	c := &Controller{
		id:       cfg.ID,
		name:     cfg.Name,
		role:     cfg.Role,
		tuning:   cfg.Tuning,
		effect:   cfg.Effect,
		session:  cfg.Session,
		contacts: make(map[uint]struct{}),
	}
	if cfg.Role == RoleOwner {
		c.owned = newOwned(cfg.Tuning)
		if cfg.Session == nil {
			log.Printf("[avatar] %d: owner created without a session, leaving will be a no-op", cfg.ID)
		}
	} else {
		c.observed = newObserved(cfg.Tuning)
	}
	if cfg.Effect == nil {
		log.Printf("[avatar] %d: missing effect target, firing will not be visible", cfg.ID)
	} else {
		cfg.Effect.SetActive(false)
	}
	return c
}

func (c *Controller) ID() uint      { return c.id }
func (c *Controller) Name() string  { return c.name }
func (c *Controller) Role() Role    { return c.role }
func (c *Controller) IsOwner() bool { return c.role == RoleOwner }
func (c *Controller) Phase() Phase  { return c.phase }
func (c *Controller) Removed() bool { return c.phase == PhaseRemoved }

func (c *Controller) State() State {
	if c.owned != nil {
		return c.owned.State()
	}
	return c.observed.State()
}

func (c *Controller) Health() float32 { return c.State().Health }
func (c *Controller) Firing() bool    { return c.State().Firing }

// EffectActive is the effect state applied by the last tick.
func (c *Controller) EffectActive() bool { return c.effectApplied }

// Tick advances the avatar by one frame: fire edges and hazard contacts
// (owner only), effect sync, then the terminal check.
func (c *Controller) Tick(in TickInput) {
	if c.phase == PhaseRemoved {
		return
	}

	if c.owned != nil {
		if in.FireDown {
			c.owned.PressFire()
		}
		if in.FireUp {
			c.owned.ReleaseFire()
		}
		c.applyContacts(in.Contacts, in.Dt)
	}

	c.syncEffect()

	if c.State().Health <= 0 {
		c.remove()
	}
}

func (c *Controller) applyContacts(ids []uint, dt float64) {
	if dt < 0 {
		dt = 0
	}
	next := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := next[id]; dup {
			continue
		}
		next[id] = struct{}{}
		if _, ongoing := c.contacts[id]; ongoing {
			c.owned.Damage(c.tuning.DamageRate * float32(dt))
		} else {
			c.owned.Damage(c.tuning.ContactDamage)
		}
	}
	c.contacts = next
}

func (c *Controller) syncEffect() {
	active := c.State().Firing
	if active == c.effectApplied {
		return
	}
	c.effectApplied = active
	if c.effect != nil {
		c.effect.SetActive(active)
	}
}

func (c *Controller) remove() {
	c.phase = PhaseRemoved
	clear(c.contacts)
	if c.owned == nil {
		log.Printf("[avatar] %d: remote avatar out of health, waiting for the session to remove it", c.id)
		return
	}
	log.Printf("[avatar] %d: out of health, leaving", c.id)
	if c.session != nil {
		c.session.LeaveRoom()
	}
}

// Serialize routes the stream to the single side allowed to handle it: the
// owner writes, observers read. Any other combination is rejected.
func (c *Controller) Serialize(s *replication.Stream) error {
	switch {
	case c.owned != nil && s.IsWriting():
		return c.owned.Serialize(s)
	case c.observed != nil && !s.IsWriting():
		return c.observed.Serialize(s)
	case c.owned != nil:
		return fmt.Errorf("%w: owner cannot read its own state", ErrNotObserver)
	default:
		return fmt.Errorf("%w: observer cannot write", ErrNotOwner)
	}
}

// Capture encodes the owner's state for this replication tick.
func (c *Controller) Capture() ([]byte, error) {
	if c.owned == nil {
		return nil, ErrNotOwner
	}
	return replication.Write(c)
}

// Apply overwrites an observer's state with a received payload. A protocol
// error drops the tick; the previous state stays.
func (c *Controller) Apply(payload []byte) error {
	if c.observed == nil {
		return ErrNotObserver
	}
	if c.phase == PhaseRemoved {
		return ErrRemoved
	}
	if err := replication.Read(c, payload); err != nil {
		log.Printf("[avatar] %d: dropped replication tick: %v", c.id, err)
		return err
	}
	return nil
}
