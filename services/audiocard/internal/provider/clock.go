package provider

import (
	"sync"

	"audiocard-go/errcode"
	"audiocard-go/services/audiocard/internal/core"
	"audiocard-go/services/audiocard/internal/provider/setups"
	"audiocard-go/x/mathx"
)

// divClock is a clock derived from a fixed parent by an integer divider.
// SetRate picks the nearest achievable divider, so a request that does not
// divide the parent settles on a neighbouring rate.
type divClock struct {
	mu      sync.Mutex
	name    string
	parent  uint32
	maxDiv  uint32
	div     uint32
	enabled int
	ready   bool
}

var _ core.Clock = (*divClock)(nil)

func newDivClock(p setups.ClockPlan) *divClock {
	c := &divClock{
		name:   p.Name,
		parent: p.ParentHz,
		maxDiv: mathx.Max(p.MaxDiv, 1),
		ready:  p.Ready,
	}
	c.div = c.maxDiv
	if p.InitHz != 0 {
		c.div = c.divFor(p.InitHz)
	}
	return c
}

func (c *divClock) divFor(hz uint32) uint32 {
	return mathx.NearestDiv(c.parent, hz, c.maxDiv)
}

func (c *divClock) Rate() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.parent / c.div
}

func (c *divClock) SetRate(hz uint32) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.div = c.divFor(hz)
	return c.parent / c.div
}

func (c *divClock) PrepareEnable() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready {
		return errcode.Unavailable
	}
	c.enabled++
	return nil
}

func (c *divClock) DisableUnprepare() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enabled == 0 {
		return errcode.InvalidState
	}
	c.enabled--
	return nil
}

func (c *divClock) isEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled > 0
}

func (c *divClock) setReady(v bool) {
	c.mu.Lock()
	c.ready = v
	c.mu.Unlock()
}

func (c *divClock) isReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}
