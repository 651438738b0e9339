package core

import (
	"context"

	"audiocard-go/errcode"
	"audiocard-go/types"
	"audiocard-go/x/fmtx"
	"audiocard-go/x/timex"
)

// ---- Link state ----

type State uint8

const (
	StateUnattached State = iota
	StateAcquired
	StateNegotiated
	StateActive
	StateIdle
	StateDetached
)

var stateNames = [...]string{
	StateUnattached: "unattached",
	StateAcquired:   "acquired",
	StateNegotiated: "negotiated",
	StateActive:     "active",
	StateIdle:       "idle",
	StateDetached:   "detached",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// DefaultModel is the card name used when the board does not give one.
const DefaultModel = "audiocard"

// BoardConfig is everything a card needs at attach time.
type BoardConfig struct {
	ID    string
	Model string

	CodecRef      NodeRef
	CodecDAI      string
	ControllerRef NodeRef
	PlatformRef   NodeRef // empty means the controller

	ClockName  string  // empty: no controllable clock
	ExplicitHz *uint32 // nil: take the rate from the clock

	Routing    RoutingConfig // nil: FallbackRoutes
	Format     DAIFormat
	Slots      SlotLayout
	EnablePins []string
	BCLKDiv    int
}

// Card binds one codec to one host controller. All methods must be called
// from a single goroutine (the framework serialises callbacks per card).
type Card struct {
	cfg   BoardConfig
	res   Resources
	state State

	link  LinkDescriptor
	clock ClockContext
	table RouteTable
	graph *Graph

	streams [2]*StreamContext
	claimed bool
}

var _ LinkOps = (*Card)(nil)

// Attach resolves the board references, the clock rate and the route
// table, then runs link initialisation. On success the card is Negotiated.
// On failure everything acquired so far is released.
func Attach(ctx context.Context, cfg BoardConfig, res Resources) (*Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if res.Reg == nil {
		return nil, errcode.Wrap(errcode.ConfigMissing, "attach", "no resource registry", nil)
	}
	if cfg.CodecRef == "" || cfg.ControllerRef == "" {
		return nil, errcode.Wrap(errcode.ConfigMissing, "attach", "codec and controller references required", nil)
	}
	if cfg.PlatformRef == "" {
		cfg.PlatformRef = cfg.ControllerRef
	} else if cfg.PlatformRef != cfg.ControllerRef {
		return nil, errcode.Wrap(errcode.InvalidParams, "attach", "platform must be the controller node", nil)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if err := cfg.Slots.Validate(); err != nil {
		return nil, err
	}

	c := &Card{cfg: cfg, res: res, state: StateUnattached}
	if err := c.acquire(); err != nil {
		c.release()
		return nil, err
	}
	c.state = StateAcquired

	if err := c.Init(); err != nil {
		c.release()
		return nil, err
	}
	c.state = StateNegotiated
	c.logf("%s attached: %s <-> %s at %d Hz", cfg.Model, c.link.CodecRef, c.link.HostRef, c.clock.RateHz)
	return c, nil
}

// acquire resolves both DAIs, the clock and the route table.
func (c *Card) acquire() error {
	cfg := &c.cfg
	codec, err := c.res.Reg.LookupDAI(cfg.CodecRef, cfg.CodecDAI)
	if err != nil {
		return wrapLookup("codec", cfg.CodecRef, err)
	}
	host, err := c.res.Reg.LookupDAI(cfg.ControllerRef, "")
	if err != nil {
		return wrapLookup("controller", cfg.ControllerRef, err)
	}
	c.link = LinkDescriptor{
		Name:        cfg.Model,
		StreamName:  cfg.Model,
		CodecRef:    cfg.CodecRef,
		HostRef:     cfg.ControllerRef,
		PlatformRef: cfg.PlatformRef,
		Codec:       codec,
		Host:        host,
		Format:      cfg.Format,
		BCLKDiv:     cfg.BCLKDiv,
	}

	c.clock = ClockContext{Name: cfg.ClockName}
	if cfg.ClockName != "" {
		clk, err := c.res.Reg.ClaimClock(cfg.ID, cfg.ClockName)
		switch {
		case errcode.Of(err) == errcode.ProbeDefer:
			return err
		case err != nil:
			c.logf("no controllable clock %q: %v", cfg.ClockName, err)
		default:
			c.clock.Source = clk
			c.claimed = true
		}
	}

	r, err := ResolveRate(ClockConfig{ExplicitHz: cfg.ExplicitHz, Source: c.clock.Source})
	if err != nil {
		return err
	}
	c.clock.RateHz = r.RateHz
	if a := r.Advisory; a != nil {
		c.logf("clock %s: %s", cfg.ClockName, a)
		c.emit(EvClockMismatch, types.ClockAdvisory{Requested: a.Requested, Achieved: a.Achieved, TSms: timex.NowMs()}, "")
	}

	table, err := BuildRoutes(cfg.Routing, FallbackRoutes)
	if err != nil {
		return err
	}
	g := NewGraph()
	g.AddWidgets(table.Widgets)
	if wp, ok := codec.(WidgetProvider); ok {
		g.AddWidgets(wp.Widgets())
	}
	if wp, ok := host.(WidgetProvider); ok {
		g.AddWidgets(wp.Widgets())
	}
	if err := g.AddRoutes(table.Routes); err != nil {
		return err
	}
	c.table = table
	c.graph = g
	return nil
}

func wrapLookup(what string, ref NodeRef, err error) error {
	if errcode.Of(err) == errcode.ProbeDefer {
		return err
	}
	return errcode.Wrap(errcode.ConfigMissing, "attach", what+" "+string(ref), err)
}

// ---- LinkOps ----

// Init enables the board pins and negotiates the link.
func (c *Card) Init() error {
	pins := c.cfg.EnablePins
	if pins == nil {
		pins = DefaultEnablePins
	}
	for _, p := range pins {
		c.graph.EnablePin(p)
	}
	if err := ApplyFormat(&c.link); err != nil {
		return err
	}
	return Negotiate(&c.link, c.cfg.Slots, c.clock.RateHz)
}

// Startup registers the stream and, for the first open stream, gates the
// clock on.
func (c *Card) Startup(s *StreamContext) error {
	if c.openCount() == 0 {
		if err := PowerOn(&c.clock); err != nil {
			return errcode.Wrap(errcode.IOError, "startup", "clock enable", err)
		}
	}
	c.streams[s.Dir&1] = s
	c.state = StateActive
	return nil
}

// HWParams binds the stream to the negotiated clock.
func (c *Card) HWParams(s *StreamContext) error {
	if err := Bind(s, c.clock.RateHz); err != nil {
		return err
	}
	if s.PhysicalWidth > c.cfg.Slots.Width {
		c.logf("%s: %s needs %d-bit containers, slots are %d-bit",
			s.Dir, s.Params.Format, s.PhysicalWidth, c.cfg.Slots.Width)
		c.emit(EvSlotWidthRisk, c.Report(s), "")
	}
	if ch := s.Params.Audio.NumChannels; ch > c.cfg.Slots.Channels {
		c.logf("%s: %d channels requested, frame has %d slots", s.Dir, ch, c.cfg.Slots.Channels)
		c.emit(EvChannelOverflow, c.Report(s), "")
	}
	if rate := s.Params.Audio.SampleRate; rate > 0 && !c.rateSupported(rate) {
		c.logf("%s: %d Hz not reachable from a %d Hz sysclk", s.Dir, rate, c.clock.RateHz)
		c.emit(EvRateUnsupported, c.Report(s), "")
	}
	return nil
}

// rateSupported reports whether rate divides the system clock and, when
// the codec constrains it, whether the codec runs at that rate.
func (c *Card) rateSupported(rate int) bool {
	if c.clock.RateHz%uint32(rate) != 0 {
		return false
	}
	if rc, ok := c.link.Codec.(RateChecker); ok {
		return rc.SupportsRate(c.clock.RateHz, rate)
	}
	return true
}

// Report describes a bound stream against the negotiated link.
func (c *Card) Report(s *StreamContext) types.StreamReply {
	return types.StreamReply{
		Direction:     s.Dir.String(),
		PhysicalWidth: s.PhysicalWidth,
		SlotWidth:     c.cfg.Slots.Width,
		Channels:      s.Params.Audio.NumChannels,
		SlotChannels:  c.cfg.Slots.Channels,
		RateHz:        s.Params.Audio.SampleRate,
		FSRatio:       s.FSRatio,
		SysclkHz:      c.clock.RateHz,
	}
}

// Shutdown unregisters the stream; the last one gates the clock off.
func (c *Card) Shutdown(s *StreamContext) {
	if c.streams[s.Dir&1] == s {
		c.streams[s.Dir&1] = nil
	}
	if c.openCount() > 0 {
		return
	}
	PowerOff(&c.clock, func(err error) {
		c.logf("clock %s disable failed: %v", c.clock.Name, err)
		c.emit(EvClockDisableFailed, nil, err.Error())
	})
	if c.state == StateActive {
		c.state = StateIdle
	}
}

// ---- Stream API ----

// Open starts a stream. One stream per direction may be open at a time.
func (c *Card) Open(dir Direction, p StreamParams) (*StreamContext, error) {
	switch c.state {
	case StateNegotiated, StateActive, StateIdle:
	default:
		return nil, errcode.Wrap(errcode.InvalidState, "open", "card is "+c.state.String(), nil)
	}
	if dir > Capture {
		return nil, errcode.Wrap(errcode.InvalidParams, "open", "bad direction", nil)
	}
	if c.streams[dir] != nil {
		return nil, errcode.Wrap(errcode.Busy, "open", dir.String()+" already open", nil)
	}
	s := &StreamContext{Dir: dir, Params: p, Link: &c.link, Clock: &c.clock}
	if err := c.Startup(s); err != nil {
		return nil, err
	}
	if err := c.HWParams(s); err != nil {
		c.Shutdown(s)
		return nil, err
	}
	return s, nil
}

// Close stops a stream opened by Open. Unknown or already closed streams
// are ignored.
func (c *Card) Close(s *StreamContext) {
	if s == nil || s.Dir > Capture || c.streams[s.Dir] != s {
		return
	}
	c.Shutdown(s)
}

// Stream returns the open stream for dir, if any.
func (c *Card) Stream(dir Direction) *StreamContext {
	if dir > Capture {
		return nil
	}
	return c.streams[dir]
}

// Detach closes any open stream and releases the clock. Calling it again
// is a no-op.
func (c *Card) Detach() {
	if c.state == StateDetached {
		return
	}
	for _, s := range c.streams {
		if s != nil {
			c.Shutdown(s)
		}
	}
	c.release()
	c.state = StateDetached
	c.logf("%s detached", c.cfg.Model)
}

func (c *Card) release() {
	PowerOff(&c.clock, func(err error) {
		c.logf("clock %s disable failed: %v", c.clock.Name, err)
	})
	if c.claimed {
		c.res.Reg.ReleaseClock(c.cfg.ID, c.cfg.ClockName)
		c.claimed = false
	}
}

func (c *Card) openCount() int {
	n := 0
	for _, s := range c.streams {
		if s != nil {
			n++
		}
	}
	return n
}

// ---- Accessors ----

func (c *Card) ID() string            { return c.cfg.ID }
func (c *Card) Model() string         { return c.cfg.Model }
func (c *Card) State() State          { return c.state }
func (c *Card) RateHz() uint32        { return c.clock.RateHz }
func (c *Card) Routes() RouteTable    { return c.table }
func (c *Card) Graph() *Graph         { return c.graph }
func (c *Card) Link() *LinkDescriptor { return &c.link }
func (c *Card) Clock() *ClockContext  { return &c.clock }
func (c *Card) Slots() SlotLayout     { return c.cfg.Slots }
func (c *Card) OpenStreams() int      { return c.openCount() }

// ---- Telemetry ----

func (c *Card) logf(format string, a ...any) {
	line := "[card] " + c.cfg.ID + ": " + fmtx.Sprintf(format, a...)
	if c.res.Log != nil {
		c.res.Log(line)
		return
	}
	println(line)
}

func (c *Card) emit(tag string, payload any, errStr string) {
	if c.res.Pub == nil {
		return
	}
	c.res.Pub.Emit(Event{Card: c.cfg.ID, Tag: tag, Payload: payload, Err: errStr, TSms: timex.NowMs()})
}
