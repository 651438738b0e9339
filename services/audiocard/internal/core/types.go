package core

import "audiocard-go/errcode"

// ---- Driver contracts ----

// ClockDir is the direction of a DAI system clock.
type ClockDir uint8

const (
	ClockIn  ClockDir = iota // supplied to the DAI
	ClockOut                 // generated by the DAI
)

func (d ClockDir) String() string {
	if d == ClockOut {
		return "out"
	}
	return "in"
}

// DAI is one side of an audio link (host controller or codec). Both
// drivers expose the same surface.
type DAI interface {
	Name() string
	SetTDMSlot(txMask, rxMask uint32, slots, width int) error
	SetSysclk(clkID int, hz uint32, dir ClockDir) error
	SetFormat(f DAIFormat) error
}

// ClkDivSetter is implemented by DAIs with programmable clock dividers.
type ClkDivSetter interface {
	SetClkDiv(divID, div int) error
}

// WidgetProvider is implemented by DAIs that own routing endpoints
// (typically the codec's analogue pins).
type WidgetProvider interface {
	Widgets() []Widget
}

// WordLengthSetter is implemented by DAIs whose converter word length is
// programmed per stream.
type WordLengthSetter interface {
	SetWordLength(bits int) error
}

// RateChecker is implemented by DAIs that only run some frame rates from a
// given system clock.
type RateChecker interface {
	SupportsRate(sysclkHz uint32, rateHz int) bool
}

// Clock is a controllable clock source. SetRate returns the achieved rate.
type Clock interface {
	Rate() uint32
	SetRate(hz uint32) uint32
	PrepareEnable() error
	DisableUnprepare() error
}

// ---- Resource resolution ----

// NodeRef names a node in the board description (codec, controller).
type NodeRef string

// ResourceRegistry resolves board references to drivers.
type ResourceRegistry interface {
	// LookupDAI resolves a node and, optionally, a named DAI on it.
	LookupDAI(node NodeRef, dai string) (DAI, error)

	// ClaimClock returns errcode.ProbeDefer when the clock exists but is
	// not ready yet. Any other error means the board has no such clock.
	ClaimClock(devID, name string) (Clock, error)
	ReleaseClock(devID, name string)
}

// ---- Card → service telemetry ----

type Event struct {
	Card    string
	Tag     string
	Payload any
	Err     string
	TSms    int64
}

// Event tags emitted by a card.
const (
	EvClockMismatch      = string(errcode.ClockMismatch)
	EvClockDisableFailed = "clock_disable_failed"
	EvSlotWidthRisk      = "slot_width_risk"
	EvChannelOverflow    = "channel_overflow"
	EvRateUnsupported    = "rate_unsupported"
)

type EventEmitter interface {
	// Emit must be non-blocking; false indicates a drop under pressure.
	Emit(ev Event) bool
}

// Resources are injected by the owner of the card.
type Resources struct {
	Reg ResourceRegistry
	Pub EventEmitter      // optional
	Log func(line string) // optional; println when nil
}

// LinkOps are the callbacks the audio framework invokes on a link.
// Calls for one link are serial.
type LinkOps interface {
	Init() error
	Startup(s *StreamContext) error
	HWParams(s *StreamContext) error
	Shutdown(s *StreamContext)
}
