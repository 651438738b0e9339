package core

import (
	"errors"
	"fmt"

	"audiocard-go/errcode"
)

// calls is a shared, ordered record of driver calls across fakes.
type calls struct{ log []string }

func (c *calls) add(format string, a ...any) { c.log = append(c.log, fmt.Sprintf(format, a...)) }

type fakeDAI struct {
	name    string
	rec     *calls
	widgets []Widget

	failTDM, failSysclk, failFormat, failClkDiv error
}

func (d *fakeDAI) Name() string { return d.name }

func (d *fakeDAI) SetTDMSlot(tx, rx uint32, slots, width int) error {
	d.rec.add("%s.tdm(%#x,%#x,%d,%d)", d.name, tx, rx, slots, width)
	return d.failTDM
}

func (d *fakeDAI) SetSysclk(id int, hz uint32, dir ClockDir) error {
	d.rec.add("%s.sysclk(%d,%d,%s)", d.name, id, hz, dir)
	return d.failSysclk
}

func (d *fakeDAI) SetFormat(f DAIFormat) error {
	d.rec.add("%s.format", d.name)
	return d.failFormat
}

type fakeHost struct{ fakeDAI }

func (d *fakeHost) SetClkDiv(id, div int) error {
	d.rec.add("%s.clkdiv(%d,%d)", d.name, id, div)
	return d.failClkDiv
}

type fakeCodec struct {
	fakeDAI
	rates []int // nil: any rate
}

func (d *fakeCodec) Widgets() []Widget { return d.widgets }

func (d *fakeCodec) SupportsRate(_ uint32, rate int) bool {
	if d.rates == nil {
		return true
	}
	for _, r := range d.rates {
		if r == rate {
			return true
		}
	}
	return false
}

// wordLenCodec also programs the converter word length.
type wordLenCodec struct {
	fakeCodec
	failWordLen error
}

func (d *wordLenCodec) SetWordLength(bits int) error {
	d.rec.add("%s.wordlen(%d)", d.name, bits)
	return d.failWordLen
}

var codecPins = []Widget{
	{Name: "DAC1OUT", Kind: WidgetOutput},
	{Name: "DAC2OUT", Kind: WidgetOutput},
	{Name: "DAC3OUT", Kind: WidgetOutput},
	{Name: "DAC4OUT", Kind: WidgetOutput},
	{Name: "ADC1IN", Kind: WidgetInput},
	{Name: "ADC2IN", Kind: WidgetInput},
}

type fakeClock struct {
	rec        *calls
	rate       uint32
	round      func(uint32) uint32 // achievable rate for a request
	failEnable error
	failOff    error
	enables    int
	disables   int
}

func (c *fakeClock) Rate() uint32 { return c.rate }

func (c *fakeClock) SetRate(hz uint32) uint32 {
	if c.round != nil {
		hz = c.round(hz)
	}
	c.rate = hz
	if c.rec != nil {
		c.rec.add("clk.set(%d)", hz)
	}
	return hz
}

func (c *fakeClock) PrepareEnable() error {
	if c.rec != nil {
		c.rec.add("clk.enable")
	}
	if c.failEnable != nil {
		return c.failEnable
	}
	c.enables++
	return nil
}

func (c *fakeClock) DisableUnprepare() error {
	if c.rec != nil {
		c.rec.add("clk.disable")
	}
	c.disables++
	return c.failOff
}

type fakeRegistry struct {
	dais     map[NodeRef]DAI
	clock    Clock
	clockErr error
	claims   int
	releases int
}

func (r *fakeRegistry) LookupDAI(node NodeRef, dai string) (DAI, error) {
	d, ok := r.dais[node]
	if !ok {
		return nil, errcode.UnknownNode
	}
	return d, nil
}

func (r *fakeRegistry) ClaimClock(devID, name string) (Clock, error) {
	if r.clockErr != nil {
		return nil, r.clockErr
	}
	if r.clock == nil {
		return nil, errors.New("no such clock")
	}
	r.claims++
	return r.clock, nil
}

func (r *fakeRegistry) ReleaseClock(devID, name string) { r.releases++ }

type fakeEmitter struct{ events []Event }

func (e *fakeEmitter) Emit(ev Event) bool {
	e.events = append(e.events, ev)
	return true
}

func (e *fakeEmitter) tags() []string {
	var out []string
	for _, ev := range e.events {
		out = append(out, ev.Tag)
	}
	return out
}

// rig is a board with a codec, a host controller and an optional clock.
type rig struct {
	rec   *calls
	codec *fakeCodec
	host  *fakeHost
	clock *fakeClock
	reg   *fakeRegistry
	pub   *fakeEmitter
	lines []string
}

func newRig(clockHz uint32) *rig {
	rec := &calls{}
	r := &rig{
		rec:   rec,
		codec: &fakeCodec{fakeDAI: fakeDAI{name: "codec", rec: rec, widgets: codecPins}},
		host:  &fakeHost{fakeDAI{name: "host", rec: rec}},
		pub:   &fakeEmitter{},
	}
	r.reg = &fakeRegistry{dais: map[NodeRef]DAI{"spi0.0": r.codec, "mcasp0": r.host}}
	if clockHz != 0 {
		r.clock = &fakeClock{rec: rec, rate: clockHz}
		r.reg.clock = r.clock
	}
	return r
}

func (r *rig) res() Resources {
	return Resources{Reg: r.reg, Pub: r.pub, Log: func(l string) { r.lines = append(r.lines, l) }}
}

func boardConfig() BoardConfig {
	return BoardConfig{
		ID:            "card0",
		CodecRef:      "spi0.0",
		CodecDAI:      "ad193x-hifi",
		ControllerRef: "mcasp0",
		ClockName:     "mclk",
		Format:        DefaultDAIFormat,
		Slots:         DefaultSlotLayout,
	}
}

func u32(v uint32) *uint32 { return &v }
