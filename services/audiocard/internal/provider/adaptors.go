package provider

import (
	"audiocard-go/drivers/ad193x"
	"audiocard-go/drivers/mcasp"
	"audiocard-go/errcode"
	"audiocard-go/services/audiocard/internal/core"
	"audiocard-go/x/mathx"
)

// ---- Codec (AD193x) ----

type codecDAI struct {
	dev *ad193x.Device
}

var (
	_ core.DAI              = (*codecDAI)(nil)
	_ core.WidgetProvider   = (*codecDAI)(nil)
	_ core.WordLengthSetter = (*codecDAI)(nil)
	_ core.RateChecker      = (*codecDAI)(nil)
)

func (a *codecDAI) Name() string { return ad193x.DAIName }

// The AD193x frame is fixed by the slot count; masks and width are implied.
func (a *codecDAI) SetTDMSlot(_, _ uint32, slots, _ int) error {
	return a.dev.SetTDMSlots(slots)
}

func (a *codecDAI) SetSysclk(_ int, hz uint32, dir core.ClockDir) error {
	if dir != core.ClockIn {
		return errcode.Unsupported
	}
	return a.dev.SetSysclk(hz)
}

// The converters resolve at most 24 bits; wider samples are truncated.
func (a *codecDAI) SetWordLength(bits int) error {
	return a.dev.SetWordLength(mathx.Clamp(bits, 16, 24))
}

func (a *codecDAI) SupportsRate(sysclkHz uint32, rateHz int) bool {
	return ad193x.SupportsRate(sysclkHz, rateHz)
}

func (a *codecDAI) SetFormat(f core.DAIFormat) error {
	var s ad193x.Serial
	switch f.Protocol {
	case core.ProtoI2S:
		s = ad193x.SerialI2S
	case core.ProtoLeftJ:
		s = ad193x.SerialLeftJ
	case core.ProtoDSPA:
		s = ad193x.SerialDSPA
	default:
		return ad193x.ErrInvalidFormat
	}
	return a.dev.SetFormat(ad193x.Format{
		Serial:      s,
		BCLKInv:     f.BitClockInverted(),
		LRCLKInv:    f.FrameInverted(),
		BCLKMaster:  f.CodecBitClockMaster(),
		LRCLKMaster: f.CodecFrameMaster(),
	})
}

func (a *codecDAI) Widgets() []core.Widget {
	out := make([]core.Widget, 0, len(ad193x.OutputPins)+len(ad193x.InputPins))
	for _, p := range ad193x.OutputPins {
		out = append(out, core.Widget{Name: p, Kind: core.WidgetOutput})
	}
	for _, p := range ad193x.InputPins {
		out = append(out, core.Widget{Name: p, Kind: core.WidgetInput})
	}
	return out
}

// ---- Host controller (McASP) ----

type hostDAI struct {
	name string
	dev  *mcasp.Device
}

var (
	_ core.DAI          = (*hostDAI)(nil)
	_ core.ClkDivSetter = (*hostDAI)(nil)
)

func (a *hostDAI) Name() string { return a.name }

func (a *hostDAI) SetTDMSlot(tx, rx uint32, slots, width int) error {
	return a.dev.SetTDMSlots(tx, rx, slots, width)
}

func (a *hostDAI) SetSysclk(_ int, hz uint32, dir core.ClockDir) error {
	return a.dev.SetSysclk(hz, dir == core.ClockOut)
}

func (a *hostDAI) SetClkDiv(id, div int) error { return a.dev.SetClkDiv(id, div) }

// Provider roles in the link format are the codec's; the controller drives
// whatever the codec does not.
func (a *hostDAI) SetFormat(f core.DAIFormat) error {
	var p mcasp.Protocol
	switch f.Protocol {
	case core.ProtoI2S:
		p = mcasp.ProtoI2S
	case core.ProtoLeftJ:
		p = mcasp.ProtoLeftJ
	case core.ProtoDSPA:
		p = mcasp.ProtoDSPA
	case core.ProtoDSPB:
		p = mcasp.ProtoDSPB
	default:
		return mcasp.ErrInvalidFormat
	}
	return a.dev.SetFormat(mcasp.Format{
		Protocol:    p,
		BCLKInv:     f.BitClockInverted(),
		FrameInv:    f.FrameInverted(),
		BCLKMaster:  !f.CodecBitClockMaster(),
		FrameMaster: !f.CodecFrameMaster(),
	})
}
