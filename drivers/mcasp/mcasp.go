// Package mcasp is a minimal host-side DAI driver for McASP controllers.
// All configuration is register programming through a Regs window; the
// data path (serialisers, DMA) is owned elsewhere.
package mcasp

import (
	"errors"
)

var (
	ErrInvalidSlots  = errors.New("mcasp: slots must be 2..32")
	ErrInvalidWidth  = errors.New("mcasp: slot width must be 16, 24 or 32")
	ErrInvalidMask   = errors.New("mcasp: slot mask must be non-zero")
	ErrInvalidDiv    = errors.New("mcasp: invalid clock divider")
	ErrInvalidFormat = errors.New("mcasp: unsupported format")
)

// Regs is a 32-bit register window.
type Regs interface {
	Read(off uint32) uint32
	Write(off, val uint32)
}

// Protocol selects the frame layout.
type Protocol uint8

const (
	ProtoI2S Protocol = iota
	ProtoLeftJ
	ProtoDSPA
	ProtoDSPB
)

// Format is the controller view of a DAI format. Master flags mean the
// McASP drives the clock.
type Format struct {
	Protocol    Protocol
	BCLKInv     bool
	FrameInv    bool
	BCLKMaster  bool
	FrameMaster bool
}

type Device struct {
	regs Regs

	sysclk    uint32
	sysclkOut bool
	bclkFS    int
	slots     int
	width     int
}

func New(regs Regs) *Device { return &Device{regs: regs} }

func (d *Device) update(off, mask, val uint32) {
	cur := d.regs.Read(off)
	d.regs.Write(off, (cur&^mask)|(val&mask))
}

func (d *Device) setBits(off, bits uint32, on bool) {
	if on {
		d.update(off, bits, bits)
	} else {
		d.update(off, bits, 0)
	}
}

// SetTDMSlots programs slot masks, frame length and slot size on both
// transmit and receive sections.
func (d *Device) SetTDMSlots(txMask, rxMask uint32, slots, width int) error {
	if slots < 2 || slots > 32 {
		return ErrInvalidSlots
	}
	switch width {
	case 16, 24, 32:
	default:
		return ErrInvalidWidth
	}
	if txMask == 0 || rxMask == 0 {
		return ErrInvalidMask
	}
	d.regs.Write(regTXTDM, txMask)
	d.regs.Write(regRXTDM, rxMask)

	mod := uint32(slots) << fsModShift
	d.update(regTXFMCTL, fsModMask, mod)
	d.update(regRXFMCTL, fsModMask, mod)

	// SSZ encodes (width/2)-1; 24-bit slots rotate into the low bits.
	ssz := uint32(width/2-1) << fmtSSZShift
	rot := uint32(0)
	if width == 24 {
		rot = 6 // 24-bit rotate right
	}
	for _, off := range []uint32{regTXFMT, regRXFMT} {
		d.update(off, fmtSSZMask|fmtRotMask, ssz|rot)
	}
	d.regs.Write(regTXMASK, (1<<uint(width))-1)
	d.regs.Write(regRXMASK, (1<<uint(width))-1)

	d.slots, d.width = slots, width
	return nil
}

// SetSysclk records the high-frequency clock and its direction. out=false
// means the clock is supplied on AHCLKX from an external source.
func (d *Device) SetSysclk(hz uint32, out bool) error {
	d.setBits(regAHCLKXCTL, ahclkE, out)
	d.setBits(regAHCLKRCTL, ahclkE, out)
	d.setBits(regPDIR, pdirAHCLKX|pdirAHCLKR, out)
	d.sysclk, d.sysclkOut = hz, out
	return nil
}

// SetClkDiv programs one of the three dividers (see ClkDiv* ids).
func (d *Device) SetClkDiv(id, div int) error {
	switch id {
	case ClkDivAuxClk:
		if div < 1 || div > ahclkDivMask+1 {
			return ErrInvalidDiv
		}
		d.update(regAHCLKXCTL, ahclkDivMask, uint32(div-1))
		d.update(regAHCLKRCTL, ahclkDivMask, uint32(div-1))
	case ClkDivBCLK:
		if div < 1 || div > clkDivMask+1 {
			return ErrInvalidDiv
		}
		d.update(regACLKXCTL, clkDivMask, uint32(div-1))
		d.update(regACLKRCTL, clkDivMask, uint32(div-1))
	case ClkDivBCLKFSRate:
		if div <= 0 {
			return ErrInvalidDiv
		}
		d.bclkFS = div
	default:
		return ErrInvalidDiv
	}
	return nil
}

// SetFormat programs frame sync duration, data delay, polarity and
// clock direction.
func (d *Device) SetFormat(f Format) error {
	var dly uint32
	var wordFS bool
	switch f.Protocol {
	case ProtoI2S:
		dly, wordFS = 1, true
	case ProtoLeftJ:
		dly, wordFS = 0, true
	case ProtoDSPA:
		dly, wordFS = 1, false
	case ProtoDSPB:
		dly, wordFS = 0, false
	default:
		return ErrInvalidFormat
	}
	for _, off := range []uint32{regTXFMT, regRXFMT} {
		d.update(off, fmtDlyMask, dly<<fmtDlyShift)
	}
	for _, off := range []uint32{regTXFMCTL, regRXFMCTL} {
		d.setBits(off, fsDur, wordFS)
		d.setBits(off, fsE, f.FrameMaster)
		// I2S frames are active low unless inverted.
		d.setBits(off, fsPol, (f.Protocol == ProtoI2S) != f.FrameInv)
	}
	for _, off := range []uint32{regACLKXCTL, regACLKRCTL} {
		d.setBits(off, aclkE, f.BCLKMaster)
		d.setBits(off, aclkPol, f.BCLKInv)
	}
	d.setBits(regPDIR, pdirACLKX|pdirACLKR, f.BCLKMaster)
	d.setBits(regPDIR, pdirAFSX|pdirAFSR, f.FrameMaster)
	return nil
}

func (d *Device) Sysclk() (hz uint32, out bool) { return d.sysclk, d.sysclkOut }
func (d *Device) Slots() (slots, width int)     { return d.slots, d.width }
func (d *Device) BCLKFSRatio() int              { return d.bclkFS }

// MemRegs is an in-memory register window for host builds and tests.
type MemRegs map[uint32]uint32

func (m MemRegs) Read(off uint32) uint32 { return m[off] }
func (m MemRegs) Write(off, val uint32)  { m[off] = val }
