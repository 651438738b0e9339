package core

import "audiocard-go/errcode"

// SlotLayout is the TDM frame applied to both sides of a link.
type SlotLayout struct {
	TxMask   uint32
	RxMask   uint32
	Channels int
	Width    int // bits per slot: 16, 24 or 32
}

// DefaultSlotLayout: eight 32-bit slots, all enabled.
var DefaultSlotLayout = SlotLayout{TxMask: 0xFF, RxMask: 0xFF, Channels: 8, Width: 32}

func (s SlotLayout) Validate() error {
	if s.TxMask == 0 || s.RxMask == 0 {
		return errcode.Wrap(errcode.InvalidParams, "slots", "masks must be non-zero", nil)
	}
	if s.Channels <= 0 || s.Channels > 32 {
		return errcode.Wrap(errcode.InvalidParams, "slots", "channel count out of range", nil)
	}
	switch s.Width {
	case 16, 24, 32:
	default:
		return errcode.Wrap(errcode.InvalidParams, "slots", "width must be 16, 24 or 32", nil)
	}
	return nil
}

// LinkDescriptor identifies one link: both DAIs, the platform node and the
// format. Owned by the card.
type LinkDescriptor struct {
	Name       string
	StreamName string

	CodecRef    NodeRef
	HostRef     NodeRef
	PlatformRef NodeRef

	Codec DAI
	Host  DAI

	Format  DAIFormat
	BCLKDiv int // BCLK/frame ratio programmed per stream; 0 = untouched
}

// Resolved reports whether both DAIs are bound.
func (l *LinkDescriptor) Resolved() bool {
	return l != nil && l.Codec != nil && l.Host != nil
}

// sysclkID is the DAI clock id used on both sides; the drivers on this
// board have a single system clock input.
const sysclkID = 0

// ApplyFormat programs the link format on codec then host.
func ApplyFormat(link *LinkDescriptor) error {
	if !link.Resolved() {
		return errcode.Wrap(errcode.ConfigMissing, "format", "link not resolved", nil)
	}
	if err := link.Codec.SetFormat(link.Format); err != nil {
		return &StepError{Step: StepCodecFormat, Err: err}
	}
	if err := link.Host.SetFormat(link.Format); err != nil {
		return &StepError{Step: StepHostFormat, Err: err}
	}
	return nil
}

// Negotiate applies the slot layout and system clock to both sides in a
// fixed order, stopping at the first failure. Nothing is rolled back.
func Negotiate(link *LinkDescriptor, slots SlotLayout, clockHz uint32) error {
	if !link.Resolved() {
		return errcode.Wrap(errcode.ConfigMissing, "negotiate", "link not resolved", nil)
	}
	if err := link.Codec.SetTDMSlot(slots.TxMask, slots.RxMask, slots.Channels, slots.Width); err != nil {
		return &StepError{Step: StepCodecTDM, Err: err}
	}
	if err := link.Host.SetTDMSlot(slots.TxMask, slots.RxMask, slots.Channels, slots.Width); err != nil {
		return &StepError{Step: StepHostTDM, Err: err}
	}
	if err := link.Host.SetSysclk(sysclkID, clockHz, ClockIn); err != nil {
		return &StepError{Step: StepHostSysclk, Err: err}
	}
	if err := link.Codec.SetSysclk(sysclkID, clockHz, ClockIn); err != nil {
		return &StepError{Step: StepCodecSysclk, Err: err}
	}
	return nil
}
