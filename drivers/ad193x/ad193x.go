// Package ad193x provides a minimal driver for the AD1938/AD1939 codec.
//
// Design notes:
//   - SPI control port, 16-bit register word, 8-bit data (see Regmap).
//   - TDM frames of 2, 4, 8 or 16 slots; slot width is fixed by the frame and
//     not programmed here.
//   - The on-chip PLL is fed from MCLK; the accepted system clocks are the
//     256/384/512/768 x 48 kHz family.
package ad193x

import (
	"errors"

	"audiocard-go/x/mathx"

	"tinygo.org/x/drivers"
)

// DAIName is the codec-side DAI name the machine layer binds to.
const DAIName = "ad193x-hifi"

var (
	ErrInvalidSlots  = errors.New("ad193x: slots must be 2, 4, 8 or 16")
	ErrInvalidSysclk = errors.New("ad193x: unsupported system clock")
	ErrInvalidFormat = errors.New("ad193x: unsupported format")
	ErrInvalidWidth  = errors.New("ad193x: word length must be 16, 20 or 24")
)

// Analogue pins exposed by the codec.
var (
	OutputPins = []string{"DAC1OUT", "DAC2OUT", "DAC3OUT", "DAC4OUT"}
	InputPins  = []string{"ADC1IN", "ADC2IN"}
)

// Serial selects the frame protocol.
type Serial uint8

const (
	SerialI2S   Serial = iota // one BCLK data delay
	SerialLeftJ               // zero delay
	SerialDSPA                // one BCLK delay, short frame sync
)

// Format is the codec view of a DAI format.
type Format struct {
	Serial      Serial
	BCLKInv     bool
	LRCLKInv    bool
	BCLKMaster  bool
	LRCLKMaster bool
}

type Device struct {
	rm     *Regmap
	sysclk uint32
	slots  int
}

func New(spi drivers.SPI) *Device {
	return &Device{rm: NewRegmap(spi)}
}

// Regmap exposes the transport for diagnostics.
func (d *Device) Regmap() *Regmap { return d.rm }

// Configure powers the PLL, DACs and ADCs and unmutes all outputs.
func (d *Device) Configure() error {
	steps := []struct{ reg, mask, val uint8 }{
		{regPLLClkCtrl0, pllPowerdown | pllMasterEn, pllMasterEn},
		{regPLLClkCtrl1, pllDACSrcMCLK | pllADCSrcMCLK, 0},
		{regDACCtrl0, dacPowerdown, 0},
		{regDACCtrl2, dacMasterMute, 0},
		{regADCCtrl0, adcPowerdown | adcHighpass, adcHighpass},
	}
	for _, s := range steps {
		if err := d.rm.Update(s.reg, s.mask, s.val); err != nil {
			return err
		}
	}
	return d.rm.Write(regDACChnlMute, 0)
}

// SetTDMSlots programs the frame size on both converters. Masks and slot
// width are implied by the frame on this part.
func (d *Device) SetTDMSlots(slots int) error {
	var code uint8
	switch slots {
	case 2:
		code = 0
	case 4:
		code = 1
	case 8:
		code = 2
	case 16:
		code = 3
	default:
		return ErrInvalidSlots
	}
	dacFmt, adcFmt := uint8(dacSerfmtStereo), uint8(adcSerfmtStereo)
	if slots > 2 {
		dacFmt, adcFmt = dacSerfmtTDM, adcSerfmtTDM
	}
	if err := d.rm.Update(regDACCtrl1, dacChanMask, code<<dacChanShift); err != nil {
		return err
	}
	if err := d.rm.Update(regADCCtrl2, adcChanMask, code<<adcChanShift); err != nil {
		return err
	}
	if err := d.rm.Update(regDACCtrl0, dacSerfmtMask, dacFmt); err != nil {
		return err
	}
	if err := d.rm.Update(regADCCtrl1, adcSerfmtMask, adcFmt); err != nil {
		return err
	}
	d.slots = slots
	return nil
}

// SetSysclk selects the PLL input ratio for an MCLK of hz.
func (d *Device) SetSysclk(hz uint32) error {
	var code uint8
	switch mathx.RoundDiv(hz, 48_000) {
	case 256:
		code = 0
	case 384:
		code = 1
	case 512:
		code = 2
	case 768:
		code = 3
	default:
		return ErrInvalidSysclk
	}
	if hz%48_000 != 0 {
		return ErrInvalidSysclk
	}
	if err := d.rm.Update(regPLLClkCtrl0, pllInputMask, code<<pllInputShift); err != nil {
		return err
	}
	d.sysclk = hz
	return nil
}

// SetFormat programs protocol, polarity and clock direction on both paths.
func (d *Device) SetFormat(f Format) error {
	var dacDelay, adcDelay uint8
	switch f.Serial {
	case SerialI2S, SerialDSPA:
		dacDelay, adcDelay = dacDelayOneBCLK, adcDelayOneBCLK
	case SerialLeftJ:
		dacDelay, adcDelay = dacDelayZeroBCLK, adcDelayZeroBCLK
	default:
		return ErrInvalidFormat
	}

	var dac1, adc2 uint8
	if f.BCLKInv {
		dac1 |= dacBCLKInv
		adc2 |= adcBCLKInv
	}
	if f.LRCLKInv {
		dac1 |= dacLRCLKInv
		adc2 |= adcLRCLKInv
	}
	if f.BCLKMaster {
		dac1 |= dacBCLKMaster
		adc2 |= adcBCLKMaster
	}
	if f.LRCLKMaster {
		dac1 |= dacLRCLKMaster
		adc2 |= adcLRCLKMaster
	}

	if err := d.rm.Update(regDACCtrl0, dacDelayMask, dacDelay); err != nil {
		return err
	}
	if err := d.rm.Update(regADCCtrl1, adcDelayMask, adcDelay); err != nil {
		return err
	}
	if err := d.rm.Update(regDACCtrl1, dacBCLKInv|dacLRCLKInv|dacBCLKMaster|dacLRCLKMaster, dac1); err != nil {
		return err
	}
	return d.rm.Update(regADCCtrl2, adcBCLKInv|adcLRCLKInv|adcBCLKMaster|adcLRCLKMaster, adc2)
}

// SetWordLength programs the converter word length for a stream.
func (d *Device) SetWordLength(bits int) error {
	var code uint8
	switch bits {
	case 24:
		code = 0
	case 20:
		code = 1
	case 16:
		code = 2
	default:
		return ErrInvalidWidth
	}
	if err := d.rm.Update(regDACCtrl2, dacWordLenMask, code<<dacWordLenShift); err != nil {
		return err
	}
	return d.rm.Update(regADCCtrl1, adcWordLenMask, code)
}

// Rates are the frame rates the converters run at from the PLL.
var Rates = [...]int{48_000, 96_000, 192_000}

// SupportsRate reports whether a stream at rate can run from an MCLK of
// sysclk: the PLL must accept sysclk and sysclk must be a whole multiple of
// rate.
func SupportsRate(sysclk uint32, rate int) bool {
	if rate <= 0 || sysclk%48_000 != 0 || sysclk%uint32(rate) != 0 {
		return false
	}
	switch sysclk / 48_000 {
	case 256, 384, 512, 768:
	default:
		return false
	}
	for _, r := range Rates {
		if r == rate {
			return true
		}
	}
	return false
}

func (d *Device) Sysclk() uint32 { return d.sysclk }
func (d *Device) Slots() int     { return d.slots }
