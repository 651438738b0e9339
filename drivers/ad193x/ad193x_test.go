package ad193x

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSPI emulates the codec control port over a register file.
type fakeSPI struct {
	regs   [numRegs]uint8
	writes int
	fail   error
}

func (f *fakeSPI) Tx(w, r []byte) error {
	if f.fail != nil {
		return f.fail
	}
	if len(w) != 3 {
		return errors.New("short frame")
	}
	reg := w[1]
	switch w[0] {
	case writeFlag:
		f.regs[reg] = w[2]
		f.writes++
	case readFlag:
		if len(r) == 3 {
			r[2] = f.regs[reg]
		}
	default:
		return errors.New("bad flag byte")
	}
	return nil
}

func (f *fakeSPI) Transfer(b byte) (byte, error) { return 0, nil }

func TestRegmapFraming(t *testing.T) {
	spi := &fakeSPI{}
	rm := NewRegmap(spi)

	require.NoError(t, rm.Write(regDACCtrl1, 0xA5))
	v, err := rm.Read(regDACCtrl1)
	require.NoError(t, err)
	assert.Equal(t, uint8(0xA5), v)

	// Update preserves bits outside the mask and skips no-op writes.
	require.NoError(t, rm.Update(regDACCtrl1, 0x0F, 0x03))
	assert.Equal(t, uint8(0xA3), spi.regs[regDACCtrl1])
	n := spi.writes
	require.NoError(t, rm.Update(regDACCtrl1, 0x0F, 0x03))
	assert.Equal(t, n, spi.writes)
}

func TestSetTDMSlots(t *testing.T) {
	spi := &fakeSPI{}
	d := New(spi)

	require.NoError(t, d.SetTDMSlots(8))
	assert.Equal(t, uint8(2<<dacChanShift), spi.regs[regDACCtrl1]&dacChanMask)
	assert.Equal(t, uint8(2<<adcChanShift), spi.regs[regADCCtrl2]&adcChanMask)
	assert.Equal(t, uint8(dacSerfmtTDM), spi.regs[regDACCtrl0]&dacSerfmtMask)
	assert.Equal(t, uint8(adcSerfmtTDM), spi.regs[regADCCtrl1]&adcSerfmtMask)
	assert.Equal(t, 8, d.Slots())

	require.NoError(t, d.SetTDMSlots(2))
	assert.Equal(t, uint8(dacSerfmtStereo), spi.regs[regDACCtrl0]&dacSerfmtMask)

	assert.ErrorIs(t, d.SetTDMSlots(6), ErrInvalidSlots)
}

func TestSetSysclk(t *testing.T) {
	spi := &fakeSPI{}
	d := New(spi)

	for hz, code := range map[uint32]uint8{
		12_288_000: 0,
		18_432_000: 1,
		24_576_000: 2,
		36_864_000: 3,
	} {
		require.NoError(t, d.SetSysclk(hz))
		assert.Equal(t, code, (spi.regs[regPLLClkCtrl0]&pllInputMask)>>pllInputShift, "hz=%d", hz)
	}
	require.NoError(t, d.SetSysclk(24_576_000))
	assert.ErrorIs(t, d.SetSysclk(12_000_000), ErrInvalidSysclk)
	assert.Equal(t, uint32(24_576_000), d.Sysclk())
}

func TestSetFormatDSPAInvertedBCLKCodecMaster(t *testing.T) {
	spi := &fakeSPI{}
	d := New(spi)

	require.NoError(t, d.SetFormat(Format{
		Serial:      SerialDSPA,
		BCLKInv:     true,
		BCLKMaster:  true,
		LRCLKMaster: true,
	}))
	dac1 := spi.regs[regDACCtrl1]
	assert.NotZero(t, dac1&dacBCLKInv)
	assert.Zero(t, dac1&dacLRCLKInv)
	assert.NotZero(t, dac1&dacBCLKMaster)
	assert.NotZero(t, dac1&dacLRCLKMaster)
	assert.NotZero(t, spi.regs[regADCCtrl2]&adcBCLKMaster)

	assert.ErrorIs(t, d.SetFormat(Format{Serial: Serial(9)}), ErrInvalidFormat)
}

func TestConfigureAndWordLength(t *testing.T) {
	spi := &fakeSPI{}
	spi.regs[regDACCtrl2] = dacMasterMute
	spi.regs[regPLLClkCtrl0] = pllPowerdown
	d := New(spi)

	require.NoError(t, d.Configure())
	assert.Zero(t, spi.regs[regDACCtrl2]&dacMasterMute)
	assert.Zero(t, spi.regs[regPLLClkCtrl0]&pllPowerdown)
	assert.NotZero(t, spi.regs[regPLLClkCtrl0]&pllMasterEn)

	require.NoError(t, d.SetWordLength(16))
	assert.Equal(t, uint8(2<<dacWordLenShift), spi.regs[regDACCtrl2]&dacWordLenMask)
	assert.ErrorIs(t, d.SetWordLength(32), ErrInvalidWidth)
}

func TestSupportsRate(t *testing.T) {
	assert.True(t, SupportsRate(24_576_000, 48_000))
	assert.True(t, SupportsRate(24_576_000, 192_000))
	assert.True(t, SupportsRate(12_288_000, 96_000))
	assert.False(t, SupportsRate(24_576_000, 44_100), "44.1 kHz family")
	assert.False(t, SupportsRate(24_576_000, 32_000), "not a converter rate")
	assert.False(t, SupportsRate(24_000_000, 48_000), "PLL rejects sysclk")
	assert.False(t, SupportsRate(24_576_000, 0))
}

func TestTransportErrorPropagates(t *testing.T) {
	boom := errors.New("spi down")
	d := New(&fakeSPI{fail: boom})
	assert.ErrorIs(t, d.SetTDMSlots(8), boom)
}
