// Package ad193x provides constants for register addresses and bitfields used
// to program the AD1938/AD1939 4-ADC/8-DAC audio codec.
package ad193x

const (
	// SPI framing: 16-bit register word (chip address + R/W flag, register),
	// 8-bit values.
	readFlag  = 0x09
	writeFlag = 0x08

	// --- Register sub-addresses ---

	regPLLClkCtrl0 = 0x00 // R/W
	regPLLClkCtrl1 = 0x01 // R/W
	regDACCtrl0    = 0x02 // R/W
	regDACCtrl1    = 0x03 // R/W
	regDACCtrl2    = 0x04 // R/W
	regDACChnlMute = 0x05 // R/W
	regDACL1Vol    = 0x06 // R/W, L1..R4 follow at +1
	regADCCtrl0    = 0x0E // R/W
	regADCCtrl1    = 0x0F // R/W
	regADCCtrl2    = 0x10 // R/W

	numRegs = 0x11

	// --- PLL_CLK_CTRL0 ---
	pllPowerdown  = 1 << 0
	pllInputShift = 1
	pllInputMask  = 0x3 << pllInputShift // 256/384/512/768 x fs
	pllMasterEn   = 1 << 7               // internal master clock enable

	// --- PLL_CLK_CTRL1 ---
	pllDACSrcMCLK = 1 << 0
	pllADCSrcMCLK = 1 << 1

	// --- DAC_CTRL0 ---
	dacPowerdown     = 1 << 0
	dacDelayShift    = 3
	dacDelayMask     = 0x7 << dacDelayShift
	dacSerfmtShift   = 6
	dacSerfmtMask    = 0x3 << dacSerfmtShift
	dacSerfmtStereo  = 0 << dacSerfmtShift
	dacSerfmtTDM     = 1 << dacSerfmtShift
	dacDelayOneBCLK  = 0 << dacDelayShift
	dacDelayZeroBCLK = 1 << dacDelayShift

	// --- DAC_CTRL1 ---
	dacChanShift   = 1
	dacChanMask    = 0x3 << dacChanShift
	dacLRCLKInv    = 1 << 3
	dacLRCLKMaster = 1 << 4
	dacBCLKMaster  = 1 << 5
	dacBCLKInv     = 1 << 7

	// --- DAC_CTRL2 ---
	dacMasterMute   = 1 << 0
	dacWordLenShift = 3
	dacWordLenMask  = 0x3 << dacWordLenShift

	// --- ADC_CTRL0 ---
	adcPowerdown = 1 << 0
	adcHighpass  = 1 << 1

	// --- ADC_CTRL1 ---
	adcWordLenMask   = 0x3
	adcDelayShift    = 2
	adcDelayMask     = 0x7 << adcDelayShift
	adcSerfmtShift   = 5
	adcSerfmtMask    = 0x3 << adcSerfmtShift
	adcSerfmtStereo  = 0 << adcSerfmtShift
	adcSerfmtTDM     = 1 << adcSerfmtShift
	adcDelayOneBCLK  = 0 << adcDelayShift
	adcDelayZeroBCLK = 1 << adcDelayShift

	// --- ADC_CTRL2 ---
	adcBCLKInv     = 1 << 1
	adcLRCLKInv    = 1 << 2
	adcLRCLKMaster = 1 << 3
	adcChanShift   = 4
	adcChanMask    = 0x3 << adcChanShift
	adcBCLKMaster  = 1 << 6
)
