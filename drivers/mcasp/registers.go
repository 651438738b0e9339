// Package mcasp provides register offsets and bitfields for the TI
// Multichannel Audio Serial Port used as the host side of an audio link.
package mcasp

const (
	regPDIR      = 0x14 // pin direction
	regGBLCTL    = 0x44
	regRXMASK    = 0x64
	regRXFMT     = 0x68
	regRXFMCTL   = 0x6C
	regACLKRCTL  = 0x70
	regAHCLKRCTL = 0x74
	regRXTDM     = 0x78
	regTXMASK    = 0xA4
	regTXFMT     = 0xA8
	regTXFMCTL   = 0xAC
	regACLKXCTL  = 0xB0
	regAHCLKXCTL = 0xB4
	regTXTDM     = 0xB8

	// --- PDIR ---
	pdirAFSR   = 1 << 31
	pdirAHCLKR = 1 << 30
	pdirACLKR  = 1 << 29
	pdirAFSX   = 1 << 28
	pdirAHCLKX = 1 << 27
	pdirACLKX  = 1 << 26

	// --- ACLKXCTL / ACLKRCTL ---
	clkDivMask = 0x1F
	aclkE      = 1 << 5 // internal bit clock
	aclkXAsync = 1 << 6
	aclkPol    = 1 << 7 // sample on rising edge

	// --- AHCLKXCTL / AHCLKRCTL ---
	ahclkDivMask = 0xFFF
	ahclkPol     = 1 << 14
	ahclkE       = 1 << 15 // internal high-frequency clock

	// --- TXFMCTL / RXFMCTL ---
	fsPol      = 1 << 0 // frame sync active low
	fsE        = 1 << 1 // internal frame sync
	fsDur      = 1 << 4 // word-length frame sync
	fsModShift = 7
	fsModMask  = 0x1FF << fsModShift

	// --- TXFMT / RXFMT ---
	fmtRotMask  = 0x7
	fmtSSZShift = 4
	fmtSSZMask  = 0xF << fmtSSZShift
	fmtDlyShift = 16
	fmtDlyMask  = 0x3 << fmtDlyShift

	// clkdiv ids
	ClkDivAuxClk     = 0
	ClkDivBCLK       = 1
	ClkDivBCLKFSRate = 2
)
