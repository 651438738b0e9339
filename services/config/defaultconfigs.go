package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: board name (same value placed in ctx under CtxBoardKey)
// Val: raw YAML for that board
// -----------------------------------------------------------------------------

// No clock rate and no routing: the rate is read from mclk and the
// built-in routes are installed.
const cfgDaVinciEVM = `
audio:
  cards:
    - id: card0
      codec: spi0.0
      codec_dai: ad193x-hifi
      controller: mcasp0
      clock: mclk
      format: dsp_a,ib_nf,cbm_cfm
      slots:
        tx_mask: 0xFF
        rx_mask: 0xFF
        channels: 8
        width: 32
      enable_pins: ["Line Out", "Line In"]
monitor:
  interval: 10
`

// Fixed crystal: the rate has to be configured, and the board wires only
// the first DAC and ADC.
const cfgDaVinciFixed = `
audio:
  cards:
    - id: card0
      model: davinci-ad1939
      codec: spi0.0
      codec_dai: ad193x-hifi
      controller: mcasp0
      clock_rate_hz: 24576000
      format: dsp_a,ib_nf,cbm_cfm
      bclk_div: 256
      routing:
        - Line Out
        - DAC1OUT
        - ADC1IN
        - Line In
monitor:
  interval: 30
`

var embeddedConfigs = map[string][]byte{
	"davinci-evm":   []byte(cfgDaVinciEVM),
	"davinci-fixed": []byte(cfgDaVinciFixed),
}
