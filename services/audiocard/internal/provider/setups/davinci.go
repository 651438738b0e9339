package setups

import "sort"

// DaVinciEVM is the DA850/OMAP-L138 evaluation board with an AD1939 on
// SPI0 CS0 and McASP0 as the host controller. MCLK comes from a 98.304 MHz
// audio PLL through a divider.
var DaVinciEVM = ResourcePlan{
	SPI: []SPIPlan{
		{ID: "spi0", Hz: 10_000_000},
	},
	Codecs: []CodecPlan{
		{Node: "spi0.0", Bus: "spi0", CS: 0},
	},
	Controllers: []ControllerPlan{
		{Node: "mcasp0", Base: 0x01D0_0000},
	},
	Clocks: []ClockPlan{
		{Name: "mclk", ParentHz: 98_304_000, MaxDiv: 16, InitHz: 24_576_000, Ready: true},
	},
}

// DaVinciFixed is the same board fed by a fixed 24.576 MHz crystal: there
// is no controllable clock and the rate must come from configuration.
var DaVinciFixed = ResourcePlan{
	SPI:         DaVinciEVM.SPI,
	Codecs:      DaVinciEVM.Codecs,
	Controllers: DaVinciEVM.Controllers,
}

var plans = map[string]ResourcePlan{
	"davinci-evm":   DaVinciEVM,
	"davinci-fixed": DaVinciFixed,
}

// Lookup returns the named board plan.
func Lookup(name string) (ResourcePlan, bool) {
	p, ok := plans[name]
	return p, ok
}

// Names lists the known boards.
func Names() []string {
	out := make([]string, 0, len(plans))
	for k := range plans {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
