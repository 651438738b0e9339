package setups

// ResourcePlan specifies the wiring of one board: control buses, the
// devices on them and the clocks that feed them. Providers consume this
// plan to instantiate resource owners.
type ResourcePlan struct {
	SPI         []SPIPlan
	Codecs      []CodecPlan
	Controllers []ControllerPlan
	Clocks      []ClockPlan
}

type SPIPlan struct {
	ID string // e.g. "spi0"
	Hz uint32 // bus frequency
}

// CodecPlan places an AD193x on a chip select of an SPI bus. The node
// name follows the device-tree convention "<bus>.<cs>".
type CodecPlan struct {
	Node string // e.g. "spi0.0"
	Bus  string // SPI plan ID
	CS   int
}

type ControllerPlan struct {
	Node string // e.g. "mcasp0"
	Base uint32 // register window base, informational on host builds
}

// ClockPlan describes a controllable clock derived from a fixed parent by
// an integer divider. A clock that is not Ready answers claims with a
// retry-later error until it is.
type ClockPlan struct {
	Name     string // handle name, e.g. "mclk"
	ParentHz uint32
	MaxDiv   uint32
	InitHz   uint32 // rate before anyone sets it; 0 = parent/MaxDiv
	Ready    bool
}
