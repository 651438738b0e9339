package provider

import (
	"strings"
	"sync"
	"time"

	"audiocard-go/drivers/ad193x"
	"audiocard-go/drivers/mcasp"
	"audiocard-go/errcode"
	"audiocard-go/services/audiocard/internal/core"
	"audiocard-go/services/audiocard/internal/provider/setups"
)

var _ core.ResourceRegistry = (*Registry)(nil)

// node is one addressable device with the DAIs it exposes.
type node struct {
	dais map[string]core.DAI
	def  core.DAI
}

// Registry owns the buses, devices and clocks of one board plan. On host
// builds every bus and register window is simulated in memory.
type Registry struct {
	mu sync.Mutex

	spi    map[string]*spiOwner
	ports  map[string]*ad193x.MemSPI
	nodes  map[core.NodeRef]*node
	clocks map[string]*divClock
	owners map[string]string // clock name -> devID
	codecs map[core.NodeRef]*ad193x.Device
	hosts  map[core.NodeRef]*mcasp.Device
}

func NewRegistry(plan setups.ResourcePlan) (*Registry, error) {
	r := &Registry{
		spi:    make(map[string]*spiOwner),
		ports:  make(map[string]*ad193x.MemSPI),
		nodes:  make(map[core.NodeRef]*node),
		clocks: make(map[string]*divClock),
		owners: make(map[string]string),
		codecs: make(map[core.NodeRef]*ad193x.Device),
		hosts:  make(map[core.NodeRef]*mcasp.Device),
	}

	for _, p := range plan.SPI {
		port := &ad193x.MemSPI{}
		r.ports[p.ID] = port
		r.spi[p.ID] = newSPIOwner(p.ID, port)
	}

	for _, c := range plan.Codecs {
		o := r.spi[c.Bus]
		if o == nil {
			r.Close()
			return nil, errcode.Wrap(errcode.ConfigMissing, "plan", "codec "+c.Node+" on unknown bus "+c.Bus, nil)
		}
		dev := ad193x.New(&driversSPI{o: o, timeout: 250 * time.Millisecond})
		if err := dev.Configure(); err != nil {
			r.Close()
			return nil, errcode.Wrap(errcode.MapDriverErr(err), "plan", "codec "+c.Node, err)
		}
		dai := &codecDAI{dev: dev}
		r.codecs[core.NodeRef(c.Node)] = dev
		r.nodes[core.NodeRef(c.Node)] = &node{
			dais: map[string]core.DAI{ad193x.DAIName: dai},
			def:  dai,
		}
	}

	for _, h := range plan.Controllers {
		dev := mcasp.New(mcasp.MemRegs{})
		dai := &hostDAI{name: h.Node, dev: dev}
		r.hosts[core.NodeRef(h.Node)] = dev
		r.nodes[core.NodeRef(h.Node)] = &node{
			dais: map[string]core.DAI{h.Node: dai},
			def:  dai,
		}
	}

	for _, c := range plan.Clocks {
		r.clocks[c.Name] = newDivClock(c)
	}
	return r, nil
}

// LookupDAI resolves a node and, when dai is non-empty, a named DAI on it.
func (r *Registry) LookupDAI(ref core.NodeRef, dai string) (core.DAI, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.nodes[core.NodeRef(strings.TrimSpace(string(ref)))]
	if n == nil {
		return nil, errcode.UnknownNode
	}
	if dai == "" {
		return n.def, nil
	}
	d, ok := n.dais[dai]
	if !ok {
		return nil, errcode.Wrap(errcode.UnknownNode, "lookup", "no DAI "+dai+" on "+string(ref), nil)
	}
	return d, nil
}

// ClaimClock hands out a clock to one device at a time.
func (r *Registry) ClaimClock(devID, name string) (core.Clock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.clocks[name]
	if c == nil {
		return nil, errcode.UnknownNode
	}
	if !c.isReady() {
		return nil, errcode.ProbeDefer
	}
	if owner, taken := r.owners[name]; taken && owner != devID {
		return nil, errcode.Busy
	}
	r.owners[name] = devID
	return c, nil
}

func (r *Registry) ReleaseClock(devID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if owner, ok := r.owners[name]; ok && owner == devID {
		delete(r.owners, name)
	}
}

// SetClockReady flips a clock between deferred and available.
func (r *Registry) SetClockReady(name string, ready bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.clocks[name]
	if c == nil {
		return false
	}
	c.setReady(ready)
	return true
}

// Codec returns the codec driver on a node, for diagnostics.
func (r *Registry) Codec(ref core.NodeRef) (*ad193x.Device, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.codecs[ref]
	return d, ok
}

// Host returns the controller driver on a node, for diagnostics.
func (r *Registry) Host(ref core.NodeRef) (*mcasp.Device, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.hosts[ref]
	return d, ok
}

// Close stops the bus workers.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, o := range r.spi {
		o.stop()
		delete(r.spi, id)
	}
}

// Port returns the simulated control port of an SPI bus.
func (r *Registry) Port(bus string) (*ad193x.MemSPI, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.ports[bus]
	return p, ok
}
