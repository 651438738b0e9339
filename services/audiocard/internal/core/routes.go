package core

import "strings"

// ---- Routing graph primitives ----

type WidgetKind uint8

const (
	WidgetLine WidgetKind = iota // board connector
	WidgetInput
	WidgetOutput
)

type Widget struct {
	Name string
	Kind WidgetKind
}

// Route connects Source to Sink. Control is an optional mixer/switch name.
type Route struct {
	Sink    string
	Control string
	Source  string
}

// RouteTable is built once per card and never mutated afterwards.
type RouteTable struct {
	Widgets []Widget
	Routes  []Route
}

// RoutingConfig is an external routing list in device-description form:
// a flat "sink, source, sink, source, ..." sequence. nil means absent.
type RoutingConfig []string

// Board connectors and the default topology of the AD193x board: all four
// DAC outputs drive Line Out, Line In feeds both ADC inputs.
var (
	BoardWidgets = []Widget{
		{Name: "Line Out", Kind: WidgetLine},
		{Name: "Line In", Kind: WidgetLine},
	}

	FallbackRoutes = RouteTable{
		Widgets: BoardWidgets,
		Routes: []Route{
			{Sink: "Line Out", Source: "DAC1OUT"},
			{Sink: "Line Out", Source: "DAC2OUT"},
			{Sink: "Line Out", Source: "DAC3OUT"},
			{Sink: "Line Out", Source: "DAC4OUT"},
			{Sink: "ADC1IN", Source: "Line In"},
			{Sink: "ADC2IN", Source: "Line In"},
		},
	}

	// DefaultEnablePins are the primary board output and input.
	DefaultEnablePins = []string{"Line Out", "Line In"}
)

// ParseRouting turns a flat routing list into routes. An empty list, an odd
// number of entries or a blank name is an error.
func ParseRouting(cfg RoutingConfig) ([]Route, error) {
	if len(cfg) == 0 {
		return nil, &RouteParseError{Index: -1, Msg: "routing present but empty"}
	}
	if len(cfg)%2 != 0 {
		return nil, &RouteParseError{Index: len(cfg) - 1, Msg: "odd number of entries"}
	}
	out := make([]Route, 0, len(cfg)/2)
	for i := 0; i < len(cfg); i += 2 {
		sink := strings.TrimSpace(cfg[i])
		src := strings.TrimSpace(cfg[i+1])
		if sink == "" {
			return nil, &RouteParseError{Index: i, Msg: "empty sink name"}
		}
		if src == "" {
			return nil, &RouteParseError{Index: i + 1, Msg: "empty source name"}
		}
		out = append(out, Route{Sink: sink, Source: src})
	}
	return out, nil
}

// BuildRoutes selects the active table. A supplied config that does not
// parse is returned as an error; it never falls through to the fallback.
func BuildRoutes(cfg RoutingConfig, fallback RouteTable) (RouteTable, error) {
	if cfg == nil {
		return RouteTable{
			Widgets: append([]Widget(nil), fallback.Widgets...),
			Routes:  append([]Route(nil), fallback.Routes...),
		}, nil
	}
	routes, err := ParseRouting(cfg)
	if err != nil {
		return RouteTable{}, err
	}
	return RouteTable{
		Widgets: append([]Widget(nil), fallback.Widgets...),
		Routes:  routes,
	}, nil
}

// ---- Graph ----

// Graph is the card's routing graph: registered endpoints, installed routes
// and pin enable state.
type Graph struct {
	widgets map[string]Widget
	order   []string
	routes  []Route
	enabled map[string]bool
}

func NewGraph() *Graph {
	return &Graph{
		widgets: map[string]Widget{},
		enabled: map[string]bool{},
	}
}

// AddWidgets registers endpoints; duplicates are ignored.
func (g *Graph) AddWidgets(ws []Widget) {
	for _, w := range ws {
		if _, ok := g.widgets[w.Name]; ok {
			continue
		}
		g.widgets[w.Name] = w
		g.order = append(g.order, w.Name)
	}
}

// AddRoutes installs routes. A route naming an unregistered endpoint
// fails the whole call and installs nothing.
func (g *Graph) AddRoutes(rs []Route) error {
	for i, r := range rs {
		if _, ok := g.widgets[r.Sink]; !ok {
			return &RouteParseError{Index: i, Msg: "unknown sink widget " + r.Sink}
		}
		if _, ok := g.widgets[r.Source]; !ok {
			return &RouteParseError{Index: i, Msg: "unknown source widget " + r.Source}
		}
	}
	g.routes = append(g.routes, rs...)
	return nil
}

// EnablePin marks an endpoint active. Unknown pins are ignored and
// reported as false.
func (g *Graph) EnablePin(name string) bool {
	if _, ok := g.widgets[name]; !ok {
		return false
	}
	g.enabled[name] = true
	return true
}

func (g *Graph) PinEnabled(name string) bool { return g.enabled[name] }

func (g *Graph) HasWidget(name string) bool {
	_, ok := g.widgets[name]
	return ok
}

func (g *Graph) Widgets() []string { return append([]string(nil), g.order...) }
func (g *Graph) Routes() []Route   { return append([]Route(nil), g.routes...) }

// Sources returns the endpoints routed into sink, in install order.
func (g *Graph) Sources(sink string) []string {
	var out []string
	for _, r := range g.routes {
		if r.Sink == sink {
			out = append(out, r.Source)
		}
	}
	return out
}
