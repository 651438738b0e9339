package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audiocard-go/errcode"
)

func TestBuildRoutes_AbsentUsesFallback(t *testing.T) {
	tbl, err := BuildRoutes(nil, FallbackRoutes)
	require.NoError(t, err)
	assert.Equal(t, FallbackRoutes.Routes, tbl.Routes)
	assert.Equal(t, BoardWidgets, tbl.Widgets)

	// Result must not alias the fallback.
	tbl.Routes[0].Sink = "x"
	assert.Equal(t, "Line Out", FallbackRoutes.Routes[0].Sink)
}

func TestBuildRoutes_External(t *testing.T) {
	tbl, err := BuildRoutes(RoutingConfig{"Line Out", "DAC1OUT", " ADC1IN ", "Line In"}, FallbackRoutes)
	require.NoError(t, err)
	assert.Equal(t, []Route{
		{Sink: "Line Out", Source: "DAC1OUT"},
		{Sink: "ADC1IN", Source: "Line In"},
	}, tbl.Routes)
}

func TestBuildRoutes_MalformedNeverFallsBack(t *testing.T) {
	cases := map[string]RoutingConfig{
		"odd":   {"Line Out", "DAC1OUT", "ADC1IN"},
		"empty": {},
		"blank": {"Line Out", " "},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			tbl, err := BuildRoutes(cfg, FallbackRoutes)
			require.Error(t, err)
			var rpe *RouteParseError
			assert.True(t, errors.As(err, &rpe))
			assert.Equal(t, errcode.RouteParse, errcode.Of(err))
			assert.Empty(t, tbl.Routes)
		})
	}
}

func TestGraph_UnknownWidgetRejected(t *testing.T) {
	g := NewGraph()
	g.AddWidgets(BoardWidgets)
	err := g.AddRoutes([]Route{{Sink: "Line Out", Source: "DAC1OUT"}})
	require.Error(t, err)
	assert.Empty(t, g.Routes(), "nothing installed on failure")

	g.AddWidgets(codecPins)
	require.NoError(t, g.AddRoutes(FallbackRoutes.Routes))
	assert.Equal(t, []string{"DAC1OUT", "DAC2OUT", "DAC3OUT", "DAC4OUT"}, g.Sources("Line Out"))
}

func TestGraph_EnablePinSilentWhenAbsent(t *testing.T) {
	g := NewGraph()
	g.AddWidgets(BoardWidgets)
	g.AddWidgets(BoardWidgets)
	assert.Len(t, g.Widgets(), 2)

	assert.True(t, g.EnablePin("Line Out"))
	assert.False(t, g.EnablePin("Headphone"))
	assert.True(t, g.PinEnabled("Line Out"))
	assert.False(t, g.PinEnabled("Headphone"))
}
