package core

import (
	"context"
	"errors"
	"testing"

	"github.com/go-audio/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audiocard-go/errcode"
	"audiocard-go/types"
)

func TestAttach_EndToEnd(t *testing.T) {
	r := newRig(24_576_000)
	c, err := Attach(context.Background(), boardConfig(), r.res())
	require.NoError(t, err)

	assert.Equal(t, StateNegotiated, c.State())
	assert.Equal(t, uint32(24_576_000), c.RateHz())
	assert.Equal(t, DefaultModel, c.Model())
	assert.Equal(t, FallbackRoutes.Routes, c.Routes().Routes)
	assert.True(t, c.Graph().PinEnabled("Line Out"))
	assert.True(t, c.Graph().PinEnabled("Line In"))
	assert.Equal(t, NodeRef("mcasp0"), c.Link().PlatformRef)

	assert.Equal(t, []string{
		"codec.format",
		"host.format",
		"codec.tdm(0xff,0xff,8,32)",
		"host.tdm(0xff,0xff,8,32)",
		"host.sysclk(0,24576000,in)",
		"codec.sysclk(0,24576000,in)",
	}, r.rec.log, "source rate is read, not set")
	assert.Equal(t, 1, r.reg.claims)
	assert.Empty(t, r.pub.events)
}

func TestAttach_ExplicitRateWithoutClock(t *testing.T) {
	r := newRig(0)
	cfg := boardConfig()
	cfg.ExplicitHz = u32(12_288_000)

	c, err := Attach(context.Background(), cfg, r.res())
	require.NoError(t, err)
	assert.Equal(t, uint32(12_288_000), c.RateHz())
	assert.False(t, c.Clock().Controllable())
	assert.NotEmpty(t, r.lines, "missing clock is logged")

	// No controllable clock: streams run without gating.
	s, err := c.Open(Playback, StreamParams{Format: FormatS32LE})
	require.NoError(t, err)
	c.Close(s)
	assert.Equal(t, StateIdle, c.State())
}

func TestAttach_NoRateFails(t *testing.T) {
	r := newRig(0)
	_, err := Attach(context.Background(), boardConfig(), r.res())
	assert.ErrorIs(t, err, ErrClockUnconfigured)
	assert.Equal(t, 0, r.reg.releases)
	assert.Empty(t, r.rec.log, "nothing negotiated")
}

func TestAttach_ProbeDeferPropagates(t *testing.T) {
	r := newRig(24_576_000)
	r.reg.clockErr = errcode.Wrap(errcode.ProbeDefer, "clock", "mclk not ready", nil)
	cfg := boardConfig()
	cfg.ExplicitHz = u32(24_576_000)

	_, err := Attach(context.Background(), cfg, r.res())
	assert.Equal(t, errcode.ProbeDefer, errcode.Of(err))
}

func TestAttach_MismatchAdvisoryIsNotFatal(t *testing.T) {
	r := newRig(22_579_200)
	r.clock.round = func(uint32) uint32 { return 24_000_000 }
	cfg := boardConfig()
	cfg.ExplicitHz = u32(24_576_000)

	c, err := Attach(context.Background(), cfg, r.res())
	require.NoError(t, err)
	assert.Equal(t, uint32(24_000_000), c.RateHz())
	require.Equal(t, []string{"clock_mismatch"}, r.pub.tags())
	assert.Equal(t, errcode.ClockMismatch, errcode.Code(r.pub.events[0].Tag))
	adv, ok := r.pub.events[0].Payload.(types.ClockAdvisory)
	require.True(t, ok)
	assert.Equal(t, uint32(24_576_000), adv.Requested)
	assert.Equal(t, uint32(24_000_000), adv.Achieved)
	assert.Contains(t, r.rec.log, "codec.sysclk(0,24000000,in)")
}

func TestAttach_MalformedRoutingFails(t *testing.T) {
	r := newRig(24_576_000)
	cfg := boardConfig()
	cfg.Routing = RoutingConfig{"Line Out", "DAC1OUT", "Line In"}

	_, err := Attach(context.Background(), cfg, r.res())
	assert.Equal(t, errcode.RouteParse, errcode.Of(err))
	assert.Equal(t, 1, r.reg.releases, "claimed clock released")
	assert.Empty(t, r.rec.log)
}

func TestAttach_UnknownWidgetInRouting(t *testing.T) {
	r := newRig(24_576_000)
	cfg := boardConfig()
	cfg.Routing = RoutingConfig{"Headphone", "DAC1OUT"}

	_, err := Attach(context.Background(), cfg, r.res())
	var rpe *RouteParseError
	assert.ErrorAs(t, err, &rpe)
}

func TestAttach_ExternalRoutingAndPins(t *testing.T) {
	r := newRig(24_576_000)
	cfg := boardConfig()
	cfg.Routing = RoutingConfig{"Line Out", "DAC2OUT"}
	cfg.EnablePins = []string{"Line Out", "Headphone"}

	c, err := Attach(context.Background(), cfg, r.res())
	require.NoError(t, err)
	assert.Equal(t, []Route{{Sink: "Line Out", Source: "DAC2OUT"}}, c.Graph().Routes())
	assert.True(t, c.Graph().PinEnabled("Line Out"))
	assert.False(t, c.Graph().PinEnabled("Line In"))
}

func TestAttach_NegotiationFailure(t *testing.T) {
	r := newRig(24_576_000)
	r.codec.failTDM = errors.New("slots")

	_, err := Attach(context.Background(), boardConfig(), r.res())
	var se *StepError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StepCodecTDM, se.Step)
	assert.NotContains(t, r.rec.log, "host.tdm(0xff,0xff,8,32)")
	assert.Equal(t, 1, r.reg.releases)
}

func TestAttach_BadReferences(t *testing.T) {
	r := newRig(24_576_000)

	cfg := boardConfig()
	cfg.CodecRef = "spi1.0"
	_, err := Attach(context.Background(), cfg, r.res())
	assert.Equal(t, errcode.ConfigMissing, errcode.Of(err))

	cfg = boardConfig()
	cfg.PlatformRef = "edma0"
	_, err = Attach(context.Background(), cfg, r.res())
	assert.Equal(t, errcode.InvalidParams, errcode.Of(err))

	cfg = boardConfig()
	cfg.Slots.TxMask = 0
	_, err = Attach(context.Background(), cfg, r.res())
	assert.Equal(t, errcode.InvalidParams, errcode.Of(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Attach(ctx, boardConfig(), r.res())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, r.reg.claims)
}

func TestCard_StreamPowerSequence(t *testing.T) {
	r := newRig(24_576_000)
	c, err := Attach(context.Background(), boardConfig(), r.res())
	require.NoError(t, err)
	r.rec.log = nil

	p := StreamParams{Format: FormatS32LE, Audio: audio.Format{NumChannels: 8, SampleRate: 48000}}
	s, err := c.Open(Playback, p)
	require.NoError(t, err)
	assert.Equal(t, StateActive, c.State())
	assert.Equal(t, []string{
		"clk.enable",
		"codec.sysclk(0,24576000,in)",
		"host.sysclk(0,24576000,in)",
	}, r.rec.log)

	c.Close(s)
	c.Close(s)
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, 1, r.clock.enables)
	assert.Equal(t, 1, r.clock.disables)

	s, err = c.Open(Playback, p)
	require.NoError(t, err)
	assert.Equal(t, StateActive, c.State())
	assert.Equal(t, 2, r.clock.enables)
	c.Close(s)
	assert.Equal(t, 2, r.clock.disables)
}

func TestCard_PlaybackAndCaptureShareClock(t *testing.T) {
	r := newRig(24_576_000)
	c, err := Attach(context.Background(), boardConfig(), r.res())
	require.NoError(t, err)

	play, err := c.Open(Playback, StreamParams{Format: FormatS32LE})
	require.NoError(t, err)
	capt, err := c.Open(Capture, StreamParams{Format: FormatS32LE})
	require.NoError(t, err)
	assert.Equal(t, 1, r.clock.enables)
	assert.Equal(t, 2, c.OpenStreams())

	_, err = c.Open(Capture, StreamParams{})
	assert.Equal(t, errcode.Busy, errcode.Of(err))

	c.Close(play)
	assert.Equal(t, 0, r.clock.disables, "capture still running")
	assert.Equal(t, StateActive, c.State())
	c.Close(capt)
	assert.Equal(t, 1, r.clock.disables)
	assert.Equal(t, StateIdle, c.State())
}

func TestCard_HWParamsFailureShutsDown(t *testing.T) {
	r := newRig(24_576_000)
	c, err := Attach(context.Background(), boardConfig(), r.res())
	require.NoError(t, err)

	r.codec.failSysclk = errors.New("pll unlock")
	_, err = c.Open(Playback, StreamParams{Format: FormatS32LE})
	assert.Equal(t, errcode.NegotiateFailed, errcode.Of(err))
	assert.Equal(t, 0, c.OpenStreams())
	assert.Equal(t, r.clock.enables, r.clock.disables)
	assert.False(t, c.Clock().Enabled())
}

func TestCard_EnableFailure(t *testing.T) {
	r := newRig(24_576_000)
	c, err := Attach(context.Background(), boardConfig(), r.res())
	require.NoError(t, err)

	r.clock.failEnable = errors.New("gate")
	_, err = c.Open(Playback, StreamParams{})
	assert.Equal(t, errcode.IOError, errcode.Of(err))
	assert.Equal(t, 0, c.OpenStreams())
	assert.Equal(t, StateNegotiated, c.State())
}

func TestCard_DisableFailureIsOnlyReported(t *testing.T) {
	r := newRig(24_576_000)
	c, err := Attach(context.Background(), boardConfig(), r.res())
	require.NoError(t, err)

	r.clock.failOff = errors.New("stuck")
	s, err := c.Open(Playback, StreamParams{Format: FormatS32LE})
	require.NoError(t, err)
	c.Close(s)
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, []string{"clock_disable_failed"}, r.pub.tags())
	assert.Equal(t, "stuck", r.pub.events[0].Err)
}

func TestCard_SlotWidthRiskIsDiagnostic(t *testing.T) {
	r := newRig(24_576_000)
	cfg := boardConfig()
	cfg.Slots.Width = 16
	c, err := Attach(context.Background(), cfg, r.res())
	require.NoError(t, err)

	s, err := c.Open(Playback, StreamParams{Format: FormatS24LE})
	require.NoError(t, err)
	assert.Equal(t, 32, s.PhysicalWidth)
	assert.Equal(t, 16, c.Slots().Width, "slot width not renegotiated")
	assert.Equal(t, []string{"slot_width_risk"}, r.pub.tags())
}

func TestCard_ChannelAndRateDiagnostics(t *testing.T) {
	r := newRig(24_576_000)
	r.codec.rates = []int{48000, 96000}
	c, err := Attach(context.Background(), boardConfig(), r.res())
	require.NoError(t, err)

	s, err := c.Open(Playback, StreamParams{Format: FormatS32LE, Audio: audio.Format{NumChannels: 64, SampleRate: 192000}})
	require.NoError(t, err, "diagnostics never fail the stream")
	assert.Equal(t, 128, s.FSRatio)
	assert.Equal(t, []string{"channel_overflow", "rate_unsupported"}, r.pub.tags())

	rep, ok := r.pub.events[0].Payload.(types.StreamReply)
	require.True(t, ok)
	assert.Equal(t, "playback", rep.Direction)
	assert.Equal(t, 64, rep.Channels)
	assert.Equal(t, 8, rep.SlotChannels)
	assert.Equal(t, 192000, rep.RateHz)
	assert.Equal(t, 128, rep.FSRatio)
	assert.Equal(t, uint32(24_576_000), rep.SysclkHz)
	assert.Equal(t, rep, c.Report(s))
	c.Close(s)

	r.pub.events = nil
	s, err = c.Open(Capture, StreamParams{Format: FormatS32LE, Audio: audio.Format{NumChannels: 2, SampleRate: 44100}})
	require.NoError(t, err)
	assert.Equal(t, []string{"rate_unsupported"}, r.pub.tags(), "44.1 kHz does not divide the sysclk")
	c.Close(s)

	r.pub.events = nil
	_, err = c.Open(Playback, StreamParams{Format: FormatS32LE, Audio: audio.Format{NumChannels: 8, SampleRate: 96000}})
	require.NoError(t, err)
	assert.Empty(t, r.pub.events)
}

func TestCard_Detach(t *testing.T) {
	r := newRig(24_576_000)
	c, err := Attach(context.Background(), boardConfig(), r.res())
	require.NoError(t, err)
	_, err = c.Open(Capture, StreamParams{Format: FormatS32LE})
	require.NoError(t, err)

	c.Detach()
	c.Detach()
	assert.Equal(t, StateDetached, c.State())
	assert.Equal(t, 1, r.clock.disables)
	assert.Equal(t, 1, r.reg.releases)
	assert.Nil(t, c.Stream(Capture))

	_, err = c.Open(Playback, StreamParams{})
	assert.Equal(t, errcode.InvalidState, errcode.Of(err))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "negotiated", StateNegotiated.String())
	assert.Equal(t, "unknown", State(42).String())
}
