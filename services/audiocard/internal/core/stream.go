package core

import (
	"github.com/go-audio/audio"
)

type Direction uint8

const (
	Playback Direction = iota
	Capture
)

func (d Direction) String() string {
	if d == Capture {
		return "capture"
	}
	return "playback"
}

func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "playback", "play", "":
		return Playback, true
	case "capture", "cap", "record":
		return Capture, true
	}
	return Playback, false
}

// StreamParams is what a stream asks for at open.
type StreamParams struct {
	Format SampleFormat
	Audio  audio.Format // channels and sample rate
}

// StreamContext lives from stream open to stream close.
type StreamContext struct {
	Dir    Direction
	Params StreamParams

	Link  *LinkDescriptor
	Clock *ClockContext

	// Set by Bind for diagnostics only.
	PhysicalWidth int
	FSRatio       int // sysclk / frame rate, 0 when the rate is unknown
}

// clkDivBCLKFSRatio is the host divider id for the BCLK/frame ratio.
const clkDivBCLKFSRatio = 2

// Bind re-applies the system clock to both sides for the stream about to
// run (codec first, then host), the codec word length where the codec
// takes one, and the BCLK ratio when configured. It may be called any
// number of times with the same arguments. Slot width stays as negotiated
// at link bring-up.
func Bind(s *StreamContext, clockHz uint32) error {
	link := s.Link
	if err := link.Codec.SetSysclk(sysclkID, clockHz, ClockIn); err != nil {
		return &StepError{Step: StepCodecSysclk, Err: err}
	}
	if wl, ok := link.Codec.(WordLengthSetter); ok && s.Params.Format.Width() > 0 {
		if err := wl.SetWordLength(s.Params.Format.Width()); err != nil {
			return &StepError{Step: StepCodecWordLen, Err: err}
		}
	}
	if err := link.Host.SetSysclk(sysclkID, clockHz, ClockIn); err != nil {
		return &StepError{Step: StepHostSysclk, Err: err}
	}
	if link.BCLKDiv > 0 {
		if cd, ok := link.Host.(ClkDivSetter); ok {
			if err := cd.SetClkDiv(clkDivBCLKFSRatio, link.BCLKDiv); err != nil {
				return &StepError{Step: StepHostClkDiv, Err: err}
			}
		}
	}
	s.PhysicalWidth = s.Params.Format.PhysicalWidth()
	s.FSRatio = 0
	if rate := s.Params.Audio.SampleRate; rate > 0 {
		s.FSRatio = int(clockHz) / rate
	}
	return nil
}
