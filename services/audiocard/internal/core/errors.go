package core

import (
	"audiocard-go/errcode"
	"audiocard-go/x/fmtx"
)

// ErrClockUnconfigured: no explicit rate and no clock to read one from.
var ErrClockUnconfigured error = errcode.ClockUnconfigured

// Step identifies one programming step of link negotiation or stream
// binding. Numbering of the four negotiation steps is stable.
type Step uint8

const (
	StepCodecTDM Step = iota + 1
	StepHostTDM
	StepHostSysclk
	StepCodecSysclk
	StepCodecFormat
	StepHostFormat
	StepHostClkDiv
	StepCodecWordLen
)

var stepNames = map[Step]string{
	StepCodecTDM:     "codec_tdm",
	StepHostTDM:      "host_tdm",
	StepHostSysclk:   "host_sysclk",
	StepCodecSysclk:  "codec_sysclk",
	StepCodecFormat:  "codec_format",
	StepHostFormat:   "host_format",
	StepHostClkDiv:   "host_clkdiv",
	StepCodecWordLen: "codec_wordlen",
}

func (s Step) String() string {
	if n, ok := stepNames[s]; ok {
		return n
	}
	return "step_" + fmtx.Sprint(uint8(s))
}

// StepError reports the first failing step; the driver's error is kept.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return "negotiate: " + e.Step.String() + ": " + e.Err.Error()
}
func (e *StepError) Unwrap() error      { return e.Err }
func (e *StepError) Code() errcode.Code { return errcode.NegotiateFailed }

// RouteParseError is returned for an external routing list that cannot be
// installed. Index is the offending entry (-1 for whole-list problems).
type RouteParseError struct {
	Index int
	Msg   string
}

func (e *RouteParseError) Error() string {
	if e.Index < 0 {
		return "routing: " + e.Msg
	}
	return fmtx.Sprintf("routing[%d]: %s", e.Index, e.Msg)
}
func (e *RouteParseError) Code() errcode.Code { return errcode.RouteParse }

// MismatchAdvisory reports that the clock could not hit the requested
// rate. It is informational; attach continues with Achieved.
type MismatchAdvisory struct {
	Requested uint32
	Achieved  uint32
}

func (a MismatchAdvisory) String() string {
	return fmtx.Sprintf("could not get requested rate %d, using %d", a.Requested, a.Achieved)
}
