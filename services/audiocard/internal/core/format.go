package core

import (
	"strings"

	"audiocard-go/errcode"
)

// ---- DAI link format ----

type Protocol uint8

const (
	ProtoI2S Protocol = iota
	ProtoRightJ
	ProtoLeftJ
	ProtoDSPA
	ProtoDSPB
)

// Inversion of bit clock (B) and frame clock (F): N = normal, I = inverted.
type Inversion uint8

const (
	InvNBNF Inversion = iota
	InvNBIF
	InvIBNF
	InvIBIF
)

// Provider names which side generates bit clock and frame sync, from the
// codec's point of view (CBM = codec bit clock master).
type Provider uint8

const (
	CBMCFM Provider = iota // codec provides both
	CBSCFM
	CBMCFS
	CBSCFS // host provides both
)

// DAIFormat is applied identically to both sides of a link.
type DAIFormat struct {
	Protocol  Protocol
	Inversion Inversion
	Provider  Provider
}

// DefaultDAIFormat is DSP_A, inverted bit clock, codec clock master.
var DefaultDAIFormat = DAIFormat{Protocol: ProtoDSPA, Inversion: InvIBNF, Provider: CBMCFM}

func (f DAIFormat) BitClockInverted() bool {
	return f.Inversion == InvIBNF || f.Inversion == InvIBIF
}

func (f DAIFormat) FrameInverted() bool {
	return f.Inversion == InvNBIF || f.Inversion == InvIBIF
}

// CodecBitClockMaster / CodecFrameMaster report the codec's role.
func (f DAIFormat) CodecBitClockMaster() bool {
	return f.Provider == CBMCFM || f.Provider == CBMCFS
}

func (f DAIFormat) CodecFrameMaster() bool {
	return f.Provider == CBMCFM || f.Provider == CBSCFM
}

var (
	protoNames = map[string]Protocol{
		"i2s": ProtoI2S, "right_j": ProtoRightJ, "left_j": ProtoLeftJ,
		"dsp_a": ProtoDSPA, "dsp_b": ProtoDSPB,
	}
	invNames = map[string]Inversion{
		"nb_nf": InvNBNF, "nb_if": InvNBIF, "ib_nf": InvIBNF, "ib_if": InvIBIF,
	}
	providerNames = map[string]Provider{
		"cbm_cfm": CBMCFM, "cbs_cfm": CBSCFM, "cbm_cfs": CBMCFS, "cbs_cfs": CBSCFS,
	}
)

// ParseDAIFormat parses "dsp_a,ib_nf,cbm_cfm". Missing parts keep the
// default; an empty string yields DefaultDAIFormat.
func ParseDAIFormat(s string) (DAIFormat, error) {
	f := DefaultDAIFormat
	if strings.TrimSpace(s) == "" {
		return f, nil
	}
	for _, part := range strings.Split(s, ",") {
		p := strings.ToLower(strings.TrimSpace(part))
		if v, ok := protoNames[p]; ok {
			f.Protocol = v
		} else if v, ok := invNames[p]; ok {
			f.Inversion = v
		} else if v, ok := providerNames[p]; ok {
			f.Provider = v
		} else {
			return f, errcode.Wrap(errcode.InvalidParams, "format", "unknown token "+p, nil)
		}
	}
	return f, nil
}

// ---- Stream sample formats ----

// SampleFormat is a PCM sample encoding as requested by a stream.
type SampleFormat uint8

const (
	FormatInvalid SampleFormat = iota
	FormatS8
	FormatS16LE
	FormatS16BE
	FormatS24LE   // 24 bits in a 32-bit container
	FormatS24BE   // 24 bits in a 32-bit container
	FormatS24_3LE // packed
	FormatS24_3BE // packed
	FormatS32LE
	FormatS32BE
	FormatFloatLE
	FormatFloat64LE
)

var sampleFormats = [...]struct {
	name          string
	width, physic int
}{
	FormatInvalid:   {"INVALID", 0, 0},
	FormatS8:        {"S8", 8, 8},
	FormatS16LE:     {"S16_LE", 16, 16},
	FormatS16BE:     {"S16_BE", 16, 16},
	FormatS24LE:     {"S24_LE", 24, 32},
	FormatS24BE:     {"S24_BE", 24, 32},
	FormatS24_3LE:   {"S24_3LE", 24, 24},
	FormatS24_3BE:   {"S24_3BE", 24, 24},
	FormatS32LE:     {"S32_LE", 32, 32},
	FormatS32BE:     {"S32_BE", 32, 32},
	FormatFloatLE:   {"FLOAT_LE", 32, 32},
	FormatFloat64LE: {"FLOAT64_LE", 64, 64},
}

func (f SampleFormat) valid() bool { return f > FormatInvalid && int(f) < len(sampleFormats) }

func (f SampleFormat) String() string {
	if !f.valid() {
		return sampleFormats[FormatInvalid].name
	}
	return sampleFormats[f].name
}

// Width is the number of significant bits per sample.
func (f SampleFormat) Width() int {
	if !f.valid() {
		return 0
	}
	return sampleFormats[f].width
}

// PhysicalWidth is the number of bits a sample occupies in memory.
func (f SampleFormat) PhysicalWidth() int {
	if !f.valid() {
		return 0
	}
	return sampleFormats[f].physic
}

// ParseSampleFormat accepts ALSA-style names ("S24_LE"). Empty means S32_LE.
func ParseSampleFormat(s string) (SampleFormat, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return FormatS32LE, nil
	}
	for i := range sampleFormats {
		f := SampleFormat(i)
		if f.valid() && sampleFormats[i].name == s {
			return f, nil
		}
	}
	return FormatInvalid, errcode.Wrap(errcode.InvalidParams, "format", "unknown sample format "+s, nil)
}
