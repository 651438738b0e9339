package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audiocard-go/errcode"
)

func TestParseDAIFormat(t *testing.T) {
	f, err := ParseDAIFormat("")
	require.NoError(t, err)
	assert.Equal(t, DefaultDAIFormat, f)

	f, err = ParseDAIFormat("I2S, nb_nf, cbs_cfs")
	require.NoError(t, err)
	assert.Equal(t, DAIFormat{Protocol: ProtoI2S, Inversion: InvNBNF, Provider: CBSCFS}, f)
	assert.False(t, f.CodecBitClockMaster())
	assert.False(t, f.BitClockInverted())

	d := DefaultDAIFormat
	assert.True(t, d.BitClockInverted())
	assert.False(t, d.FrameInverted())
	assert.True(t, d.CodecBitClockMaster())
	assert.True(t, d.CodecFrameMaster())

	_, err = ParseDAIFormat("dsp_a,sideways")
	assert.Equal(t, errcode.InvalidParams, errcode.Of(err))
}

func TestSampleFormat(t *testing.T) {
	f, err := ParseSampleFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatS32LE, f)

	f, err = ParseSampleFormat("s24_le")
	require.NoError(t, err)
	assert.Equal(t, 24, f.Width())
	assert.Equal(t, 32, f.PhysicalWidth())
	assert.Equal(t, "S24_LE", f.String())

	f, err = ParseSampleFormat("S24_3LE")
	require.NoError(t, err)
	assert.Equal(t, 24, f.PhysicalWidth())

	_, err = ParseSampleFormat("MP3")
	assert.Error(t, err)
	assert.Equal(t, 0, FormatInvalid.PhysicalWidth())
}
