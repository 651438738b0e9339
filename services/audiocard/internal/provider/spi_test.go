package provider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audiocard-go/errcode"
)

// stallPort holds every transfer until release is closed, then fills r.
type stallPort struct {
	release chan struct{}
	wrote   chan struct{}
}

func (p *stallPort) Tx(w, r []byte) error {
	<-p.release
	for i := range r {
		r[i] = 0xAA
	}
	p.wrote <- struct{}{}
	return nil
}

func TestSPI_TimedOutTransferLeavesCallerBuffer(t *testing.T) {
	port := &stallPort{release: make(chan struct{}), wrote: make(chan struct{}, 1)}
	o := newSPIOwner("spi0", port)
	defer o.stop()
	spi := &driversSPI{o: o, timeout: 20 * time.Millisecond}

	r := make([]byte, 3)
	err := spi.Tx([]byte{0x09, 0x00, 0x00}, r)
	assert.Equal(t, errcode.Timeout, errcode.Of(err))

	close(port.release)
	select {
	case <-port.wrote:
	case <-time.After(time.Second):
		t.Fatal("worker never ran the stalled transfer")
	}
	assert.Equal(t, []byte{0, 0, 0}, r)
}

func TestSPI_ReadBack(t *testing.T) {
	port := &stallPort{release: make(chan struct{}), wrote: make(chan struct{}, 4)}
	close(port.release)
	o := newSPIOwner("spi0", port)
	defer o.stop()
	spi := &driversSPI{o: o, timeout: time.Second}

	r := make([]byte, 2)
	require.NoError(t, spi.Tx([]byte{0x09, 0x00}, r))
	assert.Equal(t, []byte{0xAA, 0xAA}, r)

	b, err := spi.Transfer(0x00)
	require.NoError(t, err)
	assert.Equal(t, byte(0xAA), b)
}
