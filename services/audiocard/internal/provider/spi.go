package provider

import (
	"time"

	"audiocard-go/errcode"

	"tinygo.org/x/drivers"
)

// spiPort is the raw transfer primitive of one bus.
type spiPort interface {
	Tx(w, r []byte) error
}

// request posted to the per-bus worker. w and r belong to the request, so
// a worker still running after the caller timed out never touches the
// caller's buffers.
type spiReq struct {
	w, r []byte
	done chan error // buffered(1); worker replies best-effort
}

// spiOwner serialises all transfers of one bus on a single goroutine.
type spiOwner struct {
	id   string
	hw   spiPort
	reqs chan spiReq
	quit chan struct{}
}

func newSPIOwner(id string, hw spiPort) *spiOwner {
	o := &spiOwner{
		id:   id,
		hw:   hw,
		reqs: make(chan spiReq, 16),
		quit: make(chan struct{}),
	}
	go o.loop()
	return o
}

func (o *spiOwner) loop() {
	for {
		select {
		case req := <-o.reqs:
			err := o.hw.Tx(req.w, req.r)
			select {
			case req.done <- err:
			default:
			}
		case <-o.quit:
			return
		}
	}
}

func (o *spiOwner) stop() { close(o.quit) }

// driversSPI adapts the owner to tinygo.org/x/drivers.SPI.
type driversSPI struct {
	o       *spiOwner
	timeout time.Duration // 0 => no deadline
}

var _ drivers.SPI = (*driversSPI)(nil)

func (d *driversSPI) Tx(w, r []byte) error {
	req := spiReq{
		w:    append([]byte(nil), w...),
		r:    make([]byte, len(r)),
		done: make(chan error, 1),
	}

	if d.timeout <= 0 {
		d.o.reqs <- req
		return finish(req, r, <-req.done)
	}

	t := time.NewTimer(d.timeout)
	defer t.Stop()
	select {
	case d.o.reqs <- req:
	case <-t.C:
		return errcode.Busy
	}
	select {
	case err := <-req.done:
		return finish(req, r, err)
	case <-t.C:
		return errcode.Timeout
	}
}

func finish(req spiReq, r []byte, err error) error {
	if err == nil {
		copy(r, req.r)
	}
	return err
}

// Transfer clocks a single byte through Tx.
func (d *driversSPI) Transfer(b byte) (byte, error) {
	w := [1]byte{b}
	var r [1]byte
	if err := d.Tx(w[:], r[:]); err != nil {
		return 0, err
	}
	return r[0], nil
}
