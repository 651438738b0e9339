package ad193x

import (
	"errors"
	"sync"
)

var errFrame = errors.New("ad193x: malformed control frame")

// MemSPI is an in-memory control port for host builds and tests: it
// answers register frames from a register file.
type MemSPI struct {
	mu   sync.Mutex
	regs [numRegs]uint8
}

func (m *MemSPI) Tx(w, r []byte) error {
	if len(w) != 3 || w[1] >= numRegs {
		return errFrame
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	switch w[0] {
	case writeFlag:
		m.regs[w[1]] = w[2]
	case readFlag:
		if len(r) == 3 {
			r[2] = m.regs[w[1]]
		}
	default:
		return errFrame
	}
	return nil
}

func (m *MemSPI) Transfer(b byte) (byte, error) { return 0, nil }

// Reg returns a register value without going through the bus.
func (m *MemSPI) Reg(reg uint8) uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if reg >= numRegs {
		return 0
	}
	return m.regs[reg]
}
