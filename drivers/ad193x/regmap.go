package ad193x

import "tinygo.org/x/drivers"

// Regmap is the SPI register transport. Each access is one 3-byte
// full-duplex transfer: flag byte, register, value.
type Regmap struct {
	spi drivers.SPI

	// Fixed buffers to avoid per-call heap allocations.
	w [3]byte
	r [3]byte
}

func NewRegmap(spi drivers.SPI) *Regmap { return &Regmap{spi: spi} }

func (m *Regmap) Read(reg uint8) (uint8, error) {
	m.w[0] = readFlag
	m.w[1] = reg
	m.w[2] = 0
	if err := m.spi.Tx(m.w[:], m.r[:]); err != nil {
		return 0, err
	}
	return m.r[2], nil
}

func (m *Regmap) Write(reg, val uint8) error {
	m.w[0] = writeFlag
	m.w[1] = reg
	m.w[2] = val
	return m.spi.Tx(m.w[:], nil)
}

// Update is the read-modify-write helper; bits outside mask are preserved.
func (m *Regmap) Update(reg, mask, val uint8) error {
	cur, err := m.Read(reg)
	if err != nil {
		return err
	}
	next := (cur &^ mask) | (val & mask)
	if next == cur {
		return nil
	}
	return m.Write(reg, next)
}
