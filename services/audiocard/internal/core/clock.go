package core

// ClockConfig is where the system clock rate comes from. Both parts are
// optional; see ResolveRate for the policy.
type ClockConfig struct {
	ExplicitHz *uint32 // configured rate
	Source     Clock   // controllable clock, nil for a fixed crystal
}

// ClockContext is owned by a card from attach to detach. RateHz is written
// once by ResolveRate; enabled is toggled only by the power sequencer.
type ClockContext struct {
	Name    string
	Source  Clock
	RateHz  uint32
	enabled bool
}

func (c *ClockContext) Controllable() bool { return c != nil && c.Source != nil }
func (c *ClockContext) Enabled() bool      { return c != nil && c.enabled }

// Resolution is the outcome of ResolveRate. Advisory is non-nil when the
// clock settled on a different rate than requested.
type Resolution struct {
	RateHz   uint32
	Advisory *MismatchAdvisory
}

// ResolveRate resolves the operating system clock:
//
//	explicit  source   result
//	-         -        ErrClockUnconfigured
//	-         yes      source rate (read only)
//	yes       yes      set, re-read; a different rate is an advisory
//	yes       -        explicit rate verbatim
func ResolveRate(cfg ClockConfig) (Resolution, error) {
	switch {
	case cfg.ExplicitHz == nil && cfg.Source == nil:
		return Resolution{}, ErrClockUnconfigured
	case cfg.ExplicitHz == nil:
		hz := cfg.Source.Rate()
		if hz == 0 {
			return Resolution{}, ErrClockUnconfigured
		}
		return Resolution{RateHz: hz}, nil
	case cfg.Source == nil:
		if *cfg.ExplicitHz == 0 {
			return Resolution{}, ErrClockUnconfigured
		}
		return Resolution{RateHz: *cfg.ExplicitHz}, nil
	}

	want := *cfg.ExplicitHz
	if want == 0 {
		return Resolution{}, ErrClockUnconfigured
	}
	cfg.Source.SetRate(want)
	got := cfg.Source.Rate()
	if got == 0 {
		return Resolution{}, ErrClockUnconfigured
	}
	res := Resolution{RateHz: got}
	if got != want {
		res.Advisory = &MismatchAdvisory{Requested: want, Achieved: got}
	}
	return res, nil
}
