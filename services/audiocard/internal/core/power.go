package core

// PowerOn gates the controllable clock on. It is a no-op without one, and
// when the clock is already on (enable and disable are strictly paired).
func PowerOn(c *ClockContext) error {
	if !c.Controllable() || c.enabled {
		return nil
	}
	if err := c.Source.PrepareEnable(); err != nil {
		return err
	}
	c.enabled = true
	return nil
}

// PowerOff gates the clock off. It never fails: a disable error is handed
// to report (may be nil) and the clock is considered off regardless.
func PowerOff(c *ClockContext, report func(error)) {
	if !c.Controllable() || !c.enabled {
		return
	}
	c.enabled = false
	if err := c.Source.DisableUnprepare(); err != nil && report != nil {
		report(err)
	}
}
