package service

import (
	"audiocard-go/services/audiocard/internal/core"
	"audiocard-go/types"
)

// BoardConfig turns a bus-facing card description into the core's
// attach-time configuration. A zero slot block selects the default layout.
func BoardConfig(cc types.CardConfig) (core.BoardConfig, error) {
	f, err := core.ParseDAIFormat(cc.Format)
	if err != nil {
		return core.BoardConfig{}, err
	}
	slots := core.DefaultSlotLayout
	if cc.Slots != (types.SlotConfig{}) {
		slots = core.SlotLayout{
			TxMask:   cc.Slots.TxMask,
			RxMask:   cc.Slots.RxMask,
			Channels: cc.Slots.Channels,
			Width:    cc.Slots.Width,
		}
	}
	var explicit *uint32
	if cc.ClockRateHz != nil {
		v := *cc.ClockRateHz
		explicit = &v
	}
	return core.BoardConfig{
		ID:            cc.ID,
		Model:         cc.Model,
		CodecRef:      core.NodeRef(cc.Codec),
		CodecDAI:      cc.CodecDAI,
		ControllerRef: core.NodeRef(cc.Controller),
		PlatformRef:   core.NodeRef(cc.Platform),
		ClockName:     cc.Clock,
		ExplicitHz:    explicit,
		Routing:       core.RoutingConfig(cc.Routing),
		Format:        f,
		Slots:         slots,
		EnablePins:    cc.EnablePins,
		BCLKDiv:       cc.BCLKDiv,
	}, nil
}
