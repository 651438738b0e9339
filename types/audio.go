package types

// ---- Board configuration (topic "config/audio") ----

// AudioConfig is the retained configuration document for the audio service.
type AudioConfig struct {
	Cards []CardConfig `json:"cards" yaml:"cards"`
}

// CardConfig carries every attach-time fact about one board.
// A nil Routing means "not configured" and selects the built-in routes;
// a present but empty list is rejected.
type CardConfig struct {
	ID    string `json:"id" yaml:"id"`
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	Codec      string `json:"codec" yaml:"codec"`                   // codec node reference
	CodecDAI   string `json:"codec_dai,omitempty" yaml:"codec_dai"` // e.g. "ad193x-hifi"
	Controller string `json:"controller" yaml:"controller"`         // host DAI node reference
	Platform   string `json:"platform,omitempty" yaml:"platform"`   // defaults to Controller

	Clock       string   `json:"clock,omitempty" yaml:"clock"`                 // controllable clock handle, e.g. "mclk"
	ClockRateHz *uint32  `json:"clock_rate_hz,omitempty" yaml:"clock_rate_hz"` // explicit system clock
	Routing     []string `json:"routing,omitempty" yaml:"routing"`             // flat sink,source pairs

	Format     string     `json:"format,omitempty" yaml:"format"` // e.g. "dsp_a,ib_nf,cbm_cfm"
	Slots      SlotConfig `json:"slots" yaml:"slots"`
	EnablePins []string   `json:"enable_pins,omitempty" yaml:"enable_pins"`
	BCLKDiv    int        `json:"bclk_div,omitempty" yaml:"bclk_div"` // 0 => leave host divider alone
}

type SlotConfig struct {
	TxMask   uint32 `json:"tx_mask" yaml:"tx_mask"`
	RxMask   uint32 `json:"rx_mask" yaml:"rx_mask"`
	Channels int    `json:"channels" yaml:"channels"`
	Width    int    `json:"width" yaml:"width"`
}

// ---- Card state (retained, audio/card/<id>/state) ----

type CardState struct {
	State  string `json:"state"` // "unattached","acquired","negotiated","active","idle","detached"
	Model  string `json:"model,omitempty"`
	RateHz uint32 `json:"rate_hz,omitempty"`
	Routes int    `json:"routes,omitempty"`
	Open   int    `json:"open_streams"`
	Error  string `json:"error,omitempty"`
	TSms   int64  `json:"ts_ms"`
}

// AudioState is the service-level state (retained, audio/state).
type AudioState struct {
	Level  string `json:"level"` // "idle","ready","stopped"
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
	TSms   int64  `json:"ts_ms"`
}

// ---- Events (audio/card/<id>/event/<tag>) ----

type ClockAdvisory struct {
	Requested uint32 `json:"requested_hz"`
	Achieved  uint32 `json:"achieved_hz"`
	TSms      int64  `json:"ts_ms"`
}

type CardFault struct {
	Op    string `json:"op"`
	Error string `json:"error"`
	TSms  int64  `json:"ts_ms"`
}

// ---- Controls (audio/card/<id>/control/<verb>) ----

type StreamOpen struct {
	Direction string `json:"direction"`        // "playback" | "capture"
	Format    string `json:"format,omitempty"` // e.g. "S24_LE"; default S32_LE
	Channels  int    `json:"channels,omitempty"`
	RateHz    int    `json:"rate_hz,omitempty"`
}

type StreamClose struct {
	Direction string `json:"direction"`
}

type StreamReply struct {
	OK            bool   `json:"ok"`
	Direction     string `json:"direction"`
	PhysicalWidth int    `json:"physical_width"`
	SlotWidth     int    `json:"slot_width"`
	Channels      int    `json:"channels,omitempty"`
	SlotChannels  int    `json:"slot_channels"`
	RateHz        int    `json:"rate_hz,omitempty"`
	FSRatio       int    `json:"fs_ratio,omitempty"` // sysclk / rate
	SysclkHz      uint32 `json:"sysclk_hz"`
}

// ---- Generic replies ----

type OKReply struct {
	OK bool `json:"ok"`
}

type ErrorReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}
