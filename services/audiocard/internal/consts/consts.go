package consts

// Topic tokens
const (
	TokConfig  = "config"
	TokAudio   = "audio"
	TokCard    = "card"
	TokState   = "state"
	TokEvent   = "event"
	TokControl = "control"
)

// Control verbs
const (
	CtrlOpen   = "open"
	CtrlClose  = "close"
	CtrlDetach = "detach"
	CtrlStatus = "status"
)

// Service levels
const (
	LevelIdle    = "idle"
	LevelReady   = "ready"
	LevelError   = "error"
	LevelStopped = "stopped"
)

// Event tags published by the service itself
const (
	EvAttachFailed = "attach_failed"
	EvAttachRetry  = "attach_retry"
)
