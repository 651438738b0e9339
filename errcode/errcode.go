package errcode

// Code is a stable, bus-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK                Code = "ok"
	Busy              Code = "busy"
	Unsupported       Code = "unsupported"
	Unavailable       Code = "unavailable"
	InvalidParams     Code = "invalid_params"
	InvalidPayload    Code = "invalid_payload"
	InvalidState      Code = "invalid_state"
	UnknownCard       Code = "unknown_card"
	Timeout           Code = "timeout"
	ConfigMissing     Code = "config_missing"
	ClockUnconfigured Code = "clock_unconfigured"
	ClockMismatch     Code = "clock_mismatch"
	RouteParse        Code = "route_parse"
	NegotiateFailed   Code = "negotiate_failed"
	ProbeDefer        Code = "probe_defer"
	UnknownNode       Code = "unknown_node"
	IOError           Code = "io_error"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is lets errors.Is(err, errcode.X) match a wrapped E carrying X.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// Wrap builds an *E. A nil cause is allowed.
func Wrap(c Code, op, msg string, err error) *E {
	return &E{C: c, Op: op, Msg: msg, Err: err}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	type unwrapper interface{ Unwrap() error }
	if u, ok := err.(unwrapper); ok {
		return Of(u.Unwrap())
	}
	return Error
}

// MapDriverErr maps low-level driver errors to a Code. Errors that already
// carry a code keep it; anything else from a register transport is io_error.
func MapDriverErr(err error) Code {
	if err == nil {
		return OK
	}
	if c := Of(err); c != Error {
		return c
	}
	return IOError
}
