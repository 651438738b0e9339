package util

import (
	"encoding/json"
	"time"
)

func ResetTimer(t *time.Timer, d time.Duration) {
	if d < 0 {
		d = 0
	}
	if !t.Stop() {
		DrainTimer(t)
	}
	t.Reset(d)
}

func DrainTimer(t *time.Timer) {
	select {
	case <-t.C:
	default:
	}
}

// DecodePayload accepts a typed value, a pointer to one, raw JSON or a
// generic map, and fills dst. A nil payload leaves dst unchanged.
func DecodePayload[T any](src any, dst *T) error {
	switch v := src.(type) {
	case nil:
		return nil
	case T:
		*dst = v
		return nil
	case *T:
		if v != nil {
			*dst = *v
		}
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return json.Unmarshal(b, dst)
	}
}
