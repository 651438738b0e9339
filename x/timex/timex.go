package timex

import "time"

// NowMs returns Unix milliseconds as int64. All bus payload timestamps
// (ts_ms) use it.
func NowMs() int64 { return time.Now().UnixMilli() }
