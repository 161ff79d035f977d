package timestamp

import (
	"strings"
	"time"
)

// Layout is the timestamp format field devices report in.
const Layout = "2006-01-02 15:04:05"

// Resolve derives the canonical event timestamp from a raw device string.
// Sub-second fractions are truncated before parsing. When the string is
// absent or malformed, the current time (UTC) is returned and parsed is
// false so the caller can log the fallback; Resolve itself never fails.
func Resolve(raw string, now func() time.Time) (ts time.Time, parsed bool) {
	if now == nil {
		now = time.Now
	}
	if raw == "" {
		return now().UTC(), false
	}

	if i := strings.IndexByte(raw, '.'); i >= 0 {
		raw = raw[:i]
	}

	t, err := time.Parse(Layout, raw)
	if err != nil {
		return now().UTC(), false
	}
	return t, true
}
