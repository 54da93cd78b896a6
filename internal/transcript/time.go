package transcript

import "time"

// ParseTimestamp parses the timestamp formats seen in session files.
// Returns the zero time when nothing matches.
func ParseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	// ISO8601 without timezone
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}

// MidpointTimestamp returns the arithmetic midpoint between two entry
// timestamps, formatted the way Claude Code writes them. If one endpoint
// is unparsable the other is used; if both are, the current time is.
func MidpointTimestamp(a, b string) string {
	ta := ParseTimestamp(a)
	tb := ParseTimestamp(b)
	var mid time.Time
	switch {
	case !ta.IsZero() && !tb.IsZero():
		mid = ta.Add(tb.Sub(ta) / 2)
	case !ta.IsZero():
		mid = ta
	case !tb.IsZero():
		mid = tb
	default:
		mid = time.Now().UTC()
	}
	return mid.UTC().Format("2006-01-02T15:04:05.000Z")
}
