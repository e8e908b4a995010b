// Package vntime renders provider timestamps in Vietnam local time.
package vntime

import (
	"strings"
	"time"
)

// Offset is Vietnam's fixed UTC offset. There is no daylight saving.
const Offset = 7 * time.Hour

// Layout is the display format, with the "(Giờ VN)" suffix.
const Layout = "2006-01-02 15:04:05 (Giờ VN)"

var zone = time.FixedZone("ICT", int(Offset/time.Second))

// Layouts with an explicit offset are converted to UTC first; the rest are read as UTC.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
}

// Parse reads s in any supported layout.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Normalize returns s as Vietnam local time in Layout. Blank input gives "".
// Input that cannot be parsed is returned unchanged.
func Normalize(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	t, ok := Parse(s)
	if !ok {
		return s
	}
	return Format(t)
}

// Format renders t in Vietnam local time.
func Format(t time.Time) string {
	return t.In(zone).Format(Layout)
}
