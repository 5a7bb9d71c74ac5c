package frontmatter

import "time"

// dateLayouts is the ordered list of parse attempts for date normalization.
// RFC3339 covers ISO-8601 datetimes with a Z or numeric offset; the rest are
// progressively looser fallbacks.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate tries each known layout in order and returns the first match.
// Layouts without a time component yield midnight; layouts without a zone
// yield UTC.
func ParseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeDate removes a scalar "date" key and stores its normalized value
// under "pubDatetime". When no layout matches, the raw string is kept as the
// value: normalization is best-effort, never fatal.
func (f *FrontMatter) NormalizeDate() {
	if _, ok := f.Get("date"); !ok {
		return
	}
	raw, _ := f.Remove("date")
	if t, ok := ParseDate(raw); ok {
		_ = f.Set("pubDatetime", t)
		return
	}
	_ = f.Set("pubDatetime", raw)
}
