package core

// ParsedDate is the result of resolving a free-form date expression.
// A zero ISODate means the expression could not be resolved. When ISODate
// is set it is a YYYY-MM-DD calendar date that is never earlier than
// "today" in the configured timezone; resolver stages that would produce a
// past date clamp forward instead.
type ParsedDate struct {
	ISODate  string `json:"isoDate"`
	Readable string `json:"readable"`
}

// Resolved reports whether the expression yielded a date.
func (p ParsedDate) Resolved() bool { return p.ISODate != "" }

// ParsedTime is the result of resolving a free-form time expression.
// ISOTime is a 24-hour HH:MM value (hour 0-23, minute 0-59) or empty when
// the expression could not be resolved; out-of-range inputs never produce
// a value.
type ParsedTime struct {
	ISOTime  string `json:"isoTime"`
	Readable string `json:"readable"`
}

// Resolved reports whether the expression yielded a time.
func (p ParsedTime) Resolved() bool { return p.ISOTime != "" }
