package schedule

import (
	"fmt"
	"time"
)

// Placeholder is shown for a missing actual time or an absent delay
const Placeholder = "-"

// Formatter localizes timestamps for display
type Formatter struct {
	Location *time.Location
	Layout   string
}

// DefaultFormatter formats in Finnish local time as "15.04"
func DefaultFormatter() Formatter {
	loc, err := time.LoadLocation("Europe/Helsinki")
	if err != nil {
		loc = time.UTC
	}
	return Formatter{Location: loc, Layout: "15.04"}
}

// FormatTime renders t as hour:minute in the formatter's zone
func (f Formatter) FormatTime(t time.Time) string {
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	layout := f.Layout
	if layout == "" {
		layout = "15:04"
	}
	return t.In(loc).Format(layout)
}

// FormatOptionalTime renders t, or Placeholder when t is nil
func (f Formatter) FormatOptionalTime(t *time.Time) string {
	if t == nil {
		return Placeholder
	}
	return f.FormatTime(*t)
}

// FormatDiff renders a delay in minutes: nil and 0 give Placeholder,
// anything else an explicit sign and a "min" suffix
func FormatDiff(minutes *int) string {
	if minutes == nil || *minutes == 0 {
		return Placeholder
	}
	if *minutes > 0 {
		return fmt.Sprintf("+%d min", *minutes)
	}
	return fmt.Sprintf("%d min", *minutes)
}
