package export

import (
	"strings"
	"time"
)

// formatContext carries what cell and PDF rendering need beyond the value
// itself. A nil location leaves DateTime values in the zone they arrived in.
type formatContext struct {
	location *time.Location
}

func newFormatContext(timezone string) (formatContext, error) {
	tz := strings.TrimSpace(timezone)
	if tz == "" {
		return formatContext{}, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return formatContext{}, NewError(KindValidation, "invalid timezone", err)
	}
	return formatContext{location: loc}, nil
}

func (f formatContext) format(value Value) string {
	return value.Format(f.location)
}
