package condition

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/randalmurphal/todowatch/event"
)

// dateLayouts are tried in order. Layouts without a zone are read in the
// checker's location.
var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateTime,
	"2006-01-02 15:04",
}

// DateConfig configures the date checker.
type DateConfig struct {
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// Location interprets dates written without a zone. Defaults to
	// time.Local.
	Location *time.Location
}

// Date returns a checker taking one date argument, met once that moment is
// at or before now.
func Date(cfg DateConfig) event.Checker {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	return func(_ context.Context, args event.Args) (event.Result, error) {
		if err := args.Arity(1, 1); err != nil {
			return event.Result{}, err
		}
		raw, err := args.String(0)
		if err != nil {
			return event.Result{}, err
		}

		due, err := ParseDate(raw, loc)
		if err != nil {
			return event.Result{}, err
		}

		if due.After(now()) {
			return event.NotMet(), nil
		}
		return event.Met(fmt.Sprintf("The date %s has passed.", raw)), nil
	}
}

// ParseDate parses s using the accepted date layouts. Dates without a zone
// are interpreted in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q (want YYYY-MM-DD or RFC 3339)", event.ErrInvalidDateFormat, s)
}
