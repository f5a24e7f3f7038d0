package model

import (
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/streakmon/pkg/domain/types"
)

// ClockTime is a local wall-clock time without date or zone
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses "HH:MM" in 24-hour notation
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, goerr.Wrap(err, "invalid clock time, expected HH:MM",
			goerr.V("value", s),
			goerr.T(types.ErrTagConfig),
		)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c ClockTime) minutes() int {
	return c.Hour*60 + c.Minute
}

// CheckWindow is the local daily [Start, End) interval in which pushes are counted
type CheckWindow struct {
	Start    ClockTime
	End      ClockTime
	Location *time.Location
}

// NewCheckWindow validates the window boundaries and loads the civil time zone
func NewCheckWindow(start, end, timezone string) (CheckWindow, error) {
	s, err := ParseClockTime(start)
	if err != nil {
		return CheckWindow{}, goerr.Wrap(err, "invalid window start", goerr.T(types.ErrTagConfig))
	}
	e, err := ParseClockTime(end)
	if err != nil {
		return CheckWindow{}, goerr.Wrap(err, "invalid window end", goerr.T(types.ErrTagConfig))
	}
	if s.minutes() >= e.minutes() {
		return CheckWindow{}, goerr.New("window start must be before window end",
			goerr.V("start", s.String()),
			goerr.V("end", e.String()),
			goerr.T(types.ErrTagConfig),
		)
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return CheckWindow{}, goerr.Wrap(err, "unknown time zone",
			goerr.V("timezone", timezone),
			goerr.T(types.ErrTagConfig),
		)
	}

	return CheckWindow{Start: s, End: e, Location: loc}, nil
}

// Date returns the local calendar date of now in the window's zone, formatted as YYYY-MM-DD
func (w CheckWindow) Date(now time.Time) string {
	return now.In(w.Location).Format(time.DateOnly)
}

// Bounds returns the window on the local calendar date of now as absolute instants.
// Offsets come from the zone rules of that date, so a daylight saving change between
// Start and End is reflected in the result.
func (w CheckWindow) Bounds(now time.Time) (start, end time.Time) {
	y, m, d := now.In(w.Location).Date()
	start = time.Date(y, m, d, w.Start.Hour, w.Start.Minute, 0, 0, w.Location)
	end = time.Date(y, m, d, w.End.Hour, w.End.Minute, 0, 0, w.Location)
	return start, end
}

// Contains reports whether t lies in [start, end) of today's window. End is exclusive.
func (w CheckWindow) Contains(now, t time.Time) bool {
	start, end := w.Bounds(now)
	return !t.Before(start) && t.Before(end)
}

// String renders the window for humans, e.g. "00:01 - 18:30 (Australia/Sydney)"
func (w CheckWindow) String() string {
	name := "UTC"
	if w.Location != nil {
		name = w.Location.String()
	}
	return fmt.Sprintf("%s - %s (%s)", w.Start, w.End, name)
}

// Evaluate splits events into those inside today's window and the rest
func (w CheckWindow) Evaluate(now time.Time, username string, events []PushEvent) *CheckResult {
	start, end := w.Bounds(now)
	result := &CheckResult{
		Username:    username,
		CheckedAt:   now,
		Date:        w.Date(now),
		WindowStart: start,
		WindowEnd:   end,
	}

	for _, ev := range events {
		if w.Contains(now, ev.CreatedAt) {
			result.Pushes = append(result.Pushes, ev)
		} else {
			result.Skipped = append(result.Skipped, ev)
		}
	}
	result.HadCommitInWindow = len(result.Pushes) > 0

	return result
}
