package market

import (
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock minute within a session's local day.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var tod TimeOfDay
	if _, err := fmt.Sscanf(s, "%d:%d", &tod.Hour, &tod.Minute); err != nil {
		return TimeOfDay{}, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	if tod.Hour < 0 || tod.Hour > 23 || tod.Minute < 0 || tod.Minute > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day %q out of range", s)
	}
	return tod, nil
}

func (t TimeOfDay) minutes() int { return t.Hour*60 + t.Minute }

// Session defines when instrument evaluation is permitted: a timezone, a set
// of trading weekdays, and an [open, close) time-of-day range on the session's
// local calendar day.
type Session struct {
	Location *time.Location
	Days     map[time.Weekday]bool
	Open     TimeOfDay
	Close    TimeOfDay
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday,
	"wed": time.Wednesday, "thu": time.Thursday, "fri": time.Friday,
	"sat": time.Saturday,
}

// NewSession builds a Session from configuration values. Day names are
// three-letter abbreviations ("Mon".."Fri" by convention).
func NewSession(timezone string, days []string, open, close string) (Session, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return Session{}, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	mask := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(d))]
		if !ok {
			return Session{}, fmt.Errorf("unknown weekday %q", d)
		}
		mask[wd] = true
	}
	openTod, err := ParseTimeOfDay(open)
	if err != nil {
		return Session{}, err
	}
	closeTod, err := ParseTimeOfDay(close)
	if err != nil {
		return Session{}, err
	}
	if closeTod.minutes() <= openTod.minutes() {
		return Session{}, fmt.Errorf("session close %s must be after open %s", close, open)
	}
	return Session{Location: loc, Days: mask, Open: openTod, Close: closeTod}, nil
}

// IsOpen reports whether now falls inside the trading session. Pure and
// total: non-trading weekdays and anything outside [open, close) are closed.
func (s Session) IsOpen(now time.Time) bool {
	local := now.In(s.Location)
	if !s.Days[local.Weekday()] {
		return false
	}
	minute := local.Hour()*60 + local.Minute()
	return minute >= s.Open.minutes() && minute < s.Close.minutes()
}
