package lunar

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/tartampluch/go-amlich/internal/config"
)

var (
	// ErrInvalidDate reports a malformed or non-existent Gregorian date.
	ErrInvalidDate = errors.New(config.ErrInvalidDate)

	// ErrInvalidLunarDate reports a lunar date that does not exist: a leap
	// flag on a month that is not the year's leap month, or fields out of range.
	ErrInvalidLunarDate = errors.New(config.ErrInvalidLunarDate)
)

// Location is the fixed UTC+7 zone the calendar is defined in.
var Location = time.FixedZone(config.TimeZoneName, int(TimeZone*3600))

var isoDatePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// SolarDate is a proleptic Gregorian calendar date.
type SolarDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// SolarDateFromTime returns the UTC+7 civil date of t.
func SolarDateFromTime(t time.Time) SolarDate {
	t = t.In(Location)
	return SolarDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// ParseSolarDate parses a YYYY-MM-DD string and rejects dates that do not
// exist, such as 2023-02-29.
func ParseSolarDate(s string) (SolarDate, error) {
	m := isoDatePattern.FindStringSubmatch(s)
	if m == nil {
		return SolarDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	// The pattern guarantees digits, so Atoi cannot fail.
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])

	sd := SolarDate{Year: y, Month: mo, Day: d}
	if !sd.Valid() {
		return SolarDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return sd, nil
}

// Valid reports whether the date exists in the Gregorian calendar.
func (d SolarDate) Valid() bool {
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 31 {
		return false
	}
	return JDNToSolar(d.JDN()) == d
}

// JDN returns the Julian Day Number of the date.
func (d SolarDate) JDN() int {
	return SolarToJDN(d.Day, d.Month, d.Year)
}

// AddDays returns the date n days later (or earlier for negative n).
func (d SolarDate) AddDays(n int) SolarDate {
	return JDNToSolar(d.JDN() + n)
}

// Before reports whether d precedes o.
func (d SolarDate) Before(o SolarDate) bool {
	return d.JDN() < o.JDN()
}

// Time returns local midnight (UTC+7) of the date.
func (d SolarDate) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, Location)
}

// String formats the date as YYYY-MM-DD.
func (d SolarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// LunarDate is a date in the Vietnamese lunar calendar. Year is the
// Gregorian year in which the lunar year's month 1 begins.
type LunarDate struct {
	Day   int  `json:"day"`
	Month int  `json:"month"`
	Year  int  `json:"year"`
	Leap  bool `json:"leap"`
}

// String formats the date as d/m/y, with a trailing "+" on leap months.
func (l LunarDate) String() string {
	s := fmt.Sprintf("%d/%d/%d", l.Day, l.Month, l.Year)
	if l.Leap {
		s += "+"
	}
	return s
}

// Key is the "month-day" lookup key used by month maps and holiday tables.
func (l LunarDate) Key() string {
	return strconv.Itoa(l.Month) + "-" + strconv.Itoa(l.Day)
}
