package lunar

import (
	"fmt"
	"math"
)

// LunarMonth11 returns the JDN of the first day of lunar month 11 (the month
// containing the winter solstice) that begins in Gregorian year year.
func LunarMonth11(year int) int {
	off := SolarToJDN(31, 12, year) - 2415021
	k := int(math.Floor(float64(off) / SynodicMonth))

	nm := NewMoonDay(k)
	if SunLongitudeSector(nm) >= 9 {
		nm = NewMoonDay(k - 1)
	}
	return nm
}

// LeapMonthOffset returns, for the 13-month window starting at a11, the
// number of months after month 11 at which the leap month is inserted. It is
// the first lunation after a11 that contains no major solar term, detected as
// two consecutive new moons sharing a sun longitude sector. The scan is
// bounded to 14 lunations.
func LeapMonthOffset(a11 int) int {
	k := lunationIndex(a11)

	last := SunLongitudeSector(NewMoonDay(k + 1))
	i := 2
	arc := SunLongitudeSector(NewMoonDay(k + i))
	for arc != last && i < 15 {
		last = arc
		i++
		arc = SunLongitudeSector(NewMoonDay(k + i))
	}
	return i - 1
}

// SolarToLunar converts a Gregorian date to its lunar date.
//
// The function is total: invalid fields are not rejected and produce a
// consistent but meaningless result.
func SolarToLunar(day, month, year int) LunarDate {
	dayNumber := SolarToJDN(day, month, year)

	k := int(math.Floor((float64(dayNumber) - ReferenceEpoch) / SynodicMonth))
	monthStart := NewMoonDay(k + 1)
	if monthStart > dayNumber {
		monthStart = NewMoonDay(k)
	}

	a11 := LunarMonth11(year)
	b11 := a11
	lunarYear := year
	if a11 >= monthStart {
		a11 = LunarMonth11(year - 1)
	} else {
		lunarYear = year + 1
		b11 = LunarMonth11(year + 1)
	}

	ld := LunarDate{Day: dayNumber - monthStart + 1}

	diff := floorDiv(monthStart-a11, 29)
	ld.Month = diff + 11
	if b11-a11 > 365 {
		leapOff := LeapMonthOffset(a11)
		if diff >= leapOff {
			ld.Month = diff + 10
			ld.Leap = diff == leapOff
		}
	}
	if ld.Month > 12 {
		ld.Month -= 12
	}
	if ld.Month >= 11 && diff < 4 {
		lunarYear--
	}
	ld.Year = lunarYear

	return ld
}

// LunarToSolar converts a lunar date to its Gregorian date.
//
// leap selects the inserted occurrence of month. It returns ErrInvalidLunarDate
// when leap is set and month is not the leap month of that lunar year. Other
// fields are not validated.
func LunarToSolar(year, month, day int, leap bool) (SolarDate, error) {
	monthStart, err := monthStartJDN(year, month, leap)
	if err != nil {
		return SolarDate{}, err
	}
	return JDNToSolar(monthStart + day - 1), nil
}

// LeapMonth returns the leap month of lunar year year, if it has one.
func LeapMonth(year int) (int, bool) {
	// Months 1..10 of year live in the window opened by month 11 of year-1.
	a11, b11 := LunarMonth11(year-1), LunarMonth11(year)
	if b11-a11 > 365 {
		if m := leapMonthNumber(LeapMonthOffset(a11)); m < 11 {
			return m, true
		}
	}

	// Months 11 and 12 live in the window opened in year itself.
	a11, b11 = b11, LunarMonth11(year+1)
	if b11-a11 > 365 {
		if m := leapMonthNumber(LeapMonthOffset(a11)); m >= 11 {
			return m, true
		}
	}
	return 0, false
}

// MonthLength returns the number of days (29 or 30) in the given lunar month.
func MonthLength(year, month int, leap bool) (int, error) {
	start, err := monthStartJDN(year, month, leap)
	if err != nil {
		return 0, err
	}

	k := lunationIndex(start)
	for NewMoonDay(k) > start {
		k--
	}
	for NewMoonDay(k+1) <= start {
		k++
	}
	return NewMoonDay(k+1) - start, nil
}

// monthStartJDN returns the JDN of day 1 of the given lunar month.
func monthStartJDN(year, month int, leap bool) (int, error) {
	var a11, b11 int
	if month < 11 {
		a11 = LunarMonth11(year - 1)
		b11 = LunarMonth11(year)
	} else {
		a11 = LunarMonth11(year)
		b11 = LunarMonth11(year + 1)
	}

	k := lunationIndex(a11)
	off := floorMod(month-11, 12)

	if b11-a11 > 365 {
		leapOff := LeapMonthOffset(a11)
		if leap && month != leapMonthNumber(leapOff) {
			return 0, fmt.Errorf("%w: month %d of %d is not a leap month", ErrInvalidLunarDate, month, year)
		}
		if leap || off >= leapOff {
			off++
		}
	} else if leap {
		return 0, fmt.Errorf("%w: lunar year %d has no leap month here", ErrInvalidLunarDate, year)
	}

	return NewMoonDay(k + off), nil
}

// leapMonthNumber maps a leap offset counted from month 11 to a month number.
func leapMonthNumber(leapOff int) int {
	m := leapOff + 10
	if m > 12 {
		m -= 12
	}
	return m
}

// lunationIndex returns the lunation whose new moon falls nearest jdn.
func lunationIndex(jdn int) int {
	return int(math.Floor(0.5 + (float64(jdn)-ReferenceEpoch)/SynodicMonth))
}
