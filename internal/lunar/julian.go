// Package lunar converts between the proleptic Gregorian calendar and the
// Vietnamese lunar calendar (UTC+7).
//
// The package is pure: every exported function depends only on its inputs and
// fixed constant tables, so it is safe for concurrent use without locking.
// Results are accurate within MinSupportedYear..MaxSupportedYear; outside that
// window the truncated astronomical series drift and month boundaries may be
// off by a day.
package lunar

// SolarToJDN returns the Julian Day Number of a proleptic Gregorian date using
// the Fliegel-Van Flandern formula.
//
// Fields are not validated: month 13 or day 32 yield a consistent but
// meaningless day number. Use ParseSolarDate to validate caller input first.
func SolarToJDN(day, month, year int) int {
	a := floorDiv(14-month, 12)
	y := year + 4800 - a
	m := month + 12*a - 3
	return day + floorDiv(153*m+2, 5) + 365*y +
		floorDiv(y, 4) - floorDiv(y, 100) + floorDiv(y, 400) - 32045
}

// JDNToSolar is the exact inverse of SolarToJDN.
func JDNToSolar(jdn int) SolarDate {
	a := jdn + 32044
	b := floorDiv(4*a+3, 146097)
	c := a - floorDiv(146097*b, 4)
	d := floorDiv(4*c+3, 1461)
	e := c - floorDiv(1461*d, 4)
	m := floorDiv(5*e+2, 153)

	return SolarDate{
		Year:  100*b + d - 4800 + floorDiv(m, 10),
		Month: m + 3 - 12*floorDiv(m, 10),
		Day:   e - floorDiv(153*m+2, 5) + 1,
	}
}

// floorDiv is integer division rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// floorMod is the non-negative remainder matching floorDiv.
func floorMod(a, b int) int {
	return a - b*floorDiv(a, b)
}
