package lunar

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tartampluch/go-amlich/internal/config"
)

// MonthEntry pairs one Gregorian day with its lunar date.
type MonthEntry struct {
	Solar SolarDate `json:"solar"`
	Lunar LunarDate `json:"lunar"`
}

// MonthMap is the lunar date of every day of one Gregorian month. Maps
// returned by a Converter are shared and must be treated as read-only.
type MonthMap struct {
	Year  int          `json:"year"`
	Month int          `json:"month"`
	Days  []MonthEntry `json:"days"`

	// ByLunarKey indexes Days by LunarDate.Key. A key holds two entries when
	// a month and its leap repetition both start inside the solar month.
	ByLunarKey map[string][]MonthEntry `json:"-"`
}

// Lookup returns the entries whose lunar date is month/day.
func (m MonthMap) Lookup(month, day int) []MonthEntry {
	return m.ByLunarKey[LunarDate{Month: month, Day: day}.Key()]
}

// BuildMonth computes the MonthMap of a Gregorian month without caching.
func BuildMonth(year, month int) MonthMap {
	n := DaysInMonth(year, month)
	mm := MonthMap{
		Year:       year,
		Month:      month,
		Days:       make([]MonthEntry, 0, n),
		ByLunarKey: make(map[string][]MonthEntry, n),
	}
	for d := 1; d <= n; d++ {
		e := MonthEntry{
			Solar: SolarDate{Year: year, Month: month, Day: d},
			Lunar: SolarToLunar(d, month, year),
		}
		mm.Days = append(mm.Days, e)
		key := e.Lunar.Key()
		mm.ByLunarKey[key] = append(mm.ByLunarKey[key], e)
	}
	return mm
}

// DaysInMonth returns the number of days in a Gregorian month.
func DaysInMonth(year, month int) int {
	next := SolarToJDN(1, month+1, year)
	if month == 12 {
		next = SolarToJDN(1, 1, year+1)
	}
	return next - SolarToJDN(1, month, year)
}

// Uncached converts dates directly with no memoization.
type Uncached struct{}

// SolarToLunar implements the converter contract without caching.
func (Uncached) SolarToLunar(d SolarDate) LunarDate {
	return SolarToLunar(d.Day, d.Month, d.Year)
}

// Month implements the converter contract without caching.
func (Uncached) Month(year, month int) MonthMap {
	return BuildMonth(year, month)
}

type monthKey struct {
	year, month int
}

// Converter memoizes conversions in two bounded LRU caches: one for single
// days and one for whole Gregorian months. It is safe for concurrent use.
type Converter struct {
	days   *lru.Cache[SolarDate, LunarDate]
	months *lru.Cache[monthKey, MonthMap]
}

// NewConverter returns a Converter holding at most dayCap single-day results
// and monthCap month maps. Both capacities must be positive.
func NewConverter(dayCap, monthCap int) (*Converter, error) {
	days, err := lru.New[SolarDate, LunarDate](dayCap)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCacheSize, err)
	}
	months, err := lru.New[monthKey, MonthMap](monthCap)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCacheSize, err)
	}
	return &Converter{days: days, months: months}, nil
}

// NewDefaultConverter returns a Converter with the default capacities.
func NewDefaultConverter() *Converter {
	c, err := NewConverter(config.DefaultDayCacheSize, config.DefaultMonthCacheSize)
	if err != nil {
		// Default capacities are positive constants.
		panic(err)
	}
	return c
}

// SolarToLunar returns the lunar date of d, using the day cache.
func (c *Converter) SolarToLunar(d SolarDate) LunarDate {
	if ld, ok := c.days.Get(d); ok {
		return ld
	}
	ld := SolarToLunar(d.Day, d.Month, d.Year)
	c.days.Add(d, ld)
	return ld
}

// Month returns the MonthMap of a Gregorian month, using the month cache.
func (c *Converter) Month(year, month int) MonthMap {
	key := monthKey{year: year, month: month}
	if mm, ok := c.months.Get(key); ok {
		return mm
	}
	mm := BuildMonth(year, month)
	c.months.Add(key, mm)
	return mm
}

// Purge empties both caches.
func (c *Converter) Purge() {
	c.days.Purge()
	c.months.Purge()
}

// Len reports the number of cached days and months.
func (c *Converter) Len() (days, months int) {
	return c.days.Len(), c.months.Len()
}
