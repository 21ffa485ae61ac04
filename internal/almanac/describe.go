package almanac

import "github.com/tartampluch/go-amlich/internal/lunar"

// LunarConverter is satisfied by *lunar.Converter and lunar.Uncached.
type LunarConverter interface {
	SolarToLunar(d lunar.SolarDate) lunar.LunarDate
}

// DayInfo bundles everything known about one solar day.
type DayInfo struct {
	Solar      lunar.SolarDate   `json:"solar"`
	Lunar      lunar.LunarDate   `json:"lunar"`
	DayName    string            `json:"dayName"`
	MonthName  string            `json:"monthName"`
	YearCanChi CanChi            `json:"canChiYear"`
	DayCanChi  CanChi            `json:"canChiDay"`
	Animal     AnimalInfo        `json:"zodiacAnimal"`
	Hours      HourSet           `json:"hours"`
	Sign       WesternZodiacSign `json:"zodiacSign"`
}

// Describe computes the DayInfo of d.
func Describe(conv LunarConverter, d lunar.SolarDate) DayInfo {
	ld := conv.SolarToLunar(d)
	return DayInfo{
		Solar:      d,
		Lunar:      ld,
		DayName:    LunarDayName(ld.Day),
		MonthName:  LunarMonthName(ld.Month),
		YearCanChi: YearCanChi(ld.Year),
		DayCanChi:  DayCanChi(d),
		Animal:     YearAnimal(ld.Year),
		Hours:      AuspiciousHours(d),
		Sign:       ZodiacSign(d),
	}
}
