// Package holiday holds the Vietnamese observance table and resolves it to
// solar dates for a given year.
package holiday

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/tartampluch/go-amlich/internal/config"
	"github.com/tartampluch/go-amlich/internal/lunar"
)

// Calendar kinds.
const (
	KindSolar = "solar"
	KindLunar = "lunar"
)

// ErrInvalidHoliday is wrapped by every validation failure.
var ErrInvalidHoliday = errors.New(config.ErrInvalidHoliday)

// Holiday is a recurring observance. Month and Day are solar or lunar
// depending on Kind.
type Holiday struct {
	Code          string   `json:"code"`
	NameVI        string   `json:"name_vi"`
	NameEN        string   `json:"name_en"`
	Kind          string   `json:"kind"`
	Month         int      `json:"month"`
	Day           int      `json:"day"`
	Public        bool     `json:"public"`
	Tags          []string `json:"tags,omitempty"`
	DescriptionVI string   `json:"description_vi,omitempty"`
}

// Occurrence is a holiday placed on the solar calendar.
type Occurrence struct {
	Holiday Holiday         `json:"holiday"`
	Date    lunar.SolarDate `json:"date"`
	Lunar   lunar.LunarDate `json:"lunar"`
}

// Defaults returns a fresh copy of the built-in table.
func Defaults() []Holiday {
	return []Holiday{
		{Code: "new-year", NameVI: "Tết Dương Lịch", NameEN: "New Year's Day", Kind: KindSolar, Month: 1, Day: 1, Public: true, Tags: []string{"national"}},
		{Code: "reunification", NameVI: "Ngày Giải Phóng Miền Nam", NameEN: "Reunification Day", Kind: KindSolar, Month: 4, Day: 30, Public: true, Tags: []string{"national"}},
		{Code: "labor-day", NameVI: "Ngày Quốc Tế Lao Động", NameEN: "International Labor Day", Kind: KindSolar, Month: 5, Day: 1, Public: true, Tags: []string{"national"}},
		{Code: "national-day", NameVI: "Ngày Quốc Khánh", NameEN: "National Day", Kind: KindSolar, Month: 9, Day: 2, Public: true, Tags: []string{"national"}},

		{Code: "tet", NameVI: "Tết Nguyên Đán", NameEN: "Lunar New Year", Kind: KindLunar, Month: 1, Day: 1, Public: true, Tags: []string{"tet", "family"}},
		{Code: "lantern", NameVI: "Tết Nguyên Tiêu", NameEN: "Lantern Festival", Kind: KindLunar, Month: 1, Day: 15, Tags: []string{"buddhist"}},
		{Code: "cold-food", NameVI: "Tết Hàn Thực", NameEN: "Cold Food Festival", Kind: KindLunar, Month: 3, Day: 3, Tags: []string{"family"}},
		{Code: "hung-kings", NameVI: "Giỗ Tổ Hùng Vương", NameEN: "Hung Kings Commemoration", Kind: KindLunar, Month: 3, Day: 10, Public: true, Tags: []string{"national"}},
		{Code: "vesak", NameVI: "Lễ Phật Đản", NameEN: "Buddha's Birthday", Kind: KindLunar, Month: 4, Day: 15, Tags: []string{"buddhist"}},
		{Code: "doan-ngo", NameVI: "Tết Đoan Ngọ", NameEN: "Mid-Year Festival", Kind: KindLunar, Month: 5, Day: 5, Tags: []string{"family"}},
		{Code: "vu-lan", NameVI: "Lễ Vu Lan", NameEN: "Ghost Festival", Kind: KindLunar, Month: 7, Day: 15, Tags: []string{"buddhist", "family"}},
		{Code: "mid-autumn", NameVI: "Tết Trung Thu", NameEN: "Mid-Autumn Festival", Kind: KindLunar, Month: 8, Day: 15, Tags: []string{"children"}},
		{Code: "kitchen-gods", NameVI: "Ông Công Ông Táo", NameEN: "Kitchen Gods Day", Kind: KindLunar, Month: 12, Day: 23, Tags: []string{"tet"}},
		{Code: "new-year-eve", NameVI: "Giao Thừa", NameEN: "Lunar New Year's Eve", Kind: KindLunar, Month: 12, Day: 30, Tags: []string{"tet", "family"}},
	}
}

// Validate reports every problem with a definition at once.
func Validate(h Holiday) error {
	var errs []error

	if strings.TrimSpace(h.Code) == "" {
		errs = append(errs, errors.New("code is required"))
	}
	if strings.TrimSpace(h.NameVI) == "" {
		errs = append(errs, errors.New("name_vi is required"))
	}
	if strings.TrimSpace(h.NameEN) == "" {
		errs = append(errs, errors.New("name_en is required"))
	}
	if h.Month < 1 || h.Month > 12 {
		errs = append(errs, fmt.Errorf("month %d out of range", h.Month))
	}

	switch h.Kind {
	case KindSolar:
		// A leap year accepts 29 February.
		if h.Month >= 1 && h.Month <= 12 && !(lunar.SolarDate{Year: 2024, Month: h.Month, Day: h.Day}).Valid() {
			errs = append(errs, fmt.Errorf("day %d is not a real day of month %d", h.Day, h.Month))
		}
	case KindLunar:
		if h.Day < 1 || h.Day > 30 {
			errs = append(errs, fmt.Errorf("lunar day %d out of range", h.Day))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown kind %q", h.Kind))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w %q: %w", ErrInvalidHoliday, h.Code, errors.Join(errs...))
}

// LoadFile reads a JSON array of definitions and validates each entry.
func LoadFile(path string) ([]Holiday, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrHolidayFile, err)
	}

	var defs []Holiday
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrHolidayFile, err)
	}

	var errs []error
	for _, h := range defs {
		if err := Validate(h); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", config.ErrHolidayFile, errors.Join(errs...))
	}
	return defs, nil
}

// Merge returns base with extra appended. An extra entry replaces the base
// entry sharing its code.
func Merge(base, extra []Holiday) []Holiday {
	out := slices.Clone(base)
	for _, h := range extra {
		if i := slices.IndexFunc(out, func(b Holiday) bool { return b.Code == h.Code }); i >= 0 {
			out[i] = h
			continue
		}
		out = append(out, h)
	}
	return out
}

// Occurrences places every definition on the solar calendar of year, sorted
// by date. Solar days that do not exist in year (29 February) are skipped.
// Lunar definitions are resolved in lunar years year-1 and year so that late
// lunar months landing in January are found. A lunar day past the end of a
// short month falls on its last day.
func Occurrences(year int, defs []Holiday) []Occurrence {
	var out []Occurrence

	for _, h := range defs {
		switch h.Kind {
		case KindSolar:
			d := lunar.SolarDate{Year: year, Month: h.Month, Day: h.Day}
			if !d.Valid() {
				continue
			}
			out = append(out, Occurrence{Holiday: h, Date: d, Lunar: lunar.SolarToLunar(d.Day, d.Month, d.Year)})

		case KindLunar:
			for _, ly := range []int{year - 1, year} {
				d, ld, ok := resolveLunar(ly, h.Month, h.Day)
				if ok && d.Year == year {
					out = append(out, Occurrence{Holiday: h, Date: d, Lunar: ld})
				}
			}
		}
	}

	slices.SortStableFunc(out, func(a, b Occurrence) int {
		return cmp.Or(cmp.Compare(a.Date.JDN(), b.Date.JDN()), cmp.Compare(a.Holiday.Code, b.Holiday.Code))
	})
	return out
}

// Between returns the occurrences falling in [from, to].
func Between(from, to lunar.SolarDate, defs []Holiday) []Occurrence {
	var out []Occurrence
	for y := from.Year; y <= to.Year; y++ {
		for _, o := range Occurrences(y, defs) {
			if !o.Date.Before(from) && !to.Before(o.Date) {
				out = append(out, o)
			}
		}
	}
	return out
}

func resolveLunar(year, month, day int) (lunar.SolarDate, lunar.LunarDate, bool) {
	n, err := lunar.MonthLength(year, month, false)
	if err != nil {
		return lunar.SolarDate{}, lunar.LunarDate{}, false
	}
	day = min(day, n)

	d, err := lunar.LunarToSolar(year, month, day, false)
	if err != nil {
		return lunar.SolarDate{}, lunar.LunarDate{}, false
	}
	return d, lunar.LunarDate{Day: day, Month: month, Year: year}, true
}
