package engine

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-vcard"

	"github.com/tartampluch/go-amlich/internal/config"
	"github.com/tartampluch/go-amlich/internal/lunar"
)

// AnniversaryEntry is a contact date kept on the lunar calendar.
type AnniversaryEntry struct {
	// UID is a unique identifier (hash) used for stability in lists.
	UID string `json:"uid"`

	// Name is the display name (Formatted Name or Structured Name).
	Name string `json:"name"`

	// Kind is KindBirthday or KindAnniversary.
	Kind string `json:"kind"`

	// Solar is the original date from the card and Lunar its lunar date.
	Solar lunar.SolarDate `json:"solar"`
	Lunar lunar.LunarDate `json:"lunar"`

	// NextOccurrence is the solar date of the next lunar anniversary,
	// today included. This is the sorting key for "upcoming" views.
	NextOccurrence lunar.SolarDate `json:"nextOccurrence"`

	// YearsNext is the lunar age or years married at NextOccurrence.
	YearsNext int `json:"yearsNext"`
}

type anniversaryOccurrence struct {
	Date  lunar.SolarDate
	Lunar lunar.LunarDate
	Years int
}

// anniversary reads one date field of a card. Dates without a year are
// skipped since their lunar date is undefined.
func (g *Generator) anniversary(card vcard.Card, field, name string, today lunar.SolarDate) (AnniversaryEntry, bool) {
	f := card.Get(field)
	if f == nil || f.Value == "" {
		return AnniversaryEntry{}, false
	}

	d, yearKnown, err := parseDate(f.Value)
	if err != nil {
		slog.Debug(config.MsgSkippedDate,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyValue, f.Value)
		return AnniversaryEntry{}, false
	}
	if !yearKnown {
		slog.Debug(config.MsgSkippedNoYear,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyName, name,
			config.LogKeyValue, f.Value)
		return AnniversaryEntry{}, false
	}

	kind := KindBirthday
	if field == config.VCardAnniversary {
		kind = KindAnniversary
	}

	conv := g.converter()
	origin := conv.SolarToLunar(d)
	next, years := nextOccurrence(origin, conv.SolarToLunar(today).Year, today)

	return AnniversaryEntry{
		UID:            uidBase(kind, name, d.String()),
		Name:           name,
		Kind:           kind,
		Solar:          d,
		Lunar:          origin,
		NextOccurrence: next,
		YearsNext:      years,
	}, true
}

// occurrences lists the anniversary in the lunar years around today.
// No occurrence is produced before the original lunar year.
func (g *Generator) occurrences(e AnniversaryEntry, today lunar.SolarDate) []anniversaryOccurrence {
	current := g.converter().SolarToLunar(today).Year

	var out []anniversaryOccurrence
	for _, ly := range []int{current - 1, current, current + 1} {
		if ly < e.Lunar.Year {
			continue
		}
		d, ld, err := anniversaryDate(e.Lunar, ly)
		if err != nil {
			continue
		}
		out = append(out, anniversaryOccurrence{Date: d, Lunar: ld, Years: ly - e.Lunar.Year})
	}
	return out
}

// anniversaryDate places origin's lunar month and day in lunar year ly.
// A leap-month origin uses the regular month in years without that leap
// month, and day 30 falls on day 29 of a short month.
func anniversaryDate(origin lunar.LunarDate, ly int) (lunar.SolarDate, lunar.LunarDate, error) {
	leap := origin.Leap
	if leap {
		if _, err := lunar.LunarToSolar(ly, origin.Month, 1, true); err != nil {
			leap = false
		}
	}

	n, err := lunar.MonthLength(ly, origin.Month, leap)
	if err != nil {
		return lunar.SolarDate{}, lunar.LunarDate{}, err
	}
	day := min(origin.Day, n)

	d, err := lunar.LunarToSolar(ly, origin.Month, day, leap)
	if err != nil {
		return lunar.SolarDate{}, lunar.LunarDate{}, err
	}
	return d, lunar.LunarDate{Day: day, Month: origin.Month, Year: ly, Leap: leap}, nil
}

// nextOccurrence returns the first anniversary on or after today.
func nextOccurrence(origin lunar.LunarDate, currentLunarYear int, today lunar.SolarDate) (lunar.SolarDate, int) {
	first := max(currentLunarYear, origin.Year)
	for ly := first; ly <= first+1; ly++ {
		d, _, err := anniversaryDate(origin, ly)
		if err == nil && !d.Before(today) {
			return d, ly - origin.Year
		}
	}
	return lunar.SolarDate{}, 0
}

// cardName picks FN, then the structured name in Vietnamese order, then a fallback.
func cardName(card vcard.Card) string {
	if fn := strings.TrimSpace(card.PreferredValue(config.VCardFN)); fn != "" {
		return fn
	}
	if n := card.Name(); n != nil {
		parts := []string{n.FamilyName, n.AdditionalName, n.GivenName}
		var kept []string
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				kept = append(kept, p)
			}
		}
		if len(kept) > 0 {
			return strings.Join(kept, " ")
		}
	}
	return config.FallbackName
}

// parseDate handles various vCard date formats. Truncated dates report
// yearKnown false.
func parseDate(value string) (lunar.SolarDate, bool, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}

	// The calendar fields are taken as written, without zone conversion.
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return lunar.SolarDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, true, nil
		}
	}

	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			return lunar.SolarDate{Month: int(t.Month()), Day: t.Day()}, false, nil
		}
	}

	return lunar.SolarDate{}, false, errors.New(config.ErrDateParse)
}
