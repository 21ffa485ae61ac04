// Package locale renders calendar labels in Vietnamese or English.
package locale

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/tartampluch/go-amlich/internal/almanac"
	"github.com/tartampluch/go-amlich/internal/config"
	"github.com/tartampluch/go-amlich/internal/holiday"
	"github.com/tartampluch/go-amlich/internal/lunar"
)

//go:embed locales/*.json
var localeFS embed.FS

const langVI = "vi"

// loadBundle parses every embedded active.<lang>.json once.
var loadBundle = sync.OnceValues(func() (*i18n.Bundle, []string) {
	bundle := i18n.NewBundle(language.Make(config.DefaultLanguage))
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return bundle, nil
	}

	var langs []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		code := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if code == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, code,
		)
		langs = append(langs, code)
	}

	// The default language leads so the matcher falls back to it.
	slices.SortFunc(langs, func(a, b string) int {
		switch {
		case a == config.DefaultLanguage:
			return -1
		case b == config.DefaultLanguage:
			return 1
		}
		return strings.Compare(a, b)
	})
	return bundle, langs
})

// Supported lists the languages with a loaded message file, default first.
func Supported() []string {
	_, langs := loadBundle()
	return slices.Clone(langs)
}

// Translator renders messages for one language. It is safe for concurrent use.
type Translator struct {
	lang      string
	localizer *i18n.Localizer
}

// New returns a Translator for the best supported match of prefs. Each
// preference may be a bare code ("en") or an Accept-Language header value.
// Unknown or empty preferences select the default language.
func New(prefs ...string) *Translator {
	bundle, langs := loadBundle()
	lang := match(langs, prefs)
	return &Translator{lang: lang, localizer: i18n.NewLocalizer(bundle, lang)}
}

func match(supported, prefs []string) string {
	if len(supported) == 0 {
		return config.DefaultLanguage
	}

	var want []language.Tag
	for _, p := range prefs {
		if strings.TrimSpace(p) == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		want = append(want, tags...)
	}
	if len(want) == 0 {
		return supported[0]
	}

	tags := make([]language.Tag, len(supported))
	for i, s := range supported {
		tags[i] = language.Make(s)
	}
	_, idx, conf := language.NewMatcher(tags).Match(want...)
	if conf == language.No {
		return supported[0]
	}
	return supported[idx]
}

// Lang returns the selected language code.
func (t *Translator) Lang() string { return t.lang }

// Supported lists the languages the Translator can switch to.
func (t *Translator) Supported() []string { return Supported() }

// Msg translates a key. A missing key is returned unchanged.
func (t *Translator) Msg(key string) string {
	return t.localize(&i18n.LocalizeConfig{MessageID: key})
}

// MsgData translates a templated key.
func (t *Translator) MsgData(key string, data map[string]any) string {
	return t.localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data})
}

// Plural translates a key with plural forms selected by count.
func (t *Translator) Plural(key string, count int, data map[string]any) string {
	return t.localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data, PluralCount: count})
}

func (t *Translator) localize(lc *i18n.LocalizeConfig) string {
	msg, err := t.localizer.Localize(lc)
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, lc.MessageID,
			config.LogKeyLang, t.lang,
			config.LogKeyError, err,
		)
		return lc.MessageID
	}
	return msg
}

// FormatLunarDate renders the verbose form, e.g.
// "Ngày Mùng Một (1) tháng Tháng Một (1) năm Giáp Thìn (2024)".
func (t *Translator) FormatLunarDate(d lunar.LunarDate) string {
	leap := ""
	if d.Leap {
		leap = t.Msg(config.TKeyFmtLeap)
	}
	return t.MsgData(config.TKeyFmtLunarDate, map[string]any{
		"Day":       d.Day,
		"DayName":   almanac.LunarDayName(d.Day),
		"Month":     d.Month,
		"MonthName": almanac.LunarMonthName(d.Month),
		"Leap":      leap,
		"Year":      d.Year,
		"CanChi":    almanac.YearCanChi(d.Year).Label,
	})
}

// AnimalName returns the zodiac animal of a branch in the selected language.
func (t *Translator) AnimalName(branch string) string {
	if t.lang == langVI {
		return branch
	}
	if i := almanac.BranchIndex(branch); i >= 0 {
		return almanac.AnimalsEN[i]
	}
	return branch
}

// HourLabel renders "Tý (23:00-01:00)" in Vietnamese and "Rat (11pm-1am)"
// in English.
func (t *Translator) HourLabel(h almanac.HourBlock) string {
	start, end := h.Start, h.End
	if t.lang != langVI {
		start, end = clock12(h.StartHour), clock12(h.EndHour)
	}
	return t.MsgData(config.TKeyFmtHour, map[string]any{
		"Name":  t.AnimalName(h.Branch),
		"Start": start,
		"End":   end,
	})
}

// HourLabels renders a list of hour blocks.
func (t *Translator) HourLabels(hs []almanac.HourBlock) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = t.HourLabel(h)
	}
	return out
}

// SignName returns the Western sign name in the selected language.
func (t *Translator) SignName(s almanac.WesternZodiacSign) string {
	if t.lang == langVI {
		return s.Name
	}
	return s.English
}

// HolidayName returns the holiday name in the selected language.
func (t *Translator) HolidayName(h holiday.Holiday) string {
	if t.lang == langVI || h.NameEN == "" {
		return h.NameVI
	}
	return h.NameEN
}

func clock12(h int) string {
	switch {
	case h == 0:
		return "12am"
	case h == 12:
		return "12pm"
	case h < 12:
		return fmt.Sprintf("%dam", h)
	default:
		return fmt.Sprintf("%dpm", h-12)
	}
}
