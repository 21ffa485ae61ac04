package locale_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tartampluch/go-amlich/internal/almanac"
	"github.com/tartampluch/go-amlich/internal/config"
	"github.com/tartampluch/go-amlich/internal/holiday"
	"github.com/tartampluch/go-amlich/internal/locale"
	"github.com/tartampluch/go-amlich/internal/lunar"
)

var allKeys = []string{
	config.TKeyEvtBirthday,
	config.TKeyEvtBirthdayAge,
	config.TKeyEvtAnniversary,
	config.TKeyEvtAnnivYears,
	config.TKeyEvtNewMoon,
	config.TKeyEvtFullMoon,
	config.TKeyEvtTodayCount,
	config.TKeyEvtTodayZero,
	config.TKeyFmtLunarDate,
	config.TKeyFmtLeap,
	config.TKeyFmtHour,
	config.TKeyLblGoodHours,
	config.TKeyLblBadHours,
	config.TKeyLblLunar,
	config.TKeyLblSolar,
	config.TKeyLblCanChiYear,
	config.TKeyLblCanChiDay,
	config.TKeyLblAnimal,
	config.TKeyLblSign,
	config.TKeyErrInvalidDate,
	config.TKeyErrInvalidLunar,
	config.TKeyErrMissingParam,
}

// TestI18nIntegrity ensures that every translation key defined in config.go
// exists in each locale file and that no file carries orphan keys.
func TestI18nIntegrity(t *testing.T) {
	defined := make(map[string]bool, len(allKeys))
	for _, k := range allKeys {
		defined[k] = true
	}

	for _, lang := range config.SupportedLanguages {
		t.Run(lang, func(t *testing.T) {
			content, err := os.ReadFile(filepath.Join("locales", "active."+lang+".json"))
			require.NoError(t, err, "Must load active.%s.json", lang)

			var jsonMap map[string]any
			require.NoError(t, json.Unmarshal(content, &jsonMap), "JSON must be valid")

			for key := range defined {
				_, exists := jsonMap[key]
				assert.Truef(t, exists, "Key '%s' defined in config.go is missing in active.%s.json", key, lang)
			}
			for key := range jsonMap {
				if strings.HasPrefix(key, "_") {
					continue
				}
				assert.Truef(t, defined[key], "Key '%s' in active.%s.json is not defined in config.go", key, lang)
			}
		})
	}
}

func TestSupported(t *testing.T) {
	langs := locale.Supported()
	require.NotEmpty(t, langs)
	assert.Equal(t, config.DefaultLanguage, langs[0])
	assert.ElementsMatch(t, config.SupportedLanguages, langs)
}

func TestNew_Match(t *testing.T) {
	tests := []struct {
		prefs []string
		want  string
	}{
		{nil, "vi"},
		{[]string{""}, "vi"},
		{[]string{"en"}, "en"},
		{[]string{"vi"}, "vi"},
		{[]string{"en-US,en;q=0.9"}, "en"},
		{[]string{"fr"}, "vi"},
		{[]string{"", "en"}, "en"},
		{[]string{"not a tag !!"}, "vi"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, locale.New(tt.prefs...).Lang(), "%v", tt.prefs)
	}
}

func TestMsg(t *testing.T) {
	vi := locale.New("vi")
	en := locale.New("en")

	assert.Equal(t, "Giờ hoàng đạo", vi.Msg(config.TKeyLblGoodHours))
	assert.Equal(t, "Auspicious hours", en.Msg(config.TKeyLblGoodHours))
	assert.Equal(t, "no_such_key", en.Msg("no_such_key"))

	assert.Equal(t, "Rằm tháng 8", vi.MsgData(config.TKeyEvtFullMoon, map[string]any{"Month": 8}))
	assert.Equal(t, "Missing parameter date", en.MsgData(config.TKeyErrMissingParam, map[string]any{"Name": "date"}))
}

func TestPlural(t *testing.T) {
	en := locale.New("en")
	assert.Equal(t, "1 lunar event today", en.Plural(config.TKeyEvtTodayCount, 1, map[string]any{"Count": 1}))
	assert.Equal(t, "3 lunar events today", en.Plural(config.TKeyEvtTodayCount, 3, map[string]any{"Count": 3}))

	vi := locale.New("vi")
	assert.Equal(t, "3 sự kiện âm lịch hôm nay", vi.Plural(config.TKeyEvtTodayCount, 3, map[string]any{"Count": 3}))

	got := en.Plural(config.TKeyEvtAnnivYears, 10, map[string]any{"Name": "Lan & Minh", "Years": 10})
	assert.Equal(t, "Lunar anniversary: Lan & Minh (10 years)", got)
}

func TestFormatLunarDate(t *testing.T) {
	d := lunar.LunarDate{Day: 1, Month: 1, Year: 2024}
	assert.Equal(t, "Ngày Mùng Một (1) tháng Tháng Một (1) năm Giáp Thìn (2024)", locale.New("vi").FormatLunarDate(d))
	assert.Equal(t, "Day Mùng Một (1), month Tháng Một (1), lunar year Giáp Thìn (2024)", locale.New("en").FormatLunarDate(d))

	leap := lunar.LunarDate{Day: 15, Month: 2, Year: 2023, Leap: true}
	assert.Equal(t, "Ngày Mười Lăm (15) tháng Tháng Hai (2) (nhuận) năm Quý Mão (2023)", locale.New("vi").FormatLunarDate(leap))
}

func TestHourLabel(t *testing.T) {
	ty, ok := almanac.Hour("Tý")
	require.True(t, ok)
	ngo, ok := almanac.Hour("Ngọ")
	require.True(t, ok)

	assert.Equal(t, "Tý (23:00-01:00)", locale.New("vi").HourLabel(ty))
	assert.Equal(t, "Rat (11pm-1am)", locale.New("en").HourLabel(ty))
	assert.Equal(t, "Horse (11am-1pm)", locale.New("en").HourLabel(ngo))

	labels := locale.New("en").HourLabels([]almanac.HourBlock{ty, ngo})
	assert.Equal(t, []string{"Rat (11pm-1am)", "Horse (11am-1pm)"}, labels)
}

func TestNames(t *testing.T) {
	sign := almanac.ZodiacSign(lunar.SolarDate{Year: 2024, Month: 3, Day: 25})
	assert.Equal(t, "Bạch Dương", locale.New("vi").SignName(sign))
	assert.Equal(t, "Aries", locale.New("en").SignName(sign))

	h := holiday.Defaults()[0]
	assert.Equal(t, h.NameVI, locale.New("vi").HolidayName(h))
	assert.Equal(t, h.NameEN, locale.New("en").HolidayName(h))

	assert.Equal(t, "Dragon", locale.New("en").AnimalName("Thìn"))
	assert.Equal(t, "Thìn", locale.New("vi").AnimalName("Thìn"))
	assert.Equal(t, "?", locale.New("en").AnimalName("?"))
}
