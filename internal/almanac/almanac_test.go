package almanac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tartampluch/go-amlich/internal/almanac"
	"github.com/tartampluch/go-amlich/internal/lunar"
)

func TestZodiacAnimal(t *testing.T) {
	tests := []struct {
		year int
		want string
	}{
		{1900, "Tý"},
		{1984, "Tý"},
		{2000, "Thìn"},
		{2020, "Tý"},
		{2023, "Mão"},
		{2024, "Thìn"},
		{2025, "Tỵ"},
		{2026, "Ngọ"},
		{4, "Tý"},
		{-8, "Tý"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, almanac.ZodiacAnimal(tt.year), "year %d", tt.year)
	}
}

func TestZodiacAnimal_Cycle(t *testing.T) {
	for y := 1900; y <= 2100; y++ {
		assert.Equal(t, almanac.ZodiacAnimal(y), almanac.ZodiacAnimal(y+12))
		assert.NotEqual(t, almanac.ZodiacAnimal(y), almanac.ZodiacAnimal(y+1))
	}
}

func TestYearCanChi(t *testing.T) {
	tests := []struct {
		year int
		want string
	}{
		{1984, "Giáp Tý"},
		{2020, "Canh Tý"},
		{2023, "Quý Mão"},
		{2024, "Giáp Thìn"},
		{2025, "Ất Tỵ"},
		{1900, "Canh Tý"},
	}

	for _, tt := range tests {
		got := almanac.YearCanChi(tt.year)
		assert.Equal(t, tt.want, got.Label, "year %d", tt.year)
		assert.Equal(t, almanac.ZodiacAnimal(tt.year), got.Branch)
	}
}

func TestDayCanChi(t *testing.T) {
	tests := []struct {
		date lunar.SolarDate
		want string
	}{
		{lunar.SolarDate{Year: 2000, Month: 1, Day: 1}, "Mậu Ngọ"},
		{lunar.SolarDate{Year: 2024, Month: 2, Day: 10}, "Giáp Thìn"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, almanac.DayCanChi(tt.date).Label, tt.date.String())
	}
}

func TestDayCanChi_SixtyDayCycle(t *testing.T) {
	start := lunar.SolarDate{Year: 2024, Month: 1, Day: 1}
	seen := make(map[string]bool)
	for i := 0; i < 60; i++ {
		d := start.AddDays(i)
		cc := almanac.DayCanChi(d)
		assert.Equal(t, cc, almanac.DayCanChi(d.AddDays(60)))
		seen[cc.Label] = true
	}
	assert.Len(t, seen, 60)
}

func TestAuspiciousHours(t *testing.T) {
	set := almanac.AuspiciousHours(lunar.SolarDate{Year: 2024, Month: 2, Day: 10})
	assert.Equal(t, "Thìn", set.DayBranch)

	branches := func(hs []almanac.HourBlock) []string {
		out := make([]string, len(hs))
		for i, h := range hs {
			out[i] = h.Branch
		}
		return out
	}
	assert.Equal(t, []string{"Sửu", "Dần", "Thìn", "Ngọ", "Thân", "Dậu"}, branches(set.Good))
	assert.Equal(t, []string{"Tý", "Mão", "Tỵ", "Mùi", "Tuất", "Hợi"}, branches(set.Bad))
}

func TestAuspiciousHours_PartitionEveryBranch(t *testing.T) {
	start := lunar.SolarDate{Year: 2025, Month: 1, Day: 1}
	for i := 0; i < 12; i++ {
		set := almanac.AuspiciousHours(start.AddDays(i))
		require.Len(t, set.Good, 6, set.DayBranch)
		require.Len(t, set.Bad, 6, set.DayBranch)

		all := make(map[string]bool)
		for _, h := range append(set.Good, set.Bad...) {
			all[h.Branch] = true
		}
		assert.Len(t, all, 12, set.DayBranch)
	}
}

func TestHour(t *testing.T) {
	h, ok := almanac.Hour("Tý")
	require.True(t, ok)
	assert.Equal(t, "23:00", h.Start)
	assert.Equal(t, "01:00", h.End)
	assert.Equal(t, 23, h.StartHour)

	h, ok = almanac.Hour("Hợi")
	require.True(t, ok)
	assert.Equal(t, "21:00", h.Start)
	assert.Equal(t, "23:00", h.End)

	_, ok = almanac.Hour("Rat")
	assert.False(t, ok)
}

func TestZodiacSign(t *testing.T) {
	tests := []struct {
		month, day int
		want       string
	}{
		{1, 10, "Capricorn"},
		{1, 19, "Capricorn"},
		{1, 20, "Aquarius"},
		{2, 29, "Pisces"},
		{3, 20, "Pisces"},
		{3, 21, "Aries"},
		{7, 22, "Cancer"},
		{7, 23, "Leo"},
		{12, 21, "Sagittarius"},
		{12, 22, "Capricorn"},
		{12, 31, "Capricorn"},
	}

	for _, tt := range tests {
		got := almanac.ZodiacSign(lunar.SolarDate{Year: 2024, Month: tt.month, Day: tt.day})
		assert.Equal(t, tt.want, got.English, "%d/%d", tt.month, tt.day)
	}
}

func TestZodiacSign_CoversYear(t *testing.T) {
	d := lunar.SolarDate{Year: 2024, Month: 1, Day: 1}
	for i := 0; i < 366; i++ {
		day := d.AddDays(i)
		md := almanac.MonthDay{Month: day.Month, Day: day.Day}

		matches := 0
		for _, s := range almanac.Signs {
			if s.Contains(md) {
				matches++
			}
		}
		assert.Equal(t, 1, matches, day.String())
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, "Tháng Một", almanac.LunarMonthName(1))
	assert.Equal(t, "Tháng Mười Hai", almanac.LunarMonthName(12))
	assert.Empty(t, almanac.LunarMonthName(13))

	assert.Equal(t, "Mùng Một", almanac.LunarDayName(1))
	assert.Equal(t, "Mười Lăm", almanac.LunarDayName(15))
	assert.Equal(t, "Hai Mươi Mốt", almanac.LunarDayName(21))
	assert.Equal(t, "Ba Mươi", almanac.LunarDayName(30))
	assert.Empty(t, almanac.LunarDayName(0))
}

func TestAnimalTrait(t *testing.T) {
	info, ok := almanac.AnimalTrait("Dần")
	require.True(t, ok)
	assert.Equal(t, "Gỗ", info.Element)
	assert.Equal(t, "Tiger", info.English)

	_, ok = almanac.AnimalTrait("Cat")
	assert.False(t, ok)

	assert.Equal(t, "Dragon", almanac.YearAnimal(2024).English)
}

func TestDescribe(t *testing.T) {
	d := lunar.SolarDate{Year: 2024, Month: 2, Day: 10}
	info := almanac.Describe(lunar.Uncached{}, d)

	assert.Equal(t, lunar.LunarDate{Day: 1, Month: 1, Year: 2024}, info.Lunar)
	assert.Equal(t, "Mùng Một", info.DayName)
	assert.Equal(t, "Tháng Một", info.MonthName)
	assert.Equal(t, "Giáp Thìn", info.YearCanChi.Label)
	assert.Equal(t, "Giáp Thìn", info.DayCanChi.Label)
	assert.Equal(t, "Thìn", info.Animal.Animal)
	assert.Equal(t, "Aquarius", info.Sign.English)
	assert.Len(t, info.Hours.Good, 6)

	cached := almanac.Describe(lunar.NewDefaultConverter(), d)
	assert.Equal(t, info, cached)
}
