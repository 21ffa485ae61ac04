package almanac

import (
	"fmt"

	"github.com/tartampluch/go-amlich/internal/lunar"
)

// MonthDay is a month and day without a year.
type MonthDay struct {
	Month int `json:"month"`
	Day   int `json:"day"`
}

func (md MonthDay) ordinal() int { return md.Month*100 + md.Day }

// String formats the value as m/d.
func (md MonthDay) String() string {
	return fmt.Sprintf("%d/%d", md.Month, md.Day)
}

// WesternZodiacSign is a tropical zodiac sign and its inclusive date range.
type WesternZodiacSign struct {
	Name    string   `json:"name"`
	English string   `json:"english"`
	Start   MonthDay `json:"start"`
	End     MonthDay `json:"end"`
	Element string   `json:"element"`
	Traits  string   `json:"traits"`
}

// Contains reports whether the month/day falls inside the sign. Ranges with
// Start after End wrap the new year.
func (s WesternZodiacSign) Contains(md MonthDay) bool {
	v, lo, hi := md.ordinal(), s.Start.ordinal(), s.End.ordinal()
	if lo <= hi {
		return v >= lo && v <= hi
	}
	return v >= lo || v <= hi
}

// Signs is the sign table, starting at the vernal equinox.
var Signs = []WesternZodiacSign{
	{"Bạch Dương", "Aries", MonthDay{3, 21}, MonthDay{4, 19}, "Lửa", "Táo bạo, năng động"},
	{"Kim Ngưu", "Taurus", MonthDay{4, 20}, MonthDay{5, 20}, "Đất", "Vững chắc, trung thực"},
	{"Song Tử", "Gemini", MonthDay{5, 21}, MonthDay{6, 20}, "Không khí", "Thông minh, linh hoạt"},
	{"Cự Giải", "Cancer", MonthDay{6, 21}, MonthDay{7, 22}, "Nước", "Nhạy cảm, chân thành"},
	{"Sư Tử", "Leo", MonthDay{7, 23}, MonthDay{8, 22}, "Lửa", "Tự tin, lãnh đạo"},
	{"Xử Nữ", "Virgo", MonthDay{8, 23}, MonthDay{9, 22}, "Đất", "Cẩn thận, chi tiết"},
	{"Thiên Bình", "Libra", MonthDay{9, 23}, MonthDay{10, 22}, "Không khí", "Cân bằng, công bằng"},
	{"Bọ Cạp", "Scorpio", MonthDay{10, 23}, MonthDay{11, 21}, "Nước", "Sâu sắc, bí ẩn"},
	{"Nhân Mã", "Sagittarius", MonthDay{11, 22}, MonthDay{12, 21}, "Lửa", "Lạc quan, tự do"},
	{"Ma Kết", "Capricorn", MonthDay{12, 22}, MonthDay{1, 19}, "Đất", "Kỷ luật, trách nhiệm"},
	{"Bảo Bình", "Aquarius", MonthDay{1, 20}, MonthDay{2, 18}, "Không khí", "Độc lập, sáng tạo"},
	{"Song Cá", "Pisces", MonthDay{2, 19}, MonthDay{3, 20}, "Nước", "Mơ mộng, giàu lòng trắc ẩn"},
}

// ZodiacSign returns the Western zodiac sign of d.
func ZodiacSign(d lunar.SolarDate) WesternZodiacSign {
	md := MonthDay{Month: d.Month, Day: d.Day}
	for _, s := range Signs {
		if s.Contains(md) {
			return s
		}
	}
	// Unreachable for valid dates: the table covers the whole year.
	return WesternZodiacSign{}
}
