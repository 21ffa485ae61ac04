package almanac

var monthNames = [13]string{
	"",
	"Tháng Một", "Tháng Hai", "Tháng Ba", "Tháng Tư", "Tháng Năm", "Tháng Sáu",
	"Tháng Bảy", "Tháng Tám", "Tháng Chín", "Tháng Mười", "Tháng Mười Một", "Tháng Mười Hai",
}

var dayNames = [31]string{
	"",
	"Mùng Một", "Mùng Hai", "Mùng Ba", "Mùng Bốn", "Mùng Năm",
	"Mùng Sáu", "Mùng Bảy", "Mùng Tám", "Mùng Chín", "Mùng Mười",
	"Mười Một", "Mười Hai", "Mười Ba", "Mười Bốn", "Mười Lăm",
	"Mười Sáu", "Mười Bảy", "Mười Tám", "Mười Chín", "Hai Mươi",
	"Hai Mươi Mốt", "Hai Mươi Hai", "Hai Mươi Ba", "Hai Mươi Bốn", "Hai Mươi Lăm",
	"Hai Mươi Sáu", "Hai Mươi Bảy", "Hai Mươi Tám", "Hai Mươi Chín", "Ba Mươi",
}

// LunarMonthName returns the Vietnamese name of a lunar month, or "" when
// month is outside 1..12.
func LunarMonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month]
}

// LunarDayName returns the Vietnamese name of a lunar day, or "" when day is
// outside 1..30.
func LunarDayName(day int) string {
	if day < 1 || day > 30 {
		return ""
	}
	return dayNames[day]
}

// AnimalInfo is the traditional element and temperament of a zodiac animal.
type AnimalInfo struct {
	Animal      string `json:"animal"`
	English     string `json:"english"`
	Element     string `json:"element"`
	Personality string `json:"personality"`
}

var animalTraits = [12][2]string{
	{"Nước", "Thông minh, táo bạo"},
	{"Đất", "Kiên nhẫn, chăm chỉ"},
	{"Gỗ", "Dũng cảm, lãnh đạo"},
	{"Gỗ", "Hiền lành, thích hòa hợp"},
	{"Đất", "Quyết đoán, tự tin"},
	{"Lửa", "Khôn ngoan, bình tĩnh"},
	{"Lửa", "Năng động, vui vẻ"},
	{"Đất", "Tốt bụng, cẩn thận"},
	{"Kim", "Thông minh, hài hước"},
	{"Kim", "Trung thực, siêng năng"},
	{"Đất", "Trung thành, tin cậy"},
	{"Nước", "Hòa nhân, tốt bụng"},
}

// AnimalTrait returns the traits of animal, a member of Branches.
func AnimalTrait(animal string) (AnimalInfo, bool) {
	i := BranchIndex(animal)
	if i < 0 {
		return AnimalInfo{}, false
	}
	return AnimalInfo{
		Animal:      animal,
		English:     AnimalsEN[i],
		Element:     animalTraits[i][0],
		Personality: animalTraits[i][1],
	}, true
}

// YearAnimal returns the traits of a lunar year's animal.
func YearAnimal(lunarYear int) AnimalInfo {
	info, _ := AnimalTrait(ZodiacAnimal(lunarYear))
	return info
}
