// Package almanac derives the traditional attributes of a date: zodiac
// animal, stem-branch (Can-Chi) names of years and days, auspicious hours and
// the Western zodiac sign. Every function is pure.
package almanac

import "github.com/tartampluch/go-amlich/internal/lunar"

// Stems are the ten heavenly stems (Thiên Can).
var Stems = [10]string{"Giáp", "Ất", "Bính", "Đinh", "Mậu", "Kỷ", "Canh", "Tân", "Nhâm", "Quý"}

// Branches are the twelve earthly branches (Địa Chi). The zodiac animal of a
// year is named by its branch.
var Branches = [12]string{"Tý", "Sửu", "Dần", "Mão", "Thìn", "Tỵ", "Ngọ", "Mùi", "Thân", "Dậu", "Tuất", "Hợi"}

// BranchSlugs are ASCII identifiers for Branches, used in URLs and message IDs.
var BranchSlugs = [12]string{"ty", "suu", "dan", "mao", "thin", "ti", "ngo", "mui", "than", "dau", "tuat", "hoi"}

// AnimalsEN are the English zodiac animals, index-aligned with Branches.
var AnimalsEN = [12]string{"Rat", "Ox", "Tiger", "Rabbit", "Dragon", "Snake", "Horse", "Goat", "Monkey", "Rooster", "Dog", "Pig"}

// CanChi is a stem-branch pair.
type CanChi struct {
	Stem   string `json:"stem"`
	Branch string `json:"branch"`
	Label  string `json:"label"`
}

func newCanChi(stem, branch int) CanChi {
	s, b := Stems[stem], Branches[branch]
	return CanChi{Stem: s, Branch: b, Label: s + " " + b}
}

// yearBranchIndex anchors the cycle at year 4, a Tý (Rat) year.
func yearBranchIndex(lunarYear int) int {
	return mod(lunarYear-4, 12)
}

// ZodiacAnimal returns the zodiac animal (branch) of a lunar year.
func ZodiacAnimal(lunarYear int) string {
	return Branches[yearBranchIndex(lunarYear)]
}

// ZodiacIndex returns the position of the year's animal in Branches.
func ZodiacIndex(lunarYear int) int {
	return yearBranchIndex(lunarYear)
}

// YearCanChi returns the stem-branch name of a lunar year, e.g. "Giáp Thìn"
// for 2024.
func YearCanChi(lunarYear int) CanChi {
	return newCanChi(mod(lunarYear+6, 10), yearBranchIndex(lunarYear))
}

// DayCanChi returns the stem-branch name of a solar day.
func DayCanChi(d lunar.SolarDate) CanChi {
	jd := d.JDN()
	return newCanChi(mod(jd+9, 10), mod(jd+1, 12))
}

// BranchIndex returns the position of branch in Branches, or -1.
func BranchIndex(branch string) int {
	for i, b := range Branches {
		if b == branch {
			return i
		}
	}
	return -1
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
