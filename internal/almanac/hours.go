package almanac

import (
	"fmt"
	"slices"

	"github.com/tartampluch/go-amlich/internal/lunar"
)

// goodHours lists, per day branch, the six auspicious (hoàng đạo) hour
// branches. Days six branches apart share a row.
var goodHours = map[string][]string{
	"Tý":   {"Dần", "Mão", "Thìn", "Tỵ", "Thân", "Dậu"},
	"Ngọ":  {"Dần", "Mão", "Thìn", "Tỵ", "Thân", "Dậu"},
	"Sửu":  {"Tý", "Dần", "Mão", "Ngọ", "Thân", "Tuất"},
	"Mùi":  {"Tý", "Dần", "Mão", "Ngọ", "Thân", "Tuất"},
	"Dần":  {"Tý", "Sửu", "Thìn", "Tỵ", "Mùi", "Tuất"},
	"Thân": {"Tý", "Sửu", "Thìn", "Tỵ", "Mùi", "Tuất"},
	"Mão":  {"Tý", "Dần", "Mão", "Ngọ", "Mùi", "Dậu"},
	"Dậu":  {"Tý", "Dần", "Mão", "Ngọ", "Mùi", "Dậu"},
	"Thìn": {"Sửu", "Dần", "Thìn", "Ngọ", "Thân", "Dậu"},
	"Tuất": {"Sửu", "Dần", "Thìn", "Ngọ", "Thân", "Dậu"},
	"Tỵ":   {"Dần", "Thìn", "Tỵ", "Thân", "Dậu", "Hợi"},
	"Hợi":  {"Dần", "Thìn", "Tỵ", "Thân", "Dậu", "Hợi"},
}

// HourBlock is one of the twelve two-hour periods of the day. The Tý block
// wraps midnight, so its StartHour is 23 and EndHour is 1.
type HourBlock struct {
	Branch    string `json:"branch"`
	Start     string `json:"start"`
	End       string `json:"end"`
	StartHour int    `json:"-"`
	EndHour   int    `json:"-"`
}

// HourSet partitions the twelve hour blocks of a day.
type HourSet struct {
	DayBranch string      `json:"dayBranch"`
	Good      []HourBlock `json:"good"`
	Bad       []HourBlock `json:"bad"`
}

// Hour returns the block named by branch. ok is false for unknown branches.
func Hour(branch string) (HourBlock, bool) {
	i := BranchIndex(branch)
	if i < 0 {
		return HourBlock{}, false
	}
	start := mod(2*i-1, 24)
	end := mod(2*i+1, 24)
	return HourBlock{
		Branch:    branch,
		Start:     fmt.Sprintf("%02d:00", start),
		End:       fmt.Sprintf("%02d:00", end),
		StartHour: start,
		EndHour:   end,
	}, true
}

// AuspiciousHours returns the good hours of d in table order and the
// remaining six in branch order.
func AuspiciousHours(d lunar.SolarDate) HourSet {
	dayBranch := DayCanChi(d).Branch
	good := goodHours[dayBranch]

	set := HourSet{
		DayBranch: dayBranch,
		Good:      make([]HourBlock, 0, len(good)),
		Bad:       make([]HourBlock, 0, len(Branches)-len(good)),
	}
	for _, b := range good {
		h, _ := Hour(b)
		set.Good = append(set.Good, h)
	}
	for _, b := range Branches {
		if slices.Contains(good, b) {
			continue
		}
		h, _ := Hour(b)
		set.Bad = append(set.Bad, h)
	}
	return set
}
