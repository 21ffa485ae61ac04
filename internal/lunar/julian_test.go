package lunar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSolarToJDN(t *testing.T) {
	tests := []struct {
		name             string
		day, month, year int
		want             int
	}{
		{"J2000 epoch", 1, 1, 2000, 2451545},
		{"Lunation zero reference", 1, 1, 1900, 2415021},
		{"Gregorian reform", 15, 10, 1582, 2299161},
		{"Unix epoch", 1, 1, 1970, 2440588},
		{"Tet 2024", 10, 2, 2024, 2460351},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SolarToJDN(tt.day, tt.month, tt.year))
		})
	}
}

func TestJDNRoundTrip(t *testing.T) {
	// Covers negative years, where truncating division would break the inverse.
	start := SolarToJDN(1, 1, -200)
	end := SolarToJDN(31, 12, 2200)

	for jdn := start; jdn <= end; jdn += 7 {
		d := JDNToSolar(jdn)
		if !assert.Equal(t, jdn, SolarToJDN(d.Day, d.Month, d.Year), "date %v", d) {
			return
		}
	}
}

func TestJDNToSolar_ConsecutiveDays(t *testing.T) {
	prev := JDNToSolar(SolarToJDN(28, 2, 2024))
	assert.Equal(t, SolarDate{Year: 2024, Month: 2, Day: 28}, prev)
	assert.Equal(t, SolarDate{Year: 2024, Month: 2, Day: 29}, JDNToSolar(prev.JDN()+1))
	assert.Equal(t, SolarDate{Year: 2024, Month: 3, Day: 1}, JDNToSolar(prev.JDN()+2))
}

func TestFloorDiv(t *testing.T) {
	tests := []struct {
		a, b, div, mod int
	}{
		{7, 2, 3, 1},
		{-7, 2, -4, 1},
		{7, -2, -4, -1},
		{-8, 2, -4, 0},
		{0, 5, 0, 0},
		{-1, 12, -1, 11},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.div, floorDiv(tt.a, tt.b), "floorDiv(%d, %d)", tt.a, tt.b)
		assert.Equal(t, tt.mod, floorMod(tt.a, tt.b), "floorMod(%d, %d)", tt.a, tt.b)
	}
}
