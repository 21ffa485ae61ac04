package engine_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tartampluch/go-amlich/internal/config"
	"github.com/tartampluch/go-amlich/internal/engine"
	"github.com/tartampluch/go-amlich/internal/holiday"
	"github.com/tartampluch/go-amlich/internal/lunar"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockFetcher simulates the network layer for unit tests using `testify/mock`.
type MockFetcher struct {
	mock.Mock
}

// Fetch implements the engine.VCardFetcher interface.
func (m *MockFetcher) Fetch(ctx context.Context, src engine.Source) (io.ReadCloser, error) {
	args := m.Called(ctx, src)
	if r := args.Get(0); r != nil {
		return r.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

// tetMorning is 10:00 in Hanoi on Tết Giáp Thìn (1/1/2024).
var tetMorning = time.Date(2024, 2, 10, 10, 0, 0, 0, lunar.Location)

func webGenerator(t *testing.T, now time.Time, vcf string) (*engine.Generator, *MockFetcher) {
	t.Helper()
	f := new(MockFetcher)
	f.On("Fetch", mock.Anything, mock.Anything).
		Return(io.NopCloser(strings.NewReader(vcf)), nil)
	return &engine.Generator{Clock: MockClock{CurrentTime: now}, Fetcher: f}, f
}

func webConfig() engine.FeedConfig {
	return engine.FeedConfig{Mode: config.SourceModeWeb, WebURL: "http://dav.local/contacts"}
}

func dtstart(d lunar.SolarDate) string {
	return fmt.Sprintf("DTSTART;VALUE=DATE:%04d%02d%02d", d.Year, d.Month, d.Day)
}

func mustSolar(t *testing.T, year, month, day int, leap bool) lunar.SolarDate {
	t.Helper()
	d, err := lunar.LunarToSolar(year, month, day, leap)
	require.NoError(t, err)
	return d
}

// -----------------------------------------------------------------------------
// Test Cases
// -----------------------------------------------------------------------------

func TestRunSync_Local_Success(t *testing.T) {
	// Born on Tết Ất Sửu (1/1/1985); "now" is Tết Giáp Thìn.
	vcardContent := "BEGIN:VCARD\nVERSION:4.0\nFN:An\nBDAY:1985-01-21\nEND:VCARD"

	path := filepath.Join(t.TempDir(), "contacts.vcf")
	require.NoError(t, os.WriteFile(path, []byte(vcardContent), 0600))

	gen := &engine.Generator{Clock: MockClock{CurrentTime: tetMorning}}
	cfg := engine.FeedConfig{Mode: config.SourceModeLocal, LocalPath: path}

	icsData, entries, count, err := gen.RunSync(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "Should identify one lunar birthday today")

	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "An", e.Name)
	assert.Equal(t, engine.KindBirthday, e.Kind)
	assert.Equal(t, lunar.LunarDate{Day: 1, Month: 1, Year: 1985}, e.Lunar)
	assert.Equal(t, lunar.SolarDate{Year: 2024, Month: 2, Day: 10}, e.NextOccurrence)
	assert.Equal(t, 39, e.YearsNext)

	icsStr := string(icsData)
	assert.Contains(t, icsStr, "BEGIN:VCALENDAR")
	assert.Contains(t, icsStr, "X-WR-TIMEZONE:Asia/Ho_Chi_Minh")
	assert.Contains(t, icsStr, "SUMMARY:Sinh nhật âm lịch: An (39)")
	assert.Contains(t, icsStr, "CATEGORIES:BIRTHDAY")
	assert.Contains(t, icsStr, "DESCRIPTION:1/1/2024")
}

func TestRunSync_GeneratesLunarYearRange(t *testing.T) {
	// The same lunar day lands on three different solar dates.
	gen, f := webGenerator(t, tetMorning, "BEGIN:VCARD\nVERSION:3.0\nFN:Range\nBDAY:1985-01-21\nEND:VCARD")

	icsData, _, _, err := gen.RunSync(context.Background(), webConfig())
	require.NoError(t, err)

	icsStr := string(icsData)
	assert.Contains(t, icsStr, "DTSTART;VALUE=DATE:20230122", "Should include previous lunar year")
	assert.Contains(t, icsStr, "DTSTART;VALUE=DATE:20240210", "Should include current lunar year")
	assert.Contains(t, icsStr, "DTSTART;VALUE=DATE:20250129", "Should include next lunar year")
	assert.Equal(t, 3, strings.Count(icsStr, "BEGIN:VEVENT"))

	f.AssertExpectations(t)
}

func TestRunSync_PassesCredentials(t *testing.T) {
	f := new(MockFetcher)
	want := engine.Source{URL: "https://dav.example.com/book", User: "lan", Pass: "secret"}
	f.On("Fetch", mock.Anything, want).
		Return(io.NopCloser(strings.NewReader("")), nil)

	gen := &engine.Generator{Clock: MockClock{CurrentTime: tetMorning}, Fetcher: f}
	_, _, _, err := gen.RunSync(context.Background(), engine.FeedConfig{
		Mode: config.SourceModeWeb, WebURL: want.URL, WebUser: want.User, WebPass: want.Pass,
	})
	require.NoError(t, err)
	f.AssertExpectations(t)
}

func TestRunSync_LeapMonthBirthday(t *testing.T) {
	// 2023-03-22 is 1/2 of the leap second month of Quý Mão.
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, lunar.Location)
	gen, _ := webGenerator(t, now, "BEGIN:VCARD\nVERSION:3.0\nFN:Leap\nBDAY:2023-03-22\nEND:VCARD")

	icsData, entries, _, err := gen.RunSync(context.Background(), webConfig())
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, lunar.LunarDate{Day: 1, Month: 2, Year: 2023, Leap: true}, entries[0].Lunar)

	icsStr := string(icsData)
	// Birth itself, then the regular second month in years without that leap month.
	assert.Contains(t, icsStr, "DTSTART;VALUE=DATE:20230322")
	assert.Contains(t, icsStr, dtstart(mustSolar(t, 2024, 2, 1, false)))
	assert.Contains(t, icsStr, dtstart(mustSolar(t, 2025, 2, 1, false)))
	assert.Contains(t, icsStr, "DESCRIPTION:1/2/2023+")
	assert.Equal(t, 3, strings.Count(icsStr, "BEGIN:VEVENT"))
}

func TestRunSync_BabyBornThisLunarYear(t *testing.T) {
	// Born on Trung Thu 2024 (15/8/2024). "Now" is Tết of the same lunar year.
	f := new(MockFetcher)
	f.On("Fetch", mock.Anything, mock.Anything).
		Return(io.NopCloser(strings.NewReader("BEGIN:VCARD\nVERSION:3.0\nFN:Baby\nBDAY:2024-09-17\nEND:VCARD")), nil)

	gen := &engine.Generator{
		Clock:   MockClock{CurrentTime: tetMorning},
		Fetcher: f,
		FormatSummary: func(ev engine.EventInfo) string {
			if ev.Years == 0 {
				return fmt.Sprintf("Birthday: %s (Birth)", ev.Name)
			}
			return fmt.Sprintf("Birthday: %s (%d)", ev.Name, ev.Years)
		},
	}

	icsData, entries, _, err := gen.RunSync(context.Background(), webConfig())
	require.NoError(t, err)

	icsStr := string(icsData)
	assert.Contains(t, icsStr, "DTSTART;VALUE=DATE:20240917")
	assert.Contains(t, icsStr, "SUMMARY:Birthday: Baby (Birth)")
	assert.Contains(t, icsStr, dtstart(mustSolar(t, 2025, 8, 15, false)))
	assert.Contains(t, icsStr, "SUMMARY:Birthday: Baby (1)")
	assert.Equal(t, 2, strings.Count(icsStr, "BEGIN:VEVENT"), "No event before the lunar birth year")

	require.Len(t, entries, 1)
	assert.Equal(t, lunar.SolarDate{Year: 2024, Month: 9, Day: 17}, entries[0].NextOccurrence)
	assert.Equal(t, 0, entries[0].YearsNext)
}

func TestRunSync_Anniversary(t *testing.T) {
	vcf := "BEGIN:VCARD\nVERSION:4.0\nFN:Lan & Minh\nANNIVERSARY:20200125\nEND:VCARD"
	gen, _ := webGenerator(t, tetMorning, vcf)

	icsData, entries, count, err := gen.RunSync(context.Background(), webConfig())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.Len(t, entries, 1)
	assert.Equal(t, engine.KindAnniversary, entries[0].Kind)
	assert.Equal(t, 4, entries[0].YearsNext)

	icsStr := string(icsData)
	assert.Contains(t, icsStr, "CATEGORIES:ANNIVERSARY")
	assert.Contains(t, icsStr, "Kỷ niệm âm lịch: Lan & Minh (4)")
}

func TestRunSync_EntriesSortedByNextOccurrence(t *testing.T) {
	vcf := strings.Join([]string{
		"BEGIN:VCARD\nVERSION:3.0\nFN:Later\nBDAY:1990-09-04\nEND:VCARD",
		"BEGIN:VCARD\nVERSION:3.0\nFN:Today\nBDAY:1985-01-21\nEND:VCARD",
		"BEGIN:VCARD\nVERSION:3.0\nFN:Soon\nBDAY:2020-01-25\nEND:VCARD",
	}, "\n")
	gen, _ := webGenerator(t, tetMorning, vcf)

	_, entries, _, err := gen.RunSync(context.Background(), webConfig())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].NextOccurrence.Before(entries[i-1].NextOccurrence), "entries must be sorted")
	}
	// Today and Soon are both born on a Tết.
	assert.ElementsMatch(t, []string{"Today", "Soon"}, []string{entries[0].Name, entries[1].Name})
	assert.Equal(t, "Later", entries[2].Name)
}

func TestRunSync_StructuredName(t *testing.T) {
	gen, _ := webGenerator(t, tetMorning, "BEGIN:VCARD\nVERSION:3.0\nN:Nguyễn;An;Văn;;\nBDAY:1985-01-21\nEND:VCARD")

	_, entries, _, err := gen.RunSync(context.Background(), webConfig())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Nguyễn Văn An", entries[0].Name)
}

func TestRunSync_DateFormats_TableDriven(t *testing.T) {
	tests := []struct {
		name      string
		bdayValue string
		expectEvt bool
	}{
		{"ISO8601 Standard", "1990-10-25", true},
		{"Basic Format", "19901025", true},
		{"RFC3339", "1990-10-25T00:00:00Z", true},
		{"Truncated (Month-Day) has no lunar date", "--10-25", false},
		{"Truncated Basic has no lunar date", "--1025", false},
		{"Garbage Data", "not-a-date", false},
		{"Empty Date", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := "BEGIN:VCARD\nVERSION:3.0\nFN:Test\nBDAY:" + tt.bdayValue + "\nEND:VCARD"
			gen, _ := webGenerator(t, tetMorning, content)

			ics, entries, _, err := gen.RunSync(context.Background(), webConfig())
			require.NoError(t, err)

			icsStr := string(ics)
			if tt.expectEvt {
				assert.Contains(t, icsStr, "BEGIN:VEVENT", "Valid date should produce an event")
				assert.Len(t, entries, 1)
			} else {
				assert.NotContains(t, icsStr, "BEGIN:VEVENT", "Unusable date should be skipped silently")
				assert.Empty(t, entries)
			}
		})
	}
}

func TestRunSync_Holidays(t *testing.T) {
	defs := holiday.Defaults()
	gen := &engine.Generator{
		Clock:     MockClock{CurrentTime: tetMorning},
		Converter: lunar.NewDefaultConverter(),
		Holidays:  defs,
	}

	icsData, entries, count, err := gen.RunSync(context.Background(), engine.FeedConfig{Mode: config.SourceModeNone})
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, 1, count, "Tết is today")

	from := lunar.SolarDate{Year: 2023, Month: 1, Day: 1}
	to := lunar.SolarDate{Year: 2025, Month: 12, Day: 31}
	want := len(holiday.Between(from, to, defs))

	icsStr := string(icsData)
	assert.Equal(t, want, strings.Count(icsStr, "CATEGORIES:HOLIDAY"))
	assert.Contains(t, icsStr, "SUMMARY:Tết Nguyên Đán")
	assert.Contains(t, icsStr, "DTSTART;VALUE=DATE:20240917")
	assert.Contains(t, icsStr, "DTSTART;VALUE=DATE:20250128", "Giao Thừa falls on 29/12 in a short month")
}

func TestRunSync_MoonDays(t *testing.T) {
	gen := &engine.Generator{
		Clock:     MockClock{CurrentTime: tetMorning},
		Converter: lunar.NewDefaultConverter(),
	}

	icsData, _, count, err := gen.RunSync(context.Background(), engine.FeedConfig{IncludeMoonDays: true})
	require.NoError(t, err)
	assert.Equal(t, 1, count, "Mùng 1 Tết is today")

	icsStr := string(icsData)
	assert.Contains(t, icsStr, "DTSTART;VALUE=DATE:20240210")
	assert.Contains(t, icsStr, "DTSTART;VALUE=DATE:20240917")
	assert.Contains(t, icsStr, "SUMMARY:Rằm tháng 8")
	// Both the regular and the leap second month of 2023 start a moon cycle.
	assert.Contains(t, icsStr, "DTSTART;VALUE=DATE:20230220")
	assert.Contains(t, icsStr, "DTSTART;VALUE=DATE:20230322")
	assert.NotContains(t, icsStr, "BEGIN:VALARM", "Moon days carry no alarm")

	// About 37 lunar months over three solar years, two days each.
	n := strings.Count(icsStr, "CATEGORIES:MOON")
	assert.GreaterOrEqual(t, n, 72)
	assert.LessOrEqual(t, n, 76)
}

func TestRunSync_WithReminders(t *testing.T) {
	gen, _ := webGenerator(t, time.Date(2025, 6, 1, 0, 0, 0, 0, lunar.Location), "BEGIN:VCARD\nVERSION:3.0\nFN:Alarm Test\nBDAY:1990-01-01\nEND:VCARD")

	cfg := webConfig()
	cfg.ReminderTrigger = "-P1D"

	icsData, _, _, err := gen.RunSync(context.Background(), cfg)
	require.NoError(t, err)

	icsStr := string(icsData)
	assert.Contains(t, icsStr, "BEGIN:VALARM", "ICS should contain an alarm component")
	assert.Contains(t, icsStr, "TRIGGER:-P1D", "Alarm trigger should match configuration")
	assert.Contains(t, icsStr, "ACTION:DISPLAY", "Alarm action should be DISPLAY")
}

func TestRunSync_Deterministic(t *testing.T) {
	gen := &engine.Generator{
		Clock:    MockClock{CurrentTime: tetMorning},
		Holidays: holiday.Defaults(),
	}
	cfg := engine.FeedConfig{IncludeMoonDays: true}

	a, _, _, err := gen.RunSync(context.Background(), cfg)
	require.NoError(t, err)
	b, _, _, err := gen.RunSync(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, a, b, "UIDs and ordering must be stable across refreshes")
}

func TestRunSync_EmptyFeed(t *testing.T) {
	gen := &engine.Generator{Clock: MockClock{CurrentTime: tetMorning}}

	icsData, entries, count, err := gen.RunSync(context.Background(), engine.FeedConfig{Mode: config.SourceModeNone})
	require.NoError(t, err)
	assert.Equal(t, config.StubVCalendar, string(icsData))
	assert.Empty(t, entries)
	assert.Zero(t, count)
}

func TestRunSync_Web_NetworkError(t *testing.T) {
	mockFetcher := new(MockFetcher)
	expectedErr := errors.New("network unreachable")

	mockFetcher.On("Fetch", mock.Anything, mock.Anything).Return(nil, expectedErr)

	gen := &engine.Generator{
		Clock:   MockClock{CurrentTime: time.Now()},
		Fetcher: mockFetcher,
	}

	icsData, entries, count, err := gen.RunSync(context.Background(), webConfig())

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Contains(t, err.Error(), config.ErrVCardParse)
	assert.Nil(t, icsData)
	assert.Nil(t, entries)
	assert.Equal(t, 0, count)
}

func TestRunSync_ConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		gen     *engine.Generator
		cfg     engine.FeedConfig
		wantErr string
	}{
		{"Local without path", &engine.Generator{}, engine.FeedConfig{Mode: config.SourceModeLocal}, config.ErrLocalPathEmpty},
		{"Web without URL", &engine.Generator{}, engine.FeedConfig{Mode: config.SourceModeWeb}, config.ErrWebURLEmpty},
		{"Web without fetcher", &engine.Generator{}, webConfig(), config.ErrFetcherMissing},
		{"Unknown mode", &engine.Generator{}, engine.FeedConfig{Mode: "ftp"}, config.ErrModeUnsupport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.gen.Clock = MockClock{CurrentTime: tetMorning}
			_, _, _, err := tt.gen.RunSync(context.Background(), tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRunSync_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	path := filepath.Join(t.TempDir(), "cancel.vcf")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	cancel() // Cancel immediately before processing starts

	gen := &engine.Generator{Clock: MockClock{CurrentTime: time.Now()}}

	_, _, _, err := gen.RunSync(ctx, engine.FeedConfig{
		Mode:      config.SourceModeLocal,
		LocalPath: path,
	})

	require.Error(t, err)
	assert.Equal(t, context.Canceled, err, "Should return context canceled error")
}

func TestToday_UsesVietnamDate(t *testing.T) {
	// 18:30 UTC on 9 Feb is already 01:30 on 10 Feb in Hanoi.
	c := MockClock{CurrentTime: time.Date(2024, 2, 9, 18, 30, 0, 0, time.UTC)}
	assert.Equal(t, lunar.SolarDate{Year: 2024, Month: 2, Day: 10}, engine.Today(c))
}
