package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strconv"

	"github.com/joho/godotenv"
)

// Settings holds the runtime configuration of the service.
// Fields are populated from environment variables (optionally via a .env file).
type Settings struct {
	// Server
	Port     string
	Language string

	// Contact source for lunar anniversaries
	SourceMode string // SourceModeNone, SourceModeLocal or SourceModeWeb
	VCardPath  string
	VCardURL   string
	VCardUser  string
	VCardPass  string // Falls back to the OS keyring when empty

	// Feed
	RefreshMin   int
	Reminder     string // e.g. "1d" (one day before) or "+2h" (two hours after); empty disables
	MoonDays     bool
	HolidaysFile string

	// Converter cache capacities
	DayCache   int
	MonthCache int
}

// ReminderSpec is a parsed Settings.Reminder value.
type ReminderSpec struct {
	Enabled   bool
	Value     int
	Unit      string // UnitDays, UnitHours or UnitMinutes
	Direction string // DirBefore or DirAfter
}

var reminderPattern = regexp.MustCompile(`^(\+?)(\d+)([dhm])$`)

// Load reads the settings from the environment. A .env file in the working
// directory is loaded first when present.
func Load() (*Settings, error) {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	s := &Settings{
		Port:         getEnv(EnvPort, DefaultPort),
		Language:     getEnv(EnvLanguage, DefaultLanguage),
		SourceMode:   getEnv(EnvSourceMode, SourceModeNone),
		VCardPath:    getEnv(EnvVCardPath, ""),
		VCardURL:     getEnv(EnvVCardURL, ""),
		VCardUser:    getEnv(EnvVCardUser, ""),
		VCardPass:    getEnv(EnvVCardPass, ""),
		RefreshMin:   getEnvInt(EnvRefreshMin, DefaultRefreshMin),
		Reminder:     getEnv(EnvReminder, ""),
		MoonDays:     getEnvBool(EnvMoonDays, true),
		HolidaysFile: getEnv(EnvHolidaysFile, ""),
		DayCache:     getEnvInt(EnvDayCache, DefaultDayCacheSize),
		MonthCache:   getEnvInt(EnvMonthCache, DefaultMonthCacheSize),
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrSettings, err)
	}
	return s, nil
}

// Validate reports every problem with the settings at once.
func (s *Settings) Validate() error {
	var errs []error

	if s.Port == "" {
		errs = append(errs, errors.New(ErrPortRequired))
	} else if p, err := strconv.Atoi(s.Port); err != nil {
		errs = append(errs, fmt.Errorf("%s: %q", ErrPortNumber, s.Port))
	} else if p < MinPort || p > MaxPort {
		errs = append(errs, fmt.Errorf("%s: got %d", ErrPortRange, p))
	}

	if !slices.Contains(SupportedLanguages, s.Language) {
		errs = append(errs, fmt.Errorf("%s: %q", ErrLangUnsupport, s.Language))
	}

	switch s.SourceMode {
	case SourceModeNone:
	case SourceModeLocal:
		if s.VCardPath == "" {
			errs = append(errs, errors.New(ErrLocalPathEmpty))
		}
	case SourceModeWeb:
		if s.VCardURL == "" {
			errs = append(errs, errors.New(ErrWebURLEmpty))
		}
	default:
		errs = append(errs, fmt.Errorf("%s: %q", ErrModeUnsupport, s.SourceMode))
	}

	if s.RefreshMin <= 0 {
		errs = append(errs, fmt.Errorf("%s: got %d", ErrRefreshRange, s.RefreshMin))
	}

	if _, err := ParseReminder(s.Reminder); err != nil {
		errs = append(errs, err)
	}

	if s.DayCache <= 0 || s.MonthCache <= 0 {
		errs = append(errs, fmt.Errorf("%s: day=%d month=%d", ErrCacheSize, s.DayCache, s.MonthCache))
	}

	return errors.Join(errs...)
}

// ReminderSpec returns the parsed reminder. Call Validate first.
func (s *Settings) ReminderSpec() ReminderSpec {
	r, _ := ParseReminder(s.Reminder)
	return r
}

// ParseReminder parses values like "1d", "12h" or "+30m". A leading "+"
// places the alarm after the start of the event. Empty disables the reminder.
func ParseReminder(v string) (ReminderSpec, error) {
	if v == "" {
		return ReminderSpec{}, nil
	}
	m := reminderPattern.FindStringSubmatch(v)
	if m == nil {
		return ReminderSpec{}, fmt.Errorf("%s: %q", ErrReminderFormat, v)
	}
	n, err := strconv.Atoi(m[2])
	if err != nil || n <= 0 {
		return ReminderSpec{}, fmt.Errorf("%s: %q", ErrReminderFormat, v)
	}

	dir := DirBefore
	if m[1] == "+" {
		dir = DirAfter
	}
	return ReminderSpec{Enabled: true, Value: n, Unit: m[3], Direction: dir}, nil
}

// getEnv reads an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBool reads an environment variable as a boolean with a default fallback.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
