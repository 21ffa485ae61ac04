// Package app wires settings, the feed generator, the HTTP server and the
// refresh scheduler into one long-running service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/zalando/go-keyring"

	"github.com/tartampluch/go-amlich/internal/config"
	"github.com/tartampluch/go-amlich/internal/engine"
	"github.com/tartampluch/go-amlich/internal/holiday"
	"github.com/tartampluch/go-amlich/internal/locale"
	"github.com/tartampluch/go-amlich/internal/lunar"
	"github.com/tartampluch/go-amlich/internal/server"
)

// Service owns the converter cache and keeps the served feed current.
type Service struct {
	Settings   *config.Settings
	Server     *server.CalendarServer
	Converter  *lunar.Converter
	Fetcher    engine.VCardFetcher
	Clock      engine.Clock // Injected clock for testability
	Holidays   []holiday.Holiday
	Translator *locale.Translator

	mu         sync.RWMutex
	entries    []engine.AnniversaryEntry
	todayCount int
	lastErr    error
}

// New builds a Service from validated settings. Extra holiday definitions
// from Settings.HolidaysFile replace built-in entries with the same code.
func New(s *config.Settings) (*Service, error) {
	conv, err := lunar.NewConverter(s.DayCache, s.MonthCache)
	if err != nil {
		return nil, err
	}

	defs := holiday.Defaults()
	if s.HolidaysFile != "" {
		extra, err := holiday.LoadFile(s.HolidaysFile)
		if err != nil {
			return nil, err
		}
		defs = holiday.Merge(defs, extra)
		slog.Info(config.MsgHolidaysLoaded,
			config.LogKeyComponent, config.CompApp,
			config.LogKeyFile, s.HolidaysFile,
			config.LogKeyCount, len(extra),
		)
	}

	srv := server.NewCalendarServer(s.Port)
	srv.Converter = conv
	srv.Holidays = defs

	return &Service{
		Settings:   s,
		Server:     srv,
		Converter:  conv,
		Fetcher:    engine.NewHTTPFetcher(),
		Clock:      engine.RealClock{},
		Holidays:   defs,
		Translator: locale.New(s.Language),
	}, nil
}

// Run performs a first sync, then serves the feed and refreshes it until
// ctx is cancelled.
func (svc *Service) Run(ctx context.Context) error {
	svc.performSync(ctx, false)

	sched, err := svc.newScheduler(ctx)
	if err != nil {
		return err
	}
	sched.StartAsync()
	slog.Info(config.MsgSchedulerStart,
		config.LogKeyComponent, config.CompScheduler,
		config.LogKeyInterval, time.Duration(svc.Settings.RefreshMin)*time.Minute,
	)
	defer func() {
		sched.Stop()
		slog.Info(config.MsgSchedulerStop, config.LogKeyComponent, config.CompScheduler)
	}()

	return svc.Server.Start(ctx)
}

// newScheduler registers the periodic refresh and the local midnight
// rollover. Both run in singleton mode so syncs never overlap.
func (svc *Service) newScheduler(ctx context.Context) (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(lunar.Location)
	s.SingletonModeAll()

	if _, err := s.Every(svc.Settings.RefreshMin).Minutes().WaitForSchedule().Do(func() {
		svc.performSync(ctx, false)
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrScheduler, err)
	}

	if _, err := s.Every(1).Day().At(config.MidnightAt).Do(func() {
		svc.rollover(ctx)
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrScheduler, err)
	}

	return s, nil
}

// rollover drops cached conversions and rebuilds the feed for the new day.
func (svc *Service) rollover(ctx context.Context) {
	days, months := svc.Converter.Len()
	slog.Info(config.MsgDayRollover,
		config.LogKeyComponent, config.CompScheduler,
		slog.Group(config.LogKeyStats, "days", days, "months", months),
	)
	svc.Converter.Purge()
	svc.performSync(ctx, false)
}

// Sync runs one generation and publishes the result. It returns the feed.
func (svc *Service) Sync(ctx context.Context) ([]byte, error) {
	return svc.performSync(ctx, true)
}

// performSync executes the pipeline (Fetch -> Parse -> Generate -> Publish).
func (svc *Service) performSync(ctx context.Context, manual bool) ([]byte, error) {
	slog.Info(config.MsgSyncReq,
		config.LogKeyComponent, config.CompApp,
		config.LogKeyManual, manual)

	gen := &engine.Generator{
		Clock:         svc.Clock,
		Fetcher:       svc.Fetcher,
		Converter:     svc.Converter,
		Holidays:      svc.Holidays,
		FormatSummary: svc.summaryFormatter(),
	}

	ics, entries, countToday, err := gen.RunSync(ctx, svc.feedConfig())

	svc.mu.Lock()
	svc.lastErr = err
	if err == nil {
		svc.entries = entries
		svc.todayCount = countToday
	}
	svc.mu.Unlock()

	if err != nil {
		slog.Error(config.MsgSyncFailed,
			config.LogKeyComponent, config.CompApp,
			config.LogKeyError, err)
		return nil, err
	}

	svc.Server.Update(ics)
	slog.Info(config.MsgSyncSuccess,
		config.LogKeyComponent, config.CompApp,
		config.LogKeyToday, countToday,
		config.LogKeyFound, len(entries))
	return ics, nil
}

// Entries returns a copy of the lunar anniversaries found by the last sync.
func (svc *Service) Entries() []engine.AnniversaryEntry {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return slices.Clone(svc.entries)
}

// TodayStatus renders the count of today's events, e.g. "2 lunar events today".
func (svc *Service) TodayStatus() string {
	svc.mu.RLock()
	count, err := svc.todayCount, svc.lastErr
	svc.mu.RUnlock()

	switch {
	case err != nil:
		return config.MsgSyncFailed
	case count == 0:
		return svc.Translator.Msg(config.TKeyEvtTodayZero)
	default:
		return svc.Translator.Plural(config.TKeyEvtTodayCount, count, map[string]any{"Count": count})
	}
}

// feedConfig assembles the engine configuration from settings and keyring.
func (svc *Service) feedConfig() engine.FeedConfig {
	s := svc.Settings
	cfg := engine.FeedConfig{
		Mode:            s.SourceMode,
		LocalPath:       s.VCardPath,
		WebURL:          s.VCardURL,
		WebUser:         s.VCardUser,
		WebPass:         s.VCardPass,
		ReminderTrigger: reminderTrigger(s.ReminderSpec()),
		IncludeMoonDays: s.MoonDays,
	}

	if cfg.WebUser != "" && cfg.WebPass == "" {
		if p, err := keyring.Get(config.KeyringService, cfg.WebUser); err == nil {
			cfg.WebPass = p
		} else {
			slog.Debug(config.MsgPassFail,
				config.LogKeyUser, cfg.WebUser,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompApp)
		}
	}

	return cfg
}

// reminderTrigger builds the VALARM trigger: "-P1D", "-PT2H", "PT30M".
// Hours and minutes need the ISO 8601 time designator.
func reminderTrigger(r config.ReminderSpec) string {
	if !r.Enabled {
		return ""
	}

	sign := config.ISOPeriodPrefix
	if r.Direction == config.DirBefore {
		sign = config.ISONegativePrefix
	}

	switch r.Unit {
	case config.UnitHours:
		return fmt.Sprintf("%s%s%d%s", sign, config.ISOTimePrefix, r.Value, config.ISOHour)
	case config.UnitMinutes:
		return fmt.Sprintf("%s%s%d%s", sign, config.ISOTimePrefix, r.Value, config.ISOMinute)
	default:
		return fmt.Sprintf("%s%d%s", sign, r.Value, config.ISODay)
	}
}

// summaryFormatter returns a closure that localizes event summaries.
func (svc *Service) summaryFormatter() func(engine.EventInfo) string {
	tr := svc.Translator
	return func(ev engine.EventInfo) string {
		if tr == nil {
			return engine.FallbackSummary(ev)
		}

		switch ev.Kind {
		case engine.KindHoliday:
			if ev.Holiday != nil {
				return tr.HolidayName(*ev.Holiday)
			}
		case engine.KindNewMoon, engine.KindFullMoon:
			key := config.TKeyEvtNewMoon
			if ev.Kind == engine.KindFullMoon {
				key = config.TKeyEvtFullMoon
			}
			msg := tr.MsgData(key, map[string]any{"Month": ev.Lunar.Month})
			if ev.Lunar.Leap {
				msg += tr.Msg(config.TKeyFmtLeap)
			}
			return msg
		case engine.KindBirthday:
			// Years 0 is the first lunar year of life.
			if ev.Years > 0 {
				return tr.Plural(config.TKeyEvtBirthdayAge, ev.Years, map[string]any{"Name": ev.Name, "Age": ev.Years})
			}
			return tr.MsgData(config.TKeyEvtBirthday, map[string]any{"Name": ev.Name})
		case engine.KindAnniversary:
			if ev.Years > 0 {
				return tr.Plural(config.TKeyEvtAnnivYears, ev.Years, map[string]any{"Name": ev.Name, "Years": ev.Years})
			}
			return tr.MsgData(config.TKeyEvtAnniversary, map[string]any{"Name": ev.Name})
		}
		return engine.FallbackSummary(ev)
	}
}
