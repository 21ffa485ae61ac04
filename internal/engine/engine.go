package engine

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-vcard"

	"github.com/tartampluch/go-amlich/internal/config"
	"github.com/tartampluch/go-amlich/internal/holiday"
	"github.com/tartampluch/go-amlich/internal/lunar"
)

// Event kinds passed to the summary formatter.
const (
	KindHoliday     = "holiday"
	KindNewMoon     = "new_moon"
	KindFullMoon    = "full_moon"
	KindBirthday    = "birthday"
	KindAnniversary = "anniversary"
)

// FeedConfig contains all parameters required to build the feed.
type FeedConfig struct {
	Mode            string // config.SourceModeNone, SourceModeLocal or SourceModeWeb
	LocalPath       string // Path to the .vcf file
	WebURL          string // CardDAV or WebDAV URL
	WebUser         string // HTTP Basic Auth Username
	WebPass         string // HTTP Basic Auth Password
	ReminderTrigger string // ISO8601 duration string (e.g., "-P1D")
	IncludeMoonDays bool   // Emit Mùng 1 and Rằm of every lunar month
}

// EventInfo describes one event to the summary formatter.
type EventInfo struct {
	Kind    string
	Name    string           // Contact name for birthdays and anniversaries
	Years   int              // Age or years married in the lunar year of the event
	Lunar   lunar.LunarDate  // Lunar date of the event
	Holiday *holiday.Holiday // Set for KindHoliday
}

// LunarCalendar is the conversion surface the generator needs.
// Both lunar.Uncached and *lunar.Converter satisfy it.
type LunarCalendar interface {
	SolarToLunar(d lunar.SolarDate) lunar.LunarDate
	Month(year, month int) lunar.MonthMap
}

// Generator builds the lunar iCalendar feed.
type Generator struct {
	Clock     Clock         // Interface for time mocking.
	Fetcher   VCardFetcher  // Interface for network abstraction.
	Converter LunarCalendar // Defaults to lunar.Uncached.
	Holidays  []holiday.Holiday

	// FormatSummary lets the caller inject localized strings into the logic layer.
	FormatSummary func(ev EventInfo) string
}

type syncStats struct {
	cards, anniversaries, holidays, moonDays, today int
}

// RunSync executes the fetching, parsing, and generation pipeline.
// It returns the ICS data, the lunar anniversaries found in the contact
// source, the count of events falling today, and any error.
func (g *Generator) RunSync(ctx context.Context, cfg FeedConfig) ([]byte, []AnniversaryEntry, int, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyMode, cfg.Mode,
	)
	log.InfoContext(ctx, config.MsgSyncStarted)

	if err := ctx.Err(); err != nil {
		return nil, nil, 0, err
	}

	var cards []vcard.Card
	if cfg.Mode != "" && cfg.Mode != config.SourceModeNone {
		var err error
		cards, err = g.readCards(ctx, cfg)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, 0, ctx.Err()
			}
			return nil, nil, 0, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
		}
	}

	ics, entries, stats, err := g.generateCalendar(ctx, cards, cfg)
	if err != nil {
		return nil, nil, 0, err
	}

	log.Debug("Sync finished", config.LogKeyDuration, time.Since(start).Milliseconds())
	logSuccess(stats)
	return ics, entries, stats.today, nil
}

// readCards opens the configured source and decodes every card in it.
// Malformed cards are skipped.
func (g *Generator) readCards(ctx context.Context, cfg FeedConfig) ([]vcard.Card, error) {
	reader, err := g.acquireStream(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	decoder := vcard.NewDecoder(reader)
	var cards []vcard.Card
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			return cards, nil
		}
		if err != nil {
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyError, err)
			// Stop at a truncated stream.
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return cards, nil
			}
			continue
		}
		cards = append(cards, card)
	}
}

// acquireStream opens the appropriate data source based on configuration.
func (g *Generator) acquireStream(ctx context.Context, cfg FeedConfig) (io.ReadCloser, error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(cfg.LocalPath)
	case config.SourceModeWeb:
		if cfg.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if g.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return g.Fetcher.Fetch(ctx, Source{URL: cfg.WebURL, User: cfg.WebUser, Pass: cfg.WebPass})
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
}

func (g *Generator) converter() LunarCalendar {
	if g.Converter == nil {
		return lunar.Uncached{}
	}
	return g.Converter
}

// generateCalendar assembles holidays, moon days and contact anniversaries
// for the lunar years around today into one VCALENDAR.
func (g *Generator) generateCalendar(ctx context.Context, cards []vcard.Card, cfg FeedConfig) ([]byte, []AnniversaryEntry, syncStats, error) {
	var stats syncStats

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropXWRTimezone, config.ICalTimezoneID)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986: Suggest a refresh interval
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	today := Today(g.Clock)
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(g.Clock.Now().UTC())

	add := func(ev *ical.Event, d lunar.SolarDate) {
		ev.Props.Set(dtStampProp)
		if d == today {
			stats.today++
		}
		cal.Children = append(cal.Children, ev.Component)
	}

	from := lunar.SolarDate{Year: today.Year - 1, Month: 1, Day: 1}
	to := lunar.SolarDate{Year: today.Year + 1, Month: 12, Day: 31}

	// 1. Holidays
	for _, o := range holiday.Between(from, to, g.Holidays) {
		h := o.Holiday
		year := o.Date.Year
		if h.Kind == holiday.KindLunar {
			year = o.Lunar.Year
		}
		summary := g.summary(EventInfo{Kind: KindHoliday, Lunar: o.Lunar, Holiday: &h})
		uid := fmt.Sprintf(config.FormatUID, uidBase(KindHoliday, h.Code, h.Kind), year, config.ICalDomain)
		add(newEvent(uid, summary, o.Date, o.Lunar, config.CategoryHoliday, cfg.ReminderTrigger), o.Date)
		stats.holidays++
	}

	// 2. Moon days
	if cfg.IncludeMoonDays {
		conv := g.converter()
		for y := from.Year; y <= to.Year; y++ {
			for m := 1; m <= 12; m++ {
				if err := ctx.Err(); err != nil {
					return nil, nil, stats, err
				}
				for _, e := range conv.Month(y, m).Days {
					kind := ""
					switch e.Lunar.Day {
					case 1:
						kind = KindNewMoon
					case config.FullMoonDay:
						kind = KindFullMoon
					default:
						continue
					}
					summary := g.summary(EventInfo{Kind: kind, Lunar: e.Lunar})
					uid := fmt.Sprintf(config.FormatUID, uidBase(kind, e.Lunar.String(), ""), e.Solar.Year, config.ICalDomain)
					// Moon days carry no alarm.
					add(newEvent(uid, summary, e.Solar, e.Lunar, config.CategoryMoon, ""), e.Solar)
					stats.moonDays++
				}
			}
		}
	}

	// 3. Lunar anniversaries from contacts
	var entries []AnniversaryEntry
	for _, card := range cards {
		if err := ctx.Err(); err != nil {
			return nil, nil, stats, err
		}
		stats.cards++

		name := cardName(card)
		for _, field := range []string{config.VCardBDAY, config.VCardAnniversary} {
			entry, ok := g.anniversary(card, field, name, today)
			if !ok {
				continue
			}
			entries = append(entries, entry)
			stats.anniversaries++

			for _, occ := range g.occurrences(entry, today) {
				if occ.Date == today {
					slog.Info(config.MsgEventToday,
						config.LogKeyComponent, config.CompEngine,
						config.LogKeyName, name,
						config.LogKeyLunar, occ.Lunar.String())
				}
				summary := g.summary(EventInfo{Kind: entry.Kind, Name: name, Years: occ.Years, Lunar: occ.Lunar})
				uid := fmt.Sprintf(config.FormatUID, entry.UID, occ.Lunar.Year, config.ICalDomain)
				add(newEvent(uid, summary, occ.Date, occ.Lunar, categoryOf(entry.Kind), cfg.ReminderTrigger), occ.Date)
			}
		}
	}

	slices.SortStableFunc(entries, func(a, b AnniversaryEntry) int {
		if c := a.NextOccurrence.JDN() - b.NextOccurrence.JDN(); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})

	// Return a valid VCALENDAR even when no events are found.
	if len(cal.Children) == 0 {
		return []byte(config.StubVCalendar), entries, stats, nil
	}

	var buf strings.Builder
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, nil, stats, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return []byte(buf.String()), entries, stats, nil
}

// summary renders an event title, localized when a formatter is set.
func (g *Generator) summary(ev EventInfo) string {
	if g.FormatSummary != nil {
		return g.FormatSummary(ev)
	}
	return FallbackSummary(ev)
}

// FallbackSummary renders an event title in Vietnamese without a bundle.
func FallbackSummary(ev EventInfo) string {
	switch ev.Kind {
	case KindHoliday:
		if ev.Holiday != nil {
			return ev.Holiday.NameVI
		}
	case KindNewMoon:
		return fmt.Sprintf(config.FallbackSummaryNewMoon, ev.Lunar.Month)
	case KindFullMoon:
		return fmt.Sprintf(config.FallbackSummaryFullMoon, ev.Lunar.Month)
	case KindBirthday:
		if ev.Years > 0 {
			return fmt.Sprintf(config.FallbackSummaryBirthdayAge, ev.Name, ev.Years)
		}
		return fmt.Sprintf(config.FallbackSummaryBirthday, ev.Name)
	case KindAnniversary:
		if ev.Years > 0 {
			return fmt.Sprintf(config.FallbackSummaryAnnivYears, ev.Name, ev.Years)
		}
		return fmt.Sprintf(config.FallbackSummaryAnniv, ev.Name)
	}
	return ev.Name
}

// newEvent builds an all-day transparent event.
func newEvent(uid, summary string, d lunar.SolarDate, ld lunar.LunarDate, category, reminderTrigger string) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, uid)
	event.Props.SetText(config.PropSummary, summary)
	event.Props.SetText(config.PropDescription, ld.String())
	event.Props.SetText(config.PropCategories, category)
	event.Props.SetText(config.PropTransp, config.ICalTransp)

	dtStartProp := ical.NewProp(config.PropDTStart)
	dtStartProp.SetDate(d.Time())
	event.Props.Set(dtStartProp)

	if reminderTrigger != "" {
		addAlarm(event, reminderTrigger, summary)
	}
	return event
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}

// uidBase derives a stable identifier so clients keep events across refreshes.
func uidBase(kind, key, extra string) string {
	input := fmt.Sprintf(config.FormatHashInput, kind+":"+key, extra, config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash[:config.UIDHashLength])
}

func categoryOf(kind string) string {
	if kind == KindAnniversary {
		return config.CategoryAnniversary
	}
	return config.CategoryBirthday
}

// logSuccess logs the final statistics of the generation process.
func logSuccess(stats syncStats) {
	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.cards),
			slog.Int(config.LogKeyFound, stats.anniversaries),
			slog.Int(config.LogKeyHolidays, stats.holidays),
			slog.Int(config.LogKeyMoonDays, stats.moonDays),
			slog.Int(config.LogKeyToday, stats.today),
		),
	)
}
