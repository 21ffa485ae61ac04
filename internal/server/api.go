package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tartampluch/go-amlich/internal/almanac"
	"github.com/tartampluch/go-amlich/internal/config"
	"github.com/tartampluch/go-amlich/internal/holiday"
	"github.com/tartampluch/go-amlich/internal/locale"
	"github.com/tartampluch/go-amlich/internal/lunar"
)

// ConvertResult is the payload of both conversion endpoints.
type ConvertResult struct {
	Solar      lunar.SolarDate `json:"solar"`
	Lunar      lunar.LunarDate `json:"lunar"`
	Formatted  string          `json:"formatted"`
	CanChiYear almanac.CanChi  `json:"canChiYear"`
	Animal     string          `json:"zodiacAnimal"`
}

// DayResult adds localized labels and the day's observances to DayInfo.
type DayResult struct {
	almanac.DayInfo
	Formatted string              `json:"formatted"`
	GoodHours []string            `json:"goodHours"`
	BadHours  []string            `json:"badHours"`
	SignName  string              `json:"signName"`
	Holidays  []HolidayOccurrence `json:"holidays"`
}

// ZodiacResult describes one lunar year.
type ZodiacResult struct {
	Year   int                `json:"year"`
	CanChi almanac.CanChi     `json:"canChi"`
	Animal almanac.AnimalInfo `json:"animal"`
	Name   string             `json:"name"`
}

// HolidayOccurrence is an observance with its name in the request language.
type HolidayOccurrence struct {
	holiday.Occurrence
	Name string `json:"name"`
}

// HolidaysResult lists the observances of one solar year.
type HolidaysResult struct {
	Year     int                 `json:"year"`
	Holidays []HolidayOccurrence `json:"holidays"`
}

// badParam is a request parameter that could not be used.
type badParam struct {
	name    string
	missing bool
}

func (e *badParam) Error() string {
	if e.missing {
		return fmt.Sprintf("%s: %s", config.ErrMissingParam, e.name)
	}
	return fmt.Sprintf("%s: %s", config.ErrBadParam, e.name)
}

// translator picks the label language from ?lang, then Accept-Language.
func translator(r *http.Request) *locale.Translator {
	return locale.New(r.URL.Query().Get(config.ParamLang), r.Header.Get(config.HeaderAcceptLanguage))
}

// handleConvert handles GET /api/v1/convert?date=YYYY-MM-DD
func (s *CalendarServer) handleConvert(w http.ResponseWriter, r *http.Request) {
	tr := translator(r)

	raw := r.URL.Query().Get(config.ParamDate)
	if raw == "" {
		s.reject(w, r, tr, &badParam{name: config.ParamDate, missing: true})
		return
	}
	d, err := lunar.ParseSolarDate(raw)
	if err != nil {
		s.reject(w, r, tr, err)
		return
	}

	WriteSuccess(w, NewConvertResult(tr, d, s.Converter.SolarToLunar(d)))
}

// handleConvertReverse handles GET /api/v1/convert-reverse?year=&month=&day=&leap=
func (s *CalendarServer) handleConvertReverse(w http.ResponseWriter, r *http.Request) {
	tr := translator(r)

	year, err := intParam(r, config.ParamYear)
	if err != nil {
		s.reject(w, r, tr, err)
		return
	}
	month, err := intParam(r, config.ParamMonth)
	if err != nil {
		s.reject(w, r, tr, err)
		return
	}
	day, err := intParam(r, config.ParamDay)
	if err != nil {
		s.reject(w, r, tr, err)
		return
	}
	leap, err := boolParam(r, config.ParamLeap)
	if err != nil {
		s.reject(w, r, tr, err)
		return
	}

	d, ld, err := ReverseLunar(year, month, day, leap)
	if err != nil {
		s.reject(w, r, tr, err)
		return
	}

	WriteSuccess(w, NewConvertResult(tr, d, ld))
}

// handleDay handles GET /api/v1/day?date=YYYY-MM-DD (default today, UTC+7).
func (s *CalendarServer) handleDay(w http.ResponseWriter, r *http.Request) {
	tr := translator(r)

	d := lunar.SolarDateFromTime(s.Now())
	if raw := r.URL.Query().Get(config.ParamDate); raw != "" {
		var err error
		if d, err = lunar.ParseSolarDate(raw); err != nil {
			s.reject(w, r, tr, err)
			return
		}
	}

	WriteSuccess(w, NewDayResult(tr, s.Converter, d, s.Holidays))
}

// handleMonth handles GET /api/v1/month?year=&month=
func (s *CalendarServer) handleMonth(w http.ResponseWriter, r *http.Request) {
	tr := translator(r)

	year, err := intParam(r, config.ParamYear)
	if err != nil {
		s.reject(w, r, tr, err)
		return
	}
	month, err := intParam(r, config.ParamMonth)
	if err != nil {
		s.reject(w, r, tr, err)
		return
	}
	if month < 1 || month > 12 {
		s.reject(w, r, tr, fmt.Errorf("%w: month %d", lunar.ErrInvalidDate, month))
		return
	}

	WriteSuccess(w, s.Converter.Month(year, month))
}

// handleZodiac handles GET /api/v1/zodiac/{year}
func (s *CalendarServer) handleZodiac(w http.ResponseWriter, r *http.Request) {
	tr := translator(r)

	year, err := strconv.Atoi(chi.URLParam(r, config.ParamYear))
	if err != nil {
		s.reject(w, r, tr, &badParam{name: config.ParamYear})
		return
	}

	WriteSuccess(w, NewZodiacResult(tr, year))
}

// handleHolidays handles GET /api/v1/holidays?year= (default this year).
func (s *CalendarServer) handleHolidays(w http.ResponseWriter, r *http.Request) {
	tr := translator(r)

	year := lunar.SolarDateFromTime(s.Now()).Year
	if r.URL.Query().Get(config.ParamYear) != "" {
		var err error
		if year, err = intParam(r, config.ParamYear); err != nil {
			s.reject(w, r, tr, err)
			return
		}
	}

	WriteSuccess(w, NewHolidaysResult(tr, year, s.Holidays))
}

// NewConvertResult describes a solar date and its lunar date.
func NewConvertResult(tr *locale.Translator, d lunar.SolarDate, ld lunar.LunarDate) ConvertResult {
	cc := almanac.YearCanChi(ld.Year)
	return ConvertResult{
		Solar:      d,
		Lunar:      ld,
		Formatted:  tr.FormatLunarDate(ld),
		CanChiYear: cc,
		Animal:     tr.AnimalName(cc.Branch),
	}
}

// NewDayResult describes d with labels in the translator's language.
func NewDayResult(tr *locale.Translator, conv almanac.LunarConverter, d lunar.SolarDate, defs []holiday.Holiday) DayResult {
	info := almanac.Describe(conv, d)
	return DayResult{
		DayInfo:   info,
		Formatted: tr.FormatLunarDate(info.Lunar),
		GoodHours: tr.HourLabels(info.Hours.Good),
		BadHours:  tr.HourLabels(info.Hours.Bad),
		SignName:  tr.SignName(info.Sign),
		Holidays:  localizeOccurrences(tr, holiday.Between(d, d, defs)),
	}
}

// NewZodiacResult describes a lunar year.
func NewZodiacResult(tr *locale.Translator, year int) ZodiacResult {
	cc := almanac.YearCanChi(year)
	return ZodiacResult{
		Year:   year,
		CanChi: cc,
		Animal: almanac.YearAnimal(year),
		Name:   tr.AnimalName(cc.Branch),
	}
}

// NewHolidaysResult resolves defs in a solar year.
func NewHolidaysResult(tr *locale.Translator, year int, defs []holiday.Holiday) HolidaysResult {
	return HolidaysResult{
		Year:     year,
		Holidays: localizeOccurrences(tr, holiday.Occurrences(year, defs)),
	}
}

// ReverseLunar converts a lunar date and rejects fields that name no real day.
func ReverseLunar(year, month, day int, leap bool) (lunar.SolarDate, lunar.LunarDate, error) {
	if month < 1 || month > 12 || day < 1 || day > 30 {
		return lunar.SolarDate{}, lunar.LunarDate{}, fmt.Errorf("%w: %d/%d/%d", lunar.ErrInvalidLunarDate, day, month, year)
	}
	n, err := lunar.MonthLength(year, month, leap)
	if err != nil {
		return lunar.SolarDate{}, lunar.LunarDate{}, err
	}
	if day > n {
		return lunar.SolarDate{}, lunar.LunarDate{}, fmt.Errorf("%w: month %d has %d days", lunar.ErrInvalidLunarDate, month, n)
	}
	d, err := lunar.LunarToSolar(year, month, day, leap)
	if err != nil {
		return lunar.SolarDate{}, lunar.LunarDate{}, err
	}
	return d, lunar.LunarDate{Day: day, Month: month, Year: year, Leap: leap}, nil
}

// reject maps an input error to a 400 envelope with a localized message.
func (s *CalendarServer) reject(w http.ResponseWriter, r *http.Request, tr *locale.Translator, err error) {
	var (
		bp      *badParam
		message string
		code    string
	)
	switch {
	case errors.Is(err, lunar.ErrInvalidLunarDate):
		message, code = tr.Msg(config.TKeyErrInvalidLunar), config.CodeInvalidLunarDate
	case errors.Is(err, lunar.ErrInvalidDate):
		message, code = tr.Msg(config.TKeyErrInvalidDate), config.CodeInvalidDate
	case errors.As(err, &bp) && bp.missing:
		message = tr.MsgData(config.TKeyErrMissingParam, map[string]any{"Name": bp.name})
		code = config.CodeBadRequest
	default:
		message, code = err.Error(), config.CodeBadRequest
	}

	slog.Debug(config.MsgRequestRejected,
		config.LogKeyComponent, config.CompAPI,
		config.LogKeyPath, r.URL.Path,
		config.LogKeyCode, code,
		config.LogKeyError, err,
	)
	WriteBadRequest(w, message, code)
}

func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, &badParam{name: name, missing: true}
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &badParam{name: name}
	}
	return v, nil
}

// boolParam reads an optional flag; absent means false.
func boolParam(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &badParam{name: name}
	}
	return v, nil
}

func localizeOccurrences(tr *locale.Translator, occ []holiday.Occurrence) []HolidayOccurrence {
	out := make([]HolidayOccurrence, len(occ))
	for i, o := range occ {
		out[i] = HolidayOccurrence{Occurrence: o, Name: tr.HolidayName(o.Holiday)}
	}
	return out
}
