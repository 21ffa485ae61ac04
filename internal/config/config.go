package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-AmLich/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Âm Lịch"
	AppBinary         = "go-amlich"
	AppID             = "com.github.tartampluch.go-amlich"
	KeyringService    = "com.github.tartampluch.go-amlich"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"

	// TimeZoneName labels the fixed UTC+7 zone the calendar is computed in.
	TimeZoneName = "ICT"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
	ExitCodeUsage   = 2
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags, Commands & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion = "version"
	FlagDebug   = "debug"
	FlagJSON    = "json"
	FlagLang    = "lang"
	FlagLeap    = "leap"
	FlagOut     = "o"

	FlagDescVersion = "Show application version and exit"
	FlagDescDebug   = "Enable debug logging"
	FlagDescJSON    = "Print results as JSON"
	FlagDescLang    = "Label language (vi or en)"
	FlagDescLeap    = "The lunar month is the inserted leap month"
	FlagDescOut     = "Write the calendar to this file instead of stdout"

	CmdConvert  = "convert"
	CmdReverse  = "reverse"
	CmdDay      = "day"
	CmdMonth    = "month"
	CmdHolidays = "holidays"
	CmdZodiac   = "zodiac"
	CmdICS      = "ics"
	CmdServe    = "serve"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
	MsgUsage         = `Usage: %s [-debug] <command> [flags] [args]

Commands:
  convert  YYYY-MM-DD               solar date to lunar date
  reverse  [-leap] YEAR MONTH DAY   lunar date to solar date
  day      [YYYY-MM-DD]             full almanac for a day (default today)
  month    YEAR MONTH               lunar date of every day in a solar month
  holidays [YEAR]                   observances resolved for a solar year
  zodiac   YEAR                     zodiac animal of a lunar year
  ics      [-o FILE]                write the iCalendar feed once
  serve                             serve the feed and the JSON API
`
)

// SupportedLanguages defines the list of available label languages (ISO 639-1).
var SupportedLanguages = []string{"vi", "en"}

// -----------------------------------------------------------------------------
// Environment Variables
// -----------------------------------------------------------------------------

const (
	EnvPort         = "AMLICH_PORT"
	EnvLanguage     = "AMLICH_LANG"
	EnvSourceMode   = "AMLICH_SOURCE_MODE"
	EnvVCardPath    = "AMLICH_VCARD_PATH"
	EnvVCardURL     = "AMLICH_VCARD_URL"
	EnvVCardUser    = "AMLICH_VCARD_USER"
	EnvVCardPass    = "AMLICH_VCARD_PASS"
	EnvRefreshMin   = "AMLICH_REFRESH_MIN"
	EnvReminder     = "AMLICH_REMINDER"
	EnvMoonDays     = "AMLICH_MOON_DAYS"
	EnvHolidaysFile = "AMLICH_HOLIDAYS_FILE"
	EnvDayCache     = "AMLICH_DAY_CACHE"
	EnvMonthCache   = "AMLICH_MONTH_CACHE"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyEvtBirthday     = "event_lunar_birthday"      // Requires Name
	TKeyEvtBirthdayAge  = "event_lunar_birthday_age"  // Requires Name, Age
	TKeyEvtAnniversary  = "event_lunar_anniversary"   // Requires Name
	TKeyEvtAnnivYears   = "event_lunar_anniversary_n" // Requires Name, Years
	TKeyEvtNewMoon      = "event_new_moon"            // Requires Month
	TKeyEvtFullMoon     = "event_full_moon"           // Requires Month
	TKeyEvtTodayCount   = "status_today"              // Requires Count > 0
	TKeyEvtTodayZero    = "status_today_zero"
	TKeyFmtLunarDate    = "format_lunar_date" // Requires Day, Month, Leap, Year
	TKeyFmtLeap         = "format_leap_suffix"
	TKeyFmtHour         = "format_hour" // Requires Name, Start, End
	TKeyLblGoodHours    = "lbl_good_hours"
	TKeyLblBadHours     = "lbl_bad_hours"
	TKeyLblLunar        = "lbl_lunar"
	TKeyLblSolar        = "lbl_solar"
	TKeyLblCanChiYear   = "lbl_canchi_year"
	TKeyLblCanChiDay    = "lbl_canchi_day"
	TKeyLblAnimal       = "lbl_animal"
	TKeyLblSign         = "lbl_sign"
	TKeyErrInvalidDate  = "err_invalid_date"
	TKeyErrInvalidLunar = "err_invalid_lunar_date"
	TKeyErrMissingParam = "err_missing_param" // Requires Name
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeNone        = "none"
	SourceModeWeb         = "web"
	SourceModeLocal       = "local"
	DefaultPort           = "18080"
	DefaultRefreshMin     = 60
	DefaultLanguage       = "vi"
	DefaultDayCacheSize   = 1000
	DefaultMonthCacheSize = 100
	DefaultReminderValue  = 1
	UIDSalt               = "go-amlich-v1-" // Salt for deterministic UID generation
	DisabledInterval      = 0

	// MidnightAt is the daily rollover time of the local calendar.
	MidnightAt = "00:00"

	// FullMoonDay is the lunar day of Rằm.
	FullMoonDay = 15
)

// ISO8601 Duration Components for Reminders
const (
	ISOPeriodPrefix   = "P"
	ISONegativePrefix = "-P"
	ISOTimePrefix     = "T"
	ISODay            = "D"
	ISOHour           = "H"
	ISOMinute         = "M"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Am Lich//Engine//VI"
	ICalCalName   = "Âm Lịch"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "goamlich"
	ICalTransp    = "TRANSPARENT"

	// iCal/vCard Fields
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropXWRTimezone = "X-WR-TIMEZONE"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"
	PropCategories  = "CATEGORIES"
	PropTransp      = "TRANSP"

	VCardBDAY        = "BDAY"
	VCardAnniversary = "ANNIVERSARY"
	VCardFN          = "FN"
	VCardN           = "N"

	CategoryHoliday     = "HOLIDAY"
	CategoryMoon        = "MOON"
	CategoryBirthday    = "BIRTHDAY"
	CategoryAnniversary = "ANNIVERSARY"

	ICalTimezoneID = "Asia/Ho_Chi_Minh"

	DefaultICalRefresh = 1 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// Date layouts used for parsing vCard BDAY fields
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// Limits
	MinPort = 1
	MaxPort = 65535

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%d@%s"

	// File Extensions
	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"
	ExtJSON  = ".json"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 256 * 1024 * 1024 // 256MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// HTTP Routes & Parameters
// -----------------------------------------------------------------------------

const (
	RouteRoot           = "/"
	RouteCalendar       = "/calendar.ics"
	RouteHealth         = "/health"
	RouteAPI            = "/api/v1"
	RouteConvert        = "/convert"
	RouteConvertReverse = "/convert-reverse"
	RouteDay            = "/day"
	RouteMonth          = "/month"
	RouteZodiac         = "/zodiac/{year}"
	RouteHolidays       = "/holidays"

	ParamDate  = "date"
	ParamYear  = "year"
	ParamMonth = "month"
	ParamDay   = "day"
	ParamLeap  = "leap"
	ParamLang  = "lang"

	// API error codes
	CodeInvalidDate      = "INVALID_DATE"
	CodeInvalidLunarDate = "INVALID_LUNAR_DATE"
	CodeBadRequest       = "BAD_REQUEST"
	CodeNotFound         = "NOT_FOUND"
	CodeInternal         = "INTERNAL_ERROR"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"

	HealthStatusOK    = "ok"
	HealthStatusStale = "initializing"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"
	HeaderAcceptLanguage  = "Accept-Language"
	HeaderAccept          = "Accept"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeVCardAccept     = "text/vcard, text/x-vcard;q=0.9, */*;q=0.1"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrInvalidDate      = "invalid solar date"
	ErrInvalidLunarDate = "invalid lunar date"
	ErrInvalidHoliday   = "invalid holiday definition"
	ErrHolidayFile      = "failed to load holiday file"
	ErrCacheSize        = "cache capacity must be positive"
	ErrSettings         = "invalid configuration"
	ErrMissingParam     = "missing required parameter"
	ErrBadParam         = "malformed parameter"
	ErrScheduler        = "failed to schedule refresh job"
	ErrUnknownCommand   = "unknown command"
	ErrArgCount         = "wrong number of arguments"
	ErrLocalPathEmpty   = "configuration error: local path is empty"
	ErrWebURLEmpty      = "configuration error: web URL is empty"
	ErrFetcherMissing   = "internal error: network fetcher is not initialized"
	ErrModeUnsupport    = "configuration error: unsupported source mode"
	ErrLangUnsupport    = "configuration error: unsupported language"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrPortNumber       = "server port must be a number"
	ErrPortRange        = "server port must be between 1 and 65535"
	ErrRefreshRange     = "refresh interval must be positive"
	ErrReminderFormat   = "reminder must look like 1d, 2h or 30m, optionally prefixed by +"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrCtxCancelled     = "operation cancelled by context"
	ErrVCardParse       = "failed to parse vCard stream"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrDateParse        = "unable to parse date"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrWriteFile        = "failed to write output file"
	ErrHTTPStatus       = "address book server returned unexpected status"
	ErrTooLarge         = "address book exceeds the size limit"
	ErrRequest          = "failed to create request"
	ErrNetwork          = "network error during fetch"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrLocNotInit       = "localizer not initialized"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgInternalErr  = "Internal Server Error"
	HTTPMsgNotFound     = "Not Found"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackSummaryBirthday    = "Sinh nhật âm lịch: %s"
	FallbackSummaryBirthdayAge = "Sinh nhật âm lịch: %s (%d)"
	FallbackSummaryAnniv       = "Kỷ niệm âm lịch: %s"
	FallbackSummaryAnnivYears  = "Kỷ niệm âm lịch: %s (%d)"
	FallbackSummaryNewMoon     = "Mùng 1 tháng %d"
	FallbackSummaryFullMoon    = "Rằm tháng %d"
	FallbackName               = "Unknown"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgSyncSuccess     = "Synchronization completed successfully."
	MsgSyncStarted     = "Synchronization started..."
	MsgSyncFailed      = "Synchronization failed. Check logs."
	MsgSyncReq         = "Sync requested"
	MsgSchedulerStart  = "Refresh scheduler started"
	MsgSchedulerStop   = "Refresh scheduler stopped"
	MsgDayRollover     = "Local day rolled over, purging caches"
	MsgAppStop         = "Application stopped gracefully"
	MsgSkippedCard     = "Skipping malformed vCard"
	MsgSkippedDate     = "Skipping invalid date format"
	MsgSkippedNoYear   = "Skipping date without year (lunar date is undefined)"
	MsgGenSuccess      = "Calendar generation successful"
	MsgAppStarting     = "Starting application"
	MsgServerListen    = "HTTP server listening"
	MsgServerStop      = "Shutting down HTTP server..."
	MsgCacheUpdated    = "Calendar cache updated"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleBadName   = "Skipping malformed locale filename"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
	MsgPassFail        = "Password retrieval failed (might be empty)"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
	MsgEventToday      = "Lunar anniversary found today"
	MsgHolidaysLoaded  = "Extra holiday definitions loaded"
	MsgRequestServed   = "API request served"
	MsgRequestRejected = "API request rejected"
	MsgICSWritten      = "Calendar written"
	MsgFetchStart      = "Downloading address book"
	MsgFetchStatus     = "Address book server returned error status"
	MsgFetchBody       = "Address book response received"
	MsgCommandRun      = "Running command"
)

// -----------------------------------------------------------------------------
// Reminder Units & Directions
// -----------------------------------------------------------------------------

const (
	UnitDays    = "d"
	UnitHours   = "h"
	UnitMinutes = "m"
	DirBefore   = "before"
	DirAfter    = "after"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyInterval  = "interval"
	LogKeyUser      = "user"
	LogKeyTotal     = "total_cards"
	LogKeyFound     = "anniversaries_found"
	LogKeyToday     = "events_today"
	LogKeyHolidays  = "holidays"
	LogKeyMoonDays  = "moon_days"
	LogKeyEvents    = "events"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyManual    = "manual"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeySolar     = "solar_date"
	LogKeyLunar     = "lunar_date"
	LogKeyDuration  = "duration_ms"
	LogKeyPath      = "path"
	LogKeyMethod    = "method"
	LogKeyCode      = "code"
	LogKeyCommand   = "command"
	LogKeyRequestID = "request_id"
	LogKeyLength    = "content_length"
	LogKeyLimit     = "limit_bytes"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompApp       = "app"
	CompScheduler = "scheduler"
	CompEngine    = "engine"
	CompServer    = "server"
	CompAPI       = "api"
	CompFetcher   = "fetcher"
	CompHoliday   = "holiday"
	CompMain      = "main"
	CompI18n      = "i18n"
	CompConfig    = "config"
)
