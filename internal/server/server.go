package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tartampluch/go-amlich/internal/config"
	"github.com/tartampluch/go-amlich/internal/holiday"
	"github.com/tartampluch/go-amlich/internal/lunar"
)

// LunarCalendar is the conversion surface used by the API handlers.
// *lunar.Converter and lunar.Uncached satisfy it.
type LunarCalendar interface {
	SolarToLunar(d lunar.SolarDate) lunar.LunarDate
	Month(year, month int) lunar.MonthMap
}

// cacheItem stores the rendered calendar and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// CalendarServer serves the generated ICS feed and the JSON conversion API.
type CalendarServer struct {
	// cache uses atomic.Pointer for lock-free reads: the feed is read on
	// every client poll and replaced only after a sync.
	cache atomic.Pointer[cacheItem]
	Port  string

	Converter LunarCalendar
	Holidays  []holiday.Holiday

	// Now supplies "today" for endpoints called without a date.
	Now func() time.Time
}

// NewCalendarServer creates a server with an uncached converter and the
// built-in holiday table. Callers may replace both before Start.
func NewCalendarServer(port string) *CalendarServer {
	return &CalendarServer{
		Port:      port,
		Converter: lunar.Uncached{},
		Holidays:  holiday.Defaults(),
		Now:       time.Now,
	}
}

// Handler builds the router.
func (s *CalendarServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteNotFound(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(config.HeaderAllow, http.MethodGet)
		WriteError(w, http.StatusMethodNotAllowed, config.HTTPMsgMethodNotAll, config.CodeMethodNotAllowed)
	})

	// The feed handler checks the method itself to answer 405 with Allow.
	r.HandleFunc(config.RouteRoot, s.handleCalendarRequest)
	r.HandleFunc(config.RouteCalendar, s.handleCalendarRequest)
	r.Get(config.RouteHealth, s.handleHealth)

	r.Route(config.RouteAPI, func(r chi.Router) {
		r.Get(config.RouteConvert, s.handleConvert)
		r.Get(config.RouteConvertReverse, s.handleConvertReverse)
		r.Get(config.RouteDay, s.handleDay)
		r.Get(config.RouteMonth, s.handleMonth)
		r.Get(config.RouteZodiac, s.handleZodiac)
		r.Get(config.RouteHolidays, s.handleHolidays)
	})

	return r
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *CalendarServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update atomically replaces the served feed.
func (s *CalendarServer) Update(data []byte) {
	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	s.cache.Store(&cacheItem{
		data:         data,
		etag:         etag,
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	})

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
}

// Ready reports whether a feed has been stored.
func (s *CalendarServer) Ready() bool {
	return s.cache.Load() != nil
}

// handleCalendarRequest serves the ICS content with HTTP caching support.
func (s *CalendarServer) handleCalendarRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	item := s.cache.Load()
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
				if !serverTime.After(clientTime) {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
		}
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

// handleHealth reports whether the first sync has completed.
func (s *CalendarServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if !s.Ready() {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		write(w, http.StatusServiceUnavailable, Response{
			Success: false,
			Data:    map[string]string{"status": config.HealthStatusStale},
		})
		return
	}
	WriteSuccess(w, map[string]string{"status": config.HealthStatusOK})
}

// requestLogger logs each request at debug level.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Debug(config.MsgRequestServed,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyMethod, r.Method,
			config.LogKeyPath, r.URL.Path,
			config.LogKeyStatus, ww.Status(),
			config.LogKeyDuration, time.Since(start).Milliseconds(),
			config.LogKeyRequestID, chimw.GetReqID(r.Context()),
		)
	})
}
