package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/tartampluch/go-amlich/internal/config"
)

// main delegates to runMain so deferred calls (closing the log file) run
// before os.Exit.
func main() {
	os.Exit(runMain())
}

// runMain parses flags, sets up logging and runs one subcommand.
func runMain() int {
	flag.Usage = printUsage
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)
	asJSON := flag.Bool(config.FlagJSON, false, config.FlagDescJSON)
	lang := flag.String(config.FlagLang, "", config.FlagDescLang)
	flag.Parse()

	if *showVersion {
		printVersion(os.Stdout)
		return config.ExitCodeSuccess
	}
	if flag.NArg() == 0 {
		printUsage()
		return config.ExitCodeUsage
	}

	// Stdout carries command output, so logs go to stderr.
	logCloser := setupLogging(os.Stderr, *debugMode)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close()
		}()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	c, err := newCLI(os.Stdout, *asJSON, *lang)
	if err == nil {
		err = c.dispatch(ctx, flag.Arg(0), flag.Args()[1:])
	}
	return exitCode(err)
}

// exitCode logs err and maps it to a process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		slog.Debug(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
		return config.ExitCodeSuccess
	case errors.Is(err, errUnknownCommand), errors.Is(err, errArgCount), errors.Is(err, errBadArg):
		fmt.Fprintln(os.Stderr, err)
		printUsage()
		return config.ExitCodeUsage
	default:
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}
}

func printUsage() {
	fmt.Fprintf(flag.CommandLine.Output(), config.MsgUsage, config.AppBinary)
	flag.PrintDefaults()
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Debug(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging installs a JSON slog handler writing to console and, when
// possible, to a log file in the user cache directory.
func setupLogging(console io.Writer, debugMode bool) io.Closer {
	writers := []io.Writer{console}
	var logFile *os.File

	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts)))

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
