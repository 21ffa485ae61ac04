package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/tartampluch/go-amlich/internal/app"
	"github.com/tartampluch/go-amlich/internal/config"
	"github.com/tartampluch/go-amlich/internal/holiday"
	"github.com/tartampluch/go-amlich/internal/locale"
	"github.com/tartampluch/go-amlich/internal/lunar"
	"github.com/tartampluch/go-amlich/internal/server"
)

var (
	errUnknownCommand = errors.New(config.ErrUnknownCommand)
	errArgCount       = errors.New(config.ErrArgCount)
	errBadArg         = errors.New(config.ErrBadParam)
)

// cli holds what every subcommand needs.
type cli struct {
	out      io.Writer
	json     bool
	tr       *locale.Translator
	conv     *lunar.Converter
	holidays []holiday.Holiday
	now      func() time.Time
	settings func() (*config.Settings, error)
}

// newCLI reads the label language and extra holidays from the environment
// when the flags leave them unset.
func newCLI(out io.Writer, asJSON bool, lang string) (*cli, error) {
	defs := holiday.Defaults()
	if path := os.Getenv(config.EnvHolidaysFile); path != "" {
		extra, err := holiday.LoadFile(path)
		if err != nil {
			return nil, err
		}
		defs = holiday.Merge(defs, extra)
	}

	return &cli{
		out:      out,
		json:     asJSON,
		tr:       locale.New(lang, os.Getenv(config.EnvLanguage)),
		conv:     lunar.NewDefaultConverter(),
		holidays: defs,
		now:      time.Now,
		settings: config.Load,
	}, nil
}

// dispatch runs one subcommand.
func (c *cli) dispatch(ctx context.Context, name string, args []string) error {
	slog.Debug(config.MsgCommandRun,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyCommand, name)

	switch name {
	case config.CmdConvert:
		return c.convert(args)
	case config.CmdReverse:
		return c.reverse(args)
	case config.CmdDay:
		return c.day(args)
	case config.CmdMonth:
		return c.month(args)
	case config.CmdHolidays:
		return c.listHolidays(args)
	case config.CmdZodiac:
		return c.zodiac(args)
	case config.CmdICS:
		return c.ics(ctx, args)
	case config.CmdServe:
		return c.serve(ctx, args)
	default:
		return fmt.Errorf("%w: %q", errUnknownCommand, name)
	}
}

func (c *cli) convert(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: %s expects YYYY-MM-DD", errArgCount, config.CmdConvert)
	}
	d, err := lunar.ParseSolarDate(args[0])
	if err != nil {
		return err
	}
	return c.printConvert(server.NewConvertResult(c.tr, d, c.conv.SolarToLunar(d)))
}

func (c *cli) reverse(args []string) error {
	fs := flag.NewFlagSet(config.CmdReverse, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	leap := fs.Bool(config.FlagLeap, false, config.FlagDescLeap)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errBadArg, err)
	}

	nums, err := ints(fs.Args(), 3)
	if err != nil {
		return err
	}
	d, ld, err := server.ReverseLunar(nums[0], nums[1], nums[2], *leap)
	if err != nil {
		return err
	}
	return c.printConvert(server.NewConvertResult(c.tr, d, ld))
}

func (c *cli) day(args []string) error {
	d := lunar.SolarDateFromTime(c.now())
	switch len(args) {
	case 0:
	case 1:
		var err error
		if d, err = lunar.ParseSolarDate(args[0]); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %s expects at most one date", errArgCount, config.CmdDay)
	}

	res := server.NewDayResult(c.tr, c.conv, d, c.holidays)
	if c.json {
		return c.writeJSON(res)
	}

	return c.table(func(tw io.Writer) {
		fmt.Fprintf(tw, "%s\t%s\n", c.tr.Msg(config.TKeyLblSolar), res.Solar)
		fmt.Fprintf(tw, "%s\t%s\n", c.tr.Msg(config.TKeyLblLunar), res.Formatted)
		fmt.Fprintf(tw, "%s\t%s\n", c.tr.Msg(config.TKeyLblCanChiYear), res.YearCanChi.Label)
		fmt.Fprintf(tw, "%s\t%s\n", c.tr.Msg(config.TKeyLblCanChiDay), res.DayCanChi.Label)
		fmt.Fprintf(tw, "%s\t%s\n", c.tr.Msg(config.TKeyLblAnimal), c.tr.AnimalName(res.YearCanChi.Branch))
		fmt.Fprintf(tw, "%s\t%s\n", c.tr.Msg(config.TKeyLblSign), res.SignName)
		fmt.Fprintf(tw, "%s\t%s\n", c.tr.Msg(config.TKeyLblGoodHours), strings.Join(res.GoodHours, ", "))
		fmt.Fprintf(tw, "%s\t%s\n", c.tr.Msg(config.TKeyLblBadHours), strings.Join(res.BadHours, ", "))
		for _, h := range res.Holidays {
			fmt.Fprintf(tw, "\t%s\n", h.Name)
		}
	})
}

func (c *cli) month(args []string) error {
	nums, err := ints(args, 2)
	if err != nil {
		return err
	}
	if nums[1] < 1 || nums[1] > 12 {
		return fmt.Errorf("%w: month %d", lunar.ErrInvalidDate, nums[1])
	}

	m := c.conv.Month(nums[0], nums[1])
	if c.json {
		return c.writeJSON(m)
	}
	return c.table(func(tw io.Writer) {
		for _, e := range m.Days {
			fmt.Fprintf(tw, "%s\t%s\n", e.Solar, e.Lunar)
		}
	})
}

func (c *cli) listHolidays(args []string) error {
	year := lunar.SolarDateFromTime(c.now()).Year
	switch len(args) {
	case 0:
	case 1:
		nums, err := ints(args, 1)
		if err != nil {
			return err
		}
		year = nums[0]
	default:
		return fmt.Errorf("%w: %s expects at most one year", errArgCount, config.CmdHolidays)
	}

	res := server.NewHolidaysResult(c.tr, year, c.holidays)
	if c.json {
		return c.writeJSON(res)
	}
	return c.table(func(tw io.Writer) {
		for _, h := range res.Holidays {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", h.Date, h.Lunar, h.Name)
		}
	})
}

func (c *cli) zodiac(args []string) error {
	nums, err := ints(args, 1)
	if err != nil {
		return err
	}

	res := server.NewZodiacResult(c.tr, nums[0])
	if c.json {
		return c.writeJSON(res)
	}
	return c.table(func(tw io.Writer) {
		fmt.Fprintf(tw, "%s\t%s\n", c.tr.Msg(config.TKeyLblCanChiYear), res.CanChi.Label)
		fmt.Fprintf(tw, "%s\t%s\n", c.tr.Msg(config.TKeyLblAnimal), res.Name)
	})
}

// ics generates the feed once, to stdout or to -o FILE.
func (c *cli) ics(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet(config.CmdICS, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	out := fs.String(config.FlagOut, "", config.FlagDescOut)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errBadArg, err)
	}

	svc, err := c.service()
	if err != nil {
		return err
	}
	data, err := svc.Sync(ctx)
	if err != nil {
		return err
	}

	if *out == "" {
		_, err = c.out.Write(data)
		return err
	}
	if err := os.WriteFile(*out, data, config.FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteFile, err)
	}
	slog.Info(config.MsgICSWritten,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyFile, *out,
		config.LogKeySizeBytes, len(data))
	return nil
}

// serve runs the feed server until the context is cancelled.
func (c *cli) serve(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: %s takes no arguments", errArgCount, config.CmdServe)
	}
	svc, err := c.service()
	if err != nil {
		return err
	}
	return svc.Run(ctx)
}

func (c *cli) service() (*app.Service, error) {
	s, err := c.settings()
	if err != nil {
		return nil, err
	}
	return app.New(s)
}

func (c *cli) printConvert(res server.ConvertResult) error {
	if c.json {
		return c.writeJSON(res)
	}
	return c.table(func(tw io.Writer) {
		fmt.Fprintf(tw, "%s\t%s\n", c.tr.Msg(config.TKeyLblSolar), res.Solar)
		fmt.Fprintf(tw, "%s\t%s\n", c.tr.Msg(config.TKeyLblLunar), res.Lunar)
		fmt.Fprintf(tw, "\t%s\n", res.Formatted)
		fmt.Fprintf(tw, "%s\t%s\n", c.tr.Msg(config.TKeyLblCanChiYear), res.CanChiYear.Label)
		fmt.Fprintf(tw, "%s\t%s\n", c.tr.Msg(config.TKeyLblAnimal), res.Animal)
	})
}

func (c *cli) table(rows func(tw io.Writer)) error {
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	rows(tw)
	return tw.Flush()
}

func (c *cli) writeJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ints parses exactly n integer arguments.
func ints(args []string, n int) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%w: want %d, got %d", errArgCount, n, len(args))
	}
	out := make([]int, n)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", errBadArg, a)
		}
		out[i] = v
	}
	return out, nil
}
