// Command tzparse prints the offset changes of IANA time zones and
// describes their current state, reading the system zoneinfo files.
//
//	tzparse Europe/Paris                  changes of the current year
//	tzparse -y 2019 Europe/Paris          changes of 2019
//	tzparse -a America/New_York           every recorded change
//	tzparse -i -f json Asia/Tokyo         offset, abbreviation and DST window now
//	tzparse --list -f yaml                every zone with its aliases
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/tzparse/posix/tzposix"
	"github.com/tzparse/rfc9636"
	"github.com/tzparse/tzchange"
	"github.com/tzparse/tzdb"
)

// Changes is the output for one zone argument when listing changes. Year
// is zero when every year was asked for.
type Changes struct {
	Zone    string            `json:"zone" yaml:"zone"`
	Year    int               `json:"year,omitempty" yaml:"year,omitempty"`
	Changes []tzchange.Record `json:"changes" yaml:"changes"`
}

type options struct {
	year          int
	all           bool
	info          bool
	at            string
	format        string
	zoneinfo      string
	extendThrough int
	list          bool
	dump          bool
}

func fatal(logger *slog.Logger, msg string, args ...any) int {
	logger.Log(context.Background(), tzdb.LevelFatal, msg, args...)
	return 1
}

// newLogger writes text logs to w, naming the Trace and Fatal levels.
func newLogger(w io.Writer, level *slog.LevelVar) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key != slog.LevelKey {
				return a
			}
			lv, ok := a.Value.Any().(slog.Level)
			if !ok || len(groups) > 0 {
				return a
			}
			switch lv {
			case tzdb.LevelTrace:
				a.Value = slog.StringValue("TRACE")
			case tzdb.LevelFatal:
				a.Value = slog.StringValue("FATAL")
			}
			return a
		},
	}))
}

func run(args []string, stdout, stderr io.Writer) int {
	level := new(slog.LevelVar)
	logger := newLogger(stderr, level)

	cfg, err := tzdb.ConfigFromEnv()
	if err != nil {
		return fatal(logger, "Error loading configuration", "error", err)
	}
	if lv, err := tzdb.ParseLevel(cfg.LogLevel); err == nil {
		level.Set(lv)
	}

	var opts options
	flags := pflag.NewFlagSet("tzparse", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintln(stderr, "Usage: tzparse [flags] zone...")
		flags.PrintDefaults()
	}
	flags.FuncP("loglevel", "l", "Set loglevel to trace, debug, info, warning, error or fatal", func(value string) error {
		lv, err := tzdb.ParseLevel(value)
		if err != nil {
			return err
		}
		level.Set(lv)
		cfg.LogLevel = value
		return nil
	})
	flags.IntVarP(&opts.year, "year", "y", 0, "year to list changes for, 0 for the current year")
	flags.BoolVarP(&opts.all, "all", "a", false, "list every recorded change")
	flags.BoolVarP(&opts.info, "info", "i", false, "describe the zone instead of listing changes")
	flags.StringVarP(&opts.at, "at", "t", "", "RFC 3339 instant to describe with --info, default now")
	flags.StringVarP(&opts.format, "format", "f", "text", "output format: text, json or yaml")
	flags.StringVarP(&opts.zoneinfo, "zoneinfo", "z", cfg.ZoneinfoDir, "zoneinfo directory, default $TZDIR or the system directories")
	flags.IntVarP(&opts.extendThrough, "extend-through", "e", cfg.ExtendThrough, "expand footer rules through this year, 0 to disable")
	flags.BoolVar(&opts.list, "list", false, "list every zone of the database")
	flags.BoolVar(&opts.dump, "dump", false, "dump the decoded zone files")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		flags.Usage()
		return 2
	}

	switch opts.format {
	case "text", "json", "yaml":
	default:
		return fatal(logger, "Unknown output format", "format", opts.format)
	}

	cfg.ZoneinfoDir = opts.zoneinfo
	cfg.ExtendThrough = opts.extendThrough
	if err := cfg.Validate(); err != nil {
		return fatal(logger, "Invalid configuration", "error", err)
	}
	db := tzdb.New(cfg, tzdb.WithLogger(logger))

	if opts.list {
		return listZones(db, opts.format, stdout, logger)
	}

	zones := flags.Args()
	if len(zones) == 0 {
		flags.Usage()
		return 2
	}
	if opts.dump {
		return dumpZones(zones, db.Sources(), stdout, logger)
	}

	now := db.Now()
	if opts.at != "" {
		if now, err = time.Parse(time.RFC3339, opts.at); err != nil {
			return fatal(logger, "Invalid --at instant", "at", opts.at, "error", err)
		}
	}
	year := opts.year
	if year == 0 {
		year = now.Year()
	}

	status := 0
	results := make([]any, 0, len(zones))
	for _, zone := range zones {
		var (
			result any
			ok     bool
		)
		switch {
		case opts.info:
			result, ok = db.ZoneInfoAt(zone, now)
		case opts.all:
			c := Changes{Zone: zone}
			c.Changes, ok = db.AllTimeChanges(zone)
			result = c
		default:
			c := Changes{Zone: zone, Year: year}
			c.Changes, ok = db.TimeChanges(zone, year)
			result = c
		}
		if !ok {
			logger.Error("Unknown timezone", "timezone", zone)
			status = 1
			continue
		}
		tzdb.Trace(logger, "resolved zone", "timezone", zone)
		results = append(results, result)
	}

	if err := write(stdout, opts.format, results, writeText); err != nil {
		return fatal(logger, "Error writing output", "error", err)
	}
	return status
}

// write renders v as JSON or YAML, or with text for the text format.
func write[T any](w io.Writer, format string, v T, text func(io.Writer, T) error) error {
	switch format {
	case "json":
		jsonData, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling to JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(jsonData))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("marshaling to YAML: %w", err)
		}
		return enc.Close()
	default:
		return text(w, v)
	}
}

func writeText(w io.Writer, results []any) error {
	for _, result := range results {
		switch r := result.(type) {
		case tzchange.Snapshot:
			writeSnapshot(w, r)
		case Changes:
			scope := "all years"
			if r.Year != 0 {
				scope = fmt.Sprint(r.Year)
			}
			fmt.Fprintf(w, "%s (%s)\n", r.Zone, scope)
			if len(r.Changes) == 0 {
				fmt.Fprintln(w, "  no changes")
			}
			for _, c := range r.Changes {
				fmt.Fprintf(w, "  %s\n", c)
			}
		}
	}
	return nil
}

func writeSnapshot(w io.Writer, s tzchange.Snapshot) {
	instant := func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return t.Format(time.RFC3339)
	}
	fmt.Fprintf(w, "%-13s %s\n", "timezone:", s.Timezone)
	fmt.Fprintf(w, "%-13s %s\n", "utc_datetime:", s.UTC.Format(time.RFC3339))
	fmt.Fprintf(w, "%-13s %s\n", "datetime:", s.Local.Format(time.RFC3339))
	fmt.Fprintf(w, "%-13s %s\n", "dst_from:", instant(s.DSTFrom))
	fmt.Fprintf(w, "%-13s %s\n", "dst_until:", instant(s.DSTUntil))
	fmt.Fprintf(w, "%-13s %t\n", "dst_period:", s.DSTPeriod)
	fmt.Fprintf(w, "%-13s %d\n", "raw_offset:", s.RawOffset)
	fmt.Fprintf(w, "%-13s %d\n", "dst_offset:", s.DSTOffset)
	fmt.Fprintf(w, "%-13s %s\n", "utc_offset:", s.UTCOffset)
	fmt.Fprintf(w, "%-13s %s\n", "abbreviation:", s.Abbreviation)
	fmt.Fprintf(w, "%-13s %d\n", "week_number:", s.WeekNumber)
}

func listZones(db *tzdb.Database, format string, w io.Writer, logger *slog.Logger) int {
	zones, err := db.Zones()
	if err != nil {
		return fatal(logger, "Error listing zones", "error", err)
	}

	numAliases := 0
	keylen := 0
	for _, z := range zones {
		numAliases += len(z.Aliases)
		keylen = max(keylen, len(z.Name))
	}
	logger.Info("Statistics", "zoneinfos", len(zones), "aliases", numAliases, "total", len(zones)+numAliases)

	text := func(w io.Writer, zones []tzdb.ZoneEntry) error {
		for _, z := range zones {
			fmt.Fprintf(w, "%-*s DST: %-3s %+v Extend %s\n", keylen+3, z.Name, supportsDST(z.HasDST), z.Aliases, z.Extend)
			if z.Extend == "" {
				continue
			}
			description, err := tzposix.HumanReadableTZ(z.Extend)
			if err != nil {
				logger.Error("HumanReadableTZ failure", "extend", z.Extend, "error", err)
				continue
			}
			fmt.Fprintln(w, description)
		}
		return nil
	}
	if err := write(w, format, zones, text); err != nil {
		return fatal(logger, "Error writing output", "error", err)
	}
	return 0
}

func supportsDST(hasDST bool) string {
	if hasDST {
		return "yes"
	}
	return "no"
}

func dumpZones(zones, sources []string, w io.Writer, logger *slog.Logger) int {
	status := 0
	for _, zone := range zones {
		loc, err := rfc9636.LoadLocation(zone, sources)
		if err != nil {
			logger.Error("Cannot load zone", "timezone", zone, "error", err)
			status = 1
			continue
		}
		rfc9636.DumpLocation(w, loc)
	}
	return status
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
