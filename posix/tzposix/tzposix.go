// Package tzposix decodes the POSIX TZ strings found in the footer of
// TZif files, such as "CET-1CEST,M3.5.0,M10.5.0/3", and expands their
// daylight saving rules into concrete transitions for a given year.
package tzposix

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

func getTZRegex() string {
	// A basic regex to capture the main parts:
	// 1. Standard Time Abbr (STD)
	// 2. STD Offset
	// 3. Optional DST Abbr (DST)
	// 4. Optional DST Offset (assumed +1 hour if absent)
	// 5. Optional DST Start Rule
	// 6. Optional DST End Rules
	rstr := `^(?<StdName>[[:alpha:]]{3,}|<[[:alnum:]+-]+>)` +
		`(?<StdOffset>[-+]?[0-9]+(?::[0-9]+){0,2})` +
		`(?<DstName>[[:alpha:]]{3,}|<[[:alnum:]+-]+>)?` +
		`(?<DstOffset>[-+]?[0-9]+(?::[0-9]+){0,2})?` +
		`,?(?<StartRule>(?:J?[0-9]+|M[0-9]+(?:\.[0-9]+){0,2})(?:/[+-]?[0-9]+(?::[0-9]+){0,2})?)?` +
		`,?(?<EndRule>(?:J?[0-9]+|M[0-9]+(?:\.[0-9]+){0,2})(?:/[+-]?[0-9]+(?::[0-9]+){0,2})?)?$`
	return rstr
}

var tzRegex = regexp.MustCompile(getTZRegex())

// RuleKind tells how a DateRule names its day.
type RuleKind int

const (
	// JulianDay is "Jn": day n in 1..365, February 29 is never counted.
	JulianDay RuleKind = iota
	// DayOfYear is "n": zero-based day n in 0..365, February 29 is counted.
	DayOfYear
	// MonthWeekDay is "Mm.w.d": day d (0 = Sunday) of week w (5 = last) of month m.
	MonthWeekDay
)

// maxRuleTime is the largest rule time allowed by the RFC 9636 extension
// to POSIX: 167 hours.
const maxRuleTime = 167 * 3600

// defaultRuleTime is used when a rule has no "/time" part.
const defaultRuleTime = 2 * 3600

// A DateRule is one of the two halves of a DST rule.
type DateRule struct {
	Kind  RuleKind
	Day   int
	Week  int
	Month int
	Time  int // seconds after local midnight; may be negative or exceed a day
}

// A Rule is a decoded POSIX TZ string. Offsets are seconds east of UTC,
// the opposite sign of the string itself.
type Rule struct {
	StdName   string
	StdOffset int
	DstName   string // empty when the zone does not observe daylight time
	DstOffset int
	Start     DateRule
	End       DateRule

	explicit bool // Start and End came from the string rather than the US default
}

// A Change is a transition produced by a Rule.
type Change struct {
	At           time.Time
	Offset       int
	IsDST        bool
	Abbreviation string
}

// ErrInvalid is wrapped by every error Parse returns.
var ErrInvalid = errors.New("invalid POSIX TZ string")

// usDefault is the rule applied when a DST name has no rules, as POSIX and
// the time package do.
var usDefault = [2]DateRule{
	{Kind: MonthWeekDay, Month: 3, Week: 2, Day: 0, Time: defaultRuleTime},
	{Kind: MonthWeekDay, Month: 11, Week: 1, Day: 0, Time: defaultRuleTime},
}

// Parse decodes posixTZ.
func Parse(posixTZ string) (Rule, error) {
	matches := tzRegex.FindStringSubmatch(posixTZ)
	if matches == nil {
		return Rule{}, fmt.Errorf("%w: %s", ErrInvalid, posixTZ)
	}

	stdAbbr := matches[1]
	stdOffsetStr := matches[2]
	dstAbbr := matches[3]
	dstOffsetStr := matches[4]
	startRule := matches[5]
	endRule := matches[6]

	stdOffset, err := parseOffset(stdOffsetStr)
	if err != nil {
		return Rule{}, fmt.Errorf("%w: standard offset: %w", ErrInvalid, err)
	}
	r := Rule{StdName: unquote(stdAbbr), StdOffset: -stdOffset}

	if dstAbbr == "" {
		if dstOffsetStr != "" || startRule != "" || endRule != "" {
			return Rule{}, fmt.Errorf("%w: daylight rules without daylight name: %s", ErrInvalid, posixTZ)
		}
		return r, nil
	}
	r.DstName = unquote(dstAbbr)

	// DST is one hour ahead of standard time unless stated otherwise.
	r.DstOffset = r.StdOffset + 3600
	if dstOffsetStr != "" {
		dstOffset, err := parseOffset(dstOffsetStr)
		if err != nil {
			return Rule{}, fmt.Errorf("%w: daylight offset: %w", ErrInvalid, err)
		}
		r.DstOffset = -dstOffset
	}

	switch {
	case startRule == "" && endRule == "":
		r.Start, r.End = usDefault[0], usDefault[1]
	case startRule == "" || endRule == "":
		return Rule{}, fmt.Errorf("%w: stand alone rule: %s", ErrInvalid, posixTZ)
	default:
		if r.Start, err = parseDateRule(startRule); err != nil {
			return Rule{}, fmt.Errorf("%w: start rule: %w", ErrInvalid, err)
		}
		if r.End, err = parseDateRule(endRule); err != nil {
			return Rule{}, fmt.Errorf("%w: end rule: %w", ErrInvalid, err)
		}
		r.explicit = true
	}
	return r, nil
}

// HasDST reports whether the rule observes daylight time.
func (r Rule) HasDST() bool {
	return r.DstName != ""
}

// Transitions returns the rule's changes during year in UTC order:
// entering DST and leaving it, swapped for the southern hemisphere.
// A rule without DST has no transitions.
func (r Rule) Transitions(year int) []Change {
	if !r.HasDST() {
		return nil
	}
	// The start rule is given in standard time, the end rule in daylight time.
	start := Change{
		At:           r.Start.instant(year, r.StdOffset),
		Offset:       r.DstOffset,
		IsDST:        true,
		Abbreviation: r.DstName,
	}
	end := Change{
		At:           r.End.instant(year, r.DstOffset),
		Offset:       r.StdOffset,
		Abbreviation: r.StdName,
	}
	if end.At.Before(start.At) {
		return []Change{end, start}
	}
	return []Change{start, end}
}

// instant returns the UTC instant the rule names in year, for a local
// clock running offset seconds east of UTC.
func (d DateRule) instant(year, offset int) time.Time {
	var day time.Time
	switch d.Kind {
	case JulianDay:
		n := d.Day - 1
		if isLeap(year) && d.Day >= 60 {
			n++
		}
		day = time.Date(year, time.January, 1+n, 0, 0, 0, 0, time.UTC)
	case DayOfYear:
		day = time.Date(year, time.January, 1+d.Day, 0, 0, 0, 0, time.UTC)
	case MonthWeekDay:
		month := time.Month(d.Month)
		first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		dom := 1 + (d.Day-int(first.Weekday())+7)%7
		days := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
		for i := 1; i < d.Week; i++ {
			if dom+7 > days {
				break
			}
			dom += 7
		}
		day = time.Date(year, month, dom, 0, 0, 0, 0, time.UTC)
	}
	return day.Add(time.Duration(d.Time-offset) * time.Second)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// parseDateRule decodes "Jn", "n" or "Mm.w.d", each optionally followed by "/time".
func parseDateRule(rule string) (DateRule, error) {
	d := DateRule{Time: defaultRuleTime}
	date, timeStr, hasTime := strings.Cut(rule, "/")
	if hasTime {
		t, err := parseOffset(timeStr)
		if err != nil {
			return d, err
		}
		if t > maxRuleTime || t < -maxRuleTime {
			return d, fmt.Errorf("rule time out of range: %s", rule)
		}
		d.Time = t
	}

	switch {
	case strings.HasPrefix(date, "M"):
		parts := strings.Split(strings.TrimPrefix(date, "M"), ".")
		if len(parts) != 3 {
			return d, fmt.Errorf("want Mm.w.d: %s", rule)
		}
		d.Kind = MonthWeekDay
		d.Month, d.Week, d.Day = atoi(parts[0]), atoi(parts[1]), atoi(parts[2])
		if d.Month < 1 || d.Month > 12 || d.Week < 1 || d.Week > 5 || d.Day < 0 || d.Day > 6 {
			return d, fmt.Errorf("month, week or day out of range: %s", rule)
		}
	case strings.HasPrefix(date, "J"):
		d.Kind = JulianDay
		d.Day = atoi(strings.TrimPrefix(date, "J"))
		if d.Day < 1 || d.Day > 365 {
			return d, fmt.Errorf("julian day out of range: %s", rule)
		}
	default:
		d.Kind = DayOfYear
		d.Day = atoi(date)
		if d.Day < 0 || d.Day > 365 {
			return d, fmt.Errorf("day of year out of range: %s", rule)
		}
	}
	return d, nil
}

// DecodeTZ returns one-line descriptions of the standard time, the
// daylight time and the rules of posixTZ. The daylight parts are empty
// for zones without DST.
func DecodeTZ(posixTZ string) (string, string, string, error) {
	r, err := Parse(posixTZ)
	if err != nil {
		return "", "", "", err
	}
	stdDesc := fmt.Sprintf("%s (UTC%s)", quote(r.StdName), formatOffset(r.StdOffset))
	if !r.HasDST() {
		return stdDesc, "", "", nil
	}
	dstDesc := fmt.Sprintf("%s (UTC%s)", quote(r.DstName), formatOffset(r.DstOffset))
	rulesDesc := ""
	if r.explicit {
		rulesDesc = fmt.Sprintf("Starts %s, Ends %s", describeRule(r.Start), describeRule(r.End))
	}
	return stdDesc, dstDesc, rulesDesc, nil
}

// HumanReadableTZ parses a POSIX TZ string and returns a human-readable description.
// It handles a common format like "EST5EDT,M3.2.0/02:00:00,M11.1.0/02:00:00"
func HumanReadableTZ(posixTZ string) (string, error) {
	std, dst, rules, err := DecodeTZ(posixTZ)
	if err != nil {
		return "", err
	}
	stdDesc := "Standard Time: " + std
	if dst == "" {
		return stdDesc + "\n(No Daylight Saving Time rules)", nil
	}
	dstDesc := "Daylight Time: " + dst
	if rules != "" {
		rules = "\nRules: " + rules
	}
	return fmt.Sprintf("%s\n%s%s", stdDesc, dstDesc, rules), nil
}

// parseOffset converts a POSIX offset string (e.g., "5", "-10:30") to seconds.
// The sign is kept as written: POSIX offsets count west of Greenwich, so
// "EST5" is 5 hours behind UTC.
func parseOffset(offsetStr string) (int, error) {
	sign := 1
	if strings.HasPrefix(offsetStr, "+") {
		offsetStr = strings.TrimPrefix(offsetStr, "+")
	} else if strings.HasPrefix(offsetStr, "-") {
		offsetStr = strings.TrimPrefix(offsetStr, "-")
		sign = -1
	}

	parts := strings.Split(offsetStr, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("too many fields in offset %q", offsetStr)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, err
	}
	minutes := 0
	if len(parts) > 1 {
		minutes, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, err
		}
	}
	seconds := 0
	if len(parts) > 2 {
		seconds, err = strconv.Atoi(parts[2])
		if err != nil {
			return 0, err
		}
	}
	if minutes > 59 || seconds > 59 {
		return 0, fmt.Errorf("minutes or seconds out of range in offset %q", offsetStr)
	}
	return sign * (hours*3600 + minutes*60 + seconds), nil
}

// formatOffset converts seconds east of UTC to " +HH:MM" or " -HH:MM:SS".
func formatOffset(offsetSeconds int) string {
	sign := "+"
	if offsetSeconds < 0 {
		sign = "-"
		offsetSeconds = -offsetSeconds
	}

	hours := offsetSeconds / 3600
	minutes := (offsetSeconds % 3600) / 60
	seconds := (offsetSeconds % 3600) % 60
	if seconds != 0 {
		return fmt.Sprintf(" %s%02d:%02d:%02d", sign, hours, minutes, seconds)
	}
	return fmt.Sprintf(" %s%02d:%02d", sign, hours, minutes)
}

// formatRuleTime renders a rule time; hours may exceed 23 or be negative.
func formatRuleTime(t int) string {
	if t == 24*3600 {
		return "midnight of the next day"
	}
	sign := ""
	if t < 0 {
		sign = "-"
		t = -t
	}
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, t/3600, t%3600/60, t%60)
}

var (
	months   = []string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"}
	weekDesc = []string{"", "first", "second", "third", "fourth", "last"}
)

// describeRule converts a DateRule to a description such as
// "on the last Sunday of March at 02:00:00".
func describeRule(d DateRule) string {
	switch d.Kind {
	case MonthWeekDay:
		return fmt.Sprintf("on the %s %s of %s at %s",
			weekDesc[d.Week], time.Weekday(d.Day), months[d.Month-1], formatRuleTime(d.Time))
	case JulianDay:
		if d.Day == 365 && d.Time == 25*3600 {
			// Permanent DST zones end the rule one hour into next year.
			return "at the end of the year"
		}
		return fmt.Sprintf("on Julian Day %d at %s", d.Day, formatRuleTime(d.Time))
	default:
		if d.Day == 0 && d.Time == 0 {
			return "from the start of the year"
		}
		return fmt.Sprintf("on day %d of the year at %s", d.Day, formatRuleTime(d.Time))
	}
}

func unquote(name string) string {
	return strings.TrimSuffix(strings.TrimPrefix(name, "<"), ">")
}

func quote(name string) string {
	for _, c := range name {
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return "<" + name + ">"
		}
	}
	return name
}

func atoi(s string) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return -1
}
