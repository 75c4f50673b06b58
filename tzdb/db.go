// Package tzdb resolves zone names against the system zoneinfo database
// and answers the tzchange queries for them.
//
// A Database holds configuration only. Every query reads and decodes the
// zone afresh, so a Database is safe for concurrent use.
package tzdb

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/tzparse/rfc9636"
	"github.com/tzparse/tzchange"
)

var (
	// ErrZoneNotFound means no source directory holds the zone.
	ErrZoneNotFound = errors.New("zone not found")
	// ErrMalformedData means the zone file exists but cannot be decoded.
	ErrMalformedData = errors.New("malformed zone data")
)

// Database answers transition queries for named zones.
type Database struct {
	sources       []string
	extendThrough int
	logger        *slog.Logger
	now           func() time.Time
}

// Option configures a Database.
type Option func(*Database)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(db *Database) {
		db.logger = logger
	}
}

// WithClock sets the source of the current time used by ZoneInfo and by
// the current-year queries.
func WithClock(now func() time.Time) Option {
	return func(db *Database) {
		db.now = now
	}
}

// New returns a Database for cfg.
func New(cfg Config, opts ...Option) *Database {
	db := &Database{
		sources:       cfg.Sources(),
		extendThrough: cfg.ExtendThrough,
		logger:        slog.Default(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Sources returns the zoneinfo roots the database searches.
func (db *Database) Sources() []string {
	return db.sources
}

// Now returns the database clock reading.
func (db *Database) Now() time.Time {
	return db.now()
}

// Load decodes zone and returns its transition table, extended by the
// zone's footer rule. The error wraps ErrZoneNotFound or ErrMalformedData
// when the zone is missing or undecodable.
func (db *Database) Load(zone string) (*tzchange.Sequence, error) {
	loc, err := rfc9636.LoadLocation(zone, db.sources)
	if err != nil {
		var pathErr *fs.PathError
		switch {
		case errors.Is(err, rfc9636.ErrUnknownZone):
			return nil, fmt.Errorf("%w: %w", ErrZoneNotFound, err)
		case errors.As(err, &pathErr):
			return nil, fmt.Errorf("load %s: %w", zone, err)
		default:
			return nil, fmt.Errorf("%w: %w", ErrMalformedData, err)
		}
	}
	return db.sequence(loc), nil
}

// sequence converts a decoded location into a transition table.
func (db *Database) sequence(loc *rfc9636.Location) *tzchange.Sequence {
	txs := loc.Transitions()
	records := make([]tzchange.Record, 0, len(txs))
	for _, tx := range txs {
		if tx.When <= rfc9636.BigBang {
			continue
		}
		z := loc.ZoneAt(tx)
		records = append(records, tzchange.Record{
			Instant:      time.Unix(tx.When, 0).UTC(),
			Offset:       z.Offset,
			IsDST:        z.IsDST,
			Abbreviation: z.Name,
		})
	}

	// The state before the table is reported as standard time.
	first := loc.FirstZone()
	def := tzchange.Record{Offset: first.Offset, Abbreviation: first.Name}

	extended, err := extend(records, def, loc.Extend(), db.extendThrough)
	if err != nil {
		db.logger.Warn("ignoring zone footer", "timezone", loc.Name(), "error", err)
	} else if n := len(extended) - len(records); n > 0 {
		Trace(db.logger, "extended zone from footer", "timezone", loc.Name(), "footer", loc.Extend(), "added", n)
	}
	return tzchange.NewSequence(loc.Name(), extended, def)
}

// lookup loads zone for a query that reports failure as a bool.
func (db *Database) lookup(zone string) (*tzchange.Sequence, bool) {
	seq, err := db.Load(zone)
	switch {
	case err == nil:
		return seq, true
	case errors.Is(err, ErrZoneNotFound):
		db.logger.Debug("zone not found", "timezone", zone, "sources", db.sources)
	default:
		db.logger.Warn("cannot load zone", "timezone", zone, "error", err)
	}
	return nil, false
}

// TimeChanges returns the changes of zone during year, oldest first. A
// year of 0 means the current year. The slice is empty, not nil, when the
// year has no changes; ok is false when the zone cannot be loaded.
func (db *Database) TimeChanges(zone string, year int) ([]tzchange.Record, bool) {
	seq, ok := db.lookup(zone)
	if !ok {
		return nil, false
	}
	if year == 0 {
		year = db.now().Year()
	}
	return seq.Year(year).Records, true
}

// AllTimeChanges returns every change recorded for zone.
func (db *Database) AllTimeChanges(zone string) ([]tzchange.Record, bool) {
	seq, ok := db.lookup(zone)
	if !ok {
		return nil, false
	}
	return seq.All(), true
}

// ZoneInfo describes zone at the current time.
func (db *Database) ZoneInfo(zone string) (tzchange.Snapshot, bool) {
	return db.ZoneInfoAt(zone, db.now())
}

// ZoneInfoAt describes zone at t.
func (db *Database) ZoneInfoAt(zone string, t time.Time) (tzchange.Snapshot, bool) {
	seq, ok := db.lookup(zone)
	if !ok {
		return tzchange.Snapshot{}, false
	}
	return ZoneInfoFrom(seq, t), true
}

// ZoneInfoFrom describes an already loaded sequence at now.
func ZoneInfoFrom(seq *tzchange.Sequence, now time.Time) tzchange.Snapshot {
	return seq.SnapshotAt(now)
}
