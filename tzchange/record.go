// Package tzchange answers questions about a zone's transition table:
// which offset changes fall in a year, which one is in effect at an
// instant, and which daylight saving period is the relevant one to report.
//
// Everything here is a pure function over a Sequence that the caller has
// already decoded; nothing reads files or the clock. A Sequence is never
// modified after construction, so queries may run concurrently.
//
//	seq := tzchange.NewSequence("Europe/Paris", records, def)
//	seq.InYear(2019)             // the two 2019 changes
//	seq.SnapshotAt(time.Now())   // offset, abbreviation and DST window now
package tzchange

import (
	"fmt"
	"time"
)

// Record is one entry of a zone's transition table: from Instant on, the
// zone observes Offset seconds east of UTC under Abbreviation.
type Record struct {
	Instant      time.Time `json:"time" yaml:"time"`
	Offset       int       `json:"gmtoff" yaml:"gmtoff"`
	IsDST        bool      `json:"isdst" yaml:"isdst"`
	Abbreviation string    `json:"abbreviation" yaml:"abbreviation"`
}

func (r Record) String() string {
	kind := "std"
	if r.IsDST {
		kind = "dst"
	}
	return fmt.Sprintf("%s %s %s %s", r.Instant.UTC().Format(time.RFC3339), FormatOffset(r.Offset), kind, r.Abbreviation)
}

// Sequence is the transition table of one zone, ascending by Instant.
type Sequence struct {
	Zone    string
	Records []Record

	// Default is the state in effect before Records[0]. For a whole table
	// it is the zone's first standard local time type and has a zero
	// Instant; for a Year sub-sequence it is the last record before the year.
	Default Record

	// parent is the whole table a Year sub-sequence was cut from, and
	// Records[0] sits at parent.Records[first].
	parent *Sequence
	first  int
}

// whole maps an index into Records, -1 included, to the whole table.
func (s *Sequence) whole(i int) (*Sequence, int) {
	if s.parent == nil {
		return s, i
	}
	return s.parent, s.first + i
}

// NewSequence wraps records, which must already be sorted by Instant.
func NewSequence(zone string, records []Record, def Record) *Sequence {
	return &Sequence{Zone: zone, Records: records, Default: def}
}
