package tzdb

import (
	"fmt"

	"github.com/tzparse/posix/tzposix"
	"github.com/tzparse/tzchange"
)

// extend appends the changes described by footer after the last record of
// the table, through the end of year through.
//
// Footer changes at or before the table's last instant are dropped, as are
// changes that switch to the state already in effect. When two footer
// changes share an instant the later one wins.
func extend(records []tzchange.Record, def tzchange.Record, footer string, through int) ([]tzchange.Record, error) {
	if footer == "" || through == 0 {
		return records, nil
	}
	rule, err := tzposix.Parse(footer)
	if err != nil {
		return records, fmt.Errorf("footer %q: %w", footer, err)
	}
	if !rule.HasDST() {
		return records, nil
	}

	start := 1970
	tableLen := len(records)
	if tableLen > 0 {
		start = records[tableLen-1].Instant.Year()
	}
	for year := start; year <= through; year++ {
		for _, c := range rule.Transitions(year) {
			r := tzchange.Record{
				Instant:      c.At,
				Offset:       c.Offset,
				IsDST:        c.IsDST,
				Abbreviation: c.Abbreviation,
			}
			n := len(records)
			if tableLen > 0 && !r.Instant.After(records[tableLen-1].Instant) {
				continue
			}
			if n > tableLen && r.Instant.Equal(records[n-1].Instant) {
				records = records[:n-1]
				n--
			}
			prev := def
			if n > 0 {
				prev = records[n-1]
			}
			if sameState(prev, r) {
				continue
			}
			records = append(records, r)
		}
	}
	return records, nil
}

func sameState(a, b tzchange.Record) bool {
	return a.Offset == b.Offset && a.IsDST == b.IsDST && a.Abbreviation == b.Abbreviation
}
