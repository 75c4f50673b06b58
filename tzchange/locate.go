package tzchange

import (
	"sort"
	"time"
)

// ActiveAt returns the record in effect at t and its index: the latest
// record whose Instant is at or before t. A change taking effect exactly
// at t is already active. When t precedes every record, def is returned
// with index -1.
func ActiveAt(records []Record, t time.Time, def Record) (Record, int) {
	i := sort.Search(len(records), func(i int) bool {
		return records[i].Instant.After(t)
	})
	if i == 0 {
		return def, -1
	}
	return records[i-1], i - 1
}

// ActiveAt returns the record in effect at t, or the sequence default
// with index -1.
func (s *Sequence) ActiveAt(t time.Time) (Record, int) {
	return ActiveAt(s.Records, t, s.Default)
}

// StandardOffset returns the standard-time offset that goes with the
// record at index active: the active record itself when it is not DST,
// otherwise the nearest standard record before it, then def, then the
// nearest standard record after it.
func StandardOffset(records []Record, active int, def Record) int {
	if active < 0 {
		if !def.IsDST {
			return def.Offset
		}
	} else if !records[active].IsDST {
		return records[active].Offset
	}
	for i := active - 1; i >= 0; i-- {
		if !records[i].IsDST {
			return records[i].Offset
		}
	}
	if !def.IsDST {
		return def.Offset
	}
	for i := active + 1; i < len(records); i++ {
		if !records[i].IsDST {
			return records[i].Offset
		}
	}
	// Permanent daylight time: there is no standard offset to report.
	if active >= 0 {
		return records[active].Offset
	}
	return def.Offset
}
