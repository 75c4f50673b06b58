package tzchange

import (
	"slices"
	"time"
)

// YearBounds returns the half-open UTC interval [start, end) of year.
func YearBounds(year int) (start, end time.Time) {
	start = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, end
}

// searchInstant returns the index of the first record at or after t.
func searchInstant(records []Record, t time.Time) int {
	i, _ := slices.BinarySearchFunc(records, t, func(r Record, t time.Time) int {
		return r.Instant.Compare(t)
	})
	return i
}

// yearRange returns the index range of the records falling in year.
func yearRange(records []Record, year int) (lo, hi int) {
	start, end := YearBounds(year)
	return searchInstant(records, start), searchInstant(records, end)
}

// InYear returns a copy of the records whose instant falls in year, in
// order. The result is empty but never nil when the year has no changes.
func InYear(records []Record, year int) []Record {
	lo, hi := yearRange(records, year)
	out := make([]Record, hi-lo)
	copy(out, records[lo:hi])
	return out
}

// InYear returns the changes recorded during year.
func (s *Sequence) InYear(year int) []Record {
	return InYear(s.Records, year)
}

// All returns a copy of every recorded change.
func (s *Sequence) All() []Record {
	out := make([]Record, len(s.Records))
	copy(out, s.Records)
	return out
}

// Year returns the changes of year as a sequence of its own. Its Default
// is the last change before the year, so lookups inside a year without
// changes still find the offset that was in effect. DST windows and the
// standard offset are still resolved against the whole table.
func (s *Sequence) Year(year int) *Sequence {
	lo, hi := yearRange(s.Records, year)
	def := s.Default
	if lo > 0 {
		def = s.Records[lo-1]
	}
	sub := NewSequence(s.Zone, InYear(s.Records[lo:hi], year), def)
	sub.parent, sub.first = s.whole(lo)
	return sub
}
