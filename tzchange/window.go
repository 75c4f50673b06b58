package tzchange

import "time"

// Window is the daylight saving period worth reporting at some instant.
// Both bounds are nil when the zone has not observed DST so far. From
// without Until means the table ends while still in DST.
type Window struct {
	From  *time.Time `json:"from" yaml:"from"`
	Until *time.Time `json:"until" yaml:"until"`
}

// DSTWindow resolves the window for the record at index active.
//
// Inside DST the window runs from the active record to the next standard
// record after it. Outside DST it is the last completed period: the most
// recent DST record before active and the first standard record after
// that one. An active index of -1 has no window.
func DSTWindow(records []Record, active int) Window {
	if active < 0 || active >= len(records) {
		return Window{}
	}
	if records[active].IsDST {
		return Window{
			From:  instantAt(records, active),
			Until: instantAt(records, nextStandard(records, active+1)),
		}
	}
	for i := active - 1; i >= 0; i-- {
		if records[i].IsDST {
			return Window{
				From:  instantAt(records, i),
				Until: instantAt(records, nextStandard(records, i+1)),
			}
		}
	}
	return Window{}
}

// DSTWindow resolves the window for the record at index active. A Year
// sub-sequence searches the whole table it was cut from, so index -1
// reports the period of the last change before the year. On a hand-built
// sequence whose default is a dated DST record, index -1 reports the
// period that record started.
func (s *Sequence) DSTWindow(active int) Window {
	if whole, i := s.whole(active); whole != s {
		return whole.DSTWindow(i)
	}
	if active < 0 {
		if !s.Default.IsDST || s.Default.Instant.IsZero() {
			return Window{}
		}
		from := s.Default.Instant
		return Window{
			From:  &from,
			Until: instantAt(s.Records, nextStandard(s.Records, 0)),
		}
	}
	return DSTWindow(s.Records, active)
}

// nextStandard returns the index of the first non-DST record at or after
// from, or -1.
func nextStandard(records []Record, from int) int {
	for i := from; i < len(records); i++ {
		if !records[i].IsDST {
			return i
		}
	}
	return -1
}

func instantAt(records []Record, i int) *time.Time {
	if i < 0 {
		return nil
	}
	t := records[i].Instant
	return &t
}

// Contains reports whether t falls in [From, Until). An open Until
// extends to the end of the table. Callers holding a Snapshot use it to
// tell whether an instant shares the reported DST period.
func (w Window) Contains(t time.Time) bool {
	if w.From == nil || t.Before(*w.From) {
		return false
	}
	return w.Until == nil || t.Before(*w.Until)
}
