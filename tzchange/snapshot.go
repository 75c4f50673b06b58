package tzchange

import (
	"fmt"
	"time"
)

// Snapshot is a human-readable view of a zone at one instant.
type Snapshot struct {
	Timezone     string     `json:"timezone" yaml:"timezone"`
	UTC          time.Time  `json:"utc_datetime" yaml:"utc_datetime"`
	Local        time.Time  `json:"datetime" yaml:"datetime"`
	DSTFrom      *time.Time `json:"dst_from" yaml:"dst_from"`
	DSTUntil     *time.Time `json:"dst_until" yaml:"dst_until"`
	DSTPeriod    bool       `json:"dst_period" yaml:"dst_period"`
	RawOffset    int        `json:"raw_offset" yaml:"raw_offset"`
	DSTOffset    int        `json:"dst_offset" yaml:"dst_offset"`
	UTCOffset    string     `json:"utc_offset" yaml:"utc_offset"`
	Abbreviation string     `json:"abbreviation" yaml:"abbreviation"`
	WeekNumber   int        `json:"week_number" yaml:"week_number"`
}

// NewSnapshot assembles the view of zone at now from the active record,
// the zone's standard offset and the resolved DST window.
func NewSnapshot(zone string, active Record, rawOffset int, w Window, now time.Time) Snapshot {
	dstOffset := rawOffset
	if active.IsDST {
		dstOffset = active.Offset
	}
	local := now.In(time.FixedZone(active.Abbreviation, active.Offset))
	_, week := local.ISOWeek()
	return Snapshot{
		Timezone:     zone,
		UTC:          now.UTC(),
		Local:        local,
		DSTFrom:      w.From,
		DSTUntil:     w.Until,
		DSTPeriod:    active.IsDST,
		RawOffset:    rawOffset,
		DSTOffset:    dstOffset,
		UTCOffset:    FormatOffset(active.Offset),
		Abbreviation: active.Abbreviation,
		WeekNumber:   week,
	}
}

// SnapshotAt locates the record in effect at now and assembles its snapshot.
func (s *Sequence) SnapshotAt(now time.Time) Snapshot {
	active, i := s.ActiveAt(now)
	whole, j := s.whole(i)
	raw := StandardOffset(whole.Records, j, whole.Default)
	return NewSnapshot(s.Zone, active, raw, whole.DSTWindow(j), now)
}

// FormatOffset renders seconds east of UTC as "+HH:MM", or "+HH:MM:SS"
// for offsets with a seconds part such as local mean time.
func FormatOffset(offset int) string {
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	if offset%60 != 0 {
		return fmt.Sprintf("%c%02d:%02d:%02d", sign, offset/3600, offset%3600/60, offset%60)
	}
	return fmt.Sprintf("%c%02d:%02d", sign, offset/3600, offset%3600/60)
}
