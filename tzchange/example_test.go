package tzchange_test

import (
	"fmt"
	"time"

	"github.com/tzparse/tzchange"
)

func newYork() *tzchange.Sequence {
	est := func(t time.Time) tzchange.Record {
		return tzchange.Record{Instant: t, Offset: -18000, Abbreviation: "EST"}
	}
	edt := func(t time.Time) tzchange.Record {
		return tzchange.Record{Instant: t, Offset: -14400, IsDST: true, Abbreviation: "EDT"}
	}
	return tzchange.NewSequence("America/New_York", []tzchange.Record{
		edt(time.Date(2023, time.March, 12, 7, 0, 0, 0, time.UTC)),
		est(time.Date(2023, time.November, 5, 6, 0, 0, 0, time.UTC)),
		edt(time.Date(2024, time.March, 10, 7, 0, 0, 0, time.UTC)),
		est(time.Date(2024, time.November, 3, 6, 0, 0, 0, time.UTC)),
	}, tzchange.Record{Offset: -17762, Abbreviation: "LMT"})
}

func ExampleSequence_InYear() {
	for _, r := range newYork().InYear(2024) {
		fmt.Println(r)
	}
	// Output:
	// 2024-03-10T07:00:00Z -04:00 dst EDT
	// 2024-11-03T06:00:00Z -05:00 std EST
}

func ExampleSequence_SnapshotAt() {
	s := newYork().SnapshotAt(time.Date(2024, time.July, 4, 16, 0, 0, 0, time.UTC))
	fmt.Println(s.Local.Format(time.RFC3339), s.Abbreviation, s.UTCOffset)
	fmt.Println(s.DSTFrom.Format(time.RFC3339), s.DSTUntil.Format(time.RFC3339))
	fmt.Println(s.RawOffset, s.DSTOffset, s.WeekNumber)
	// Output:
	// 2024-07-04T12:00:00-04:00 EDT -04:00
	// 2024-03-10T07:00:00Z 2024-11-03T06:00:00Z
	// -18000 -14400 27
}

func ExampleFormatOffset() {
	fmt.Println(tzchange.FormatOffset(19800))
	fmt.Println(tzchange.FormatOffset(-561))
	// Output:
	// +05:30
	// -00:09:21
}
