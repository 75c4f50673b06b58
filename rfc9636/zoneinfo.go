// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// https://github.com/golang/go/blob/master/src/time/zoneinfo.go

package rfc9636

import (
	"fmt"
	"io"
	"time"
)

// A Location is the decoded content of one TZif file: the local time
// types of a zone and the transitions between them.
//
// Location is read-only once returned by LoadLocationFromTZData and is
// safe to share between goroutines.
type Location struct {
	name string
	zone []Zone
	tx   []Transition

	// The tzdata information can be followed by a string that describes
	// how to handle DST transitions not recorded in tx.
	// The format is the TZ environment variable without a colon; see
	// https://pubs.opengroup.org/onlinepubs/9699919799/basedefs/V1_chap08.html.
	// Example string, for America/Los_Angeles: PST8PDT,M3.2.0,M11.1.0
	extend string
}

// A Zone is a local time type such as CET.
type Zone struct {
	Name   string // abbreviated name, "CET"
	Offset int    // seconds east of UTC
	IsDST  bool   // is this zone Daylight Savings Time?
}

// A Transition is a single time zone transition.
type Transition struct {
	When         int64 // transition time, in seconds since 1970 GMT
	Index        uint8 // the index of the zone that goes into effect at that time
	IsStd, IsUTC bool  // how the transition was specified in the source rules
}

// BigBang is the earliest transition time zic writes. Transitions at or
// before it are placeholders rather than real changes.
const BigBang = -1 << 59

func (l *Location) Name() string {
	return l.name
}

func (l *Location) Extend() string {
	return l.extend
}

// Zones returns the local time types. The slice must not be modified.
func (l *Location) Zones() []Zone {
	return l.zone
}

// Transitions returns the transitions in ascending time order. The slice
// must not be modified.
func (l *Location) Transitions() []Transition {
	return l.tx
}

// ZoneAt returns the local time type a transition switches to.
func (l *Location) ZoneAt(tx Transition) Zone {
	return l.zone[tx.Index]
}

// FirstZone returns the local time type in effect before the first
// transition, using the same rules as the time package:
//  1. If the first zone is unused by the transitions, it is the first zone.
//  2. Otherwise, if there are transition times and the first transition is
//     to a zone in daylight time, find the first non-daylight-time zone
//     before and closest to the first transition zone.
//  3. Otherwise, use the first zone that is not daylight time, if there is one.
//  4. Otherwise, use the first zone.
func (l *Location) FirstZone() Zone {
	if !l.firstZoneUsed() {
		return l.zone[0]
	}

	if len(l.tx) > 0 && l.zone[l.tx[0].Index].IsDST {
		for zi := int(l.tx[0].Index) - 1; zi >= 0; zi-- {
			if !l.zone[zi].IsDST {
				return l.zone[zi]
			}
		}
	}

	for _, z := range l.zone {
		if !z.IsDST {
			return z
		}
	}

	return l.zone[0]
}

func (l *Location) firstZoneUsed() bool {
	for _, tx := range l.tx {
		if tx.Index == 0 {
			return true
		}
	}
	return false
}

// DumpLocation writes every local time type and transition of loc to w.
func DumpLocation(w io.Writer, loc *Location) {
	fmt.Fprintln(w, "Name:", loc.name)
	fmt.Fprintln(w, "Zone[", len(loc.zone), "]")
	for i, zone := range loc.zone {
		fmt.Fprintf(w, "  [%d]: %+v\n", i, zone)
	}
	fmt.Fprintln(w, "Transition[", len(loc.tx), "]")
	for i, tx := range loc.tx {
		when := "big bang"
		if tx.When > BigBang {
			when = time.Unix(tx.When, 0).UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(w, "  [%d]: %s %+v\n", i, when, tx)
	}
	fmt.Fprintln(w, "Extend:", loc.extend)
}
