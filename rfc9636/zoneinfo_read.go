// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Parse "zoneinfo" time zone file.
// This is a fairly standard file format used on OS X, Linux, BSD, Sun, and others.
// https://github.com/golang/go/blob/master/src/time/zoneinfo_read.go
// See tzfile(5), https://en.wikipedia.org/wiki/Zoneinfo,
// and RFC 9636.

package rfc9636

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// maxFileSize is the max permitted size of files read by LoadTzinfoFromDir.
// The largest zone files are a few KB, so 10MB is overkill.
const maxFileSize = 10 << 20

type fileSizeError string

func (f fileSizeError) Error() string {
	return "rfc9636: file " + string(f) + " is too large"
}

// Simple I/O interface to binary blob of data.
type dataIO struct {
	p     []byte
	error bool
}

func (d *dataIO) read(n int) []byte {
	if len(d.p) < n {
		d.p = nil
		d.error = true
		return nil
	}
	p := d.p[0:n]
	d.p = d.p[n:]
	return p
}

func (d *dataIO) big4() (n uint32, ok bool) {
	p := d.read(4)
	if len(p) < 4 {
		d.error = true
		return 0, false
	}
	return uint32(p[3]) | uint32(p[2])<<8 | uint32(p[1])<<16 | uint32(p[0])<<24, true
}

func (d *dataIO) big8() (n uint64, ok bool) {
	n1, ok1 := d.big4()
	n2, ok2 := d.big4()
	if !ok1 || !ok2 {
		d.error = true
		return 0, false
	}
	return (uint64(n1) << 32) | uint64(n2), true
}

func (d *dataIO) byte() (n byte, ok bool) {
	p := d.read(1)
	if len(p) < 1 {
		d.error = true
		return 0, false
	}
	return p[0], true
}

// rest returns the rest of the data in the buffer.
func (d *dataIO) rest() []byte {
	r := d.p
	d.p = nil
	return r
}

// Make a string by stopping at the first NUL
func byteString(p []byte) string {
	if i := bytes.IndexByte(p, 0); i != -1 {
		p = p[:i]
	}
	return string(p)
}

var (
	// ErrBadData is returned for data that is not a well-formed TZif file.
	ErrBadData = errors.New("malformed time zone information")

	// ErrUnknownZone is returned when no source holds a file for the zone.
	ErrUnknownZone = errors.New("unknown time zone")
)

// LoadLocationFromTZData returns a Location with the given name
// initialized from the IANA Time Zone database-formatted data.
// The data should be in the format of a standard IANA time zone file
// (for example, the content of /etc/localtime on Unix systems).
//
// Unlike the time package, a zone without transitions (Etc/GMT+5) gets
// an empty transition list instead of a fake one covering all time.
func LoadLocationFromTZData(name string, data []byte) (*Location, error) {
	d := dataIO{data, false}

	// 4-byte magic "TZif"
	if magic := d.read(4); string(magic) != "TZif" {
		return nil, ErrBadData
	}

	// 1-byte version, then 15 bytes of padding
	var version int
	p := d.read(16)
	if len(p) != 16 {
		return nil, ErrBadData
	}
	switch p[0] {
	case 0:
		version = 1
	case '2':
		version = 2
	case '3':
		version = 3
	case '4':
		version = 4
	default:
		return nil, ErrBadData
	}

	// six big-endian 32-bit integers:
	//	number of UTC/local indicators
	//	number of standard/wall indicators
	//	number of leap seconds
	//	number of transition times
	//	number of local time zones
	//	number of characters of time zone abbrev strings
	const (
		NUTCLocal = iota
		NStdWall
		NLeap
		NTime
		NZone
		NChar
	)
	var n [6]int
	for i := 0; i < 6; i++ {
		nn, ok := d.big4()
		if !ok {
			return nil, ErrBadData
		}
		if uint32(int(nn)) != nn {
			return nil, ErrBadData
		}
		n[i] = int(nn)
	}

	// If we have version 2 or later, then the data is first written out
	// in a 32-bit format, then written out again in a 64-bit format.
	// Skip the 32-bit format and read the 64-bit one, as it can
	// describe a broader range of dates.

	is64 := false
	if version > 1 {
		// Skip the 32-bit data.
		skip := n[NTime]*4 +
			n[NTime] +
			n[NZone]*6 +
			n[NChar] +
			n[NLeap]*8 +
			n[NStdWall] +
			n[NUTCLocal]
		// Skip the version 2 header that we just read.
		skip += 4 + 16
		d.read(skip)

		is64 = true

		// Read the counts again, they can differ.
		for i := 0; i < 6; i++ {
			nn, ok := d.big4()
			if !ok {
				return nil, ErrBadData
			}
			if uint32(int(nn)) != nn {
				return nil, ErrBadData
			}
			n[i] = int(nn)
		}
	}

	size := 4
	if is64 {
		size = 8
	}

	// Transition times.
	txtimes := dataIO{d.read(n[NTime] * size), false}

	// Time zone indices for transition times.
	txzones := d.read(n[NTime])

	// Zone info structures
	zonedata := dataIO{d.read(n[NZone] * 6), false}

	// Time zone abbreviations.
	abbrev := d.read(n[NChar])

	// Leap-second time pairs
	d.read(n[NLeap] * (size + 4))

	// Whether tx times associated with local time types
	// are specified as standard time or wall time.
	isstd := d.read(n[NStdWall])

	// Whether tx times associated with local time types
	// are specified as UTC or local time.
	isutc := d.read(n[NUTCLocal])

	if d.error { // ran out of data
		return nil, ErrBadData
	}

	var extend string
	rest := d.rest()
	if len(rest) > 2 && rest[0] == '\n' && rest[len(rest)-1] == '\n' {
		extend = string(rest[1 : len(rest)-1])
	}

	// Now we can build up a useful data structure.
	// First the zone information.
	//	utcoff[4] isdst[1] nameindex[1]
	nzone := n[NZone]
	if nzone == 0 {
		// Reject tzdata files with no zones. There's nothing useful in them.
		return nil, ErrBadData
	}
	zones := make([]Zone, nzone)
	for i := range zones {
		var ok bool
		var n uint32
		if n, ok = zonedata.big4(); !ok {
			return nil, ErrBadData
		}
		if uint32(int(n)) != n {
			return nil, ErrBadData
		}
		zones[i].Offset = int(int32(n))
		var b byte
		if b, ok = zonedata.byte(); !ok {
			return nil, ErrBadData
		}
		zones[i].IsDST = b != 0
		if b, ok = zonedata.byte(); !ok || int(b) >= len(abbrev) {
			return nil, ErrBadData
		}
		zones[i].Name = byteString(abbrev[b:])
	}

	// Now the transition time info.
	tx := make([]Transition, n[NTime])
	for i := range tx {
		var n int64
		if !is64 {
			n4, ok := txtimes.big4()
			if !ok {
				return nil, ErrBadData
			}
			n = int64(int32(n4))
		} else {
			n8, ok := txtimes.big8()
			if !ok {
				return nil, ErrBadData
			}
			n = int64(n8)
		}
		if i > 0 && n <= tx[i-1].When {
			// RFC 9636 requires strictly ascending transition times.
			return nil, ErrBadData
		}
		tx[i].When = n
		if int(txzones[i]) >= len(zones) {
			return nil, ErrBadData
		}
		tx[i].Index = txzones[i]
		if i < len(isstd) {
			tx[i].IsStd = isstd[i] != 0
		}
		if i < len(isutc) {
			tx[i].IsUTC = isutc[i] != 0
		}
	}

	return &Location{zone: zones, tx: tx, name: name, extend: extend}, nil
}

// LoadTzinfoFromDir returns the contents of the file with the given name
// in dir. A missing file or a directory reports fs.ErrNotExist.
func LoadTzinfoFromDir(dir, name string) ([]byte, error) {
	if dir != "" {
		name = filepath.Join(dir, name)
	}
	info, err := os.Stat(name)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	if info.Size() > maxFileSize {
		return nil, fileSizeError(name)
	}
	return os.ReadFile(name)
}

// validZoneName reports whether name can be joined to a source directory
// without escaping it.
func validZoneName(name string) bool {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." || part == "." || part == "" {
			return false
		}
	}
	return true
}

// LoadLocation returns the Location with the given name from the first of
// the source directories that holds it.
//
// The first error that is not a missing file is returned if no source
// succeeds; when every source simply lacks the zone the error wraps
// ErrUnknownZone.
func LoadLocation(name string, sources []string) (*Location, error) {
	if !validZoneName(name) {
		return nil, fmt.Errorf("%w %q", ErrUnknownZone, name)
	}
	var firstErr error
	for _, source := range sources {
		zoneData, err := LoadTzinfoFromDir(source, name)
		if err == nil {
			z, err := LoadLocationFromTZData(name, zoneData)
			if err == nil {
				return z, nil
			}
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", filepath.Join(source, name), err)
			}
			continue
		}
		if firstErr == nil && !errors.Is(err, fs.ErrNotExist) {
			firstErr = err
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownZone, name)
}
