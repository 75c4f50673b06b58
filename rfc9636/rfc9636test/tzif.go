// Package rfc9636test builds TZif files in memory for tests.
package rfc9636test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

// Type is one local time type of a fixture zone.
type Type struct {
	Offset int32
	IsDST  bool
	Abbr   string
}

// Data describes a fixture zone. Indices[i] is the type Times[i] switches to.
type Data struct {
	Version byte // 0 for a version 1 file, '2' or later otherwise
	Types   []Type
	Times   []int64
	Indices []uint8
	Footer  string
}

// Change appends a transition at t to the type with index idx.
func (d *Data) Change(t time.Time, idx uint8) *Data {
	d.Times = append(d.Times, t.Unix())
	d.Indices = append(d.Indices, idx)
	return d
}

// Bytes encodes d. Version 2+ files carry an empty 32-bit block followed by
// the 64-bit block and the footer.
func (d Data) Bytes() []byte {
	var abbrs strings.Builder
	abbrIndex := make(map[string]int)
	for _, t := range d.Types {
		if _, ok := abbrIndex[t.Abbr]; ok {
			continue
		}
		abbrIndex[t.Abbr] = abbrs.Len()
		abbrs.WriteString(t.Abbr)
		abbrs.WriteByte(0)
	}

	var buf bytes.Buffer
	if d.Version == 0 {
		header(&buf, 0, d, abbrs.Len())
		block(&buf, d, abbrIndex, abbrs.String(), 4)
		return buf.Bytes()
	}

	header(&buf, d.Version, Data{}, 0)
	header(&buf, d.Version, d, abbrs.Len())
	block(&buf, d, abbrIndex, abbrs.String(), 8)
	buf.WriteByte('\n')
	buf.WriteString(d.Footer)
	buf.WriteByte('\n')
	return buf.Bytes()
}

func header(buf *bytes.Buffer, version byte, d Data, nchar int) {
	buf.WriteString("TZif")
	buf.WriteByte(version)
	buf.Write(make([]byte, 15))
	counts := []uint32{0, 0, 0, uint32(len(d.Times)), uint32(len(d.Types)), uint32(nchar)}
	for _, c := range counts {
		binary.Write(buf, binary.BigEndian, c)
	}
}

func block(buf *bytes.Buffer, d Data, abbrIndex map[string]int, abbrs string, size int) {
	for _, t := range d.Times {
		if size == 4 {
			binary.Write(buf, binary.BigEndian, int32(t))
		} else {
			binary.Write(buf, binary.BigEndian, t)
		}
	}
	buf.Write(d.Indices)
	for _, t := range d.Types {
		binary.Write(buf, binary.BigEndian, t.Offset)
		if t.IsDST {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
		buf.WriteByte(byte(abbrIndex[t.Abbr]))
	}
	buf.WriteString(abbrs)
}

// WriteZone writes d as dir/name, creating intermediate directories.
func WriteZone(tb testing.TB, dir, name string, d Data) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, d.Bytes(), 0o644); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Paris returns a Europe/Paris zone with transitions for 2018 through 2020
// and the current footer rule.
func Paris() Data {
	d := Data{
		Version: '2',
		Types: []Type{
			{Offset: 561, Abbr: "LMT"},
			{Offset: 7200, IsDST: true, Abbr: "CEST"},
			{Offset: 3600, Abbr: "CET"},
		},
		Footer: "CET-1CEST,M3.5.0,M10.5.0/3",
	}
	utc := func(y int, m time.Month, day int) time.Time {
		return time.Date(y, m, day, 1, 0, 0, 0, time.UTC)
	}
	d.Change(utc(2018, time.March, 25), 1).
		Change(utc(2018, time.October, 28), 2).
		Change(utc(2019, time.March, 31), 1).
		Change(utc(2019, time.October, 27), 2).
		Change(utc(2020, time.March, 29), 1).
		Change(utc(2020, time.October, 25), 2)
	return d
}

// Fixed returns a zone with a single local time type and no transitions.
func Fixed(abbr string, offset int32) Data {
	return Data{
		Version: '2',
		Types:   []Type{{Offset: offset, Abbr: abbr}},
		Footer:  posixFixed(abbr, offset),
	}
}

func posixFixed(abbr string, offset int32) string {
	name := abbr
	if strings.ContainsAny(abbr, "+-0123456789") {
		name = "<" + abbr + ">"
	}
	// POSIX offsets count hours west of Greenwich.
	return name + strconv.Itoa(int(-offset/3600))
}
