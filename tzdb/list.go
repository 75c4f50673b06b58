package tzdb

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/tzparse/posix/tzposix"
	"github.com/tzparse/rfc9636"
	"github.com/tzparse/tzchange"
)

// ZoneEntry summarizes one zone of the database.
type ZoneEntry struct {
	Name    string   `json:"Name,omitempty" yaml:"name,omitempty"`
	HasDST  bool     `json:"HasDst" yaml:"has_dst"`
	Std     string   `json:"Std" yaml:"std"`
	Dst     string   `json:"Dst,omitempty" yaml:"dst,omitempty"`
	Aliases []string `json:"Aliases,omitempty" yaml:"aliases,omitempty"`
	Rules   string   `json:"Rules,omitempty" yaml:"rules,omitempty"`
	Extend  string   `json:"Extend,omitempty" yaml:"extend,omitempty"`

	loaded bool
}

type zoneSet map[string]*ZoneEntry

func (zs zoneSet) entry(zone string) *ZoneEntry {
	e, ok := zs[zone]
	if !ok {
		e = &ZoneEntry{Name: zone, Aliases: make([]string, 0)}
		zs[zone] = e
	}
	return e
}

func (zs zoneSet) addAlias(zone, alias string) {
	e := zs.entry(zone)
	index, found := slices.BinarySearch(e.Aliases, alias)
	if !found {
		e.Aliases = slices.Insert(e.Aliases, index, alias)
	}
}

// add records a decoded zone. A zone already found in an earlier source
// is kept.
func (zs zoneSet) add(info ZoneEntry) {
	e := zs.entry(info.Name)
	if e.loaded {
		return
	}
	info.Aliases = e.Aliases
	info.loaded = true
	*e = info
}

// Zones lists every zone of the source directories, sorted by name, with
// symbolic links folded into the Aliases of their target.
func (db *Database) Zones() ([]ZoneEntry, error) {
	zones := make(zoneSet)
	readable := 0
	for _, root := range db.sources {
		realRoot, err := filepath.EvalSymlinks(root)
		if err != nil {
			Trace(db.logger, "zoneinfo directory is not available", "path", root)
			continue
		}
		readable++
		db.walkTzDir(root, realRoot, root, zones)
	}
	if readable == 0 {
		return nil, fmt.Errorf("no zoneinfo directory available in %v", db.sources)
	}

	names := make([]string, 0, len(zones))
	for name, e := range zones {
		if !e.loaded {
			db.logger.Warn("Missing zone", "timezone", name, "aliases", e.Aliases)
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]ZoneEntry, 0, len(names))
	for _, name := range names {
		out = append(out, *zones[name])
	}
	return out, nil
}

// Linux convention: zoneinfo names are capitalized. Directories that do
// not follow it (posix, right) hold duplicates and are skipped.
func capitalized(name string) bool {
	return name == strings.ToUpper(name[:1])+name[1:]
}

func (db *Database) walkTzDir(root, realRoot, path string, zones zoneSet) {
	dirInfos, err := os.ReadDir(path)
	if err != nil {
		Trace(db.logger, "zoneinfo directory is not available", "path", path)
		return
	}

	for _, info := range dirInfos {
		if info.IsDir() && !capitalized(info.Name()) {
			Trace(db.logger, "Skipping directory because name is not capitalized", "filename", info.Name())
			continue
		}

		newPath := filepath.Join(path, info.Name())
		if info.IsDir() {
			db.walkTzDir(root, realRoot, newPath, zones)
			continue
		}

		rel, err := filepath.Rel(root, newPath)
		if err != nil {
			continue
		}
		zone := filepath.ToSlash(rel)
		loc, err := rfc9636.LoadLocation(zone, []string{root})
		if err != nil {
			Trace(db.logger, "File is not a timezone file", "file", newPath)
			continue
		}
		if db.logger.Enabled(context.Background(), LevelTrace) {
			var dump strings.Builder
			rfc9636.DumpLocation(&dump, loc)
			Trace(db.logger, "dump of zoneinfo", "timezone", zone, "dump", dump.String())
		}

		if info.Type()&fs.ModeSymlink != 0 {
			resolvedPath, err := filepath.EvalSymlinks(newPath)
			if err != nil {
				db.logger.Error("Could not evaluate symlink", "symlink", newPath, "error", err)
				continue
			}
			target, err := filepath.Rel(realRoot, resolvedPath)
			if err != nil || target == ".." || strings.HasPrefix(target, ".."+string(filepath.Separator)) {
				db.logger.Error("Could not extract timezone alias", "path", resolvedPath)
				continue
			}
			target = filepath.ToSlash(target)
			db.logger.Debug("Timezone has alias", "timezone", target, "alias", zone)
			zones.addAlias(target, zone)
			continue
		}
		zones.add(db.describe(loc))
	}
}

// describe summarizes loc. HasDST compares the offsets in effect on
// January 1 and July 1 of the current year.
func (db *Database) describe(loc *rfc9636.Location) ZoneEntry {
	seq := db.sequence(loc)
	year := db.now().Year()
	winter, _ := seq.ActiveAt(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC))
	summer, _ := seq.ActiveAt(time.Date(year, time.July, 1, 0, 0, 0, 0, time.UTC))
	if winter.IsDST {
		winter, summer = summer, winter
	}

	e := ZoneEntry{
		Name:   loc.Name(),
		HasDST: winter.Offset != summer.Offset,
		Extend: loc.Extend(),
	}
	std, dst, rules, err := tzposix.DecodeTZ(loc.Extend())
	if err != nil {
		db.logger.Debug("DecodeTZ failure", "TZ", loc.Extend(), "error", err)
		std = describeRecord(winter)
		if e.HasDST {
			dst = describeRecord(summer)
		}
	}
	e.Std, e.Dst, e.Rules = std, dst, rules
	return e
}

func describeRecord(r tzchange.Record) string {
	return fmt.Sprintf("%s (UTC %s)", r.Abbreviation, tzchange.FormatOffset(r.Offset))
}
