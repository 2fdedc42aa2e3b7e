package tzresolve

import (
	"archive/zip"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"unicode"
)

// zoneSources mirrors the search order the Go runtime uses for the IANA
// database on Unix hosts, with the toolchain's zoneinfo.zip as a last
// resort.
var zoneSources = []string{
	"/usr/share/zoneinfo/",
	"/usr/share/lib/zoneinfo/",
	"/usr/lib/locale/TZ/",
	"/etc/zoneinfo/",
}

// ListZones enumerates the IANA zone names available on this host,
// sorted. Region files such as zone.tab, legacy links and the posix/
// and right/ variants are excluded.
func ListZones() ([]string, error) {
	for _, dir := range zoneSources {
		zones, err := listZoneDir(dir)
		if err == nil && len(zones) > 0 {
			return zones, nil
		}
	}
	if goroot := runtime.GOROOT(); goroot != "" {
		zones, err := listZoneZip(filepath.Join(goroot, "lib", "time", "zoneinfo.zip"))
		if err == nil && len(zones) > 0 {
			return zones, nil
		}
	}
	return nil, errors.New("no timezone database found on this host")
}

func listZoneDir(dir string) ([]string, error) {
	var zones []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return err
			}
			return nil // unreadable entries are skipped, not fatal
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return nil
		}
		name := filepath.ToSlash(rel)
		if isZoneName(name) {
			zones = append(zones, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(zones)
	return zones, nil
}

func listZoneZip(path string) ([]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var zones []string
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		if isZoneName(f.Name) {
			zones = append(zones, f.Name)
		}
	}
	sort.Strings(zones)
	return zones, nil
}

// isZoneName filters database files down to canonical zone names. Every
// path component of a real zone name starts with an uppercase letter
// (America/New_York, Etc/GMT+8); metadata files (zone.tab, leapseconds,
// posixrules) and the posix/ and right/ trees do not.
func isZoneName(name string) bool {
	if name == "" || strings.Contains(name, ".") {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == "" {
			return false
		}
		r := rune(part[0])
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
