// Package catalog discovers embeddable Python distributions by archive
// filename and resolves them from user-facing display names.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// ErrNotFound reports a display name that matched no discovered distribution.
var ErrNotFound = errors.New("no matching distribution")

// archivePattern matches the embeddable distribution naming convention:
// python-<major>.<minor>.<tag>-embed-<arch>.zip
// Minor and tag may carry pre-release letters (3.9rc.12), so they are
// alphanumeric rather than numeric.
var archivePattern = regexp.MustCompile(
	`^python-(?P<major>\d+)\.(?P<minor>[0-9a-zA-Z]{0,4})\.(?P<tag>[0-9a-zA-Z]{0,5})-embed-(?P<arch>.+)\.zip$`,
)

// Record identifies one embeddable distribution archive. Identity is the
// version triple; architecture and archive path are descriptive only.
type Record struct {
	Major       int
	Minor       string
	Tag         string
	Arch        string
	ArchivePath string
}

// Equal compares by version triple, ignoring Arch and ArchivePath.
func (r Record) Equal(other Record) bool {
	return r.Major == other.Major && r.Minor == other.Minor && r.Tag == other.Tag
}

// ShortVersion is "<major>.<minor>".
func (r Record) ShortVersion() string {
	return fmt.Sprintf("%d.%s", r.Major, r.Minor)
}

// LongVersion is "<major>.<minor>.<tag>".
func (r Record) LongVersion() string {
	return fmt.Sprintf("%d.%s.%s", r.Major, r.Minor, r.Tag)
}

// DisplayName is the user-facing name, e.g. "Python 3.9.12".
func (r Record) DisplayName() string {
	return "Python " + r.LongVersion()
}

// SitePackagesDir is the per-version site-packages directory under the
// user profile root, e.g. <root>/Python39/site-packages.
func (r Record) SitePackagesDir(userSiteRoot string) string {
	version := "Python" + strconv.Itoa(r.Major) + r.Minor
	return filepath.Join(userSiteRoot, version, "site-packages")
}

// ParseArchiveName parses an archive filename into a Record. The archive
// path is not filled in; Discover does that. Returns false for names that
// do not follow the convention.
func ParseArchiveName(name string) (Record, bool) {
	m := archivePattern.FindStringSubmatch(name)
	if m == nil {
		return Record{}, false
	}
	major, err := strconv.Atoi(m[archivePattern.SubexpIndex("major")])
	if err != nil {
		return Record{}, false
	}
	return Record{
		Major: major,
		Minor: m[archivePattern.SubexpIndex("minor")],
		Tag:   m[archivePattern.SubexpIndex("tag")],
		Arch:  m[archivePattern.SubexpIndex("arch")],
	}, true
}

// Discover scans root (non-recursive) for embeddable distribution
// archives. Files that do not match the naming convention are silently
// skipped; a malformed name is not an error.
func Discover(root string) ([]Record, error) {
	dirents, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("scan distributions %s: %w", root, err)
	}
	var records []Record
	for _, d := range dirents {
		if d.IsDir() {
			continue
		}
		rec, ok := ParseArchiveName(d.Name())
		if !ok {
			continue
		}
		rec.ArchivePath = filepath.Join(root, d.Name())
		records = append(records, rec)
	}
	return records, nil
}

// ResolveByDisplayName picks the first candidate in discovery order whose
// "<major>.<minor>" appears in name. A blank name never matches.
func ResolveByDisplayName(name string, candidates []Record) (Record, bool) {
	if strings.TrimSpace(name) == "" {
		return Record{}, false
	}
	for _, c := range candidates {
		if strings.Contains(name, c.ShortVersion()) {
			return c, true
		}
	}
	return Record{}, false
}
