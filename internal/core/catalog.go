package core

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"nonstop-pack/internal/types"
)

// Catalog is an ordered set of artifact records rooted at a directory.
// Scans rebuild it; Add and Append extend it without touching disk.
type Catalog struct {
	root    string
	records []types.ArtifactRecord
}

func NewCatalog(root string, records []types.ArtifactRecord) *Catalog {
	return &Catalog{root: root, records: slices.Clone(records)}
}

func (c *Catalog) Len() int {
	return len(c.records)
}

// Records returns a copy of the catalog contents in catalog order.
func (c *Catalog) Records() []types.ArtifactRecord {
	return slices.Clone(c.records)
}

// Add decodes filename relative to the catalog root and appends it. The
// boolean is false when a record with the same full path is already
// cataloged, in which case nothing is appended.
func (c *Catalog) Add(filename string) (types.ArtifactRecord, bool, error) {
	record, err := Decode(c.root, filename, "")
	if err != nil {
		return types.ArtifactRecord{}, false, err
	}
	if c.Contains(record.FullPath) {
		return record, false, nil
	}
	c.records = append(c.records, record)
	return record, true, nil
}

// Append adds an already decoded record unless its full path is present.
func (c *Catalog) Append(record types.ArtifactRecord) bool {
	if c.Contains(record.FullPath) {
		return false
	}
	c.records = append(c.records, record)
	return true
}

func (c *Catalog) Contains(fullPath string) bool {
	return slices.ContainsFunc(c.records, func(record types.ArtifactRecord) bool {
		return record.FullPath == fullPath
	})
}

// Lineage returns every record sharing the project, owner and branch of
// record, newest first.
func (c *Catalog) Lineage(record types.ArtifactRecord) []types.ArtifactRecord {
	return c.Find(types.ArtifactFilter{
		Project: record.Project,
		Owner:   record.Owner,
		Branch:  record.Branch,
	})
}

// Find returns the records matching every populated filter field, highest
// composed version first. Records with equal versions keep catalog order.
func (c *Catalog) Find(filter types.ArtifactFilter) []types.ArtifactRecord {
	return FindRecords(c.records, filter)
}

// Terms returns the facet list of the catalog.
func (c *Catalog) Terms() []types.Term {
	return Terms(c.records)
}

func FindRecords(records []types.ArtifactRecord, filter types.ArtifactFilter) []types.ArtifactRecord {
	if filter.Build == types.BuildRelease {
		filter.Build = ""
		return sortRecords(matchAll(records, filter, true))
	}
	return sortRecords(matchAll(records, filter, false))
}

func matchAll(records []types.ArtifactRecord, filter types.ArtifactFilter, release bool) []types.ArtifactRecord {
	matched := make([]types.ArtifactRecord, 0, len(records))
	for _, record := range records {
		if release && !record.IsRelease() {
			continue
		}
		if matches(record, filter) {
			matched = append(matched, record)
		}
	}
	return matched
}

func matches(record types.ArtifactRecord, filter types.ArtifactFilter) bool {
	checks := [][2]string{
		{filter.Project, record.Project},
		{filter.Owner, record.Owner},
		{filter.Branch, record.Branch},
		{filter.Slug, record.Slug},
		{filter.Version, record.Version},
		{filter.ComposedVersion, record.ComposedVersion()},
		{filter.Build, record.Build},
		{filter.Platform, record.Platform},
		{filter.OSName, record.OSName},
		{filter.OSVersion, record.OSVersion},
		{filter.Architecture, record.Architecture},
		{filter.FullPath, record.FullPath},
	}
	for _, check := range checks {
		if check[0] != "" && check[0] != check[1] {
			return false
		}
	}
	return true
}

func sortRecords(records []types.ArtifactRecord) []types.ArtifactRecord {
	cache := newVersionCache()
	slices.SortStableFunc(records, func(a types.ArtifactRecord, b types.ArtifactRecord) int {
		return cache.compare(b.ComposedVersion(), a.ComposedVersion())
	})
	return records
}

// Terms emits one facet per populated field of every record. Facet names
// are filter field names, so any term fed back into Find matches at least
// the record it came from. A value seen twice keeps the field and position
// of its first occurrence.
func Terms(records []types.ArtifactRecord) []types.Term {
	seen := map[string]bool{}
	var terms []types.Term
	emit := func(field string, value string) {
		if value == "" || seen[value] {
			return
		}
		seen[value] = true
		terms = append(terms, types.Term{Value: value, Field: field})
	}
	for _, record := range records {
		emit("project", record.Project)
		emit("owner", record.Owner)
		emit("branch", record.Branch)
		emit("slug", record.Slug)
		emit("version", record.Version)
		emit("composedVersion", record.ComposedVersion())
		emit("build", record.Build)
		emit("platform", record.Platform)
		emit("osName", record.OSName)
		emit("osVersion", record.OSVersion)
		emit("architecture", record.Architecture)
		emit("fullPath", record.FullPath)
	}
	return terms
}

// SelectInstalled filters installed version directory names: ignored
// names are dropped, the rest must match pattern, and the survivors are
// returned highest first. The result is nil when nothing survives.
func SelectInstalled(pattern string, names []string, ignored []string) ([]string, error) {
	expr, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid installed version filter %q", pattern)).
			WithCause(err)
	}
	var versions []string
	for _, name := range names {
		if slices.Contains(ignored, name) || !expr.MatchString(name) {
			continue
		}
		versions = append(versions, name)
	}
	if len(versions) == 0 {
		return nil, nil
	}
	SortVersionsDescending(versions)
	return versions, nil
}
