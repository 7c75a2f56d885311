package types

import "sort"

// ArtifactRecord is the decoded identity of a packaged artifact. The
// filename produced by the codec is a lossless encoding of the identity
// fields; Directory, Relative, FullPath and File are derived on decode.
type ArtifactRecord struct {
	Project      string `json:"project"`
	Owner        string `json:"owner"`
	Branch       string `json:"branch"`
	Slug         string `json:"slug,omitempty"`
	Version      string `json:"version"`
	Build        string `json:"build"`
	Platform     string `json:"platform"`
	OSName       string `json:"osName"`
	OSVersion    string `json:"osVersion"`
	Architecture string `json:"architecture"`

	Directory string `json:"directory"`
	Relative  string `json:"relative"`
	FullPath  string `json:"fullPath"`
	File      string `json:"file"`
}

// ComposedVersion returns the version with the build number appended,
// or the bare version for release artifacts.
func (r ArtifactRecord) ComposedVersion() string {
	if r.Build == "" {
		return r.Version
	}
	return r.Version + "-" + r.Build
}

// IsRelease reports whether the record is a promoted, unnumbered build.
func (r ArtifactRecord) IsRelease() bool {
	return r.Build == ""
}

// ArtifactFilter selects records by exact field match. Empty fields are
// wildcards. Build accepts BuildRelease to select release artifacts.
type ArtifactFilter struct {
	Project         string `json:"project,omitempty" yaml:"project,omitempty"`
	Owner           string `json:"owner,omitempty" yaml:"owner,omitempty"`
	Branch          string `json:"branch,omitempty" yaml:"branch,omitempty"`
	Slug            string `json:"slug,omitempty" yaml:"slug,omitempty"`
	Version         string `json:"version,omitempty" yaml:"version,omitempty"`
	ComposedVersion string `json:"composedVersion,omitempty" yaml:"composedVersion,omitempty"`
	Build           string `json:"build,omitempty" yaml:"build,omitempty"`
	Platform        string `json:"platform,omitempty" yaml:"platform,omitempty"`
	OSName          string `json:"osName,omitempty" yaml:"osName,omitempty"`
	OSVersion       string `json:"osVersion,omitempty" yaml:"osVersion,omitempty"`
	Architecture    string `json:"architecture,omitempty" yaml:"architecture,omitempty"`
	FullPath        string `json:"fullPath,omitempty" yaml:"fullPath,omitempty"`
}

// filterFields maps facet and --match names to filter fields.
var filterFields = map[string]func(*ArtifactFilter) *string{
	"project":         func(f *ArtifactFilter) *string { return &f.Project },
	"owner":           func(f *ArtifactFilter) *string { return &f.Owner },
	"branch":          func(f *ArtifactFilter) *string { return &f.Branch },
	"slug":            func(f *ArtifactFilter) *string { return &f.Slug },
	"version":         func(f *ArtifactFilter) *string { return &f.Version },
	"composedVersion": func(f *ArtifactFilter) *string { return &f.ComposedVersion },
	"build":           func(f *ArtifactFilter) *string { return &f.Build },
	"platform":        func(f *ArtifactFilter) *string { return &f.Platform },
	"osName":          func(f *ArtifactFilter) *string { return &f.OSName },
	"osVersion":       func(f *ArtifactFilter) *string { return &f.OSVersion },
	"architecture":    func(f *ArtifactFilter) *string { return &f.Architecture },
	"fullPath":        func(f *ArtifactFilter) *string { return &f.FullPath },
}

// Set assigns value to the named field and reports whether the name is
// known.
func (f *ArtifactFilter) Set(field string, value string) bool {
	target, ok := filterFields[field]
	if !ok {
		return false
	}
	*target(f) = value
	return true
}

// FilterFieldNames returns the accepted field names, sorted.
func FilterFieldNames() []string {
	names := make([]string, 0, len(filterFields))
	for name := range filterFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildRelease is the filter alias for artifacts with an empty build.
const BuildRelease = "release"

// Term is a single facet value extracted from a set of records.
type Term struct {
	Value string `json:"value"`
	Field string `json:"field"`
}
