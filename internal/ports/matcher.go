package ports

// FileMatcherPort expands glob patterns relative to a base directory into
// absolute file paths.
type FileMatcherPort interface {
	Expand(base string, patterns []string, excludes []string) ([]string, error)
}
