package types

// VersionDeclaration is the file that declares a project's version and
// the version read from it.
type VersionDeclaration struct {
	FilePath string        `json:"filePath"`
	Kind     EcosystemKind `json:"kind"`
	Version  string        `json:"version"`
}

// RepositoryInfo describes the git checkout a package is built from.
type RepositoryInfo struct {
	Path        string `json:"path"`
	Owner       string `json:"owner"`
	Repository  string `json:"repository"`
	Branch      string `json:"branch"`
	Commit      string `json:"commit"`
	Slug        string `json:"slug"`
	BuildNumber int    `json:"build"`
}

// RepositoryIdentity is the part of RepositoryInfo that never fails to
// resolve: every field has a fallback.
type RepositoryIdentity struct {
	Path       string
	Owner      string
	Repository string
	Branch     string
	Commit     string
}

// Slug returns the short commit id embedded in artifact names.
func (i RepositoryIdentity) Slug() string {
	if len(i.Commit) < SlugLength || i.Commit == CommitNone {
		return ""
	}
	return i.Commit[:SlugLength]
}

// CommitIntroduction is the commit that first carried the current version.
type CommitIntroduction struct {
	SHA       string
	Timestamp int64
}

const (
	DefaultBranch     = "master"
	DefaultOwner      = "anonymous"
	CommitNone        = "none"
	SlugLength        = 8
	FallbackVersion   = "0.0.0"
	FallbackBuild     = 0
	ArtifactExtension = ".tar.gz"
	InfoFileName      = ".nonstop-info.json"
)
