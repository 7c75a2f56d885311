package types

// ProjectFile is the on-disk project configuration (nonstop.yaml).
type ProjectFile struct {
	Projects map[string]ProjectConfig `yaml:"projects"`
}

// ProjectConfig describes how one project inside a repository is packed.
type ProjectConfig struct {
	Path        string     `yaml:"path"`
	VersionFile string     `yaml:"versionFile"`
	Pack        PackConfig `yaml:"pack"`
	OS          OSConfig   `yaml:"os"`
}

type PackConfig struct {
	Pattern string `yaml:"pattern"`
}

type OSConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// PlatformInfo is the host description embedded in artifact names.
type PlatformInfo struct {
	Platform     string
	Architecture string
	OSName       string
	OSVersion    string
}

// PackageInfo is everything needed to produce one artifact.
type PackageInfo struct {
	Project    string
	Path       string
	Output     string
	Pattern    string
	Commit     string
	Record     ArtifactRecord
	Repository RepositoryIdentity
}

// PackageOutcome is the result of writing an archive.
type PackageOutcome struct {
	Files  []string
	Digest string
}
