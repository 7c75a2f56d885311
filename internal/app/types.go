package app

import "nonstop-pack/internal/types"

type InfoRequest struct {
	Project   string
	Config    types.ProjectConfig
	RepoPath  string
	OutputDir string
}

type InfoResult struct {
	Name    string
	Package types.PackageInfo
}

type PackRequest struct {
	ProjectFile string
	Projects    []string
	RepoPath    string
	OutputDir   string
}

type PackedArtifact struct {
	Package types.PackageInfo
	Files   []string
	Digest  string
}

type PackResult struct {
	Artifacts []PackedArtifact
}

type CreatePackageRequest struct {
	Pattern string
	Source  string
	Target  string
}

type UnpackRequest struct {
	Archive string
	Target  string
}

type UnpackResult struct {
	Version string
	Record  types.ArtifactRecord
}

type FindRequest struct {
	Root   string
	Filter types.ArtifactFilter
}

type FindResult struct {
	Records []types.ArtifactRecord
}

type TermsRequest struct {
	Root string
}

type TermsResult struct {
	Terms []types.Term
}

type InstalledRequest struct {
	Pattern string
	Dir     string
	Ignored []string
}

type InstalledResult struct {
	Versions []string
	Latest   string
}

type PromoteRequest struct {
	Root string
	File string
}

type PromoteResult struct {
	Source   types.ArtifactRecord
	Release  types.ArtifactRecord
	Releases []types.ArtifactRecord
}

type IngestRequest struct {
	Root   string
	Source string
	Name   string
}

type IngestResult struct {
	Record    types.ArtifactRecord
	Artifacts int
}

type AddRequest struct {
	Root string
	File string
}

// AddResult reports the decoded record and its lineage, newest first.
// Stored is true when the artifact was already present under Root.
type AddResult struct {
	Record  types.ArtifactRecord
	Stored  bool
	Lineage []types.ArtifactRecord
}

type DescribeRequest struct {
	RepoPath    string
	ProjectPath string
	VersionFile string
}

type DescribeResult struct {
	Declaration types.VersionDeclaration
	Repository  types.RepositoryInfo
}
