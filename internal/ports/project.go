package ports

import "nonstop-pack/internal/types"

type ProjectFilePort interface {
	LoadProjects(path string) (types.ProjectFile, error)
}

type PlatformPort interface {
	Describe(os types.OSConfig) types.PlatformInfo
}
