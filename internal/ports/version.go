package ports

import "nonstop-pack/internal/types"

// VersionSourcePort finds and reads the file that declares a project's
// version.
type VersionSourcePort interface {
	Locate(projectPath string) (types.VersionDeclaration, error)
	Read(projectPath string, versionFile string) (types.VersionDeclaration, error)
}
