package adapters

import (
	"fmt"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"nonstop-pack/internal/ports"
	"nonstop-pack/internal/types"
)

type ProjectFileAdapter struct{}

func NewProjectFileAdapter() ProjectFileAdapter {
	return ProjectFileAdapter{}
}

// LoadProjects reads a project file. Projects without a path are rooted at
// the repository.
func (a ProjectFileAdapter) LoadProjects(path string) (types.ProjectFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ProjectFile{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("project file not found").
			WithCause(err)
	}
	var file types.ProjectFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return types.ProjectFile{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse project yaml").
			WithCause(err)
	}
	if len(file.Projects) == 0 {
		return types.ProjectFile{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project file declares no projects")
	}
	for name, project := range file.Projects {
		if strings.ContainsAny(name, "~/\\") || strings.TrimSpace(name) == "" {
			return types.ProjectFile{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid project name %q", name))
		}
		if strings.TrimSpace(project.Path) == "" {
			project.Path = "."
		}
		file.Projects[name] = project
	}
	return file, nil
}

var _ ports.ProjectFilePort = ProjectFileAdapter{}
