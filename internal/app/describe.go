package app

import (
	"context"
	"path/filepath"
	"strings"
)

// Describe reports the repository provenance of a project: its version
// declaration, identity and build number. Unlike Info, no fallback
// version is substituted.
func (s Service) Describe(ctx context.Context, req DescribeRequest) (DescribeResult, error) {
	repoPath := strings.TrimSpace(req.RepoPath)
	if repoPath == "" {
		repoPath = "."
	}
	projectPath := req.ProjectPath
	if !filepath.IsAbs(projectPath) {
		projectPath = filepath.Join(repoPath, projectPath)
	}
	decl, err := s.declaration(projectPath, req.VersionFile)
	if err != nil {
		return DescribeResult{}, err
	}
	info, err := s.provenance().Describe(ctx, repoPath, decl)
	if err != nil {
		return DescribeResult{}, err
	}
	return DescribeResult{Declaration: decl, Repository: info}, nil
}
