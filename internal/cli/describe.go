package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"nonstop-pack/internal/app"
)

type describeOptions struct {
	Repo        string
	ProjectPath string
	VersionFile string
}

func newDescribeCommand() *cobra.Command {
	opts := describeOptions{}
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Show version and git provenance of a project",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDescribe(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Repo, "repo", ".", "Repository path")
	cmd.Flags().StringVar(&opts.ProjectPath, "project-path", ".", "Project path relative to the repository")
	cmd.Flags().StringVar(&opts.VersionFile, "version-file", "", "Version file relative to the project (default: search)")
	_ = viper.BindPFlag("repo", cmd.Flags().Lookup("repo"))
	return cmd
}

func runDescribe(ctx context.Context, cmd *cobra.Command, opts describeOptions) error {
	service, err := newAppService()
	if err != nil {
		return err
	}
	result, err := service.Describe(ctx, app.DescribeRequest{
		RepoPath:    resolveString(cmd, opts.Repo, "repo", "repo"),
		ProjectPath: opts.ProjectPath,
		VersionFile: opts.VersionFile,
	})
	if err != nil {
		return err
	}
	repo := result.Repository
	fmt.Printf("version file: %s (%s)\n", result.Declaration.FilePath, result.Declaration.Kind)
	fmt.Printf("version: %s\n", result.Declaration.Version)
	fmt.Printf("build: %d\n", repo.BuildNumber)
	fmt.Printf("owner: %s\n", repo.Owner)
	fmt.Printf("repository: %s\n", repo.Repository)
	fmt.Printf("branch: %s\n", repo.Branch)
	fmt.Printf("commit: %s\n", repo.Commit)
	fmt.Printf("slug: %s\n", repo.Slug)
	return nil
}
