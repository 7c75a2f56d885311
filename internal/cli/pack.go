package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"nonstop-pack/internal/app"
)

type packOptions struct {
	ProjectFile string
	Projects    []string
	Repo        string
	OutputDir   string
}

func newPackCommand() *cobra.Command {
	opts := packOptions{}
	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Package project build output into versioned archives",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPack(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.ProjectFile, "project-file", "nonstop.yaml", "Project file path")
	cmd.Flags().StringSliceVar(&opts.Projects, "project", nil, "Projects to pack (default all)")
	cmd.Flags().StringVar(&opts.Repo, "repo", ".", "Repository path")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "packages", "Output directory")
	_ = viper.BindPFlag("project_file", cmd.Flags().Lookup("project-file"))
	_ = viper.BindPFlag("projects", cmd.Flags().Lookup("project"))
	_ = viper.BindPFlag("repo", cmd.Flags().Lookup("repo"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	return cmd
}

func runPack(ctx context.Context, cmd *cobra.Command, opts packOptions) error {
	service, err := newAppService()
	if err != nil {
		return err
	}
	result, err := service.Pack(ctx, app.PackRequest{
		ProjectFile: resolveString(cmd, opts.ProjectFile, "project_file", "project-file"),
		Projects:    resolveStrings(cmd, opts.Projects, "projects", "project"),
		RepoPath:    resolveString(cmd, opts.Repo, "repo", "repo"),
		OutputDir:   resolveString(cmd, opts.OutputDir, "output", "output"),
	})
	if err != nil {
		return err
	}
	for _, artifact := range result.Artifacts {
		fmt.Printf("packed: %s (%d files, blake3 %s)\n", artifact.Package.Output, len(artifact.Files), artifact.Digest)
	}
	return nil
}
