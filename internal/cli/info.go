package cli

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"nonstop-pack/internal/app"
)

type infoOptions struct {
	ProjectFile string
	Repo        string
	OutputDir   string
}

func newInfoCommand() *cobra.Command {
	opts := infoOptions{}
	cmd := &cobra.Command{
		Use:   "info <project>",
		Short: "Show the artifact name a project would be packed as",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.Context(), cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.ProjectFile, "project-file", "nonstop.yaml", "Project file path")
	cmd.Flags().StringVar(&opts.Repo, "repo", ".", "Repository path")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "packages", "Output directory")
	_ = viper.BindPFlag("project_file", cmd.Flags().Lookup("project-file"))
	_ = viper.BindPFlag("repo", cmd.Flags().Lookup("repo"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	return cmd
}

func runInfo(ctx context.Context, cmd *cobra.Command, project string, opts infoOptions) error {
	service, err := newAppService()
	if err != nil {
		return err
	}
	projectFile := resolveString(cmd, opts.ProjectFile, "project_file", "project-file")
	file, err := service.Projects.LoadProjects(projectFile)
	if err != nil {
		return err
	}
	config, ok := file.Projects[project]
	if !ok {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("project %q is not defined in %s", project, projectFile))
	}
	result, err := service.Info(ctx, app.InfoRequest{
		Project:   project,
		Config:    config,
		RepoPath:  resolveString(cmd, opts.Repo, "repo", "repo"),
		OutputDir: resolveString(cmd, opts.OutputDir, "output", "output"),
	})
	if err != nil {
		return err
	}
	record := result.Package.Record
	fmt.Printf("name: %s\n", result.Name)
	fmt.Printf("output: %s\n", result.Package.Output)
	fmt.Printf("version: %s\n", record.ComposedVersion())
	fmt.Printf("owner: %s\n", record.Owner)
	fmt.Printf("branch: %s\n", record.Branch)
	fmt.Printf("commit: %s\n", result.Package.Commit)
	fmt.Printf("path: %s\n", result.Package.Path)
	fmt.Printf("pattern: %s\n", result.Package.Pattern)
	return nil
}
