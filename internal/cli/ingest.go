package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"nonstop-pack/internal/app"
)

type ingestOptions struct {
	Root string
	Name string
}

func newIngestCommand() *cobra.Command {
	opts := ingestOptions{}
	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Move an uploaded artifact into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd.Context(), cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.Root, "root", "packages", "Artifact root directory")
	cmd.Flags().StringVar(&opts.Name, "name", "", "Artifact file name (defaults to the file's own name)")
	_ = viper.BindPFlag("root", cmd.Flags().Lookup("root"))
	return cmd
}

func runIngest(ctx context.Context, cmd *cobra.Command, source string, opts ingestOptions) error {
	name := opts.Name
	if name == "" {
		name = filepath.Base(source)
	}
	service, err := newAppService()
	if err != nil {
		return err
	}
	result, err := service.Ingest(ctx, app.IngestRequest{
		Root:   resolveString(cmd, opts.Root, "root", "root"),
		Source: source,
		Name:   name,
	})
	if err != nil {
		return err
	}
	fmt.Printf("stored: %s (%d artifacts)\n", result.Record.FullPath, result.Artifacts)
	return nil
}
