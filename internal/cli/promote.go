package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"nonstop-pack/internal/app"
)

type promoteOptions struct {
	Root string
}

func newPromoteCommand() *cobra.Command {
	opts := promoteOptions{}
	cmd := &cobra.Command{
		Use:   "promote <artifact>",
		Short: "Copy a numbered artifact to its release name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPromote(cmd.Context(), cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.Root, "root", "packages", "Artifact root directory")
	_ = viper.BindPFlag("root", cmd.Flags().Lookup("root"))
	return cmd
}

func runPromote(ctx context.Context, cmd *cobra.Command, file string, opts promoteOptions) error {
	service, err := newAppService()
	if err != nil {
		return err
	}
	result, err := service.Promote(ctx, app.PromoteRequest{
		Root: resolveString(cmd, opts.Root, "root", "root"),
		File: file,
	})
	if err != nil {
		return err
	}
	fmt.Printf("promoted: %s\n", result.Release.FullPath)
	for _, release := range result.Releases {
		fmt.Printf("release: %s\n", release.Version)
	}
	return nil
}
