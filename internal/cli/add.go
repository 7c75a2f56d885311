package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"nonstop-pack/internal/app"
)

type addOptions struct {
	Root string
}

func newAddCommand() *cobra.Command {
	opts := addOptions{}
	cmd := &cobra.Command{
		Use:   "add <artifact>",
		Short: "Show where an artifact name belongs in the store and how it ranks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd.Context(), cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.Root, "root", "packages", "Artifact root directory")
	_ = viper.BindPFlag("root", cmd.Flags().Lookup("root"))
	return cmd
}

func runAdd(ctx context.Context, cmd *cobra.Command, file string, opts addOptions) error {
	service, err := newAppService()
	if err != nil {
		return err
	}
	result, err := service.Add(ctx, app.AddRequest{
		Root: resolveString(cmd, opts.Root, "root", "root"),
		File: file,
	})
	if err != nil {
		return err
	}
	state := "new"
	if result.Stored {
		state = "stored"
	}
	fmt.Printf("%s\t%s\n", state, result.Record.FullPath)
	for _, record := range result.Lineage {
		marker := " "
		if record.FullPath == result.Record.FullPath {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, record.ComposedVersion())
	}
	return nil
}
