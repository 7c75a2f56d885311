package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"nonstop-pack/internal/app"
)

type installedOptions struct {
	Pattern string
	Ignored []string
	Latest  bool
}

func newInstalledCommand() *cobra.Command {
	opts := installedOptions{}
	cmd := &cobra.Command{
		Use:   "installed <dir>",
		Short: "List installed versions under a directory, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstalled(cmd.Context(), cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.Pattern, "pattern", ".*", "Regular expression version names must match")
	cmd.Flags().StringSliceVar(&opts.Ignored, "ignore", nil, "Version names to skip")
	cmd.Flags().BoolVar(&opts.Latest, "latest", false, "Print only the newest version")
	_ = viper.BindPFlag("installed_pattern", cmd.Flags().Lookup("pattern"))
	_ = viper.BindPFlag("installed_ignore", cmd.Flags().Lookup("ignore"))
	_ = viper.BindPFlag("installed_latest", cmd.Flags().Lookup("latest"))
	return cmd
}

func runInstalled(ctx context.Context, cmd *cobra.Command, dir string, opts installedOptions) error {
	service, err := newAppService()
	if err != nil {
		return err
	}
	result, err := service.Installed(ctx, app.InstalledRequest{
		Pattern: resolveString(cmd, opts.Pattern, "installed_pattern", "pattern"),
		Dir:     dir,
		Ignored: resolveStrings(cmd, opts.Ignored, "installed_ignore", "ignore"),
	})
	if err != nil {
		return err
	}
	if resolveBool(cmd, opts.Latest, "installed_latest", "latest") {
		if result.Latest != "" {
			fmt.Println(result.Latest)
		}
		return nil
	}
	for _, version := range result.Versions {
		fmt.Println(version)
	}
	return nil
}
