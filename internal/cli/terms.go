package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"nonstop-pack/internal/app"
)

type termsOptions struct {
	Root string
}

func newTermsCommand() *cobra.Command {
	opts := termsOptions{}
	cmd := &cobra.Command{
		Use:   "terms",
		Short: "List the distinct field values of stored artifacts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTerms(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Root, "root", "packages", "Artifact root directory")
	_ = viper.BindPFlag("root", cmd.Flags().Lookup("root"))
	return cmd
}

func runTerms(ctx context.Context, cmd *cobra.Command, opts termsOptions) error {
	service, err := newAppService()
	if err != nil {
		return err
	}
	result, err := service.Terms(ctx, app.TermsRequest{Root: resolveString(cmd, opts.Root, "root", "root")})
	if err != nil {
		return err
	}
	for _, term := range result.Terms {
		fmt.Printf("%s\t%s\n", term.Field, term.Value)
	}
	return nil
}
