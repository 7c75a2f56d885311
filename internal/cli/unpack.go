package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"nonstop-pack/internal/app"
)

type unpackOptions struct {
	Target string
}

func newUnpackCommand() *cobra.Command {
	opts := unpackOptions{}
	cmd := &cobra.Command{
		Use:   "unpack <archive>",
		Short: "Extract an artifact and record its identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnpack(cmd.Context(), args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.Target, "target", "", "Extraction directory")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func runUnpack(ctx context.Context, archive string, opts unpackOptions) error {
	service, err := newAppService()
	if err != nil {
		return err
	}
	result, err := service.Unpack(ctx, app.UnpackRequest{Archive: archive, Target: opts.Target})
	if err != nil {
		return err
	}
	fmt.Printf("unpacked: %s\n", result.Version)
	return nil
}
