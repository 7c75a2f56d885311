package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"nonstop-pack/internal/app"
	"nonstop-pack/internal/types"
)

type findOptions struct {
	Root    string
	Matches []string
}

func newFindCommand() *cobra.Command {
	opts := findOptions{}
	cmd := &cobra.Command{
		Use:   "find",
		Short: "List stored artifacts matching a filter, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFind(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Root, "root", "packages", "Artifact root directory")
	cmd.Flags().StringArrayVar(&opts.Matches, "match", nil, "Filter as field=value (repeatable, build=release selects releases)")
	_ = viper.BindPFlag("root", cmd.Flags().Lookup("root"))
	return cmd
}

func parseFilter(matches []string) (types.ArtifactFilter, error) {
	filter := types.ArtifactFilter{}
	for _, match := range matches {
		key, value, ok := strings.Cut(match, "=")
		if !ok || !filter.Set(strings.TrimSpace(key), strings.TrimSpace(value)) {
			return types.ArtifactFilter{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid match %q: expected one of %s", match, strings.Join(filterKeys(), ", ")))
		}
	}
	return filter, nil
}

func filterKeys() []string {
	names := types.FilterFieldNames()
	keys := make([]string, 0, len(names))
	for _, name := range names {
		keys = append(keys, name+"=")
	}
	return keys
}

func runFind(ctx context.Context, cmd *cobra.Command, opts findOptions) error {
	filter, err := parseFilter(opts.Matches)
	if err != nil {
		return err
	}
	service, err := newAppService()
	if err != nil {
		return err
	}
	result, err := service.Find(ctx, app.FindRequest{
		Root:   resolveString(cmd, opts.Root, "root", "root"),
		Filter: filter,
	})
	if err != nil {
		return err
	}
	for _, record := range result.Records {
		fmt.Printf("%s\t%s\n", record.ComposedVersion(), record.FullPath)
	}
	return nil
}
