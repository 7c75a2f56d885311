package cli

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"nonstop-pack/internal/app"
	"nonstop-pack/internal/core"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "NONSTOP"

type RootConfig struct {
	ConfigFile string
	LogLevel   string
	GitTimeout time.Duration
	Branch     string
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	root := newRootCommand()
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	cfg := RootConfig{}
	cmd := &cobra.Command{
		Use:          "nonstop-pack",
		Short:        "Versioned build artifact packager",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}
			setupLogging(viper.GetString("log_level"))
			cmd.SetContext(log.Logger.WithContext(cmd.Context()))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	cmd.PersistentFlags().DurationVar(&cfg.GitTimeout, "git-timeout", core.DefaultQueryTimeout, "Timeout for each git query")
	cmd.PersistentFlags().StringVar(&cfg.Branch, "branch", "", "Branch name override (defaults to CI environment, then git)")
	_ = viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("git_timeout", cmd.PersistentFlags().Lookup("git-timeout"))
	_ = viper.BindPFlag("branch", cmd.PersistentFlags().Lookup("branch"))

	cmd.AddCommand(newPackCommand())
	cmd.AddCommand(newInfoCommand())
	cmd.AddCommand(newUnpackCommand())
	cmd.AddCommand(newFindCommand())
	cmd.AddCommand(newTermsCommand())
	cmd.AddCommand(newInstalledCommand())
	cmd.AddCommand(newPromoteCommand())
	cmd.AddCommand(newIngestCommand())
	cmd.AddCommand(newAddCommand())
	cmd.AddCommand(newDescribeCommand())
	return cmd
}

func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	viper.SetConfigName("nonstop-pack")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/nonstop-pack")
	if err := viper.ReadInConfig(); err != nil {
		return nil
	}
	return nil
}

func setupLogging(level string) {
	// Command output goes to stdout; keep it parseable.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// newAppService wires the default adapters and applies the provenance
// settings. An explicit branch wins over the CI environment.
func newAppService() (app.Service, error) {
	service := app.NewService()
	env, err := loadCIEnvironment()
	if err != nil {
		return app.Service{}, err
	}
	branch := viper.GetString("branch")
	if branch == "" {
		branch = env.branchOverride()
	}
	service.Provenance = core.ProvenanceConfig{
		BranchOverride: branch,
		QueryTimeout:   viper.GetDuration("git_timeout"),
	}
	return service, nil
}

func exitCodeForError(err error) int {
	code := errbuilder.CodeOf(err)
	switch code {
	case errbuilder.CodeInvalidArgument, errbuilder.CodeAlreadyExists:
		return 2
	case errbuilder.CodeFailedPrecondition:
		return 4
	case errbuilder.CodePermissionDenied:
		return 3
	case errbuilder.CodeNotFound, errbuilder.CodeInternal:
		return 5
	default:
		return 1
	}
}
