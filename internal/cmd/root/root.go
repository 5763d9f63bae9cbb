package root

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kinfolk/kinctl/internal/build"
	"github.com/kinfolk/kinctl/internal/cmd"
	"github.com/kinfolk/kinctl/internal/cmd/common"
	"github.com/kinfolk/kinctl/internal/cmd/root/verbs/get"
	"github.com/kinfolk/kinctl/internal/cmd/root/verbs/serve"
	"github.com/kinfolk/kinctl/internal/cmd/root/verbs/view"
	"github.com/kinfolk/kinctl/internal/cmd/root/version"
	"github.com/kinfolk/kinctl/internal/config"
	"github.com/kinfolk/kinctl/internal/iostreams"
	"github.com/kinfolk/kinctl/internal/log"
	"github.com/kinfolk/kinctl/internal/meta"
	"github.com/kinfolk/kinctl/internal/profile"
	"github.com/kinfolk/kinctl/internal/theme"
	"github.com/kinfolk/kinctl/internal/util"
	"github.com/kinfolk/kinctl/internal/util/i18n"
	"github.com/kinfolk/kinctl/internal/util/normalizers"
	"github.com/segmentio/cli"
	"github.com/spf13/cobra"
)

var (
	rootLong = normalizers.LongDesc(i18n.T("root.rootLong", `
  kinctl browses a family tree of people, sorted and filtered the same way from
  the terminal, an interactive table or a small web page.

  People are loaded from the URL or file configured under people.url.`))

	rootShort = i18n.T("root.rootShort", fmt.Sprintf("%s browses family trees", meta.CLIName))

	rootCmd *cobra.Command

	// Stores the global runtime value for the Configuration file path,
	configFilePath        string
	defaultConfigFilePath string
	currProfile           = profile.DefaultProfile

	currConfig config.Hook
	streams    *iostreams.IOStreams
	pMgr       profile.Manager
	logCloser  io.Closer

	outputFormat = cmd.NewEnum(common.OutputFormats(), common.DefaultOutputFormat)
	logLevel     = cmd.NewEnum(common.LogLevels(), common.DefaultLogLevel)

	buildInfo *build.Info
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           meta.CLIName,
		Short:         rootShort,
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			logger, closer, err := log.New(log.Options{
				Level:  currConfig.GetString(common.LogLevelConfigPath),
				File:   currConfig.GetString(common.LogFileConfigPath),
				ErrOut: streams.ErrOut,
			})
			if err != nil {
				return &cmd.ConfigurationError{Err: err}
			}
			logCloser = closer

			themeName := currConfig.GetString(common.ColorThemeConfigPath)
			if themeName == "" {
				themeName = common.DefaultColorTheme
			}
			if err := theme.SetCurrent(themeName); err != nil {
				return &cmd.ConfigurationError{Err: err}
			}

			ctx := context.WithValue(c.Context(), config.ConfigKey, currConfig)
			ctx = context.WithValue(ctx, iostreams.StreamsKey, streams)
			ctx = context.WithValue(ctx, profile.ProfileManagerKey, pMgr)
			ctx = context.WithValue(ctx, build.InfoKey, buildInfo)
			ctx = context.WithValue(ctx, log.LoggerKey, logger)
			if _, ok := ctx.Value(cmd.PeopleSourceFactoryKey).(cmd.PeopleSourceFactory); !ok {
				ctx = context.WithValue(ctx, cmd.PeopleSourceFactoryKey, cmd.PeopleSourceFactory(cmd.DefaultPeopleSourceFactory))
			}
			ctx = theme.ContextWithPalette(ctx, theme.Current())
			ctx = log.WithRequestLogContext(ctx, log.RequestLogContext{CommandPath: c.CommandPath()})
			c.SetContext(ctx)

			logger.LogAttrs(ctx, log.LevelTrace, "command started",
				log.RequestLogContextAttrs(ctx)...)
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if logCloser == nil {
				return nil
			}
			return logCloser.Close()
		},
	}

	// parses all flags not just the target command
	rootCmd.TraverseChildren = true

	rootCmd.PersistentFlags().StringVar(&configFilePath, common.ConfigFilePathFlagName,
		defaultConfigFilePath,
		i18n.T("root."+common.ConfigFilePathFlagName, "Path to the configuration file to load."))

	rootCmd.PersistentFlags().StringVarP(&currProfile, common.ProfileFlagName, common.ProfileFlagShort,
		profile.DefaultProfile,
		fmt.Sprintf(`Specify the profile to use for this command.
- Env        : [ %s_PROFILE ]`, strings.ToUpper(meta.CLIName)))

	rootCmd.PersistentFlags().VarP(outputFormat, common.OutputFlagName, common.OutputFlagShort,
		fmt.Sprintf(`Configures the output format.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.OutputConfigPath, strings.Join(outputFormat.Allowed, "|")))

	rootCmd.PersistentFlags().Var(logLevel, common.LogLevelFlagName,
		fmt.Sprintf(`Configures the logging level. Execution logs are written to the log file.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.LogLevelConfigPath, strings.Join(logLevel.Allowed, "|")))

	rootCmd.PersistentFlags().String(common.LogFileFlagName, "",
		fmt.Sprintf(`Writes execution logs to the path provided.
- Config path: [ %s ]`, common.LogFileConfigPath))

	return rootCmd
}

// addCommands adds the root subcommands to the command.
func addCommands() error {
	rootCmd.AddCommand(version.NewVersionCmd())

	c, e := get.NewGetCmd()
	if e != nil {
		return e
	}
	rootCmd.AddCommand(c)

	c, e = view.NewViewCmd()
	if e != nil {
		return e
	}
	rootCmd.AddCommand(c)

	rootCmd.AddCommand(serve.NewServeCmd())

	return nil
}

func init() {
	var err error
	defaultConfigFilePath, err = config.GetDefaultConfigFilePath()
	util.CheckError(err)
	configFilePath = defaultConfigFilePath

	cobra.OnInitialize(initConfig)
	rootCmd = newRootCmd()
	util.CheckError(addCommands())

	// Because the profile is not part of the configuration, we can't use viper
	// to read it following it's built in priorities.  So here we look for a well known
	// profile variable and set our package level variable if it's set before
	// continuing to process the command run.  This creates a ENV_VAR < CLI_FLAG priority
	if profileEnvVar, found := os.LookupEnv(fmt.Sprintf("%s_PROFILE", strings.ToUpper(meta.CLIName))); found {
		currProfile = profileEnvVar
	}
}

func initConfig() {
	cfg, err := config.GetConfig(configFilePath, currProfile, defaultConfigFilePath)
	util.CheckError(err)
	currConfig = cfg

	pMgr = profile.NewManager(cfg.Viper)

	bindings := []struct{ flag, cfgPath string }{
		{common.OutputFlagName, common.OutputConfigPath},
		{common.LogLevelFlagName, common.LogLevelConfigPath},
		{common.LogFileFlagName, common.LogFileConfigPath},
	}
	for _, b := range bindings {
		util.CheckError(cfg.BindFlag(b.cfgPath, rootCmd.PersistentFlags().Lookup(b.flag)))
	}
}

func Execute(ctx context.Context, s *iostreams.IOStreams, bi *build.Info) {
	buildInfo = bi
	cobra.EnableTraverseRunHooks = true
	streams = s
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return
	}

	var executionError *cmd.ExecutionError
	if errors.As(err, &executionError) {
		printer, perr := cli.Format(outputFormat.String(), s.ErrOut)
		if perr != nil {
			fmt.Fprintln(s.ErrOut, "Error:", err)
			os.Exit(1)
		}
		printer.Print(err)
		printer.Flush()
		os.Exit(1)
	}

	fmt.Fprintln(s.ErrOut, "Error:", err)
	os.Exit(1)
}
