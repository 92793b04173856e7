// Package cmd provides the command-line interface of codycli.
package cmd

import (
	"codycli/internal/application/common"
	"codycli/internal/application/common/logging"
	"codycli/internal/application/common/slogger"
	"codycli/internal/client"
	"codycli/internal/config"
	"codycli/internal/version"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag names.
const (
	flagConfig      = "config"
	flagContextRepo = "context-repo"
	flagMessage     = "message"
	flagModel       = "model"
	flagOutput      = "output"
	flagStream      = "stream"
	flagTimeout     = "timeout"
	flagLogLevel    = "log-level"
	flagLogFormat   = "log-format"
	flagLogFile     = "log-file"
)

// ErrMissingMessage is returned when a chat is requested without --message.
var ErrMissingMessage = common.NewValidationError(flagMessage, "--message is required")

// errReported marks an error that was already written to the user.
var errReported = errors.New("error already reported")

// rootOptions holds the state shared by the root command and its subcommands
// for one invocation.
type rootOptions struct {
	cfgFile      string
	contextRepos []string
	message      string
	output       string
	stream       bool

	v      *viper.Viper
	config *config.Config
}

// NewRootCmd creates the root command. Every call returns an independent
// command tree with its own configuration state.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "codycli",
		Short: "Ask Sourcegraph Cody a question from the command line",
		Long: `codycli sends a question to the Sourcegraph Cody chat API and prints the answer.

With one or more --context-repo flags the question is enriched with code
snippets retrieved from those repositories before it is sent.

The instance and credential are read from SRC_ENDPOINT and SRC_ACCESS_TOKEN.`,
		Example: `  codycli --message "What does this repository do?" --context-repo github.com/sourcegraph/cody
  codycli --message "Explain Go channels" --output json`,
		Version:       version.GetVersion().Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().NFlag() == 0 {
				return cmd.Help()
			}
			return runAsk(cmd, opts)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = slogger.Sync()
		},
	}
	cmd.SetVersionTemplate(version.GetVersion().FormatFull())

	flags := cmd.Flags()
	flags.StringArrayVar(&opts.contextRepos, flagContextRepo, nil,
		"Repository to retrieve context from (repeatable), e.g. github.com/sourcegraph/cody")
	flags.StringVarP(&opts.message, flagMessage, "m", "", "Question to ask")
	flags.BoolVar(&opts.stream, flagStream, false, "Print the answer to stderr while it streams")
	flags.String(flagModel, "", "Chat model (default from chat.model, gpt-4o)")

	persistent := cmd.PersistentFlags()
	persistent.StringVar(&opts.cfgFile, flagConfig, "", "config file (default: ./configs/config.yaml)")
	persistent.StringVarP(&opts.output, flagOutput, "o", client.FormatText, "Output format (text, json)")
	persistent.Duration(flagTimeout, 0, "Timeout for each HTTP request including the streamed answer (0 = none)")
	persistent.String(flagLogLevel, "", "Log level (debug, info, warn, error)")
	persistent.String(flagLogFormat, "", "Log format (json, text)")
	persistent.String(flagLogFile, "", "Also write JSON logs to this file, rotated")

	for key, flag := range map[string]string{
		"chat.model":   flagModel,
		"http.timeout": flagTimeout,
		"log.level":    flagLogLevel,
		"log.format":   flagLogFormat,
		"log.file":     flagLogFile,
	} {
		f := flags.Lookup(flag)
		if f == nil {
			f = persistent.Lookup(flag)
		}
		if err := opts.v.BindPFlag(key, f); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", flag, err)
		}
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newModelsCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))

	return cmd
}

// Execute runs the root command with the process arguments and exits non-zero
// on failure. This is called by main.main().
func Execute() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command tree and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// loadConfig reads defaults, the optional config file, the environment and
// flags, then installs the configured logger. The result is not validated so
// that commands which never reach the instance work without credentials.
func (o *rootOptions) loadConfig(cmd *cobra.Command) error {
	if err := client.ValidateFormat(o.output); err != nil {
		return err
	}

	v := o.v
	config.SetDefaults(v)

	if o.cfgFile != "" {
		v.SetConfigFile(o.cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := config.BindEnvironment(v); err != nil {
		return err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return o.fail(cmd, &client.ConfigError{Err: fmt.Errorf("reading config file: %w", err)})
		}
	}

	cfg, err := config.Decode(v)
	if err != nil {
		return o.fail(cmd, &client.ConfigError{Err: err})
	}
	o.config = cfg

	if err := slogger.Configure(logging.Config{
		Level:    cfg.Log.Level,
		Format:   cfg.Log.Format,
		Output:   logging.OutputWriter,
		Writer:   cmd.ErrOrStderr(),
		FilePath: cfg.Log.File,
	}); err != nil {
		return o.fail(cmd, &client.ConfigError{Err: err})
	}

	slogger.Debug(cmd.Context(), "Configuration loaded", slogger.Fields{
		"config_file": v.ConfigFileUsed(),
		"endpoint":    cfg.Sourcegraph.Endpoint,
		"model":       cfg.Chat.Model,
	})
	return nil
}

// validConfig returns the loaded configuration after checking that it can
// reach the instance.
func (o *rootOptions) validConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := o.config.Validate(); err != nil {
		return nil, o.fail(cmd, &client.ConfigError{Err: err})
	}
	return o.config, nil
}

// fail reports err in the selected output format and returns errReported.
func (o *rootOptions) fail(cmd *cobra.Command, err error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	slogger.Debug(ctx, "Command failed", slogger.Fields2("command", cmd.Name(), "error", err.Error()))

	if o.output == client.FormatJSON {
		if writeErr := client.WriteFailure(cmd.OutOrStdout(), err); writeErr != nil {
			return writeErr
		}
		return errReported
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	return errReported
}
