package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/hitch/internal/logging"
	"github.com/wesleyorama2/hitch/internal/output"
)

var version = "0.1.0"

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	verbose   bool
	noColor   bool
	format    string
	logLevel  string
	logFormat string
	logFile   string

	logger *logrus.Logger
}

// formatter builds the output formatter for w from the global flags
func (o *globalOptions) formatter(w io.Writer) (output.FormatProvider, error) {
	format, err := output.ParseFormat(o.format)
	if err != nil {
		return nil, err
	}
	noColor := !output.ColorEnabled(w, o.noColor)
	return output.GetFormatter(format, o.verbose, noColor), nil
}

// NewRootCmd creates the hitch command tree
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "hitch",
		Short:   "A small synchronous HTTP client for fetching and inspecting pages",
		Version: version,
		Long: `Hitch fetches a URL with GET, HEAD or POST and reports the status,
headers, body and elapsed time. Response bodies can be inspected with
regular expressions, literal counts, JSONPath, CSS or XPath selectors and
JSON Schema validation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(logging.Options{
				Level:  opts.logLevel,
				Format: opts.logFormat,
				File:   opts.logFile,
				Output: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// If no subcommand is provided, print help
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Show headers and body alongside inspection results")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flags.StringVarP(&opts.format, "format", "f", "text", "Output format: text, json or yaml")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level: trace, debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "text", "Log format: text or json")
	flags.StringVar(&opts.logFile, "log-file", "", "Also write logs to this file, rotated by size")

	rootCmd.AddCommand(newGetCmd(opts))
	rootCmd.AddCommand(newHeadCmd(opts))
	rootCmd.AddCommand(newPostCmd(opts))
	rootCmd.AddCommand(newRunCmd(opts))

	return rootCmd
}

// Execute runs the root command, printing any error to stderr.
// This is called by main.main().
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}
