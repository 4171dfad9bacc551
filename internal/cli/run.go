package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/hitch/http"
	"github.com/wesleyorama2/hitch/internal/config"
	"github.com/wesleyorama2/hitch/internal/logging"
	"github.com/wesleyorama2/hitch/pkg/jsonschema"
)

func newRunCmd(opts *globalOptions) *cobra.Command {
	var environment string

	cmd := &cobra.Command{
		Use:   "run CONFIG [REQUEST...]",
		Short: "Run named requests from a configuration file",
		Long: `Run requests defined in a YAML or JSON configuration file. With no
request names every request in the file runs, in name order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile := args[0]

			// Load configuration
			cfg, err := config.LoadConfig(configFile)
			if err != nil {
				return err
			}

			// Validate configuration
			if errs := config.ValidateConfig(cfg); len(errs) > 0 {
				var lines []string
				for _, e := range errs {
					lines = append(lines, "  - "+e.Error())
				}
				return fmt.Errorf("configuration validation errors:\n%s", strings.Join(lines, "\n"))
			}

			var env config.Environment
			if environment != "" {
				if err := config.ValidateEnvironment(cfg, environment); err != nil {
					return err
				}
				env = cfg.Environments[environment]
			}

			names := args[1:]
			if len(names) == 0 {
				names = sortedKeys(cfg.Requests)
			}
			for _, name := range names {
				if err := config.ValidateRequest(cfg, name); err != nil {
					return err
				}
			}

			if err := applyLogConfig(cmd, opts, cfg.Log); err != nil {
				return err
			}

			var failed []string
			for _, name := range names {
				if err := runRequest(cmd, opts, configFile, cfg, name, env); err != nil {
					opts.logger.WithField("request", name).WithError(err).Warn("request did not pass")
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", name, err)
					failed = append(failed, name)
				}
			}

			if len(failed) > 0 {
				return fmt.Errorf("%d of %d requests failed: %s", len(failed), len(names), strings.Join(failed, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&environment, "environment", "e", "", "Environment to use for base URL and variables")
	return cmd
}

// applyLogConfig rebuilds the logger from the file's log section, unless
// the matching flags were given explicitly
func applyLogConfig(cmd *cobra.Command, opts *globalOptions, logCfg config.LogConfig) error {
	changed := func(name string) bool {
		return cmd.Flags().Changed(name)
	}

	level, format, file := opts.logLevel, opts.logFormat, opts.logFile
	if logCfg.Level != "" && !changed("log-level") {
		level = logCfg.Level
	}
	if logCfg.Format != "" && !changed("log-format") {
		format = logCfg.Format
	}
	if logCfg.File != "" && !changed("log-file") {
		file = logCfg.File
	}
	if level == opts.logLevel && format == opts.logFormat && file == opts.logFile {
		return nil
	}

	logger, err := logging.New(logging.Options{
		Level:      level,
		Format:     format,
		File:       file,
		MaxSizeMB:  logCfg.MaxSizeMB,
		MaxBackups: logCfg.MaxBackups,
		MaxAgeDays: logCfg.MaxAgeDays,
		Compress:   logCfg.Compress,
		Output:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	opts.logger = logger
	return nil
}

// runRequest sends one configured request. Request settings override the
// file defaults.
func runRequest(cmd *cobra.Command, opts *globalOptions, configFile string, cfg *config.Config, name string, env config.Environment) error {
	reqCfg := cfg.Requests[name]
	defaults := cfg.Defaults

	clientOpts := []http.ClientOption{
		http.WithLogger(opts.logger.WithField("request", name)),
		http.WithUserAgent(firstNonEmpty(reqCfg.UserAgent, defaults.UserAgent)),
		http.WithReferer(firstNonEmpty(reqCfg.Referer, defaults.Referer)),
		http.WithConnTransport(firstNonEmpty(reqCfg.Transport, defaults.Transport) == string(http.TransportConn)),
	}
	if timeout := firstPositive(reqCfg.TimeoutSeconds, defaults.TimeoutSeconds); timeout > 0 {
		clientOpts = append(clientOpts, http.WithTimeoutSeconds(timeout))
	}
	if follow := firstBool(reqCfg.FollowRedirects, defaults.FollowRedirects); follow != nil {
		clientOpts = append(clientOpts, http.WithFollowRedirects(*follow))
	}

	req, err := http.NewClient(clientOpts...).NewRequest(config.ResolveURL(reqCfg.URL, env))
	if err != nil {
		return err
	}
	for _, p := range reqCfg.SortedParams(env.Vars) {
		req.Param(p[0], p[1])
	}

	in := &inspection{
		extract:  reqCfg.Extract,
		match:    reqCfg.Match,
		jsonPath: reqCfg.JSONPath,
		css:      reqCfg.CSS,
	}
	if reqCfg.Schema != "" {
		if in.schema, err = jsonschema.CompileFile(config.ResolvePath(configFile, reqCfg.Schema)); err != nil {
			return err
		}
	}

	method := strings.ToUpper(reqCfg.Method)
	if method == "" {
		method = http.MethodGet
	}

	return execute(cmd.Context(), cmd.OutOrStdout(), opts, req, method, in, 1, 0)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func firstBool(values ...*bool) *bool {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
