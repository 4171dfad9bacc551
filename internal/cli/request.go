package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/hitch/http"
	"github.com/wesleyorama2/hitch/internal/output"
	"github.com/wesleyorama2/hitch/internal/stats"
	"github.com/wesleyorama2/hitch/pkg/jsonschema"
)

// requestFlags are the flags shared by get, head and post
type requestFlags struct {
	params    []string
	timeout   int
	userAgent string
	referer   string
	noFollow  bool
	conn      bool
	extract   []string
	match     []string
	jsonPath  []string
	css       []string
	xpath     []string
	schema    string
	repeat    int
	rate      float64
}

func (f *requestFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringArrayVarP(&f.params, "param", "p", nil, "Request parameter as key=value (can be used multiple times)")
	flags.IntVarP(&f.timeout, "timeout", "t", http.DefaultTimeoutSeconds, "Request timeout in seconds")
	flags.StringVar(&f.userAgent, "user-agent", "", "User-Agent header to send")
	flags.StringVar(&f.referer, "referer", "", "Referer header to send")
	flags.BoolVar(&f.noFollow, "no-follow", false, "Do not follow redirects")
	flags.BoolVar(&f.conn, "conn", false, "Use the raw connection transport instead of the default fetch transport")
	flags.StringArrayVarP(&f.extract, "extract", "e", nil, "Print every match of a pattern such as /id=(\\d+)/i")
	flags.StringArrayVarP(&f.match, "match", "m", nil, "Count occurrences of a /pattern/ or literal text")
	flags.StringArrayVar(&f.jsonPath, "json-path", nil, "Extract a JSON value as name=$.path")
	flags.StringArrayVar(&f.css, "css", nil, "Print the text of nodes matching a CSS selector")
	flags.StringArrayVar(&f.xpath, "xpath", nil, "Print the text of nodes matching an XPath expression")
	flags.StringVar(&f.schema, "schema", "", "Validate the body against a JSON Schema file")
	flags.IntVar(&f.repeat, "repeat", 1, "Send the request this many times and print timing statistics")
	flags.Float64Var(&f.rate, "rate", 0, "Maximum requests per second when repeating")
}

// parseParams splits key=value pairs, keeping their order
func parseParams(pairs []string) ([][2]string, error) {
	params := make([][2]string, 0, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", pair)
		}
		params = append(params, [2]string{key, value})
	}
	return params, nil
}

func (f *requestFlags) inspection() (*inspection, error) {
	paths, err := parseNamedPaths(f.jsonPath)
	if err != nil {
		return nil, err
	}

	in := &inspection{
		extract:  f.extract,
		match:    f.match,
		jsonPath: paths,
		css:      f.css,
		xpath:    f.xpath,
	}
	if f.schema != "" {
		if in.schema, err = jsonschema.CompileFile(f.schema); err != nil {
			return nil, err
		}
	}
	return in, nil
}

// newMethodCmd builds a command that sends method to a URL argument
func newMethodCmd(opts *globalOptions, method, use, short string) *cobra.Command {
	flags := &requestFlags{}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.repeat < 1 {
				return fmt.Errorf("--repeat must be at least 1")
			}

			params, err := parseParams(flags.params)
			if err != nil {
				return err
			}
			in, err := flags.inspection()
			if err != nil {
				return err
			}

			client := http.NewClient(
				http.WithLogger(opts.logger),
				http.WithTimeoutSeconds(flags.timeout),
				http.WithFollowRedirects(!flags.noFollow),
				http.WithUserAgent(flags.userAgent),
				http.WithReferer(flags.referer),
				http.WithConnTransport(flags.conn),
			)
			req, err := client.NewRequest(args[0])
			if err != nil {
				return err
			}
			for _, p := range params {
				req.Param(p[0], p[1])
			}

			return execute(cmd.Context(), cmd.OutOrStdout(), opts, req, method, in, flags.repeat, flags.rate)
		},
	}
	flags.register(cmd)
	return cmd
}

// execute sends req, prints each response with its inspection report and,
// when repeating, a timing summary. It returns an error when the last
// response failed or an inspection failed, so the process exits non-zero.
func execute(ctx context.Context, w io.Writer, opts *globalOptions, req *http.Request, method string, in *inspection, repeat int, rps float64) error {
	if ctx == nil {
		ctx = context.Background()
	}

	formatter, err := opts.formatter(w)
	if err != nil {
		return err
	}

	call, err := req.Call(method)
	if err != nil {
		return err
	}
	fmt.Fprint(w, formatter.FormatRequest(call))

	var last *http.Response
	var lastReport *output.Report
	runner := &stats.Runner{
		Count:  repeat,
		Rate:   rps,
		Logger: opts.logger,
		OnResponse: func(i int, resp *http.Response) {
			last = resp
			lastReport = in.apply(resp)
			// A repeated run prints only the first response in full
			if i == 0 || opts.verbose {
				fmt.Fprint(w, formatter.FormatResponse(resp, lastReport))
			}
		},
	}

	summary, err := runner.Run(ctx, func(ctx context.Context) (*http.Response, error) {
		return req.Do(ctx, method)
	})
	if err != nil {
		return err
	}

	if repeat > 1 {
		fmt.Fprint(w, formatter.FormatSummary(summary))
	}

	switch {
	case last == nil:
		return nil
	case last.IsError():
		return fmt.Errorf("request failed: %s", last.Error())
	case lastReport.Failed():
		return fmt.Errorf("inspection failed for %s", last.URL())
	}
	return nil
}

func newGetCmd(opts *globalOptions) *cobra.Command {
	return newMethodCmd(opts, http.MethodGet, "get URL", "Make a GET request to the specified URL")
}

func newHeadCmd(opts *globalOptions) *cobra.Command {
	return newMethodCmd(opts, http.MethodHead, "head URL", "Make a HEAD request to the specified URL")
}

func newPostCmd(opts *globalOptions) *cobra.Command {
	cmd := newMethodCmd(opts, http.MethodPost, "post URL", "Make a POST request with form-encoded parameters")
	cmd.Long = `Make a POST request to the specified URL. Parameters given with -p are
sent as an application/x-www-form-urlencoded body.`
	return cmd
}
