package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/wesleyorama2/hitch/http"
	"github.com/wesleyorama2/hitch/internal/output"
	"github.com/wesleyorama2/hitch/pkg/jsonpath"
	"github.com/wesleyorama2/hitch/pkg/jsonschema"
	"github.com/wesleyorama2/hitch/pkg/selector"
)

// inspection lists what to read out of a response body
type inspection struct {
	extract  []string
	match    []string
	jsonPath map[string]string
	css      []string
	xpath    []string
	schema   *jsonschema.Schema
}

// parseNamedPaths turns name=path pairs into a map. A bare path is named
// after itself.
func parseNamedPaths(pairs []string) (map[string]string, error) {
	paths := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, path, found := strings.Cut(pair, "=")
		if !found {
			name, path = pair, pair
		}
		name, path = strings.TrimSpace(name), strings.TrimSpace(path)
		if name == "" || path == "" {
			return nil, fmt.Errorf("invalid JSONPath %q: expected name=path", pair)
		}
		paths[name] = path
	}
	return paths, nil
}

func (in *inspection) empty() bool {
	return len(in.extract) == 0 && len(in.match) == 0 && len(in.jsonPath) == 0 &&
		len(in.css) == 0 && len(in.xpath) == 0 && in.schema == nil
}

// apply runs every inspection against resp. Failures are collected in the
// report rather than stopping the remaining inspections.
func (in *inspection) apply(resp *http.Response) *output.Report {
	report := &output.Report{}
	if in.empty() {
		return report
	}
	body := resp.BodyString()

	for _, pattern := range in.extract {
		matches, err := resp.Extract(pattern)
		if err != nil {
			report.Errors = append(report.Errors, err.Error())
			continue
		}
		report.Extracts = append(report.Extracts, output.ExtractResult{Pattern: pattern, Matches: matches})
	}

	for _, s := range in.match {
		input := http.ParseSearchInput(s)
		count, err := resp.Count(input)
		if err != nil {
			report.Errors = append(report.Errors, err.Error())
			continue
		}
		report.Matches = append(report.Matches, output.MatchResult{Input: s, Kind: input.Kind.String(), Count: count})
	}

	if len(in.jsonPath) > 0 {
		values, err := jsonpath.ExtractAll(body, in.jsonPath)
		if len(values) > 0 {
			report.JSONPath = values
		}
		if err != nil {
			report.Errors = append(report.Errors, err.Error())
		}
	}

	if len(in.css) > 0 || len(in.xpath) > 0 {
		in.applySelectors(resp, report)
	}

	if in.schema != nil {
		result := &output.SchemaResult{Valid: true}
		if err := in.schema.Validate(body); err != nil {
			result.Valid = false
			var verrs jsonschema.ValidationErrors
			if errors.As(err, &verrs) {
				for _, e := range verrs {
					result.Errors = append(result.Errors, e.Error())
				}
			} else {
				result.Errors = []string{err.Error()}
			}
		}
		report.Schema = result
	}

	return report
}

func (in *inspection) applySelectors(resp *http.Response, report *output.Report) {
	doc, err := selector.Parse(resp.BodyString(), resp.Header("Content-Type"))
	if err != nil {
		report.Errors = append(report.Errors, err.Error())
		return
	}

	for _, css := range in.css {
		nodes, err := doc.CSS(css)
		if err != nil {
			report.Errors = append(report.Errors, err.Error())
			continue
		}
		report.CSS = append(report.CSS, output.SelectorResult{Selector: css, Values: nodes.Texts()})
	}

	for _, expr := range in.xpath {
		nodes, err := doc.XPath(expr)
		if err != nil {
			report.Errors = append(report.Errors, err.Error())
			continue
		}
		report.XPath = append(report.XPath, output.SelectorResult{Selector: expr, Values: nodes.Texts()})
	}
}

// sortedKeys returns map keys in order, for stable output
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
