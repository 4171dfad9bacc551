package output

// Report holds what was read out of a response body
type Report struct {
	Extracts []ExtractResult   `json:"extracts,omitempty" yaml:"extracts,omitempty"`
	Matches  []MatchResult     `json:"matches,omitempty" yaml:"matches,omitempty"`
	JSONPath map[string]string `json:"jsonPath,omitempty" yaml:"jsonPath,omitempty"`
	CSS      []SelectorResult  `json:"css,omitempty" yaml:"css,omitempty"`
	XPath    []SelectorResult  `json:"xpath,omitempty" yaml:"xpath,omitempty"`
	Schema   *SchemaResult     `json:"schema,omitempty" yaml:"schema,omitempty"`
	Errors   []string          `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// ExtractResult lists every match of one pattern
type ExtractResult struct {
	Pattern string   `json:"pattern" yaml:"pattern"`
	Matches []string `json:"matches" yaml:"matches"`
}

// MatchResult is the occurrence count of one search input
type MatchResult struct {
	Input string `json:"input" yaml:"input"`
	Kind  string `json:"kind" yaml:"kind"`
	Count int    `json:"count" yaml:"count"`
}

// SelectorResult lists the text of every node one selector matched
type SelectorResult struct {
	Selector string   `json:"selector" yaml:"selector"`
	Values   []string `json:"values" yaml:"values"`
}

// SchemaResult is the outcome of checking the body against a schema
type SchemaResult struct {
	Valid  bool     `json:"valid" yaml:"valid"`
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Empty reports whether nothing was requested
func (r *Report) Empty() bool {
	return r == nil || (len(r.Extracts) == 0 && len(r.Matches) == 0 && len(r.JSONPath) == 0 &&
		len(r.CSS) == 0 && len(r.XPath) == 0 && r.Schema == nil && len(r.Errors) == 0)
}

// Failed reports whether any inspection failed
func (r *Report) Failed() bool {
	return r != nil && (len(r.Errors) > 0 || (r.Schema != nil && !r.Schema.Valid))
}
