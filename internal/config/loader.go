package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level configuration
type Config struct {
	Defaults     Defaults               `json:"defaults" yaml:"defaults"`
	Log          LogConfig              `json:"log" yaml:"log"`
	Environments map[string]Environment `json:"environments,omitempty" yaml:"environments,omitempty"`
	Requests     map[string]Request     `json:"requests" yaml:"requests"`
}

// Defaults holds request options applied unless a request or flag
// overrides them
type Defaults struct {
	TimeoutSeconds  int    `json:"timeoutSeconds,omitempty" yaml:"timeoutSeconds,omitempty"`
	FollowRedirects *bool  `json:"followRedirects,omitempty" yaml:"followRedirects,omitempty"`
	UserAgent       string `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`
	Referer         string `json:"referer,omitempty" yaml:"referer,omitempty"`
	Transport       string `json:"transport,omitempty" yaml:"transport,omitempty"`
}

// LogConfig represents the logging configuration
type LogConfig struct {
	Level      string `json:"level,omitempty" yaml:"level,omitempty"`
	Format     string `json:"format,omitempty" yaml:"format,omitempty"`
	File       string `json:"file,omitempty" yaml:"file,omitempty"`
	MaxSizeMB  int    `json:"maxSizeMb,omitempty" yaml:"maxSizeMb,omitempty"`
	MaxBackups int    `json:"maxBackups,omitempty" yaml:"maxBackups,omitempty"`
	MaxAgeDays int    `json:"maxAgeDays,omitempty" yaml:"maxAgeDays,omitempty"`
	Compress   bool   `json:"compress,omitempty" yaml:"compress,omitempty"`
}

// Environment represents an environment configuration
type Environment struct {
	BaseURL string            `json:"baseUrl" yaml:"baseUrl"`
	Vars    map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// Request represents a named request configuration
type Request struct {
	URL             string            `json:"url" yaml:"url"`
	Method          string            `json:"method" yaml:"method"`
	Params          map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	TimeoutSeconds  int               `json:"timeoutSeconds,omitempty" yaml:"timeoutSeconds,omitempty"`
	FollowRedirects *bool             `json:"followRedirects,omitempty" yaml:"followRedirects,omitempty"`
	UserAgent       string            `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`
	Referer         string            `json:"referer,omitempty" yaml:"referer,omitempty"`
	Transport       string            `json:"transport,omitempty" yaml:"transport,omitempty"`

	// Body inspection
	Extract  []string          `json:"extract,omitempty" yaml:"extract,omitempty"`
	Match    []string          `json:"match,omitempty" yaml:"match,omitempty"`
	JSONPath map[string]string `json:"jsonPath,omitempty" yaml:"jsonPath,omitempty"`
	CSS      []string          `json:"css,omitempty" yaml:"css,omitempty"`
	Schema   string            `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// LoadConfig loads a configuration file. Files ending in .json are parsed
// as JSON, everything else as YAML.
func LoadConfig(path string) (*Config, error) {
	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &config)
	} else {
		err = yaml.Unmarshal(data, &config)
	}
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return &config, nil
}

// ProcessEnvironment replaces {{name}} placeholders with variable values
func ProcessEnvironment(input string, vars map[string]string) string {
	result := input
	for key, value := range vars {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}
	return result
}

// ResolveURL applies variables to a request URL and joins relative URLs
// to the environment's base URL
func ResolveURL(reqURL string, env Environment) string {
	url := ProcessEnvironment(reqURL, env.Vars)

	if url == "" {
		return env.BaseURL
	}
	if isAbsoluteURL(url) || env.BaseURL == "" {
		return url
	}

	// Avoid double slashes when joining
	return strings.TrimRight(env.BaseURL, "/") + "/" + strings.TrimLeft(url, "/")
}

// SortedParams returns the request parameters with variables applied,
// ordered by key so repeated runs send the same query string
func (r Request) SortedParams(vars map[string]string) [][2]string {
	keys := make([]string, 0, len(r.Params))
	for key := range r.Params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	params := make([][2]string, 0, len(keys))
	for _, key := range keys {
		params = append(params, [2]string{key, ProcessEnvironment(r.Params[key], vars)})
	}
	return params
}

// ResolvePath resolves a path from the config file relative to its directory
func ResolvePath(configPath, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(configPath), path)
}

func isAbsoluteURL(url string) bool {
	lower := strings.ToLower(url)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
