package config

import (
	"fmt"
	"strings"

	"github.com/wesleyorama2/hitch/http"
	"github.com/wesleyorama2/hitch/pkg/selector"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

// Error returns the error message
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) []ValidationError {
	var errors []ValidationError

	if config.Defaults.Transport != "" && !validTransport(config.Defaults.Transport) {
		errors = append(errors, ValidationError{
			Path:    "defaults.transport",
			Message: fmt.Sprintf("invalid transport: %s", config.Defaults.Transport),
		})
	}

	if config.Log.Format != "" && config.Log.Format != "text" && config.Log.Format != "json" {
		errors = append(errors, ValidationError{
			Path:    "log.format",
			Message: fmt.Sprintf("invalid log format: %s", config.Log.Format),
		})
	}

	for name, env := range config.Environments {
		if env.BaseURL == "" {
			errors = append(errors, ValidationError{
				Path:    fmt.Sprintf("environments.%s.baseUrl", name),
				Message: "baseUrl is required",
			})
		}
	}

	// Validate requests
	if len(config.Requests) == 0 {
		errors = append(errors, ValidationError{
			Path:    "requests",
			Message: "at least one request is required",
		})
	}

	for name, req := range config.Requests {
		errors = append(errors, validateRequest(name, req)...)
	}

	return errors
}

func validateRequest(name string, req Request) []ValidationError {
	var errors []ValidationError

	if req.URL == "" {
		errors = append(errors, ValidationError{
			Path:    fmt.Sprintf("requests.%s.url", name),
			Message: "url is required",
		})
	}

	method := strings.ToUpper(req.Method)
	if method != "" && method != http.MethodGet && method != http.MethodHead && method != http.MethodPost {
		errors = append(errors, ValidationError{
			Path:    fmt.Sprintf("requests.%s.method", name),
			Message: fmt.Sprintf("invalid method: %s", req.Method),
		})
	}

	if req.Transport != "" && !validTransport(req.Transport) {
		errors = append(errors, ValidationError{
			Path:    fmt.Sprintf("requests.%s.transport", name),
			Message: fmt.Sprintf("invalid transport: %s", req.Transport),
		})
	}

	for i, pattern := range req.Extract {
		if _, err := http.CompilePattern(pattern); err != nil {
			errors = append(errors, ValidationError{
				Path:    fmt.Sprintf("requests.%s.extract[%d]", name, i),
				Message: err.Error(),
			})
		}
	}

	for i, input := range req.Match {
		in := http.ParseSearchInput(input)
		if in.Kind != http.SearchPattern {
			continue
		}
		if _, err := http.CompilePattern(in.Value); err != nil {
			errors = append(errors, ValidationError{
				Path:    fmt.Sprintf("requests.%s.match[%d]", name, i),
				Message: err.Error(),
			})
		}
	}

	for varName, path := range req.JSONPath {
		if path == "" {
			errors = append(errors, ValidationError{
				Path:    fmt.Sprintf("requests.%s.jsonPath.%s", name, varName),
				Message: "JSONPath expression cannot be empty",
			})
		}
	}

	for i, css := range req.CSS {
		if _, err := selector.Compile(css); err != nil {
			errors = append(errors, ValidationError{
				Path:    fmt.Sprintf("requests.%s.css[%d]", name, i),
				Message: err.Error(),
			})
		}
	}

	return errors
}

// ValidateEnvironment validates that an environment exists
func ValidateEnvironment(config *Config, envName string) error {
	if _, ok := config.Environments[envName]; !ok {
		return fmt.Errorf("environment not found: %s", envName)
	}
	return nil
}

// ValidateRequest validates that a request exists
func ValidateRequest(config *Config, reqName string) error {
	if _, ok := config.Requests[reqName]; !ok {
		return fmt.Errorf("request not found: %s", reqName)
	}
	return nil
}

func validTransport(name string) bool {
	return name == string(http.TransportFetch) || name == string(http.TransportConn)
}
