package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	// Analysis endpoint validation
	if cfg.Analysis.BaseURL != "" {
		u, err := url.Parse(cfg.Analysis.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			issues = append(issues, ValidationIssue{
				Path:    "analysis.baseUrl",
				Message: fmt.Sprintf("must be an absolute http(s) URL, got %q", cfg.Analysis.BaseURL),
			})
		} else if u.Scheme != "http" && u.Scheme != "https" {
			issues = append(issues, ValidationIssue{
				Path:    "analysis.baseUrl",
				Message: fmt.Sprintf("scheme must be http or https, got %q", u.Scheme),
			})
		}
	}
	if strings.ContainsAny(cfg.Analysis.VideoField, " \t\"") {
		issues = append(issues, ValidationIssue{
			Path:    "analysis.videoField",
			Message: fmt.Sprintf("invalid multipart field name %q", cfg.Analysis.VideoField),
		})
	}
	if cfg.Analysis.SubmitTimeoutSeconds < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "analysis.submitTimeoutSeconds",
			Message: fmt.Sprintf("must be non-negative, got %d", cfg.Analysis.SubmitTimeoutSeconds),
		})
	}
	if cfg.Analysis.HealthTimeoutSeconds < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "analysis.healthTimeoutSeconds",
			Message: fmt.Sprintf("must be non-negative, got %d", cfg.Analysis.HealthTimeoutSeconds),
		})
	}

	// Media policy validation
	if cfg.Media.MaxUploadBytes < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "media.maxUploadBytes",
			Message: fmt.Sprintf("must be non-negative, got %d", cfg.Media.MaxUploadBytes),
		})
	}
	for _, ext := range cfg.Media.ExtraExtensions {
		if !strings.HasPrefix(ext, ".") {
			issues = append(issues, ValidationIssue{
				Path:    "media.extraExtensions",
				Message: fmt.Sprintf("extensions must start with a dot, got %q", ext),
			})
		}
	}

	// Gateway validation
	if cfg.Gateway.Port < 0 || cfg.Gateway.Port > 65535 {
		issues = append(issues, ValidationIssue{
			Path:    "gateway.port",
			Message: fmt.Sprintf("port must be 0-65535, got %d", cfg.Gateway.Port),
		})
	}
	validBinds := []string{"loopback", "lan"}
	if cfg.Gateway.Bind != "" && !slices.Contains(validBinds, cfg.Gateway.Bind) {
		issues = append(issues, ValidationIssue{
			Path:    "gateway.bind",
			Message: fmt.Sprintf("must be one of %v, got %q", validBinds, cfg.Gateway.Bind),
		})
	}

	// Logging validation
	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}
	validConsoleStyles := []string{"pretty", "json"}
	if cfg.Logging.ConsoleStyle != "" && !slices.Contains(validConsoleStyles, cfg.Logging.ConsoleStyle) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.consoleStyle",
			Message: fmt.Sprintf("must be one of %v, got %q", validConsoleStyles, cfg.Logging.ConsoleStyle),
		})
	}

	return issues
}
