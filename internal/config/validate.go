package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalid is wrapped by Check when validation finds at least one error.
var ErrInvalid = errors.New("config: invalid")

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks the run.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced to the user but does not block the run.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path names the offending
// setting by its config-file key.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// schemaNameRe restricts the schema to a lower-case identifier; enum type
// names are emitted unquoted.
var schemaNameRe = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// Validate performs static checks over c without mutating it.
func Validate(c Config) []Issue {
	var issues []Issue
	add := func(sev IssueSeverity, path, format string, a ...any) {
		issues = append(issues, Issue{Severity: sev, Path: path, Message: fmt.Sprintf(format, a...)})
	}

	if strings.TrimSpace(c.InputPath) == "" {
		add(SeverityError, "input", "input path is required (-in)")
	}
	if strings.TrimSpace(c.OutputPath) == "" {
		add(SeverityError, "output", "output path must not be empty")
	}
	if c.InputPath != "" && c.InputPath != "-" && c.InputPath == c.OutputPath {
		add(SeverityError, "output", "output path %q equals the input path", c.OutputPath)
	}

	switch {
	case c.Parallelism < 1:
		add(SeverityError, "parallelism", "parallelism must be >= 1, got %d", c.Parallelism)
	case c.Parallelism > MaxParallelism:
		add(SeverityWarning, "parallelism", "parallelism %d exceeds the maximum; capped at %d", c.Parallelism, MaxParallelism)
	}
	if c.BatchSize < 1 {
		add(SeverityError, "batch_size", "batch size must be >= 1, got %d", c.BatchSize)
	}

	if !schemaNameRe.MatchString(c.Schema) {
		add(SeverityError, "schema", "schema %q must be a lower-case SQL identifier", c.Schema)
	}

	if strings.TrimSpace(c.Job) == "" {
		add(SeverityError, "job", "job must not be empty; it is used for metrics grouping")
	}
	switch strings.ToLower(c.MetricsBackend) {
	case "", MetricsNone:
	case MetricsPushgateway:
		if c.PushgatewayURL == "" {
			add(SeverityError, "pushgateway_url", "pushgateway backend requires a URL")
		} else if u, err := url.Parse(c.PushgatewayURL); err != nil || u.Scheme == "" || u.Host == "" {
			add(SeverityError, "pushgateway_url", "invalid URL %q", c.PushgatewayURL)
		}
	default:
		add(SeverityError, "metrics_backend", "unknown metrics backend %q (want none or pushgateway)", c.MetricsBackend)
	}

	return issues
}

// Check runs Validate and splits the result: warnings are returned for the
// caller to log, errors are joined into one error wrapping ErrInvalid.
func Check(c Config) (warnings []Issue, err error) {
	var errs []error
	for _, iss := range Validate(c) {
		if iss.Severity == SeverityError {
			errs = append(errs, iss)
			continue
		}
		warnings = append(warnings, iss)
	}
	if len(errs) > 0 {
		return warnings, fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return warnings, nil
}
