package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

func ValidLogFormats() []string {
	return []string{"json", "text"}
}

func ValidDeletePolicies() []string {
	return []string{"atomic", "soft"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(c.Server.Address) == "" {
		errs = append(errs, ValidationError{Field: "server.address", Value: c.Server.Address, Message: "must not be empty"})
	}
	if c.Server.ReadHeaderTimeout <= 0 {
		errs = append(errs, ValidationError{Field: "server.read_header_timeout", Value: c.Server.ReadHeaderTimeout, Message: "must be positive"})
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, ValidationError{Field: "server.shutdown_timeout", Value: c.Server.ShutdownTimeout, Message: "must be positive"})
	}

	if strings.TrimSpace(c.DB.Path) == "" {
		errs = append(errs, ValidationError{Field: "db.path", Value: c.DB.Path, Message: "must not be empty"})
	}
	if c.DB.BusyTimeout < 0 {
		errs = append(errs, ValidationError{Field: "db.busy_timeout", Value: c.DB.BusyTimeout, Message: "must not be negative"})
	}

	if !slices.Contains(ValidDeletePolicies(), strings.ToLower(c.Ordering.DeletePolicy)) {
		errs = append(errs, ValidationError{
			Field:   "ordering.delete_policy",
			Value:   c.Ordering.DeletePolicy,
			Message: fmt.Sprintf("must be one of %s", strings.Join(ValidDeletePolicies(), ", ")),
		})
	}

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Log.Level)) {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Value:   c.Log.Level,
			Message: fmt.Sprintf("must be one of %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}
	if !slices.Contains(ValidLogFormats(), strings.ToLower(c.Log.Format)) {
		errs = append(errs, ValidationError{
			Field:   "log.format",
			Value:   c.Log.Format,
			Message: fmt.Sprintf("must be one of %s", strings.Join(ValidLogFormats(), ", ")),
		})
	}

	if c.GraphQL.MaxDepth < 1 {
		errs = append(errs, ValidationError{Field: "graphql.max_depth", Value: c.GraphQL.MaxDepth, Message: "must be at least 1"})
	}

	return errs
}
