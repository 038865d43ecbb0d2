package foundation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/docmatrix/internal/foundation/errors"
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9\-_]+$`)

// ValidID reports whether s is usable as a distro or site identifier.
func ValidID(s string) bool {
	return idPattern.MatchString(s)
}

// ValidString reports whether s contains at least one non-whitespace character.
func ValidString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsURL reports whether s is an absolute http(s) URL with a host.
func IsURL(s string) bool {
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && u.Host != ""
}

// FieldError represents a single validation failure. Field is a breadcrumb
// naming the offending entity (for example "distro 'stable' > branch 'main'").
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (fe FieldError) Error() string {
	if fe.Field != "" {
		return fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return fe.Message
}

// NewValidationError creates a validation error.
func NewValidationError(field, code, message string) FieldError {
	return FieldError{
		Field:   field,
		Code:    code,
		Message: message,
	}
}

// ValidationResult contains the result of a validation operation.
type ValidationResult struct {
	Valid  bool
	Errors []FieldError
}

// Valid creates a successful validation result.
func Valid() ValidationResult {
	return ValidationResult{Valid: true}
}

// Invalid creates a failed validation result with errors.
func Invalid(errs ...FieldError) ValidationResult {
	return ValidationResult{
		Valid:  false,
		Errors: errs,
	}
}

// Combine merges multiple validation results.
func (vr ValidationResult) Combine(other ValidationResult) ValidationResult {
	if vr.Valid && other.Valid {
		return Valid()
	}
	all := make([]FieldError, 0, len(vr.Errors)+len(other.Errors))
	all = append(all, vr.Errors...)
	all = append(all, other.Errors...)
	return Invalid(all...)
}

// Messages returns the formatted message of every error.
func (vr ValidationResult) Messages() []string {
	out := make([]string, 0, len(vr.Errors))
	for _, fe := range vr.Errors {
		out = append(out, fe.Error())
	}
	return out
}

// ToError converts a validation result to a classified validation error if invalid.
// The summary becomes the error message; every violation is attached as an issue.
func (vr ValidationResult) ToError(summary string) error {
	if vr.Valid {
		return nil
	}
	return errors.ValidationError(summary).WithIssues(vr.Messages()).Build()
}

// Collector accumulates validation failures. A fail-fast collector stops at
// the first failure; a verbose collector always walks everything.
//
//	c := foundation.NewCollector(failFast)
//	if !c.Check(foundation.ValidString(name), label, "blank_name", "name is blank") {
//		return c.Result()
//	}
type Collector struct {
	failFast bool
	stopped  bool
	errs     []FieldError
}

// NewCollector creates a collector.
func NewCollector(failFast bool) *Collector {
	return &Collector{failFast: failFast}
}


// Check records a failure when ok is false. It returns false when the caller
// should stop walking.
func (c *Collector) Check(ok bool, field, code, message string) bool {
	if ok {
		return !c.stopped
	}
	return c.Add(NewValidationError(field, code, message))
}

// Add records a failure unconditionally.
func (c *Collector) Add(fe FieldError) bool {
	if c.stopped {
		return false
	}
	c.errs = append(c.errs, fe)
	if c.failFast {
		c.stopped = true
	}
	return !c.stopped
}

// Merge folds a nested result into the collector.
func (c *Collector) Merge(res ValidationResult) bool {
	for _, fe := range res.Errors {
		if !c.Add(fe) {
			return false
		}
	}
	return !c.stopped
}

// Stopped reports whether a fail-fast collector has already recorded a failure.
func (c *Collector) Stopped() bool { return c.stopped }

// Result returns the accumulated validation result.
func (c *Collector) Result() ValidationResult {
	if len(c.errs) == 0 {
		return Valid()
	}
	return Invalid(c.errs...)
}
