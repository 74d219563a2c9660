// Package validation provides custom validation rules for the application.
package validation

import (
	"encoding/base64"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql"
	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/codepool/internal/errors"
)

var (
	// emailRegex is a basic email validation pattern
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Email validates email format using regex
var Email = validation.NewStringRuleWithError(
	func(s string) bool {
		return emailRegex.MatchString(s)
	},
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// EmailList validates a comma-separated list of email addresses. Empty entries are ignored.
var EmailList = validation.NewStringRuleWithError(
	func(s string) bool {
		for _, addr := range SplitList(s) {
			if !emailRegex.MatchString(addr) {
				return false
			}
		}
		return true
	},
	validation.NewError("validation_email_list", "must be a comma-separated list of email addresses"),
)

// Base64 validates standard base64, the encoding of KMS-wrapped secrets.
var Base64 = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := base64.StdEncoding.DecodeString(s)
		return err == nil
	},
	validation.NewError("validation_base64", "must be valid base64-encoded data"),
)

// MySQLDSN validates a MySQL DSN that sets parseTime=true, which the repositories need to
// scan DATETIME columns into time.Time.
var MySQLDSN = validation.NewStringRuleWithError(
	func(s string) bool {
		cfg, err := mysql.ParseDSN(s)
		return err == nil && cfg.ParseTime
	},
	validation.NewError("validation_mysql_dsn", "must be a valid MySQL DSN with parseTime=true"),
)

// SplitList splits a comma-separated value and drops blank entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
