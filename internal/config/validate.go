package config

import (
	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/codepool/internal/errors"
	customValidation "github.com/allisson/codepool/internal/validation"
)

// Validate checks the settings the service cannot run without. Failures wrap
// ErrConfiguration so the CLI can exit before serving a single request.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.ServerPort, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.DBDriver, validation.Required, validation.In("postgres", "mysql", "memory")),
		validation.Field(&c.DBConnectionString,
			validation.When(c.DBDriver != "memory", validation.Required),
			validation.When(c.DBDriver == "mysql", customValidation.MySQLDSN)),
		validation.Field(&c.CodeEncryptionSecret, validation.Required),
		validation.Field(&c.CodeEncryptionSecret,
			validation.When(c.CodeEncryptionSecretKMSKeyURI != "", customValidation.Base64)),
		validation.Field(&c.CodeEncryptionAlgorithm,
			validation.Required, validation.In("aes-gcm", "chacha20-poly1305")),
		validation.Field(&c.ClaimMaxAttempts, validation.Required, validation.Min(1)),
		validation.Field(&c.LowStockThreshold, validation.Min(0)),
		validation.Field(&c.RequestTimeout, validation.Required),
		validation.Field(&c.SMTPTLSPolicy, validation.In("mandatory", "opportunistic", "none")),
		validation.Field(&c.SMTPFrom, validation.When(c.SMTPHost != "", validation.Required, customValidation.Email)),
		validation.Field(&c.AdminAlertEmails, customValidation.EmailList),
	)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrConfiguration, err.Error())
	}
	return nil
}

// AdminAlertRecipients returns the parsed ADMIN_ALERT_EMAILS list.
func (c *Config) AdminAlertRecipients() []string {
	return customValidation.SplitList(c.AdminAlertEmails)
}
