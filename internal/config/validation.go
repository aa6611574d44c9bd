package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Fields returns the names of the invalid fields.
func (e ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(e))
	for _, err := range e {
		fields = append(fields, err.Field)
	}
	return fields
}

// Validator validates configuration values.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

func (v *Validator) addError(field, message string) {
	v.errors = append(v.errors, ValidationError{Field: field, Message: message})
}

// Validate validates the configuration used by the run and verify commands.
func (v *Validator) Validate(cfg *Config) error {
	v.errors = make(ValidationErrors, 0)

	v.validateTargetConfig(&cfg.Target)
	v.validateLoadConfig(&cfg.Load)
	v.validatePaymentConfig(&cfg.Payment)
	v.validateReportConfig(&cfg.Report)
	v.validateLoggingConfig(&cfg.Logging)

	if v.errors.HasErrors() {
		return v.errors
	}
	return nil
}

// ValidateMock validates the configuration used by the mock command.
func (v *Validator) ValidateMock(cfg *Config) error {
	v.errors = make(ValidationErrors, 0)

	v.validateMockConfig(&cfg.Mock)
	v.validateLoggingConfig(&cfg.Logging)

	if v.errors.HasErrors() {
		return v.errors
	}
	return nil
}

func (v *Validator) validateTargetConfig(cfg *TargetConfig) {
	v.requireURL("target.auth_url", cfg.AuthURL)
	v.requireURL("target.merchant_url", cfg.MerchantURL)
	v.requireURL("target.payment_url", cfg.PaymentURL)
	if cfg.Password == "" {
		v.addError("target.password", "password is required")
	}
}

func (v *Validator) validateLoadConfig(cfg *LoadConfig) {
	if cfg.Concurrency < 1 {
		v.addError("load.concurrency", "concurrency must be at least 1")
	}
	if cfg.Duration <= 0 {
		v.addError("load.duration", "duration must be positive")
	}
	if cfg.RequestTimeout <= 0 {
		v.addError("load.request_timeout", "request timeout must be positive")
	}
	if cfg.Rate < 0 {
		v.addError("load.rate", "rate must be non-negative")
	}
	if cfg.ProgressInterval < 0 {
		v.addError("load.progress_interval", "progress interval must be non-negative")
	}
	if cfg.MaxErrorRate < 0 || cfg.MaxErrorRate > 1 {
		v.addError("load.max_error_rate", "max error rate must be between 0 and 1")
	}
	if cfg.MaxConnsPerHost < 0 {
		v.addError("load.max_conns_per_host", "max connections per host must be non-negative")
	}
}

func (v *Validator) validatePaymentConfig(cfg *PaymentConfig) {
	if cfg.MinAmount <= 0 {
		v.addError("payment.min_amount", "min amount must be positive")
	}
	if cfg.MaxAmount < cfg.MinAmount {
		v.addError("payment.max_amount", "max amount must not be less than min amount")
	}
	if len(cfg.Currency) != 3 {
		v.addError("payment.currency", "currency must be a 3-letter code")
	}
	if cfg.PaymentMethod == "" {
		v.addError("payment.payment_method", "payment method is required")
	}
}

func (v *Validator) validateReportConfig(cfg *ReportConfig) {
	switch cfg.Format {
	case FormatText, FormatJSON:
	default:
		v.addError("report.format", fmt.Sprintf("invalid format %q, expected text or json", cfg.Format))
	}
}

func (v *Validator) validateLoggingConfig(cfg *LoggingConfig) {
	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "error":
	default:
		v.addError("logging.level", fmt.Sprintf("invalid level %q", cfg.Level))
	}
	switch cfg.Format {
	case "json", "console":
	default:
		v.addError("logging.format", fmt.Sprintf("invalid format %q, expected json or console", cfg.Format))
	}
	switch cfg.Output {
	case "stderr":
	case "file", "both":
		if cfg.FilePath == "" {
			v.addError("logging.file_path", "file path is required when output includes file")
		}
	default:
		v.addError("logging.output", fmt.Sprintf("invalid output %q, expected stderr, file or both", cfg.Output))
	}
}

func (v *Validator) validateMockConfig(cfg *MockConfig) {
	if _, _, err := net.SplitHostPort(cfg.Address); err != nil {
		v.addError("mock.address", "invalid address format, expected host:port or :port")
	}
	if cfg.Latency < 0 {
		v.addError("mock.latency", "latency must be non-negative")
	}
	if cfg.FailEvery < 0 {
		v.addError("mock.fail_every", "fail_every must be non-negative")
	}
	switch cfg.IDField {
	case "id", "merchantId", "none":
	default:
		v.addError("mock.id_field", fmt.Sprintf("invalid id field %q, expected id, merchantId or none", cfg.IDField))
	}
}

func (v *Validator) requireURL(field, raw string) {
	if raw == "" {
		v.addError(field, "url is required")
		return
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		v.addError(field, "invalid url, expected http(s)://host[:port]/path")
	}
}

// Validate is a convenience wrapper around NewValidator().Validate.
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
