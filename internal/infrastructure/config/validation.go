package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// newValidator returns a validator with the cross-section rules registered
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(distinctFiles, Config{})
	return v
}

// distinctFiles rejects configs where the PID file, the log file and the
// sqlite ledger would be written to the same path
func distinctFiles(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)

	seen := map[string]string{}
	claim := func(path, field, structField, name string) {
		if path == "" || path == ":memory:" {
			return
		}
		key := filepath.Clean(path)
		if other, taken := seen[key]; taken {
			sl.ReportError(path, field, structField, "distinct_file", other)
			return
		}
		seen[key] = name
	}

	if cfg.Database.Enabled && cfg.Database.Type == "sqlite" {
		claim(cfg.Database.Path, "Database.Path", "Path", "database.path")
	}
	if cfg.Logging.Output == "file" {
		claim(cfg.Logging.FilePath, "Logging.FilePath", "FilePath", "logging.file_path")
	}
	claim(cfg.Simulation.PIDFile, "Simulation.PIDFile", "PIDFile", "simulation.pid_file")
}

// formatValidationError flattens validator errors into one readable message
func formatValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		msg := fmt.Sprintf("%s failed '%s' (value: '%v')", e.Namespace(), e.Tag(), e.Value())
		if e.Tag() == "distinct_file" {
			msg = fmt.Sprintf("%s %q is already used by %s", e.Namespace(), e.Value(), e.Param())
		}
		messages = append(messages, msg)
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
}

// ValidateConfig checks field tags and the cross-section rules
func ValidateConfig(cfg *Config) error {
	if err := newValidator().Struct(cfg); err != nil {
		return formatValidationError(err)
	}
	return nil
}
