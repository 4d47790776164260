package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	// RequiredSettings must be non-empty after loading.
	RequiredSettings []string
	// RequireVisionKey demands an API key for the selected vision provider.
	RequireVisionKey bool
}

var (
	// Environment-specific requirements
	requirements = map[Environment]ConfigRequirements{
		Development: {},
		Test:        {},
		CI:          {},
		Production: {
			RequiredSettings: []string{"DB_PASSWORD", "JWT_SECRET"},
			RequireVisionKey: true,
		},
	}

	validate = validator.New(validator.WithRequiredStructEnabled())
)

func settingValue(cfg *Config, name string) string {
	switch name {
	case "DB_PASSWORD":
		return cfg.DBPassword
	case "JWT_SECRET":
		return cfg.JWTSecret
	case "REDIS_URL":
		return cfg.RedisURL
	case "PEXELS_API_KEY":
		return cfg.PexelsAPIKey
	}
	return ""
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	reqs := requirements[cfg.Environment]

	var errs []error
	for _, name := range reqs.RequiredSettings {
		if settingValue(cfg, name) == "" {
			errs = append(errs, ValidationError{Field: name, Message: "is required in " + string(cfg.Environment)})
		}
	}

	if reqs.RequireVisionKey {
		switch {
		case cfg.VisionProvider == "gemini" && cfg.GeminiAPIKey == "":
			errs = append(errs, ValidationError{Field: "GEMINI_API_KEY", Message: "is required for the gemini vision provider"})
		case cfg.VisionProvider != "gemini" && cfg.OpenAIAPIKey == "":
			errs = append(errs, ValidationError{Field: "OPENAI_API_KEY", Message: "is required for the openai vision provider"})
		}
	}

	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			errs = append(errs, ValidationError{
				Field:   fe.Field(),
				Message: fmt.Sprintf("failed %q validation (value %q)", fe.Tag(), redact(fe)),
			})
		}
	}

	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return fmt.Errorf("%w:\n%s", errors.Join(errs...), strings.Join(msgs, "\n"))
}

func redact(fe validator.FieldError) string {
	switch fe.Field() {
	case "JWTSecret", "DBPassword", "OpenAIAPIKey", "GeminiAPIKey", "PexelsAPIKey":
		return "***"
	}
	return fmt.Sprintf("%v", fe.Value())
}
