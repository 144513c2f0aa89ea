package config

import (
	"errors"
	"fmt"
	"os"
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
	RequiredEnvVars []string
	RequiredSecrets []string
}

var (
	// Environment-specific requirements
	requirements = map[Environment]ConfigRequirements{
		Development: {},
		Test:        {},
		CI: {
			RequiredEnvVars: []string{"MONGO_URI"},
		},
		Production: {
			RequiredEnvVars: []string{"SERVER_PORT", "MONGO_DATABASE", "MONGO_COLLECTION"},
			RequiredSecrets: []string{"mongo_uri"},
		},
	}

	validate = validator.New(validator.WithRequiredStructEnabled())
)

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	var problems []ValidationError

	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			problems = append(problems, ValidationError{
				Field:   fe.Field(),
				Message: describe(fe),
			})
		}
	}

	reqs := requirements[cfg.Environment]
	for _, envVar := range reqs.RequiredEnvVars {
		if os.Getenv(envVar) == "" {
			problems = append(problems, ValidationError{
				Field:   envVar,
				Message: "required environment variable is not set",
			})
		}
	}
	for _, secret := range reqs.RequiredSecrets {
		if readSecret(secret) == "" {
			problems = append(problems, ValidationError{
				Field:   secret,
				Message: "required secret is not set",
			})
		}
	}

	if len(problems) == 0 {
		return nil
	}

	lines := make([]string, len(problems))
	for i, p := range problems {
		lines[i] = p.Error()
	}
	return fmt.Errorf("configuration validation failed:\n%s", strings.Join(lines, "\n"))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fe.Value())
	case "startswith":
		return fmt.Sprintf("must start with %q", fe.Param())
	case "numeric":
		return fmt.Sprintf("must be numeric, got %q", fe.Value())
	default:
		return fmt.Sprintf("failed %s=%s, got %v", fe.Tag(), fe.Param(), fe.Value())
	}
}
