package config

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	errs "github.com/cueup-dev/cueup/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	releaseVersionPattern = regexp.MustCompile(`^\d+\.\d+(?:\.\d+)?$`)
	moduleNamePattern     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*$`)
	capabilityNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("release_version", func(fl validator.FieldLevel) bool {
			return releaseVersionPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("module_name", func(fl validator.FieldLevel) bool {
			return moduleNamePattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("capability_name", func(fl validator.FieldLevel) bool {
			return capabilityNamePattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// Validate performs schema and cross-field validation on the manifest.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errs.NewValidationError("config", "configuration is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(cfg); err != nil {
		return convertValidationError(err)
	}

	seen := make(map[string]struct{}, len(cfg.Capabilities))
	for i, cap := range cfg.Capabilities {
		if _, dup := seen[cap.Name]; dup {
			return errs.NewValidationError(
				fmt.Sprintf("capabilities[%d].name", i),
				fmt.Sprintf("duplicate capability %q", cap.Name),
				nil,
			)
		}
		seen[cap.Name] = struct{}{}
	}

	return nil
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return errs.NewValidationError(field, msg, err)
	}

	return errs.NewValidationError("config", err.Error(), err)
}

func yamlishFieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}

	lowered := make([]string, 0, len(parts))
	for _, part := range parts {
		lowered = append(lowered, toSnake(part))
	}
	return strings.Join(lowered, ".")
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && s[i-1] >= 'a' && s[i-1] <= 'z' {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
