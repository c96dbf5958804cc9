package manifest

import (
	"fmt"

	"github.com/architect-io/shipctl/pkg/runtimeconfig"
)

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validator validates deployment manifests.
type Validator struct{}

// NewValidator creates a new manifest validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates a manifest.
func (v *Validator) Validate(m *Manifest) []ValidationError {
	var errs []ValidationError

	if m.Build.Command == "" {
		errs = append(errs, ValidationError{
			Field:   "build.command",
			Message: "build command is required",
		})
	}
	if m.Build.Output == "" {
		errs = append(errs, ValidationError{
			Field:   "build.output",
			Message: "build output directory is required",
		})
	}

	if len(m.Targets) == 0 {
		errs = append(errs, ValidationError{
			Field:   "targets",
			Message: "at least one target is required",
		})
	}

	for name, target := range m.Targets {
		errs = append(errs, v.validateTarget(name, target)...)
	}

	return errs
}

func (v *Validator) validateTarget(name string, target Target) []ValidationError {
	var errs []ValidationError
	prefix := fmt.Sprintf("targets.%s", name)

	if !runtimeconfig.IsKnownEnvironment(name) {
		errs = append(errs, ValidationError{
			Field:   prefix,
			Message: fmt.Sprintf("unknown environment %q", name),
		})
	}

	if target.Config == "" {
		errs = append(errs, ValidationError{
			Field:   prefix + ".config",
			Message: "configuration document path is required",
		})
	}

	if target.Destination.Type == "" {
		errs = append(errs, ValidationError{
			Field:   prefix + ".destination.type",
			Message: "destination type is required",
		})
	}

	if target.EdgeCache != nil {
		if target.EdgeCache.Type == "" {
			errs = append(errs, ValidationError{
				Field:   prefix + ".edge_cache.type",
				Message: "edge cache type is required",
			})
		}
		if target.EdgeCache.DistributionID == "" {
			errs = append(errs, ValidationError{
				Field:   prefix + ".edge_cache.distribution_id",
				Message: "distribution id is required",
			})
		}
	}

	return errs
}
