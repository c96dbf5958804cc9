package runtimeconfig

import (
	"fmt"
	"net/url"
)

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// requiredFields lists the fields every configuration document must carry.
var requiredFields = []string{"name", "isProduction", "apiBaseUrl", "authBaseUrl", "features"}

// Validator validates raw configuration documents.
//
// Validation is structural only: required fields must be present, non-null,
// and of the expected JSON type. Types are never coerced -- a string where a
// boolean is expected is an error. Unknown top-level fields and unknown
// feature flags are accepted so newer documents keep loading against older
// tooling.
type Validator struct{}

// NewValidator creates a new configuration document validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks a decoded JSON document and returns every violation found.
func (v *Validator) Validate(doc map[string]interface{}) []ValidationError {
	var errs []ValidationError

	for _, field := range requiredFields {
		val, ok := doc[field]
		if !ok || val == nil {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: "required field is missing",
			})
		}
	}
	if len(errs) > 0 {
		return errs
	}

	if _, ok := doc["name"].(string); !ok {
		errs = append(errs, ValidationError{Field: "name", Message: "must be a string"})
	}

	if _, ok := doc["isProduction"].(bool); !ok {
		errs = append(errs, ValidationError{Field: "isProduction", Message: "must be a boolean"})
	}

	errs = append(errs, v.validateURL(doc, "apiBaseUrl")...)
	errs = append(errs, v.validateURL(doc, "authBaseUrl")...)
	errs = append(errs, v.validateFeatures(doc["features"])...)

	if val, ok := doc["analyticsId"]; ok && val != nil {
		if _, ok := val.(string); !ok {
			errs = append(errs, ValidationError{Field: "analyticsId", Message: "must be a string"})
		}
	}
	for _, field := range []string{"cacheTimeoutSeconds", "retryAttempts", "apiTimeoutMs"} {
		val, ok := doc[field]
		if !ok || val == nil {
			continue
		}
		if _, ok := val.(float64); !ok {
			errs = append(errs, ValidationError{Field: field, Message: "must be a number"})
		}
	}

	return errs
}

func (v *Validator) validateURL(doc map[string]interface{}, field string) []ValidationError {
	raw, ok := doc[field].(string)
	if !ok {
		return []ValidationError{{Field: field, Message: "must be a string"}}
	}

	parsed, err := url.Parse(raw)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("%q is not an absolute URL", raw),
		}}
	}

	return nil
}

func (v *Validator) validateFeatures(val interface{}) []ValidationError {
	features, ok := val.(map[string]interface{})
	if !ok {
		return []ValidationError{{Field: "features", Message: "must be an object"}}
	}

	var errs []ValidationError
	for name, flag := range features {
		if _, ok := flag.(bool); !ok {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("features.%s", name),
				Message: "must be a boolean",
			})
		}
	}
	return errs
}

// transform builds a Config from a document that already passed validation,
// applying defaults for absent optional fields.
func transform(doc map[string]interface{}) *Config {
	cfg := &Config{
		Name:                doc["name"].(string),
		IsProduction:        doc["isProduction"].(bool),
		APIBaseURL:          doc["apiBaseUrl"].(string),
		AuthBaseURL:         doc["authBaseUrl"].(string),
		Features:            make(map[string]bool),
		CacheTimeoutSeconds: DefaultCacheTimeoutSeconds,
		RetryAttempts:       DefaultRetryAttempts,
		APITimeoutMS:        DefaultAPITimeoutMS,
	}

	for name, flag := range doc["features"].(map[string]interface{}) {
		cfg.Features[name] = flag.(bool)
	}

	if val, ok := doc["analyticsId"].(string); ok {
		cfg.AnalyticsID = val
	}
	if val, ok := doc["cacheTimeoutSeconds"].(float64); ok {
		cfg.CacheTimeoutSeconds = int(val)
	}
	if val, ok := doc["retryAttempts"].(float64); ok {
		cfg.RetryAttempts = int(val)
	}
	if val, ok := doc["apiTimeoutMs"].(float64); ok {
		cfg.APITimeoutMS = int(val)
	}

	return cfg
}
