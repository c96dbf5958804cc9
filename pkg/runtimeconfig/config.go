// Package runtimeconfig implements the runtime environment-configuration
// contract for deployed applications: a single JSON document fetched from a
// fixed path inside the published artifact, validated before the application
// is allowed to start.
package runtimeconfig

// DefaultDocumentPath is the fixed path of the configuration document inside
// a published artifact. The deploy pipeline writes the environment's document
// here and the running application fetches it from here; the two sides share
// no other contract.
const DefaultDocumentPath = "assets/config/environment.json"

// Environment names recognized by the deploy pipeline.
const (
	EnvDevelopment = "development"
	EnvQA          = "qa"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// KnownEnvironments lists the closed set of environment names.
var KnownEnvironments = []string{EnvDevelopment, EnvQA, EnvStaging, EnvProduction}

// Recognized feature flags. Documents may carry additional flags; they are
// kept but have no meaning to this tooling.
const (
	FeatureAnalytics   = "analytics"
	FeatureLogging     = "logging"
	FeatureDebugMode   = "debugMode"
	FeatureNewCheckout = "newCheckout"
)

// Defaults applied to optional fields when absent from the document.
const (
	DefaultCacheTimeoutSeconds = 300
	DefaultRetryAttempts       = 3
	DefaultAPITimeoutMS        = 30000
)

// Config is a fully validated environment configuration. It is immutable
// once loaded; a new configuration requires a new application load.
type Config struct {
	Name         string
	IsProduction bool
	APIBaseURL   string
	AuthBaseURL  string

	// Features maps flag name to enabled state. Unrecognized flags are
	// preserved as-is.
	Features map[string]bool

	AnalyticsID         string
	CacheTimeoutSeconds int
	RetryAttempts       int
	APITimeoutMS        int
}

// Feature reports whether the named flag is enabled. Unknown flags are off.
func (c *Config) Feature(name string) bool {
	return c.Features[name]
}

// IsKnownEnvironment reports whether name belongs to the closed environment set.
func IsKnownEnvironment(name string) bool {
	for _, env := range KnownEnvironments {
		if name == env {
			return true
		}
	}
	return false
}
