// Package manifest provides parsing and validation for the deployment
// manifest (ship.yml): the per-environment targets a source tree can be
// published to.
package manifest

import (
	"github.com/architect-io/shipctl/pkg/errors"
	"github.com/architect-io/shipctl/pkg/runtimeconfig"
)

// DefaultManifestFile is the manifest filename looked up in the source tree
// when --manifest is not given.
const DefaultManifestFile = "ship.yml"

// Manifest describes how a source tree is built and where each environment
// is published.
type Manifest struct {
	// Build configures the environment-agnostic build step. The same build
	// output is published to every target; only the configuration document
	// differs per environment.
	Build BuildConfig `yaml:"build"`

	// Targets maps environment name to its deployment target.
	Targets map[string]Target `yaml:"targets"`

	// SourcePath is the path the manifest was loaded from.
	SourcePath string `yaml:"-"`
}

// BuildConfig configures the external build tool.
type BuildConfig struct {
	// Command is the build command run via the shell (e.g. "npm run build").
	Command string `yaml:"command"`

	// Dir is the working directory for the build command. Defaults to the
	// manifest's directory.
	Dir string `yaml:"dir,omitempty"`

	// Output is the directory the build writes the artifact tree to,
	// relative to Dir (e.g. "dist/app").
	Output string `yaml:"output"`
}

// Target describes one environment's deployment target.
type Target struct {
	// Config is the path to the environment's runtime configuration
	// document within the source tree.
	Config string `yaml:"config"`

	// Destination identifies the object-storage location serving this
	// environment.
	Destination DestinationConfig `yaml:"destination"`

	// EdgeCache is set only for targets fronted by a CDN. Deploys to such
	// targets invalidate the configuration and entry documents after
	// publishing.
	EdgeCache *EdgeCacheConfig `yaml:"edge_cache,omitempty"`
}

// DestinationConfig selects and configures a destination implementation.
type DestinationConfig struct {
	// Type is the destination implementation (local, s3, gcs, azurerm).
	Type string `yaml:"type"`

	// Settings is passed through to the destination implementation.
	Settings map[string]string `yaml:"settings,omitempty"`
}

// EdgeCacheConfig selects and configures a CDN invalidator.
type EdgeCacheConfig struct {
	// Type is the invalidator implementation (cloudfront).
	Type string `yaml:"type"`

	// DistributionID identifies the CDN distribution fronting the
	// destination.
	DistributionID string `yaml:"distribution_id"`

	// Paths lists additional paths to invalidate beyond the configuration
	// and entry documents.
	Paths []string `yaml:"paths,omitempty"`
}

// EdgeCached reports whether the target is fronted by a CDN.
func (t Target) EdgeCached() bool {
	return t.EdgeCache != nil && t.EdgeCache.DistributionID != ""
}

// Target resolves the deployment target for an environment name. Unknown
// environment names are rejected before any environment-specific lookup so
// typos never reach the build or publish steps.
func (m *Manifest) Target(environment string) (Target, error) {
	if !runtimeconfig.IsKnownEnvironment(environment) {
		return Target{}, errors.InvalidEnvironmentError(environment, runtimeconfig.KnownEnvironments)
	}

	target, ok := m.Targets[environment]
	if !ok {
		return Target{}, errors.NotFoundError("target", environment)
	}

	return target, nil
}

// Environments returns the environment names with configured targets.
func (m *Manifest) Environments() []string {
	var names []string
	for _, env := range runtimeconfig.KnownEnvironments {
		if _, ok := m.Targets[env]; ok {
			names = append(names, env)
		}
	}
	return names
}
