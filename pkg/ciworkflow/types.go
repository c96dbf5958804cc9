// Package ciworkflow generates CI/CD pipeline files from a deployment
// manifest. The generated pipelines build the artifact once and promote it
// through the manifest's environments in order, the same way shipctl deploys
// locally. It supports multiple CI providers (GitHub Actions, GitLab CI,
// CircleCI).
package ciworkflow

// OutputType identifies the CI provider to generate for.
type OutputType string

const (
	TypeGitHubActions OutputType = "github-actions"
	TypeGitLabCI      OutputType = "gitlab-ci"
	TypeCircleCI      OutputType = "circleci"
)

// ValidOutputTypes returns all valid output type values.
func ValidOutputTypes() []string {
	return []string{
		string(TypeGitHubActions),
		string(TypeGitLabCI),
		string(TypeCircleCI),
	}
}

// Workflow is the intermediate representation of a CI pipeline.
// CI provider generators consume this to produce provider-specific YAML.
type Workflow struct {
	// Name is the workflow display name (e.g., "Deploy my-app").
	Name string

	// ManifestPath is passed to shipctl's -f flag. Empty means the manifest
	// is at its default location in the repository root.
	ManifestPath string

	// BuildCommand is the manifest's build command, shown in the build job
	// name.
	BuildCommand string

	// ArtifactDir is the manifest's build output directory, handed from the
	// build job to the deploy jobs.
	ArtifactDir string

	// Environments is the promotion order: each deploy job requires the
	// previous environment's job, so a failed staging deploy blocks
	// production.
	Environments []EnvironmentJob

	// Secrets are the credentials the deploy jobs need, derived from the
	// destination and edge cache types in the manifest. The generator maps
	// these to CI-native secret references.
	Secrets []Secret

	// InstallVersion is the shipctl version to install in CI jobs.
	InstallVersion string
}

// EnvironmentJob describes one environment's deploy job.
type EnvironmentJob struct {
	// Name is the environment name.
	Name string

	// DestinationType is the destination implementation (local, s3, gcs,
	// azurerm), shown in the job name.
	DestinationType string

	// EdgeCached indicates the target invalidates a CDN after publishing.
	EdgeCached bool
}

// Secret is a credential the pipeline needs configured in the CI provider.
type Secret struct {
	// EnvName is the environment variable name (e.g., "AWS_ACCESS_KEY_ID").
	EnvName string

	// Description is a human-readable hint for setup comments.
	Description string
}

// Generator is the interface for CI provider-specific workflow generators.
type Generator interface {
	// Generate produces the deploy workflow file content.
	Generate(w Workflow) ([]byte, error)

	// DefaultOutputPath returns the conventional output path for this provider.
	DefaultOutputPath() string
}

// NewGenerator returns the generator for a CI provider.
func NewGenerator(t OutputType) (Generator, bool) {
	switch t {
	case TypeGitHubActions:
		return NewGitHubActionsGenerator(), true
	case TypeGitLabCI:
		return NewGitLabCIGenerator(), true
	case TypeCircleCI:
		return NewCircleCIGenerator(), true
	default:
		return nil, false
	}
}
