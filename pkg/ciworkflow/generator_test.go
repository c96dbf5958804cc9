package ciworkflow

import (
	"testing"

	"github.com/architect-io/shipctl/pkg/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestManifest() *manifest.Manifest {
	return &manifest.Manifest{
		Build: manifest.BuildConfig{
			Command: "npm run build",
			Output:  "dist/app",
		},
		Targets: map[string]manifest.Target{
			"staging": {
				Config: "config/staging.json",
				Destination: manifest.DestinationConfig{
					Type:     "s3",
					Settings: map[string]string{"bucket": "staging-bucket"},
				},
			},
			"production": {
				Config: "config/production.json",
				Destination: manifest.DestinationConfig{
					Type:     "s3",
					Settings: map[string]string{"bucket": "prod-bucket"},
				},
				EdgeCache: &manifest.EdgeCacheConfig{
					Type:           "cloudfront",
					DistributionID: "E1ABCDEF234567",
				},
			},
		},
	}
}

func TestFromManifest_PromotionOrder(t *testing.T) {
	w := FromManifest(buildTestManifest(), "Deploy my-app", "", "latest")

	require.Len(t, w.Environments, 2)
	// Staging deploys before production regardless of map iteration order.
	assert.Equal(t, "staging", w.Environments[0].Name)
	assert.Equal(t, "production", w.Environments[1].Name)
	assert.True(t, w.Environments[1].EdgeCached)
}

func TestFromManifest_SecretsFromDestinations(t *testing.T) {
	w := FromManifest(buildTestManifest(), "Deploy my-app", "", "latest")

	var names []string
	for _, secret := range w.Secrets {
		names = append(names, secret.EnvName)
	}

	assert.Contains(t, names, "AWS_ACCESS_KEY_ID")
	assert.Contains(t, names, "AWS_SECRET_ACCESS_KEY")
	assert.NotContains(t, names, "AZURE_STORAGE_KEY")
}

func TestFromManifest_MixedDestinations(t *testing.T) {
	m := buildTestManifest()
	m.Targets["qa"] = manifest.Target{
		Config: "config/qa.json",
		Destination: manifest.DestinationConfig{
			Type:     "gcs",
			Settings: map[string]string{"bucket": "qa-bucket"},
		},
	}

	w := FromManifest(m, "Deploy my-app", "", "latest")

	var names []string
	for _, secret := range w.Secrets {
		names = append(names, secret.EnvName)
	}
	assert.Contains(t, names, "GOOGLE_APPLICATION_CREDENTIALS_JSON")
	assert.Contains(t, names, "AWS_ACCESS_KEY_ID")
}

func TestFromManifest_LocalDestinationNeedsNoSecrets(t *testing.T) {
	m := &manifest.Manifest{
		Build: manifest.BuildConfig{Command: "npm run build", Output: "dist"},
		Targets: map[string]manifest.Target{
			"development": {
				Config: "config/development.json",
				Destination: manifest.DestinationConfig{
					Type:     "local",
					Settings: map[string]string{"path": "/srv/www"},
				},
			},
		},
	}

	w := FromManifest(m, "Deploy my-app", "", "latest")
	assert.Empty(t, w.Secrets)
}

func TestDeployCommand(t *testing.T) {
	w := Workflow{}
	env := EnvironmentJob{Name: "staging"}
	assert.Equal(t, "shipctl deploy staging --auto-approve --skip-build", deployCommand(w, env))

	w.ManifestPath = "deploy/ship.yml"
	assert.Equal(t, "shipctl deploy staging --auto-approve --skip-build -f deploy/ship.yml", deployCommand(w, env))
}

func TestInstallCommand(t *testing.T) {
	assert.Equal(t, "curl -sSL https://get.shipctl.dev | sh", installCommand(""))
	assert.Equal(t, "curl -sSL https://get.shipctl.dev | sh", installCommand("latest"))
	assert.Equal(t, "curl -sSL https://get.shipctl.dev | sh -s -- --version v1.2.0", installCommand("v1.2.0"))
}

func TestNewGenerator(t *testing.T) {
	for _, typ := range []OutputType{TypeGitHubActions, TypeGitLabCI, TypeCircleCI} {
		gen, ok := NewGenerator(typ)
		require.True(t, ok, "expected generator for %s", typ)
		assert.NotEmpty(t, gen.DefaultOutputPath())
	}

	_, ok := NewGenerator("jenkins")
	assert.False(t, ok)
}
