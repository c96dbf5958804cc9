package ciworkflow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/architect-io/shipctl/pkg/manifest"
)

// FromManifest builds the workflow intermediate representation from a
// deployment manifest. Environments deploy in the manifest's promotion
// order; secrets are derived from the destination and edge cache types the
// targets use.
func FromManifest(m *manifest.Manifest, name, manifestPath, installVersion string) Workflow {
	w := Workflow{
		Name:           name,
		ManifestPath:   manifestPath,
		BuildCommand:   m.Build.Command,
		ArtifactDir:    m.Build.Output,
		InstallVersion: installVersion,
	}

	secretSet := make(map[string]Secret)
	for _, env := range m.Environments() {
		target := m.Targets[env]
		w.Environments = append(w.Environments, EnvironmentJob{
			Name:            env,
			DestinationType: target.Destination.Type,
			EdgeCached:      target.EdgeCached(),
		})

		for _, secret := range secretsForDestination(target.Destination.Type) {
			secretSet[secret.EnvName] = secret
		}
		if target.EdgeCached() {
			for _, secret := range secretsForEdgeCache(target.EdgeCache.Type) {
				secretSet[secret.EnvName] = secret
			}
		}
	}

	names := make([]string, 0, len(secretSet))
	for name := range secretSet {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		w.Secrets = append(w.Secrets, secretSet[name])
	}

	return w
}

// secretsForDestination maps a destination type to the credentials its SDK
// reads from the environment.
func secretsForDestination(destinationType string) []Secret {
	switch destinationType {
	case "s3":
		return []Secret{
			{EnvName: "AWS_ACCESS_KEY_ID", Description: "AWS access key for the deploy bucket"},
			{EnvName: "AWS_SECRET_ACCESS_KEY", Description: "AWS secret key for the deploy bucket"},
		}
	case "gcs":
		return []Secret{
			{EnvName: "GOOGLE_APPLICATION_CREDENTIALS_JSON", Description: "GCP service account key JSON"},
		}
	case "azurerm":
		return []Secret{
			{EnvName: "AZURE_STORAGE_KEY", Description: "Azure storage account shared key"},
		}
	default:
		return nil
	}
}

func secretsForEdgeCache(cacheType string) []Secret {
	switch cacheType {
	case "cloudfront":
		return []Secret{
			{EnvName: "AWS_ACCESS_KEY_ID", Description: "AWS access key for the deploy bucket"},
			{EnvName: "AWS_SECRET_ACCESS_KEY", Description: "AWS secret key for the deploy bucket"},
		}
	default:
		return nil
	}
}

// deployCommand renders the shipctl invocation for an environment's deploy
// job. The build ran in its own job, so every deploy reuses the artifact.
func deployCommand(w Workflow, env EnvironmentJob) string {
	cmd := fmt.Sprintf("shipctl deploy %s --auto-approve --skip-build", env.Name)
	if w.ManifestPath != "" {
		cmd += fmt.Sprintf(" -f %s", w.ManifestPath)
	}
	return cmd
}

// installCommand renders the shipctl install step.
func installCommand(installVersion string) string {
	if installVersion != "" && installVersion != "latest" {
		return fmt.Sprintf("curl -sSL https://get.shipctl.dev | sh -s -- --version %s", installVersion)
	}
	return "curl -sSL https://get.shipctl.dev | sh"
}

// deployJobID makes an environment name safe for use as a CI job ID.
func deployJobID(env string) string {
	r := strings.NewReplacer("/", "-", ".", "-", " ", "-")
	return "deploy-" + r.Replace(env)
}
