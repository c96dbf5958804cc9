package ciworkflow

import (
	"bytes"
	"fmt"
	"strings"
)

// GitLabCIGenerator generates GitLab CI pipeline YAML.
type GitLabCIGenerator struct{}

// NewGitLabCIGenerator creates a new GitLab CI generator.
func NewGitLabCIGenerator() *GitLabCIGenerator {
	return &GitLabCIGenerator{}
}

// DefaultOutputPath returns the conventional path for the pipeline.
func (g *GitLabCIGenerator) DefaultOutputPath() string {
	return ".gitlab-ci.yml"
}

// Generate produces a GitLab CI pipeline YAML file.
func (g *GitLabCIGenerator) Generate(w Workflow) ([]byte, error) {
	var buf bytes.Buffer

	// Header comment with setup instructions
	writeGitLabSetupComment(&buf, w)

	// Stages: one build stage, then one stage per environment so the
	// promotion order is visible in the pipeline view.
	buf.WriteString("stages:\n")
	buf.WriteString("  - build\n")
	for _, env := range w.Environments {
		buf.WriteString(fmt.Sprintf("  - %s\n", env.Name))
	}
	buf.WriteString("\n")

	// Job template (hidden job for reuse)
	buf.WriteString(".install-shipctl: &install-shipctl\n")
	buf.WriteString(fmt.Sprintf("  - %s\n", installCommand(w.InstallVersion)))
	buf.WriteString("\n")

	// Build job: one build shared by every environment
	buf.WriteString("build:\n")
	buf.WriteString("  stage: build\n")
	buf.WriteString("  image: node:lts\n")
	buf.WriteString("  script:\n")
	buf.WriteString(fmt.Sprintf("    - %s\n", w.BuildCommand))
	buf.WriteString("  artifacts:\n")
	buf.WriteString("    paths:\n")
	buf.WriteString(fmt.Sprintf("      - %s\n", w.ArtifactDir))
	buf.WriteString("\n")

	// Deploy jobs in promotion order
	previous := "build"
	for _, env := range w.Environments {
		jobID := deployJobID(env.Name)

		buf.WriteString(fmt.Sprintf("%s:\n", jobID))
		buf.WriteString(fmt.Sprintf("  stage: %s\n", env.Name))
		buf.WriteString("  needs:\n")
		buf.WriteString(fmt.Sprintf("    - %s\n", previous))
		if previous != "build" {
			// Deploy jobs need the artifact from build, not from the
			// previous deploy.
			buf.WriteString("    - build\n")
		}
		buf.WriteString("  image: ubuntu:latest\n")
		buf.WriteString("  script:\n")
		buf.WriteString("    - *install-shipctl\n")
		buf.WriteString(fmt.Sprintf("    - %s\n", deployCommand(w, env)))
		buf.WriteString("\n")

		previous = jobID
	}

	return buf.Bytes(), nil
}

// writeGitLabSetupComment writes configuration instructions.
func writeGitLabSetupComment(buf *bytes.Buffer, w Workflow) {
	if len(w.Secrets) == 0 {
		return
	}

	var names []string
	for _, secret := range w.Secrets {
		names = append(names, secret.EnvName)
	}

	buf.WriteString("# Configure these in Settings > CI/CD > Variables:\n")
	buf.WriteString(fmt.Sprintf("#   Protected/Masked: %s\n", strings.Join(names, ", ")))
	buf.WriteString("\n")
}
