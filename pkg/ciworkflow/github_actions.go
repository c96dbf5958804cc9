package ciworkflow

import (
	"bytes"
	"fmt"
	"strings"
)

// GitHubActionsGenerator generates GitHub Actions workflow YAML.
type GitHubActionsGenerator struct{}

// NewGitHubActionsGenerator creates a new GitHub Actions generator.
func NewGitHubActionsGenerator() *GitHubActionsGenerator {
	return &GitHubActionsGenerator{}
}

// DefaultOutputPath returns the conventional path for the deploy workflow.
func (g *GitHubActionsGenerator) DefaultOutputPath() string {
	return ".github/workflows/deploy.yml"
}

// Generate produces a GitHub Actions deploy workflow YAML file.
func (g *GitHubActionsGenerator) Generate(w Workflow) ([]byte, error) {
	var buf bytes.Buffer

	// Header comment with setup instructions
	writeSetupComment(&buf, w)

	// Workflow name
	buf.WriteString(fmt.Sprintf("name: %s\n", w.Name))

	// Trigger
	buf.WriteString("on:\n")
	buf.WriteString("  push:\n")
	buf.WriteString("    branches: [main]\n")
	buf.WriteString("\n")

	// Jobs
	buf.WriteString("jobs:\n")

	// Build job: one build shared by every environment
	buf.WriteString("  build:\n")
	buf.WriteString(fmt.Sprintf("    name: Build (%s)\n", w.BuildCommand))
	buf.WriteString("    runs-on: ubuntu-latest\n")
	buf.WriteString("    steps:\n")
	buf.WriteString("      - uses: actions/checkout@v4\n")
	buf.WriteString("      - name: Build\n")
	buf.WriteString(fmt.Sprintf("        run: %s\n", w.BuildCommand))
	buf.WriteString("      - uses: actions/upload-artifact@v4\n")
	buf.WriteString("        with:\n")
	buf.WriteString("          name: dist\n")
	buf.WriteString(fmt.Sprintf("          path: %s\n", w.ArtifactDir))
	buf.WriteString("\n")

	// Deploy jobs in promotion order
	previous := "build"
	for _, env := range w.Environments {
		jobID := deployJobID(env.Name)

		buf.WriteString(fmt.Sprintf("  %s:\n", jobID))
		buf.WriteString(fmt.Sprintf("    name: Deploy %s (%s)\n", env.Name, env.DestinationType))
		buf.WriteString(fmt.Sprintf("    needs: [%s]\n", previous))
		buf.WriteString("    runs-on: ubuntu-latest\n")
		if len(w.Secrets) > 0 {
			buf.WriteString("    env:\n")
			for _, secret := range w.Secrets {
				buf.WriteString(fmt.Sprintf("      %s: ${{ secrets.%s }}\n", secret.EnvName, secret.EnvName))
			}
		}
		buf.WriteString("    steps:\n")
		buf.WriteString("      - uses: actions/checkout@v4\n")
		buf.WriteString("      - uses: actions/download-artifact@v4\n")
		buf.WriteString("        with:\n")
		buf.WriteString("          name: dist\n")
		buf.WriteString(fmt.Sprintf("          path: %s\n", w.ArtifactDir))
		buf.WriteString("      - name: Install shipctl\n")
		buf.WriteString(fmt.Sprintf("        run: %s\n", installCommand(w.InstallVersion)))
		buf.WriteString(fmt.Sprintf("      - name: Deploy %s\n", env.Name))
		buf.WriteString(fmt.Sprintf("        run: %s\n", deployCommand(w, env)))
		buf.WriteString("\n")

		previous = jobID
	}

	return buf.Bytes(), nil
}

// writeSetupComment writes a comment block describing required CI configuration.
func writeSetupComment(buf *bytes.Buffer, w Workflow) {
	if len(w.Secrets) == 0 {
		return
	}

	var names []string
	for _, secret := range w.Secrets {
		desc := secret.EnvName
		if secret.Description != "" {
			desc += " (" + secret.Description + ")"
		}
		names = append(names, desc)
	}

	buf.WriteString("# Configure these in Settings > Secrets and variables > Actions:\n")
	buf.WriteString(fmt.Sprintf("#   Secrets: %s\n", strings.Join(names, ", ")))
	buf.WriteString("\n")
}
