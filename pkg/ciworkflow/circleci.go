package ciworkflow

import (
	"bytes"
	"fmt"
	"strings"
)

// CircleCIGenerator generates CircleCI pipeline YAML.
type CircleCIGenerator struct{}

// NewCircleCIGenerator creates a new CircleCI generator.
func NewCircleCIGenerator() *CircleCIGenerator {
	return &CircleCIGenerator{}
}

// DefaultOutputPath returns the conventional path for the pipeline.
func (g *CircleCIGenerator) DefaultOutputPath() string {
	return ".circleci/config.yml"
}

// Generate produces a CircleCI pipeline YAML file.
func (g *CircleCIGenerator) Generate(w Workflow) ([]byte, error) {
	var buf bytes.Buffer

	// Header comment
	writeCircleCISetupComment(&buf, w)

	buf.WriteString("version: 2.1\n\n")

	// Commands (reusable steps)
	buf.WriteString("commands:\n")
	buf.WriteString("  install-shipctl:\n")
	buf.WriteString("    steps:\n")
	buf.WriteString("      - run:\n")
	buf.WriteString("          name: Install shipctl\n")
	buf.WriteString(fmt.Sprintf("          command: %s\n", installCommand(w.InstallVersion)))
	buf.WriteString("\n")

	// Jobs
	buf.WriteString("jobs:\n")

	buf.WriteString("  build:\n")
	buf.WriteString("    docker:\n")
	buf.WriteString("      - image: cimg/node:lts\n")
	buf.WriteString("    steps:\n")
	buf.WriteString("      - checkout\n")
	buf.WriteString("      - run:\n")
	buf.WriteString("          name: Build\n")
	buf.WriteString(fmt.Sprintf("          command: %s\n", w.BuildCommand))
	buf.WriteString("      - persist_to_workspace:\n")
	buf.WriteString("          root: .\n")
	buf.WriteString("          paths:\n")
	buf.WriteString(fmt.Sprintf("            - %s\n", w.ArtifactDir))
	buf.WriteString("\n")

	for _, env := range w.Environments {
		jobID := deployJobID(env.Name)

		buf.WriteString(fmt.Sprintf("  %s:\n", jobID))
		buf.WriteString("    docker:\n")
		buf.WriteString("      - image: cimg/base:current\n")
		buf.WriteString("    steps:\n")
		buf.WriteString("      - checkout\n")
		buf.WriteString("      - attach_workspace:\n")
		buf.WriteString("          at: .\n")
		buf.WriteString("      - install-shipctl\n")
		buf.WriteString("      - run:\n")
		buf.WriteString(fmt.Sprintf("          name: Deploy %s\n", env.Name))
		buf.WriteString(fmt.Sprintf("          command: %s\n", deployCommand(w, env)))
		buf.WriteString("\n")
	}

	// Workflows: deploy jobs chain in promotion order
	buf.WriteString("workflows:\n")
	workflowID := sanitizeCircleCIID(w.Name)
	buf.WriteString(fmt.Sprintf("  %s:\n", workflowID))
	buf.WriteString("    jobs:\n")
	buf.WriteString("      - build\n")

	previous := "build"
	for _, env := range w.Environments {
		jobID := deployJobID(env.Name)
		buf.WriteString(fmt.Sprintf("      - %s:\n", jobID))
		buf.WriteString("          requires:\n")
		buf.WriteString(fmt.Sprintf("            - %s\n", previous))
		previous = jobID
	}

	return buf.Bytes(), nil
}

// writeCircleCISetupComment writes configuration instructions.
func writeCircleCISetupComment(buf *bytes.Buffer, w Workflow) {
	if len(w.Secrets) == 0 {
		return
	}

	var names []string
	for _, secret := range w.Secrets {
		names = append(names, secret.EnvName)
	}

	buf.WriteString("# Configure these in Project Settings > Environment Variables:\n")
	buf.WriteString(fmt.Sprintf("#   Secrets: %s\n", strings.Join(names, ", ")))
	buf.WriteString("\n")
}

// sanitizeCircleCIID makes a workflow name safe for YAML keys.
func sanitizeCircleCIID(name string) string {
	r := strings.NewReplacer(" ", "-", "/", "-", ".", "-")
	return strings.ToLower(r.Replace(name))
}
