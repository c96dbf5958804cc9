package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// createTempProject writes a deployable project fixture: a manifest, a
// configuration document per environment, and a public/ directory the build
// command copies into the output.
func createTempProject(t *testing.T, environments ...string) (projectDir string, destDir string) {
	t.Helper()

	projectDir = t.TempDir()
	destDir = t.TempDir()

	if err := os.MkdirAll(filepath.Join(projectDir, "public", "assets", "config"), 0755); err != nil {
		t.Fatalf("failed to create project dirs: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(projectDir, "config"), 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	files := map[string]string{
		"public/index.html":                     "<html>app</html>",
		"public/main.js":                        "console.log('app')",
		"public/assets/config/environment.json": `{"name": "development"}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(projectDir, filepath.FromSlash(name)), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	var targets strings.Builder
	for _, env := range environments {
		doc := fmt.Sprintf(`{
  "name": %q,
  "isProduction": false,
  "apiBaseUrl": "https://api.%s.example.com",
  "authBaseUrl": "https://auth.%s.example.com",
  "features": {"enableLogging": true}
}`, env, env, env)
		docPath := filepath.Join(projectDir, "config", env+".json")
		if err := os.WriteFile(docPath, []byte(doc), 0644); err != nil {
			t.Fatalf("failed to write config doc: %v", err)
		}

		targets.WriteString(fmt.Sprintf(`  %s:
    config: config/%s.json
    destination:
      type: local
      settings:
        path: %s
`, env, env, filepath.Join(destDir, env)))
	}

	manifest := fmt.Sprintf(`build:
  command: rm -rf dist && cp -r public dist
  output: dist

targets:
%s`, targets.String())

	if err := os.WriteFile(filepath.Join(projectDir, "ship.yml"), []byte(manifest), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	return projectDir, destDir
}

func TestNewDeployCmd_Flags(t *testing.T) {
	cmd := newDeployCmd()

	if !strings.HasPrefix(cmd.Use, "deploy") {
		t.Errorf("expected use to start with 'deploy', got '%s'", cmd.Use)
	}

	for _, flag := range []string{"manifest", "auto-approve", "skip-build"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag", flag)
		}
	}

	// Check aliases
	if len(cmd.Aliases) == 0 || cmd.Aliases[0] != "publish" {
		t.Error("expected alias 'publish'")
	}
}

func TestDeployCmd_UnknownEnvironment(t *testing.T) {
	projectDir, _ := createTempProject(t, "development")

	cmd := newDeployCmd()
	cmd.SetArgs([]string{"prod", "-f", filepath.Join(projectDir, "ship.yml"), "--auto-approve"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for unknown environment")
	}
	if !strings.Contains(err.Error(), "prod") {
		t.Errorf("expected error to name the environment, got: %v", err)
	}
}

func TestDeployCmd_SecondEnvironmentValidatedUpFront(t *testing.T) {
	projectDir, destDir := createTempProject(t, "development")

	cmd := newDeployCmd()
	cmd.SetArgs([]string{"development", "staging", "-f", filepath.Join(projectDir, "ship.yml"), "--auto-approve"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for unconfigured second environment")
	}

	// The first environment must not have deployed before the second
	// failed validation.
	if _, statErr := os.Stat(filepath.Join(destDir, "development", "index.html")); statErr == nil {
		t.Error("expected no deploy side effects when a later environment is invalid")
	}
}

func TestDeployCmd_MissingManifest(t *testing.T) {
	cmd := newDeployCmd()
	cmd.SetArgs([]string{"development", "-f", "/nonexistent/ship.yml"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for missing manifest")
	}
}

func TestDeployCmd_LocalDeploy(t *testing.T) {
	projectDir, destDir := createTempProject(t, "development", "qa")

	cmd := newDeployCmd()
	cmd.SetArgs([]string{"development", "qa", "-f", filepath.Join(projectDir, "ship.yml"), "--auto-approve"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected deploy to succeed, got: %v", err)
	}

	for _, env := range []string{"development", "qa"} {
		envDest := filepath.Join(destDir, env)

		for _, name := range []string{"index.html", "main.js"} {
			if _, err := os.Stat(filepath.Join(envDest, name)); err != nil {
				t.Errorf("%s: expected %s at destination: %v", env, name, err)
			}
		}

		// The environment's document replaced the build-time placeholder.
		doc, err := os.ReadFile(filepath.Join(envDest, "assets", "config", "environment.json"))
		if err != nil {
			t.Fatalf("%s: expected configuration document: %v", env, err)
		}
		if !strings.Contains(string(doc), fmt.Sprintf("%q", env)) {
			t.Errorf("%s: expected environment-specific document, got: %s", env, doc)
		}

		if _, err := os.Stat(filepath.Join(envDest, ".shipctl", "deploy.json")); err != nil {
			t.Errorf("%s: expected deployment record: %v", env, err)
		}
	}
}

func TestDeployCmd_SkipBuildWithoutArtifact(t *testing.T) {
	projectDir, _ := createTempProject(t, "development")

	cmd := newDeployCmd()
	cmd.SetArgs([]string{"development", "-f", filepath.Join(projectDir, "ship.yml"), "--auto-approve", "--skip-build"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error when no artifact exists")
	}
	if !strings.Contains(err.Error(), "--skip-build") {
		t.Errorf("expected error to mention --skip-build, got: %v", err)
	}
}

func TestDeployCmd_MissingConfigDocument(t *testing.T) {
	projectDir, _ := createTempProject(t, "development")

	if err := os.Remove(filepath.Join(projectDir, "config", "development.json")); err != nil {
		t.Fatalf("failed to remove config doc: %v", err)
	}

	cmd := newDeployCmd()
	cmd.SetArgs([]string{"development", "-f", filepath.Join(projectDir, "ship.yml"), "--auto-approve"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for missing configuration document")
	}
	if !strings.Contains(err.Error(), "development") {
		t.Errorf("expected error to name the environment, got: %v", err)
	}
}

func TestIsInteractive_CI(t *testing.T) {
	t.Setenv("CI", "true")

	if isInteractive() {
		t.Error("expected non-interactive in CI")
	}
}
