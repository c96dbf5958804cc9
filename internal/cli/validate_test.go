package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewValidateCmd_Flags(t *testing.T) {
	cmd := newValidateCmd()

	if !strings.HasPrefix(cmd.Use, "validate") {
		t.Errorf("expected use to start with 'validate', got '%s'", cmd.Use)
	}

	if cmd.Flags().Lookup("manifest") == nil {
		t.Error("expected --manifest flag")
	}
}

func TestValidateCmd_ValidProject(t *testing.T) {
	projectDir, _ := createTempProject(t, "development", "qa")

	cmd := newValidateCmd()
	cmd.SetArgs([]string{"-f", filepath.Join(projectDir, "ship.yml")})

	if err := cmd.Execute(); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
}

func TestValidateCmd_SingleEnvironment(t *testing.T) {
	projectDir, _ := createTempProject(t, "development", "qa")

	// Break qa's document; validating development alone must still pass.
	qaDoc := filepath.Join(projectDir, "config", "qa.json")
	if err := os.WriteFile(qaDoc, []byte(`{"name": "qa"}`), 0644); err != nil {
		t.Fatalf("failed to write config doc: %v", err)
	}

	cmd := newValidateCmd()
	cmd.SetArgs([]string{"development", "-f", filepath.Join(projectDir, "ship.yml")})

	if err := cmd.Execute(); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
}

func TestValidateCmd_InvalidDocument(t *testing.T) {
	projectDir, _ := createTempProject(t, "development")

	doc := filepath.Join(projectDir, "config", "development.json")
	if err := os.WriteFile(doc, []byte(`{"name": "development"}`), 0644); err != nil {
		t.Fatalf("failed to write config doc: %v", err)
	}

	cmd := newValidateCmd()
	cmd.SetArgs([]string{"-f", filepath.Join(projectDir, "ship.yml")})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for invalid configuration document")
	}
}

func TestValidateCmd_MissingDocument(t *testing.T) {
	projectDir, _ := createTempProject(t, "development")

	if err := os.Remove(filepath.Join(projectDir, "config", "development.json")); err != nil {
		t.Fatalf("failed to remove config doc: %v", err)
	}

	cmd := newValidateCmd()
	cmd.SetArgs([]string{"-f", filepath.Join(projectDir, "ship.yml")})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for missing configuration document")
	}
}

func TestValidateCmd_UnknownEnvironment(t *testing.T) {
	projectDir, _ := createTempProject(t, "development")

	cmd := newValidateCmd()
	cmd.SetArgs([]string{"prod", "-f", filepath.Join(projectDir, "ship.yml")})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for unknown environment")
	}
	if !strings.Contains(err.Error(), "prod") {
		t.Errorf("expected error to name the environment, got: %v", err)
	}
}

func TestValidateCmd_InvalidManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := `build:
  command: npm run build
targets: {}
`
	path := filepath.Join(dir, "ship.yml")
	if err := os.WriteFile(path, []byte(manifest), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	cmd := newValidateCmd()
	cmd.SetArgs([]string{"-f", path})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for invalid manifest")
	}
	if !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("expected validation failure, got: %v", err)
	}
}
