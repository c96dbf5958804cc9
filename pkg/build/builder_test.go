package build

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/architect-io/shipctl/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Success(t *testing.T) {
	dir := t.TempDir()

	runner := NewRunner("mkdir -p dist && echo '<html></html>' > dist/index.html", dir, "dist")
	runner.SetOutput(&bytes.Buffer{}, &bytes.Buffer{})

	artifact, err := runner.Build(context.Background())
	require.NoError(t, err)

	files, err := artifact.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"index.html"}, files)
}

func TestBuild_CommandFails(t *testing.T) {
	dir := t.TempDir()

	runner := NewRunner("exit 1", dir, "dist")
	runner.SetOutput(&bytes.Buffer{}, &bytes.Buffer{})

	_, err := runner.Build(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeBuild))
}

func TestBuild_MissingOutputDir(t *testing.T) {
	dir := t.TempDir()

	runner := NewRunner("true", dir, "dist")
	runner.SetOutput(&bytes.Buffer{}, &bytes.Buffer{})

	_, err := runner.Build(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeBuild))
	assert.Contains(t, err.Error(), "not found")
}

func TestBuild_EmptyOutputDir(t *testing.T) {
	dir := t.TempDir()

	runner := NewRunner("mkdir -p dist", dir, "dist")
	runner.SetOutput(&bytes.Buffer{}, &bytes.Buffer{})

	_, err := runner.Build(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeBuild))
	assert.Contains(t, err.Error(), "empty")
}

func TestArtifact_Files(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "assets", "config"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<html></html>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "assets", "app.js"), []byte("js"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "assets", "config", "environment.json"), []byte("{}"), 0644))

	artifact := &Artifact{Root: root}
	files, err := artifact.Files()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"assets/app.js",
		"assets/config/environment.json",
		"index.html",
	}, files)
}

func TestArtifact_WriteFile(t *testing.T) {
	root := t.TempDir()
	artifact := &Artifact{Root: root}

	err := artifact.WriteFile("assets/config/environment.json", []byte(`{"name":"qa"}`))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "assets", "config", "environment.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"name":"qa"}`, string(data))

	// Overwrite is a targeted replacement, not an append
	err = artifact.WriteFile("assets/config/environment.json", []byte(`{"name":"production"}`))
	require.NoError(t, err)

	data, _ = os.ReadFile(filepath.Join(root, "assets", "config", "environment.json"))
	assert.Equal(t, `{"name":"production"}`, string(data))
}

func TestArtifact_Open(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<html></html>"), 0644))

	artifact := &Artifact{Root: root}

	f, err := artifact.Open("index.html")
	require.NoError(t, err)
	defer f.Close()

	buf := new(bytes.Buffer)
	_, err = buf.ReadFrom(f)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", buf.String())

	_, err = artifact.Open("missing.html")
	require.Error(t, err)
}
