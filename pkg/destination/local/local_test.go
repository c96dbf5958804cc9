package local

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/architect-io/shipctl/pkg/destination"
)

func TestNewDestination(t *testing.T) {
	tmpDir := t.TempDir()

	d, err := NewDestination(map[string]string{
		"path": tmpDir,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if d.Type() != "local" {
		t.Errorf("expected type 'local', got %q", d.Type())
	}
}

func TestNewDestination_MissingPath(t *testing.T) {
	_, err := NewDestination(map[string]string{})
	if err == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestDestination_UploadAndList(t *testing.T) {
	tmpDir := t.TempDir()
	d, _ := NewDestination(map[string]string{"path": tmpDir})

	ctx := context.Background()

	files := map[string]string{
		"index.html":                     "<html></html>",
		"assets/app.js":                  "console.log(1)",
		"assets/config/environment.json": `{"name":"qa"}`,
	}
	for key, content := range files {
		err := d.Upload(ctx, key, bytes.NewReader([]byte(content)), destination.UploadOptions{})
		if err != nil {
			t.Fatalf("upload %s failed: %v", key, err)
		}
	}

	keys, err := d.List(ctx, "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(keys) != 3 {
		t.Errorf("expected 3 keys, got %d: %v", len(keys), keys)
	}

	keys, err = d.List(ctx, "assets")
	if err != nil {
		t.Fatalf("list with prefix failed: %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("expected 2 keys, got %d: %v", len(keys), keys)
	}
}

func TestDestination_UploadReplaces(t *testing.T) {
	tmpDir := t.TempDir()
	d, _ := NewDestination(map[string]string{"path": tmpDir})

	ctx := context.Background()
	key := "assets/config/environment.json"

	_ = d.Upload(ctx, key, bytes.NewReader([]byte(`{"name":"development"}`)), destination.UploadOptions{})
	err := d.Upload(ctx, key, bytes.NewReader([]byte(`{"name":"production"}`)), destination.UploadOptions{})
	if err != nil {
		t.Fatalf("second upload failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, "assets", "config", "environment.json"))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != `{"name":"production"}` {
		t.Errorf("expected replaced content, got %s", data)
	}
}

func TestDestination_Delete(t *testing.T) {
	tmpDir := t.TempDir()
	d, _ := NewDestination(map[string]string{"path": tmpDir})

	ctx := context.Background()
	key := "old.js"

	_ = d.Upload(ctx, key, bytes.NewReader([]byte("stale")), destination.UploadOptions{})

	exists, _ := d.Exists(ctx, key)
	if !exists {
		t.Fatal("expected object to exist")
	}

	if err := d.Delete(ctx, key); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	exists, _ = d.Exists(ctx, key)
	if exists {
		t.Error("expected object to be gone after delete")
	}

	// Deleting again is idempotent
	if err := d.Delete(ctx, key); err != nil {
		t.Errorf("repeat delete failed: %v", err)
	}
}

func TestDestination_Exists(t *testing.T) {
	tmpDir := t.TempDir()
	d, _ := NewDestination(map[string]string{"path": tmpDir})

	ctx := context.Background()

	exists, err := d.Exists(ctx, "index.html")
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if exists {
		t.Error("expected object to not exist")
	}

	_ = d.Upload(ctx, "index.html", bytes.NewReader([]byte("<html></html>")), destination.UploadOptions{})

	exists, err = d.Exists(ctx, "index.html")
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if !exists {
		t.Error("expected object to exist")
	}
}
