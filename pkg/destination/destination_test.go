package destination

import (
	"context"
	"io"
	"testing"
)

type fakeDestination struct{}

func (f *fakeDestination) Type() string { return "fake" }
func (f *fakeDestination) Upload(ctx context.Context, key string, data io.Reader, opts UploadOptions) error {
	return nil
}
func (f *fakeDestination) Delete(ctx context.Context, key string) error { return nil }
func (f *fakeDestination) List(ctx context.Context, prefix string) ([]string, error) {
	return nil, nil
}
func (f *fakeDestination) Exists(ctx context.Context, key string) (bool, error) {
	return false, nil
}

func TestRegisterAndNew(t *testing.T) {
	Register("fake", func(settings map[string]string) (Destination, error) {
		return &fakeDestination{}, nil
	})

	d, err := New("fake", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Type() != "fake" {
		t.Errorf("expected type 'fake', got %q", d.Type())
	}
}

func TestNew_UnknownType(t *testing.T) {
	_, err := New("carrier-pigeon", nil)
	if err == nil {
		t.Error("expected error for unknown destination type")
	}
}

func TestRegistered(t *testing.T) {
	Register("fake", func(settings map[string]string) (Destination, error) {
		return &fakeDestination{}, nil
	})

	found := false
	for _, name := range Registered() {
		if name == "fake" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected 'fake' in registered types, got %v", Registered())
	}
}
