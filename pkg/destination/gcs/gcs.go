// Package gcs implements a Google Cloud Storage destination.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/architect-io/shipctl/pkg/destination"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

func init() {
	destination.Register("gcs", NewDestination)
}

// Destination implements the destination interface for Google Cloud Storage.
type Destination struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewDestination creates a new GCS destination.
func NewDestination(settings map[string]string) (destination.Destination, error) {
	bucketName, ok := settings["bucket"]
	if !ok || bucketName == "" {
		return nil, fmt.Errorf("gcs destination requires 'bucket' configuration")
	}

	ctx := context.Background()
	var opts []option.ClientOption

	// Support explicit credentials file
	if credentialsFile := settings["credentials"]; credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	// Support credentials JSON
	if credentialsJSON := settings["credentials_json"]; credentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}

	// Support custom endpoint (for emulator)
	if endpoint := settings["endpoint"]; endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
		opts = append(opts, option.WithoutAuthentication())
	}

	// Create GCS client
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &Destination{
		client: client,
		bucket: bucketName,
		prefix: settings["prefix"],
	}, nil
}

func (d *Destination) Type() string {
	return "gcs"
}

func (d *Destination) Upload(ctx context.Context, key string, data io.Reader, opts destination.UploadOptions) error {
	objectPath := d.fullKey(key)

	// Read all data first
	content, err := io.ReadAll(data)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}

	writer := d.client.Bucket(d.bucket).Object(objectPath).NewWriter(ctx)
	writer.ContentType = opts.ContentType
	writer.CacheControl = opts.CacheControl

	if _, err := writer.Write(content); err != nil {
		writer.Close()
		return fmt.Errorf("failed to upload to gs://%s/%s: %w", d.bucket, objectPath, err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}

	return nil
}

func (d *Destination) Delete(ctx context.Context, key string) error {
	objectPath := d.fullKey(key)

	err := d.client.Bucket(d.bucket).Object(objectPath).Delete(ctx)
	if err != nil {
		// Ignore not found errors for idempotency
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		return fmt.Errorf("failed to delete gs://%s/%s: %w", d.bucket, objectPath, err)
	}

	return nil
}

func (d *Destination) List(ctx context.Context, prefix string) ([]string, error) {
	fullPrefix := d.fullKey(prefix)

	var keys []string
	it := d.client.Bucket(d.bucket).Objects(ctx, &storage.Query{Prefix: fullPrefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		relKey := attrs.Name
		if d.prefix != "" {
			relKey = strings.TrimPrefix(relKey, d.prefix+"/")
		}
		keys = append(keys, relKey)
	}

	return keys, nil
}

func (d *Destination) Exists(ctx context.Context, key string) (bool, error) {
	objectPath := d.fullKey(key)

	_, err := d.client.Bucket(d.bucket).Object(objectPath).Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check existence: %w", err)
	}

	return true, nil
}

func (d *Destination) fullKey(key string) string {
	if d.prefix == "" {
		return key
	}
	return path.Join(d.prefix, key)
}
