// Package s3 implements an S3-compatible destination.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/architect-io/shipctl/pkg/destination"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func init() {
	destination.Register("s3", NewDestination)
}

// Destination implements the destination interface for S3-compatible storage.
type Destination struct {
	client *s3.Client
	bucket string
	prefix string
	region string
}

// NewDestination creates a new S3 destination.
func NewDestination(settings map[string]string) (destination.Destination, error) {
	bucket, ok := settings["bucket"]
	if !ok || bucket == "" {
		return nil, fmt.Errorf("s3 destination requires 'bucket' configuration")
	}

	region := settings["region"]
	if region == "" {
		region = "us-east-1"
	}

	// Build AWS config options
	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(region))

	// Support explicit credentials
	if accessKey := settings["access_key"]; accessKey != "" {
		secretKey := settings["secret_key"]
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	// Load AWS config
	awsCfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Create S3 client with path-style addressing for compatibility
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = settings["force_path_style"] == "true"
		// Support custom endpoint (for MinIO, R2, etc.)
		if endpoint := settings["endpoint"]; endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &Destination{
		client: client,
		bucket: bucket,
		prefix: settings["prefix"],
		region: region,
	}, nil
}

func (d *Destination) Type() string {
	return "s3"
}

func (d *Destination) Upload(ctx context.Context, key string, data io.Reader, opts destination.UploadOptions) error {
	fullKey := d.fullKey(key)

	// Read all data to get content length
	content, err := io.ReadAll(data)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}

	input := &s3.PutObjectInput{
		Bucket: &d.bucket,
		Key:    &fullKey,
		Body:   bytes.NewReader(content),
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}
	if opts.CacheControl != "" {
		input.CacheControl = aws.String(opts.CacheControl)
	}

	if _, err := d.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload to s3://%s/%s: %w", d.bucket, fullKey, err)
	}

	return nil
}

func (d *Destination) Delete(ctx context.Context, key string) error {
	fullKey := d.fullKey(key)

	_, err := d.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &d.bucket,
		Key:    &fullKey,
	})
	if err != nil {
		// Ignore not found errors for idempotency
		var nsk *types.NoSuchKey
		if ok := errors.As(err, &nsk); ok {
			return nil
		}
		return fmt.Errorf("failed to delete s3://%s/%s: %w", d.bucket, fullKey, err)
	}

	return nil
}

func (d *Destination) List(ctx context.Context, prefix string) ([]string, error) {
	fullPrefix := d.fullKey(prefix)

	var keys []string
	paginator := s3.NewListObjectsV2Paginator(d.client, &s3.ListObjectsV2Input{
		Bucket: &d.bucket,
		Prefix: &fullPrefix,
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		for _, obj := range page.Contents {
			// Return key relative to destination prefix
			relKey := *obj.Key
			if d.prefix != "" {
				relKey = strings.TrimPrefix(relKey, d.prefix+"/")
			}
			keys = append(keys, relKey)
		}
	}

	return keys, nil
}

func (d *Destination) Exists(ctx context.Context, key string) (bool, error) {
	fullKey := d.fullKey(key)

	_, err := d.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &d.bucket,
		Key:    &fullKey,
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if ok := errors.As(err, &nsk); ok {
			return false, nil
		}
		// Also check for 404 status
		var notFound *types.NotFound
		if ok := errors.As(err, &notFound); ok {
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
