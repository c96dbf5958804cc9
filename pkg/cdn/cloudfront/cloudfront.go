// Package cloudfront implements CDN invalidation for AWS CloudFront.
package cloudfront

import (
	"context"
	"fmt"

	"github.com/architect-io/shipctl/pkg/cdn"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/google/uuid"
)

func init() {
	cdn.Register("cloudfront", NewInvalidator)
}

// Invalidator implements the cdn interface for AWS CloudFront.
type Invalidator struct {
	client *cloudfront.Client
}

// NewInvalidator creates a new CloudFront invalidator.
func NewInvalidator(settings map[string]string) (cdn.Invalidator, error) {
	region := settings["region"]
	if region == "" {
		// CloudFront is a global service; the control plane lives in us-east-1
		region = "us-east-1"
	}

	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(region))

	// Support explicit credentials
	if accessKey := settings["access_key"]; accessKey != "" {
		secretKey := settings["secret_key"]
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := cloudfront.NewFromConfig(awsCfg, func(o *cloudfront.Options) {
		// Support custom endpoint for testing
		if endpoint := settings["endpoint"]; endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &Invalidator{client: client}, nil
}

func (i *Invalidator) Type() string {
	return "cloudfront"
}

func (i *Invalidator) Invalidate(ctx context.Context, distributionID string, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	items := make([]string, len(paths))
	copy(items, paths)

	// Caller reference must be unique per invalidation request
	callerRef := uuid.New().String()

	_, err := i.client.CreateInvalidation(ctx, &cloudfront.CreateInvalidationInput{
		DistributionId: &distributionID,
		InvalidationBatch: &types.InvalidationBatch{
			CallerReference: &callerRef,
			Paths: &types.Paths{
				Items:    items,
				Quantity: aws.Int32(int32(len(items))),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate distribution %s: %w", distributionID, err)
	}

	return nil
}
