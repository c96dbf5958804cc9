// Package azurerm implements an Azure Blob Storage destination.
package azurerm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
	"github.com/architect-io/shipctl/pkg/destination"
)

func init() {
	destination.Register("azurerm", NewDestination)
}

// Destination implements the destination interface for Azure Blob Storage.
type Destination struct {
	client        *azblob.Client
	containerName string
	prefix        string
}

// NewDestination creates a new Azure Blob Storage destination.
func NewDestination(settings map[string]string) (destination.Destination, error) {
	storageAccount, ok := settings["storage_account_name"]
	if !ok || storageAccount == "" {
		return nil, fmt.Errorf("azurerm destination requires 'storage_account_name' configuration")
	}

	containerName, ok := settings["container_name"]
	if !ok || containerName == "" {
		return nil, fmt.Errorf("azurerm destination requires 'container_name' configuration")
	}

	var client *azblob.Client
	var err error

	// Build the service URL
	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", storageAccount)

	// Support custom endpoint (for Azurite emulator)
	if endpoint := settings["endpoint"]; endpoint != "" {
		serviceURL = endpoint
	}

	// Support explicit access key authentication
	if accessKey := settings["access_key"]; accessKey != "" {
		cred, err := azblob.NewSharedKeyCredential(storageAccount, accessKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		client, err = azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure client with shared key: %w", err)
		}
	} else if sasToken := settings["sas_token"]; sasToken != "" {
		// Support SAS token authentication
		var serviceURLWithSAS string
		if !strings.Contains(serviceURL, "?") {
			serviceURLWithSAS = serviceURL + "?" + strings.TrimPrefix(sasToken, "?")
		} else {
			serviceURLWithSAS = serviceURL + "&" + strings.TrimPrefix(sasToken, "?")
		}
		client, err = azblob.NewClientWithNoCredential(serviceURLWithSAS, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure client with SAS token: %w", err)
		}
	} else if connectionString := settings["connection_string"]; connectionString != "" {
		// Support connection string authentication
		client, err = azblob.NewClientFromConnectionString(connectionString, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure client from connection string: %w", err)
		}
	} else {
		// Default to Azure Identity (DefaultAzureCredential)
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create default Azure credential: %w", err)
		}
		client, err = azblob.NewClient(serviceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure client: %w", err)
		}
	}

	return &Destination{
		client:        client,
		containerName: containerName,
		prefix:        settings["prefix"],
	}, nil
}

func (d *Destination) Type() string {
	return "azurerm"
}

func (d *Destination) Upload(ctx context.Context, key string, data io.Reader, opts destination.UploadOptions) error {
	blobPath := d.fullKey(key)

	// Read all data to get content
	content, err := io.ReadAll(data)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}

	headers := &blob.HTTPHeaders{}
	if opts.ContentType != "" {
		headers.BlobContentType = toPtr(opts.ContentType)
	}
	if opts.CacheControl != "" {
		headers.BlobCacheControl = toPtr(opts.CacheControl)
	}

	_, err = d.client.UploadBuffer(ctx, d.containerName, blobPath, content, &azblob.UploadBufferOptions{
		HTTPHeaders: headers,
	})
	if err != nil {
		return fmt.Errorf("failed to upload to azure://%s/%s: %w", d.containerName, blobPath, err)
	}

	return nil
}

func (d *Destination) Delete(ctx context.Context, key string) error {
	blobPath := d.fullKey(key)

	_, err := d.client.DeleteBlob(ctx, d.containerName, blobPath, nil)
	if err != nil {
		// Ignore not found errors for idempotency
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil
		}
		return fmt.Errorf("failed to delete azure://%s/%s: %w", d.containerName, blobPath, err)
	}

	return nil
}

func (d *Destination) List(ctx context.Context, prefix string) ([]string, error) {
	fullPrefix := d.fullKey(prefix)

	var keys []string
	pager := d.client.NewListBlobsFlatPager(d.containerName, &container.ListBlobsFlatOptions{
		Prefix: &fullPrefix,
	})

	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list blobs: %w", err)
		}

		for _, item := range page.Segment.BlobItems {
			if item.Name != nil {
				relKey := *item.Name
				if d.prefix != "" {
					relKey = strings.TrimPrefix(relKey, d.prefix+"/")
				}
				keys = append(keys, relKey)
			}
		}
	}

	return keys, nil
}

func (d *Destination) Exists(ctx context.Context, key string) (bool, error) {
	blobPath := d.fullKey(key)

	_, err := d.client.ServiceClient().NewContainerClient(d.containerName).NewBlobClient(blobPath).GetProperties(ctx, nil)
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) && respErr.StatusCode == 404 {
			return false, nil
		}
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
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

func toPtr[T any](v T) *T {
	return &v
}
