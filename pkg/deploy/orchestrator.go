// Package deploy implements the deployment pipeline: one environment-agnostic
// build, a per-environment configuration document swapped into the artifact,
// a mirror publish to the environment's destination, and best-effort edge
// cache invalidation for edge-cached targets.
package deploy

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/architect-io/shipctl/pkg/build"
	"github.com/architect-io/shipctl/pkg/cdn"
	"github.com/architect-io/shipctl/pkg/destination"
	"github.com/architect-io/shipctl/pkg/errors"
	"github.com/architect-io/shipctl/pkg/manifest"
	"github.com/architect-io/shipctl/pkg/runtimeconfig"
	"github.com/google/uuid"
)

// Status is the orchestrator's position in the deploy pipeline.
type Status string

const (
	StatusPending      Status = "pending"
	StatusBuilding     Status = "building"
	StatusConfiguring  Status = "configuring"
	StatusPublishing   Status = "publishing"
	StatusInvalidating Status = "invalidating"
	StatusDone         Status = "done"
	StatusFailed       Status = "failed"
)

// EntryDocument is the application entry point within the artifact. It is
// invalidated alongside the configuration document on edge-cached targets.
const EntryDocument = "index.html"

// recordPrefix holds deployment metadata at the destination. Objects under
// it are never part of the artifact tree, so the mirror pass leaves them
// alone.
const recordPrefix = ".shipctl/"

// Builder produces the artifact tree. It deliberately has no environment
// parameter; the build cannot depend on the deploy target.
type Builder interface {
	Build(ctx context.Context) (*build.Artifact, error)
}

// Options configures an Orchestrator.
type Options struct {
	// Manifest supplies the per-environment targets.
	Manifest *manifest.Manifest

	// SourceDir is the directory configuration document paths are resolved
	// against, normally the manifest's directory.
	SourceDir string

	// Builder runs the build step. Ignored when Artifact is set.
	Builder Builder

	// Artifact reuses an already-built tree, skipping the build step. Used
	// by --skip-build and by sequential deploys of multiple environments
	// from one run.
	Artifact *build.Artifact

	// DocumentPath is the fixed configuration document path within the
	// artifact. Defaults to the runtime loader's contract path.
	DocumentPath string

	// NewDestination overrides destination construction (tests).
	NewDestination func(cfg manifest.DestinationConfig) (destination.Destination, error)

	// NewInvalidator overrides invalidator construction (tests).
	NewInvalidator func(cfg manifest.EdgeCacheConfig) (cdn.Invalidator, error)

	// OnStep is called as the pipeline advances (CLI progress output).
	OnStep func(status Status, message string)
}

// Orchestrator deploys a source tree to one environment at a time.
//
// Two concurrent deploys to different environments are safe; two concurrent
// deploys to the same environment race on the destination and must be
// serialized by the caller.
type Orchestrator struct {
	opts Options
}

// New creates an orchestrator.
func New(opts Options) *Orchestrator {
	if opts.DocumentPath == "" {
		opts.DocumentPath = runtimeconfig.DefaultDocumentPath
	}
	if opts.NewDestination == nil {
		opts.NewDestination = func(cfg manifest.DestinationConfig) (destination.Destination, error) {
			return destination.New(cfg.Type, cfg.Settings)
		}
	}
	if opts.NewInvalidator == nil {
		opts.NewInvalidator = func(cfg manifest.EdgeCacheConfig) (cdn.Invalidator, error) {
			return cdn.New(cfg.Type, map[string]string{})
		}
	}
	return &Orchestrator{opts: opts}
}

// Deploy publishes the configured artifact for one environment. Each step's
// failure aborts all subsequent steps; there is no rollback. A failed edge
// cache invalidation is reported in the result, not as an error, because the
// objects were already published and caches converge once their TTL expires.
func (o *Orchestrator) Deploy(ctx context.Context, environment string) (*Result, error) {
	result := &Result{
		Environment: environment,
		RunID:       uuid.New().String(),
		Status:      StatusPending,
	}

	// Resolve everything that can fail before any side effect: the target,
	// its destination, and (for edge-cached targets) the invalidator.
	target, err := o.opts.Manifest.Target(environment)
	if err != nil {
		result.Status = StatusFailed
		return result, err
	}

	dest, err := o.opts.NewDestination(target.Destination)
	if err != nil {
		result.Status = StatusFailed
		return result, errors.Wrap(errors.ErrCodeDestination,
			fmt.Sprintf("failed to resolve destination for %q", environment), err)
	}
	result.Destination = destinationLabel(target.Destination)

	var invalidator cdn.Invalidator
	if target.EdgeCached() {
		invalidator, err = o.opts.NewInvalidator(*target.EdgeCache)
		if err != nil {
			result.Status = StatusFailed
			return result, errors.Wrap(errors.ErrCodeInvalidation,
				fmt.Sprintf("failed to resolve edge cache for %q", environment), err)
		}
	}

	// Build
	artifact := o.opts.Artifact
	if artifact == nil {
		o.step(result, StatusBuilding, "building artifact")
		artifact, err = o.opts.Builder.Build(ctx)
		if err != nil {
			result.Status = StatusFailed
			return result, err
		}
	}

	// Configuration substitution
	o.step(result, StatusConfiguring, fmt.Sprintf("configuring for %s", environment))
	if err := o.configure(artifact, environment, target); err != nil {
		result.Status = StatusFailed
		return result, err
	}

	// Publish
	o.step(result, StatusPublishing, fmt.Sprintf("publishing to %s", result.Destination))
	uploaded, deleted, err := o.publish(ctx, artifact, dest)
	result.Uploaded = uploaded
	result.Deleted = deleted
	if err != nil {
		result.Status = StatusFailed
		return result, err
	}

	if err := o.writeRecord(ctx, dest, result, artifact); err != nil {
		// The artifact itself is fully published; a failed metadata write
		// is reported but does not fail the deploy.
		result.Warnings = append(result.Warnings, fmt.Sprintf("failed to write deployment record: %v", err))
	}

	// Edge cache invalidation (best-effort)
	if invalidator != nil {
		o.step(result, StatusInvalidating, "invalidating edge cache")
		result.Invalidation = o.invalidate(ctx, invalidator, target)
	}

	result.Status = StatusDone
	return result, nil
}

// configure copies the environment's configuration document into the
// artifact at the fixed document path. The document is parsed with the
// runtime loader's own validator first; publishing a document the runtime
// would refuse to start on helps nobody.
func (o *Orchestrator) configure(artifact *build.Artifact, environment string, target manifest.Target) error {
	sourcePath := target.Config
	if !filepath.IsAbs(sourcePath) {
		sourcePath = filepath.Join(o.opts.SourceDir, sourcePath)
	}

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.MissingConfigError(environment, sourcePath)
		}
		return errors.Wrap(errors.ErrCodeMissingConf,
			fmt.Sprintf("failed to read configuration document for %q", environment), err)
	}

	if _, err := runtimeconfig.ParseDocument(data); err != nil {
		return errors.Wrap(errors.ErrCodeValidation,
			fmt.Sprintf("configuration document %s is invalid", sourcePath), err)
	}

	return artifact.WriteFile(o.opts.DocumentPath, data)
}

// publish mirrors the artifact tree onto the destination: every artifact
// file is uploaded, and every remote object absent from the artifact is
// deleted so stale assets from earlier deployments stop being reachable.
func (o *Orchestrator) publish(ctx context.Context, artifact *build.Artifact, dest destination.Destination) (uploaded, deleted int, err error) {
	files, err := artifact.Files()
	if err != nil {
		return 0, 0, errors.PublishError(dest.Type(), err)
	}

	existing, err := dest.List(ctx, "")
	if err != nil {
		return 0, 0, errors.PublishError(dest.Type(), err)
	}

	for _, key := range files {
		f, err := artifact.Open(key)
		if err != nil {
			return uploaded, deleted, errors.PublishError(dest.Type(), err)
		}

		uploadErr := dest.Upload(ctx, key, f, destination.UploadOptions{
			ContentType:  contentTypeFor(key),
			CacheControl: o.cacheControlFor(key),
		})
		f.Close()
		if uploadErr != nil {
			return uploaded, deleted, errors.PublishError(dest.Type(), uploadErr)
		}
		uploaded++
	}

	keep := make(map[string]bool, len(files))
	for _, key := range files {
		keep[key] = true
	}

	for _, key := range existing {
		if keep[key] || strings.HasPrefix(key, recordPrefix) {
			continue
		}
		if err := dest.Delete(ctx, key); err != nil {
			return uploaded, deleted, errors.PublishError(dest.Type(), err)
		}
		deleted++
	}

	return uploaded, deleted, nil
}

func (o *Orchestrator) invalidate(ctx context.Context, invalidator cdn.Invalidator, target manifest.Target) *InvalidationResult {
	paths := []string{
		"/" + strings.TrimPrefix(o.opts.DocumentPath, "/"),
		"/" + EntryDocument,
	}
	for _, p := range target.EdgeCache.Paths {
		paths = append(paths, "/"+strings.TrimPrefix(p, "/"))
	}

	inv := &InvalidationResult{
		Requested: true,
		Paths:     paths,
	}

	if err := invalidator.Invalidate(ctx, target.EdgeCache.DistributionID, paths); err != nil {
		inv.Error = err.Error()
		return inv
	}

	inv.Succeeded = true
	return inv
}

func (o *Orchestrator) step(result *Result, status Status, message string) {
	result.Status = status
	if o.opts.OnStep != nil {
		o.opts.OnStep(status, message)
	}
}

// contentTypeFor resolves the content type for a key from its extension.
func contentTypeFor(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// cacheControlFor keeps the configuration and entry documents uncacheable so
// a new deployment becomes visible on the next fetch; everything else in the
// artifact is content-hashed by the build tool and safe to cache hard.
func (o *Orchestrator) cacheControlFor(key string) string {
	if key == o.opts.DocumentPath || key == EntryDocument {
		return "no-cache"
	}
	return "public, max-age=31536000, immutable"
}

// destinationLabel renders a short human-readable destination identifier.
func destinationLabel(cfg manifest.DestinationConfig) string {
	switch cfg.Type {
	case "s3":
		return fmt.Sprintf("s3://%s", cfg.Settings["bucket"])
	case "gcs":
		return fmt.Sprintf("gs://%s", cfg.Settings["bucket"])
	case "azurerm":
		return fmt.Sprintf("azure://%s", cfg.Settings["container_name"])
	case "local":
		return cfg.Settings["path"]
	default:
		return cfg.Type
	}
}
