package deploy

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/architect-io/shipctl/pkg/build"
	"github.com/architect-io/shipctl/pkg/destination"
	"github.com/go-git/go-git/v5"
)

// RecordKey is where deployment metadata lives at the destination.
const RecordKey = recordPrefix + "deploy.json"

// Record describes what is currently deployed at a destination. It is
// written after a successful mirror pass so an operator can answer "what is
// running in staging" without digging through CI logs.
type Record struct {
	Environment string    `json:"environment"`
	RunID       string    `json:"run_id"`
	Revision    string    `json:"revision,omitempty"`
	Files       int       `json:"files"`
	DeployedAt  time.Time `json:"deployed_at"`
}

func (o *Orchestrator) writeRecord(ctx context.Context, dest destination.Destination, result *Result, artifact *build.Artifact) error {
	files, err := artifact.Files()
	if err != nil {
		return err
	}

	record := Record{
		Environment: result.Environment,
		RunID:       result.RunID,
		Revision:    headRevision(o.opts.SourceDir),
		Files:       len(files),
		DeployedAt:  time.Now().UTC(),
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}

	return dest.Upload(ctx, RecordKey, bytes.NewReader(data), destination.UploadOptions{
		ContentType:  "application/json",
		CacheControl: "no-cache",
	})
}

// headRevision resolves the source checkout's HEAD commit. Deploys from an
// exported tarball or a non-git directory simply produce a record without a
// revision.
func headRevision(dir string) string {
	if dir == "" {
		dir = "."
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}

	head, err := repo.Head()
	if err != nil {
		return ""
	}

	return head.Hash().String()
}
