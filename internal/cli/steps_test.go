package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/architect-io/shipctl/pkg/deploy"
)

func TestStepTracker_Counts(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewStepTracker(&buf)

	tracker.Start("development")
	tracker.Complete("development", &deploy.Result{Environment: "development", Uploaded: 3})

	tracker.Start("qa")
	tracker.Fail("qa", errors.New("upload failed"))

	if got := tracker.CompletedCount(); got != 1 {
		t.Errorf("expected 1 completed, got %d", got)
	}
	if got := tracker.FailedCount(); got != 1 {
		t.Errorf("expected 1 failed, got %d", got)
	}
}

func TestStepTracker_SummarySuccess(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewStepTracker(&buf)

	tracker.Start("staging")
	tracker.Complete("staging", &deploy.Result{
		Environment: "staging",
		Destination: "s3://staging-bucket",
		Uploaded:    12,
		Invalidation: &deploy.InvalidationResult{
			Requested: true,
			Succeeded: true,
		},
	})

	tracker.PrintSummary()
	out := buf.String()

	if !strings.Contains(out, "completed successfully") {
		t.Errorf("expected success summary, got: %s", out)
	}
	if !strings.Contains(out, "staging") || !strings.Contains(out, "s3://staging-bucket") {
		t.Errorf("expected environment and destination in summary, got: %s", out)
	}
	if !strings.Contains(out, "[cache invalidated]") {
		t.Errorf("expected invalidation marker, got: %s", out)
	}
}

func TestStepTracker_SummaryFailure(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewStepTracker(&buf)

	tracker.Start("development")
	tracker.Complete("development", &deploy.Result{Environment: "development"})

	tracker.Start("production")
	tracker.Fail("production", errors.New("access denied"))

	tracker.PrintSummary()
	out := buf.String()

	if !strings.Contains(out, "completed with errors") {
		t.Errorf("expected error summary, got: %s", out)
	}
	if !strings.Contains(out, "access denied") {
		t.Errorf("expected failure reason in summary, got: %s", out)
	}
}

func TestStepTracker_UnknownEnvironmentIgnored(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewStepTracker(&buf)

	// Updates for environments that never started are dropped.
	tracker.Complete("development", &deploy.Result{})
	tracker.Fail("qa", errors.New("boom"))

	if got := tracker.CompletedCount(); got != 0 {
		t.Errorf("expected 0 completed, got %d", got)
	}
	if got := tracker.FailedCount(); got != 0 {
		t.Errorf("expected 0 failed, got %d", got)
	}
}
