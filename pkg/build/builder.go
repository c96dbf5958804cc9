// Package build runs the external build tool and exposes the resulting
// artifact tree. The build is environment-agnostic by construction: nothing
// in this package accepts an environment name, so configuration differences
// can never leak into the compiled output.
package build

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/architect-io/shipctl/pkg/errors"
)

// Runner executes a build command and locates its output tree.
type Runner struct {
	command string
	dir     string
	output  string
	stdout  io.Writer
	stderr  io.Writer
}

// NewRunner creates a runner for the given shell command. dir is the working
// directory; output is the artifact directory the command produces, relative
// to dir.
func NewRunner(command, dir, output string) *Runner {
	return &Runner{
		command: command,
		dir:     dir,
		output:  output,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
}

// SetOutput redirects the build command's stdout and stderr.
func (r *Runner) SetOutput(stdout, stderr io.Writer) {
	r.stdout = stdout
	r.stderr = stderr
}

// Build runs the build command and returns the produced artifact.
func (r *Runner) Build(ctx context.Context) (*Artifact, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", r.command)
	cmd.Dir = r.dir
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.BuildError(r.command, err)
	}

	outputDir := filepath.Join(r.dir, r.output)
	info, err := os.Stat(outputDir)
	if err != nil {
		return nil, errors.BuildError(r.command,
			fmt.Errorf("build output directory %s not found: %w", outputDir, err))
	}
	if !info.IsDir() {
		return nil, errors.BuildError(r.command,
			fmt.Errorf("build output %s is not a directory", outputDir))
	}

	artifact := &Artifact{Root: outputDir}
	files, err := artifact.Files()
	if err != nil {
		return nil, errors.BuildError(r.command, err)
	}
	if len(files) == 0 {
		return nil, errors.BuildError(r.command,
			fmt.Errorf("build output directory %s is empty", outputDir))
	}

	return artifact, nil
}
