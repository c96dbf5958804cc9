package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/architect-io/shipctl/pkg/deploy"
)

// EnvironmentStatus represents the current status of an environment deploy.
type EnvironmentStatus string

const (
	StatusPending    EnvironmentStatus = "pending"
	StatusInProgress EnvironmentStatus = "in_progress"
	StatusCompleted  EnvironmentStatus = "completed"
	StatusFailed     EnvironmentStatus = "failed"
)

// environmentInfo holds per-environment progress for the final summary.
type environmentInfo struct {
	Status    EnvironmentStatus
	StartTime time.Time
	EndTime   time.Time
	Result    *deploy.Result
	Error     error
}

// StepTracker tracks per-environment deployment progress across a multi
// environment run and prints the final summary.
type StepTracker struct {
	mu           sync.Mutex
	environments map[string]*environmentInfo
	order        []string // Maintains insertion order for display
	writer       io.Writer
	startTime    time.Time
}

// NewStepTracker creates a new step tracker.
func NewStepTracker(w io.Writer) *StepTracker {
	return &StepTracker{
		environments: make(map[string]*environmentInfo),
		order:        []string{},
		writer:       w,
		startTime:    time.Now(),
	}
}

// Start marks an environment deploy as running.
func (s *StepTracker) Start(environment string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.environments[environment]; !exists {
		s.order = append(s.order, environment)
	}

	s.environments[environment] = &environmentInfo{
		Status:    StatusInProgress,
		StartTime: time.Now(),
	}
}

// Complete records a successful environment deploy.
func (s *StepTracker) Complete(environment string, result *deploy.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	env, ok := s.environments[environment]
	if !ok {
		return
	}

	env.Status = StatusCompleted
	env.Result = result
	env.EndTime = time.Now()
}

// Fail records a failed environment deploy.
func (s *StepTracker) Fail(environment string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	env, ok := s.environments[environment]
	if !ok {
		return
	}

	env.Status = StatusFailed
	env.Error = err
	env.EndTime = time.Now()
}

// CompletedCount returns the number of successfully deployed environments.
func (s *StepTracker) CompletedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, env := range s.environments {
		if env.Status == StatusCompleted {
			count++
		}
	}
	return count
}

// FailedCount returns the number of failed environment deploys.
func (s *StepTracker) FailedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, env := range s.environments {
		if env.Status == StatusFailed {
			count++
		}
	}
	return count
}

// PrintSummary prints the final deployment summary.
func (s *StepTracker) PrintSummary() {
	s.mu.Lock()
	defer s.mu.Unlock()

	var completed, failed int
	for _, env := range s.environments {
		switch env.Status {
		case StatusCompleted:
			completed++
		case StatusFailed:
			failed++
		}
	}

	elapsed := time.Since(s.startTime).Round(time.Millisecond)

	fmt.Fprintln(s.writer, strings.Repeat("─", 60))

	if failed > 0 {
		fmt.Fprintf(s.writer, "Deployment completed with errors in %s\n", elapsed)
		fmt.Fprintf(s.writer, "  ● %d succeeded, ✗ %d failed\n", completed, failed)

		for _, name := range s.order {
			env := s.environments[name]
			if env.Status != StatusFailed {
				continue
			}
			fmt.Fprintf(s.writer, "\n  ✗ %s", name)
			if env.Error != nil {
				fmt.Fprintf(s.writer, ": %v", env.Error)
			}
			fmt.Fprintln(s.writer)
		}
		return
	}

	fmt.Fprintf(s.writer, "Deployment completed successfully in %s\n", elapsed)
	for _, name := range s.order {
		env := s.environments[name]
		if env.Result == nil {
			continue
		}
		duration := env.EndTime.Sub(env.StartTime).Round(time.Millisecond)
		line := fmt.Sprintf("  ● %-12s %s (%d files, %s)", name, env.Result.Destination, env.Result.Uploaded, duration)
		if env.Result.Invalidation != nil && env.Result.Invalidation.Succeeded {
			line += " [cache invalidated]"
		}
		fmt.Fprintln(s.writer, line)
	}
}
