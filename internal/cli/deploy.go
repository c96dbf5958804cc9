package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/architect-io/shipctl/pkg/build"
	"github.com/architect-io/shipctl/pkg/deploy"
	"github.com/architect-io/shipctl/pkg/manifest"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newDeployCmd() *cobra.Command {
	var (
		manifestFile string
		autoApprove  bool
		skipBuild    bool
	)

	cmd := &cobra.Command{
		Use:     "deploy <environment> [environment...]",
		Aliases: []string{"publish"},
		Short:   "Deploy the application to one or more environments",
		Long: `Deploy the application to the named environments.

The build runs once. For each environment, the environment's runtime
configuration document is swapped into the artifact, the artifact is
mirrored onto the environment's destination, and the edge cache is
invalidated for edge-cached targets.

Examples:
  shipctl deploy staging
  shipctl deploy qa staging -f deploy/ship.yml
  shipctl deploy production --auto-approve
  shipctl deploy development --skip-build`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			m, sourceDir, err := loadManifest(manifestFile)
			if err != nil {
				return err
			}

			// Resolve every requested target up front so a typo in the
			// second environment name does not surface after the first one
			// already deployed.
			targets := make(map[string]manifest.Target, len(args))
			for _, env := range args {
				target, err := m.Target(env)
				if err != nil {
					return err
				}
				targets[env] = target
			}

			// Display execution plan
			fmt.Printf("Manifest: %s\n", m.SourcePath)
			fmt.Printf("Build:    %s\n", m.Build.Command)
			if skipBuild {
				fmt.Printf("Build:    skipped, reusing %s\n", m.Build.Output)
			}
			fmt.Println()

			fmt.Println("Deployment Plan:")
			for _, env := range args {
				target := targets[env]
				fmt.Printf("  %s\n", env)
				fmt.Printf("    config:      %s\n", target.Config)
				fmt.Printf("    destination: %s\n", target.Destination.Type)
				if target.EdgeCached() {
					fmt.Printf("    edge cache:  %s (%s)\n", target.EdgeCache.Type, target.EdgeCache.DistributionID)
				}
			}
			fmt.Println()

			// Confirm unless --auto-approve is provided
			if !autoApprove && isInteractive() {
				fmt.Print("Proceed with deployment? [Y/n]: ")
				var response string
				_, _ = fmt.Scanln(&response)
				response = strings.ToLower(strings.TrimSpace(response))
				if response != "" && response != "y" && response != "yes" {
					fmt.Println("Deployment cancelled.")
					return nil
				}
				fmt.Println()
			}

			buildDir := m.Build.Dir
			if buildDir == "" {
				buildDir = sourceDir
			} else if !filepath.IsAbs(buildDir) {
				buildDir = filepath.Join(sourceDir, buildDir)
			}
			outputDir := m.Build.Output
			if !filepath.IsAbs(outputDir) {
				outputDir = filepath.Join(buildDir, outputDir)
			}

			// Build once. Every environment deploys the same artifact; only
			// the configuration document differs.
			var artifact *build.Artifact
			if skipBuild {
				info, err := os.Stat(outputDir)
				if err != nil || !info.IsDir() {
					return fmt.Errorf("--skip-build requires an existing artifact at %s; run without --skip-build first", outputDir)
				}
				artifact = &build.Artifact{Root: outputDir}
				fmt.Printf("[build] Reusing artifact at %s\n", outputDir)
			} else {
				fmt.Printf("[build] Running %q...\n", m.Build.Command)
				runner := build.NewRunner(m.Build.Command, buildDir, outputDir)
				runner.SetOutput(os.Stdout, os.Stderr)
				artifact, err = runner.Build(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("[success] Build complete (%s)\n", outputDir)
			}
			fmt.Println()

			orchestrator := deploy.New(deploy.Options{
				Manifest:  m,
				SourceDir: sourceDir,
				Artifact:  artifact,
				OnStep: func(status deploy.Status, message string) {
					fmt.Printf("[deploy] %s\n", message)
				},
			})

			tracker := NewStepTracker(os.Stdout)
			for _, env := range args {
				tracker.Start(env)
				result, err := orchestrator.Deploy(ctx, env)
				if err != nil {
					tracker.Fail(env, err)
					tracker.PrintSummary()
					return fmt.Errorf("deployment to %q failed: %w", env, err)
				}
				tracker.Complete(env, result)

				fmt.Printf("[success] Deployed %s to %s (%d uploaded, %d deleted)\n",
					env, result.Destination, result.Uploaded, result.Deleted)
				if result.Invalidation != nil && !result.Invalidation.Succeeded {
					fmt.Printf("Warning: edge cache invalidation failed: %s\n", result.Invalidation.Error)
					fmt.Println("Cached clients will pick up the new deployment when the cache TTL expires.")
				}
				for _, warning := range result.Warnings {
					fmt.Printf("Warning: %s\n", warning)
				}
				fmt.Println()
			}

			tracker.PrintSummary()
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestFile, "manifest", "f", "", "Path to ship.yml if not in the current directory")
	cmd.Flags().BoolVar(&autoApprove, "auto-approve", false, "Skip confirmation prompt")
	cmd.Flags().BoolVar(&skipBuild, "skip-build", false, "Reuse the existing build output instead of rebuilding")

	return cmd
}

// loadManifest resolves and loads the deployment manifest. It returns the
// manifest and the directory configuration document paths resolve against.
func loadManifest(manifestFile string) (*manifest.Manifest, string, error) {
	path := manifestFile
	if path == "" {
		path = manifest.DefaultManifestFile
	}

	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		path = filepath.Join(path, manifest.DefaultManifestFile)
	}

	loader := manifest.NewLoader()
	m, err := loader.Load(path)
	if err != nil {
		return nil, "", err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve manifest path: %w", err)
	}

	return m, filepath.Dir(absPath), nil
}

// isInteractive returns true if the CLI is running in an interactive terminal
// and not in a CI environment.
func isInteractive() bool {
	// Check if stdin is a terminal
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}

	// Check for common CI environment variables
	ciEnvVars := []string{
		"CI",
		"CONTINUOUS_INTEGRATION",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"CIRCLECI",
		"TRAVIS",
		"JENKINS_URL",
		"BUILDKITE",
		"DRONE",
		"TEAMCITY_VERSION",
		"TF_BUILD", // Azure DevOps
		"BITBUCKET_BUILD_NUMBER",
		"CODEBUILD_BUILD_ID", // AWS CodeBuild
	}

	for _, env := range ciEnvVars {
		if os.Getenv(env) != "" {
			return false
		}
	}

	return true
}
