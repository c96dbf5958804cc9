package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/architect-io/shipctl/pkg/ciworkflow"
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var (
		manifestFile   string
		outputPath     string
		name           string
		installVersion string
		toStdout       bool
	)

	cmd := &cobra.Command{
		Use:   "generate <provider>",
		Short: "Generate a CI pipeline that builds once and deploys every environment",
		Long: fmt.Sprintf(`Generate a CI/CD pipeline file from the deployment manifest.

The pipeline builds the artifact once and promotes it through the
manifest's environments in order, so a failed staging deploy blocks
production.

Providers: %s

Examples:
  shipctl generate github-actions
  shipctl generate gitlab-ci -f deploy/ship.yml
  shipctl generate circleci --stdout`, strings.Join(ciworkflow.ValidOutputTypes(), ", ")),
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := ciworkflow.OutputType(args[0])
			gen, ok := ciworkflow.NewGenerator(provider)
			if !ok {
				return fmt.Errorf("unknown provider %q (valid: %s)",
					args[0], strings.Join(ciworkflow.ValidOutputTypes(), ", "))
			}

			m, sourceDir, err := loadManifest(manifestFile)
			if err != nil {
				return err
			}

			if name == "" {
				name = fmt.Sprintf("Deploy %s", filepath.Base(sourceDir))
			}

			w := ciworkflow.FromManifest(m, name, manifestFile, installVersion)
			content, err := gen.Generate(w)
			if err != nil {
				return fmt.Errorf("failed to generate workflow: %w", err)
			}

			if toStdout {
				fmt.Print(string(content))
				return nil
			}

			path := outputPath
			if path == "" {
				path = gen.DefaultOutputPath()
			}
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			if err := os.WriteFile(path, content, 0644); err != nil {
				return fmt.Errorf("failed to write workflow: %w", err)
			}

			fmt.Printf("[success] Wrote %s workflow to %s\n", provider, path)
			if len(w.Secrets) > 0 {
				fmt.Println()
				fmt.Println("Configure these secrets in your CI provider:")
				for _, secret := range w.Secrets {
					fmt.Printf("  %s  %s\n", secret.EnvName, secret.Description)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestFile, "manifest", "f", "", "Path to ship.yml if not in the current directory")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output path (defaults to the provider's convention)")
	cmd.Flags().StringVar(&name, "name", "", "Workflow display name")
	cmd.Flags().StringVar(&installVersion, "install-version", "latest", "shipctl version to install in CI jobs")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Print the workflow instead of writing a file")

	return cmd
}
