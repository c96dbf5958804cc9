package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/architect-io/shipctl/pkg/errors"
	"github.com/architect-io/shipctl/pkg/runtimeconfig"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var manifestFile string

	cmd := &cobra.Command{
		Use:   "validate [environment]",
		Short: "Validate the manifest and configuration documents",
		Long: `Validate the deployment manifest and every target's runtime
configuration document without deploying.

When an environment is given, only that environment's configuration
document is checked.

Examples:
  shipctl validate
  shipctl validate staging
  shipctl validate -f deploy/ship.yml`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, sourceDir, err := loadManifest(manifestFile)
			if err != nil {
				return formatValidationError(err)
			}

			environments := m.Environments()
			if len(args) > 0 {
				if _, err := m.Target(args[0]); err != nil {
					return err
				}
				environments = []string{args[0]}
			}

			failed := 0
			for _, env := range environments {
				target := m.Targets[env]
				docPath := target.Config
				if !filepath.IsAbs(docPath) {
					docPath = filepath.Join(sourceDir, docPath)
				}

				data, err := os.ReadFile(docPath)
				if err != nil {
					fmt.Printf("  ✗ %-12s %s: %v\n", env, target.Config, err)
					failed++
					continue
				}

				if _, err := runtimeconfig.ParseDocument(data); err != nil {
					fmt.Printf("  ✗ %-12s %s: %v\n", env, target.Config, err)
					failed++
					continue
				}

				fmt.Printf("  ● %-12s %s\n", env, target.Config)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d configuration documents failed validation", failed, len(environments))
			}

			fmt.Println()
			fmt.Println("Manifest and configuration documents are valid!")
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestFile, "manifest", "f", "", "Path to ship.yml if not in the current directory")

	return cmd
}

// formatValidationError extracts and displays validation error details
func formatValidationError(err error) error {
	// Try to extract shipctl error with details
	var shipErr *errors.Error
	if e, ok := err.(*errors.Error); ok {
		shipErr = e
	} else {
		// Check wrapped errors
		unwrapped := err
		for unwrapped != nil {
			if e, ok := unwrapped.(*errors.Error); ok {
				shipErr = e
				break
			}
			if u, ok := unwrapped.(interface{ Unwrap() error }); ok {
				unwrapped = u.Unwrap()
			} else {
				break
			}
		}
	}

	if shipErr != nil && shipErr.Code == errors.ErrCodeValidation {
		// Extract validation error details
		if errList, ok := shipErr.Details["errors"].([]string); ok && len(errList) > 0 {
			var sb strings.Builder
			sb.WriteString("validation failed\n")
			sb.WriteString("\nValidation errors:\n")
			for _, e := range errList {
				sb.WriteString(fmt.Sprintf("  - %s\n", e))
			}
			return fmt.Errorf("%s", sb.String())
		}
	}

	return fmt.Errorf("validation failed: %w", err)
}
