package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// targetRow is the serialized form of a target for json/yaml output.
type targetRow struct {
	Environment string `json:"environment" yaml:"environment"`
	Config      string `json:"config" yaml:"config"`
	Destination string `json:"destination" yaml:"destination"`
	EdgeCache   string `json:"edge_cache,omitempty" yaml:"edge_cache,omitempty"`
}

func newTargetsCmd() *cobra.Command {
	var (
		manifestFile string
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:     "targets",
		Aliases: []string{"envs", "environments"},
		Short:   "List the environments the manifest can deploy to",
		Long: `List the deployment targets configured in the manifest.

Examples:
  shipctl targets
  shipctl targets -o json
  shipctl targets -f deploy/ship.yml`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := loadManifest(manifestFile)
			if err != nil {
				return err
			}

			rows := make([]targetRow, 0, len(m.Targets))
			for _, env := range m.Environments() {
				target := m.Targets[env]
				row := targetRow{
					Environment: env,
					Config:      target.Config,
					Destination: target.Destination.Type,
				}
				if target.EdgeCached() {
					row.EdgeCache = fmt.Sprintf("%s (%s)", target.EdgeCache.Type, target.EdgeCache.DistributionID)
				}
				rows = append(rows, row)
			}

			switch outputFormat {
			case "json":
				data, err := json.MarshalIndent(rows, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal JSON: %w", err)
				}
				fmt.Println(string(data))
			case "yaml":
				data, err := yaml.Marshal(rows)
				if err != nil {
					return fmt.Errorf("failed to marshal YAML: %w", err)
				}
				fmt.Println(string(data))
			default:
				// Table format
				fmt.Printf("Manifest: %s\n\n", m.SourcePath)

				if len(rows) == 0 {
					fmt.Println("No targets configured.")
					return nil
				}

				fmt.Printf("%-14s %-32s %-10s %s\n", "ENVIRONMENT", "CONFIG", "TYPE", "EDGE CACHE")
				for _, row := range rows {
					edge := row.EdgeCache
					if edge == "" {
						edge = "-"
					}
					fmt.Printf("%-14s %-32s %-10s %s\n", row.Environment, row.Config, row.Destination, edge)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestFile, "manifest", "f", "", "Path to ship.yml if not in the current directory")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table, json, yaml")

	return cmd
}
