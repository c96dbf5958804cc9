// Package cli implements the shipctl CLI commands.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	// Import destination and edge cache implementations to register them
	// via init()
	_ "github.com/architect-io/shipctl/pkg/cdn/cloudfront"
	_ "github.com/architect-io/shipctl/pkg/destination/azurerm"
	_ "github.com/architect-io/shipctl/pkg/destination/gcs"
	_ "github.com/architect-io/shipctl/pkg/destination/local"
	_ "github.com/architect-io/shipctl/pkg/destination/s3"
)

var (
	cfgFile string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "shipctl",
	Short: "Build once, deploy a static application to any environment",
	Long: `shipctl publishes static web applications to multiple environments
from a single build.

The build artifact is environment-agnostic: instead of rebuilding per
environment, shipctl swaps a runtime configuration document into the
artifact and mirrors the result onto the environment's destination.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.shipctl/config.yaml)")

	viper.SetEnvPrefix("SHIPCTL")
	viper.AutomaticEnv()

	// Add subcommands
	rootCmd.AddCommand(newDeployCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newTargetsCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in home directory
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home + "/.shipctl")
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	// Read config file if it exists
	_ = viper.ReadInConfig()
}
