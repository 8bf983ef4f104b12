package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// configCmd prints the effective configuration as YAML.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after defaults, the config file, SALES_* environment
variables and flags have been applied. The output is a valid config file.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		data, err := cfg.Marshal()
		if err != nil {
			return fmt.Errorf("failed to marshal configuration: %w", err)
		}

		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
