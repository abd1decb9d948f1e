package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration after defaults, the .taskboard.yaml file, and
TB_ environment overrides have been merged.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Config == nil {
			return fmt.Errorf("configuration not initialized")
		}

		w := cmd.OutOrStdout()
		source := "(defaults only)"
		if ConfigMgr != nil && ConfigMgr.ConfigFileUsed() != "" {
			source = ConfigMgr.ConfigFileUsed()
		}
		fmt.Fprintf(w, "# base path: %s\n# config file: %s\n", BasePath, source)

		data, err := yaml.Marshal(Config)
		if err != nil {
			return fmt.Errorf("formatting config as YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
