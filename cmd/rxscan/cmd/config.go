package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meditrack/rxscan/internal/config"
)

// configCmd shows where configuration is loaded from and can write a
// starter file.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration sources or generate a default config file",
	Long: `Show the configuration search paths and the file currently in use.

With --init, write a config file populated with the default values.

Examples:
  rxscan config
  rxscan config --init
  rxscan config --init --file /etc/rxscan/rxscan.yaml`,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	if initFile, _ := cmd.Flags().GetBool("init"); initFile {
		filename, _ := cmd.Flags().GetString("file")
		if err := config.GenerateDefaultConfigFile(filename); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
		if filename == "" {
			filename = config.ConfigFileName + ".yaml"
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", filename)
		return nil
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "Configuration search paths:")
	for _, path := range config.GetConfigSearchPaths() {
		_, _ = fmt.Fprintf(out, "  %s\n", path)
	}

	used := GetConfigLoader().GetConfigFileUsed()
	if used == "" {
		used = "(none, using defaults)"
	}
	_, _ = fmt.Fprintf(out, "Config file in use: %s\n", used)
	_, _ = fmt.Fprintf(out, "Environment prefix: %s\n", config.EnvPrefix)
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().Bool("init", false, "write a config file with default values")
	configCmd.Flags().String("file", "", "target path for --init (default rxscan.yaml)")
}
