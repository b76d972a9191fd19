package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List the bridge's registered commands",
	Long:  "Display the command names a running bridge accepts on its command port",
	RunE:  runCommands,
}

func init() {
	rootCmd.AddCommand(commandsCmd)
}

func runCommands(cmd *cobra.Command, args []string) error {
	settings, _, err := loadSettings()
	if err != nil {
		return err
	}

	healthURL := fmt.Sprintf("http://%s:%d/health", settings.BindAddress, settings.ManagementPort())
	health, err := fetchHealth(healthURL)
	if err != nil {
		return err
	}

	fmt.Println("Bridge Commands:")
	for _, name := range health.Commands {
		fmt.Printf("  %s\n", name)
	}
	return nil
}
