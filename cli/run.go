package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/umcp/umcp/mcp"
)

var (
	// settingsPathFlag overrides the settings file location for every
	// subcommand that loads settings.
	settingsPathFlag string

	// Root command
	rootCmd = &cobra.Command{
		Use:           "umcp",
		Short:         "Bridge between MCP clients and the editor",
		SilenceErrors: true,
		Long: `umcp runs the bridge between Model Context Protocol clients and the
editor: a command listener the editor-facing tools talk to, a state port
publishing editor snapshots, and an MCP stdio server for clients.

Typical setup:
1. umcp configure --path <client config>   register the bridge with a client
2. umcp serve                              run the bridge
3. the MCP client starts "umcp mcp" on demand`,
	}

	// Version information
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Version command
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Print detailed version information about umcp",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("umcp version %s\n", Version)
			fmt.Printf("  commit: %s\n", Commit)
			fmt.Printf("  built:  %s\n", Date)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsPathFlag, "settings", "", "Path to the settings file")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(mcp.Command())
}

// Run executes the main CLI functionality
func Run() error {
	return rootCmd.Execute()
}
