package mcp

import (
	"github.com/spf13/cobra"

	"github.com/umcp/umcp/config"
)

// Command returns the MCP server command
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server",
		RunE:  runMCP,
	}
}

func runMCP(cmd *cobra.Command, args []string) error {
	// --settings is the root command's persistent flag.
	path, _ := cmd.Flags().GetString("settings")
	if path == "" {
		path = config.DefaultSettingsPath()
	}

	settings, _, err := config.LoadSettings(path)
	if err != nil {
		return err
	}
	server := NewServer(settings)
	return server.Run()
}
