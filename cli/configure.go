package cli

import (
	"fmt"
	"os"

	"github.com/morikuni/failure/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/umcp/umcp/config"
)

var (
	configurePathFlag string
	configureKeyFlag  string

	configureCmd = &cobra.Command{
		Use:   "configure",
		Short: "Register the bridge with an MCP client",
		Long: `Write (or update) the bridge's server entry in an MCP client's config
file, the {"umcpServers": ...} document the client reads at startup.
Existing files keep their key spelling; new files use the "umcp" key.`,
		RunE: runConfigure,
	}
)

func init() {
	configureCmd.Flags().StringVar(&configurePathFlag, "path", "", "Client config file to write")
	configureCmd.Flags().StringVar(&configureKeyFlag, "key", "", `Force a key spelling ("umcp" or "unityMCP")`)
	configureCmd.MarkFlagRequired("path")
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	exe, err := os.Executable()
	if err != nil {
		return failure.Translate(err, InstallFailed,
			failure.Message("Could not resolve the umcp binary path"),
		)
	}
	entry := config.ServerEntry{
		Command: exe,
		Args:    []string{"mcp"},
	}

	if configureKeyFlag != "" {
		valid := []string{config.KeyUMCP, config.KeyUnityMCP}
		if !lo.Contains(valid, configureKeyFlag) {
			return failure.New(InvalidArguments,
				failure.Message("Unknown key spelling"),
				failure.Context{"key": configureKeyFlag},
			)
		}
		cfg, err := config.LoadClientConfig(configurePathFlag)
		if err != nil {
			return err
		}
		cfg.Servers[configureKeyFlag] = entry
		if err := config.SaveClientConfig(configurePathFlag, cfg); err != nil {
			return err
		}
		fmt.Printf("Registered bridge under %q in %s\n", configureKeyFlag, configurePathFlag)
		return nil
	}

	key, err := config.Install(configurePathFlag, entry)
	if err != nil {
		return err
	}
	fmt.Printf("Registered bridge under %q in %s\n", key, configurePathFlag)
	return nil
}
