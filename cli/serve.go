package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/umcp/umcp/bridge"
	"github.com/umcp/umcp/config"
	"github.com/umcp/umcp/editor"
	"github.com/umcp/umcp/editor/command"
	"github.com/umcp/umcp/log"
)

var (
	commandPortFlag portFlag
	statePortFlag   portFlag
	bindAddressFlag string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the bridge",
		Long: `Run the editor loop with its command listener, state publisher and
management endpoints. Stops on SIGINT/SIGTERM.`,
		RunE: runServe,
	}
)

func init() {
	serveCmd.Flags().Var(&commandPortFlag, "command-port", "Override the command listener port")
	serveCmd.Flags().Var(&statePortFlag, "state-port", "Override the state publisher port")
	serveCmd.Flags().StringVar(&bindAddressFlag, "bind", "", "Override the bind address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	settings, warnings, err := loadSettings()
	if err != nil {
		return err
	}
	if commandPortFlag.IsSet {
		settings.CommandPort = commandPortFlag.Value
	}
	if statePortFlag.IsSet {
		settings.StatePort = statePortFlag.Value
	}
	if bindAddressFlag != "" {
		settings.BindAddress = bindAddressFlag
	}
	warnings = append(warnings, settings.Validate()...)
	for _, w := range warnings {
		log.Warn("Settings warning", "warning", w)
	}

	state := editor.NewState()
	loop := editor.NewLoop(state)
	registry := command.NewRegistry(loop)
	srv := bridge.NewServer(settings, registry, "")
	state.SetRefreshHook(srv.PublishSnapshot)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Bridge starting",
		"commandAddr", settings.CommandAddr(),
		"stateAddr", settings.StateAddr(),
		"managementPort", settings.ManagementPort(),
	)
	return srv.Serve(ctx)
}

// loadSettings resolves the settings file, honoring the --settings flag.
func loadSettings() (config.Settings, []string, error) {
	path := settingsPathFlag
	if path == "" {
		path = config.DefaultSettingsPath()
	}
	return config.LoadSettings(path)
}
