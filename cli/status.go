package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/morikuni/failure/v2"
	"github.com/pkg/browser"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/umcp/umcp/bridge"
	"github.com/umcp/umcp/bridge/client"
	"github.com/umcp/umcp/log"
	"github.com/umcp/umcp/status"
)

var (
	openFlag bool

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show bridge status",
		Long:  "Query the bridge's management endpoint and report its health, run mode and command surface",
		RunE:  runStatus,
	}
)

func init() {
	statusCmd.Flags().BoolVarP(&openFlag, "open", "o", false, "Open the health endpoint in the browser")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	settings, _, err := loadSettings()
	if err != nil {
		return err
	}

	healthURL := fmt.Sprintf("http://%s:%d/health", settings.BindAddress, settings.ManagementPort())
	if openFlag {
		return browser.OpenURL(healthURL)
	}

	// The TCP command port is the contract the MCP server depends on, so
	// probe it alongside the HTTP endpoint.
	bridgeClient := status.NewClient("bridge")
	c := client.New(settings.CommandAddr(), 2*time.Second)
	if err := c.Ping(); err != nil {
		bridgeClient.SetStatus(status.NoResponse, "")
	} else {
		bridgeClient.SetStatus(status.Connected, "")
	}
	c.Close()

	health, err := fetchHealth(healthURL)
	if err != nil {
		bridgeClient.SetStatus(status.Error, err.Error())
	}

	report := renderReport(bridgeClient, health, settings.CommandAddr())

	if isatty.IsTerminal(os.Stdout.Fd()) {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			return failure.Wrap(err)
		}
		out, err := renderer.Render(report)
		if err != nil {
			return failure.Wrap(err)
		}
		fmt.Print(out)
		return nil
	}

	fmt.Print(report)
	return nil
}

func fetchHealth(url string) (*bridge.Health, error) {
	httpClient := &http.Client{
		Timeout:   5 * time.Second,
		Transport: log.Transport(),
	}

	resp, err := httpClient.Get(url)
	if err != nil {
		return nil, failure.Translate(err, BridgeUnreachable,
			failure.Message("Management endpoint unreachable"),
			failure.Context{"url": url},
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, failure.New(BridgeUnreachable,
			failure.Message("Management endpoint returned "+resp.Status),
			failure.Context{"url": url},
		)
	}

	var h bridge.Health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return nil, failure.Wrap(err)
	}
	return &h, nil
}

func renderReport(bridgeClient *status.Client, health *bridge.Health, commandAddr string) string {
	var b strings.Builder
	b.WriteString("# Bridge Status\n\n")
	fmt.Fprintf(&b, "- Command port: `%s` (%s)\n", commandAddr, bridgeClient.ConfigStatus)

	if health == nil {
		b.WriteString("- Management endpoint: unreachable\n")
		return b.String()
	}

	fmt.Fprintf(&b, "- Health: %s\n", health.Status)
	fmt.Fprintf(&b, "- Run mode: %s\n", health.RunMode)
	fmt.Fprintf(&b, "- State subscribers: %d\n", health.Subscribers)
	fmt.Fprintf(&b, "- Uptime: %ds\n", health.UptimeSeconds)

	b.WriteString("\n## Commands\n\n")
	lines := lo.Map(health.Commands, func(name string, _ int) string {
		return "- " + name
	})
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")
	return b.String()
}
