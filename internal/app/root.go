// Package app wires the proxmox-mcp command line interface.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vhark/ProxmoxMCP/internal/config"
	"github.com/vhark/ProxmoxMCP/internal/logging"
	"github.com/vhark/ProxmoxMCP/internal/proxmox"
)

// Version is the release version reported to MCP clients.
var Version = "dev"

var (
	cfgPath string

	// RootCmd is the root command for proxmox-mcp.
	RootCmd = &cobra.Command{
		Use:   "proxmox-mcp",
		Short: "Proxmox VE MCP server with scheduled snapshot rotation",
		Long: `proxmox-mcp exposes a Proxmox VE cluster to MCP clients and rotates
point-in-time snapshots of its VMs and containers on a fixed cadence schedule.

The rotation engine creates hourly, daily, weekly, and monthly snapshots under
canonical auto-<cadence>-<timestamp> names and prunes automated snapshots that
have aged past their cadence's retention window. Manually created snapshots
are never touched. The engine is stateless: it is meant to be triggered every
minute by an external scheduler (or its own --cron mode) and rebuilds all
decisions from the snapshot names on the cluster.

Examples:
  # Serve Proxmox tools over MCP (stdio)
  proxmox-mcp serve --config config.yaml

  # One rotation pass, reporting without mutating
  proxmox-mcp rotate --config config.yaml --dry-run

  # Stay resident and rotate at the top of every minute
  proxmox-mcp rotate --config config.yaml --cron "* * * * *"

  # Inspect recorded rotation runs
  proxmox-mcp history`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgPath, "config", "",
		"path to configuration file (default: $PROXMOX_MCP_CONFIG or ./config.yaml)")

	RootCmd.AddCommand(serveCmd)
	RootCmd.AddCommand(rotateCmd)
	RootCmd.AddCommand(historyCmd)
}

// configPath resolves the configuration file location from the flag, the
// environment, or the default.
func configPath() string {
	if cfgPath != "" {
		return cfgPath
	}
	if env := os.Getenv("PROXMOX_MCP_CONFIG"); env != "" {
		return env
	}
	return "config.yaml"
}

// loadConfig loads the configuration and applies its logging settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, err
	}
	if err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newClient builds a Proxmox client from the configuration and verifies
// connectivity. A connection failure here is fatal for every subcommand.
func newClient(ctx context.Context, cfg *config.Config) (*proxmox.Client, error) {
	client := proxmox.NewClient(proxmox.Options{
		Host:       cfg.Proxmox.Host,
		Port:       cfg.Proxmox.Port,
		User:       cfg.Auth.User,
		TokenName:  cfg.Auth.TokenName,
		TokenValue: cfg.Auth.TokenValue,
		VerifyTLS:  cfg.Proxmox.VerifyTLS(),
	})
	if _, err := client.Version(ctx); err != nil {
		return nil, fmt.Errorf("connecting to Proxmox API: %w", err)
	}
	return client, nil
}
