package app

import (
	"github.com/spf13/cobra"

	"github.com/vhark/ProxmoxMCP/internal/mcptools"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve Proxmox tools over the Model Context Protocol",
	Long: `serve connects to the Proxmox API and exposes its operations as MCP
tools on stdio: node, VM, container, and storage listings, guest-agent command
execution, and snapshot create/list/rollback/delete for VMs and containers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client, err := newClient(ctx, cfg)
		if err != nil {
			return err
		}

		return mcptools.New(client, Version).Run(ctx)
	},
}
