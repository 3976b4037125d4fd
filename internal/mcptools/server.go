// Package mcptools exposes Proxmox operations as MCP tools.
//
// Every tool is a direct, single-action pass-through to the Proxmox API:
// cluster/node/storage listings, VM and container inventories, guest-agent
// command execution, and snapshot list/create/rollback/delete for both VMs
// and LXC containers. The snapshot rotation engine does not go through this
// surface.
package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/vhark/ProxmoxMCP/internal/proxmox"
)

const serverName = "proxmox-mcp"

// Server wires the Proxmox client to an MCP server.
type Server struct {
	client  *proxmox.Client
	version string
	log     *logrus.Entry
}

// New creates a tool server backed by the given Proxmox client.
func New(client *proxmox.Client, version string) *Server {
	return &Server{
		client:  client,
		version: version,
		log:     logrus.WithField("component", "mcp"),
	}
}

// MCPServer builds the MCP server with every tool registered.
func (s *Server) MCPServer() *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: s.version}, nil)
	s.registerClusterTools(srv)
	s.registerVMTools(srv)
	s.registerContainerTools(srv)
	return srv
}

// Run serves MCP over stdio until the context is cancelled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.log.WithField("version", s.version).Info("serving MCP over stdio")
	return s.MCPServer().Run(ctx, &mcp.StdioTransport{})
}
