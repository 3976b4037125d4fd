package mcptools

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vhark/ProxmoxMCP/internal/proxmox"
)

// connect stands up the tool server against a fake Proxmox API and returns a
// connected in-memory MCP client session.
func connect(t *testing.T, handler http.Handler) *mcp.ClientSession {
	t.Helper()

	ts := httptest.NewTLSServer(handler)
	t.Cleanup(ts.Close)
	u, err := url.Parse(ts.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	client := proxmox.NewClient(proxmox.Options{
		Host:       u.Hostname(),
		Port:       port,
		User:       "automation@pve",
		TokenName:  "mcp",
		TokenValue: "secret",
		VerifyTLS:  false,
	})

	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	srv := New(client, "test").MCPServer()
	_, err = srv.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	mcpClient := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0"}, nil)
	session, err := mcpClient.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })

	return session
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "first content item should be text")
	return text.Text
}

func TestServerRegistersAllTools(t *testing.T) {
	session := connect(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[]}`)
	}))

	listed, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, tool := range listed.Tools {
		names[tool.Name] = true
	}

	want := []string{
		"get_nodes", "get_node_status", "get_storage", "get_cluster_status",
		"get_vms", "execute_vm_command",
		"vm_snapshot_list", "vm_snapshot_create", "vm_snapshot_rollback", "vm_snapshot_delete",
		"get_containers",
		"lxc_snapshot_list", "lxc_snapshot_create", "lxc_snapshot_rollback", "lxc_snapshot_delete",
	}
	for _, name := range want {
		assert.True(t, names[name], "tool %s should be registered", name)
	}
	assert.Len(t, listed.Tools, len(want))
}

func TestVMSnapshotCreateTool(t *testing.T) {
	var gotPath string
	var gotForm url.Values
	session := connect(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotPath = r.URL.Path
		gotForm = r.PostForm
		fmt.Fprint(w, `{"data":"UPID:pve1:0001"}`)
	}))

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "vm_snapshot_create",
		Arguments: map[string]any{
			"node":           "pve1",
			"vmid":           100,
			"name":           "pre-upgrade",
			"include_memory": true,
		},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	assert.Equal(t, "/api2/json/nodes/pve1/qemu/100/snapshot", gotPath)
	assert.Equal(t, "pre-upgrade", gotForm.Get("snapname"))
	assert.Equal(t, "1", gotForm.Get("vmstate"))
	assert.Contains(t, resultText(t, res), "Snapshot created: pre-upgrade")
}

func TestLXCSnapshotDeleteHitsContainerPath(t *testing.T) {
	var gotMethod, gotPath string
	session := connect(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"data":null}`)
	}))

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "lxc_snapshot_delete",
		Arguments: map[string]any{
			"node": "pve2",
			"vmid": 200,
			"name": "stale",
		},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api2/json/nodes/pve2/lxc/200/snapshot/stale", gotPath)
}

func TestVMSnapshotListTool(t *testing.T) {
	session := connect(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api2/json/nodes/pve1/qemu/100/snapshot", r.URL.Path)
		fmt.Fprint(w, `{"data":[
			{"name":"auto-daily-20260113","snaptime":1768262400,"description":"nightly"},
			{"name":"current","description":"You are here!"}
		]}`)
	}))

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "vm_snapshot_list",
		Arguments: map[string]any{"node": "pve1", "vmid": 100},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	text := resultText(t, res)
	assert.Contains(t, text, "auto-daily-20260113")
	assert.Contains(t, text, "current (created: unknown)")
}

func TestGetClusterStatusTool(t *testing.T) {
	session := connect(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[
			{"type":"cluster","name":"homelab","quorate":1,"nodes":2},
			{"type":"node","name":"pve1","online":1},
			{"type":"node","name":"pve2","online":1}
		]}`)
	}))

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "get_cluster_status",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	text := resultText(t, res)
	assert.Contains(t, text, "Cluster homelab")
	assert.Contains(t, text, "quorum ok")
	assert.Contains(t, text, "2/2 nodes online")
}

func TestToolErrorsAreReportedNotFatal(t *testing.T) {
	session := connect(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `storage unavailable`)
	}))

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "vm_snapshot_list",
		Arguments: map[string]any{"node": "pve1", "vmid": 100},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "storage unavailable")
}
