package mcptools

// Tool descriptions surfaced to MCP clients.
const (
	getNodesDesc = `List all nodes in the Proxmox cluster with their status, CPU, memory, and uptime.

Example:
{"node": "pve1", "status": "online", "cpu_usage": 0.15, "memory": {"used": 8589934592, "total": 34359738368}}`

	getNodeStatusDesc = `Get detailed status information for a specific Proxmox node.

Example:
{"cpu_usage": 0.15, "memory": {"used": 8589934592, "total": 34359738368}}`

	getVMsDesc = `List all virtual machines across the cluster with their status and resource usage.

Example:
{"vmid": 100, "name": "ubuntu", "status": "running", "cpus": 2, "memory": {"used": 2147483648, "total": 4294967296}}`

	getContainersDesc = `List all LXC containers across the cluster with their status and resource usage.

Example:
{"vmid": 200, "name": "nginx", "status": "running", "node": "pve1"}`

	getStorageDesc = `List storage pools across the cluster with their usage.

Example:
{"storage": "local-lvm", "type": "lvm", "used": 536870912000, "total": 1099511627776}`

	getClusterStatusDesc = `Get overall Proxmox cluster health and configuration status.

Example:
{"name": "proxmox", "quorate": true, "nodes": 3, "online_nodes": 3}`

	executeVMCommandDesc = `Execute a command in a VM via the QEMU guest agent.

The VM must be running and have the guest agent installed.

Example:
{"success": true, "output": "Linux vm1 5.4.0", "exit_code": 0}`

	vmSnapshotListDesc = `List snapshots for a VM.

Example:
{"name": "auto-hourly-20260114-0549", "created": "2026-01-14T05:49:00Z"}`

	vmSnapshotCreateDesc = `Create a snapshot for a VM.

Optionally includes the VM memory state and a description.

Example:
{"success": true, "snapshot": "pre-change-nginx-upgrade"}`

	vmSnapshotRollbackDesc = `Rollback a VM to a snapshot.

Example:
{"success": true, "snapshot": "pre-change-nginx-upgrade"}`

	vmSnapshotDeleteDesc = `Delete a VM snapshot.

Example:
{"success": true, "snapshot": "pre-change-nginx-upgrade"}`

	lxcSnapshotListDesc = `List snapshots for an LXC container.

Example:
{"name": "auto-hourly-20260114-0549", "created": "2026-01-14T05:49:00Z"}`

	lxcSnapshotCreateDesc = `Create a snapshot for an LXC container.

Example:
{"success": true, "snapshot": "auto-hourly-20260114-0549"}`

	lxcSnapshotRollbackDesc = `Rollback an LXC container to a snapshot.

Example:
{"success": true, "snapshot": "auto-hourly-20260114-0549"}`

	lxcSnapshotDeleteDesc = `Delete an LXC snapshot.

Example:
{"success": true, "snapshot": "auto-hourly-20260114-0549"}`
)
