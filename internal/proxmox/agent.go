package proxmox

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// ExecResult is the outcome of a guest agent command.
type ExecResult struct {
	ExitCode int
	Output   string
	ErrData  string
}

// Success reports whether the command exited cleanly.
func (r ExecResult) Success() bool { return r.ExitCode == 0 }

// agentPollInterval is the delay between exec-status polls.
var agentPollInterval = 500 * time.Millisecond

// ExecCommand runs a shell command inside a VM through the QEMU guest agent
// and waits for it to finish. The VM must be running with the agent installed.
// Polling stops when the context is cancelled.
func (c *Client) ExecCommand(ctx context.Context, node string, vmid int, command string) (*ExecResult, error) {
	ref := GuestRef{Node: node, VMID: vmid, Type: GuestVM}

	form := url.Values{}
	for _, arg := range []string{"/bin/sh", "-c", command} {
		form.Add("command", arg)
	}

	var started struct {
		PID int `json:"pid"`
	}
	if err := c.postForm(ctx, ref.apiPath()+"/agent/exec", form, &started); err != nil {
		return nil, fmt.Errorf("agent exec on %s: %w", ref, err)
	}

	statusPath := ref.apiPath() + "/agent/exec-status"
	query := url.Values{"pid": {fmt.Sprint(started.PID)}}
	for {
		var status struct {
			Exited   IntBool `json:"exited"`
			ExitCode int     `json:"exitcode"`
			OutData  string  `json:"out-data"`
			ErrData  string  `json:"err-data"`
		}
		if err := c.get(ctx, statusPath, query, &status); err != nil {
			return nil, fmt.Errorf("agent exec-status on %s: %w", ref, err)
		}
		if status.Exited.Bool() {
			return &ExecResult{
				ExitCode: status.ExitCode,
				Output:   status.OutData,
				ErrData:  status.ErrData,
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(agentPollInterval):
		}
	}
}
