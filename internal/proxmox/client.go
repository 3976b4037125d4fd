// Package proxmox is a minimal client for the Proxmox VE HTTP API.
//
// It covers the operations proxmox-mcp needs: cluster inventory, node and
// storage listings, guest snapshot management for both QEMU VMs and LXC
// containers, and command execution through the QEMU guest agent. Every call
// takes a context and returns the API error with request context attached.
package proxmox

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Options configures a Client.
type Options struct {
	Host       string
	Port       int
	User       string // e.g. "automation@pve"
	TokenName  string
	TokenValue string
	VerifyTLS  bool
	Timeout    time.Duration // per-request timeout, default 30s
}

// Client talks to a single Proxmox VE cluster endpoint.
// It is safe for concurrent use.
type Client struct {
	baseURL string
	auth    string
	http    *http.Client
}

// NewClient builds a client for https://host:port/api2/json using API token
// authentication.
func NewClient(opts Options) *Client {
	port := opts.Port
	if port == 0 {
		port = 8006
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !opts.VerifyTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		baseURL: fmt.Sprintf("https://%s:%d/api2/json", opts.Host, port),
		auth:    fmt.Sprintf("PVEAPIToken=%s!%s=%s", opts.User, opts.TokenName, opts.TokenValue),
		http: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

// Version checks connectivity by querying the API version endpoint.
func (c *Client) Version(ctx context.Context) (string, error) {
	var out struct {
		Version string `json:"version"`
		Release string `json:"release"`
	}
	if err := c.get(ctx, "/version", nil, &out); err != nil {
		return "", err
	}
	return out.Version, nil
}

// do issues a request and decodes the {"data": ...} envelope into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, form url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", c.auth)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: reading response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("%s %s: %s", method, path, msg)
	}

	if out == nil {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("%s %s: decoding envelope: %w", method, path, err)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%s %s: decoding data: %w", method, path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, form, out)
}

func (c *Client) deletePath(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
