package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vhark/ProxmoxMCP/internal/config"
)

func TestPassGateDropsOverlappingRuns(t *testing.T) {
	var gate passGate

	started := make(chan struct{})
	release := make(chan struct{})
	firstRan := make(chan bool)
	go func() {
		firstRan <- gate.run(func() {
			close(started)
			<-release
		})
	}()
	<-started

	// A tick that fires mid-pass must be dropped, not queued.
	ran := gate.run(func() {
		t.Error("overlapping pass must not start while another is running")
	})
	assert.False(t, ran)

	close(release)
	assert.True(t, <-firstRan)

	// Once the pass finishes the next tick runs normally.
	assert.True(t, gate.run(func() {}))
}

func TestPassGateRunsEveryNonOverlappingTick(t *testing.T) {
	var gate passGate
	var runs atomic.Int32

	for i := 0; i < 5; i++ {
		assert.True(t, gate.run(func() { runs.Add(1) }))
	}
	assert.Equal(t, int32(5), runs.Load())
}

func watchTestConfig(host string) string {
	return fmt.Sprintf(`proxmox:
  host: %s
auth:
  user: automation@pve
  tokenName: rotation
  tokenValue: secret
`, host)
}

func awaitReload(t *testing.T, reloaded <-chan *config.Config, wantHost string) {
	t.Helper()
	select {
	case cfg := <-reloaded:
		assert.Equal(t, wantHost, cfg.Proxmox.Host)
	case <-time.After(5 * time.Second):
		t.Fatal("config reload not observed")
	}
}

func TestConfigWatchSeesInPlaceWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(watchTestConfig("pve-before")), 0o644))

	reloaded := make(chan *config.Config, 1)
	stop, err := watchConfig(path, func(c *config.Config) {
		select {
		case reloaded <- c:
		default:
		}
	})
	require.NoError(t, err)
	defer stop()

	require.NoError(t, os.WriteFile(path, []byte(watchTestConfig("pve-after")), 0o644))
	awaitReload(t, reloaded, "pve-after")
}

func TestConfigWatchSurvivesAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(watchTestConfig("pve-before")), 0o644))

	reloaded := make(chan *config.Config, 1)
	stop, err := watchConfig(path, func(c *config.Config) {
		select {
		case reloaded <- c:
		default:
		}
	})
	require.NoError(t, err)
	defer stop()

	// Write-to-temp-then-rename, the replace pattern editors and config
	// managers use. The temp file lives in the watched directory, so this
	// also exercises the name filter.
	tmp := filepath.Join(dir, "config.yaml.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(watchTestConfig("pve-after")), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	awaitReload(t, reloaded, "pve-after")
}
