package app

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vhark/ProxmoxMCP/internal/config"
	"github.com/vhark/ProxmoxMCP/internal/history"
	"github.com/vhark/ProxmoxMCP/internal/proxmox"
	"github.com/vhark/ProxmoxMCP/internal/rotation"
)

var (
	rotateDryRun bool
	rotateCron   string
)

var rotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Create and prune scheduled snapshots across the cluster",
	Long: `rotate runs one snapshot rotation pass over every eligible guest:
it creates a snapshot for each cadence due at the current instant and prunes
automated snapshots older than their cadence's retention cutoff.

The command exits 0 when the pass completes, even if individual guests or
actions failed; those are logged and counted in the run report. A non-zero
exit only signals a failure to load configuration, reach the Proxmox API, or
list the guest inventory.

With --cron the process stays resident and runs a pass on the given schedule,
reloading the configuration file when it changes on disk.`,
	RunE: runRotate,
}

func init() {
	rotateCmd.Flags().BoolVar(&rotateDryRun, "dry-run", false,
		"report intended actions without creating or deleting snapshots")
	rotateCmd.Flags().StringVar(&rotateCron, "cron", "",
		"stay resident and rotate on this cron schedule (e.g. \"* * * * *\")")
}

func runRotate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}

	if rotateCron == "" {
		return rotatePass(ctx, cfg, client)
	}
	return rotateLoop(ctx, cfg, client)
}

// rotatePass runs a single fleet pass and records it in the history store.
func rotatePass(ctx context.Context, cfg *config.Config, client *proxmox.Client) error {
	driver, err := buildDriver(cfg, client)
	if err != nil {
		return err
	}

	report, err := driver.Run(ctx, rotateDryRun)
	if err != nil {
		return err
	}

	recordRun(cfg, report)
	return nil
}

// passGate serializes rotation passes. The engine assumes at most one pass
// runs against the fleet at a time; a tick that fires while the previous pass
// is still running must be dropped, not queued, since the next tick covers it.
type passGate struct {
	mu sync.Mutex
}

// run executes fn unless another run is in flight, reporting whether fn ran.
func (g *passGate) run(fn func()) bool {
	if !g.mu.TryLock() {
		return false
	}
	defer g.mu.Unlock()
	fn()
	return true
}

// rotateLoop runs passes on the configured cron schedule until the context is
// cancelled. Each scheduled tick fires in its own goroutine, so passes are
// gated: a pass slower than the schedule interval makes later ticks no-ops
// instead of piling up concurrent passes against the same guests. The
// configuration file is watched and reloaded between passes so retention
// changes take effect without a restart.
func rotateLoop(ctx context.Context, cfg *config.Config, client *proxmox.Client) error {
	log := logrus.WithField("component", "rotate")

	var mu sync.RWMutex
	current := cfg

	stopWatch, err := watchConfig(configPath(), func(next *config.Config) {
		mu.Lock()
		current = next
		mu.Unlock()
		log.Info("configuration reloaded")
	})
	if err != nil {
		log.WithError(err).Warn("config watch unavailable, continuing without hot reload")
	} else {
		defer stopWatch()
	}

	var gate passGate
	scheduler := cron.New()
	_, err = scheduler.AddFunc(rotateCron, func() {
		ran := gate.run(func() {
			mu.RLock()
			snapshot := current
			mu.RUnlock()

			if err := rotatePass(ctx, snapshot, client); err != nil {
				log.WithError(err).Error("rotation pass failed")
			}
		})
		if !ran {
			log.Warn("previous rotation pass still running, skipping this tick")
		}
	})
	if err != nil {
		return err
	}

	log.WithField("schedule", rotateCron).Info("rotation scheduler started")
	scheduler.Start()
	<-ctx.Done()

	stop := scheduler.Stop()
	<-stop.Done()
	return nil
}

// buildDriver translates the configuration into fleet driver options.
func buildDriver(cfg *config.Config, client *proxmox.Client) (*rotation.Driver, error) {
	weekday, err := cfg.Rotation.Weekday()
	if err != nil {
		return nil, err
	}

	r := cfg.Rotation.Retention
	return rotation.NewDriver(client, rotation.DriverOptions{
		Windows: rotation.Windows{
			rotation.Hourly:  r.HourlyWindow(),
			rotation.Daily:   r.DailyWindow(),
			rotation.Weekly:  r.WeeklyWindow(),
			rotation.Monthly: r.MonthlyWindow(),
		},
		WeeklyDay:     weekday,
		IncludeMemory: cfg.Rotation.IncludeMemory,
	}), nil
}

// recordRun appends the report to the history database when one is
// configured. Recording failures never fail the pass.
func recordRun(cfg *config.Config, report *rotation.Report) {
	if cfg.History.Path == "" {
		return
	}
	log := logrus.WithField("component", "history")

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		log.WithError(err).Warn("cannot open history database")
		return
	}
	defer store.Close()

	if err := store.RecordRun(report); err != nil {
		log.WithError(err).Warn("cannot record rotation run")
	}
}

// watchConfig reloads the configuration whenever the file at path changes.
// The watch is on the parent directory, filtered by file name: editors and
// config managers commonly replace the file by atomic rename, and a watch on
// the file itself would stay bound to the old inode and go silent. The
// returned function stops the watch.
func watchConfig(path string, apply func(*config.Config)) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}
	base := filepath.Base(path)

	log := logrus.WithField("component", "rotate")
	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != base {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				next, err := config.Load(path)
				if err != nil {
					log.WithError(err).Error("config reload failed, keeping previous config")
					continue
				}
				apply(next)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.WithError(err).Error("config watch error")
			}
		}
	}()

	return func() { watcher.Close() }, nil
}
