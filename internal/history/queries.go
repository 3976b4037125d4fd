package history

import (
	"fmt"
	"time"

	"github.com/vhark/ProxmoxMCP/internal/rotation"
)

// RunSummary is one recorded rotation pass.
type RunSummary struct {
	ID        string
	StartedAt time.Time
	DryRun    bool
	Created   int
	Deleted   int
	Skipped   int
	Errors    int
}

// RecordRun stores a finished pass and all its actions in one transaction.
func (s *Store) RecordRun(report *rotation.Report) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, started_at, dry_run, created, deleted, skipped, errors)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.ID, report.StartedAt.UTC().Format(time.RFC3339), report.DryRun,
		report.Created(), report.Deleted(), report.Skipped(), report.Errors(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, a := range report.Actions() {
		_, err = tx.Exec(
			`INSERT INTO run_actions (run_id, kind, node, vmid, cadence, snapshot, error)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			report.ID, string(a.Kind), a.Node, a.VMID, string(a.Cadence), a.Snapshot, a.Err,
		)
		if err != nil {
			return fmt.Errorf("failed to insert action: %w", err)
		}
	}

	return tx.Commit()
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, started_at, dry_run, created, deleted, skipped, errors
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var startedAt string
		if err := rows.Scan(&r.ID, &startedAt, &r.DryRun, &r.Created, &r.Deleted, &r.Skipped, &r.Errors); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.StartedAt, err = time.Parse(time.RFC3339, startedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse started_at for run %s: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunActions returns the recorded actions of one run in insertion order.
func (s *Store) RunActions(runID string) ([]rotation.Action, error) {
	rows, err := s.db.Query(
		`SELECT kind, node, vmid, cadence, snapshot, error
		 FROM run_actions WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query actions: %w", err)
	}
	defer rows.Close()

	var actions []rotation.Action
	for rows.Next() {
		var a rotation.Action
		var kind, cadence string
		if err := rows.Scan(&kind, &a.Node, &a.VMID, &cadence, &a.Snapshot, &a.Err); err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		a.Kind = rotation.ActionKind(kind)
		a.Cadence = rotation.Cadence(cadence)
		actions = append(actions, a)
	}
	return actions, rows.Err()
}
