package rotation

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ActionKind distinguishes the two mutations rotation can issue.
type ActionKind string

const (
	ActionCreate ActionKind = "create"
	ActionDelete ActionKind = "delete"
)

// Action records one attempted (or, in dry-run, intended) mutation.
type Action struct {
	Kind     ActionKind
	Node     string
	VMID     int
	Cadence  Cadence
	Snapshot string
	Err      string // empty on success
}

// Report accumulates the actions and errors of one fleet pass. Appends are
// mutex-guarded so the report stays correct if guests are ever processed in
// parallel.
type Report struct {
	ID        string
	StartedAt time.Time
	DryRun    bool

	mu      sync.Mutex
	actions []Action
	skipped int
	errors  int
}

// NewReport starts an empty report for a pass beginning at now.
func NewReport(now time.Time, dryRun bool) *Report {
	return &Report{
		ID:        uuid.NewString(),
		StartedAt: now,
		DryRun:    dryRun,
	}
}

// Record appends one action, counting it as an error when it failed.
func (r *Report) Record(a Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, a)
	if a.Err != "" {
		r.errors++
	}
}

// SkipGuest counts a guest whose snapshot listing failed. No plan can be made
// for it, so the skip is also an error.
func (r *Report) SkipGuest() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped++
	r.errors++
}

// Actions returns a copy of the recorded actions.
func (r *Report) Actions() []Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Action, len(r.actions))
	copy(out, r.actions)
	return out
}

// Errors is the total count of failed actions plus skipped guests.
func (r *Report) Errors() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errors
}

// Skipped is the number of guests skipped because their snapshot listing
// failed.
func (r *Report) Skipped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.skipped
}

// Created counts successful (or planned) snapshot creations.
func (r *Report) Created() int { return r.count(ActionCreate) }

// Deleted counts successful (or planned) snapshot deletions.
func (r *Report) Deleted() int { return r.count(ActionDelete) }

func (r *Report) count(kind ActionKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.actions {
		if a.Kind == kind && a.Err == "" {
			n++
		}
	}
	return n
}
