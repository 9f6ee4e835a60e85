// Package pipeline runs the session-rename flow triggered by a SessionStart
// event: eligibility check, branch lookup, enumeration of existing session
// names, allocation of the next free name, and the rename itself.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/joescharf/ccname/internal/debuglog"
	"github.com/joescharf/ccname/internal/git"
	"github.com/joescharf/ccname/internal/hookevent"
	"github.com/joescharf/ccname/internal/models"
	"github.com/joescharf/ccname/internal/namer"
	"github.com/joescharf/ccname/internal/store"
)

// Outcome classifies how an invocation ended.
type Outcome string

const (
	// OutcomeRenamed means the session received a new display name.
	OutcomeRenamed Outcome = "Renamed"
	// OutcomeNotEligible means the event did not qualify: not a fresh
	// startup, no usable cwd, or the branch is the configured skip branch.
	OutcomeNotEligible Outcome = "NotEligible"
	// OutcomeBranchUnavailable means the branch could not be determined
	// (not a repo, detached HEAD, or the git query timed out). Silent skip.
	OutcomeBranchUnavailable Outcome = "BranchUnavailable"
	// OutcomeStoreUnavailable means the session store query or rename
	// failed. The user sees a soft warning; startup proceeds.
	OutcomeStoreUnavailable Outcome = "StoreUnavailable"
)

// Config holds the pipeline's two tunables.
type Config struct {
	// SkipBranch is never used for renaming. Compared case-sensitively.
	SkipBranch string
	// GitTimeout bounds the branch query so a slow repo cannot stall the
	// host's startup sequence.
	GitTimeout time.Duration
}

// Result reports what a single invocation did.
type Result struct {
	Outcome Outcome
	Name    string // allocated name, when one was computed
	Notice  string // user-visible message, empty when the skip is silent
}

// Pipeline wires the branch reader, session store, and diagnostics sink.
type Pipeline struct {
	git   git.Client
	store store.Store
	log   *debuglog.Logger
	cfg   Config
}

// New creates a Pipeline. A nil log gets a nop sink.
func New(gc git.Client, st store.Store, log *debuglog.Logger, cfg Config) *Pipeline {
	if log == nil {
		log = debuglog.Nop()
	}
	if cfg.GitTimeout <= 0 {
		cfg.GitTimeout = 5 * time.Second
	}
	return &Pipeline{git: gc, store: st, log: log, cfg: cfg}
}

// Run executes the rename flow for one SessionStart event. It never returns
// an error: every failure mode degrades to a Result, since renaming must not
// be able to break session startup.
func (p *Pipeline) Run(ctx context.Context, ev hookevent.Event) Result {
	p.log.Stage("trigger", "received",
		slog.String("session", ev.SessionID),
		slog.String("cwd", ev.CWD),
		slog.String("source", ev.Source))

	// Resumed (or cleared, compacted, ...) sessions keep whatever name the
	// user chose; only a fresh startup qualifies.
	if ev.TriggerSource() != models.TriggerStartup {
		p.log.Stage("trigger", string(OutcomeNotEligible), slog.String("source", ev.Source))
		return Result{Outcome: OutcomeNotEligible}
	}
	if ev.CWD == "" {
		p.log.Stage("trigger", string(OutcomeNotEligible), slog.String("reason", "no cwd"))
		return Result{Outcome: OutcomeNotEligible}
	}

	branchCtx, cancel := context.WithTimeout(ctx, p.cfg.GitTimeout)
	defer cancel()
	branch, err := p.git.CurrentBranch(branchCtx, ev.CWD)
	if err != nil {
		// Common in non-repo directories; skip without bothering the user.
		p.log.Stage("branch", string(OutcomeBranchUnavailable), slog.String("error", err.Error()))
		return Result{Outcome: OutcomeBranchUnavailable}
	}
	branch = namer.Sanitize(branch)
	p.log.Stage("branch", "ok", slog.String("branch", branch))

	if branch == p.cfg.SkipBranch {
		p.log.Stage("trigger", string(OutcomeNotEligible), slog.String("reason", "skip branch"))
		return Result{Outcome: OutcomeNotEligible}
	}

	sessions, err := p.store.ListSessions(ctx, ev.CWD)
	if err != nil {
		p.log.Stage("sessions", string(OutcomeStoreUnavailable), slog.String("error", err.Error()))
		return Result{
			Outcome: OutcomeStoreUnavailable,
			Notice:  "Failed to rename session: session store unavailable",
		}
	}
	names := make([]string, 0, len(sessions))
	for _, s := range sessions {
		names = append(names, s.DisplayName())
	}
	p.log.Stage("sessions", "ok", slog.Int("count", len(names)))

	name := namer.Next(branch, names)
	p.log.Stage("allocate", "ok", slog.String("name", name))

	if err := p.store.RenameSession(ctx, ev.CWD, ev.SessionID, name); err != nil {
		p.log.Stage("rename", string(OutcomeStoreUnavailable), slog.String("error", err.Error()))
		return Result{
			Outcome: OutcomeStoreUnavailable,
			Name:    name,
			Notice:  "Failed to rename session to: " + name,
		}
	}

	p.log.Stage("rename", string(OutcomeRenamed), slog.String("name", name))
	return Result{
		Outcome: OutcomeRenamed,
		Name:    name,
		Notice:  "Session: " + name,
	}
}

// Output converts a Result into the hook response sent back to the host.
func (r Result) Output() hookevent.Output {
	return hookevent.Output{
		Continue:      true,
		SystemMessage: r.Notice,
	}
}
