// Package pages holds the four page controllers of the mini-app. Each one is
// a small finite-state UI driven by backend responses:
//
//	loading -> {action-ready | already-processed | error}
//	action-ready -> submitting -> {success | error -> action-ready}
//
// The return from a failed submit to action-ready is the only backward
// transition; terminal states are never re-entered within a page session.
package pages

import (
	"log/slog"

	"liffapp/internal/appconfig"
	"liffapp/internal/httpclient"
	"liffapp/internal/liff"
	"liffapp/internal/schedule"
	"liffapp/internal/ui"
)

type State string

const (
	StateLoading          State = "loading"
	StateActionReady      State = "action-ready"
	StateAlreadyProcessed State = "already-processed"
	StateSubmitting       State = "submitting"
	StateSuccess          State = "success"
	StateError            State = "error"
)

// Env bundles the collaborators every controller needs. It is assembled once
// at bootstrap; controllers never reach for ambient globals.
type Env struct {
	Config   appconfig.RuntimeConfig
	Warnings []string
	API      *httpclient.Client
	Session  *liff.Session
	Sched    schedule.Scheduler
	Logger   *slog.Logger
}

func (e Env) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

func (e Env) scheduler() schedule.Scheduler {
	if e.Sched != nil {
		return e.Sched
	}
	return schedule.Wall{}
}

// Confirmer asks the approver to confirm an action before it fires. Reject
// confirmations may collect a free-text reason.
type Confirmer interface {
	Confirm(action string) (confirmed bool, reason string)
}

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

func warningNotice(warnings []string) (ui.Notice, bool) {
	if len(warnings) == 0 {
		return ui.Notice{}, false
	}
	message := warnings[0]
	for _, w := range warnings[1:] {
		message += " | " + w
	}
	return ui.Notice{Type: ui.LevelWarning, Title: "การกำหนดค่า", Message: message}, true
}
