// Command liffapp drives the mini-app pages from a terminal against a
// running backend (see cmd/stubserver). Each run boots one page the way the
// hosted mini-app would, with the runtime config resolved from query
// parameters, environment overrides and built-in defaults.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"

	"liffapp/internal/appconfig"
	"liffapp/internal/httpclient"
	"liffapp/internal/liff"
	"liffapp/internal/pages"
	"liffapp/internal/schedule"
	"liffapp/internal/ui/console"
	"liffapp/internal/validate"
)

func main() {
	_ = godotenv.Load()

	page := flag.String("page", "register", "page to boot: register, forget-time, approve-register, approve-forget")
	rawQuery := flag.String("query", "", "page query string, e.g. token=...&debug=1")

	name := flag.String("name", "", "registration: full name")
	idCard := flag.String("idcard", "", "registration: 13-digit national id")
	companyID := flag.Int("company", 0, "registration: company id")
	startDate := flag.String("start", "", "registration: start date (YYYY-MM-DD)")

	timestampType := flag.String("type", "", "forget-time: timestamp type")
	date := flag.String("date", "", "forget-time: date (YYYY-MM-DD)")
	clock := flag.String("time", "", "forget-time: time (HH:MM)")
	reason := flag.String("reason", "", "forget-time: reason")
	evidencePath := flag.String("evidence", "", "forget-time: evidence file path")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	query, err := url.ParseQuery(*rawQuery)
	if err != nil {
		logger.Error("bad query string", "err", err)
		os.Exit(1)
	}

	feature := "register"
	if *page == "forget-time" || *page == "approve-forget" {
		feature = "forgetTime"
	}
	override := &appconfig.Override{
		LiffID:     os.Getenv("LIFFAPP_LIFF_ID"),
		APIBaseURL: os.Getenv("LIFFAPP_API_BASE_URL"),
	}
	hostname := os.Getenv("LIFFAPP_HOSTNAME")
	if hostname == "" {
		hostname = "localhost"
	}
	cfg, warnings := appconfig.Resolve(query, override, appconfig.DefaultsFor(feature, hostname))

	term := console.New(os.Stdout)
	env := pages.Env{
		Config:   cfg,
		Warnings: warnings,
		API:      httpclient.New(),
		Session:  liff.NewSession(devClient{profile: demoProfile()}, console.NewOverlay(term), logger),
		Sched:    schedule.Wall{},
		Logger:   logger,
	}
	ctx := context.Background()

	switch *page {
	case "register":
		view := console.NewRegisterView(term)
		controller := pages.NewRegister(env, view)
		controller.Boot(ctx, "https://liff.example.com/register")
		if *name != "" {
			controller.Submit(ctx, validate.Registration{
				Name:      *name,
				IDCard:    *idCard,
				CompanyID: *companyID,
				StartDate: *startDate,
			})
		}

	case "forget-time":
		view := console.NewForgetTimeView(term)
		controller := pages.NewForgetTime(env, view)
		controller.Boot(ctx, "https://liff.example.com/forget-time")
		if *timestampType != "" {
			form := pages.ForgetTimeForm{
				TimestampType: *timestampType,
				Date:          *date,
				Time:          *clock,
				Reason:        *reason,
			}
			if *evidencePath != "" {
				data, err := os.ReadFile(*evidencePath)
				if err != nil {
					logger.Error("read evidence failed", "err", err)
					os.Exit(1)
				}
				form.Evidence = &pages.Evidence{Filename: *evidencePath, Data: data}
			}
			controller.Submit(ctx, form)
		}

	case "approve-forget":
		done := make(chan struct{}, 1)
		view := console.NewApproveForgetView(term, func() { done <- struct{}{} })
		confirm := console.NewPromptConfirmer(os.Stdin, os.Stdout)
		controller := pages.NewApproveForget(env, view, confirm)
		controller.Boot(ctx, query)
		runApproval(ctx, done, controller.State, controller.Approve, controller.Reject)

	case "approve-register":
		done := make(chan struct{}, 1)
		view := console.NewApproveRegisterView(term, func() { done <- struct{}{} })
		confirm := console.NewPromptConfirmer(os.Stdin, os.Stdout)
		controller := pages.NewApproveRegister(env, view, confirm)
		controller.Boot(ctx, query)
		runApproval(ctx, done, controller.State, controller.Approve, controller.Reject)

	default:
		logger.Error("unknown page", "page", *page)
		os.Exit(1)
	}
}

func demoProfile() liff.Profile {
	name := os.Getenv("LIFFAPP_DISPLAY_NAME")
	if name == "" {
		name = "Dev User"
	}
	return liff.Profile{UserID: "Udev00000000000000000000000000000", DisplayName: name}
}

// runApproval reads one approve/reject command when the page is actionable,
// then blocks until the page closes its window (or a safety timeout).
func runApproval(ctx context.Context, done chan struct{}, state func() pages.State, approve, reject func(context.Context)) {
	for state() == pages.StateActionReady {
		fmt.Print("action [approve/reject/quit]: ")
		var command string
		if _, err := fmt.Scanln(&command); err != nil {
			return
		}
		switch command {
		case "approve":
			approve(ctx)
		case "reject":
			reject(ctx)
		case "quit":
			return
		}
	}

	select {
	case <-done:
	case <-time.After(10 * time.Second):
	}
}
