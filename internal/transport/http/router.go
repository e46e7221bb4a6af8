package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/kanzleiworks/fristen-api/internal/application/dedup"
	"github.com/kanzleiworks/fristen-api/internal/application/dispatch"
	"github.com/kanzleiworks/fristen-api/internal/application/firedate"
	"github.com/kanzleiworks/fristen-api/internal/application/substitution"
	"github.com/kanzleiworks/fristen-api/internal/application/sweep"
	"github.com/kanzleiworks/fristen-api/internal/config"
	"github.com/kanzleiworks/fristen-api/internal/pkg/clock"
	"github.com/kanzleiworks/fristen-api/internal/transport/http/handler"
	appmiddleware "github.com/kanzleiworks/fristen-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Scheduler-Token"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var schedMw func(http.Handler) http.Handler
	if cfg.SchedulerToken != "" {
		schedMw = appmiddleware.SchedulerToken(cfg.SchedulerToken)
	} else {
		schedMw = func(next http.Handler) http.Handler { return next }
	}

	// 1 request/second, burst of 3 — the trigger is a daily cron endpoint.
	triggerRL := appmiddleware.NewRateLimiter(rate.Limit(1), 3)

	factory := NewRunnerFactory(deps)
	healthH := handler.NewHealthHandler()
	sweepH := handler.NewSweepHandler(factory, clock.System(), deps.Location, reportStoreOrNil(deps), deps.EventPublisher)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(triggerRL.Limit, schedMw).Post("/sweep", sweepH.Trigger)
	})

	return r
}

// NewRunnerFactory wires the full engine against the given infrastructure.
// A fresh runner is built per clock so as-of replays pin "today" across
// every component at once.
func NewRunnerFactory(deps *Deps) handler.RunnerFactory {
	return func(clk clock.Clock) sweep.Runner {
		loc := deps.Location
		resolver := substitution.NewResolver(deps.UserRepo, clk)
		evaluator := firedate.NewEvaluator(deps.HolidayRepo, clk, loc)
		gate := dedup.NewGate(deps.NotificationRepo, clk, loc)
		reminders := dispatch.NewVorfristDispatcher(deps.NotificationRepo, deps.Mailer, deps.SettingsRepo, resolver, clk, loc)
		escalations := dispatch.NewOverdueDispatcher(deps.NotificationRepo, deps.Mailer, deps.SettingsRepo, resolver, deps.UserRepo, clk, loc)
		return sweep.NewService(sweep.Deps{
			Deadlines:     deps.DeadlineRepo,
			Substitutions: resolver,
			Evaluator:     evaluator,
			Gate:          gate,
			Reminders:     reminders,
			Escalations:   escalations,
			Settings:      deps.SettingsRepo,
			Clock:         clk,
			Location:      loc,
		})
	}
}

func reportStoreOrNil(deps *Deps) handlerReportStore {
	if deps.ReportStore == nil {
		return nil
	}
	return deps.ReportStore
}

// handlerReportStore mirrors the handler's reportStore interface so a nil
// *s3infra.ReportStore never reaches it as a non-nil interface value.
type handlerReportStore interface {
	PutSweepReport(ctx context.Context, sweepDate time.Time, report interface{}) (string, error)
}
