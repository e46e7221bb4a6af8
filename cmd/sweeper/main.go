package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kanzleiworks/fristen-api/internal/config"
	"github.com/kanzleiworks/fristen-api/internal/infrastructure/dynamo"
	s3infra "github.com/kanzleiworks/fristen-api/internal/infrastructure/s3"
	"github.com/kanzleiworks/fristen-api/internal/infrastructure/smtp"
	snsinfra "github.com/kanzleiworks/fristen-api/internal/infrastructure/sns"
	"github.com/kanzleiworks/fristen-api/internal/pkg/clock"
	transporthttp "github.com/kanzleiworks/fristen-api/internal/transport/http"
)

func main() {
	once := flag.Bool("once", false, "run a single sweep and exit (cron mode)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	loc, err := time.LoadLocation(cfg.AppTimezone)
	if err != nil {
		log.Fatalf("invalid APP_TIMEZONE %q: %v", cfg.AppTimezone, err)
	}

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	userRepo := dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users)

	// Sweep report archive (optional — graceful fallback).
	var reportStore *s3infra.ReportStore
	if cfg.SweepReportBucket != "" {
		reportStore = s3infra.NewReportStore(s3infra.NewClient(cfg), cfg.SweepReportBucket)
	} else {
		log.Println("WARN: SWEEP_REPORT_BUCKET not set, sweep reports will not be archived")
	}

	// Sweep event publisher (optional — graceful fallback).
	var eventPublisher snsinfra.EventPublisher
	if p, err := snsinfra.NewPublisher(cfg); err == nil {
		eventPublisher = p
	} else {
		log.Printf("WARN: SNS publisher not available: %v", err)
	}

	deps := &transporthttp.Deps{
		DeadlineRepo:     dynamo.NewDeadlineRepo(dynamoClient, cfg.DynamoTables.Deadlines, userRepo),
		UserRepo:         userRepo,
		NotificationRepo: dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications),
		HolidayRepo:      dynamo.NewHolidayRepo(dynamoClient, cfg.DynamoTables.Holidays),
		SettingsRepo:     dynamo.NewSettingsRepo(dynamoClient, cfg.DynamoTables.Settings),
		Mailer:           smtp.NewMailer(cfg),
		ReportStore:      reportStore,
		EventPublisher:   eventPublisher,
		Location:         loc,
	}

	if *once {
		runOnce(deps)
		return
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 10 * time.Minute, // a sweep over a large book of deadlines takes a while
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Sweeper listening on :%s (env=%s tz=%s)", cfg.AppPort, cfg.AppEnv, cfg.AppTimezone)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down sweeper...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Sweeper stopped")
}

// runOnce executes a single sweep for cron-style deployments. There is no
// in-sweep checkpoint: if the process is killed, tomorrow's catch-up logic
// re-delivers what was missed.
func runOnce(deps *transporthttp.Deps) {
	runner := transporthttp.NewRunnerFactory(deps)(clock.System())
	result, err := runner.Run(context.Background())
	if err != nil {
		log.Fatalf("sweep failed: %v", err)
	}
	out, _ := json.Marshal(result)
	fmt.Println(string(out))
}
