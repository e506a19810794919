package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"herp-husbandry/internal/adapters/auth/iam"
	"herp-husbandry/internal/adapters/capabilities/plansfeatures"
	"herp-husbandry/internal/adapters/reminders/desktop"
	"herp-husbandry/internal/adapters/reminders/webhook"
	"herp-husbandry/internal/platform/logger"
	"herp-husbandry/internal/ports/auth"
	"herp-husbandry/internal/ports/capabilities"
	"herp-husbandry/internal/ports/reminders"
	"herp-husbandry/internal/router"
)

// @title Herp Husbandry API
// @version 1.0
// @description Programación de cuidados y estado para animales en cautiverio: alimentación, tratamientos, limpieza de recintos y brumación.
// @BasePath /
func main() {
	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	lg := logger.NewFromEnv()

	var verifier auth.AuthVerifier // nil => modo dev (X-Debug-User-ID)
	if baseURL := os.Getenv("IAM_BASE_URL"); baseURL != "" {
		client, err := iam.NewClient(iam.Config{
			BaseURL: baseURL,
			APIKey:  os.Getenv("IAM_API_KEY"),
		})
		if err != nil {
			log.Fatalf("iam client: %v", err)
		}
		verifier = iam.NewVerifier(client)
	}

	var caps capabilities.CapabilitiesResolver
	if baseURL := os.Getenv("PLANS_FEATURES_URL"); baseURL != "" {
		client, err := plansfeatures.NewClient(plansfeatures.Config{
			BaseURL: baseURL,
			APIKey:  os.Getenv("PLANS_FEATURES_API_KEY"),
		})
		if err != nil {
			log.Fatalf("plans-features client: %v", err)
		}
		caps = plansfeatures.NewResolver(client)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sched reminders.Scheduler
	switch os.Getenv("REMINDER_MODE") {
	case "desktop":
		ds := desktop.NewScheduler(lg)
		go ds.Run(ctx, time.Minute)
		sched = ds
	case "webhook":
		ws, err := webhook.NewScheduler(webhook.Config{
			BaseURL: os.Getenv("REMINDER_WEBHOOK_URL"),
			APIKey:  os.Getenv("REMINDER_WEBHOOK_API_KEY"),
		})
		if err != nil {
			log.Fatalf("webhook scheduler: %v", err)
		}
		sched = ws
	default:
		// sin modo explícito el router usa el scheduler in-memory
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Reminders:    sched,
		Capabilities: caps,
		Log:          lg,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Printf("starting server on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
