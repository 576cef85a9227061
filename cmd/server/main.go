package main

import (
	"context"
	"log"
	"net/http"

	"blackpoint-portal/internal/api"
	"blackpoint-portal/internal/config"
	"blackpoint-portal/internal/db"
	"blackpoint-portal/pkg/checklist"
	"blackpoint-portal/pkg/crm"
	"blackpoint-portal/pkg/timeclock"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	entries := timeclock.NewPgStore(pool)
	tasks := checklist.NewPgStore(pool)
	crmStore := crm.NewPgStore(pool)

	if err := entries.EnsureTable(ctx); err != nil {
		log.Fatalf("ensure time_entries table: %v", err)
	}
	if err := tasks.EnsureTables(ctx); err != nil {
		log.Fatalf("ensure task tables: %v", err)
	}
	if err := crmStore.EnsureTables(ctx); err != nil {
		log.Fatalf("ensure crm tables: %v", err)
	}
	if err := tasks.BootstrapDefaults(ctx); err != nil {
		log.Fatalf("bootstrap default tasks: %v", err)
	}

	server := api.New(cfg, entries, tasks, crmStore)

	log.Printf("employee portal listening on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, server); err != nil {
		log.Fatalf("listen: %v", err)
	}
}
