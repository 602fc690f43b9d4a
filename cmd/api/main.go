package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"citycarbon.org/internal/authz"
	"citycarbon.org/internal/httpapi"
	"citycarbon.org/internal/obs"
	"citycarbon.org/internal/store/pg"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	dsn := os.Getenv("CITYCARBON_PG_DSN")
	if dsn == "" {
		log.Fatal("missing CITYCARBON_PG_DSN")
	}
	if os.Getenv("CITYCARBON_AUTH_SECRET") == "" {
		log.Fatal("missing CITYCARBON_AUTH_SECRET")
	}

	store, err := pg.Open(dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer store.Close()

	guard, err := authz.NewGuard(store, store)
	if err != nil {
		log.Fatalf("init guard: %v", err)
	}

	api := httpapi.New(guard, store, httpapi.ReadyProbe{DB: store.DB()}, version)

	srv := &http.Server{
		Addr:              ":8080",
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting citycarbon-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	log.Println("Stopped")
}
