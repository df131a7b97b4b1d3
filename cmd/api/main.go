package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbersaas/internal/audit"
	"github.com/BruksfildServices01/barbersaas/internal/automation"
	"github.com/BruksfildServices01/barbersaas/internal/config"
	dbpkg "github.com/BruksfildServices01/barbersaas/internal/db"
	"github.com/BruksfildServices01/barbersaas/internal/infra/objectstore"
	"github.com/BruksfildServices01/barbersaas/internal/infra/repository"
	"github.com/BruksfildServices01/barbersaas/internal/media"
	"github.com/BruksfildServices01/barbersaas/internal/notify"
	"github.com/BruksfildServices01/barbersaas/internal/routes"
	"github.com/BruksfildServices01/barbersaas/internal/snapshot"
	"github.com/BruksfildServices01/barbersaas/internal/timezone"
)

func main() {

	cfg := config.Load()
	loc := timezone.Location(cfg.Timezone)

	// ======================================================
	// PERSISTÊNCIA
	// ======================================================
	backend, err := newBackend(cfg)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}

	store := repository.NewSnapshotStore(backend)
	if err := store.Load(context.Background()); err != nil {
		log.Fatalf("failed to load snapshot: %v", err)
	}
	log.Printf("[store] loaded from %s", store.BackendName())

	// ======================================================
	// AUDITORIA
	// ======================================================
	var auditSink audit.Sink = audit.StdLogger{}
	var auditLogs *audit.Logger
	if cfg.DBUrl != "" {
		db, err := dbpkg.NewAuditDB(cfg.DBUrl)
		if err != nil {
			log.Printf("[audit] database unavailable, logging to stdout: %v", err)
		} else {
			auditLogs = audit.New(db)
			auditSink = auditLogs
		}
	}
	dispatcher := audit.NewDispatcher(auditSink)

	// ======================================================
	// AUTOMAÇÃO
	// ======================================================
	sender := notify.New(cfg.WhatsApp)
	scheduler := automation.NewScheduler(store, sender, automation.Options{
		Location:    loc,
		CountryCode: cfg.DefaultCountry,
		Interval:    cfg.AutomationInterval,
		SendTimeout: cfg.SendTimeout,
	})
	outbox := automation.NewOutbox(scheduler, 100)

	if err := scheduler.Start(); err != nil {
		log.Fatalf("failed to start automation: %v", err)
	}

	// ======================================================
	// HTTP
	// ======================================================
	deps := routes.Dependencies{
		Config:    cfg,
		Store:     store,
		Scheduler: scheduler,
		Outbox:    outbox,
		Audit:     dispatcher,
		AuditLogs: auditLogs,
		Location:  loc,
	}
	if cfg.S3.Enabled() {
		deps.Objects = media.NewS3Uploader(objectstore.NewClient(cfg.S3), cfg.S3)
	}

	r := gin.Default()
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// ======================================================
	// SHUTDOWN
	// ======================================================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("http shutdown: %v", err)
	}

	scheduler.Stop()
	outbox.Close()
	dispatcher.Close()

	if err := store.Close(); err != nil {
		log.Printf("[store] close: %v", err)
	}
}

// newBackend escolhe o backend primário e espelha no S3 quando configurado.
func newBackend(cfg *config.Config) (snapshot.Backend, error) {
	var primary snapshot.Backend

	switch cfg.StoreBackend {
	case config.BackendBolt:
		b, err := snapshot.NewBoltBackend(cfg.BoltPath)
		if err != nil {
			return nil, err
		}
		primary = b
	case config.BackendRedis:
		if cfg.RedisURL == "" {
			return nil, errors.New("STORE_BACKEND=redis requires REDIS_URL")
		}
		b, err := snapshot.NewRedisBackend(cfg.RedisURL, "")
		if err != nil {
			return nil, err
		}
		primary = snapshot.WithTimeout(b, cfg.RemoteTimeout)
	case config.BackendFile:
		primary = snapshot.NewFileBackend(cfg.DBPath)
	default:
		return nil, errors.New("unknown STORE_BACKEND " + cfg.StoreBackend)
	}

	if !cfg.S3.Enabled() {
		return primary, nil
	}

	mirror := snapshot.NewS3Backend(objectstore.NewClient(cfg.S3), cfg.S3.Bucket, "")
	return snapshot.NewMirrored(primary, snapshot.WithTimeout(mirror, cfg.RemoteTimeout)), nil
}
