package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/duit-aim/vcz-estimator/pkg/audit"
	"github.com/duit-aim/vcz-estimator/pkg/common/config"
	"github.com/duit-aim/vcz-estimator/pkg/common/database"
	"github.com/duit-aim/vcz-estimator/pkg/common/kafka"
	"github.com/duit-aim/vcz-estimator/pkg/common/logger"
	"github.com/gorilla/mux"
)

func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to connect to database")
	}

	repo := audit.NewRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to migrate audit tables")
	}

	sink := audit.NewSink(repo)

	consumer := kafka.NewConsumer(cfg.AuditTopic, "audit-sink")
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		logger.Log.WithField("topic", cfg.AuditTopic).Info("Audit sink started")
		if err := consumer.Consume(ctx, sink.HandleEvent); err != nil && err != context.Canceled {
			logger.Log.WithError(err).Fatal("Consumer error")
		}
	}()

	// Read-only API over the stored events.
	router := mux.NewRouter()
	router.HandleFunc("/health", healthCheck).Methods("GET")
	audit.NewHandler(repo).Register(router.PathPrefix("/api/v1").Subrouter())

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.ServerHost, "8081"),
		Handler: router,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": "8081",
		}).Info("Audit sink API started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down audit sink...")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	if err := database.ClosePostgres(); err != nil {
		logger.Log.WithError(err).Error("Failed to close database")
	}

	logger.Log.Info("Audit sink stopped")
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
