package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/duit-aim/vcz-estimator/pkg/api/auth"
	apimiddleware "github.com/duit-aim/vcz-estimator/pkg/api/middleware"
	"github.com/duit-aim/vcz-estimator/pkg/common/config"
	"github.com/duit-aim/vcz-estimator/pkg/common/database"
	"github.com/duit-aim/vcz-estimator/pkg/common/kafka"
	"github.com/duit-aim/vcz-estimator/pkg/common/logger"
	"github.com/duit-aim/vcz-estimator/pkg/estimation"
	"github.com/duit-aim/vcz-estimator/pkg/estimation/bounds"
	"github.com/duit-aim/vcz-estimator/pkg/estimation/model"
	"github.com/duit-aim/vcz-estimator/pkg/observability/metrics"
	"github.com/gorilla/mux"
)

func main() {
	logger.Init()
	metrics.Init()
	cfg := config.Load()

	// Both artifacts load at startup; there is no degraded mode.
	registry, err := model.NewRegistry(cfg.ClearanceArtifactPath, cfg.CalibratorArtifactPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load model artifacts")
	}
	logger.Log.WithField("version", registry.Version()).Info("Model artifacts loaded")

	rules, err := bounds.LoadRules(cfg.BoundsRulesPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load covariate bounds")
	}

	service := estimation.NewService(registry.Clearance(), registry.Calibrator())
	handler := estimation.NewHandler(service, bounds.NewValidator(rules), registry)
	handler.WithMaxRequestBody(cfg.MaxRequestBody)

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to connect to database")
	}
	repo := estimation.NewRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to migrate estimation log")
	}
	handler.WithRepository(repo)

	redisClient := database.GetRedis()
	handler.WithCache(estimation.NewResultCache(redisClient, cfg.ResultCacheTTL))

	producer := kafka.NewProducer(cfg.AuditTopic)
	defer producer.Close()
	handler.WithProducer(producer)

	router := mux.NewRouter()
	router.Use(apimiddleware.Logging)
	router.Use(apimiddleware.Recovery)

	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	if cfg.OIDCIssuer != "" {
		oidcAuth, err := auth.NewOIDCAuthenticator(cfg.OIDCIssuer, cfg.OIDCClientID, cfg.OIDCClientSecret)
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to configure OIDC")
		}
		api.Use(apimiddleware.Authenticate(oidcAuth))
	}
	handler.Register(api)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Estimator Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Estimator Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	if err := database.ClosePostgres(); err != nil {
		logger.Log.WithError(err).Error("Failed to close database")
	}
	if err := database.CloseRedis(); err != nil {
		logger.Log.WithError(err).Error("Failed to close Redis")
	}

	logger.Log.Info("Estimator Service stopped")
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
