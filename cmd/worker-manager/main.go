// cmd/worker-manager/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"leasing-wizard/internal/common/aws"
	"leasing-wizard/internal/common/camunda"
	"leasing-wizard/internal/common/config"
	"leasing-wizard/internal/common/database"
	"leasing-wizard/internal/common/logger"
	"leasing-wizard/internal/common/observability"
	"leasing-wizard/internal/leasing/form"
	"leasing-wizard/internal/leasing/store"

	clr "leasing-wizard/internal/workers/leasing/create-lease-record"
	ila "leasing-wizard/internal/workers/leasing/index-lease-application"
	slc "leasing-wizard/internal/workers/leasing/send-lease-confirmation"
	vla "leasing-wizard/internal/workers/leasing/validate-lease-application"
)

const serviceName = "leasing-worker-manager"

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func fatal(log logger.Logger, msg string, err error) {
	log.WithError(err).Error(msg, nil)
	os.Exit(1)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	if err := config.ValidateForWorkers(cfg); err != nil {
		fatal(log, "invalid worker configuration", err)
	}

	log.Info("Starting worker manager...", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	obs, err := observability.New(serviceName)
	if err != nil {
		log.Warn("otel metrics disabled", map[string]interface{}{"error": err.Error()})
	}
	shutdownTracing, err := observability.InitTracing(serviceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
	if err != nil {
		fatal(log, "tracing init failed", err)
	}

	ctx := context.Background()

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientFromConfig(cfg.Camunda)
		return err
	}, 10, 2*time.Second, log, "Zeebe client initialization")
	if err != nil {
		fatal(log, "zeebe client failed after retries", err)
	}
	log.Info("Zeebe client connected", map[string]interface{}{"broker": cfg.Camunda.BrokerAddress})

	// --- Application database ---
	var db *database.SQLClient
	err = retryWithBackoff(func() error {
		var err error
		db, err = database.Open(cfg.Database)
		if err != nil {
			return err
		}
		return db.Ping(ctx)
	}, 15, 2*time.Second, log, "Database connection")
	if err != nil {
		fatal(log, "database failed after retries", err)
	}
	defer db.Close()

	applications := store.New(db)
	if err := applications.Migrate(ctx); err != nil {
		fatal(log, "schema migration failed", err)
	}
	log.Info("Database ready", map[string]interface{}{"driver": cfg.Database.Driver})

	// --- Elasticsearch ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, log, "Elasticsearch connection")
	if err != nil {
		fatal(log, "elasticsearch failed after retries", err)
	}
	log.Info("Elasticsearch connected", map[string]interface{}{"url": cfg.Database.Elasticsearch.GetURL()})

	// --- Notifications ---
	var mailer slc.Mailer
	if cfg.AWS.SES.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.AWS.Region)
		if err != nil {
			fatal(log, "ses client failed", err)
		}
		mailer = sesClient
	}
	var sms slc.SMSSender
	if cfg.AWS.SNS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.AWS.Region)
		if err != nil {
			fatal(log, "sns client failed", err)
		}
		sms = snsClient
	}

	// --- Workers ---
	zbc := zeebe.GetClient()
	var workers []*camunda.CamundaWorker

	if config.IsWorkerEnabled(cfg, vla.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, vla.TaskType)
		handler := vla.NewHandler(vla.LoadConfig(wcfg), form.New(), log)
		workers = append(workers, camunda.StartWorker(zbc, vla.TaskType, wcfg, handler.Handle, obs, log))
	}

	if config.IsWorkerEnabled(cfg, clr.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, clr.TaskType)
		handler := clr.NewHandler(clr.LoadConfig(wcfg), applications, log)
		workers = append(workers, camunda.StartWorker(zbc, clr.TaskType, wcfg, handler.Handle, obs, log))
	}

	if config.IsWorkerEnabled(cfg, slc.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, slc.TaskType)
		handler := slc.NewHandler(slc.LoadConfig(cfg.AWS, wcfg), mailer, sms, log)
		workers = append(workers, camunda.StartWorker(zbc, slc.TaskType, wcfg, handler.Handle, obs, log))
	}

	if config.IsWorkerEnabled(cfg, ila.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, ila.TaskType)
		handler := ila.NewHandler(ila.LoadConfig(cfg.Database.Elasticsearch, wcfg), esClient, log)
		workers = append(workers, camunda.StartWorker(zbc, ila.TaskType, wcfg, handler.Handle, obs, log))
	}

	log.Info("Workers registered", map[string]interface{}{"count": len(workers)})

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(checkCtx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		if err := zeebe.HealthCheck(checkCtx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "broker unavailable")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: ":8080", Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("Health/Metrics server listening", map[string]interface{}{"addr": server.Addr})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Health/Metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutdown signal received, stopping workers...", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Error stopping health server", map[string]interface{}{"error": err.Error()})
	}
	if err := zeebe.Close(); err != nil {
		log.Error("Error closing Zeebe client", map[string]interface{}{"error": err.Error()})
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Error flushing traces", map[string]interface{}{"error": err.Error()})
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		log.Error("Error stopping meter provider", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Worker manager stopped", nil)
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
}
