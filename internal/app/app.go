package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	healthcheck "github.com/Chinenye997/IMS/internal/health"
	"github.com/Chinenye997/IMS/internal/httpapi"
	"github.com/Chinenye997/IMS/internal/service/cart"
	"github.com/Chinenye997/IMS/internal/service/catalog"
	"github.com/Chinenye997/IMS/internal/service/orderquery"
	"github.com/Chinenye997/IMS/internal/service/sales"
	"github.com/Chinenye997/IMS/internal/version"
)

// Run собирает приложение по конфигурации и обслуживает HTTP API
// до отмены контекста.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	// Kafka опционален: без брокеров продажи просто не публикуются.
	kafkaProducer, _ := initKafkaProducer(cfg.KafkaBrokers, logger)
	defer closeKafka(kafkaProducer, logger)

	var coordinator sales.Coordinator
	if kafkaProducer != nil {
		coordinator = sales.NewCoordinatorWithPublisher(
			deps.Products, deps.Ledger, deps.Sales, kafkaProducer, logger.WithField("layer", "sales"))
	} else {
		coordinator = sales.NewCoordinator(
			deps.Products, deps.Ledger, deps.Sales, logger.WithField("layer", "sales"))
	}

	catalogSvc := catalog.NewService(deps.Products, deps.Orders, logger.WithField("layer", "catalog"))
	cartSvc := cart.NewService(deps.Carts, deps.Products, coordinator, logger.WithField("layer", "cart"))
	querySvc := orderquery.NewService(deps.Orders, deps.Products, deps.Requesters, logger.WithField("layer", "orderquery"))

	handler := httpapi.NewHandler(catalogSvc, coordinator, cartSvc, querySvc, logger.WithField("layer", "http"))
	router := httpapi.NewRouter(handler)

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	deps.RegisterHealthChecks(healthHandler)

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	apiSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP API слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
