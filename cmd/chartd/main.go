package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/signalsfoundry/astrochart/chart"
	"github.com/signalsfoundry/astrochart/internal/httpapi"
	"github.com/signalsfoundry/astrochart/internal/logging"
	"github.com/signalsfoundry/astrochart/internal/observability"
	"github.com/signalsfoundry/astrochart/timectrl"
)

func main() {
	// A missing .env is fine; the environment always wins anyway.
	_ = godotenv.Load()

	addr := flag.String("addr", ":8080", "TCP address the chart API listens on")
	metricsAddr := flag.String("metrics-addr", ":9090", "HTTP address for Prometheus /metrics")
	refresh := flag.Duration("refresh", time.Minute, "current-sky refresh interval")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	collector, err := observability.NewChartCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.Err(err))
		os.Exit(1)
	}

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.Err(err))
		os.Exit(1)
	}

	metricsSrv := serveMetrics(*metricsAddr, collector, log)

	charts := chart.NewService(log, collector)
	api := httpapi.New(log, collector, charts)

	apiSrv := &http.Server{
		Addr:    *addr,
		Handler: api.Routes(),
	}
	go func() {
		log.Info(ctx, "starting chart API", logging.String("addr", *addr))
		if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "chart API exited", logging.Err(err))
		}
	}()

	refresher := timectrl.NewRefresher(*refresh)
	refresher.AddListener(func(at time.Time) {
		c, err := charts.Build(ctx, chart.Request{Time: at})
		if err != nil {
			log.Warn(ctx, "current-sky refresh failed", logging.Err(err))
			return
		}
		collector.SetCurrentSky(len(c.Aspects), len(c.Patterns))
	})
	refresherDone := refresher.Start(0)

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	<-stopCtx.Done()

	log.Info(ctx, "shutting down chartd")
	refresher.Stop()
	<-refresherDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = apiSrv.Shutdown(shutdownCtx)
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)
}

func serveMetrics(addr string, collector *observability.ChartCollector, log logging.Logger) *http.Server {
	if collector == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.Err(err))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}
