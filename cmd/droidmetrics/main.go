package main

import (
	"context"
	"net/http"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/promslog"
	"github.com/prometheus/common/promslog/flag"
	"github.com/prometheus/exporter-toolkit/web"
	webflag "github.com/prometheus/exporter-toolkit/web/kingpinflag"

	"github.com/bluecape/droidmetrics/internal/adb"
	"github.com/bluecape/droidmetrics/internal/api"
	"github.com/bluecape/droidmetrics/internal/cache"
	"github.com/bluecape/droidmetrics/internal/config"
	"github.com/bluecape/droidmetrics/internal/metrics"
	"github.com/bluecape/droidmetrics/internal/telemetry"
)

func main() {
	kp := kingpin.New("droidmetrics", "HTTP exporter for Android device metrics over adb")

	var (
		webConfig   = webflag.AddFlags(kp, ":9137")
		metricsPath = kp.Flag("web.telemetry-path", "Path under which to expose Prometheus metrics.").Default("/metrics").String()
	)

	promslogConfig := &promslog.Config{}
	flag.AddFlags(kp, promslogConfig)
	kp.HelpFlag.Short('h')
	kp.UsageWriter(os.Stdout)
	kingpin.MustParse(kp.Parse(os.Args[1:]))

	logger := promslog.New(promslogConfig)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	bridge := adb.NewClient(cfg.ADB.Binary, cfg.ADB.Serial, cfg.ADB.CommandTimeout, cfg.ADB.MaxOutputBytes, logger)
	store := cache.New()
	service := metrics.NewService(bridge, store, logger)

	if cfg.Snapshot.Enabled {
		snapshotCollector := metrics.NewSnapshotCollector(service, logger, cfg.Snapshot.RefreshInterval, cfg.Snapshot.Timeout)
		prometheus.MustRegister(snapshotCollector)
	}

	server := api.NewServer(service, logger, cfg.Stream.Interval)
	router := server.Router()
	router.GET(*metricsPath, gin.WrapH(promhttp.Handler()))

	if publisher := telemetry.NewPublisher(cfg.Telemetry, service, logger); publisher != nil {
		go func() {
			if err := publisher.Run(context.Background()); err != nil {
				logger.Error("Telemetry publisher stopped", "error", err)
			}
		}()
	}

	srv := &http.Server{Handler: router}
	if err := web.ListenAndServe(srv, webConfig, logger); err != nil {
		logger.Error("Error starting HTTP server", "error", err)
		os.Exit(1)
	}
}
