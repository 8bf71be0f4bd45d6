package tracing

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"contrib.go.opencensus.io/exporter/aws"
	"contrib.go.opencensus.io/exporter/jaeger"
	"contrib.go.opencensus.io/exporter/prometheus"
	"contrib.go.opencensus.io/exporter/stackdriver"
	"contrib.go.opencensus.io/exporter/zipkin"
	"contrib.go.opencensus.io/integrations/ocsql"
	datadog "github.com/DataDog/opencensus-go-exporter-datadog"
	zipkinhttp "github.com/openzipkin/zipkin-go/reporter/http"
	"go.opencensus.io/plugin/ochttp"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/trace"

	"github.com/Notifuse/emailbuilder/config"
	"github.com/Notifuse/emailbuilder/pkg/logger"
)

type exporterFunc func(cfg *config.TracingConfig, log logger.Logger) error

var traceExporters = map[string]exporterFunc{
	"jaeger":      initJaegerExporter,
	"zipkin":      initZipkinExporter,
	"stackdriver": initStackdriverTraceExporter,
	"datadog":     initDatadogTraceExporter,
	"xray":        initXRayExporter,
}

var metricsExporters = map[string]exporterFunc{
	"prometheus":  initPrometheusExporter,
	"stackdriver": initStackdriverMetricsExporter,
	"datadog":     initDatadogMetricsExporter,
}

// InitTracing configures sampling, exporters and the default views.
// It is a no-op when tracing is disabled.
func InitTracing(cfg *config.TracingConfig, log logger.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	trace.ApplyConfig(trace.Config{
		DefaultSampler: trace.ProbabilitySampler(cfg.SamplingProbability),
	})

	if err := initTraceExporter(cfg, log); err != nil {
		return err
	}
	if err := initMetricsExporters(cfg, log); err != nil {
		return err
	}

	if err := view.Register(ochttp.DefaultServerViews...); err != nil {
		return fmt.Errorf("failed to register HTTP server views: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"trace_exporter":   cfg.TraceExporter,
		"metrics_exporter": cfg.MetricsExporter,
	}).Info("OpenCensus initialized")
	return nil
}

func initTraceExporter(cfg *config.TracingConfig, log logger.Logger) error {
	name := strings.TrimSpace(cfg.TraceExporter)
	if name == "" || name == "none" {
		return nil
	}
	start, ok := traceExporters[name]
	if !ok {
		return fmt.Errorf("unsupported trace exporter: %s", name)
	}
	return start(cfg, log)
}

// initMetricsExporters accepts a comma-separated list and registers the
// editor views once at least one exporter is up
func initMetricsExporters(cfg *config.TracingConfig, log logger.Logger) error {
	if cfg.MetricsExporter == "" || cfg.MetricsExporter == "none" {
		return nil
	}

	initialized := 0
	for _, name := range strings.Split(cfg.MetricsExporter, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		start, ok := metricsExporters[name]
		if !ok {
			return fmt.Errorf("unsupported metrics exporter: %s", name)
		}
		if err := start(cfg, log); err != nil {
			return fmt.Errorf("failed to initialize %s metrics exporter: %w", name, err)
		}
		initialized++
	}
	if initialized == 0 {
		return nil
	}

	if err := view.Register(ocsql.DefaultViews...); err != nil {
		return fmt.Errorf("failed to register database views: %w", err)
	}
	if err := RegisterViews(); err != nil {
		return fmt.Errorf("failed to register editor views: %w", err)
	}
	return nil
}

func initJaegerExporter(cfg *config.TracingConfig, log logger.Logger) error {
	if cfg.JaegerEndpoint == "" {
		return errors.New("Jaeger endpoint is required for Jaeger exporter")
	}

	je, err := jaeger.NewExporter(jaeger.Options{
		CollectorEndpoint: cfg.JaegerEndpoint,
		ServiceName:       cfg.ServiceName,
		Process: jaeger.Process{
			ServiceName: cfg.ServiceName,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create Jaeger exporter: %w", err)
	}

	trace.RegisterExporter(je)
	log.WithField("endpoint", cfg.JaegerEndpoint).Info("Jaeger exporter initialized")
	return nil
}

func initZipkinExporter(cfg *config.TracingConfig, log logger.Logger) error {
	if cfg.ZipkinEndpoint == "" {
		return errors.New("Zipkin endpoint is required for Zipkin exporter")
	}

	reporter := zipkinhttp.NewReporter(cfg.ZipkinEndpoint)
	trace.RegisterExporter(zipkin.NewExporter(reporter, nil))
	log.WithField("endpoint", cfg.ZipkinEndpoint).Info("Zipkin exporter initialized")
	return nil
}

func initStackdriverTraceExporter(cfg *config.TracingConfig, log logger.Logger) error {
	if cfg.StackdriverProjectID == "" {
		return errors.New("Stackdriver project ID is required for Stackdriver exporter")
	}

	se, err := stackdriver.NewExporter(stackdriver.Options{
		ProjectID: cfg.StackdriverProjectID,
	})
	if err != nil {
		return fmt.Errorf("failed to create Stackdriver exporter: %w", err)
	}

	trace.RegisterExporter(se)
	log.WithField("project_id", cfg.StackdriverProjectID).Info("Stackdriver trace exporter initialized")
	return nil
}

// datadogOptions falls back to the generic agent endpoint
func datadogOptions(cfg *config.TracingConfig, log logger.Logger) (datadog.Options, error) {
	agentAddr := cfg.DatadogAgentAddress
	if agentAddr == "" {
		agentAddr = cfg.AgentEndpoint
	}
	if agentAddr == "" {
		return datadog.Options{}, errors.New("Datadog agent address is required for Datadog exporter")
	}

	options := datadog.Options{
		Service:   cfg.ServiceName,
		TraceAddr: agentAddr,
		StatsAddr: agentAddr,
		Tags:      []string{"env:prod"},
		OnError: func(err error) {
			log.WithField("error", err.Error()).Error("Datadog exporter error")
		},
	}
	if cfg.DatadogAPIKey != "" {
		options.GlobalTags = map[string]interface{}{
			"api_key": cfg.DatadogAPIKey,
		}
	}
	return options, nil
}

func initDatadogTraceExporter(cfg *config.TracingConfig, log logger.Logger) error {
	options, err := datadogOptions(cfg, log)
	if err != nil {
		return err
	}
	exporter, err := datadog.NewExporter(options)
	if err != nil {
		return fmt.Errorf("failed to create Datadog exporter: %w", err)
	}

	trace.RegisterExporter(exporter)
	log.WithField("agent", options.TraceAddr).Info("Datadog trace exporter initialized")
	return nil
}

func initXRayExporter(cfg *config.TracingConfig, log logger.Logger) error {
	if cfg.XRayRegion == "" {
		return errors.New("AWS region is required for X-Ray exporter")
	}

	exporter, err := aws.NewExporter(
		aws.WithRegion(cfg.XRayRegion),
		aws.WithVersion("latest"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AWS X-Ray exporter: %w", err)
	}

	trace.RegisterExporter(exporter)
	log.WithField("region", cfg.XRayRegion).Info("AWS X-Ray exporter initialized")
	return nil
}

func initPrometheusExporter(cfg *config.TracingConfig, log logger.Logger) error {
	pe, err := prometheus.NewExporter(prometheus.Options{
		Namespace: strings.ReplaceAll(cfg.ServiceName, "-", "_"),
		OnError: func(err error) {
			log.WithField("error", err.Error()).Error("Prometheus exporter error")
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	view.RegisterExporter(pe)

	if cfg.PrometheusPort <= 0 {
		return nil
	}

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", pe)

		server := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.PrometheusPort),
			Handler: mux,
		}

		log.WithField("port", cfg.PrometheusPort).Info("Starting Prometheus metrics server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithField("error", err.Error()).Error("Prometheus metrics server stopped")
		}
	}()
	return nil
}

func initStackdriverMetricsExporter(cfg *config.TracingConfig, log logger.Logger) error {
	if cfg.StackdriverProjectID == "" {
		return errors.New("Stackdriver project ID is required for Stackdriver metrics exporter")
	}

	se, err := stackdriver.NewExporter(stackdriver.Options{
		ProjectID:    cfg.StackdriverProjectID,
		MetricPrefix: cfg.ServiceName,
		OnError: func(err error) {
			log.WithField("error", err.Error()).Error("Stackdriver metrics exporter error")
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create Stackdriver metrics exporter: %w", err)
	}

	view.RegisterExporter(se)
	return nil
}

func initDatadogMetricsExporter(cfg *config.TracingConfig, log logger.Logger) error {
	options, err := datadogOptions(cfg, log)
	if err != nil {
		return err
	}
	exporter, err := datadog.NewExporter(options)
	if err != nil {
		return fmt.Errorf("failed to create Datadog metrics exporter: %w", err)
	}

	view.RegisterExporter(exporter)
	return nil
}
