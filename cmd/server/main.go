package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kmercer/jobs-api/internal/apiversion"
	"github.com/kmercer/jobs-api/internal/cfg"
	"github.com/kmercer/jobs-api/internal/health"
	"github.com/kmercer/jobs-api/internal/httpserver"
	"github.com/kmercer/jobs-api/internal/jobshttp"
	"github.com/kmercer/jobs-api/internal/log"
	"github.com/kmercer/jobs-api/internal/metrics"
	"github.com/kmercer/jobs-api/internal/opshttp"
	"github.com/kmercer/jobs-api/internal/otelx"
	"github.com/kmercer/jobs-api/internal/prof"
	v "github.com/kmercer/jobs-api/internal/version"
)

const appName = "jobs-api"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// local development convenience, missing file is fine
	_ = godotenv.Load()

	vi := v.Get()

	var conf cfg.App
	var showVersion bool

	// Parse config from flags and env
	cfg.Register(flag.CommandLine, &conf)
	flag.BoolVar(&showVersion, "V", false, "Print version+build information and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf(
			"%s %s (commit=%s, build_date=%s, go=%s, dirty=%v)\n",
			appName, vi.Version, vi.Commit, vi.BuildDate, vi.GoVersion,
			vi.VCSDirty != nil && *vi.VCSDirty,
		)
		os.Exit(0)
	}

	// Fill in config from environment variables with prefix JOBSAPI_ and validate
	cfg.FillFromEnv(flag.CommandLine, "JOBSAPI_", func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	})

	if err := cfg.Validate(conf); err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	// Setup logging
	lvl, err := log.ParseLevel(conf.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %s: %v\n", conf.LogLevel, err)
		os.Exit(1)
	}
	stackLvl, err := log.ParseLevel(conf.StacktraceLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid stacktrace level %s: %v\n", conf.StacktraceLevel, err)
		os.Exit(1)
	}
	lg, err := log.New(log.Options{
		App:             appName,
		Level:           lvl,
		StacktraceLevel: stackLvl,
		JsonFormat:      conf.LogJSON,
		InstallGlobal:   true,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init error:", err)
		os.Exit(1)
	}
	defer lg.Sync()
	L := lg.With("component", "server")
	ctx = log.WithContext(ctx, L)

	L.Info(ctx, "initializing application",
		"version", vi.Version,
		"commit", vi.Commit,
		"build_date", vi.BuildDate,
		"go_version", vi.GoVersion,
		"vcs_dirty", vi.VCSDirty,
		"http_port", conf.HTTPPort,
		"admin_port", conf.AdminPort,
		"enable_pprof", conf.EnablePprof,
		"enable_pyroscope", conf.EnablePyroscope,
		"enable_tracing", conf.EnableTracing,
		"trace_exporter", conf.TraceExporter,
		"otlp_endpoint", conf.OTLPEndpoint,
		"trace_sample", conf.TraceSample,
		"versions_file", conf.VersionsFile,
		"slow_request_threshold", conf.SlowRequestThreshold,
	)

	// Load API version config. A deprecated version without a usable
	// replacement is a deploy mistake, refuse to start.
	versions, err := apiversion.Load(conf.VersionsFile)
	if err != nil {
		L.Error(ctx, err, "invalid api version configuration", "versions_file", conf.VersionsFile)
		os.Exit(1)
	}
	supported, err := versions.SupportedSet()
	if err != nil {
		L.Error(ctx, err, "invalid supported versions", "versions_file", conf.VersionsFile)
		os.Exit(1)
	}
	L.Info(ctx, "api versions loaded",
		"supported", supported.List(),
		"deprecated", len(versions.Deprecated),
	)

	// Setup pyroscope profiling
	stopProf, err := prof.Start(ctx, prof.Options{
		Enabled:       conf.EnablePyroscope,
		AppName:       appName,
		ServerAddress: conf.PyroServer,
		TenantID:      conf.PyroTenantID,
		Tags: map[string]string{
			"app":       appName,
			"component": "server",
			"version":   vi.Version,
			"commit":    vi.Commit,
			"source":    "go-agent",
		},
	})
	if err != nil {
		L.Error(ctx, err, "pyroscope start failed", "pyro_server", conf.PyroServer)
	}
	defer func() { stopProf() }()

	// Setup otel for tracing
	shutdownOTEL, err := otelx.Init(ctx, otelx.Options{
		Enabled:  conf.EnableTracing,
		Exporter: conf.TraceExporter,
		Endpoint: conf.OTLPEndpoint,
		Insecure: conf.OTLPInsecure,
		Sample:   conf.TraceSample,
		Service:  appName,
		Version:  vi.Version,
	})
	if err != nil {
		L.Error(ctx, err, "otel init failed")
	}
	defer func() { _ = shutdownOTEL(context.Background()) }()

	// Setup metrics
	m := metrics.New()
	m.SetBuildInfoFromVersion(appName, vi)

	// Job store + API
	store := jobshttp.NewStore()
	jobsAPI := jobshttp.NewAPI(store, L)

	// setup toggle for server shutdown
	var gate health.ShutdownGate
	readiness := health.All(gate.Probe())

	healthAPI := health.NewAPI(health.Fixed(true, ""), readiness)

	// start public http server
	appHTTPStop, err := httpserver.Start(ctx, &httpserver.Options{
		Logger:               L,
		Port:                 conf.HTTPPort,
		UseRecoverMW:         true,
		OnPanic:              m.IncHttpPanic,
		MetricsMW:            m.Middleware,
		Supported:            supported,
		Deprecated:           versions.Registry(),
		VersionMetrics:       m,
		Routes:               []httpserver.RouteRegistrar{jobsAPI, healthAPI},
		SlowRequestThreshold: conf.SlowRequestThreshold,
		MaxBodyBytes:         conf.MaxBodyBytes,
	})
	if err != nil {
		L.Error(ctx, err, "failed to start http listener")
		os.Exit(1)
	}
	defer func() { _ = appHTTPStop(context.Background()) }()

	// start admin/ops listener for metrics, health checks, pprof
	opsHTTPStop, err := opshttp.Start(ctx, L, opshttp.Options{
		Port:        conf.AdminPort,
		Metrics:     m.Handler(),
		EnablePprof: conf.EnablePprof,
		Health:      health.Fixed(true, ""),
		Readiness:   readiness,
	})
	if err != nil {
		L.Error(ctx, err, "failed to start ops http listener")
		os.Exit(1)
	}
	defer func() { _ = opsHTTPStop(context.Background()) }()

	// notify systemd that we started successfully if started under systemd
	if err := notifySystemd(); err != nil {
		L.Warn(ctx, "failed to notify systemd of readiness", "error", err)
	}

	// wait for ctrl+c / sigterm
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	L.Info(context.Background(), "shutdown signal received")

	// fail readiness to drain connections before stopping listeners
	gate.Set("draining")
	L.Info(context.Background(), "shutdown gate closed, draining")

	forceCh := make(chan os.Signal, 1)
	signal.Notify(forceCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-time.After(10 * time.Second):
		L.Info(context.Background(), "drain period complete")
	case <-forceCh:
		L.Warn(context.Background(), "second signal received, skipping drain")
	}
	signal.Stop(forceCh)

	if err := appHTTPStop(shutdownCtx); err != nil {
		L.Error(context.Background(), err, "http server shutdown")
	}
	if err := opsHTTPStop(shutdownCtx); err != nil {
		L.Error(context.Background(), err, "ops http server shutdown")
	}
	if err := shutdownOTEL(shutdownCtx); err != nil {
		L.Error(context.Background(), err, "otel shutdown")
	}
	stopProf()

	L.Info(context.Background(), "shutdown complete")
}

func notifySystemd() error {
	// systemd will set NOTIFY_SOCKET to a unix socket path if we were started under systemd with type=notify
	addr := os.Getenv("NOTIFY_SOCKET")
	if addr == "" {
		return fmt.Errorf("NOTIFY_SOCKET not set, skipping systemd notify")
	}
	conn, err := net.Dial("unixgram", addr)
	if err != nil {
		return fmt.Errorf("systemd notify failed: dial failed: %w", err)
	}
	conn.Write([]byte("READY=1"))
	if err := conn.Close(); err != nil {
		return fmt.Errorf("systemd notify failed: close failed: %w", err)
	}
	return nil
}
