package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/multierr"

	"github.com/2beens/mapty/internal/config"
	"github.com/2beens/mapty/internal/db"
	"github.com/2beens/mapty/internal/geolocation"
	"github.com/2beens/mapty/internal/geomap"
	"github.com/2beens/mapty/internal/middleware"
	"github.com/2beens/mapty/internal/store"
	"github.com/2beens/mapty/internal/telemetry/metrics"
	"github.com/2beens/mapty/internal/telemetry/tracing"
	"github.com/2beens/mapty/internal/tracker"
	"github.com/2beens/mapty/internal/workout"
	"github.com/2beens/mapty/pkg"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	redisOK     bool

	app     *tracker.App
	alerts  *tracker.AlertQueue
	locator *geolocation.Locator

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	IpInfoAPIKey            string
	VersionInfo             string
	RedisPassword           string
	PostgresPassword        string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	redisOK := true
	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
		redisOK = false
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	var (
		dbPool          *pgxpool.Pool
		extraCollectors []prometheus.Collector
	)
	if cfg.StoreBackend == "postgres" {
		var err error
		dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBPassword:     params.PostgresPassword,
			TracingEnabled: params.HoneycombTracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}
		extraCollectors = append(extraCollectors, pgxpoolprometheus.NewCollector(
			dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
	}

	promRegistry := metrics.SetupPrometheus(cfg.StoreBackend, extraCollectors...)
	metricsManager := metrics.NewManager("backend", "mapty", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "mapty-backend", rdb)
	if err != nil {
		return nil, err
	}

	workoutsStore, err := store.New(ctx, store.NewStoreParams{
		Backend:     cfg.StoreBackend,
		Key:         cfg.StoreKey,
		RedisClient: rdb,
		DBPool:      dbPool,
		DiskRoot:    cfg.DiskStoreRoot,
	})
	if err != nil {
		return nil, fmt.Errorf("new workouts store: %w", err)
	}
	log.Infof("using [%s] workouts store", cfg.StoreBackend)

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   10 * time.Second,
	}

	var devPosition *workout.Coords
	if cfg.DevLatitude != 0 || cfg.DevLongitude != 0 {
		devPosition = &workout.Coords{Lat: cfg.DevLatitude, Lng: cfg.DevLongitude}
	}

	alerts := tracker.NewAlertQueue()
	app := tracker.NewApp(tracker.NewAppParams{
		Map: geomap.NewLeaflet(geomap.TileLayer{
			URLTemplate: cfg.MapTileURL,
			Subdomains:  cfg.MapTileSubdomains,
			MaxZoom:     cfg.MapMaxZoom,
		}),
		Form:             tracker.NewFormState(),
		List:             tracker.NewListView(),
		Notifier:         alerts,
		Store:            workoutsStore,
		Metrics:          metricsManager,
		ZoomLevel:        cfg.MapZoomLevel,
		FormRestoreDelay: cfg.FormRestoreDelay(),
	})
	app.Start(ctx)

	return &Server{
		config:      cfg,
		dbPool:      dbPool,
		redisClient: rdb,
		redisOK:     redisOK,
		versionInfo: params.VersionInfo,

		app:     app,
		alerts:  alerts,
		locator: geolocation.NewLocator(tracedHttpClient, params.IpInfoAPIKey, devPosition),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("mapty-router"))

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
	}).Methods("GET").Name("health")

	r.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET").Name("version")

	trackerHandler := tracker.NewHandler(s.app, s.alerts, s.locator)
	trackerHandler.SetupRoutes(r)

	var resetHandler http.Handler = http.HandlerFunc(trackerHandler.HandleReset)
	if s.redisOK {
		resetHandler = middleware.RateLimit(
			redis_rate.NewLimiter(s.redisClient),
			"reset",
			s.config.ResetRateLimitAllowedPerMin,
			s.metricsManager,
		)(resetHandler)
	} else {
		log.Warnln("redis not available, reset is not rate limited")
	}
	r.Handle("/reset", resetHandler).Methods("POST", "OPTIONS").Name("reset")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(middleware.LimitAndDrainRequest(s.config.MaxRequestBodyBytes))

	return r
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	var err error
	if s.httpServer != nil {
		err = multierr.Append(err, s.httpServer.Shutdown(ctx))
	}
	if s.metricsHttpServer != nil {
		err = multierr.Append(err, s.metricsHttpServer.Shutdown(ctx))
	}
	if s.redisClient != nil {
		err = multierr.Append(err, s.redisClient.Close())
	}
	if err != nil {
		log.Errorf(" >>> failed to gracefully shutdown: %s", err)
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	log.Warnln("server shut down")
}
