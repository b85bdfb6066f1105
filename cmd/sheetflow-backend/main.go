package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/sheetflow/sheetflow-backend/pkg/config"
	"github.com/sheetflow/sheetflow-backend/pkg/database"
	"github.com/sheetflow/sheetflow-backend/pkg/requestlogger"
	"github.com/sheetflow/sheetflow-backend/pkg/service/core"
	"github.com/sheetflow/sheetflow-backend/pkg/service/core/handlers"
	"github.com/sheetflow/sheetflow-backend/pkg/service/core/routes"
	"github.com/sheetflow/sheetflow-backend/pkg/service/core/storage"
	"github.com/sheetflow/sheetflow-backend/pkg/service/core/transport"
)

var configFilePath = flag.String("config", "config.yaml", "path to config file")

const shutdownTimeout = 5 * time.Second

func main() {
	flag.Parse()

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	fileParts, err := config.ProcessConfigPath(*configFilePath)
	if err != nil {
		log.Fatal().Err(err).Msg("processing config path")
	}

	cfg, err := config.NewFileSystemLoader().Load(fileParts.FileName, fileParts.Path, "SHEETFLOW", config.NewDefaultEnvBinder())
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}

	err = cfg.Validate()
	if err != nil {
		log.Fatal().Err(err).Msg("validating config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("parsing log level")
	}
	log = log.Level(level)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	repo, err := database.New(ctx, cfg.SQLite.DatabasePath, log.With().Str("subsystem", "repo").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("setting up database")
	}
	defer repo.Close()

	stores, err := storage.NewStores(repo, cfg.Uploads.Directory)
	if err != nil {
		log.Fatal().Err(err).Msg("setting up stores")
	}

	services := core.NewServices(stores, cfg.Query.MaxScriptStatements, log)

	h := handlers.NewHandlers(services)

	router := chi.NewRouter()
	router.Use(requestlogger.Middleware(log.With().Str("subsystem", "http").Logger(), "/internal/metrics"))

	routes.Add(router,
		routes.NewUserRoutes(routes.NewUserEndpoints(log, h)),
		routes.NewWorkflowRoutes(routes.NewWorkflowEndpoints(log, h)),
		routes.NewQueryRoutes(routes.NewQueryEndpoints(log, h)),
		routes.NewUploadRoutes(routes.NewUploadEndpoints(log, h)),
		routes.NewAnalysisRoutes(routes.NewAnalysisEndpoints(log, h)),
		routes.NewMetricsRoutes(routes.NewMetricsEndpoints(prom())),
	)

	if cfg.Debug {
		err = routes.Print(router, os.Stdout)
		if err != nil {
			log.Fatal().Err(err).Msg("printing routes")
		}
	}

	server := http.Server{
		Addr:    cfg.Server.ListenAddress(),
		Handler: router,
	}

	log.Info().Msgf("Listening on %s", server.Addr)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("running server")
		}
	}()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Shutdown error")
	}
}

func prom() *prometheus.Registry {
	r := prometheus.NewRegistry()
	r.MustRegister(transport.Errors)
	r.MustRegister(collectors.NewGoCollector())
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return r
}
