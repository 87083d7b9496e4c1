package router

import (
	"database/sql"
	"net/http"
	"os"
	"strconv"

	mem "pawtrol-ai/internal/adapters/storage/memory"
	pg "pawtrol-ai/internal/adapters/storage/postgres"
	"pawtrol-ai/internal/adapters/vision/openai"
	"pawtrol-ai/internal/domain/alerts"
	"pawtrol-ai/internal/domain/animals"
	"pawtrol-ai/internal/domain/behavior"
	"pawtrol-ai/internal/domain/cameras"
	"pawtrol-ai/internal/domain/ingest"
	"pawtrol-ai/internal/domain/summary"
	"pawtrol-ai/internal/platform/logger"
	"pawtrol-ai/internal/ports/vision"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Options struct {
	// Analyzer puede ser nil: se construye un cliente OpenAI desde env.
	Analyzer vision.Analyzer

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Log logger.Logger

	// Alertas: cero => DefaultConfig.
	AlertConfig alerts.Config

	// Máximo de análisis de visión en vuelo. Cero => default (o env
	// VISION_MAX_CONCURRENT).
	MaxConcurrent int
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.NewFromEnv()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	// el frontend es un estático servido aparte
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		animalsRepo  animals.Repository
		behaviorRepo behavior.Repository
		camerasRepo  cameras.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres unavailable, falling back to memory", map[string]any{"error": err.Error()})
			}
		}
	}

	if db != nil {
		animalsRepo = pg.NewAnimalsRepo(db)
		behaviorRepo = pg.NewBehaviorRepo(db)
		camerasRepo = pg.NewCamerasRepo(db)
	} else {
		animalsRepo = mem.NewAnimalsRepo()
		behaviorRepo = mem.NewBehaviorRepo()
		camerasRepo = mem.NewCamerasRepo()
	}

	// Services por módulo
	animalsSvc := animals.NewService(animalsRepo)
	behaviorSvc := behavior.NewService(behaviorRepo)
	camerasSvc := cameras.NewService(camerasRepo)

	analyzer := opts.Analyzer
	if analyzer == nil {
		client, err := openai.NewClient(openai.ConfigFromEnv())
		if err != nil {
			log.Error("vision client init failed", map[string]any{"error": err.Error()})
			client, _ = openai.NewClient(openai.Config{})
		}
		if !client.IsConfigured() {
			log.Warn("OPENAI_API_KEY not set; ingest will fail with backend errors", nil)
		}
		analyzer = client
	}

	alertCfg := opts.AlertConfig
	if alertCfg.Window <= 0 {
		alertCfg = alerts.DefaultConfig()
	}

	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 {
		if v, err := strconv.Atoi(os.Getenv("VISION_MAX_CONCURRENT")); err == nil && v > 0 {
			maxConcurrent = v
		}
	}

	engine := alerts.NewEngine(behaviorSvc, animalsSvc, alertCfg)
	aggregator := summary.NewAggregator(behaviorSvc, analyzer, log)
	ingestSvc := ingest.NewService(analyzer, behaviorSvc, animalsSvc, camerasSvc, maxConcurrent, log)

	// Rutas por módulo
	animals.RegisterRoutes(r, animalsSvc)
	behavior.RegisterRoutes(r, behaviorSvc)
	cameras.RegisterRoutes(r, camerasSvc)
	alerts.RegisterRoutes(r, engine)
	summary.RegisterRoutes(r, aggregator)
	ingest.RegisterRoutes(r, ingestSvc)

	return r
}
