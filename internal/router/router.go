package router

import (
	"database/sql"
	"net/http"
	"os"

	memrem "herp-husbandry/internal/adapters/reminders/memory"
	mem "herp-husbandry/internal/adapters/storage/memory"
	pg "herp-husbandry/internal/adapters/storage/postgres"
	"herp-husbandry/internal/domain/animals"
	"herp-husbandry/internal/domain/brumation"
	"herp-husbandry/internal/domain/enclosures"
	"herp-husbandry/internal/domain/feeding"
	"herp-husbandry/internal/domain/treatments"
	"herp-husbandry/internal/middleware"
	"herp-husbandry/internal/platform/logger"
	"herp-husbandry/internal/ports/auth"
	"herp-husbandry/internal/ports/capabilities"
	"herp-husbandry/internal/ports/reminders"

	_ "herp-husbandry/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: adapter de recordatorios. Si es nil se usa el in-memory
	// (los recordatorios no salen del proceso, útil en dev y tests).
	Reminders reminders.Scheduler

	// Opcional: resolución de features del plan del usuario. Con nil no se
	// aplica ningún gate de tier (todo permitido, modo dev).
	Capabilities capabilities.CapabilitiesResolver

	Log logger.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	log := opts.Log
	if log == nil {
		log = logger.NewFromEnv()
	}

	sched := opts.Reminders
	if sched == nil {
		sched = memrem.NewScheduler()
	}

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	var (
		animalRepo    animals.Repository
		feedingRepo   feeding.Repository
		treatmentRepo treatments.Repository
		enclosureRepo enclosures.Repository
		brumationRepo brumation.Repository
	)

	if db != nil {
		animalRepo = pg.NewAnimalsRepo(db)
		feedingRepo = pg.NewFeedingRepo(db)
		treatmentRepo = pg.NewTreatmentsRepo(db)
		enclosureRepo = pg.NewEnclosuresRepo(db)
		brumationRepo = pg.NewBrumationRepo(db)
	} else {
		animalRepo = mem.NewAnimalsRepo()
		feedingRepo = mem.NewFeedingRepo()
		treatmentRepo = mem.NewTreatmentsRepo()
		enclosureRepo = mem.NewEnclosuresRepo()
		brumationRepo = mem.NewBrumationRepo()
	}

	// Services por módulo
	animalsSvc := animals.NewService(animalRepo)
	feedingSvc := feeding.NewService(feedingRepo)
	treatmentsSvc := treatments.NewService(treatmentRepo, sched, log)
	enclosuresSvc := enclosures.NewService(enclosureRepo, sched, log)
	brumationSvc := brumation.NewService(brumationRepo, sched, log)

	// Rutas por módulo
	animals.RegisterRoutes(r, animalsSvc)
	feeding.RegisterRoutes(r, feedingSvc, animalsSvc, opts.Capabilities)
	treatments.RegisterRoutes(r, treatmentsSvc, animalsSvc)
	enclosures.RegisterRoutes(r, enclosuresSvc)
	brumation.RegisterRoutes(r, brumationSvc, animalsSvc, opts.Capabilities)

	return r
}
