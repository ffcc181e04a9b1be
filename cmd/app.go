package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/people-console/internal"
	"github.com/frahmantamala/people-console/internal/auth"
	authPostgres "github.com/frahmantamala/people-console/internal/auth/postgres"
	"github.com/frahmantamala/people-console/internal/candidate"
	"github.com/frahmantamala/people-console/internal/core/events"
	"github.com/frahmantamala/people-console/internal/employee"
	"github.com/frahmantamala/people-console/internal/files"
	"github.com/frahmantamala/people-console/internal/notify"
	"github.com/frahmantamala/people-console/internal/permission"
	"github.com/frahmantamala/people-console/internal/scheduling"
	"github.com/frahmantamala/people-console/internal/store"
	"github.com/frahmantamala/people-console/internal/store/cached"
	storePostgres "github.com/frahmantamala/people-console/internal/store/postgres"
	"github.com/frahmantamala/people-console/internal/timestatus"
	"github.com/frahmantamala/people-console/internal/transport/rest"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// application holds the wired services shared by the server and the workers.
type application struct {
	Config     *internal.Config
	DB         *sqlx.DB
	Redis      *redis.Client
	Store      store.Store
	EventBus   *events.EventBus
	Mailer     notify.Mailer
	Auth       *auth.Service
	Permission *permission.Service
	Scheduling *scheduling.Service
	Candidate  *candidate.Service
	Employee   *employee.Service
	Logger     *slog.Logger
}

// candidateNames lets scheduling resolve candidates before the candidate
// service exists; the two services reference each other.
type candidateNames struct {
	svc *candidate.Service
}

func (c *candidateNames) CandidateName(ctx context.Context, id string) (string, error) {
	return c.svc.CandidateName(ctx, id)
}

func newApplication(ctx context.Context, cfg *internal.Config, logger *slog.Logger) (*application, error) {
	db, err := initDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open gorm session: %w", err)
	}

	app := &application{
		Config:   cfg,
		DB:       db,
		EventBus: events.NewEventBus(logger),
		Logger:   logger,
	}
	app.Store = cached.New(storePostgres.NewDocumentStore(gdb), cfg.Cache.TTL, cfg.Cache.CleanupInterval, logger)

	var sessions auth.SessionStore
	if cfg.Cache.Driver == "redis" {
		client, err := auth.NewRedisClient(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		app.Redis = client
		sessions = auth.NewRedisSessionStore(client)
	} else {
		sessions = auth.NewMemorySessionStore(cfg.Cache.CleanupInterval)
	}

	fileStore, err := files.New(ctx, cfg.Storage)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	if cfg.Mail.Provider == "sendgrid" {
		app.Mailer = notify.NewSendGridMailer(cfg.Mail, logger)
	} else {
		app.Mailer = notify.NewLogMailer(logger)
	}

	loc, err := cfg.Interview.Location()
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("invalid interview timezone: %w", err)
	}
	evaluator := timestatus.NewEvaluator(nil, loc)
	if cfg.Company.AgeReferenceDate != "" {
		evaluator = evaluator.WithAgeReference(cfg.Company.AgeReferenceDate)
	}

	// auth reads permission entries straight from the repository so that the
	// permission service can take auth as its identity store
	permissionRepo := permission.NewRepository(app.Store)
	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	app.Auth = auth.NewService(authPostgres.NewAccountRepository(gdb), sessions, permissionRepo, tokens, app.EventBus, cfg.Security.BCryptCost, logger)
	app.Permission = permission.NewService(permissionRepo, app.Auth, nil, app.EventBus, logger)

	names := &candidateNames{}
	app.Scheduling = scheduling.NewService(scheduling.NewRepository(app.Store), names, loc, logger)
	app.Candidate = candidate.NewService(candidate.Dependencies{
		Repo:        candidate.NewRepository(app.Store),
		Interviews:  app.Scheduling,
		Files:       fileStore,
		Mailer:      app.Mailer,
		Publisher:   app.EventBus,
		Evaluator:   evaluator,
		LinkBaseURL: cfg.Interview.LinkBaseURL,
		Logger:      logger,
	})
	names.svc = app.Candidate

	app.Employee = employee.NewService(employee.Dependencies{
		Repo:      employee.NewRepository(app.Store),
		Accounts:  app.Permission,
		Publisher: app.EventBus,
		Evaluator: evaluator,
		Company:   employee.Company{Name: cfg.Company.Name, TaxID: cfg.Company.TaxID},
		Logger:    logger,
	})

	subscribeAudit(app.EventBus, logger)
	return app, nil
}

// healthComponents are the dependencies the readiness probe pings.
func (a *application) healthComponents() map[string]rest.Pinger {
	components := map[string]rest.Pinger{
		"postgres": rest.PingFunc(a.DB.PingContext),
	}
	if a.Redis != nil {
		components["redis"] = rest.PingFunc(func(ctx context.Context) error {
			return a.Redis.Ping(ctx).Err()
		})
	}
	return components
}

func (a *application) Close() {
	if a.EventBus != nil {
		a.EventBus.Wait()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Error("redis close error", "error", err)
		}
	}
	if err := a.DB.Close(); err != nil {
		a.Logger.Error("database close error", "error", err)
	}
}

// subscribeAudit logs the lifecycle events worth keeping in the audit trail.
func subscribeAudit(bus *events.EventBus, logger *slog.Logger) {
	audit := func(ctx context.Context, event events.Event) error {
		logger.Info("audit",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	}
	for _, eventType := range events.Types {
		bus.Subscribe(eventType, audit)
	}
}

// initDB opens the pgx pool shared by sqlx and gorm.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	if cfg.ConnMaxLifetime > 0 {
		dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbConn.PingContext(ctx); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
