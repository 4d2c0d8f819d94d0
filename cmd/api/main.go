package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Finanzas-api/docs"
	"github.com/jhoicas/Finanzas-api/internal/application/alert"
	"github.com/jhoicas/Finanzas-api/internal/application/balance"
	"github.com/jhoicas/Finanzas-api/internal/application/expense"
	"github.com/jhoicas/Finanzas-api/internal/application/mission"
	"github.com/jhoicas/Finanzas-api/internal/application/orphan"
	"github.com/jhoicas/Finanzas-api/internal/application/payment"
	"github.com/jhoicas/Finanzas-api/internal/application/ports"
	"github.com/jhoicas/Finanzas-api/internal/application/revenue"
	"github.com/jhoicas/Finanzas-api/internal/application/settlement"
	apptenant "github.com/jhoicas/Finanzas-api/internal/application/tenant"
	"github.com/jhoicas/Finanzas-api/internal/domain/repository"
	"github.com/jhoicas/Finanzas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Finanzas-api/internal/infrastructure/migration"
	"github.com/jhoicas/Finanzas-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Finanzas-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Finanzas-api/internal/interfaces/http"
	"github.com/jhoicas/Finanzas-api/pkg/config"
	"github.com/jhoicas/Finanzas-api/pkg/logger"
	"github.com/jhoicas/Finanzas-api/pkg/retry"
)

// ledgerStore repositorios del ledger, ya sea sobre Postgres o en memoria.
type ledgerStore struct {
	companies    repository.CompanyRepository
	profiles     repository.ProfileRepository
	providers    repository.ServiceProviderRepository
	missions     repository.MissionRepository
	expenses     repository.ExpenseRepository
	payments     repository.PaymentRepository
	revenues     repository.RevenueRepository
	alertConfigs repository.AlertConfigRepository
	metrics      repository.LedgerMetricsRepository
	tx           ports.TxRunner
	close        func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén del ledger")
	}
	defer store.close()

	activeAlerts, closeAlerts, err := openAlertStore(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer closeAlerts()

	policy := retry.Policy{
		Timeout: cfg.Ledger.Timeout,
		Retries: cfg.Ledger.Retries,
		Delay:   200 * time.Millisecond,
	}

	guard := apptenant.NewGuard(store.profiles, store.companies, store.providers, store.missions, policy)
	balanceUC := balance.New(store.providers, store.missions, store.payments, policy)
	settlementUC := settlement.New(store.providers, store.payments, store.tx, policy, log)
	paymentUC := payment.New(store.payments, settlementUC)
	orphanUC := orphan.New(store.payments, store.providers, nil, log)
	missionUC := mission.New(store.missions, store.providers)
	expenseUC := expense.New(store.expenses, guard, store.tx, log)
	revenueUC := revenue.New(store.revenues, store.missions, guard, store.tx, log)
	evaluator := alert.NewEvaluator(store.alertConfigs, store.metrics, activeAlerts, policy, log)
	alertUC := alert.NewUseCase(store.alertConfigs, activeAlerts, evaluator)

	// Evaluación periódica de alertas para todas las empresas activas.
	scheduler := alert.NewScheduler(evaluator, store.companies, cfg.Alerts.Interval, log)
	if cfg.Alerts.Interval > 0 {
		scheduler.Start(ctx)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Finanzas API",
	}))

	docs.SwaggerInfo.Title = cfg.App.Name
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(docs.SwaggerInfo.ReadDoc())
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.DB.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Guard:        guard,
		BalanceUC:    balanceUC,
		SettlementUC: settlementUC,
		PaymentUC:    paymentUC,
		OrphanUC:     orphanUC,
		MissionUC:    missionUC,
		ExpenseUC:    expenseUC,
		RevenueUC:    revenueUC,
		AlertUC:      alertUC,
		JWTSecret:    cfg.JWT.Secret,
		JWTIssuer:    cfg.JWT.Issuer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := scheduler.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del scheduler de alertas")
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStore abre el ledger según STORE_DRIVER. En Postgres aplica migraciones si MIGRATIONS_AUTO.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (*ledgerStore, error) {
	if cfg.DB.Driver == config.StoreMemory {
		log.Warn().Msg("ledger en memoria: los datos se pierden al reiniciar")
		s := memory.New()
		return &ledgerStore{
			companies:    s.Companies(),
			profiles:     s.Profiles(),
			providers:    s.Providers(),
			missions:     s.Missions(),
			expenses:     s.Expenses(),
			payments:     s.Payments(),
			revenues:     s.Revenues(),
			alertConfigs: s.AlertConfigs(),
			metrics:      s.Metrics(),
			tx:           s,
			close:        func() {},
		}, nil
	}

	if cfg.DB.MigrationsAuto {
		m, err := migration.New(cfg.DB.ConnectionString(), log)
		if err != nil {
			return nil, err
		}
		err = m.Up()
		if cerr := m.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("cerrar migrador")
		}
		if err != nil {
			return nil, err
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &ledgerStore{
		companies:    postgres.NewCompanyRepository(pool),
		profiles:     postgres.NewProfileRepository(pool),
		providers:    postgres.NewProviderRepository(pool),
		missions:     postgres.NewMissionRepository(pool),
		expenses:     postgres.NewExpenseRepository(pool),
		payments:     postgres.NewPaymentRepository(pool),
		revenues:     postgres.NewRevenueRepository(pool),
		alertConfigs: postgres.NewAlertConfigRepository(pool),
		metrics:      postgres.NewLedgerMetricsRepository(pool),
		tx:           postgres.NewTxRunner(pool),
		close:        pool.Close,
	}, nil
}

// openAlertStore Redis si está configurado; si no, alertas en memoria del proceso.
func openAlertStore(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (repository.ActiveAlertStore, func(), error) {
	if !cfg.Enabled() {
		log.Info().Msg("alertas activas en memoria")
		return memory.NewActiveAlertStore(), func() {}, nil
	}
	store, err := infraredis.NewActiveAlertStore(ctx, infraredis.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		return nil, nil, err
	}
	return store, func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar cliente Redis")
		}
	}, nil
}
