package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/carewatch/carewatch/internal/config"
	"github.com/carewatch/carewatch/internal/domain/agency"
	"github.com/carewatch/carewatch/internal/domain/alert"
	"github.com/carewatch/carewatch/internal/domain/catalog"
	"github.com/carewatch/carewatch/internal/domain/client"
	"github.com/carewatch/carewatch/internal/domain/identity"
	"github.com/carewatch/carewatch/internal/domain/scoring"
	"github.com/carewatch/carewatch/internal/domain/visit"
	"github.com/carewatch/carewatch/internal/platform/auth"
	"github.com/carewatch/carewatch/internal/platform/db"
	"github.com/carewatch/carewatch/internal/platform/middleware"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "carewatch-server",
		Short: "Care monitoring API server for domiciliary care agencies",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(tenantCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the care monitoring API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, _ := cmd.Flags().GetString("schema")
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.UseMemoryStore() {
				return fmt.Errorf("DATABASE_URL must be set to run migrations")
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			fmt.Printf("Running migrations on schema: %s\n", schema)

			count, err := migrator.Up(ctx, schema)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("schema", "tenant_default", "Target schema for migrations")
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, _ := cmd.Flags().GetString("schema")
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.UseMemoryStore() {
				return fmt.Errorf("DATABASE_URL must be set to inspect migrations")
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx, schema)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("Migration status for schema: %s\n", schema)
			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("schema", "tenant_default", "Target schema for migrations")
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func tenantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Manage hosting tenants",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new tenant schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.UseMemoryStore() {
				return fmt.Errorf("DATABASE_URL must be set to create tenants")
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			fmt.Printf("Creating tenant schema: tenant_%s\n", name)
			if err := db.CreateTenantSchema(ctx, pool, name, "./migrations"); err != nil {
				return err
			}
			fmt.Println("Tenant created and migrated successfully.")
			return nil
		},
	}
	createCmd.Flags().String("name", "", "Tenant identifier (alphanumeric)")

	cmd.AddCommand(createCmd)
	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed a demo agency with a manager, carers, and clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.UseMemoryStore() {
				return fmt.Errorf("DATABASE_URL must be set to seed; the dev server seeds its memory store automatically")
			}

			logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			stores := newPGStores(pool)
			svcs := newServices(stores, logger)
			_, err = seedDemoData(ctx, svcs, logger)
			return err
		},
	}
}

// stores bundles the repository set so pg and memory wiring share one shape.
type stores struct {
	agencies agency.AgencyRepository
	users    identity.UserRepository
	clients  client.ClientRepository
	visits   visit.VisitRepository
	alerts   alert.AlertRepository
	tx       db.TxRunner
}

func newPGStores(pool *pgxpool.Pool) stores {
	return stores{
		agencies: agency.NewAgencyRepoPG(pool),
		users:    identity.NewUserRepoPG(pool),
		clients:  client.NewClientRepoPG(pool),
		visits:   visit.NewVisitRepoPG(pool),
		alerts:   alert.NewAlertRepoPG(pool),
		tx:       db.NewPgTxRunner(pool),
	}
}

func newMemStores() stores {
	return stores{
		agencies: agency.NewAgencyRepoMem(),
		users:    identity.NewUserRepoMem(),
		clients:  client.NewClientRepoMem(),
		visits:   visit.NewVisitRepoMem(),
		alerts:   alert.NewAlertRepoMem(),
		tx:       db.NopTxRunner{},
	}
}

// services bundles the domain services behind the HTTP handlers.
type services struct {
	catalog  *catalog.Catalog
	identity *identity.Service
	agency   *agency.Service
	client   *client.Service
	alert    *alert.Service
	visit    *visit.Service
}

func newServices(st stores, logger zerolog.Logger) services {
	cat := catalog.Default()
	scorer := scoring.NewScorer(cat, logger)

	identitySvc := identity.NewService(st.users, logger)
	agencySvc := agency.NewService(st.agencies, identitySvc, st.tx, logger)
	clientSvc := client.NewService(st.clients, identitySvc, logger)
	alertSvc := alert.NewService(st.alerts, logger)
	visitSvc := visit.NewService(st.visits, scorer, alertSvc, clientSvc, identitySvc, st.tx, logger)

	return services{
		catalog:  cat,
		identity: identitySvc,
		agency:   agencySvc,
		client:   clientSvc,
		alert:    alertSvc,
		visit:    visitSvc,
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Storage
	ctx := context.Background()
	var st stores
	var pool *pgxpool.Pool
	if cfg.UseMemoryStore() {
		st = newMemStores()
		logger.Info().Msg("running on in-memory store")
	} else {
		pool, err = db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		st = newPGStores(pool)
		logger.Info().Msg("connected to database")
	}

	svcs := newServices(st, logger)

	// The dev server on a memory store seeds itself so the API is usable
	// out of the box. The seeded agency becomes the default identity for
	// DevAuthMiddleware, so unauthenticated requests land somewhere real.
	devAgencyID := uuid.Nil
	if cfg.IsDev() && cfg.UseMemoryStore() {
		seededAgency, err := seedDemoData(ctx, svcs, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to seed demo data")
		}
		devAgencyID = seededAgency
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.SanitizeWithLogger(logger))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.RequestTimeout(time.Duration(cfg.RequestTimeout) * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", "X-Tenant-ID", "X-Agency-ID", "X-User-ID", "X-Roles"},
	}))

	// Auth middleware
	if cfg.ResolvedAuthMode() == "development" {
		e.Use(auth.DevAuthMiddleware(devAgencyID))
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:   cfg.AuthIssuer,
			Audience: cfg.AuthAudience,
			JWKSURL:  cfg.AuthJWKSURL,
		}))
	}

	// Tenant resolution needs a database; the memory store is single-tenant.
	if pool != nil {
		e.Use(db.TenantMiddleware(pool, cfg.DefaultTenant))
	}

	// Audit middleware
	e.Use(middleware.Audit(logger))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	if pool != nil {
		e.GET("/health/db", db.HealthHandler(pool))
	}

	// API group
	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// The symptom catalog is static reference data; let clients revalidate
	// it with ETags instead of refetching.
	catalogGroup := apiV1.Group("", middleware.ETagMiddleware(middleware.DefaultCacheConfig()))
	catalog.NewHandler(svcs.catalog).RegisterRoutes(catalogGroup)

	agency.NewHandler(svcs.agency).RegisterRoutes(apiV1)
	identity.NewHandler(svcs.identity).RegisterRoutes(apiV1)
	client.NewHandler(svcs.client).RegisterRoutes(apiV1)
	visit.NewHandler(svcs.visit).RegisterRoutes(apiV1)
	alert.NewHandler(svcs.alert).RegisterRoutes(apiV1)

	addr := ":" + cfg.Port
	logger.Info().
		Str("addr", addr).
		Str("env", cfg.Env).
		Str("auth_mode", cfg.ResolvedAuthMode()).
		Bool("memory_store", cfg.UseMemoryStore()).
		Msg("starting server")

	if cfg.TLSEnabled {
		return e.StartTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile)
	}
	return e.Start(addr)
}

// seedDemoData provisions a demo agency with one manager, two carers, and
// two clients assigned to the first carer. Returns the agency id.
func seedDemoData(ctx context.Context, svcs services, logger zerolog.Logger) (uuid.UUID, error) {
	reg, err := svcs.agency.Register(ctx, "Demo Care Agency", "manager@demo.carewatch.local", "Demo Manager")
	if err != nil {
		return uuid.Nil, fmt.Errorf("seed agency: %w", err)
	}
	agencyID := reg.Agency.ID

	carerA, err := svcs.identity.CreateCarer(ctx, agencyID, "carer.a@demo.carewatch.local", "Aisha Carter")
	if err != nil {
		return uuid.Nil, fmt.Errorf("seed carer: %w", err)
	}
	carerB, err := svcs.identity.CreateCarer(ctx, agencyID, "carer.b@demo.carewatch.local", "Ben Osei")
	if err != nil {
		return uuid.Nil, fmt.Errorf("seed carer: %w", err)
	}
	if _, err := svcs.identity.ActivateCarer(ctx, agencyID, carerA.ID); err != nil {
		return uuid.Nil, fmt.Errorf("activate carer: %w", err)
	}
	if _, err := svcs.identity.ActivateCarer(ctx, agencyID, carerB.ID); err != nil {
		return uuid.Nil, fmt.Errorf("activate carer: %w", err)
	}

	ref1 := "DEMO-001"
	ref2 := "DEMO-002"
	clientA, err := svcs.client.CreateClient(ctx, agencyID, "Margaret Hill", &ref1)
	if err != nil {
		return uuid.Nil, fmt.Errorf("seed client: %w", err)
	}
	clientB, err := svcs.client.CreateClient(ctx, agencyID, "Thomas Wade", &ref2)
	if err != nil {
		return uuid.Nil, fmt.Errorf("seed client: %w", err)
	}

	if err := svcs.client.AssignCarer(ctx, agencyID, clientA.ID, carerA.ID); err != nil {
		return uuid.Nil, fmt.Errorf("assign carer: %w", err)
	}
	if err := svcs.client.AssignCarer(ctx, agencyID, clientB.ID, carerA.ID); err != nil {
		return uuid.Nil, fmt.Errorf("assign carer: %w", err)
	}

	logger.Info().
		Str("agency_id", agencyID.String()).
		Str("manager_id", reg.Manager.ID.String()).
		Msg("demo data seeded")
	return agencyID, nil
}
