package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/procat-rest/internal/config"
	"github.com/light-bringer/procat-rest/internal/pkg/logger"
)

var (
	migrateDir = flag.String("migrations", "migrations", "Directory containing postgres/ and spanner/ migrations")
	down       = flag.Bool("down", false, "Roll back every postgres migration")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Env: cfg.Env, File: cfg.Log.File})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(context.Background(), cfg, log); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	log.Info("migrations completed successfully")
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	backend, dsn, err := cfg.Database.Backend()
	if err != nil {
		return err
	}

	switch backend {
	case config.BackendPostgres:
		return migratePostgres(dsn, log)
	case config.BackendSpanner:
		return migrateSpanner(ctx, dsn, log)
	default:
		return fmt.Errorf("unsupported backend %q", backend)
	}
}

func migratePostgres(dsn string, log *zap.Logger) error {
	source := "file://" + filepath.Join(*migrateDir, "postgres")
	log.Info("applying postgres migrations", zap.String("source", source))

	m, err := migrate.New(source, config.MigrateURL(dsn))
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}
	defer m.Close()

	if *down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("no migrations to apply")
		return nil
	}
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read version: %w", err)
	}
	log.Info("postgres schema migrated", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// spannerPath holds the parts of projects/P/instances/I/databases/D.
type spannerPath struct {
	project  string
	instance string
	database string
}

func parseSpannerPath(dsn string) (spannerPath, error) {
	parts := strings.Split(dsn, "/")
	if len(parts) != 6 || parts[0] != "projects" || parts[2] != "instances" || parts[4] != "databases" {
		return spannerPath{}, fmt.Errorf("invalid spanner database path %q", dsn)
	}
	return spannerPath{project: parts[1], instance: parts[3], database: parts[5]}, nil
}

func (p spannerPath) instanceName() string {
	return fmt.Sprintf("projects/%s/instances/%s", p.project, p.instance)
}

func (p spannerPath) databaseName() string {
	return fmt.Sprintf("%s/databases/%s", p.instanceName(), p.database)
}

func migrateSpanner(ctx context.Context, dsn string, log *zap.Logger) error {
	path, err := parseSpannerPath(dsn)
	if err != nil {
		return err
	}

	if host := os.Getenv("SPANNER_EMULATOR_HOST"); host != "" {
		log.Info("using spanner emulator", zap.String("host", host))
	}

	if err := ensureInstance(ctx, path, log); err != nil {
		return fmt.Errorf("failed to ensure instance: %w", err)
	}

	if err := ensureDatabase(ctx, path, log); err != nil {
		return fmt.Errorf("failed to ensure database: %w", err)
	}

	if err := applySpannerMigrations(ctx, path, log); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

func ensureInstance(ctx context.Context, path spannerPath, log *zap.Logger) error {
	log.Info("ensuring instance exists", zap.String("instance", path.instance))

	instanceAdmin, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create instance admin client: %w", err)
	}
	defer instanceAdmin.Close()

	_, err = instanceAdmin.GetInstance(ctx, &instancepb.GetInstanceRequest{
		Name: path.instanceName(),
	})
	if err == nil {
		log.Info("instance already exists")
		return nil
	}

	if status.Code(err) != codes.NotFound {
		log.Warn("unexpected error checking instance", zap.Error(err))
		return nil
	}

	log.Info("creating instance")
	op, err := instanceAdmin.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
		Parent:     fmt.Sprintf("projects/%s", path.project),
		InstanceId: path.instance,
		Instance: &instancepb.Instance{
			Config:      fmt.Sprintf("projects/%s/instanceConfigs/emulator-config", path.project),
			DisplayName: "Development Instance",
			NodeCount:   1,
		},
	})
	if err != nil {
		if status.Code(err) != codes.AlreadyExists {
			return fmt.Errorf("failed to create instance: %w", err)
		}
		return nil
	}

	// The emulator may complete immediately.
	if _, err := op.Wait(ctx); err != nil && status.Code(err) != codes.AlreadyExists {
		log.Warn("instance creation did not complete cleanly", zap.Error(err))
	}

	log.Info("instance created")
	return nil
}

func ensureDatabase(ctx context.Context, path spannerPath, log *zap.Logger) error {
	log.Info("ensuring database exists", zap.String("database", path.database))

	adminClient, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminClient.Close()

	_, err = adminClient.GetDatabase(ctx, &databasepb.GetDatabaseRequest{
		Name: path.databaseName(),
	})
	if err == nil {
		log.Info("database already exists")
		return nil
	}

	if status.Code(err) != codes.NotFound {
		if os.Getenv("SPANNER_EMULATOR_HOST") != "" {
			log.Warn("proceeding with database in emulator mode", zap.Error(err))
			return nil
		}
		return fmt.Errorf("failed to check database: %w", err)
	}

	log.Info("creating database")
	op, err := adminClient.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
		Parent:          path.instanceName(),
		CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", path.database),
	})
	if err != nil {
		if status.Code(err) != codes.AlreadyExists {
			return fmt.Errorf("failed to create database: %w", err)
		}
		return nil
	}

	if _, err := op.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for database creation: %w", err)
	}

	log.Info("database created")
	return nil
}

func applySpannerMigrations(ctx context.Context, path spannerPath, log *zap.Logger) error {
	dir := filepath.Join(*migrateDir, "spanner")

	adminClient, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminClient.Close()

	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to list migration files: %w", err)
	}
	if len(files) == 0 {
		log.Info("no migration files found", zap.String("dir", dir))
		return nil
	}

	for _, file := range files {
		name := filepath.Base(file)
		log.Info("applying migration", zap.String("file", name))

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		op, err := adminClient.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
			Database:   path.databaseName(),
			Statements: splitDDLStatements(string(content)),
		})
		if err != nil {
			return fmt.Errorf("failed to start DDL update for %s: %w", name, err)
		}

		if err := op.Wait(ctx); err != nil {
			// Re-running against an existing schema is not an error.
			if status.Code(err) == codes.FailedPrecondition && strings.Contains(err.Error(), "Duplicate name") {
				log.Info("migration already applied", zap.String("file", name))
				continue
			}
			return fmt.Errorf("failed to apply DDL for %s: %w", name, err)
		}
	}

	return nil
}

func splitDDLStatements(content string) []string {
	var cleaned []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		cleaned = append(cleaned, line)
	}

	var result []string
	for _, stmt := range strings.Split(strings.Join(cleaned, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			result = append(result, stmt)
		}
	}
	return result
}
